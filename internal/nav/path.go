package nav

// Path is an ordered list of waypoints with a cursor on the next one.
type Path struct {
	Points []Vec3
	Index  int
}

func NewPath(points ...Vec3) Path {
	return Path{Points: points}
}

// Target returns the waypoint currently being approached.
func (p *Path) Target() (Vec3, bool) {
	if p.Index < 0 || p.Index >= len(p.Points) {
		return Vec3{}, false
	}
	return p.Points[p.Index], true
}

// Advance moves the cursor forward and reports whether waypoints remain.
func (p *Path) Advance() bool {
	p.Index++
	return p.Index < len(p.Points)
}

func (p *Path) Done() bool { return p.Index >= len(p.Points) }

// Final returns the last waypoint of the path.
func (p *Path) Final() (Vec3, bool) {
	if len(p.Points) == 0 {
		return Vec3{}, false
	}
	return p.Points[len(p.Points)-1], true
}
