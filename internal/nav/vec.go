// Package nav holds the movement primitives shared by boats and people:
// the per-tick step toward a waypoint, heading smoothing, the island ground
// height and the named waypoint graph that routes are instantiated from.
package nav

import "math"

// Vec3 is a world-space point. Y is up; movement happens on the XZ plane.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) DistXZ(o Vec3) float64 { return math.Hypot(o.X-v.X, o.Z-v.Z) }
func (v Vec3) WithY(y float64) Vec3  { return Vec3{v.X, y, v.Z} }

// ClampRadius projects p back onto the circle of the given radius around the
// origin when it lies outside. Y is left alone; radius <= 0 disables it.
func ClampRadius(p Vec3, radius float64) Vec3 {
	if r := math.Hypot(p.X, p.Z); radius > 0 && r > radius {
		f := radius / r
		p.X *= f
		p.Z *= f
	}
	return p
}
