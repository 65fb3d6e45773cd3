package world

import "github.com/capitalcove/harbor/internal/nav"

// Building is one placed structure: its id, centre and XZ half extents.
type Building struct {
	ID    string  `yaml:"id"`
	X     float64 `yaml:"x"`
	Z     float64 `yaml:"z"`
	HalfW float64 `yaml:"half_w"`
	HalfD float64 `yaml:"half_d"`
}

func (b Building) Center() nav.Vec3 { return nav.Vec3{X: b.X, Z: b.Z} }

// Contains reports whether p lies within the footprint grown by margin.
func (b Building) Contains(p nav.Vec3, margin float64) bool {
	return p.X >= b.X-b.HalfW-margin && p.X <= b.X+b.HalfW+margin &&
		p.Z >= b.Z-b.HalfD-margin && p.Z <= b.Z+b.HalfD+margin
}

// Placements lists the buildings currently standing.
type Placements interface {
	Buildings() []Building
}

// Find returns the building with the given id.
func Find(p Placements, id string) (Building, bool) {
	if p == nil {
		return Building{}, false
	}
	for _, b := range p.Buildings() {
		if b.ID == id {
			return b, true
		}
	}
	return Building{}, false
}
