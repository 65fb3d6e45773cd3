// Package component holds the parameter blocks the rendering collaborator
// reads. Pure data; systems write them after each update.
package component

import "github.com/capitalcove/harbor/internal/nav"

// Visual is what the renderer needs to draw one boat or person, keyed by
// the entity id of its behavior record.
type Visual struct {
	Hidden    bool
	Pos       nav.Vec3
	Heading   float64
	AnimPhase float64

	// boats
	Rock        float64
	CargoScale  float64
	Crates      int
	Hint        bool
	TechVisuals bool

	// people
	Cargo bool
}

// NewVisual is a visible block with no cargo or props.
func NewVisual() *Visual {
	return &Visual{}
}

// WakeLife is how long a wake particle lives, in seconds.
const WakeLife = 2.0

// Wake is a transient foam particle left behind a moving boat.
type Wake struct {
	Pos nav.Vec3
	Age float64
}

// Opacity fades linearly from 1 to 0 over the particle's life.
func (w Wake) Opacity() float64 { return 1 - w.Age/WakeLife }

// Scale expands linearly from 1 to 3 over the particle's life.
func (w Wake) Scale() float64 { return 1 + w.Age }

// AgeWakes advances every particle by dt and drops the expired ones in place.
func AgeWakes(wakes []Wake, dt float64) []Wake {
	out := wakes[:0]
	for _, w := range wakes {
		w.Age += dt
		if w.Age < WakeLife {
			out = append(out, w)
		}
	}
	for i := len(out); i < len(wakes); i++ {
		wakes[i] = Wake{}
	}
	return out
}
