package nav

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// Ground reports the walkable surface height at an XZ position.
type Ground interface {
	Height(x, z float64) float64
}

// Terrain is the island heightfield: a noisy plateau that falls below the
// waterline across a shoreline band ending at Radius.
type Terrain struct {
	noise opensimplex.Noise

	Radius    float64
	Plateau   float64
	Amplitude float64
	Frequency float64
	Shore     float64
}

// NewTerrain seeds the plateau noise. The same seed always yields the same island.
func NewTerrain(seed int64, radius, plateau float64) *Terrain {
	return &Terrain{
		noise:     opensimplex.New(seed),
		Radius:    radius,
		Plateau:   plateau,
		Amplitude: 0.6,
		Frequency: 0.04,
		Shore:     12,
	}
}

func (t *Terrain) Height(x, z float64) float64 {
	h := t.Plateau + t.Amplitude*t.noise.Eval2(x*t.Frequency, z*t.Frequency)
	edge := t.Radius - t.Shore
	if r := math.Hypot(x, z); r > edge && t.Shore > 0 {
		h -= (r - edge) / t.Shore * (t.Plateau + t.Amplitude + 1)
	}
	return h
}

// SnapY returns p resting on g. Negative heights are raised to plateau:
// nobody stands underwater.
func SnapY(g Ground, p Vec3, plateau float64) Vec3 {
	if g == nil {
		return p.WithY(plateau)
	}
	y := g.Height(p.X, p.Z)
	if y < 0 {
		y = plateau
	}
	return p.WithY(y)
}

// Flat is a constant-height Ground.
type Flat float64

func (f Flat) Height(_, _ float64) float64 { return float64(f) }
