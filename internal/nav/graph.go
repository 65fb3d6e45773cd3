package nav

import (
	"math/rand"
	"sort"
)

// Graph maps location keys ("dock", "tavernPorch", "hq") to points that are
// clamped to the island and resting on the ground. A Graph is never mutated
// after BuildGraph; layout changes produce a new one.
type Graph struct {
	points map[string]Vec3
}

// GraphConfig bounds where graph points may land.
type GraphConfig struct {
	Radius  float64
	Plateau float64
}

// BuildGraph clamps every raw point to cfg.Radius (projecting outliers back
// onto the boundary) and snaps it to ground height.
func BuildGraph(raw map[string]Vec3, ground Ground, cfg GraphConfig) *Graph {
	g := &Graph{points: make(map[string]Vec3, len(raw))}
	for key, p := range raw {
		g.points[key] = SnapY(ground, ClampRadius(p, cfg.Radius), cfg.Plateau)
	}
	return g
}

func (g *Graph) Point(key string) (Vec3, bool) {
	if g == nil {
		return Vec3{}, false
	}
	p, ok := g.points[key]
	return p, ok
}

func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.points)
}

// Keys returns the graph keys in sorted order.
func (g *Graph) Keys() []string {
	keys := make([]string, 0, g.Len())
	if g == nil {
		return keys
	}
	for k := range g.points {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Route is a named ordered list of graph keys.
type Route struct {
	Name string
	Keys []string
}

// Instantiate turns keys into a concrete Path. Unknown keys are skipped.
// Every point but the last gets up to ±jitter of XZ noise so crowds don't
// walk single file; the final point stays exact.
func (g *Graph) Instantiate(keys []string, jitter float64, rng *rand.Rand) Path {
	pts := make([]Vec3, 0, len(keys))
	for _, k := range keys {
		if p, ok := g.Point(k); ok {
			pts = append(pts, p)
		}
	}
	if jitter > 0 && rng != nil {
		for i := 0; i < len(pts)-1; i++ {
			pts[i].X += (rng.Float64()*2 - 1) * jitter
			pts[i].Z += (rng.Float64()*2 - 1) * jitter
		}
	}
	return Path{Points: pts}
}
