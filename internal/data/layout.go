package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/capitalcove/harbor/internal/boat"
	"github.com/capitalcove/harbor/internal/nav"
	"github.com/capitalcove/harbor/internal/world"
)

// PointEntry is one named navigation anchor. When Building is set and that
// building is placed, the point sits at the building centre plus (DX, DZ);
// otherwise X/Z are used as the fallback coordinates.
type PointEntry struct {
	Key      string  `yaml:"key"`
	X        float64 `yaml:"x"`
	Z        float64 `yaml:"z"`
	Building string  `yaml:"building"`
	DX       float64 `yaml:"dx"`
	DZ       float64 `yaml:"dz"`
}

type xz struct {
	X float64 `yaml:"x"`
	Z float64 `yaml:"z"`
}

func (p xz) vec() nav.Vec3 { return nav.Vec3{X: p.X, Z: p.Z} }

type BerthEntry struct {
	Dock     xz `yaml:"dock"`
	Approach xz `yaml:"approach"`
}

type HarborEntry struct {
	Exit      *xz          `yaml:"exit"`
	Waterline float64      `yaml:"waterline"`
	Berths    []BerthEntry `yaml:"berths"`
	Fishing   *struct {
		MinX float64 `yaml:"min_x"`
		MaxX float64 `yaml:"max_x"`
		MinZ float64 `yaml:"min_z"`
		MaxZ float64 `yaml:"max_z"`
	} `yaml:"fishing"`
	Bounds *struct {
		MinX float64 `yaml:"min_x"`
		MaxX float64 `yaml:"max_x"`
		MinZ float64 `yaml:"min_z"`
		MaxZ float64 `yaml:"max_z"`
	} `yaml:"bounds"`
}

// FleetEntry places one boat of Type at berth Slot.
type FleetEntry struct {
	Type string `yaml:"type"`
	Slot int    `yaml:"slot"`
}

// Layout is the authored harbor: navigation anchors, named routes, berths
// and an optional explicit starting fleet.
type Layout struct {
	Points []PointEntry        `yaml:"points"`
	Routes map[string][]string `yaml:"routes"`
	Harbor HarborEntry         `yaml:"harbor"`
	Fleet  []FleetEntry        `yaml:"fleet"`
}

// LoadLayout loads layout.yaml.
func LoadLayout(path string) (*Layout, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return ParseLayout(raw)
}

// ParseLayout decodes a layout document and checks route references.
func ParseLayout(raw []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	known := make(map[string]bool, len(l.Points))
	for _, p := range l.Points {
		if p.Key == "" {
			return nil, fmt.Errorf("layout point without key")
		}
		known[p.Key] = true
	}
	for name, keys := range l.Routes {
		for _, k := range keys {
			if !known[k] {
				return nil, fmt.Errorf("route %s: unknown point %q", name, k)
			}
		}
	}
	return &l, nil
}

// Anchors resolves every point against the current placements. Points whose
// building is not placed yet fall back to their default coordinates.
func (l *Layout) Anchors(p world.Placements) map[string]nav.Vec3 {
	out := make(map[string]nav.Vec3, len(l.Points))
	for _, e := range l.Points {
		pos := nav.Vec3{X: e.X, Z: e.Z}
		if e.Building != "" {
			if b, ok := world.Find(p, e.Building); ok {
				pos = nav.Vec3{X: b.X + e.DX, Z: b.Z + e.DZ}
			}
		}
		out[e.Key] = pos
	}
	return out
}

// Route names the simulation walks.
const (
	RouteVisitorIn  = "visitor_in"
	RouteVisitorOut = "visitor_out"
	RouteRunnerOut  = "runner_out"
	RouteRunnerBack = "runner_back"
	RouteWorkerIn   = "worker_in"
	RouteWorkerOut  = "worker_out"
)

var RequiredRoutes = []string{
	RouteVisitorIn, RouteVisitorOut,
	RouteRunnerOut, RouteRunnerBack,
	RouteWorkerIn, RouteWorkerOut,
}

// MissingRoutes lists required routes that are absent or empty.
func (l *Layout) MissingRoutes() []string {
	var out []string
	for _, name := range RequiredRoutes {
		if len(l.Routes[name]) == 0 {
			out = append(out, name)
		}
	}
	return out
}

// Route returns the keys of a named route.
func (l *Layout) Route(name string) []string {
	return l.Routes[name]
}

// HarborGeometry converts the harbor section, filling gaps from boat.DefaultHarbor.
func (l *Layout) HarborGeometry() boat.Harbor {
	h := boat.DefaultHarbor()
	src := l.Harbor
	if src.Exit != nil {
		h.Exit = src.Exit.vec()
	}
	h.Waterline = src.Waterline
	if len(src.Berths) > 0 {
		h.Berths = h.Berths[:0]
		for _, b := range src.Berths {
			h.Berths = append(h.Berths, boat.Berth{Dock: b.Dock.vec(), Approach: b.Approach.vec()})
		}
	}
	if f := src.Fishing; f != nil {
		h.Fishing = boat.Area{MinX: f.MinX, MaxX: f.MaxX, MinZ: f.MinZ, MaxZ: f.MaxZ}
	}
	if b := src.Bounds; b != nil {
		h.Bounds = nav.Bounds{MinX: b.MinX, MaxX: b.MaxX, MinZ: b.MinZ, MaxZ: b.MaxZ}
	}
	return h
}
