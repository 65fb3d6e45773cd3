// layoutcheck resolves the harbor layout against the building placements
// and the island terrain, and prints the resulting nav graph and route
// lengths as YAML. It exits non-zero when a required route is missing.
//
// Usage:
//
//	go run ./cmd/layoutcheck [-layout data/yaml/layout.yaml] [-placements data/yaml/placements.yaml]
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/capitalcove/harbor/internal/data"
	"github.com/capitalcove/harbor/internal/nav"
)

type pointReport struct {
	Key string  `yaml:"key"`
	X   float64 `yaml:"x"`
	Y   float64 `yaml:"y"`
	Z   float64 `yaml:"z"`
}

type routeReport struct {
	Name   string   `yaml:"name"`
	Keys   []string `yaml:"keys"`
	Length float64  `yaml:"length"`
}

type report struct {
	Points  []pointReport `yaml:"points"`
	Routes  []routeReport `yaml:"routes"`
	Berths  int           `yaml:"berths"`
	Missing []string      `yaml:"missing_routes,omitempty"`
}

func main() {
	layoutPath := flag.String("layout", "data/yaml/layout.yaml", "layout file")
	placementsPath := flag.String("placements", "data/yaml/placements.yaml", "placements file")
	seed := flag.Int64("seed", 7, "island terrain seed")
	radius := flag.Float64("radius", 95, "island radius")
	plateau := flag.Float64("plateau", 2, "plateau height")
	flag.Parse()

	if err := run(*layoutPath, *placementsPath, *seed, *radius, *plateau); err != nil {
		fmt.Fprintf(os.Stderr, "layoutcheck: %v\n", err)
		os.Exit(1)
	}
}

func run(layoutPath, placementsPath string, seed int64, radius, plateau float64) error {
	l, err := data.LoadLayout(layoutPath)
	if err != nil {
		return err
	}
	p, err := data.LoadPlacements(placementsPath)
	if err != nil {
		return err
	}
	g := nav.BuildGraph(l.Anchors(p), nav.NewTerrain(seed, radius, plateau), nav.GraphConfig{
		Radius:  radius,
		Plateau: plateau,
	})

	var r report
	for _, key := range g.Keys() {
		pt, _ := g.Point(key)
		r.Points = append(r.Points, pointReport{Key: key, X: pt.X, Y: pt.Y, Z: pt.Z})
	}
	names := make([]string, 0, len(l.Routes))
	for name := range l.Routes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		keys := l.Route(name)
		r.Routes = append(r.Routes, routeReport{Name: name, Keys: keys, Length: routeLength(g, keys)})
	}
	r.Berths = len(l.HarborGeometry().Berths)
	r.Missing = l.MissingRoutes()

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if len(r.Missing) > 0 {
		return fmt.Errorf("missing routes %v", r.Missing)
	}
	return nil
}

// routeLength is the walked XZ distance along the unjittered route.
func routeLength(g *nav.Graph, keys []string) float64 {
	path := g.Instantiate(keys, 0, nil)
	total := 0.0
	for i := 1; i < len(path.Points); i++ {
		total += path.Points[i-1].DistXZ(path.Points[i])
	}
	return total
}
