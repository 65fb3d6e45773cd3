package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/capitalcove/harbor/internal/world"
)

type placementsFile struct {
	Buildings []world.Building `yaml:"buildings"`
}

// LoadPlacements loads a building placement list. The headless host uses it
// in place of the world-construction collaborator.
func LoadPlacements(path string) (world.StaticPlacements, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read placements: %w", err)
	}
	var f placementsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse placements: %w", err)
	}
	seen := make(map[string]bool, len(f.Buildings))
	for _, b := range f.Buildings {
		if seen[b.ID] {
			return nil, fmt.Errorf("placements: duplicate building %q", b.ID)
		}
		seen[b.ID] = true
	}
	return world.StaticPlacements(f.Buildings), nil
}
