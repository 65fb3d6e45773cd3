package system

import (
	"time"

	"github.com/capitalcove/harbor/internal/component"
	"github.com/capitalcove/harbor/internal/core/ecs"
	coresys "github.com/capitalcove/harbor/internal/core/system"
	"github.com/capitalcove/harbor/internal/person"
	"github.com/capitalcove/harbor/internal/world"
)

// NewVisualStore creates the shared visual store and registers it so
// destroyed entities lose their visuals too.
func NewVisualStore(w *ecs.World) *ecs.PtrComponentStore[component.Visual] {
	s := ecs.NewPtrComponentStore[component.Visual]()
	w.Registry().Register("visuals", s)
	return s
}

// VisibilitySystem hides people who are indoors or walking through a
// building footprint. Recomputed every tick from current positions.
// Phase 3 (PostUpdate).
type VisibilitySystem struct {
	people  *PersonSystem
	visuals *ecs.PtrComponentStore[component.Visual]
}

func NewVisibilitySystem(people *PersonSystem, visuals *ecs.PtrComponentStore[component.Visual]) *VisibilitySystem {
	return &VisibilitySystem{people: people, visuals: visuals}
}

func (s *VisibilitySystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *VisibilitySystem) Update(_ time.Duration) {
	buildings := buildingsOf(s.people.Placements())
	margin := s.people.Margin()
	ecs.Each2(s.people.Store(), s.visuals, func(_ ecs.EntityID, p *person.Person, v *component.Visual) {
		v.Hidden = Hidden(p, buildings, margin)
	})
}

// Hidden reports whether p should not be drawn this tick.
func Hidden(p *person.Person, buildings []world.Building, margin float64) bool {
	switch p.State {
	case person.Inside, person.Despawn:
		return true
	case person.Walking:
		for _, b := range buildings {
			if b.Contains(p.Pos, margin) {
				return true
			}
		}
	}
	return false
}

func buildingsOf(p world.Placements) []world.Building {
	if p == nil {
		return nil
	}
	return p.Buildings()
}
