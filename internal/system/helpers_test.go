package system

import (
	"math/rand"
	"testing"
	"time"

	"github.com/capitalcove/harbor/internal/boat"
	"github.com/capitalcove/harbor/internal/component"
	"github.com/capitalcove/harbor/internal/core/ecs"
	"github.com/capitalcove/harbor/internal/core/event"
	coresys "github.com/capitalcove/harbor/internal/core/system"
	"github.com/capitalcove/harbor/internal/data"
	"github.com/capitalcove/harbor/internal/nav"
	"github.com/capitalcove/harbor/internal/person"
	"github.com/capitalcove/harbor/internal/scripting"
	"github.com/capitalcove/harbor/internal/world"
	"go.uber.org/zap/zaptest"
)

const testLayout = `
points:
  - { key: dock, x: 0, z: 40 }
  - { key: plaza, x: 0, z: 0 }
  - { key: tavernPorch, x: 10, z: -5, building: tavern, dz: -7 }
  - { key: hq, x: -12, z: -10 }
  - { key: shipyard, x: 20, z: 10 }
  - { key: shipyardExit, x: 30, z: 30 }
  - { key: raniSpot, x: -14, z: -6 }
  - { key: hillPath, x: 0, z: -30 }
routes:
  visitor_in: [hillPath, plaza, tavernPorch]
  visitor_out: [plaza, hillPath]
  runner_out: [dock, plaza, hq]
  runner_back: [plaza, dock]
  worker_in: [plaza, shipyard]
  worker_out: [shipyardExit]
`

var testPlacements = world.StaticPlacements{
	{ID: "tavern", X: 10, Z: 2, HalfW: 4, HalfD: 4},
}

type harness struct {
	world   *ecs.World
	bus     *event.Bus
	visuals *ecs.PtrComponentStore[component.Visual]
	static  *world.Static
	boats   *BoatSystem
	people  *PersonSystem
	runner  *coresys.Runner
}

func newHarness(t *testing.T, phase world.Phase, cfg PersonConfig) *harness {
	t.Helper()
	layout, err := data.ParseLayout([]byte(testLayout))
	if err != nil {
		t.Fatalf("parse layout: %v", err)
	}
	log := zaptest.NewLogger(t)
	h := &harness{
		world:  ecs.NewWorld(),
		bus:    event.NewBus(),
		static: world.NewStatic(phase),
		runner: coresys.NewRunner(),
	}
	// below the visitor threshold unless a test raises it
	h.static.SetMarketHealth(0.1)
	h.visuals = NewVisualStore(h.world)
	rules := scripting.DefaultRules{}
	h.boats = NewBoatSystem(h.world, h.bus, h.visuals, boat.DefaultHarbor(), boat.DefaultTuning(),
		h.static, h.static, rules, rand.New(rand.NewSource(1)), log)
	h.people = NewPersonSystem(h.world, h.bus, h.visuals, layout, testPlacements, nav.Flat(2),
		cfg, person.DefaultTuning(), h.static, rules, rand.New(rand.NewSource(2)), log)

	h.runner.Register(NewCleanupSystem(h.world, log))
	h.runner.Register(NewVisibilitySystem(h.people, h.visuals))
	h.runner.Register(h.boats)
	h.runner.Register(h.people)
	h.runner.Register(NewEventDispatchSystem(h.bus))
	return h
}

func defaultPersonConfig() PersonConfig {
	return PersonConfig{Radius: 95, Plateau: 2, Margin: 1.5}
}

func (h *harness) tick(dt time.Duration) { h.runner.Tick(dt) }

// runUntil ticks until cond holds or max ticks pass; it returns the ticks used.
func (h *harness) runUntil(dt time.Duration, max int, cond func() bool) int {
	for i := 0; i < max; i++ {
		if cond() {
			return i
		}
		h.tick(dt)
	}
	return max
}

// collect records every delivered event of type T.
func collect[T any](bus *event.Bus) *[]T {
	var got []T
	event.Subscribe(bus, func(e T) { got = append(got, e) })
	return &got
}
