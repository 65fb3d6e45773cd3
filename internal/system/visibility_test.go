package system

import (
	"testing"

	"github.com/capitalcove/harbor/internal/nav"
	"github.com/capitalcove/harbor/internal/person"
	"github.com/capitalcove/harbor/internal/world"
)

func TestHidden(t *testing.T) {
	tavern := []world.Building{{ID: "tavern", X: 10, Z: 2, HalfW: 4, HalfD: 4}}
	inFootprint := nav.Vec3{X: 10, Z: 2}
	inMargin := nav.Vec3{X: 15, Z: 2}
	outside := nav.Vec3{X: 16, Z: 2}

	cases := []struct {
		name  string
		state person.State
		pos   nav.Vec3
		want  bool
	}{
		{"walking through", person.Walking, inFootprint, true},
		{"walking in margin", person.Walking, inMargin, true},
		{"walking outside", person.Walking, outside, false},
		{"inside anywhere", person.Inside, outside, true},
		{"working in footprint", person.Working, inFootprint, false},
		{"idle in footprint", person.Idle, inFootprint, false},
		{"despawned", person.Despawn, outside, true},
	}
	for _, tc := range cases {
		p := &person.Person{State: tc.state, Pos: tc.pos}
		if got := Hidden(p, tavern, 1.5); got != tc.want {
			t.Fatalf("%s: expected hidden=%v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestVisibilityRecomputedEveryTick(t *testing.T) {
	h := newHarness(t, world.PhaseBoom, defaultPersonConfig())
	p := h.people.SpawnWorker(0)
	h.tick(step)
	v, _ := h.visuals.Get(p.ID)

	p.Pos = nav.Vec3{X: 10, Z: 2}
	h.tick(step)
	if !v.Hidden {
		t.Fatal("expected walker inside the tavern footprint to be hidden")
	}
	p.Pos = nav.Vec3{X: 0, Z: 0}
	h.tick(step)
	if v.Hidden {
		t.Fatal("expected walker back outside to be visible")
	}
}
