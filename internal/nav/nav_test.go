package nav

import (
	"math"
	"math/rand"
	"testing"
)

var wide = Bounds{MinX: -1000, MaxX: 1000, MinZ: -1000, MaxZ: 1000}

func TestStepArrivesIffWithinThreshold(t *testing.T) {
	for _, threshold := range []float64{BoatArrival, PersonArrival} {
		rng := rand.New(rand.NewSource(3))
		for i := 0; i < 500; i++ {
			pos := Vec3{X: rng.Float64()*40 - 20, Z: rng.Float64()*40 - 20}
			target := Vec3{X: rng.Float64()*40 - 20, Z: rng.Float64()*40 - 20}
			speed := 1 + rng.Float64()*20
			dt := 0.01 + rng.Float64()*0.1

			before := pos.DistXZ(target)
			arrived := Step(&pos, target, speed, dt, wide, threshold)
			after := pos.DistXZ(target)

			if arrived != (after < threshold) {
				t.Fatalf("arrived=%v but distance %.4f vs threshold %.2f", arrived, after, threshold)
			}
			if before >= threshold && math.Abs((before-after)-math.Min(speed*dt, before)) > 1e-9 {
				t.Fatalf("expected to cover %.4f, covered %.4f", math.Min(speed*dt, before), before-after)
			}
		}
	}
}

func TestStepNeverOvershoots(t *testing.T) {
	pos := Vec3{}
	target := Vec3{X: 3}
	if !Step(&pos, target, 100, 1, wide, PersonArrival) {
		t.Fatal("expected arrival when the step covers the whole distance")
	}
	if pos.X != 3 || pos.Z != 0 {
		t.Fatalf("expected to stop on the target, got %+v", pos)
	}
}

func TestStepHoldsPositionInsideThreshold(t *testing.T) {
	pos := Vec3{X: 0.5}
	if !Step(&pos, Vec3{}, 10, 1, wide, PersonArrival) {
		t.Fatal("expected immediate arrival")
	}
	if pos.X != 0.5 {
		t.Fatalf("expected no movement once arrived, got %+v", pos)
	}
}

func TestStepClampsToBounds(t *testing.T) {
	b := Bounds{MinX: -10, MaxX: 10, MinZ: -10, MaxZ: 10}
	pos := Vec3{X: 9}
	arrived := Step(&pos, Vec3{X: 50}, 5, 1, b, BoatArrival)
	if arrived {
		t.Fatal("expected no arrival at an out-of-bounds target")
	}
	if pos.X != 10 {
		t.Fatalf("expected clamp at x=10, got %.2f", pos.X)
	}
}

func TestTurnTowardTakesShortestArc(t *testing.T) {
	cur := math.Pi - 0.1
	target := -math.Pi + 0.1
	next := TurnToward(cur, target, TurnRate, 0.02)
	if next < cur && next > 0 {
		t.Fatalf("expected to turn through pi, got %.4f from %.4f", next, cur)
	}
	if got := TurnToward(0, 1, TurnRate, 1); got != 1 {
		t.Fatalf("expected full snap when rate*dt >= 1, got %.4f", got)
	}
	half := TurnToward(0, 1, TurnRate, 0.1)
	if math.Abs(half-0.5) > 1e-9 {
		t.Fatalf("expected half turn, got %.4f", half)
	}
}

func TestHeadingFacesPositiveZ(t *testing.T) {
	if h := Heading(Vec3{}, Vec3{Z: 5}); h != 0 {
		t.Fatalf("expected 0, got %.4f", h)
	}
	if h := Heading(Vec3{}, Vec3{X: 5}); math.Abs(h-math.Pi/2) > 1e-9 {
		t.Fatalf("expected pi/2, got %.4f", h)
	}
}

func TestSteerKeepsHeadingWithoutSeparation(t *testing.T) {
	at := Vec3{X: 4, Y: 1, Z: -3}
	if got := Steer(2.5, at, at.WithY(7), TurnRate, 0.1); got != 2.5 {
		t.Fatalf("expected heading kept at 2.5 on top of the target, got %.4f", got)
	}
	want := TurnToward(2.5, Heading(at, Vec3{X: 10}), TurnRate, 0.1)
	if got := Steer(2.5, at, Vec3{X: 10}, TurnRate, 0.1); got != want {
		t.Fatalf("expected %.4f, got %.4f", want, got)
	}
}

func TestClampRadius(t *testing.T) {
	inside := Vec3{X: 30, Y: 5, Z: -40}
	if got := ClampRadius(inside, 95); got != inside {
		t.Fatalf("expected inside point untouched, got %+v", got)
	}
	got := ClampRadius(Vec3{X: -50, Y: 2, Z: 95}, 95)
	if r := math.Hypot(got.X, got.Z); math.Abs(r-95) > 1e-9 || got.Y != 2 {
		t.Fatalf("expected projection onto radius 95 keeping y, got %+v (r=%.4f)", got, r)
	}
	if got := ClampRadius(Vec3{X: 500}, 0); got.X != 500 {
		t.Fatalf("expected zero radius to disable clamping, got %+v", got)
	}
}

func TestBuildGraphClampsAndSnaps(t *testing.T) {
	terrain := NewTerrain(1, 95, 2)
	g := BuildGraph(map[string]Vec3{
		"plaza": {X: 0, Z: 0},
		"far":   {X: 300, Z: 0},
	}, terrain, GraphConfig{Radius: 95, Plateau: 2})

	far, ok := g.Point("far")
	if !ok {
		t.Fatal("expected far point")
	}
	if r := math.Hypot(far.X, far.Z); math.Abs(r-95) > 1e-9 {
		t.Fatalf("expected projection onto radius 95, got %.4f", r)
	}
	if far.Y != 2 {
		t.Fatalf("expected boundary point raised to plateau, got %.4f", far.Y)
	}
	plaza, _ := g.Point("plaza")
	if plaza.Y < 0 {
		t.Fatalf("expected plaza on dry land, got %.4f", plaza.Y)
	}
	if got := g.Keys(); len(got) != 2 || got[0] != "far" || got[1] != "plaza" {
		t.Fatalf("expected sorted keys, got %v", got)
	}
}

func TestInstantiateKeepsFinalPointExact(t *testing.T) {
	g := BuildGraph(map[string]Vec3{
		"a": {X: 0, Z: 0},
		"b": {X: 10, Z: 0},
		"c": {X: 10, Z: 10},
	}, Flat(1), GraphConfig{Radius: 95, Plateau: 1})

	p := g.Instantiate([]string{"a", "missing", "b", "c"}, 1.5, rand.New(rand.NewSource(9)))
	if len(p.Points) != 3 {
		t.Fatalf("expected unknown keys skipped, got %d points", len(p.Points))
	}
	c, _ := g.Point("c")
	if final, _ := p.Final(); final != c {
		t.Fatalf("expected exact final point %+v, got %+v", c, final)
	}
	a, _ := g.Point("a")
	if p.Points[0].DistXZ(a) > 1.5*math.Sqrt2 {
		t.Fatalf("jitter exceeded bound: %+v vs %+v", p.Points[0], a)
	}
}

func TestPathCursor(t *testing.T) {
	p := NewPath(Vec3{X: 1}, Vec3{X: 2})
	if tgt, ok := p.Target(); !ok || tgt.X != 1 {
		t.Fatalf("expected first waypoint, got %+v %v", tgt, ok)
	}
	if !p.Advance() {
		t.Fatal("expected a second waypoint")
	}
	if p.Advance() {
		t.Fatal("expected path exhausted")
	}
	if !p.Done() {
		t.Fatal("expected Done")
	}
	if _, ok := p.Target(); ok {
		t.Fatal("expected no target on a finished path")
	}
}
