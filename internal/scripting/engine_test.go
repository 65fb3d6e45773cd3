package scripting

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/capitalcove/harbor/internal/boat"
)

func newTestEngine(t *testing.T, script string) *Engine {
	t.Helper()
	dir := t.TempDir()
	if script != "" {
		rules := filepath.Join(dir, "rules")
		if err := os.MkdirAll(rules, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(rules, "test.lua"), []byte(script), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	e, err := NewEngine(dir, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestEngineFallsBackWithoutScripts(t *testing.T) {
	e := newTestEngine(t, "")
	ctx := TripContext{BoatType: boat.Motor, MarketHealth: 0.5}
	if got, want := e.TripPayout(ctx), (DefaultRules{}).TripPayout(ctx); got != want {
		t.Fatalf("expected default payout %+v, got %+v", want, got)
	}
	if _, ok := e.VisitorInterval(0.1); ok {
		t.Fatal("expected no visitors below 0.2 health")
	}
}

func TestEngineUsesScriptedRules(t *testing.T) {
	e := newTestEngine(t, `
function trip_payout(ctx) return { revenue = ctx.crates * 100, catch = 7 } end
function visitor_interval(h) if h < 0.5 then return nil end return 4 end
`)
	if got := e.TripPayout(TripContext{Crates: 3}); got.Revenue != 300 || got.Catch != 7 {
		t.Fatalf("expected scripted payout, got %+v", got)
	}
	if v, ok := e.VisitorInterval(0.9); !ok || v != 4 {
		t.Fatalf("expected scripted interval 4, got %v %v", v, ok)
	}
	if _, ok := e.VisitorInterval(0.3); ok {
		t.Fatal("expected nil interval to disable spawns")
	}
}

func TestEngineFallsBackOnScriptError(t *testing.T) {
	e := newTestEngine(t, `function trip_payout(ctx) error("boom") end`)
	ctx := TripContext{BoatType: boat.Row, MarketHealth: 0.5}
	if got := e.TripPayout(ctx); got != (DefaultRules{}).TripPayout(ctx) {
		t.Fatalf("expected fallback payout after error, got %+v", got)
	}
}

func TestShippedScriptMatchesDefaults(t *testing.T) {
	e, err := NewEngine(filepath.Join("..", "..", "scripts"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("load shipped scripts: %v", err)
	}
	defer e.Close()
	var d DefaultRules
	for _, h := range []float64{0, 0.19, 0.2, 0.49, 0.5, 0.7, 0.94, 0.95, 1} {
		gv, gok := e.VisitorInterval(h)
		dv, dok := d.VisitorInterval(h)
		if gok != dok || math.Abs(gv-dv) > 1e-9 {
			t.Fatalf("health %.2f: script %v/%v, default %v/%v", h, gv, gok, dv, dok)
		}
	}
	for _, typ := range boat.Types {
		ctx := TripContext{BoatType: typ, MarketHealth: 0.65, Net: "nylon", Crates: 2}
		if got, want := e.TripPayout(ctx), d.TripPayout(ctx); got != want {
			t.Fatalf("%s: script %+v, default %+v", typ, got, want)
		}
	}
}

func TestVisitorIntervalShortensWithHealth(t *testing.T) {
	var d DefaultRules
	prev := math.Inf(1)
	for h := 0.2; h <= 1.0; h += 0.05 {
		v, ok := d.VisitorInterval(h)
		if !ok {
			t.Fatalf("expected spawns at health %.2f", h)
		}
		if v > prev {
			t.Fatalf("interval grew from %.2f to %.2f at health %.2f", prev, v, h)
		}
		prev = v
	}
}
