// Package world is the read-only boundary between the entity core and its
// collaborators: the narrative director, the economy and the building
// placements produced by world construction. The core never writes here.
package world

import (
	"fmt"
	"strings"
)

// Phase names a stage of the story progression.
type Phase string

const (
	PhaseTutorial   Phase = "TUTORIAL"
	PhaseBoom       Phase = "BOOM"
	PhaseCrunch     Phase = "CRUNCH"
	PhaseStagnation Phase = "STAGNATION"
	PhaseRecovery   Phase = "RECOVERY"
)

// Flags is the director's flag bag as seen by the core.
type Flags struct {
	TutorialIncomeCollected bool `toml:"tutorial_income_collected"`
	TutorialComplete        bool `toml:"tutorial_complete"`
	DecisionReleased        bool `toml:"decision_released"`
	FuelRequired            bool `toml:"fuel_required"` // tutorial start waits for a fuel purchase
	CrunchSequence          bool `toml:"crunch_sequence"`
	ForceDockLock           bool `toml:"force_dock_lock"`
	TechPurchased           bool `toml:"tech_purchased"`
	TripsThisPhase          int  `toml:"trips_this_phase"`
}

// Director gates which transitions are legal.
type Director interface {
	Phase() Phase
	Flags() Flags
}

// Engine and net technology identifiers published by the economy.
const (
	EngineNone  = ""
	EngineSteam = "steam"

	NetBasic = ""
	NetNylon = "nylon"
)

// Economy exposes the economic signals the core reacts to.
type Economy interface {
	MarketHealth() float64
	Saving() bool
	Engine() string
	Net() string
}

// Snapshot is one tick's frozen view of the director and the economy.
// Entities read it; nothing writes back through it.
type Snapshot struct {
	Phase        Phase
	Flags        Flags
	MarketHealth float64
	Saving       bool
	Engine       string
	Net          string
}

// Capture reads both collaborators once. Either may be nil.
func Capture(d Director, e Economy) Snapshot {
	var s Snapshot
	if d != nil {
		s.Phase = d.Phase()
		s.Flags = d.Flags()
	}
	if e != nil {
		s.MarketHealth = clamp01(e.MarketHealth())
		s.Saving = e.Saving()
		s.Engine = e.Engine()
		s.Net = e.Net()
	}
	return s
}

// Crisis reports the savings-mode slump where boats crawl.
func (s Snapshot) Crisis() bool {
	return s.Saving && s.MarketHealth < 0.2
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ParsePhase accepts a phase name in any case.
func ParsePhase(s string) (Phase, error) {
	p := Phase(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case PhaseTutorial, PhaseBoom, PhaseCrunch, PhaseStagnation, PhaseRecovery:
		return p, nil
	}
	return "", fmt.Errorf("unknown phase %q", s)
}
