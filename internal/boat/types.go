// Package boat implements the per-boat fishing-trip state machine.
package boat

import (
	"fmt"
	"strings"
)

// Type is the hull class of a boat.
type Type uint8

const (
	Row Type = iota
	Motor
	Trawler
)

// Types lists every hull class in tier order.
var Types = [...]Type{Row, Motor, Trawler}

func (t Type) String() string {
	switch t {
	case Row:
		return "row"
	case Motor:
		return "motor"
	case Trawler:
		return "trawler"
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// Powered reports whether the hull has an engine.
func (t Type) Powered() bool { return t != Row }

// ParseType accepts the lower-case names used in data files and events.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "row", "rowboat":
		return Row, nil
	case "motor", "motorboat":
		return Motor, nil
	case "trawler":
		return Trawler, nil
	}
	return 0, fmt.Errorf("unknown boat type %q", s)
}

// State is a boat's behavior mode.
type State uint8

const (
	WaitingForCommand State = iota
	WaitingForDecision
	WaitingForSequence
	WaitingForCrates
	BeingUpgraded
	LeavingDock
	MovingToFish
	Fishing
	Returning
	Docking
	Unloading
)

func (s State) String() string {
	switch s {
	case WaitingForCommand:
		return "WaitingForCommand"
	case WaitingForDecision:
		return "WaitingForDecision"
	case WaitingForSequence:
		return "WaitingForSequence"
	case WaitingForCrates:
		return "WaitingForCrates"
	case BeingUpgraded:
		return "BeingUpgraded"
	case LeavingDock:
		return "LeavingDock"
	case MovingToFish:
		return "MovingToFish"
	case Fishing:
		return "Fishing"
	case Returning:
		return "Returning"
	case Docking:
		return "Docking"
	case Unloading:
		return "Unloading"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Moving reports whether the boat is under way this state.
func (s State) Moving() bool {
	switch s {
	case LeavingDock, MovingToFish, Returning, Docking:
		return true
	case WaitingForCommand, WaitingForDecision, WaitingForSequence, WaitingForCrates,
		BeingUpgraded, Fishing, Unloading:
		return false
	}
	return false
}

// Docked reports whether the boat sits idle at its berth awaiting orders.
func (s State) Docked() bool {
	switch s {
	case WaitingForCommand, WaitingForDecision, WaitingForSequence:
		return true
	case WaitingForCrates, BeingUpgraded, LeavingDock, MovingToFish, Fishing,
		Returning, Docking, Unloading:
		return false
	}
	return false
}
