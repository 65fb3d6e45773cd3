package system

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSuchSlot is returned for a slot index no boat occupies.
	ErrNoSuchSlot = errors.New("no boat at slot")
	// ErrNoFreeBerth is returned when every berth already holds a boat.
	ErrNoFreeBerth = errors.New("no free berth")
	// ErrBoatBusy is returned when a boat is not in a state that accepts the command.
	ErrBoatBusy = errors.New("boat busy")
)

// GateError is a command rejected by a story or economy gate. Reason is
// shown to the player and Building is the one to highlight.
type GateError struct {
	Reason   string
	Building string
}

func (e *GateError) Error() string {
	return fmt.Sprintf("blocked: %s", e.Reason)
}

// IsGateError reports whether err is a gate rejection and returns it.
func IsGateError(err error) (*GateError, bool) {
	var g *GateError
	ok := errors.As(err, &g)
	return g, ok
}
