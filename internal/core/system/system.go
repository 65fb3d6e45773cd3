package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: apply layout reloads between ticks
	PhasePreUpdate               // 1: deliver last tick's events
	PhaseUpdate                  // 2: entity state machines
	PhasePostUpdate              // 3: visibility, visual bookkeeping
	PhasePersist                 // 4: trip journal flush
	PhaseCleanup                 // 5: destroy queued entities
)

// System is the interface every tick participant implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
