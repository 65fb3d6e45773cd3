package system

import (
	"sort"
	"time"
)

// Runner executes systems in phase order each tick. Systems sharing a phase
// run in registration order.
type Runner struct {
	systems []System
	sorted  bool
	elapsed time.Duration
	ticks   uint64
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 8),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick runs one frame of dt host time.
func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	r.ticks++
	r.elapsed += dt
	for _, s := range r.systems {
		s.Update(dt)
	}
}

// Elapsed is the monotonic simulated time accumulated from every dt.
func (r *Runner) Elapsed() time.Duration { return r.elapsed }

// Ticks is the number of completed ticks.
func (r *Runner) Ticks() uint64 { return r.ticks }

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
