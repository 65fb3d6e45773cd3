// Package person implements the townspeople state machine: scripted walks,
// dwelling inside buildings and the visitor, runner and shipyard-worker roles.
package person

import (
	"fmt"
	"math/rand"

	"github.com/capitalcove/harbor/internal/core/ecs"
	"github.com/capitalcove/harbor/internal/nav"
)

// Role only changes how a person looks.
type Role uint8

const (
	Fisher Role = iota
	Shipyard
	Citizen
	Rani
)

func (r Role) String() string {
	switch r {
	case Fisher:
		return "fisher"
	case Shipyard:
		return "shipyard"
	case Citizen:
		return "citizen"
	case Rani:
		return "rani"
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// Behavior selects which transitions a person takes.
type Behavior uint8

const (
	None Behavior = iota
	Visitor
	Runner
	ShipyardWorker
)

func (b Behavior) String() string {
	switch b {
	case None:
		return "none"
	case Visitor:
		return "visitor"
	case Runner:
		return "runner"
	case ShipyardWorker:
		return "shipyardWorker"
	}
	return fmt.Sprintf("behavior(%d)", uint8(b))
}

// State is a person's behavior mode. Despawn is terminal.
type State uint8

const (
	Idle State = iota
	Walking
	Working
	Inside
	Waiting
	Despawn
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Walking:
		return "Walking"
	case Working:
		return "Working"
	case Inside:
		return "Inside"
	case Waiting:
		return "Waiting"
	case Despawn:
		return "Despawn"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Tuning holds walking speeds and dwell ranges, in units/s and seconds.
type Tuning struct {
	WalkSpeed   float64
	RunSpeed    float64
	InsideMin   float64
	InsideMax   float64
	WaitMin     float64
	WaitMax     float64
	Jitter      float64
	Arrival     float64
	TurnRate    float64
	Plateau     float64
	IdleBobRate float64
}

func DefaultTuning() Tuning {
	return Tuning{
		WalkSpeed:   4,
		RunSpeed:    5.5,
		InsideMin:   3,
		InsideMax:   7,
		WaitMin:     1.5,
		WaitMax:     3,
		Jitter:      1.2,
		Arrival:     nav.PersonArrival,
		TurnRate:    nav.TurnRate,
		Plateau:     2,
		IdleBobRate: 2,
	}
}

// Planner turns route keys into walkable paths. PersonSystem implements it
// on top of the current nav graph.
type Planner interface {
	PathFor(keys []string, jitter bool) nav.Path
}

// Env is what a person reads while updating.
type Env struct {
	Ground  nav.Ground
	Bounds  nav.Bounds
	Planner Planner
	Tuning  *Tuning
	Rand    *rand.Rand
}

// Person is the behavior record of one townsperson.
type Person struct {
	ID       ecs.EntityID
	Role     Role
	Behavior Behavior
	State    State

	Pos     nav.Vec3
	Heading float64
	Path    nav.Path
	Speed   float64

	InsideTimer float64
	WaitTimer   float64
	// AnimPhase drives the idle/walk cycle on the rendering side.
	AnimPhase float64

	ExitRouteKeys   []string
	ReturnRouteKeys []string
	ExitTarget      string
	ReturnTarget    string
	Cargo           bool

	onArrive func(*Person, *Env)
}

// WalkPath starts walking path. onArrive runs once when the last waypoint is
// reached; it may set a new state, otherwise the person goes Idle.
func (p *Person) WalkPath(path nav.Path, speed float64, onArrive func(*Person, *Env)) {
	p.Path = path
	p.Speed = speed
	p.onArrive = onArrive
	p.State = Walking
}

// Update advances the person by dt seconds.
func (p *Person) Update(dt float64, env *Env) {
	t := env.Tuning
	switch p.State {
	case Idle, Working:
		p.AnimPhase += dt * t.IdleBobRate
	case Walking:
		p.AnimPhase += dt * p.Speed
		p.walk(dt, env)
	case Inside:
		p.InsideTimer -= dt
		if p.InsideTimer <= 0 {
			p.leaveBuilding(env)
		}
	case Waiting:
		p.WaitTimer -= dt
		if p.WaitTimer <= 0 {
			p.headBack(env)
		}
	case Despawn:
	}
}

func (p *Person) walk(dt float64, env *Env) {
	t := env.Tuning
	target, ok := p.Path.Target()
	if !ok {
		p.arrive(env)
		return
	}
	p.Heading = nav.Steer(p.Heading, p.Pos, target, t.TurnRate, dt)
	arrived := nav.Step(&p.Pos, target, p.Speed, dt, env.Bounds, t.Arrival)
	p.Pos = nav.SnapY(env.Ground, p.Pos, t.Plateau)
	if arrived && !p.Path.Advance() {
		p.arrive(env)
	}
}

func (p *Person) arrive(env *Env) {
	cb := p.onArrive
	p.onArrive = nil
	p.Path = nav.Path{}
	p.State = Idle
	if cb != nil {
		cb(p, env)
	}
}

// leaveBuilding ends a visitor's dwell and walks it out along its exit route.
func (p *Person) leaveBuilding(env *Env) {
	p.InsideTimer = 0
	path := env.Planner.PathFor(p.ExitRouteKeys, true)
	p.WalkPath(path, env.Tuning.WalkSpeed, despawn)
}

// headBack ends a runner's wait and returns it along its return route.
func (p *Person) headBack(env *Env) {
	p.WaitTimer = 0
	path := env.Planner.PathFor(p.ReturnRouteKeys, true)
	p.WalkPath(path, env.Tuning.RunSpeed, despawn)
}

func despawn(p *Person, _ *Env) { p.State = Despawn }

// Leave is the arrival callback for anyone walking off the map for good.
func Leave(p *Person, env *Env) { despawn(p, env) }

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// EnterBuilding is the visitor arrival callback: dwell inside for 3–7 s.
func EnterBuilding(p *Person, env *Env) {
	p.State = Inside
	p.InsideTimer = uniform(env.Rand, env.Tuning.InsideMin, env.Tuning.InsideMax)
}

// DropCargo is the runner arrival callback: hand over the crate and wait.
func DropCargo(p *Person, env *Env) {
	p.Cargo = false
	p.State = Waiting
	p.WaitTimer = uniform(env.Rand, env.Tuning.WaitMin, env.Tuning.WaitMax)
}

// StartWork pins a stationary worker in place.
func StartWork(p *Person, _ *Env) {
	p.State = Working
}

// Dismiss sends a stationary worker off toward its exit point. It reports
// false if the person was not working.
func (p *Person) Dismiss(env *Env) bool {
	if p.State != Working {
		return false
	}
	keys := []string{p.ExitTarget}
	if len(p.ExitRouteKeys) > 0 {
		keys = p.ExitRouteKeys
	}
	p.WalkPath(env.Planner.PathFor(keys, false), env.Tuning.WalkSpeed, despawn)
	return true
}

// Moving reports whether the person is on a path this tick.
func (p *Person) Moving() bool { return p.State == Walking }
