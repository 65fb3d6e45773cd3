package boat

import (
	"math"
	"math/rand"

	"github.com/capitalcove/harbor/internal/core/ecs"
	"github.com/capitalcove/harbor/internal/nav"
	"github.com/capitalcove/harbor/internal/world"
)

// NoticeKind tags what a boat reports back to its manager during a tick.
type NoticeKind uint8

const (
	NoticeWake NoticeKind = iota
	NoticeCrateLoading
	NoticeUnloadingStarted
	NoticeTripCompleted
	NoticeUpgradeFinished
)

// Notice is a boat-side happening the manager turns into bus events.
type Notice struct {
	Kind   NoticeKind
	Pos    nav.Vec3
	Next   State // NoticeTripCompleted: the branch taken after unloading
	Crates int   // NoticeTripCompleted: crates that were on deck
}

// Env is everything a boat reads while updating. Nothing in it is written.
type Env struct {
	Snap   world.Snapshot
	Harbor *Harbor
	Tuning *Tuning
	Rand   *rand.Rand
}

// Boat is the behavior record of one boat. Rendering state lives elsewhere,
// keyed by ID.
type Boat struct {
	ID    ecs.EntityID
	Type  Type
	Slot  int
	Berth Berth

	State State
	Timer float64
	// FishingDuration is drawn when fishing starts.
	FishingDuration float64

	Pos     nav.Vec3
	Heading float64
	Path    nav.Path

	TechVisuals bool
	Crates      int
	CargoScale  float64
	Hint        bool
	Bob         float64
	Rock        float64

	wakeTimer float64
}

// New moors a boat of typ at berth, waiting for a command.
func New(id ecs.EntityID, typ Type, slot int, berth Berth, waterline float64) *Boat {
	return &Boat{
		ID:      id,
		Type:    typ,
		Slot:    slot,
		Berth:   berth,
		State:   WaitingForCommand,
		Pos:     berth.Dock.WithY(waterline),
		Heading: nav.Heading(berth.Dock, berth.Approach),
	}
}

// Speed is the current cruising speed after crisis and engine modifiers.
func (b *Boat) Speed(snap world.Snapshot, t *Tuning) float64 {
	v := t.BaseSpeed(b.Type)
	if snap.Crisis() {
		v *= t.CrisisFactor
	}
	if snap.Engine == world.EngineSteam && b.Type.Powered() {
		v *= t.SteamFactor
	}
	return v
}

// CanStart reports whether a start command may act on this boat at all.
func (b *Boat) CanStart() bool {
	return b.State == WaitingForCommand || b.State == WaitingForDecision
}

// Start begins a trip. In the BOOM phase the boat first waits for crates.
func (b *Boat) Start(env *Env) []Notice {
	if !b.CanStart() {
		return nil
	}
	if env.Snap.Phase == world.PhaseBoom {
		b.enter(WaitingForCrates)
		return []Notice{{Kind: NoticeCrateLoading, Pos: b.Pos}}
	}
	b.leave(env)
	return nil
}

// Release lets a boat parked for the crunch sequence sail again.
func (b *Boat) Release(env *Env) bool {
	if b.State != WaitingForSequence {
		return false
	}
	b.leave(env)
	return true
}

// BeginUpgrade parks the boat at the shipyard.
func (b *Boat) BeginUpgrade() {
	b.enter(BeingUpgraded)
}

// FinishConstruction ends an upgrade early. A second call, or a call after
// the fallback timer already fired, returns false and changes nothing.
func (b *Boat) FinishConstruction() bool {
	if b.State != BeingUpgraded {
		return false
	}
	b.enter(WaitingForCommand)
	return true
}

// AddCrate puts one more crate on deck; the newest crate pops in from zero scale.
func (b *Boat) AddCrate(max int) {
	if max > 0 && b.Crates >= max {
		return
	}
	b.Crates++
	b.CargoScale = 0
}

// RefreshTech recomputes the tech-visual flag from the economy snapshot.
func (b *Boat) RefreshTech(snap world.Snapshot) {
	b.TechVisuals = snap.Net != world.NetBasic ||
		(snap.Engine != world.EngineNone && b.Type.Powered())
}

func (b *Boat) enter(s State) {
	b.State = s
	b.Timer = 0
}

func (b *Boat) leave(env *Env) {
	b.enter(LeavingDock)
	b.Path = nav.NewPath(env.Harbor.Exit)
}

func (b *Boat) fishingPoint(env *Env) nav.Vec3 {
	a := env.Harbor.Fishing
	p := nav.Vec3{
		X: a.MinX + env.Rand.Float64()*(a.MaxX-a.MinX),
		Z: a.MinZ + env.Rand.Float64()*(a.MaxZ-a.MinZ),
	}
	return env.Harbor.Bounds.Clamp(p)
}

// Update advances the boat by dt seconds and returns what happened.
func (b *Boat) Update(dt float64, env *Env) []Notice {
	t := env.Tuning
	var out []Notice

	b.Bob += dt * t.BobSpeed
	b.Rock = 0.04 * math.Sin(b.Bob*0.7)
	if b.Crates > 0 && b.CargoScale < 1 {
		b.CargoScale = math.Min(1, b.CargoScale+dt*t.CargoPopRate)
	}

	switch b.State {
	case WaitingForCommand, WaitingForDecision, WaitingForSequence:
		// idle at the berth
	case WaitingForCrates:
		b.Timer += dt
		if b.Timer >= t.CrateDwell {
			b.leave(env)
		}
	case BeingUpgraded:
		b.Timer += dt
		if b.Timer >= t.UpgradeDuration {
			b.enter(WaitingForCommand)
			out = append(out, Notice{Kind: NoticeUpgradeFinished, Pos: b.Pos})
		}
	case LeavingDock:
		if b.sail(dt, b.Speed(env.Snap, t), env) {
			b.enter(MovingToFish)
			b.Path = nav.NewPath(b.fishingPoint(env))
		}
	case MovingToFish:
		if b.sail(dt, b.Speed(env.Snap, t), env) {
			b.enter(Fishing)
			b.FishingDuration = t.FishingMin + env.Rand.Float64()*(t.FishingMax-t.FishingMin)
		}
	case Fishing:
		b.Timer += dt
		if b.Timer >= b.FishingDuration {
			b.enter(Returning)
			b.Path = nav.NewPath(b.Berth.Approach)
		}
	case Returning:
		if b.sail(dt, b.Speed(env.Snap, t), env) {
			b.enter(Docking)
			b.Path = nav.NewPath(b.Berth.Dock)
		}
	case Docking:
		if b.sail(dt, b.Speed(env.Snap, t)*t.DockingFactor, env) {
			b.enter(Unloading)
			b.Path = nav.Path{}
			out = append(out, Notice{Kind: NoticeUnloadingStarted, Pos: b.Pos})
		}
	case Unloading:
		b.Timer += dt
		if b.Timer >= t.UnloadDuration {
			next := UnloadBranch(env.Snap)
			crates := b.Crates
			b.Crates = 0
			b.CargoScale = 0
			if next == LeavingDock {
				b.leave(env)
			} else {
				b.enter(next)
			}
			out = append(out, Notice{Kind: NoticeTripCompleted, Pos: b.Pos, Next: next, Crates: crates})
		}
	}

	if b.State.Moving() {
		interval := t.WakeInterval
		if !b.Type.Powered() {
			interval = t.RowWakeInterval
		}
		b.wakeTimer += dt
		for interval > 0 && b.wakeTimer >= interval {
			b.wakeTimer -= interval
			out = append(out, Notice{Kind: NoticeWake, Pos: b.Pos})
		}
	} else {
		b.wakeTimer = 0
	}

	b.Pos.Y = env.Harbor.Waterline + t.BobAmplitude*math.Sin(b.Bob)
	return out
}

// sail steps toward the current leg's waypoint and reports arrival.
func (b *Boat) sail(dt, speed float64, env *Env) bool {
	target, ok := b.Path.Target()
	if !ok {
		return true
	}
	b.Heading = nav.Steer(b.Heading, b.Pos, target, env.Tuning.TurnRate, dt)
	arrived := nav.Step(&b.Pos, target, speed, dt, env.Harbor.Bounds, env.Tuning.Arrival)
	if arrived {
		b.Path.Advance()
	}
	return arrived
}

// UnloadBranch picks where a boat goes once its catch is ashore. Exactly one
// branch applies; earlier rules win.
func UnloadBranch(snap world.Snapshot) State {
	switch {
	case snap.Phase == world.PhaseTutorial && !snap.Flags.TutorialComplete:
		return WaitingForDecision
	case snap.Flags.ForceDockLock:
		return WaitingForCommand
	case snap.Flags.CrunchSequence:
		return WaitingForSequence
	case snap.Phase == world.PhaseBoom:
		return LeavingDock
	}
	return WaitingForCommand
}
