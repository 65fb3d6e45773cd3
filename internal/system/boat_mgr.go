package system

import (
	"math/rand"
	"time"

	"github.com/capitalcove/harbor/internal/boat"
	"github.com/capitalcove/harbor/internal/component"
	"github.com/capitalcove/harbor/internal/core/ecs"
	"github.com/capitalcove/harbor/internal/core/event"
	coresys "github.com/capitalcove/harbor/internal/core/system"
	"github.com/capitalcove/harbor/internal/scripting"
	"github.com/capitalcove/harbor/internal/world"
	"go.uber.org/zap"
)

// Rules supplies the economy curves. scripting.Engine and
// scripting.DefaultRules both satisfy it.
type Rules interface {
	TripPayout(ctx scripting.TripContext) scripting.Payout
	VisitorInterval(health float64) (float64, bool)
}

// First tutorial trip pays a fixed amount so the opening is scripted.
const (
	tutorialRevenue = 50
	tutorialCatch   = 20
)

// FleetSlot places one boat type at a berth.
type FleetSlot struct {
	Type boat.Type
	Slot int
}

// FleetFromCounts fills berths in order: rowboats, then motorboats, then trawlers.
func FleetFromCounts(row, motor, trawler int) []FleetSlot {
	var out []FleetSlot
	for i, n := range [...]int{row, motor, trawler} {
		for j := 0; j < n; j++ {
			out = append(out, FleetSlot{Type: boat.Types[i], Slot: len(out)})
		}
	}
	return out
}

// BoatSystem owns the fleet: builds it, routes commands to boats by slot,
// swaps boats on upgrades and turns boat notices into bus events.
// Phase 2 (Update).
type BoatSystem struct {
	world    *ecs.World
	bus      *event.Bus
	boats    *ecs.PtrComponentStore[boat.Boat]
	visuals  *ecs.PtrComponentStore[component.Visual]
	harbor   boat.Harbor
	tuning   boat.Tuning
	director world.Director
	economy  world.Economy
	rules    Rules
	rng      *rand.Rand
	log      *zap.Logger

	wakes          []component.Wake
	motorboatReady bool
	time           float64
}

func NewBoatSystem(w *ecs.World, bus *event.Bus, visuals *ecs.PtrComponentStore[component.Visual], harbor boat.Harbor, tuning boat.Tuning, dir world.Director, econ world.Economy, rules Rules, rng *rand.Rand, log *zap.Logger) *BoatSystem {
	if rules == nil {
		rules = scripting.DefaultRules{}
	}
	s := &BoatSystem{
		world:    w,
		bus:      bus,
		boats:    ecs.NewPtrComponentStore[boat.Boat](),
		visuals:  visuals,
		harbor:   harbor,
		tuning:   tuning,
		director: dir,
		economy:  econ,
		rules:    rules,
		rng:      rng,
		log:      log,
	}
	w.Registry().Register("boats", s.boats)
	s.subscribe()
	return s
}

func (s *BoatSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *BoatSystem) subscribe() {
	event.Subscribe(s.bus, func(e event.StartBoat) {
		if err := s.StartBoat(e.Slot); err != nil {
			s.log.Debug("start command not applied", zap.Int("slot", e.Slot), zap.Error(err))
		}
	})
	event.Subscribe(s.bus, func(e event.ShowBoatHint) {
		if err := s.ShowHint(e.Slot, e.On); err != nil {
			s.log.Debug("hint ignored", zap.Int("slot", e.Slot), zap.Error(err))
		}
	})
	event.Subscribe(s.bus, func(event.ReleaseBoats) {
		s.Release()
	})
	event.Subscribe(s.bus, func(e event.BoatPurchased) {
		if err := s.Purchase(e.Type); err != nil {
			s.log.Info("purchase not placed", zap.Stringer("type", e.Type), zap.Error(err))
		}
	})
	event.Subscribe(s.bus, func(e event.TechUpgradePurchased) {
		s.TechUpgrade(e.Category)
	})
	event.Subscribe(s.bus, func(e event.CrateLanded) {
		if err := s.CrateLanded(e.Slot); err != nil {
			s.log.Debug("crate ignored", zap.Int("slot", e.Slot), zap.Error(err))
		}
	})
	event.Subscribe(s.bus, func(e event.FinishConstruction) {
		if _, err := s.FinishConstruction(e.Slot); err != nil {
			s.log.Debug("finish ignored", zap.Int("slot", e.Slot), zap.Error(err))
		}
	})
}

func (s *BoatSystem) snapshot() world.Snapshot {
	return world.Capture(s.director, s.economy)
}

func (s *BoatSystem) env(snap world.Snapshot) *boat.Env {
	return &boat.Env{Snap: snap, Harbor: &s.harbor, Tuning: &s.tuning, Rand: s.rng}
}

// At returns the boat moored at slot, or nil.
func (s *BoatSystem) At(slot int) *boat.Boat {
	var found *boat.Boat
	s.boats.Each(func(_ ecs.EntityID, b *boat.Boat) {
		if found == nil && b.Slot == slot {
			found = b
		}
	})
	return found
}

// Boats lists the fleet in creation order.
func (s *BoatSystem) Boats() []*boat.Boat {
	out := make([]*boat.Boat, 0, s.boats.Len())
	s.boats.Each(func(_ ecs.EntityID, b *boat.Boat) { out = append(out, b) })
	return out
}

// Wakes are the live wake particles.
func (s *BoatSystem) Wakes() []component.Wake { return s.wakes }

// MotorboatReady reports whether a motorboat upgrade has finished since
// the last one started.
func (s *BoatSystem) MotorboatReady() bool { return s.motorboatReady }

// Time is the simulated seconds this system has been ticked for.
func (s *BoatSystem) Time() float64 { return s.time }

func (s *BoatSystem) spawn(typ boat.Type, slot int) *boat.Boat {
	id := s.world.CreateEntity()
	b := boat.New(id, typ, slot, s.harbor.Berths[slot], s.harbor.Waterline)
	b.RefreshTech(s.snapshot())
	s.boats.Set(id, b)
	s.visuals.Set(id, component.NewVisual())
	s.syncVisual(b)
	return b
}

// retire drops a boat from the fleet now; the rest of its components go at
// end of tick.
func (s *BoatSystem) retire(b *boat.Boat) {
	s.boats.Remove(b.ID)
	s.world.MarkForDestruction(b.ID)
}

// BuildFleet creates the starting boats. Entries outside the berth range, or
// naming a slot another type already holds, are skipped. Same-type repeats
// are left for Dedup.
func (s *BoatSystem) BuildFleet(slots []FleetSlot) int {
	n := 0
	for _, f := range slots {
		if f.Slot < 0 || f.Slot >= len(s.harbor.Berths) {
			s.log.Warn("fleet entry has no berth", zap.Stringer("type", f.Type), zap.Int("slot", f.Slot))
			continue
		}
		if other := s.At(f.Slot); other != nil && other.Type != f.Type {
			s.log.Warn("fleet slot already taken", zap.Int("slot", f.Slot), zap.Stringer("holder", other.Type))
			continue
		}
		s.spawn(f.Type, f.Slot)
		n++
	}
	return n
}

// Dedup keeps the first boat for every (type, slot) pair and retires the
// rest. Running it again changes nothing.
func (s *BoatSystem) Dedup() int {
	type key struct {
		typ  boat.Type
		slot int
	}
	seen := make(map[key]bool, s.boats.Len())
	var dupes []*boat.Boat
	s.boats.Each(func(_ ecs.EntityID, b *boat.Boat) {
		k := key{b.Type, b.Slot}
		if seen[k] {
			dupes = append(dupes, b)
			return
		}
		seen[k] = true
	})
	for _, b := range dupes {
		s.retire(b)
		event.Emit(s.bus, event.WorldEvent{Name: "boatRetired", Slot: b.Slot, Pos: b.Pos})
	}
	if len(dupes) > 0 {
		s.log.Warn("duplicate boats retired", zap.Int("count", len(dupes)))
	}
	return len(dupes)
}

// AddBoat moors a new boat at the lowest free berth.
func (s *BoatSystem) AddBoat(typ boat.Type) (int, error) {
	for slot := range s.harbor.Berths {
		if s.At(slot) != nil {
			continue
		}
		b := s.spawn(typ, slot)
		event.Emit(s.bus, event.WorldEvent{Name: "boatLaunched", Slot: slot, Pos: b.Pos})
		s.log.Info("boat added", zap.Stringer("type", typ), zap.Int("slot", slot))
		return slot, nil
	}
	event.Emit(s.bus, event.Toast{Text: "Every berth is taken."})
	return -1, ErrNoFreeBerth
}

// ReplaceBoat swaps the boat at slot for a new one of typ. A new motorboat
// is parked at the shipyard until construction finishes.
func (s *BoatSystem) ReplaceBoat(slot int, typ boat.Type) error {
	old := s.At(slot)
	if old == nil {
		return ErrNoSuchSlot
	}
	s.retire(old)
	b := s.spawn(typ, slot)
	event.Emit(s.bus, event.WorldEvent{Name: "upgradeSplash", Slot: slot, Pos: b.Pos})
	if typ == boat.Motor {
		b.BeginUpgrade()
		s.motorboatReady = false
		event.Emit(s.bus, event.UpgradeStarted{Slot: slot})
	}
	s.log.Info("boat replaced",
		zap.Int("slot", slot), zap.Stringer("from", old.Type), zap.Stringer("to", typ))
	return nil
}

// Purchase places a bought boat. A motorboat replaces the first rowboat
// sitting at its berth; anything else takes a free berth.
func (s *BoatSystem) Purchase(typ boat.Type) error {
	if typ == boat.Motor {
		for _, b := range s.Boats() {
			if b.Type == boat.Row && b.State.Docked() {
				return s.ReplaceBoat(b.Slot, typ)
			}
		}
	}
	_, err := s.AddBoat(typ)
	return err
}

// gate returns the first rule that forbids b from starting a trip now.
func (s *BoatSystem) gate(b *boat.Boat, snap world.Snapshot) *GateError {
	tutorial := snap.Phase == world.PhaseTutorial
	switch {
	case tutorial && snap.Flags.FuelRequired:
		return &GateError{Reason: "No fuel yet. Buy some at the market.", Building: "market"}
	case tutorial && b.State == boat.WaitingForDecision && !snap.Flags.DecisionReleased:
		return &GateError{Reason: "Decide what to do with your first income at the HQ.", Building: "hq"}
	case s.upgrading():
		return &GateError{Reason: "The shipyard is busy with an upgrade.", Building: "shipyard"}
	case snap.Flags.ForceDockLock:
		return &GateError{Reason: "Boats are held at the dock for now.", Building: "hq"}
	case snap.Phase == world.PhaseStagnation && !snap.Saving:
		return &GateError{Reason: "Start saving before sending boats out.", Building: "hq"}
	case snap.Phase == world.PhaseRecovery && !snap.Flags.TechPurchased:
		return &GateError{Reason: "Buy a technology upgrade first.", Building: "shipyard"}
	}
	return nil
}

func (s *BoatSystem) upgrading() bool {
	busy := false
	s.boats.Each(func(_ ecs.EntityID, b *boat.Boat) {
		busy = busy || b.State == boat.BeingUpgraded
	})
	return busy
}

func (s *BoatSystem) reject(g *GateError) {
	event.Emit(s.bus, event.Toast{Text: g.Reason})
	if g.Building != "" {
		event.Emit(s.bus, event.BuildingHint{Building: g.Building, On: true})
	}
}

// StartBoat sends the boat at slot on a trip. A blocked gate leaves the
// boat as it was, shows the reason and returns it as a *GateError.
func (s *BoatSystem) StartBoat(slot int) error {
	b := s.At(slot)
	if b == nil {
		return ErrNoSuchSlot
	}
	if !b.CanStart() {
		return ErrBoatBusy
	}
	snap := s.snapshot()
	if g := s.gate(b, snap); g != nil {
		s.reject(g)
		return g
	}
	b.Hint = false
	s.handle(b, b.Start(s.env(snap)), snap)
	s.syncVisual(b)
	return nil
}

// Release lets every boat parked for the crunch sequence sail, unless the
// recovery purchase gate is closed.
func (s *BoatSystem) Release() int {
	parked := 0
	s.boats.Each(func(_ ecs.EntityID, b *boat.Boat) {
		if b.State == boat.WaitingForSequence {
			parked++
		}
	})
	if parked == 0 {
		return 0
	}
	snap := s.snapshot()
	if snap.Phase == world.PhaseRecovery && !snap.Flags.TechPurchased {
		s.reject(&GateError{Reason: "Buy a technology upgrade first.", Building: "shipyard"})
		return 0
	}
	env := s.env(snap)
	n := 0
	s.boats.Each(func(_ ecs.EntityID, b *boat.Boat) {
		if b.Release(env) {
			n++
		}
	})
	return n
}

func (s *BoatSystem) ShowHint(slot int, on bool) error {
	b := s.At(slot)
	if b == nil {
		return ErrNoSuchSlot
	}
	b.Hint = on
	s.syncVisual(b)
	return nil
}

// TechUpgrade refreshes the tech visuals of the whole fleet.
func (s *BoatSystem) TechUpgrade(category string) {
	snap := s.snapshot()
	s.boats.Each(func(_ ecs.EntityID, b *boat.Boat) {
		b.RefreshTech(snap)
		s.syncVisual(b)
	})
	s.log.Info("fleet tech refreshed", zap.String("category", category),
		zap.String("engine", snap.Engine), zap.String("net", snap.Net))
}

func (s *BoatSystem) CrateLanded(slot int) error {
	b := s.At(slot)
	if b == nil {
		return ErrNoSuchSlot
	}
	b.AddCrate(s.tuning.MaxCrates)
	return nil
}

// FinishConstruction ends the upgrade at slot ahead of the fallback timer.
// Only the first of the two endings counts.
func (s *BoatSystem) FinishConstruction(slot int) (bool, error) {
	b := s.At(slot)
	if b == nil {
		return false, ErrNoSuchSlot
	}
	if !b.FinishConstruction() {
		return false, nil
	}
	s.upgradeDone(b, false)
	return true, nil
}

func (s *BoatSystem) upgradeDone(b *boat.Boat, fallback bool) {
	if b.Type == boat.Motor {
		s.motorboatReady = true
	}
	event.Emit(s.bus, event.UpgradeFinished{Slot: b.Slot, Fallback: fallback})
	s.log.Info("upgrade finished", zap.Int("slot", b.Slot), zap.Bool("fallback", fallback))
}

func (s *BoatSystem) Update(dt time.Duration) {
	sec := dt.Seconds()
	s.time += sec
	snap := s.snapshot()
	env := s.env(snap)
	s.wakes = component.AgeWakes(s.wakes, sec)
	s.boats.Each(func(_ ecs.EntityID, b *boat.Boat) {
		s.handle(b, b.Update(sec, env), snap)
		s.syncVisual(b)
	})
}

// handle turns boat notices into wakes and outbound events.
func (s *BoatSystem) handle(b *boat.Boat, notices []boat.Notice, snap world.Snapshot) {
	for _, n := range notices {
		switch n.Kind {
		case boat.NoticeWake:
			s.wakes = append(s.wakes, component.Wake{Pos: n.Pos})
		case boat.NoticeCrateLoading:
			event.Emit(s.bus, event.WorldEvent{Name: "crateLoading", Slot: b.Slot, Pos: n.Pos})
		case boat.NoticeUnloadingStarted:
			event.Emit(s.bus, event.BoatUnloadingStarted{Pos: n.Pos, Slot: b.Slot, Type: b.Type})
		case boat.NoticeTripCompleted:
			s.tripCompleted(b, n, snap)
		case boat.NoticeUpgradeFinished:
			s.upgradeDone(b, true)
		}
	}
}

func (s *BoatSystem) tripCompleted(b *boat.Boat, n boat.Notice, snap world.Snapshot) {
	tutorial := snap.Phase == world.PhaseTutorial
	first := tutorial && !snap.Flags.TutorialIncomeCollected
	pay := scripting.Payout{Revenue: tutorialRevenue, Catch: tutorialCatch}
	if !first {
		pay = s.rules.TripPayout(scripting.TripContext{
			BoatType:     b.Type,
			Phase:        string(snap.Phase),
			MarketHealth: snap.MarketHealth,
			Engine:       snap.Engine,
			Net:          snap.Net,
			Crates:       n.Crates,
		})
	}
	event.Emit(s.bus, event.TripCompleted{
		Slot:              b.Slot,
		Type:              b.Type,
		Revenue:           pay.Revenue,
		Catch:             pay.Catch,
		Tutorial:          tutorial,
		FirstTutorialTrip: first,
	})
	s.log.Debug("trip completed",
		zap.Int("slot", b.Slot),
		zap.Int("revenue", pay.Revenue),
		zap.Stringer("next", n.Next))
}

func (s *BoatSystem) syncVisual(b *boat.Boat) {
	v, ok := s.visuals.Get(b.ID)
	if !ok {
		return
	}
	v.Pos = b.Pos
	v.Heading = b.Heading
	v.AnimPhase = b.Bob
	v.Rock = b.Rock
	v.CargoScale = b.CargoScale
	v.Crates = b.Crates
	v.Hint = b.Hint
	v.TechVisuals = b.TechVisuals
}
