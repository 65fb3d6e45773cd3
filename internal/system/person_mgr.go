package system

import (
	"math/rand"
	"time"

	"github.com/capitalcove/harbor/internal/component"
	"github.com/capitalcove/harbor/internal/core/ecs"
	"github.com/capitalcove/harbor/internal/core/event"
	coresys "github.com/capitalcove/harbor/internal/core/system"
	"github.com/capitalcove/harbor/internal/data"
	"github.com/capitalcove/harbor/internal/nav"
	"github.com/capitalcove/harbor/internal/person"
	"github.com/capitalcove/harbor/internal/scripting"
	"github.com/capitalcove/harbor/internal/world"
	"go.uber.org/zap"
)

// Anchor keys the population manager places people at directly.
const (
	keyRani         = "raniSpot"
	keyShipyardExit = "shipyardExit"
)

// PersonConfig shapes the island and the town population.
type PersonConfig struct {
	Radius      float64 // island radius; graph points beyond it are pulled back
	Plateau     float64 // ground height used wherever the terrain dips below water
	Margin      float64 // collision margin around building footprints
	MaxVisitors int     // 0 means unlimited
}

// PersonSystem owns the townspeople and the navigation graph they walk.
// Phase 2 (Update), registered after BoatSystem.
type PersonSystem struct {
	world      *ecs.World
	bus        *event.Bus
	people     *ecs.PtrComponentStore[person.Person]
	visuals    *ecs.PtrComponentStore[component.Visual]
	layout     *data.Layout
	placements world.Placements
	ground     nav.Ground
	graph      *nav.Graph
	cfg        PersonConfig
	tuning     person.Tuning
	bounds     nav.Bounds
	economy    world.Economy
	rules      Rules
	rng        *rand.Rand
	log        *zap.Logger

	visitorTimer float64
	raniSpawned  bool
	workers      map[int]ecs.EntityID // upgrade slot -> worker
	reaped       int
	time         float64
}

func NewPersonSystem(w *ecs.World, bus *event.Bus, visuals *ecs.PtrComponentStore[component.Visual], layout *data.Layout, placements world.Placements, ground nav.Ground, cfg PersonConfig, tuning person.Tuning, econ world.Economy, rules Rules, rng *rand.Rand, log *zap.Logger) *PersonSystem {
	if rules == nil {
		rules = scripting.DefaultRules{}
	}
	s := &PersonSystem{
		world:      w,
		bus:        bus,
		people:     ecs.NewPtrComponentStore[person.Person](),
		visuals:    visuals,
		layout:     layout,
		placements: placements,
		ground:     ground,
		cfg:        cfg,
		tuning:     tuning,
		bounds:     nav.Bounds{MinX: -cfg.Radius, MaxX: cfg.Radius, MinZ: -cfg.Radius, MaxZ: cfg.Radius},
		economy:    econ,
		rules:      rules,
		rng:        rng,
		log:        log,
		workers:    make(map[int]ecs.EntityID),
	}
	w.Registry().Register("people", s.people)
	s.RebuildGraph()
	s.subscribe()
	return s
}

func (s *PersonSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *PersonSystem) subscribe() {
	event.Subscribe(s.bus, func(e event.BoatUnloadingStarted) {
		s.SpawnRunner(e.Pos)
	})
	event.Subscribe(s.bus, func(e event.UpgradeStarted) {
		s.SpawnWorker(e.Slot)
	})
	event.Subscribe(s.bus, func(e event.UpgradeFinished) {
		s.DismissWorker(e.Slot)
	})
}

// SetLayout swaps in a reloaded layout and/or placements and rebuilds the
// graph. A nil argument keeps the current one. Call between ticks only.
func (s *PersonSystem) SetLayout(l *data.Layout, p world.Placements) {
	if l != nil {
		s.layout = l
	}
	if p != nil {
		s.placements = p
	}
	s.RebuildGraph()
}

// RebuildGraph recomputes every navigation point from the current
// placements. Paths already handed out keep their old points.
func (s *PersonSystem) RebuildGraph() {
	s.graph = nav.BuildGraph(s.layout.Anchors(s.placements), s.ground, nav.GraphConfig{
		Radius:  s.cfg.Radius,
		Plateau: s.cfg.Plateau,
	})
	s.log.Debug("nav graph rebuilt", zap.Int("points", s.graph.Len()))
}

func (s *PersonSystem) Graph() *nav.Graph            { return s.graph }
func (s *PersonSystem) Placements() world.Placements { return s.placements }
func (s *PersonSystem) Margin() float64              { return s.cfg.Margin }
func (s *PersonSystem) Reaped() int                  { return s.reaped }

// Store is the person component store, for systems that pair it with visuals.
func (s *PersonSystem) Store() *ecs.PtrComponentStore[person.Person] {
	return s.people
}

// PathFor instantiates route keys on the current graph, jittered on request.
func (s *PersonSystem) PathFor(keys []string, jitter bool) nav.Path {
	j := 0.0
	if jitter {
		j = s.tuning.Jitter
	}
	return s.graph.Instantiate(keys, j, s.rng)
}

// People lists the population in spawn order.
func (s *PersonSystem) People() []*person.Person {
	out := make([]*person.Person, 0, s.people.Len())
	s.people.Each(func(_ ecs.EntityID, p *person.Person) { out = append(out, p) })
	return out
}

// Count returns how many live people have behavior b.
func (s *PersonSystem) Count(b person.Behavior) int {
	n := 0
	s.people.Each(func(_ ecs.EntityID, p *person.Person) {
		if p.Behavior == b && p.State != person.Despawn {
			n++
		}
	})
	return n
}

func (s *PersonSystem) env() *person.Env {
	return &person.Env{
		Ground:  s.ground,
		Bounds:  s.bounds,
		Planner: s,
		Tuning:  &s.tuning,
		Rand:    s.rng,
	}
}

func (s *PersonSystem) spawn(role person.Role, b person.Behavior, at nav.Vec3) *person.Person {
	id := s.world.CreateEntity()
	p := &person.Person{
		ID:       id,
		Role:     role,
		Behavior: b,
		Pos:      nav.SnapY(s.ground, nav.ClampRadius(s.bounds.Clamp(at), s.cfg.Radius), s.cfg.Plateau),
	}
	s.people.Set(id, p)
	s.visuals.Set(id, component.NewVisual())
	s.syncVisual(p)
	return p
}

// SpawnVisitor walks a new visitor into town, unless the cap is reached.
func (s *PersonSystem) SpawnVisitor() *person.Person {
	if s.cfg.MaxVisitors > 0 && s.Count(person.Visitor) >= s.cfg.MaxVisitors {
		return nil
	}
	path := s.PathFor(s.layout.Route(data.RouteVisitorIn), true)
	start, ok := path.Target()
	if !ok {
		s.log.Warn("visitor route is empty", zap.String("route", data.RouteVisitorIn))
		return nil
	}
	role := person.Citizen
	if s.rng.Intn(3) == 0 {
		role = person.Fisher
	}
	p := s.spawn(role, person.Visitor, start)
	p.ExitRouteKeys = s.layout.Route(data.RouteVisitorOut)
	p.WalkPath(path, s.tuning.WalkSpeed, person.EnterBuilding)
	return p
}

// SpawnRunner sends a fisher from an unloading boat to the HQ with a crate.
func (s *PersonSystem) SpawnRunner(from nav.Vec3) *person.Person {
	out := s.layout.Route(data.RouteRunnerOut)
	back := s.layout.Route(data.RouteRunnerBack)
	p := s.spawn(person.Fisher, person.Runner, from)
	p.Cargo = true
	p.ReturnRouteKeys = back
	if len(out) > 0 {
		p.ExitTarget = out[len(out)-1]
	}
	if len(back) > 0 {
		p.ReturnTarget = back[len(back)-1]
	}
	p.WalkPath(s.PathFor(out, true), s.tuning.RunSpeed, person.DropCargo)
	return p
}

// SpawnWorker brings a shipyard worker in for the upgrade at slot. One
// worker per upgrade.
func (s *PersonSystem) SpawnWorker(slot int) *person.Person {
	if _, ok := s.workers[slot]; ok {
		return nil
	}
	path := s.PathFor(s.layout.Route(data.RouteWorkerIn), false)
	start, ok := path.Target()
	if !ok {
		s.log.Warn("worker route is empty", zap.String("route", data.RouteWorkerIn))
		return nil
	}
	p := s.spawn(person.Shipyard, person.ShipyardWorker, start)
	p.ExitRouteKeys = s.layout.Route(data.RouteWorkerOut)
	p.ExitTarget = keyShipyardExit
	p.WalkPath(path, s.tuning.WalkSpeed, person.StartWork)
	s.workers[slot] = p.ID
	return p
}

// DismissWorker sends the worker of slot home, even if still walking in.
func (s *PersonSystem) DismissWorker(slot int) bool {
	id, ok := s.workers[slot]
	if !ok {
		return false
	}
	delete(s.workers, slot)
	p, ok := s.people.Get(id)
	if !ok {
		return false
	}
	env := s.env()
	if p.Dismiss(env) {
		return true
	}
	if p.State != person.Walking {
		return false
	}
	keys := p.ExitRouteKeys
	if len(keys) == 0 {
		keys = []string{p.ExitTarget}
	}
	p.WalkPath(s.PathFor(keys, false), s.tuning.WalkSpeed, person.Leave)
	return true
}

func (s *PersonSystem) spawnRani() {
	s.raniSpawned = true
	at, ok := s.graph.Point(keyRani)
	if !ok {
		s.log.Warn("no anchor for rani", zap.String("key", keyRani))
		return
	}
	p := s.spawn(person.Rani, person.None, at)
	p.State = person.Working
}

func (s *PersonSystem) Update(dt time.Duration) {
	sec := dt.Seconds()
	s.time += sec
	if !s.raniSpawned {
		s.spawnRani()
	}
	s.tickVisitors(sec)

	env := s.env()
	s.people.Each(func(_ ecs.EntityID, p *person.Person) {
		p.Update(sec, env)
		s.syncVisual(p)
	})
	s.reap()
}

func (s *PersonSystem) tickVisitors(sec float64) {
	health := world.Capture(nil, s.economy).MarketHealth
	interval, ok := s.rules.VisitorInterval(health)
	if !ok || interval <= 0 {
		s.visitorTimer = 0
		return
	}
	s.visitorTimer += sec
	if s.visitorTimer < interval {
		return
	}
	s.visitorTimer = 0
	s.SpawnVisitor()
}

// reap queues every despawned person for destruction at end of tick.
func (s *PersonSystem) reap() {
	s.people.Each(func(id ecs.EntityID, p *person.Person) {
		if p.State != person.Despawn || s.world.Pending(id) {
			return
		}
		s.world.MarkForDestruction(id)
		s.reaped++
	})
}

func (s *PersonSystem) syncVisual(p *person.Person) {
	v, ok := s.visuals.Get(p.ID)
	if !ok {
		return
	}
	v.Pos = p.Pos
	v.Heading = p.Heading
	v.AnimPhase = p.AnimPhase
	v.Cargo = p.Cargo
}
