package world

// Static is a settable Director and Economy used by the headless host and
// by tests in place of the real collaborators.
type Static struct {
	phase  Phase
	flags  Flags
	health float64
	saving bool
	engine string
	net    string
}

func NewStatic(phase Phase) *Static {
	return &Static{phase: phase, health: 0.6}
}

func (s *Static) Phase() Phase          { return s.phase }
func (s *Static) Flags() Flags          { return s.flags }
func (s *Static) MarketHealth() float64 { return s.health }
func (s *Static) Saving() bool          { return s.saving }
func (s *Static) Engine() string        { return s.engine }
func (s *Static) Net() string           { return s.net }

func (s *Static) SetPhase(p Phase)           { s.phase = p }
func (s *Static) SetFlags(f Flags)           { s.flags = f }
func (s *Static) SetMarketHealth(h float64)  { s.health = h }
func (s *Static) SetSaving(on bool)          { s.saving = on }
func (s *Static) SetTech(engine, net string) { s.engine, s.net = engine, net }

// StaticPlacements is a fixed building list.
type StaticPlacements []Building

func (p StaticPlacements) Buildings() []Building { return p }
