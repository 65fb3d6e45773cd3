package boat

import "github.com/capitalcove/harbor/internal/nav"

// Tuning holds every speed and duration of the trip cycle. Durations are seconds.
type Tuning struct {
	RowSpeed     float64
	MotorSpeed   float64
	TrawlerSpeed float64

	CrisisFactor  float64
	SteamFactor   float64
	DockingFactor float64

	FishingMin      float64
	FishingMax      float64
	UnloadDuration  float64
	CrateDwell      float64
	UpgradeDuration float64

	WakeInterval    float64
	RowWakeInterval float64

	Arrival  float64
	TurnRate float64

	BobSpeed     float64
	BobAmplitude float64
	CargoPopRate float64
	MaxCrates    int
}

func DefaultTuning() Tuning {
	return Tuning{
		RowSpeed:        15,
		MotorSpeed:      21.6,
		TrawlerSpeed:    20,
		CrisisFactor:    0.6,
		SteamFactor:     1.5,
		DockingFactor:   0.6,
		FishingMin:      3,
		FishingMax:      5,
		UnloadDuration:  2,
		CrateDwell:      2,
		UpgradeDuration: 25,
		WakeInterval:    0.35,
		RowWakeInterval: 0.6,
		Arrival:         nav.BoatArrival,
		TurnRate:        nav.TurnRate,
		BobSpeed:        1.6,
		BobAmplitude:    0.15,
		CargoPopRate:    4,
		MaxCrates:       6,
	}
}

// BaseSpeed is the hull speed before economy modifiers.
func (t *Tuning) BaseSpeed(typ Type) float64 {
	switch typ {
	case Row:
		return t.RowSpeed
	case Motor:
		return t.MotorSpeed
	case Trawler:
		return t.TrawlerSpeed
	}
	return t.RowSpeed
}

// Berth is a dock slot: the mooring point and the approach waypoint in front of it.
type Berth struct {
	Dock     nav.Vec3
	Approach nav.Vec3
}

// Area is an XZ rectangle fishing points are drawn from.
type Area struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

// Harbor is the fixed sea-side geometry shared by the fleet.
type Harbor struct {
	Exit      nav.Vec3
	Berths    []Berth
	Fishing   Area
	Bounds    nav.Bounds
	Waterline float64
}

// DefaultHarbor is used when the layout file has no harbor section.
func DefaultHarbor() Harbor {
	h := Harbor{
		Exit:      nav.Vec3{X: 0, Z: 140},
		Fishing:   Area{MinX: -140, MaxX: 140, MinZ: 240, MaxZ: 290},
		Bounds:    nav.Bounds{MinX: -160, MaxX: 160, MinZ: -160, MaxZ: 300},
		Waterline: 0,
	}
	for i := 0; i < 6; i++ {
		x := -50 + float64(i)*20
		h.Berths = append(h.Berths, Berth{
			Dock:     nav.Vec3{X: x, Z: 100},
			Approach: nav.Vec3{X: x, Z: 118},
		})
	}
	return h
}
