package event

import (
	"github.com/capitalcove/harbor/internal/boat"
	"github.com/capitalcove/harbor/internal/nav"
)

// Inbound commands, published by the host UI and the director.

type StartBoat struct {
	Slot int
}

type ShowBoatHint struct {
	Slot int
	On   bool
}

type ReleaseBoats struct{}

type BoatPurchased struct {
	Type boat.Type
}

type TechUpgradePurchased struct {
	Category string // "engine" or "net"
}

type CrateLanded struct {
	Slot int
}

// FinishConstruction ends a shipyard upgrade before its fallback timer.
type FinishConstruction struct {
	Slot int
}

// Outbound notifications, published by the entity core.

type BoatUnloadingStarted struct {
	Pos  nav.Vec3
	Slot int
	Type boat.Type
}

type TripCompleted struct {
	Slot              int
	Type              boat.Type
	Revenue           int
	Catch             int
	Tutorial          bool
	FirstTutorialTrip bool
}

type Toast struct {
	Text string
}

type BuildingHint struct {
	Building string
	On       bool
}

// WorldEvent triggers a one-shot visual sequence on the rendering side.
type WorldEvent struct {
	Name string
	Slot int
	Pos  nav.Vec3
}

type UpgradeStarted struct {
	Slot int
}

type UpgradeFinished struct {
	Slot     int
	Fallback bool // true when the work timer ran out rather than an explicit finish
}
