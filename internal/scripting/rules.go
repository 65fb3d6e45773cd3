package scripting

import (
	"math"

	"github.com/capitalcove/harbor/internal/boat"
)

// TripContext is what a payout rule sees about a finished trip.
type TripContext struct {
	BoatType     boat.Type
	Phase        string
	MarketHealth float64
	Engine       string
	Net          string
	Crates       int
}

// Payout is the revenue and catch credited for one trip.
type Payout struct {
	Revenue int
	Catch   int
}

// DefaultRules are the built-in economy curves, used when no script
// overrides them.
type DefaultRules struct{}

var baseCatch = map[boat.Type]float64{
	boat.Row:     20,
	boat.Motor:   35,
	boat.Trawler: 60,
}

func (DefaultRules) TripPayout(ctx TripContext) Payout {
	catch := baseCatch[ctx.BoatType]
	if ctx.Net == "nylon" {
		catch *= 1.5
	}
	revenue := catch*2.5*(0.5+ctx.MarketHealth) + float64(ctx.Crates)*5
	return Payout{Revenue: int(math.Round(revenue)), Catch: int(math.Round(catch))}
}

// VisitorInterval returns seconds between visitor spawns for a market
// health, or false when the market is too weak to draw anyone.
func (DefaultRules) VisitorInterval(health float64) (float64, bool) {
	switch {
	case health < 0.2:
		return 0, false
	case health < 0.5:
		return 12, true
	case health < 0.95:
		return 8 - (health-0.5)/0.45*4.5, true
	}
	return 2.5, true
}
