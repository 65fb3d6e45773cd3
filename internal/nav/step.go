package nav

import "math"

// Arrival thresholds and turn rate shared by every moving entity.
const (
	BoatArrival   = 2.0
	PersonArrival = 0.6
	TurnRate      = 5.0 // rad/s
)

// Bounds is the axis-aligned XZ region an entity may occupy.
type Bounds struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

// Clamp pulls p inside b. Y is left untouched.
func (b Bounds) Clamp(p Vec3) Vec3 {
	p.X = math.Max(b.MinX, math.Min(b.MaxX, p.X))
	p.Z = math.Max(b.MinZ, math.Min(b.MaxZ, p.Z))
	return p
}

// Step moves pos toward target by speed*dt on the XZ plane, never past the
// target, clamps the result to b and reports whether pos is now within
// threshold of the target.
func Step(pos *Vec3, target Vec3, speed, dt float64, b Bounds, threshold float64) bool {
	dist := pos.DistXZ(target)
	if dist >= threshold {
		move := speed * dt
		if move > dist {
			move = dist
		}
		if move > 0 {
			f := move / dist
			pos.X += (target.X - pos.X) * f
			pos.Z += (target.Z - pos.Z) * f
		}
		*pos = b.Clamp(*pos)
		dist = pos.DistXZ(target)
	}
	return dist < threshold
}

// Heading returns the yaw that faces from toward to. Zero faces +Z.
func Heading(from, to Vec3) float64 {
	return math.Atan2(to.X-from.X, to.Z-from.Z)
}

// TurnToward eases cur toward target along the shortest arc. The fraction
// covered per call is rate*dt, capped at a full snap.
func TurnToward(cur, target, rate, dt float64) float64 {
	diff := wrapAngle(target - cur)
	f := rate * dt
	if f > 1 {
		f = 1
	}
	return wrapAngle(cur + diff*f)
}

// Steer turns cur toward the direction from -> to. With no XZ separation
// there is no direction, so cur is kept.
func Steer(cur float64, from, to Vec3, rate, dt float64) float64 {
	if from.DistXZ(to) <= 1e-9 {
		return cur
	}
	return TurnToward(cur, Heading(from, to), rate, dt)
}

func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
