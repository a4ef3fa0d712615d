package common

import "math"

// Dist returns the euclidean distance between two points.
func Dist(x0, y0, x1, y1 float64) float64 {
	return math.Hypot(x1-x0, y1-y0)
}

// HeadingTo returns the angle in radians from (ox,oy) toward (tx,ty).
func HeadingTo(ox, oy, tx, ty float64) float64 {
	return math.Atan2(ty-oy, tx-ox)
}

// NormalizeAngle wraps an angle to the half-open interval (-pi, pi].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// TurnToward rotates heading toward target by at most rate radians,
// returning the new heading.
func TurnToward(heading, target, rate float64) float64 {
	diff := NormalizeAngle(target - heading)
	if math.Abs(diff) <= rate {
		return target
	}
	if diff > 0 {
		return NormalizeAngle(heading + rate)
	}
	return NormalizeAngle(heading - rate)
}
