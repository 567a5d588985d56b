package gm

import "math"

// Rad is an angle in radians, counter clockwise.
type Rad float64

func DegToRad(deg float64) Rad {
	return Rad(deg * math.Pi / 180)
}

func (r Rad) Degrees() float64 {
	return float64(r) * 180 / math.Pi
}

// Normalized wraps the angle into [-π, π).
func (r Rad) Normalized() Rad {
	wrapped := math.Mod(float64(r)+math.Pi, 2*math.Pi)
	if wrapped < 0 {
		wrapped += 2 * math.Pi
	}

	return Rad(wrapped - math.Pi)
}
