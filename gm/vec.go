package gm

import (
	"fmt"
	"math"
)

// Vec is a 2d vector of float64 values. Its layout matches the vector
// types of common 2d physics engines, so converting is a plain struct conversion.
type Vec struct {
	X float64 `json:"x" cbor:"x"`
	Y float64 `json:"y" cbor:"y"`
}

var VecZero = Vec{}
var VecOne = Vec{X: 1, Y: 1}

// VecSplat returns a vector with both components set to the same value.
func VecSplat(value float64) Vec {
	return Vec{X: value, Y: value}
}

func (v Vec) Add(other Vec) Vec {
	v.X += other.X
	v.Y += other.Y
	return v
}

func (v Vec) Sub(other Vec) Vec {
	v.X -= other.X
	v.Y -= other.Y
	return v
}

func (v Vec) Mul(scalar float64) Vec {
	v.X *= scalar
	v.Y *= scalar
	return v
}

func (v Vec) MulEach(other Vec) Vec {
	v.X *= other.X
	v.Y *= other.Y
	return v
}

func (v Vec) Dot(other Vec) float64 {
	return v.X*other.X + v.Y*other.Y
}

func (v Vec) Length() float64 {
	return math.Sqrt(v.LengthSqr())
}

func (v Vec) LengthSqr() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalized returns a vector with the same direction and a length of one.
// The zero vector is returned unchanged.
func (v Vec) Normalized() Vec {
	length := v.Length()
	if length == 0 {
		return v
	}

	v.X /= length
	v.Y /= length
	return v
}

// Rotated rotates the vector counter clockwise by the given angle.
func (v Vec) Rotated(angle Rad) Vec {
	return RotationMat(angle).Transform(v)
}

// Angle returns the angle of the vector relative to the positive x axis.
func (v Vec) Angle() Rad {
	return Rad(math.Atan2(v.Y, v.X))
}

func (v Vec) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vec) String() string {
	return fmt.Sprintf("vec(x=%v, y=%v)", v.X, v.Y)
}
