package gm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVec(t *testing.T) {
	v := Vec{X: 3, Y: 4}

	require.Equal(t, 5.0, v.Length())
	require.Equal(t, Vec{X: 4, Y: 5}, v.Add(VecOne))
	require.Equal(t, Vec{X: 6, Y: 8}, v.Mul(2))
	require.Equal(t, 25.0, v.Dot(v))

	require.InDelta(t, 1.0, v.Normalized().Length(), 1e-9)
	require.Equal(t, VecZero, VecZero.Normalized())

	rotated := Vec{X: 1}.Rotated(math.Pi / 2)
	require.InDelta(t, 0, rotated.X, 1e-9)
	require.InDelta(t, 1, rotated.Y, 1e-9)
	require.InDelta(t, math.Pi/2, float64(rotated.Angle()), 1e-9)
}

func TestRad(t *testing.T) {
	require.InDelta(t, -math.Pi/2, float64(Rad(3*math.Pi/2).Normalized()), 1e-9)
	require.InDelta(t, 90, DegToRad(90).Degrees(), 1e-9)
}
