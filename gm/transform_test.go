package gm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireVecInDelta(t *testing.T, expected, actual Vec) {
	t.Helper()

	require.InDelta(t, expected.X, actual.X, 1e-9)
	require.InDelta(t, expected.Y, actual.Y, 1e-9)
}

func TestMat(t *testing.T) {
	t.Run("rotation", func(t *testing.T) {
		requireVecInDelta(t, Vec{Y: 1}, RotationMat(math.Pi/2).Transform(Vec{X: 1}))
		requireVecInDelta(t, Vec{X: -1, Y: -1}, RotationMat(math.Pi).Transform(Vec{X: 1, Y: 1}))
	})

	t.Run("mul composes rotations", func(t *testing.T) {
		m := RotationMat(math.Pi).Mul(RotationMat(math.Pi / 2))
		requireVecInDelta(t, RotationMat(1.5*math.Pi).Transform(Vec{X: 1}), m.Transform(Vec{X: 1}))
	})

	t.Run("identity", func(t *testing.T) {
		require.Equal(t, Vec{X: 3, Y: 4}, IdentityMat().Transform(Vec{X: 3, Y: 4}))
	})
}

func TestAffine(t *testing.T) {
	tr := IdentityAffine().Translate(Vec{X: 2, Y: 1})
	require.Equal(t, Vec{X: 12, Y: 11}, tr.Transform(Vec{X: 10, Y: 10}))
	require.Equal(t, Vec{X: 10, Y: 10}, tr.TransformVec(Vec{X: 10, Y: 10}))

	// the rotation is applied to the point before the translation
	tr = IdentityAffine().Translate(Vec{X: 10}).Rotate(DegToRad(90))
	requireVecInDelta(t, Vec{X: 10, Y: 1}, tr.Transform(Vec{X: 1}))

	tr = IdentityAffine().Scale(VecSplat(2)).Translate(Vec{X: 5})
	requireVecInDelta(t, Vec{X: 30}, tr.Transform(Vec{X: 10}))
}

func TestAffine_WorldToScreen(t *testing.T) {
	screen := Vec{X: 800, Y: 600}

	// y up in world space, y down on the screen, 40 pixels per unit, centered on (0, 4)
	tr := IdentityAffine().
		Translate(screen.Mul(0.5)).
		Scale(Vec{X: 40, Y: -40}).
		Translate(Vec{Y: -4})

	requireVecInDelta(t, Vec{X: 400, Y: 300}, tr.Transform(Vec{Y: 4}))
	requireVecInDelta(t, Vec{X: 440, Y: 460}, tr.Transform(Vec{X: 1}))
	require.InDelta(t, 40, tr.TransformVec(Vec{X: 1}).Length(), 1e-9)
}
