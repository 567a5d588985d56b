package kesko

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSystemId(t *testing.T) {
	t.Run("different systems", func(t *testing.T) {
		a := asSystemConfig(a).Id
		b := asSystemConfig(b).Id
		c := asSystemConfig(c).Id

		require.NotEqual(t, a, b)
		require.NotEqual(t, a, c)
		require.NotEqual(t, b, c)
	})

	t.Run("same system", func(t *testing.T) {
		a0 := asSystemConfig(a).Id
		a1 := asSystemConfig(a).Id
		a2 := asSystemConfig(a).Id

		require.Equal(t, a0, a1)
		require.Equal(t, a0, a2)
	})
}

func TestSystemIdWithGeneric(t *testing.T) {
	a0 := asSystemConfig(gen[int]).Id
	a1 := asSystemConfig(gen[int]).Id
	require.Equal(t, a0, a1)

	b := asSystemConfig(gen[float32]).Id
	require.NotEqual(t, a0, b)
}

func TestSystemName(t *testing.T) {
	require.Equal(t, "kesko.a", asSystemConfig(a).Name)
}

func TestSystemReturnValue(t *testing.T) {
	w := NewWorld()
	require.Equal(t, 3, w.RunSystem(c))
	require.Nil(t, w.RunSystem(func() {}))
}

func TestUnsupportedParamPanics(t *testing.T) {
	w := NewWorld()

	require.Panics(t, func() {
		w.RunSystem(func(value int) {})
	})
}

func gen[X any]() {
}
