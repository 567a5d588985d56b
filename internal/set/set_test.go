package set

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	var s Set[int]
	require.False(t, s.Has(1))
	require.Equal(t, 0, s.Len())

	require.True(t, s.Insert(1))
	require.False(t, s.Insert(1))
	require.True(t, s.Insert(2))

	require.True(t, s.Has(1))
	require.False(t, s.Has(3))
	require.Equal(t, 2, s.Len())
}
