package remote

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ticksOf(values []RecordedCollision) []uint64 {
	var ticks []uint64
	for _, value := range values {
		ticks = append(ticks, value.Tick)
	}

	return ticks
}

func TestCollisionRing(t *testing.T) {
	ring := newCollisionRing(3)
	require.Empty(t, ring.Latest(0))

	ring.Push(RecordedCollision{Tick: 1})
	ring.Push(RecordedCollision{Tick: 2})

	require.Equal(t, []uint64{1, 2}, ticksOf(ring.Latest(0)))
	require.Equal(t, []uint64{2}, ticksOf(ring.Latest(1)))

	ring.Push(RecordedCollision{Tick: 3})
	ring.Push(RecordedCollision{Tick: 4})
	ring.Push(RecordedCollision{Tick: 5})

	require.Equal(t, 3, ring.Len())
	require.Equal(t, []uint64{3, 4, 5}, ticksOf(ring.Latest(0)))
	require.Equal(t, []uint64{4, 5}, ticksOf(ring.Latest(2)))
	require.Equal(t, []uint64{3, 4, 5}, ticksOf(ring.Latest(10)))
}
