package kesko

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocal(t *testing.T) {
	w := NewWorld()

	var seen []int

	collect := func(buffer *Local[[]int], counter *Local[int]) {
		counter.Value += 1
		buffer.Value = append(buffer.Value, counter.Value)
		seen = buffer.Value
	}

	// locals keep their value between runs of a system
	w.AddSystems(Update, collect)
	w.RunSchedule(Update)
	w.RunSchedule(Update)

	require.Equal(t, []int{1, 2}, seen)

	// a different system gets its own locals
	other := func(counter *Local[int]) {
		require.Equal(t, 0, counter.Value)
	}

	w.RunSystem(other)
}
