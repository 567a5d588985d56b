package physics

import (
	"testing"

	"github.com/oliverbestmann/kesko"
	"github.com/oliverbestmann/kesko/gm"
	"github.com/stretchr/testify/require"
)

func TestWorldStateEncoding(t *testing.T) {
	state := WorldState{
		Tick:    42,
		Running: true,
		Bodies: []BodyState{
			{Entity: 1, Name: "ground"},
			{Entity: 2, Name: "box", Position: gm.Vec{X: 1, Y: 2}, Angle: 0.5, LinearVelocity: gm.Vec{Y: -1}},
			{Entity: 3, AngularVelocity: 3.5},
		},
	}

	blob, err := EncodeWorldState(state)
	require.NoError(t, err)

	decoded, err := DecodeWorldState(blob)
	require.NoError(t, err)
	require.Equal(t, state, decoded)

	t.Run("encoding is canonical", func(t *testing.T) {
		again, err := EncodeWorldState(state)
		require.NoError(t, err)
		require.Equal(t, blob, again)
		require.Equal(t, Checksum(blob), Checksum(again))
	})

	t.Run("checksum changes with the state", func(t *testing.T) {
		changed := state
		changed.Bodies = append([]BodyState{}, state.Bodies...)
		changed.Bodies[2].Entity = kesko.EntityId(4)

		other, err := EncodeWorldState(changed)
		require.NoError(t, err)
		require.NotEqual(t, Checksum(blob), Checksum(other))
	})
}

func TestDecodeWorldStateInvalid(t *testing.T) {
	_, err := DecodeWorldState([]byte{0xff, 0x00})
	require.Error(t, err)
}
