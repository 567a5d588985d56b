package physics

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/oliverbestmann/kesko"
	"github.com/oliverbestmann/kesko/gm"
	"github.com/zeebo/xxh3"
)

// WorldState is the serializable snapshot of all bodies tracked by the bridge.
type WorldState struct {
	Tick    uint64      `json:"tick" cbor:"1,keyasint"`
	Running bool        `json:"running" cbor:"2,keyasint"`
	Bodies  []BodyState `json:"bodies" cbor:"3,keyasint"`
}

type BodyState struct {
	Entity          kesko.EntityId `json:"entity" cbor:"1,keyasint"`
	Name            string         `json:"name,omitempty" cbor:"2,keyasint,omitempty"`
	Position        gm.Vec         `json:"position" cbor:"3,keyasint"`
	Angle           gm.Rad         `json:"angle" cbor:"4,keyasint"`
	LinearVelocity  gm.Vec         `json:"linearVelocity" cbor:"5,keyasint"`
	AngularVelocity float64        `json:"angularVelocity" cbor:"6,keyasint"`
}

var stateEncMode = mustEncMode(cbor.CanonicalEncOptions())

func mustEncMode(options cbor.EncOptions) cbor.EncMode {
	mode, err := options.EncMode()
	if err != nil {
		panic(fmt.Sprintf("invalid cbor options: %s", err))
	}

	return mode
}

// EncodeWorldState encodes the state as canonical cbor. Encoding the same
// state twice results in the same bytes.
func EncodeWorldState(state WorldState) ([]byte, error) {
	blob, err := stateEncMode.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode world state: %w", err)
	}

	return blob, nil
}

func DecodeWorldState(blob []byte) (WorldState, error) {
	var state WorldState
	if err := cbor.Unmarshal(blob, &state); err != nil {
		return WorldState{}, fmt.Errorf("decode world state: %w", err)
	}

	return state, nil
}

// Checksum hashes an encoded state for cheap comparison of snapshots.
func Checksum(blob []byte) uint64 {
	return xxh3.Hash(blob)
}
