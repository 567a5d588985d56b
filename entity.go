package kesko

import (
	"log/slog"
	"math"
	"strconv"
)

// EntityId identifies an entity within a World. Ids are handed out sequentially
// and are never reused by the same world.
type EntityId uint32

const NoEntityId = EntityId(0)

func (e EntityId) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

func (e EntityId) LogValue() slog.Value {
	return slog.StringValue(e.String())
}

// Bits encodes the entity id into a fixed width integer. The encoding is stable
// and can be stored as auxiliary data in systems that do not know about entities,
// e.g. the user data slot of a physics body.
func (e EntityId) Bits() uint64 {
	return uint64(e)
}

// EntityIdFromBits is the inverse of EntityId.Bits. It reports false if the bits
// can not have been produced by EntityId.Bits.
func EntityIdFromBits(bits uint64) (EntityId, bool) {
	if bits > math.MaxUint32 {
		return NoEntityId, false
	}

	return EntityId(bits), true
}
