package physics

import (
	"strings"

	"github.com/oliverbestmann/kesko"
	"github.com/oliverbestmann/kesko/gm"
)

type CollisionKind uint8

const (
	CollisionStarted CollisionKind = iota
	CollisionStopped
)

func (k CollisionKind) String() string {
	switch k {
	case CollisionStarted:
		return "Started"
	case CollisionStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// CollisionFlags describe a collision. Bits not defined here are engine specific
// and are passed through unchanged.
type CollisionFlags uint32

const (
	// FlagSensor is set if at least one of the colliders is a sensor.
	FlagSensor CollisionFlags = 1 << 0

	// FlagRemoved is set if the collision stopped because one of the colliders was removed.
	FlagRemoved CollisionFlags = 1 << 1
)

func (f CollisionFlags) Has(flag CollisionFlags) bool {
	return f&flag == flag
}

func (f CollisionFlags) String() string {
	var parts []string
	if f.Has(FlagSensor) {
		parts = append(parts, "sensor")
	}

	if f.Has(FlagRemoved) {
		parts = append(parts, "removed")
	}

	return strings.Join(parts, "|")
}

// CollisionNotification is the engines view of a collision, the colliders are
// identified by engine handles.
type CollisionNotification struct {
	ColliderA ColliderHandle
	ColliderB ColliderHandle
	Kind      CollisionKind
	Flags     CollisionFlags
}

// CollisionEvent is published on the hosts message bus for each collision
// between two entities.
type CollisionEvent struct {
	Entity1 kesko.EntityId `json:"entity1" cbor:"1,keyasint"`
	Entity2 kesko.EntityId `json:"entity2" cbor:"2,keyasint"`
	Flags   CollisionFlags `json:"flags" cbor:"3,keyasint"`
	Kind    CollisionKind  `json:"kind" cbor:"4,keyasint"`
}

// ContactForceEvent reports the force applied between two colliders during a step.
type ContactForceEvent struct {
	ColliderA ColliderHandle
	ColliderB ColliderHandle

	TotalForce          gm.Vec
	TotalForceMagnitude float64
}
