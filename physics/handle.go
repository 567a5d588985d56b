package physics

import "strconv"

// BodyHandle identifies a rigid body within an Engine.
type BodyHandle uint32

// ColliderHandle identifies a collider within an Engine.
type ColliderHandle uint32

// JointHandle identifies a joint (e.g. a motor) within an Engine.
type JointHandle uint32

func (h BodyHandle) String() string {
	return "body:" + strconv.FormatUint(uint64(h), 10)
}

func (h ColliderHandle) String() string {
	return "collider:" + strconv.FormatUint(uint64(h), 10)
}

func (h JointHandle) String() string {
	return "joint:" + strconv.FormatUint(uint64(h), 10)
}
