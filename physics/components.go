package physics

import (
	"github.com/oliverbestmann/kesko"
	"github.com/oliverbestmann/kesko/gm"
)

// Transform is the position and rotation of a body in world space.
// It is written back after every physics step.
type Transform struct {
	kesko.Component[Transform]
	Translation gm.Vec
	Rotation    gm.Rad
}

type Velocity struct {
	kesko.Component[Velocity]
	Linear  gm.Vec
	Angular float64
}

type Mass struct {
	kesko.Component[Mass]
	Value float64
}

// Moment overrides the moment of inertia of a body.
// Without it, the moment is calculated from the colliders shape.
type Moment struct {
	kesko.Component[Moment]
	Value float64
}

// ExternalForces are applied to the body in every step.
type ExternalForces struct {
	kesko.Component[ExternalForces]
	Linear gm.Vec
	Torque float64
}

type Collider struct {
	kesko.Component[Collider]
	Shape Shape
}

func (Collider) RequireComponents() []kesko.ErasedComponent {
	return []kesko.ErasedComponent{
		ColliderElasticity{Value: 0},
		ColliderFriction{Value: 0.5},
	}
}

type ColliderElasticity struct {
	kesko.Component[ColliderElasticity]
	Value float64
}

type ColliderFriction struct {
	kesko.Component[ColliderFriction]
	Value float64
}

// Sensor marks a collider as a sensor. Sensors report collisions but do not
// generate contact forces.
type Sensor struct {
	kesko.Component[Sensor]
}

// CollisionEventsEnabled enables collision events for a collider.
type CollisionEventsEnabled struct {
	kesko.Component[CollisionEventsEnabled]
}

type Body struct {
	kesko.Component[Body]
	Kind BodyKind
}

func (Body) RequireComponents() []kesko.ErasedComponent {
	return []kesko.ErasedComponent{
		Transform{},
		Velocity{},
		ExternalForces{},
	}
}

var RigidBodyDynamic = Body{Kind: BodyDynamic}
var RigidBodyStatic = Body{Kind: BodyStatic}
var RigidBodyKinematic = Body{Kind: BodyKinematic}

// Motor drives the relative rotation of two bodies. The motor is
// a joint of its own and lives on a separate entity.
type Motor struct {
	kesko.Component[Motor]

	BodyA, BodyB kesko.EntityId

	// pins both bodies together at Pivot (world space) if set
	WithPivot bool
	Pivot     gm.Vec

	Rate     float64
	MaxForce float64
}

// Gravity is applied to the engine before each step.
type Gravity struct {
	Value gm.Vec
}

// PhysicsEngine holds the Engine used by the physics systems.
type PhysicsEngine struct {
	Engine
}

type notificationChannel struct {
	Receiver *NotificationReceiver
}
