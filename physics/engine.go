package physics

import (
	"github.com/jakecoffman/cp/v2"
	"github.com/oliverbestmann/kesko"
	"github.com/oliverbestmann/kesko/gm"
)

// Engine is the boundary to the physics engine. All methods must be called
// from the same goroutine, callbacks to the EventHandler happen synchronously.
type Engine interface {
	SetEventHandler(handler EventHandler)

	AddBody(def BodyDef) BodyHandle
	AddCollider(body BodyHandle, def ColliderDef) (ColliderHandle, error)
	AddMotor(def MotorDef) (JointHandle, error)

	RemoveBody(handle BodyHandle)
	RemoveCollider(handle ColliderHandle)
	RemoveJoint(handle JointHandle)

	Step(dt float64)

	Body(handle BodyHandle) (Kinematics, bool)
	SetBody(handle BodyHandle, kinematics Kinematics)
	ApplyForce(handle BodyHandle, force gm.Vec, torque float64)

	ApplyMotorCommand(handle JointHandle, command MotorCommand) error

	SetGravity(gravity gm.Vec)
}

type BodyKind uint8

const (
	BodyDynamic BodyKind = iota
	BodyStatic
	BodyKinematic
)

type BodyDef struct {
	// the entity owning the body, stored as auxiliary data within the engine
	Entity kesko.EntityId
	Kind   BodyKind

	// defaults to 1 for dynamic bodies
	Mass float64

	// calculated from the colliders if zero
	Moment float64

	Kinematics Kinematics
}

type ColliderDef struct {
	Entity kesko.EntityId
	Shape  Shape

	Sensor     bool
	Friction   float64
	Elasticity float64

	// collision notifications are only reported if at least
	// one collider of a pair has ActiveEvents set
	ActiveEvents bool
}

type MotorDef struct {
	Entity kesko.EntityId

	BodyA, BodyB BodyHandle

	// pivot joint connecting both bodies, in world coordinates
	Pivot     gm.Vec
	WithPivot bool

	Rate     float64
	MaxForce float64
}

// Kinematics is the state of a body as reported by the engine.
type Kinematics struct {
	Position        gm.Vec
	Angle           gm.Rad
	LinearVelocity  gm.Vec
	AngularVelocity float64
}

// Shape creates the collision shape of a collider.
type Shape interface {
	MakeShape(body *cp.Body) *cp.Shape

	// Moment calculates the moment of inertia of the shape for the given mass.
	Moment(mass float64) float64
}

type CircleShape struct {
	Radius float64
	Offset gm.Vec
}

func (s CircleShape) MakeShape(body *cp.Body) *cp.Shape {
	return cp.NewCircle(body, s.Radius, cp.Vector(s.Offset))
}

func (s CircleShape) Moment(mass float64) float64 {
	return cp.MomentForCircle(mass, 0, s.Radius, cp.Vector(s.Offset))
}

type BoxShape struct {
	Width, Height float64
	Radius        float64
}

func (s BoxShape) MakeShape(body *cp.Body) *cp.Shape {
	return cp.NewBox(body, s.Width, s.Height, s.Radius)
}

func (s BoxShape) Moment(mass float64) float64 {
	return cp.MomentForBox(mass, s.Width, s.Height)
}

type SegmentShape struct {
	A, B   gm.Vec
	Radius float64
}

func (s SegmentShape) MakeShape(body *cp.Body) *cp.Shape {
	return cp.NewSegment(body, cp.Vector(s.A), cp.Vector(s.B), s.Radius)
}

func (s SegmentShape) Moment(mass float64) float64 {
	return cp.MomentForSegment(mass, cp.Vector(s.A), cp.Vector(s.B), s.Radius)
}
