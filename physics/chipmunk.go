package physics

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/jakecoffman/cp/v2"
	"github.com/oliverbestmann/kesko/gm"
)

// all shapes created by the engine share this collision type,
// so a single handler sees every collision
const bridgeCollisionType cp.CollisionType = 1

type EngineConfig struct {
	Gravity    gm.Vec
	Iterations uint

	// report contact forces to the EventHandler after each step
	ContactForceEvents bool
}

// ChipmunkEngine implements Engine on top of a chipmunk space.
type ChipmunkEngine struct {
	space   *cp.Space
	handler EventHandler

	bodies    map[BodyHandle]*chipmunkBody
	colliders map[ColliderHandle]*chipmunkCollider
	joints    map[JointHandle]*chipmunkJoint

	// reverse lookup used in collision callbacks
	shapes map[*cp.Shape]ColliderHandle

	handleSeq uint32

	// duration of the current step, used to convert impulses into forces
	stepDt float64

	contactForceErrorLogged bool

	// set while a shape is removed from the space, separate callbacks
	// fired during the removal carry FlagRemoved
	removing bool
}

type chipmunkBody struct {
	body       *cp.Body
	kind       BodyKind
	autoMoment bool
	colliders  []ColliderHandle
	joints     []JointHandle
}

type chipmunkCollider struct {
	shape  *cp.Shape
	body   BodyHandle
	entity uint64
	events bool
}

type chipmunkJoint struct {
	motor  *cp.Constraint
	pivot  *cp.Constraint
	bodies [2]BodyHandle
}

func NewChipmunkEngine(config EngineConfig) *ChipmunkEngine {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector(config.Gravity))

	if config.Iterations > 0 {
		space.Iterations = config.Iterations
	}

	e := &ChipmunkEngine{
		space:     space,
		bodies:    map[BodyHandle]*chipmunkBody{},
		colliders: map[ColliderHandle]*chipmunkCollider{},
		joints:    map[JointHandle]*chipmunkJoint{},
		shapes:    map[*cp.Shape]ColliderHandle{},
	}

	handler := space.NewCollisionHandler(bridgeCollisionType, bridgeCollisionType)

	handler.BeginFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
		e.notifyCollision(arb, CollisionStarted)
		return true
	}

	handler.SeparateFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
		e.notifyCollision(arb, CollisionStopped)
	}

	if config.ContactForceEvents {
		handler.PostSolveFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
			e.notifyContactForce(arb)
		}
	}

	return e
}

// Space gives access to the underlying chipmunk space, e.g. for debug drawing.
func (e *ChipmunkEngine) Space() *cp.Space {
	return e.space
}

func (e *ChipmunkEngine) SetEventHandler(handler EventHandler) {
	e.handler = handler
}

func (e *ChipmunkEngine) nextHandle() uint32 {
	e.handleSeq += 1
	return e.handleSeq
}

func (e *ChipmunkEngine) AddBody(def BodyDef) BodyHandle {
	var body *cp.Body

	var autoMoment bool

	switch def.Kind {
	case BodyStatic:
		body = cp.NewStaticBody()

	case BodyKinematic:
		body = cp.NewKinematicBody()

	default:
		mass := def.Mass
		if mass <= 0 {
			mass = 1
		}

		moment := def.Moment
		if moment <= 0 {
			// updated once colliders are added
			moment = 1
			autoMoment = true
		}

		body = cp.NewBody(mass, moment)
	}

	body.UserData = def.Entity.Bits()

	body.SetPosition(cp.Vector(def.Kinematics.Position))
	body.SetAngle(float64(def.Kinematics.Angle))

	if def.Kind != BodyStatic {
		body.SetVelocityVector(cp.Vector(def.Kinematics.LinearVelocity))
		body.SetAngularVelocity(def.Kinematics.AngularVelocity)
	}

	e.space.AddBody(body)

	handle := BodyHandle(e.nextHandle())
	e.bodies[handle] = &chipmunkBody{body: body, kind: def.Kind, autoMoment: autoMoment}

	return handle
}

func (e *ChipmunkEngine) AddCollider(bodyHandle BodyHandle, def ColliderDef) (ColliderHandle, error) {
	body, ok := e.bodies[bodyHandle]
	if !ok {
		return 0, fmt.Errorf("add collider to %s: %w", bodyHandle, ErrTargetNotFound)
	}

	if def.Shape == nil {
		return 0, fmt.Errorf("add collider to %s: no shape", bodyHandle)
	}

	shape := def.Shape.MakeShape(body.body)
	shape.UserData = def.Entity.Bits()
	shape.SetCollisionType(bridgeCollisionType)
	shape.SetSensor(def.Sensor)
	shape.SetFriction(def.Friction)
	shape.SetElasticity(def.Elasticity)

	if body.kind == BodyDynamic && body.autoMoment {
		body.body.SetMoment(body.body.Moment() + def.Shape.Moment(body.body.Mass()) - momentPlaceholder(body))
	}

	e.space.AddShape(shape)

	handle := ColliderHandle(e.nextHandle())
	e.colliders[handle] = &chipmunkCollider{
		shape:  shape,
		body:   bodyHandle,
		entity: def.Entity.Bits(),
		events: def.ActiveEvents,
	}
	e.shapes[shape] = handle

	body.colliders = append(body.colliders, handle)

	return handle, nil
}

// momentPlaceholder returns the placeholder moment assigned to a body
// without colliders, it is replaced by the first collider.
func momentPlaceholder(body *chipmunkBody) float64 {
	if len(body.colliders) == 0 {
		return 1
	}

	return 0
}

func (e *ChipmunkEngine) AddMotor(def MotorDef) (JointHandle, error) {
	bodyA, okA := e.bodies[def.BodyA]
	bodyB, okB := e.bodies[def.BodyB]
	if !okA || !okB {
		return 0, fmt.Errorf("add motor between %s and %s: %w", def.BodyA, def.BodyB, ErrTargetNotFound)
	}

	if err := validateMotorValues(def.Rate, def.MaxForce); err != nil {
		return 0, err
	}

	joint := &chipmunkJoint{bodies: [2]BodyHandle{def.BodyA, def.BodyB}}

	joint.motor = cp.NewSimpleMotor(bodyA.body, bodyB.body, def.Rate)
	joint.motor.UserData = def.Entity.Bits()

	if def.MaxForce > 0 {
		joint.motor.SetMaxForce(def.MaxForce)
	}

	e.space.AddConstraint(joint.motor)

	if def.WithPivot {
		joint.pivot = cp.NewPivotJoint(bodyA.body, bodyB.body, cp.Vector(def.Pivot))
		joint.pivot.UserData = def.Entity.Bits()
		e.space.AddConstraint(joint.pivot)
	}

	handle := JointHandle(e.nextHandle())
	e.joints[handle] = joint

	bodyA.joints = append(bodyA.joints, handle)
	bodyB.joints = append(bodyB.joints, handle)

	return handle, nil
}

func (e *ChipmunkEngine) RemoveBody(handle BodyHandle) {
	body, ok := e.bodies[handle]
	if !ok {
		return
	}

	for _, joint := range body.joints {
		e.RemoveJoint(joint)
	}

	for _, collider := range body.colliders {
		e.RemoveCollider(collider)
	}

	e.space.RemoveBody(body.body)
	delete(e.bodies, handle)
}

// RemoveCollider removes the collider from the space. Ongoing collisions of the
// collider are reported as stopped with the FlagRemoved flag.
func (e *ChipmunkEngine) RemoveCollider(handle ColliderHandle) {
	collider, ok := e.colliders[handle]
	if !ok {
		return
	}

	// the separate callbacks fire in here, keep the
	// reverse lookup alive until they are done
	e.removing = true
	e.space.RemoveShape(collider.shape)
	e.removing = false

	delete(e.shapes, collider.shape)
	delete(e.colliders, handle)

	if body, ok := e.bodies[collider.body]; ok {
		body.colliders = removeValue(body.colliders, handle)
	}
}

func (e *ChipmunkEngine) RemoveJoint(handle JointHandle) {
	joint, ok := e.joints[handle]
	if !ok {
		return
	}

	e.space.RemoveConstraint(joint.motor)

	if joint.pivot != nil {
		e.space.RemoveConstraint(joint.pivot)
	}

	delete(e.joints, handle)

	for _, bodyHandle := range joint.bodies {
		if body, ok := e.bodies[bodyHandle]; ok {
			body.joints = removeValue(body.joints, handle)
		}
	}
}

func (e *ChipmunkEngine) Step(dt float64) {
	if dt <= 0 {
		return
	}

	e.stepDt = dt
	e.space.Step(dt)
}

func (e *ChipmunkEngine) Body(handle BodyHandle) (Kinematics, bool) {
	body, ok := e.bodies[handle]
	if !ok {
		return Kinematics{}, false
	}

	return Kinematics{
		Position:        gm.Vec(body.body.Position()),
		Angle:           gm.Rad(body.body.Angle()),
		LinearVelocity:  gm.Vec(body.body.Velocity()),
		AngularVelocity: body.body.AngularVelocity(),
	}, true
}

func (e *ChipmunkEngine) SetBody(handle BodyHandle, kinematics Kinematics) {
	body, ok := e.bodies[handle]
	if !ok {
		return
	}

	body.body.SetPosition(cp.Vector(kinematics.Position))
	body.body.SetAngle(float64(kinematics.Angle))

	if body.kind == BodyStatic {
		// static shapes are not reindexed by the space on their own
		for _, colliderHandle := range body.colliders {
			e.space.ReindexShape(e.colliders[colliderHandle].shape)
		}

		return
	}

	body.body.SetVelocityVector(cp.Vector(kinematics.LinearVelocity))
	body.body.SetAngularVelocity(kinematics.AngularVelocity)
}

func (e *ChipmunkEngine) ApplyForce(handle BodyHandle, force gm.Vec, torque float64) {
	body, ok := e.bodies[handle]
	if !ok || body.kind != BodyDynamic {
		return
	}

	if !force.IsZero() {
		body.body.ApplyForceAtLocalPoint(cp.Vector(force), cp.Vector{})
	}

	if torque != 0 {
		body.body.SetTorque(body.body.Torque() + torque)
	}
}

// ApplyMotorCommand updates the target rate and the maximum force of a motor.
func (e *ChipmunkEngine) ApplyMotorCommand(handle JointHandle, command MotorCommand) error {
	joint, ok := e.joints[handle]
	if !ok {
		return fmt.Errorf("motor %s: %w", handle, ErrTargetNotFound)
	}

	if err := validateMotorValues(command.Rate, command.MaxForce); err != nil {
		return err
	}

	motor, ok := joint.motor.Class.(*cp.SimpleMotor)
	if !ok {
		return &NotSupportedError{Operation: fmt.Sprintf("motor command on %T", joint.motor.Class)}
	}

	motor.Rate = command.Rate

	if command.MaxForce > 0 {
		joint.motor.SetMaxForce(command.MaxForce)
	}

	// wake up sleeping bodies so the new rate takes effect
	joint.motor.ActivateBodies()

	return nil
}

func (e *ChipmunkEngine) SetGravity(gravity gm.Vec) {
	if gm.Vec(e.space.Gravity()) == gravity {
		return
	}

	e.space.SetGravity(cp.Vector(gravity))
}

func (e *ChipmunkEngine) notifyCollision(arb *cp.Arbiter, kind CollisionKind) {
	if e.handler == nil {
		return
	}

	shapeA, shapeB := arb.Shapes()

	handleA, okA := e.shapes[shapeA]
	handleB, okB := e.shapes[shapeB]
	if !okA || !okB {
		return
	}

	colliderA, colliderB := e.colliders[handleA], e.colliders[handleB]

	// the entity stored in the shape must match the collider it was created with
	mustMatchUserData(shapeA, colliderA)
	mustMatchUserData(shapeB, colliderB)

	if !colliderA.events && !colliderB.events {
		return
	}

	var flags CollisionFlags
	if shapeA.Sensor() || shapeB.Sensor() {
		flags |= FlagSensor
	}

	if e.removing {
		flags |= FlagRemoved
	}

	e.handler.HandleCollisionEvent(CollisionNotification{
		ColliderA: handleA,
		ColliderB: handleB,
		Kind:      kind,
		Flags:     flags,
	})
}

func (e *ChipmunkEngine) notifyContactForce(arb *cp.Arbiter) {
	if e.handler == nil || e.stepDt <= 0 {
		return
	}

	shapeA, shapeB := arb.Shapes()

	handleA, okA := e.shapes[shapeA]
	handleB, okB := e.shapes[shapeB]
	if !okA || !okB {
		return
	}

	force := gm.Vec(arb.TotalImpulse()).Mul(1 / e.stepDt)

	err := e.handler.HandleContactForceEvent(ContactForceEvent{
		ColliderA:           handleA,
		ColliderB:           handleB,
		TotalForce:          force,
		TotalForceMagnitude: force.Length(),
	})

	if err != nil && !e.contactForceErrorLogged {
		// logged once, the same error would be returned for every contact
		e.contactForceErrorLogged = true
		slog.Warn("Contact force event not handled", slog.String("err", err.Error()))
	}
}

func mustMatchUserData(shape *cp.Shape, collider *chipmunkCollider) {
	if bits, ok := shape.UserData.(uint64); !ok || bits != collider.entity {
		panic(fmt.Sprintf("shape user data %v does not match collider entity %d", shape.UserData, collider.entity))
	}
}

func validateMotorValues(rate, maxForce float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Errorf("invalid motor rate %v", rate)
	}

	if math.IsNaN(maxForce) || maxForce < 0 {
		return fmt.Errorf("invalid motor max force %v", maxForce)
	}

	return nil
}

func removeValue[T comparable](values []T, value T) []T {
	for idx, v := range values {
		if v == value {
			return append(values[:idx], values[idx+1:]...)
		}
	}

	return values
}
