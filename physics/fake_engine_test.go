package physics

import (
	"github.com/oliverbestmann/kesko"
	"github.com/oliverbestmann/kesko/gm"
)

type motorCommandCall struct {
	Handle  JointHandle
	Command MotorCommand
}

// fakeEngine records all calls and lets a test publish notifications during a step.
type fakeEngine struct {
	handler EventHandler

	handleSeq uint32

	bodies    map[BodyHandle]Kinematics
	colliders map[ColliderHandle]kesko.EntityId
	joints    map[JointHandle]MotorDef

	steps int

	// called after each step with the number of the step, starting at 1
	onStep func(step int)

	motorCommands []motorCommandCall
	motorErr      error

	removedColliders []ColliderHandle
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		bodies:    map[BodyHandle]Kinematics{},
		colliders: map[ColliderHandle]kesko.EntityId{},
		joints:    map[JointHandle]MotorDef{},
	}
}

func (e *fakeEngine) colliderOf(entityId kesko.EntityId) ColliderHandle {
	for handle, owner := range e.colliders {
		if owner == entityId {
			return handle
		}
	}

	panic("no collider for entity " + entityId.String())
}

func (e *fakeEngine) notify(a, b kesko.EntityId, kind CollisionKind, flags CollisionFlags) {
	e.handler.HandleCollisionEvent(CollisionNotification{
		ColliderA: e.colliderOf(a),
		ColliderB: e.colliderOf(b),
		Kind:      kind,
		Flags:     flags,
	})
}

func (e *fakeEngine) SetEventHandler(handler EventHandler) {
	e.handler = handler
}

func (e *fakeEngine) AddBody(def BodyDef) BodyHandle {
	e.handleSeq += 1
	handle := BodyHandle(e.handleSeq)
	e.bodies[handle] = def.Kinematics
	return handle
}

func (e *fakeEngine) AddCollider(body BodyHandle, def ColliderDef) (ColliderHandle, error) {
	if _, ok := e.bodies[body]; !ok {
		return 0, ErrTargetNotFound
	}

	e.handleSeq += 1
	handle := ColliderHandle(e.handleSeq)
	e.colliders[handle] = def.Entity
	return handle, nil
}

func (e *fakeEngine) AddMotor(def MotorDef) (JointHandle, error) {
	e.handleSeq += 1
	handle := JointHandle(e.handleSeq)
	e.joints[handle] = def
	return handle, nil
}

func (e *fakeEngine) RemoveBody(handle BodyHandle) {
	delete(e.bodies, handle)
}

func (e *fakeEngine) RemoveCollider(handle ColliderHandle) {
	e.removedColliders = append(e.removedColliders, handle)
	delete(e.colliders, handle)
}

func (e *fakeEngine) RemoveJoint(handle JointHandle) {
	delete(e.joints, handle)
}

func (e *fakeEngine) Step(dt float64) {
	e.steps += 1

	for handle, body := range e.bodies {
		body.Position = body.Position.Add(body.LinearVelocity.Mul(dt))
		e.bodies[handle] = body
	}

	if e.onStep != nil {
		e.onStep(e.steps)
	}
}

func (e *fakeEngine) Body(handle BodyHandle) (Kinematics, bool) {
	body, ok := e.bodies[handle]
	return body, ok
}

func (e *fakeEngine) SetBody(handle BodyHandle, kinematics Kinematics) {
	if _, ok := e.bodies[handle]; ok {
		e.bodies[handle] = kinematics
	}
}

func (e *fakeEngine) ApplyForce(handle BodyHandle, force gm.Vec, torque float64) {
}

func (e *fakeEngine) ApplyMotorCommand(handle JointHandle, command MotorCommand) error {
	e.motorCommands = append(e.motorCommands, motorCommandCall{Handle: handle, Command: command})
	return e.motorErr
}

func (e *fakeEngine) SetGravity(gravity gm.Vec) {
}
