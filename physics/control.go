package physics

import (
	"github.com/oliverbestmann/kesko"
)

// ControlRequest is sent by external callers to control the simulation.
// Every request receives exactly one ControlResponse with the same Id.
type ControlRequest struct {
	Id     uint64
	Action ControlAction
}

// ControlAction is one of TogglePhysics, QuerySerializableState or ApplyMotorCommand.
type ControlAction interface {
	isControlAction()
}

// TogglePhysics pauses a running simulation or resumes a paused one.
type TogglePhysics struct{}

// QuerySerializableState requests a snapshot of all bodies tracked by the bridge.
type QuerySerializableState struct{}

// ApplyMotorCommand applies a command to the motor owned by the Target entity.
type ApplyMotorCommand struct {
	Target  kesko.EntityId
	Command MotorCommand
}

func (TogglePhysics) isControlAction()          {}
func (QuerySerializableState) isControlAction() {}
func (ApplyMotorCommand) isControlAction()      {}

// MotorCommand sets the target relative angular velocity of a motor and the
// maximum torque it may apply to reach it. A zero MaxForce keeps the current limit.
type MotorCommand struct {
	Rate     float64 `json:"rate"`
	MaxForce float64 `json:"maxForce,omitempty"`
}

type ControlResponse struct {
	Id uint64

	// the frame in which the request was processed
	Tick uint64

	Result ControlResult
}

// ControlResult is the outcome of a ControlAction. A request without an action
// results in RequestRejected.
type ControlResult interface {
	isControlResult()
}

type PhysicsToggled struct {
	Running bool
}

type SerializableState struct {
	// the encoded WorldState, see DecodeWorldState
	Blob     []byte
	Checksum uint64

	// set if the state could not be encoded
	Err error
}

type MotorCommandAck struct {
	Target kesko.EntityId
	Err    error
}

// RequestRejected is the result for requests that could not be interpreted.
type RequestRejected struct {
	Err error
}

func (PhysicsToggled) isControlResult()    {}
func (SerializableState) isControlResult() {}
func (MotorCommandAck) isControlResult()   {}
func (RequestRejected) isControlResult()   {}

// SimulationControl holds the running state of the simulation.
type SimulationControl struct {
	Running bool
}

// PhysicsRunning is a predicate for systems that should only run while the
// simulation is not paused.
func PhysicsRunning(control SimulationControl) bool {
	return control.Running
}
