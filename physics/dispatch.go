package physics

import (
	"log/slog"

	"github.com/oliverbestmann/kesko"
)

// DispatchStage returns the systems that publish the work of the physics bridge
// to the host. They run chained in the Last schedule, exactly once per frame:
// first engine objects of despawned entities are removed, then collision
// notifications are translated into CollisionEvent messages and finally all
// pending ControlRequest messages are answered.
func DispatchStage() kesko.Systems {
	return kesko.System(
		removeDespawnedSystem,
		dispatchCollisionEventsSystem,
		dispatchControlRequestsSystem,
	).Chain()
}

func dispatchCollisionEventsSystem(
	channel notificationChannel,
	colliders *Registry[ColliderHandle],
	writer *kesko.MessageWriter[CollisionEvent],
	scratch *kesko.Local[[]CollisionNotification],
) {
	notifications := channel.Receiver.DrainAll(scratch.Value[:0])
	if len(notifications) == 0 {
		return
	}

	translator := Translator{Colliders: colliders}
	_, dropped := translator.Translate(notifications, writer.Write)

	if dropped > 0 {
		slog.Debug("Dropped collision notifications of unknown colliders", slog.Int("count", dropped))
	}

	// keep the buffer for the next frame
	clear(notifications)
	scratch.Value = notifications[:0]
}

func dispatchControlRequestsSystem(
	requests *kesko.MessageReader[ControlRequest],
	responses *kesko.MessageWriter[ControlResponse],
	control *SimulationControl,
	frame kesko.FrameCount,
	engine PhysicsEngine,
	bodies *Registry[BodyHandle],
	joints *Registry[JointHandle],
	names kesko.Query[kesko.Name],
) {
	for _, request := range requests.Read() {
		var result ControlResult

		switch action := request.Action.(type) {
		case TogglePhysics:
			control.Running = !control.Running
			result = PhysicsToggled{Running: control.Running}

		case QuerySerializableState:
			state := SnapshotWorldState(uint64(frame), control.Running, engine, bodies, names)
			result = encodeSerializableState(state)

		case ApplyMotorCommand:
			result = applyMotorCommand(action, engine, joints)

		default:
			slog.Warn("Received control request without action", slog.Uint64("id", request.Id))
			result = RequestRejected{Err: ErrInvalidRequest}
		}

		responses.Write(ControlResponse{
			Id:     request.Id,
			Tick:   uint64(frame),
			Result: result,
		})
	}
}

// SnapshotWorldState collects the state of all bodies tracked by the bridge in
// the order they were created.
func SnapshotWorldState(
	tick uint64,
	running bool,
	engine Engine,
	bodies *Registry[BodyHandle],
	names kesko.Query[kesko.Name],
) WorldState {
	state := WorldState{
		Tick:    tick,
		Running: running,
		Bodies:  make([]BodyState, 0, bodies.Len()),
	}

	for entityId, handle := range bodies.All() {
		kinematics, ok := engine.Body(handle)
		if !ok {
			continue
		}

		name, _ := names.Get(entityId)

		state.Bodies = append(state.Bodies, BodyState{
			Entity:          entityId,
			Name:            name.Name,
			Position:        kinematics.Position,
			Angle:           kinematics.Angle,
			LinearVelocity:  kinematics.LinearVelocity,
			AngularVelocity: kinematics.AngularVelocity,
		})
	}

	return state
}

func encodeSerializableState(state WorldState) SerializableState {
	blob, err := EncodeWorldState(state)
	if err != nil {
		return SerializableState{Err: err}
	}

	return SerializableState{Blob: blob, Checksum: Checksum(blob)}
}

func applyMotorCommand(action ApplyMotorCommand, engine Engine, joints *Registry[JointHandle]) MotorCommandAck {
	handle, ok := joints.Handle(action.Target)
	if !ok {
		return MotorCommandAck{Target: action.Target, Err: ErrTargetNotFound}
	}

	err := engine.ApplyMotorCommand(handle, action.Command)
	return MotorCommandAck{Target: action.Target, Err: err}
}
