package physics

import (
	"log/slog"

	"github.com/oliverbestmann/kesko"
	"github.com/oliverbestmann/kesko/gm"
	"github.com/oliverbestmann/kesko/internal/set"
)

type PhysicsConfig struct {
	// the engine to use. A ChipmunkEngine is created if nil
	Engine Engine

	Gravity    gm.Vec
	Iterations uint

	// report contact forces to ContactForces
	ContactForceEvents bool
	ContactForces      ContactForceHandler

	// start with the simulation paused
	Paused bool
}

func DefaultPhysicsConfig() PhysicsConfig {
	return PhysicsConfig{
		Gravity:    gm.Vec{Y: -9.81},
		Iterations: 10,
	}
}

// Plugin adds physics with the DefaultPhysicsConfig.
func Plugin(app *kesko.App) {
	PluginWith(DefaultPhysicsConfig()).ApplyTo(app)
}

func PluginWith(config PhysicsConfig) kesko.PluginFunc {
	return func(app *kesko.App) {
		engine := config.Engine
		if engine == nil {
			engine = NewChipmunkEngine(EngineConfig{
				Gravity:            config.Gravity,
				Iterations:         config.Iterations,
				ContactForceEvents: config.ContactForceEvents,
			})
		}

		sender, receiver := NewNotificationChannel()

		engine.SetEventHandler(&CollisionEventHandler{
			Sender:        sender,
			ContactForces: config.ContactForces,
		})

		app.InsertResource(PhysicsEngine{Engine: engine})
		app.InsertResource(notificationChannel{Receiver: receiver})
		app.InsertResource(Gravity{Value: config.Gravity})
		app.InsertResource(SimulationControl{Running: !config.Paused})

		app.InsertResource(NewRegistry[BodyHandle]())
		app.InsertResource(NewRegistry[ColliderHandle]())
		app.InsertResource(NewRegistry[JointHandle]())

		app.AddMessage(kesko.MessageType[CollisionEvent]())
		app.AddMessage(kesko.MessageType[ControlRequest]())
		app.AddMessage(kesko.MessageType[ControlResponse]())

		app.AddSystems(kesko.FixedUpdate, kesko.System(
			removeDespawnedSystem,
			makeBodiesSystem,
			makeMotorsSystem,
			kesko.System(preStepSyncResourcesSystem, preStepSyncBodiesSystem),
			kesko.System(stepSystem).RunIf(PhysicsRunning),
			postStepSyncSystem,
		).Chain())

		app.AddSystems(kesko.Last, DispatchStage())
	}
}

func makeBodiesSystem(
	engine PhysicsEngine,
	bodies *Registry[BodyHandle],
	colliders *Registry[ColliderHandle],
	failed *kesko.Local[set.Set[kesko.EntityId]],
	query kesko.Query[struct {
		EntityId   kesko.EntityId
		Body       Body
		Transform  Transform
		Velocity   Velocity
		Mass       kesko.Option[Mass]
		Moment     kesko.Option[Moment]
		Collider   kesko.Option[Collider]
		Friction   kesko.Option[ColliderFriction]
		Elasticity kesko.Option[ColliderElasticity]
		Sensor     kesko.Has[Sensor]
		Events     kesko.Has[CollisionEventsEnabled]
	}],
) {
	for item := range query.Items() {
		bodyHandle, exists := bodies.Handle(item.EntityId)
		if !exists {
			bodyHandle = engine.AddBody(BodyDef{
				Entity: item.EntityId,
				Kind:   item.Body.Kind,
				Mass:   item.Mass.OrDefault().Value,
				Moment: item.Moment.OrDefault().Value,
				Kinematics: Kinematics{
					Position:        item.Transform.Translation,
					Angle:           item.Transform.Rotation,
					LinearVelocity:  item.Velocity.Linear,
					AngularVelocity: item.Velocity.Angular,
				},
			})

			bodies.Insert(bodyHandle, item.EntityId)
		}

		// a collider might be added to an existing body later on
		collider, ok := item.Collider.Get()
		if !ok {
			continue
		}

		if _, exists := colliders.Handle(item.EntityId); exists || failed.Value.Has(item.EntityId) {
			continue
		}

		colliderHandle, err := engine.AddCollider(bodyHandle, ColliderDef{
			Entity:       item.EntityId,
			Shape:        collider.Shape,
			Sensor:       item.Sensor.Exists(),
			Friction:     item.Friction.OrDefault().Value,
			Elasticity:   item.Elasticity.OrDefault().Value,
			ActiveEvents: item.Events.Exists(),
		})

		if err != nil {
			slog.Warn("Failed to create collider",
				slog.Any("entityId", item.EntityId),
				slog.String("err", err.Error()),
			)

			failed.Value.Insert(item.EntityId)
			continue
		}

		colliders.Insert(colliderHandle, item.EntityId)
	}
}

func makeMotorsSystem(
	engine PhysicsEngine,
	bodies *Registry[BodyHandle],
	joints *Registry[JointHandle],
	failed *kesko.Local[set.Set[kesko.EntityId]],
	query kesko.Query[struct {
		EntityId kesko.EntityId
		Motor    Motor
	}],
) {
	for item := range query.Items() {
		if _, exists := joints.Handle(item.EntityId); exists {
			continue
		}

		if failed.Value.Has(item.EntityId) {
			continue
		}

		bodyA, okA := bodies.Handle(item.Motor.BodyA)
		bodyB, okB := bodies.Handle(item.Motor.BodyB)
		if !okA || !okB {
			// bodies might not be created yet, try again next step
			continue
		}

		jointHandle, err := engine.AddMotor(MotorDef{
			Entity:    item.EntityId,
			BodyA:     bodyA,
			BodyB:     bodyB,
			Pivot:     item.Motor.Pivot,
			WithPivot: item.Motor.WithPivot,
			Rate:      item.Motor.Rate,
			MaxForce:  item.Motor.MaxForce,
		})

		if err != nil {
			slog.Warn("Failed to create motor",
				slog.Any("entityId", item.EntityId),
				slog.String("err", err.Error()),
			)

			failed.Value.Insert(item.EntityId)
			continue
		}

		joints.Insert(jointHandle, item.EntityId)
	}
}

// removeDespawnedSystem destroys the engine objects of entities that lost their
// physics components. The registry mapping is dropped before the engine object is
// removed, notifications the removal triggers can not be resolved anymore.
func removeDespawnedSystem(
	engine PhysicsEngine,
	bodies *Registry[BodyHandle],
	colliders *Registry[ColliderHandle],
	joints *Registry[JointHandle],
	removedBodies kesko.RemovedComponents[Body],
	removedColliders kesko.RemovedComponents[Collider],
	removedMotors kesko.RemovedComponents[Motor],
) {
	for entityId := range removedMotors.Read() {
		if handle, ok := joints.Remove(entityId); ok {
			engine.RemoveJoint(handle)
		}
	}

	for entityId := range removedColliders.Read() {
		if handle, ok := colliders.Remove(entityId); ok {
			engine.RemoveCollider(handle)
		}
	}

	for entityId := range removedBodies.Read() {
		// the engine removes the colliders of a body together with the body
		colliders.Remove(entityId)

		if handle, ok := bodies.Remove(entityId); ok {
			engine.RemoveBody(handle)
		}
	}
}

func preStepSyncResourcesSystem(engine PhysicsEngine, gravity Gravity) {
	engine.SetGravity(gravity.Value)
}

func preStepSyncBodiesSystem(
	engine PhysicsEngine,
	bodies *Registry[BodyHandle],
	query kesko.Query[struct {
		EntityId  kesko.EntityId
		Transform Transform
		Velocity  Velocity
		Forces    ExternalForces
		_         kesko.With[Body]
	}],
) {
	for item := range query.Items() {
		handle, ok := bodies.Handle(item.EntityId)
		if !ok {
			continue
		}

		desired := Kinematics{
			Position:        item.Transform.Translation,
			Angle:           item.Transform.Rotation,
			LinearVelocity:  item.Velocity.Linear,
			AngularVelocity: item.Velocity.Angular,
		}

		// only push values that were changed outside of the engine
		if current, ok := engine.Body(handle); ok && current != desired {
			engine.SetBody(handle, desired)
		}

		if !item.Forces.Linear.IsZero() || item.Forces.Torque != 0 {
			engine.ApplyForce(handle, item.Forces.Linear, item.Forces.Torque)
		}
	}
}

func stepSystem(engine PhysicsEngine, t kesko.FixedTime) {
	engine.Step(t.DeltaSecs)
}

func postStepSyncSystem(
	engine PhysicsEngine,
	bodies *Registry[BodyHandle],
	query kesko.Query[struct {
		EntityId  kesko.EntityId
		Transform *Transform
		Velocity  *Velocity
		_         kesko.With[Body]
	}],
) {
	for item := range query.Items() {
		handle, ok := bodies.Handle(item.EntityId)
		if !ok {
			continue
		}

		kinematics, ok := engine.Body(handle)
		if !ok {
			continue
		}

		item.Transform.Translation = kinematics.Position
		item.Transform.Rotation = kinematics.Angle
		item.Velocity.Linear = kinematics.LinearVelocity
		item.Velocity.Angular = kinematics.AngularVelocity
	}
}
