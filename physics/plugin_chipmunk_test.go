package physics

import (
	"testing"

	"github.com/oliverbestmann/kesko"
	"github.com/oliverbestmann/kesko/gm"
	"github.com/stretchr/testify/require"
)

type chipmunkScene struct {
	app    *kesko.App
	engine *ChipmunkEngine
	frames *[][]CollisionEvent

	ground, ball kesko.EntityId
}

func newChipmunkScene(t *testing.T) chipmunkScene {
	engine := NewChipmunkEngine(EngineConfig{Gravity: gm.Vec{Y: -9.81}, Iterations: 10})

	config := DefaultPhysicsConfig()
	config.Engine = engine

	app := &kesko.App{}
	app.InsertResource(kesko.VirtualTime{Scale: 1, Lockstep: true})
	app.AddPlugin(PluginWith(config))

	frames := collectCollisions(app)

	world := app.World()

	ground := world.Spawn(
		kesko.Named("ground"),
		RigidBodyStatic,
		Collider{Shape: SegmentShape{A: gm.Vec{X: -10}, B: gm.Vec{X: 10}}},
		CollisionEventsEnabled{},
	)

	ball := world.Spawn(
		kesko.Named("ball"),
		RigidBodyDynamic,
		Mass{Value: 1},
		Transform{Translation: gm.Vec{Y: 2}},
		Collider{Shape: CircleShape{Radius: 0.5}},
		CollisionEventsEnabled{},
	)

	return chipmunkScene{app: app, engine: engine, frames: frames, ground: ground, ball: ball}
}

// updateUntilCollision runs frames until the first collision event was read.
func (s chipmunkScene) updateUntilCollision(t *testing.T) CollisionEvent {
	t.Helper()

	for range 240 {
		s.app.Update()

		for _, events := range *s.frames {
			if len(events) > 0 {
				return events[0]
			}
		}
	}

	require.FailNow(t, "no collision event")
	return CollisionEvent{}
}

func TestChipmunkPluginCollisionEvents(t *testing.T) {
	scene := newChipmunkScene(t)

	event := scene.updateUntilCollision(t)
	require.Equal(t, CollisionStarted, event.Kind)
	require.ElementsMatch(t,
		[]kesko.EntityId{scene.ground, scene.ball},
		[]kesko.EntityId{event.Entity1, event.Entity2},
	)

	// the ball rests on the ground
	transform, ok := kesko.ComponentOf[Transform](scene.app.World(), scene.ball)
	require.True(t, ok)
	require.InDelta(t, 0.5, transform.Translation.Y, 0.15)
}

func TestChipmunkPluginUserData(t *testing.T) {
	scene := newChipmunkScene(t)
	scene.app.Update()

	world := scene.app.World()

	bodies, ok := kesko.ResourceOf[Registry[BodyHandle]](world)
	require.True(t, ok)
	require.Equal(t, 2, bodies.Len())

	for entityId, handle := range bodies.All() {
		require.Equal(t, entityId.Bits(), scene.engine.bodies[handle].body.UserData)
	}

	colliders, ok := kesko.ResourceOf[Registry[ColliderHandle]](world)
	require.True(t, ok)
	require.Equal(t, 2, colliders.Len())

	for entityId, handle := range colliders.All() {
		require.Equal(t, entityId.Bits(), scene.engine.colliders[handle].shape.UserData)
	}
}

func TestChipmunkPluginDespawnDropsStoppedEvent(t *testing.T) {
	scene := newChipmunkScene(t)
	scene.updateUntilCollision(t)

	var despawn bool

	// despawned after the step, the dispatch stage of the same frame removes the
	// collider from the space and the stopped notification can not be resolved anymore
	scene.app.AddSystems(kesko.PostUpdate, func(commands *kesko.Commands) {
		if despawn {
			commands.Entity(scene.ball).Despawn()
			despawn = false
		}
	})

	despawn = true
	*scene.frames = nil

	for range 3 {
		scene.app.Update()
	}

	require.Len(t, *scene.frames, 3)
	for _, events := range *scene.frames {
		require.Empty(t, events)
	}

	require.Len(t, scene.engine.bodies, 1)
	require.Len(t, scene.engine.colliders, 1)
}
