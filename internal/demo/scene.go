// Package demo spawns a small scene to play with: a ground, a stack of
// boxes and a motorized wheel.
package demo

import (
	"github.com/oliverbestmann/kesko"
	"github.com/oliverbestmann/kesko/gm"
	"github.com/oliverbestmann/kesko/physics"
)

func Plugin(app *kesko.App) {
	app.AddSystems(kesko.Startup, spawnSceneSystem)
}

func spawnSceneSystem(commands *kesko.Commands) {
	commands.Spawn(
		kesko.Named("ground"),
		physics.RigidBodyStatic,
		physics.Collider{Shape: physics.SegmentShape{A: gm.Vec{X: -20}, B: gm.Vec{X: 20}, Radius: 0.1}},
		physics.ColliderFriction{Value: 1},
	)

	for idx := range 5 {
		commands.Spawn(
			kesko.Named("box"),
			physics.RigidBodyDynamic,
			physics.Mass{Value: 1},
			physics.Transform{Translation: gm.Vec{X: 4, Y: 0.6 + 1.1*float64(idx)}},
			physics.Collider{Shape: physics.BoxShape{Width: 1, Height: 1}},
			physics.CollisionEventsEnabled{},
		)
	}

	chassis := commands.Spawn(
		kesko.Named("chassis"),
		physics.RigidBodyDynamic,
		physics.Mass{Value: 4},
		physics.Transform{Translation: gm.Vec{X: -4, Y: 2}},
		physics.Collider{Shape: physics.BoxShape{Width: 2, Height: 0.5}},
	).Id()

	wheel := commands.Spawn(
		kesko.Named("wheel"),
		physics.RigidBodyDynamic,
		physics.Mass{Value: 1},
		physics.Transform{Translation: gm.Vec{X: -4, Y: 1}},
		physics.Collider{Shape: physics.CircleShape{Radius: 0.8}},
		physics.ColliderFriction{Value: 1},
		physics.CollisionEventsEnabled{},
	).Id()

	commands.Spawn(
		kesko.Named("motor"),
		physics.Motor{
			BodyA:     chassis,
			BodyB:     wheel,
			WithPivot: true,
			Pivot:     gm.Vec{X: -4, Y: 1},
			Rate:      0,
			MaxForce:  50,
		},
	)
}
