package recorder

import (
	"context"
	"log/slog"

	"github.com/oliverbestmann/kesko"
	"github.com/oliverbestmann/kesko/physics"
)

type journal struct {
	store *Store

	// write a snapshot every n frames, never if zero
	snapshotEvery uint64
}

// Plugin journals all collision events into the store, and every snapshotEvery frames a
// snapshot of the world state. Requires the physics plugin.
func Plugin(store *Store, snapshotEvery uint64) kesko.PluginFunc {
	return func(app *kesko.App) {
		app.AddMessage(kesko.MessageType[physics.CollisionEvent]())

		app.InsertResource(journal{store: store, snapshotEvery: snapshotEvery})

		app.AddSystems(kesko.Last, kesko.System(
			recordCollisionsSystem,
			recordSnapshotSystem,
		).After(physics.DispatchStage()))
	}
}

func recordCollisionsSystem(
	journal journal,
	frame kesko.FrameCount,
	collisions *kesko.MessageReader[physics.CollisionEvent],
) {
	events := collisions.Read()
	if len(events) == 0 {
		return
	}

	if err := journal.store.RecordCollisions(context.Background(), uint64(frame), events); err != nil {
		slog.Warn("Failed to record collisions",
			slog.Uint64("tick", uint64(frame)),
			slog.String("err", err.Error()),
		)
	}
}

func recordSnapshotSystem(
	journal journal,
	frame kesko.FrameCount,
	control physics.SimulationControl,
	engine physics.PhysicsEngine,
	bodies *physics.Registry[physics.BodyHandle],
	names kesko.Query[kesko.Name],
) {
	if journal.snapshotEvery == 0 || uint64(frame)%journal.snapshotEvery != 0 {
		return
	}

	state := physics.SnapshotWorldState(uint64(frame), control.Running, engine, bodies, names)

	blob, err := physics.EncodeWorldState(state)
	if err != nil {
		slog.Warn("Failed to encode snapshot", slog.String("err", err.Error()))
		return
	}

	err = journal.store.RecordSnapshot(context.Background(), uint64(frame), blob, physics.Checksum(blob))
	if err != nil {
		slog.Warn("Failed to record snapshot",
			slog.Uint64("tick", uint64(frame)),
			slog.String("err", err.Error()),
		)
	}
}
