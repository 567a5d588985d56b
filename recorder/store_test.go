package recorder

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/oliverbestmann/kesko/physics"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestStoreCollisions(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordCollisions(ctx, 3, []physics.CollisionEvent{
		{Entity1: 1, Entity2: 2, Kind: physics.CollisionStarted},
		{Entity1: 1, Entity2: 3, Kind: physics.CollisionStarted, Flags: physics.FlagSensor},
	}))

	require.NoError(t, store.RecordCollisions(ctx, 7, []physics.CollisionEvent{
		{Entity1: 1, Entity2: 2, Kind: physics.CollisionStopped, Flags: physics.FlagRemoved},
	}))

	// nothing to do
	require.NoError(t, store.RecordCollisions(ctx, 8, nil))

	all, err := store.Collisions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, uint64(3), all[0].Tick)
	require.Equal(t, physics.FlagSensor, all[1].Event.Flags)

	recent, err := store.Collisions(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, []Collision{
		{Tick: 7, Event: physics.CollisionEvent{Entity1: 1, Entity2: 2, Kind: physics.CollisionStopped, Flags: physics.FlagRemoved}},
	}, recent)
}

func TestStoreSnapshots(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.LatestSnapshot(ctx)
	require.ErrorIs(t, err, ErrNoSnapshot)

	require.NoError(t, store.RecordSnapshot(ctx, 10, []byte{1, 2, 3}, 1<<63+5))
	require.NoError(t, store.RecordSnapshot(ctx, 20, []byte{4, 5}, 42))

	snapshot, err := store.LatestSnapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, Snapshot{Tick: 20, Checksum: 42, Blob: []byte{4, 5}}, snapshot)

	// checksums use the full 64 bit range
	require.NoError(t, store.RecordSnapshot(ctx, 30, []byte{6}, 1<<63+5))

	snapshot, err = store.LatestSnapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1<<63+5), snapshot.Checksum)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}
