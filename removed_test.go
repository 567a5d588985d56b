package kesko

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRemovedComponents(t *testing.T) {
	w := NewWorld()

	enemyId := w.Spawn(&Enemy{})
	playerId := w.Spawn(Player{}, Position{})

	var expected []EntityId
	w.AddSystems(Update, func(c RemovedComponents[Enemy], p RemovedComponents[Position]) {
		ids := slices.Collect(c.Read())
		ids = append(ids, slices.Collect(p.Read())...)
		require.Equal(t, expected, ids)
	})

	w.RunSchedule(Update)

	w.RunSystem(func(commands *Commands) {
		commands.Entity(enemyId).Despawn()
		commands.Entity(playerId).Update(RemoveComponent[Position]())
	})

	// detect the removal for the enemy and the position component
	expected = []EntityId{enemyId, playerId}
	w.RunSchedule(Update)

	// now zero
	expected = nil
	w.RunSchedule(Update)
}
