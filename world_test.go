package kesko

import (
	"reflect"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

type Position struct {
	Component[Position]
	X, Y int
}

type Velocity struct {
	Component[Velocity]
	X, Y float64
}

type Player struct {
	Component[Player]
}

type Enemy struct {
	Component[Enemy]
}

type Armed struct {
	Component[Armed]
	Ammo int
}

func (Armed) RequireComponents() []ErasedComponent {
	return []ErasedComponent{Velocity{X: 5}}
}

func buildSimpleWorld() *World {
	w := NewWorld()

	w.Spawn(Named("Player"), Player{}, Position{}, Velocity{})
	w.Spawn(Named("Tree"), Position{})
	w.Spawn(Named("Enemy"), &Enemy{}, Position{}, Velocity{})

	return w
}

func requireCallback(t *testing.T, fn func(allGood func())) {
	t.Helper()

	var called bool
	fn(func() { called = true })
	require.True(t, called)
}

func TestRunSystemWithQuery(t *testing.T) {
	w := buildSimpleWorld()

	t.Run("query with immutable component", func(t *testing.T) {
		requireCallback(t, func(allGood func()) {
			w.RunSystem(func(q Query[Position]) {
				allGood()
				require.Len(t, slices.Collect(q.Items()), 3)
			})
		})
	})

	t.Run("query with mutable component", func(t *testing.T) {
		requireCallback(t, func(allGood func()) {
			w.RunSystem(func(q Query[*Position]) {
				allGood()
				require.Len(t, slices.Collect(q.Items()), 3)
			})
		})
	})

	t.Run("query with struct (immutable)", func(t *testing.T) {
		type MoveableItem struct {
			Position Position
			Velocity Velocity
		}

		requireCallback(t, func(allGood func()) {
			w.RunSystem(func(q Query[MoveableItem]) {
				allGood()
				require.Len(t, slices.Collect(q.Items()), 2)
			})
		})
	})

	t.Run("query with struct (mutable)", func(t *testing.T) {
		type MoveableItem struct {
			Velocity Velocity
			Position *Position
		}

		w.RunSystem(func(q Query[MoveableItem]) {
			for item := range q.Items() {
				item.Position.X = 7
			}
		})

		w.RunSystem(func(q Query[struct {
			Position Position
			_        With[Velocity]
		}]) {
			for item := range q.Items() {
				require.Equal(t, 7, item.Position.X)
			}
		})
	})

	t.Run("query with struct (option)", func(t *testing.T) {
		type MoveableItem struct {
			Name     Name
			Position Position
			Player   Option[Player]
		}

		requireCallback(t, func(allGood func()) {
			w.RunSystem(func(q Query[MoveableItem]) {
				allGood()

				var withPlayer []string
				for item := range q.Items() {
					if _, ok := item.Player.Get(); ok {
						withPlayer = append(withPlayer, item.Name.Name)
					}
				}

				require.Equal(t, []string{"Player"}, withPlayer)
			})
		})
	})

	t.Run("query with struct (OptionMut)", func(t *testing.T) {
		type MoveableItem struct {
			Position Position
			Velocity OptionMut[Velocity]
		}

		w.RunSystem(func(q Query[MoveableItem]) {
			require.Equal(t, 3, q.Count())

			for item := range q.Items() {
				if value, ok := item.Velocity.Get(); ok {
					value.X = 1
				}
			}
		})

		w.RunSystem(func(q Query[Velocity]) {
			for item := range q.Items() {
				require.Equal(t, 1.0, item.X, "velocity must have been updated")
			}
		})
	})

	t.Run("query with struct (has)", func(t *testing.T) {
		type Item struct {
			EntityId EntityId
			Player   Has[Player]
			_        With[Velocity]
		}

		w.RunSystem(func(q Query[Item]) {
			items := slices.Collect(q.Items())
			require.Len(t, items, 2)

			require.True(t, items[0].Player.Exists())
			require.False(t, items[1].Player.Exists())
		})
	})

	t.Run("query with filter", func(t *testing.T) {
		type Item struct {
			Name Name
			_    Without[Velocity]
		}

		w.RunSystem(func(q Query[Item]) {
			item, ok := q.Single()
			require.True(t, ok)
			require.Equal(t, "Tree", item.Name.Name)
		})
	})

	t.Run("query get by id", func(t *testing.T) {
		w.RunSystem(func(q Query[EntityId], players Query[struct {
			EntityId EntityId
			_        With[Player]
		}]) {
			ids := slices.Collect(q.Items())
			require.Equal(t, []EntityId{1, 2, 3}, ids)

			_, ok := players.Get(ids[1])
			require.False(t, ok)

			player, ok := players.Get(ids[0])
			require.True(t, ok)
			require.Equal(t, ids[0], player.EntityId)
		})
	})
}

func TestUnsupportedQueryPanics(t *testing.T) {
	w := NewWorld()

	require.Panics(t, func() {
		w.RunSystem(func(q Query[struct{ Value int }]) {})
	})
}

func TestCommands(t *testing.T) {
	w := NewWorld()

	var entityId EntityId
	w.RunSystem(func(commands *Commands) {
		entityId = commands.Spawn(Position{X: 1}).Id()

		// not yet spawned while the system is running
		require.False(t, w.Alive(entityId))
	})

	require.True(t, w.Alive(entityId))

	w.RunSystem(func(commands *Commands) {
		commands.Entity(entityId).Insert(Velocity{X: 2})
	})

	velocity, ok := ComponentOf[Velocity](w, entityId)
	require.True(t, ok)
	require.Equal(t, 2.0, velocity.X)

	w.RunSystem(func(commands *Commands) {
		commands.Entity(entityId).Update(RemoveComponent[Velocity]())
	})

	_, ok = ComponentOf[Velocity](w, entityId)
	require.False(t, ok)

	w.RunSystem(func(commands *Commands) {
		commands.Entity(entityId).Despawn()
	})

	require.False(t, w.Alive(entityId))
	require.Zero(t, w.EntityCount())
}

func TestRequiredComponents(t *testing.T) {
	w := NewWorld()

	withDefault := w.Spawn(Armed{Ammo: 3})
	velocity, ok := ComponentOf[Velocity](w, withDefault)
	require.True(t, ok)
	require.Equal(t, 5.0, velocity.X)

	// required components never overwrite explicit values
	explicit := w.Spawn(Velocity{X: 1}, Armed{Ammo: 3})
	velocity, ok = ComponentOf[Velocity](w, explicit)
	require.True(t, ok)
	require.Equal(t, 1.0, velocity.X)
}

func TestResources(t *testing.T) {
	type Counter struct {
		Value int
	}

	w := NewWorld()
	w.InsertResource(Counter{Value: 1})

	w.RunSystem(func(counter *Counter) {
		counter.Value += 1
	})

	w.RunSystem(func(counter Counter) {
		require.Equal(t, 2, counter.Value)
	})

	// update in place
	w.InsertResource(Counter{Value: 10})

	counter, ok := ResourceOf[Counter](w)
	require.True(t, ok)
	require.Equal(t, 10, counter.Value)

	require.True(t, w.RunSystem(ResourceExists[Counter]).(bool))

	w.RemoveResource(reflect.TypeFor[Counter]())
	require.False(t, w.RunSystem(ResourceExists[Counter]).(bool))

	require.Panics(t, func() {
		w.InsertResource(&Counter{})
	})
}

func TestSpawnOrder(t *testing.T) {
	w := NewWorld()

	var reserved EntityId
	w.RunSystem(func(commands *Commands) {
		reserved = commands.Spawn(Position{X: 1}).Id()

		// spawned directly, before the reserved entity is spawned
		w.Spawn(Position{X: 2})
	})

	w.RunSystem(func(q Query[struct {
		EntityId EntityId
		Position Position
	}]) {
		items := slices.Collect(q.Items())
		require.Len(t, items, 2)

		// iteration follows the order of ids
		require.Equal(t, reserved, items[0].EntityId)
		require.Equal(t, 1, items[0].Position.X)
	})
}

func TestDespawnWhileIterating(t *testing.T) {
	w := NewWorld()

	a := w.Spawn(Position{X: 1})
	b := w.Spawn(Position{X: 2})
	c := w.Spawn(Position{X: 3})

	t.Run("despawn current entity", func(t *testing.T) {
		var visited []EntityId

		w.RunSystem(func(q Query[struct {
			EntityId EntityId
			Position Position
		}]) {
			for item := range q.Items() {
				visited = append(visited, item.EntityId)

				if item.EntityId == a {
					w.Despawn(a)
				}
			}
		})

		require.Equal(t, []EntityId{a, b, c}, visited)
	})

	t.Run("despawn upcoming entity", func(t *testing.T) {
		var visited []EntityId

		w.RunSystem(func(q Query[EntityId]) {
			for id := range q.Items() {
				visited = append(visited, id)

				if id == b {
					w.Despawn(c)
				}
			}
		})

		require.Equal(t, []EntityId{b}, visited)
		require.Equal(t, 1, w.EntityCount())
	})
}

func TestScheduleModifiedWhileRunning(t *testing.T) {
	w := NewWorld()

	w.AddSystems(Update, func(world *World) {
		world.AddSystems(Update, func() {})
	})

	require.Panics(t, func() {
		w.RunSchedule(Update)
	})
}

func TestEntityIdBits(t *testing.T) {
	id := EntityId(1234)

	decoded, ok := EntityIdFromBits(id.Bits())
	require.True(t, ok)
	require.Equal(t, id, decoded)

	_, ok = EntityIdFromBits(1 << 40)
	require.False(t, ok)
}
