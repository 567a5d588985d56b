package kesko

import (
	"iter"
	"reflect"
	"slices"
)

type entity struct {
	Id EntityId

	// pointers to the component values, keyed by component type
	components map[reflect.Type]reflect.Value
}

func (e *entity) get(ty reflect.Type) (reflect.Value, bool) {
	ptr, ok := e.components[ty]
	return ptr, ok
}

func (e *entity) has(ty reflect.Type) bool {
	_, ok := e.components[ty]
	return ok
}

// storage keeps all entities of a world. Entities are iterated in the
// order they were spawned in.
type storage struct {
	entities map[EntityId]*entity

	// ids of all live entities, sorted ascending
	order []EntityId
}

func newStorage() *storage {
	return &storage{entities: map[EntityId]*entity{}}
}

func (s *storage) Spawn(id EntityId) *entity {
	if _, exists := s.entities[id]; exists {
		panic("entity already exists: " + id.String())
	}

	e := &entity{Id: id, components: map[reflect.Type]reflect.Value{}}
	s.entities[id] = e

	// ids are handed out in ascending order, but reserved ids might be
	// spawned later than newer ones.
	idx, _ := slices.BinarySearch(s.order, id)
	s.order = slices.Insert(s.order, idx, id)

	return e
}

func (s *storage) Get(id EntityId) (*entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

func (s *storage) Despawn(id EntityId) (*entity, bool) {
	e, ok := s.entities[id]
	if !ok {
		return nil, false
	}

	delete(s.entities, id)

	if idx, found := slices.BinarySearch(s.order, id); found {
		s.order = slices.Delete(s.order, idx, idx+1)
	}

	return e, true
}

func (s *storage) Len() int {
	return len(s.order)
}

// All iterates over all entities alive when the iteration starts. Entities despawned
// during iteration are skipped, entities spawned during iteration are not visited.
func (s *storage) All() iter.Seq[*entity] {
	return func(yield func(*entity) bool) {
		// despawning shifts s.order, iterate a copy
		for _, id := range slices.Clone(s.order) {
			e, ok := s.entities[id]
			if !ok {
				continue
			}

			if !yield(e) {
				return
			}
		}
	}
}
