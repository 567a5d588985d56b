package physics

import (
	"fmt"
	"iter"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oliverbestmann/kesko"
)

// Registry maps engine handles of one kind to the entities owning them and back.
//
// A mapping is inserted when the engine object is created and removed when it is
// destroyed, it is never updated in place. The registry is only mutated by systems,
// never from within engine callbacks, so it does not need a lock.
type Registry[H comparable] struct {
	byHandle map[H]kesko.EntityId

	// keeps creation order for deterministic iteration
	byEntity *orderedmap.OrderedMap[kesko.EntityId, H]
}

func NewRegistry[H comparable]() Registry[H] {
	return Registry[H]{
		byHandle: map[H]kesko.EntityId{},
		byEntity: orderedmap.NewOrderedMap[kesko.EntityId, H](),
	}
}

// Insert maps handle to entity. Mapping a handle or entity that is already
// mapped breaks the registries invariant and panics.
func (r *Registry[H]) Insert(handle H, entity kesko.EntityId) {
	if existing, ok := r.byHandle[handle]; ok {
		panic(fmt.Sprintf("handle %v already mapped to entity %s", handle, existing))
	}

	if existing, ok := r.byEntity.Get(entity); ok {
		panic(fmt.Sprintf("entity %s already mapped to handle %v", entity, existing))
	}

	r.byHandle[handle] = entity
	r.byEntity.Set(entity, handle)
}

// Entity resolves the entity owning the given handle.
func (r *Registry[H]) Entity(handle H) (kesko.EntityId, bool) {
	entity, ok := r.byHandle[handle]
	return entity, ok
}

// Handle resolves the handle owned by the given entity.
func (r *Registry[H]) Handle(entity kesko.EntityId) (H, bool) {
	return r.byEntity.Get(entity)
}

// Remove drops the mapping of the entity and returns the handle it was mapped to.
func (r *Registry[H]) Remove(entity kesko.EntityId) (H, bool) {
	handle, ok := r.byEntity.Get(entity)
	if !ok {
		return handle, false
	}

	r.byEntity.Delete(entity)
	delete(r.byHandle, handle)

	return handle, true
}

func (r *Registry[H]) Len() int {
	return len(r.byHandle)
}

// All iterates over all mappings in the order they were inserted.
func (r *Registry[H]) All() iter.Seq2[kesko.EntityId, H] {
	return func(yield func(kesko.EntityId, H) bool) {
		for el := r.byEntity.Front(); el != nil; el = el.Next() {
			if !yield(el.Key, el.Value) {
				return
			}
		}
	}
}
