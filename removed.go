package kesko

import (
	"iter"
	"reflect"
)

// RemovedComponents reads the ids of entities that lost their component of type C,
// either because the component was removed or because the entity was despawned.
type RemovedComponents[C ErasedComponent] struct {
	reader *MessageReader[removedComponentMessage[C]]
}

func (c RemovedComponents[C]) Read() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for _, message := range c.reader.Read() {
			if !yield(EntityId(message)) {
				return
			}
		}
	}
}

func (RemovedComponents[C]) addToWorld(w *World) *Messages[removedComponentMessage[C]] {
	if messages, exists := ResourceOf[Messages[removedComponentMessage[C]]](w); exists {
		return messages
	}

	registry, ok := ResourceOf[removedComponentsRegistry](w)
	if !ok {
		w.InsertResource(removedComponentsRegistry{
			byComponentType: map[reflect.Type]func(EntityId){},
		})

		registry, _ = ResourceOf[removedComponentsRegistry](w)
	}

	newMessage[removedComponentMessage[C]]{}.configureMessageIn(w)

	messages, _ := ResourceOf[Messages[removedComponentMessage[C]]](w)

	writer := messages.Writer()
	registry.byComponentType[componentTypeOf[C]()] = func(entityId EntityId) {
		writer.Write(removedComponentMessage[C](entityId))
	}

	return messages
}

func (c *RemovedComponents[C]) init(world *World) SystemParamState {
	messages := c.addToWorld(world)

	instance := RemovedComponents[C]{reader: messages.Reader()}
	return valueSystemParamState(reflect.ValueOf(instance))
}

type removedComponentMessage[C ErasedComponent] EntityId

type removedComponentsRegistry struct {
	byComponentType map[reflect.Type]func(EntityId)
}

func (r *removedComponentsRegistry) ComponentRemoved(entityId EntityId, componentType reflect.Type) {
	emit, ok := r.byComponentType[componentType]
	if !ok {
		return
	}

	emit(entityId)
}
