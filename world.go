package kesko

import (
	"fmt"
	"log/slog"
	"reflect"
)

// World holds all entities and resources, schedules, systems, etc.
// While an empty World can be created using NewWorld, it is normally created and configured
// by using the App api.
type World struct {
	storage     *storage
	entityIdSeq EntityId

	// pointers to resources, keyed by the non-pointer type of the resource
	resources map[reflect.Type]reflect.Value

	schedules map[ScheduleId]*schedule
	systems   map[SystemId]*preparedSystem
}

// NewWorld creates a new empty world.
// You probably want to use the App api instead.
func NewWorld() *World {
	return &World{
		storage:   newStorage(),
		resources: map[reflect.Type]reflect.Value{},
		schedules: map[ScheduleId]*schedule{},
		systems:   map[SystemId]*preparedSystem{},
	}
}

// AddSystems adds systems to a schedule within the world.
func (w *World) AddSystems(scheduleId ScheduleId, system AnySystem, systems ...AnySystem) {
	schedule := w.scheduleOf(scheduleId)

	systems = append([]AnySystem{system}, systems...)

	for _, config := range asSystemConfigs(systems...) {
		schedule.AddSystem(w.prepareScheduled(config))
	}

	if err := schedule.UpdateSystemOrdering(); err != nil {
		panic(fmt.Sprintf("schedule %s: %s", scheduleId, err))
	}
}

// RunSystem runs a system once within the world. Systems are cached, running
// the same function twice will reuse its Local values and message readers.
func (w *World) RunSystem(system AnySystem) any {
	config := asSystemConfig(system)
	return w.runSystem(w.prepareScheduled(config))
}

func (w *World) scheduleOf(scheduleId ScheduleId) *schedule {
	schedule, ok := w.schedules[scheduleId]
	if !ok {
		schedule = newSchedule()
		w.schedules[scheduleId] = schedule
	}

	return schedule
}

func (w *World) prepareScheduled(config SystemConfig) *scheduledSystem {
	scheduled := &scheduledSystem{
		SystemConfig: config,
		system:       w.prepareSystem(config),
	}

	for _, predicate := range config.predicates {
		predicateConfig := asSystemConfig(predicate)
		scheduled.predicates = append(scheduled.predicates, w.prepareSystem(predicateConfig))
	}

	return scheduled
}

func (w *World) prepareSystem(config SystemConfig) *preparedSystem {
	// check cache first
	prepared, ok := w.systems[config.Id]
	if ok {
		return prepared
	}

	prepared = prepareSystem(w, config)
	w.systems[config.Id] = prepared

	return prepared
}

func (w *World) runSystem(system *scheduledSystem) any {
	for _, predicate := range system.predicates {
		result := predicate.Run()

		shouldRun, _ := result.(bool)
		if !shouldRun {
			return nil
		}
	}

	return system.system.Run()
}

// RunSchedule runs the schedule identified by the given ScheduleId.
// If no schedule with this id exists, no action is performed.
func (w *World) RunSchedule(scheduleId ScheduleId) {
	schedule, ok := w.schedules[scheduleId]
	if !ok {
		return
	}

	// remove the schedule while it is executed
	delete(w.schedules, scheduleId)

	// add the schedule back once it has finished executing
	defer func() {
		if _, exists := w.schedules[scheduleId]; exists {
			panic(fmt.Sprintf("The schedule %q was modified while it is being executed", scheduleId))
		}

		w.schedules[scheduleId] = schedule
	}()

	for _, system := range schedule.systems {
		w.runSystem(system)
	}
}

// Spawn spawns a new entity with the given components.
func (w *World) Spawn(components ...ErasedComponent) EntityId {
	return w.spawnWithEntityId(w.reserveEntityId(), components)
}

func (w *World) reserveEntityId() EntityId {
	w.entityIdSeq += 1
	return w.entityIdSeq
}

func (w *World) spawnWithEntityId(entityId EntityId, components []ErasedComponent) EntityId {
	if entityId == NoEntityId {
		entityId = w.reserveEntityId()
	}

	entity := w.storage.Spawn(entityId)
	w.insertComponents(entity, components)

	return entityId
}

// InsertComponents adds the given components to an existing entity, replacing
// values of the same type.
func (w *World) InsertComponents(entityId EntityId, components ...ErasedComponent) {
	entity, ok := w.storage.Get(entityId)
	if !ok {
		slog.Warn("Cannot insert components, entity does not exist", slog.Any("entityId", entityId))
		return
	}

	w.insertComponents(entity, components)
}

func (w *World) insertComponents(entity *entity, components []ErasedComponent) {
	queue := append([]ErasedComponent(nil), components...)

	for idx := 0; idx < len(queue); idx++ {
		// components specified directly overwrite existing values,
		// required components are only added if missing
		overwrite := idx < len(components)

		component := queue[idx]
		componentType := componentTypeOfValue(component)

		if entity.has(componentType) && !overwrite {
			continue
		}

		entity.components[componentType] = copyToHeap(component)

		if required, ok := component.(RequireComponents); ok {
			queue = append(queue, required.RequireComponents()...)
		}
	}
}

// RemoveComponent removes the component of the given type from the entity.
func (w *World) RemoveComponent(entityId EntityId, componentType reflect.Type) bool {
	entity, ok := w.storage.Get(entityId)
	if !ok || !entity.has(componentType) {
		return false
	}

	delete(entity.components, componentType)
	w.onComponentRemoved(entityId, componentType)

	return true
}

// Despawn removes the entity and all its components from the world.
func (w *World) Despawn(entityId EntityId) {
	entity, ok := w.storage.Despawn(entityId)
	if !ok {
		slog.Warn("Cannot despawn entity, does not exist", slog.Any("entityId", entityId))
		return
	}

	for componentType := range entity.components {
		w.onComponentRemoved(entityId, componentType)
	}
}

// Alive reports whether the entity exists in the world.
func (w *World) Alive(entityId EntityId) bool {
	_, ok := w.storage.Get(entityId)
	return ok
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	return w.storage.Len()
}

// ComponentOf returns a pointer to the component of type C of the given entity.
func ComponentOf[C ErasedComponent](w *World, entityId EntityId) (*C, bool) {
	entity, ok := w.storage.Get(entityId)
	if !ok {
		return nil, false
	}

	ptr, ok := entity.get(componentTypeOf[C]())
	if !ok {
		return nil, false
	}

	return ptr.Interface().(*C), true
}

func (w *World) onComponentRemoved(entityId EntityId, componentType reflect.Type) {
	if registry, ok := ResourceOf[removedComponentsRegistry](w); ok {
		registry.ComponentRemoved(entityId, componentType)
	}
}

// InsertResource inserts a new resource into the world.
// The resource should be provided as a non-pointer type.
//
// If the resource does not yet exist, a new value of the resources type will
// be allocated on the heap and the value provided will be copied into that memory location.
//
// If the world already contains a resource of the same type, this value will
// just be updated with the newly provided one.
func (w *World) InsertResource(resource any) {
	value := reflect.ValueOf(resource)
	if value.Kind() == reflect.Pointer {
		panic(fmt.Sprintf("resource must not be a pointer: %s", value.Type()))
	}

	if existing, ok := w.resources[value.Type()]; ok {
		// update existing value in place
		existing.Elem().Set(value)
		return
	}

	// allocate the resource on the heap and copy the provided value to it
	ptr := reflect.New(value.Type())
	ptr.Elem().Set(value)

	w.resources[value.Type()] = ptr
}

// RemoveResource removes a resource previously added with InsertResource.
func (w *World) RemoveResource(resourceType reflect.Type) {
	delete(w.resources, resourceType)
}

// Resource returns a pointer to the resource of the given reflect type.
// The type must be the non-pointer type of the resource, i.e. the type of the resource
// as it was passed to InsertResource.
func (w *World) Resource(ty reflect.Type) (any, bool) {
	ptr, ok := w.resources[ty]
	if !ok {
		return nil, false
	}

	return ptr.Interface(), true
}

// ResourceOf is a typed version of World.Resource.
func ResourceOf[T any](w *World) (*T, bool) {
	value, ok := w.Resource(reflect.TypeFor[T]())
	if !ok {
		return nil, false
	}

	return value.(*T), true
}
