package kesko

import (
	"reflect"
)

type Command func(world *World)

type EntityCommand func(world *World, entityId EntityId)

// Commands is a SystemParam that allows you to send commands to a world.
// It allows you to spawn and despawn entities and to add and remove components.
// Commands are applied once the system returns.
// It must be injected as a pointer into a system.
type Commands struct {
	world *World
	queue []Command
}

func (c *Commands) applyToWorld() {
	// commands might queue more commands while being applied
	for idx := 0; idx < len(c.queue); idx++ {
		c.queue[idx](c.world)
	}

	// reset the queue after applying it
	clear(c.queue)
	c.queue = c.queue[:0]
}

func (*Commands) init(world *World) SystemParamState {
	return (*commandSystemParamState)(
		&Commands{world: world},
	)
}

func (c *Commands) Queue(command Command) *Commands {
	c.queue = append(c.queue, command)
	return c
}

// InsertResource queues the insertion of a resource.
func (c *Commands) InsertResource(resource any) *Commands {
	return c.Queue(func(world *World) {
		world.InsertResource(resource)
	})
}

// Spawn reserves a new entity id and queues the spawning of the entity.
// The id can be used immediately, e.g. to reference the entity from other components.
func (c *Commands) Spawn(components ...ErasedComponent) EntityCommands {
	entityId := c.world.reserveEntityId()

	c.Queue(func(world *World) {
		world.spawnWithEntityId(entityId, components)
	})

	return EntityCommands{
		entityId: entityId,
		commands: c,
	}
}

func (c *Commands) Entity(entityId EntityId) EntityCommands {
	return EntityCommands{
		entityId: entityId,
		commands: c,
	}
}

type EntityCommands struct {
	entityId EntityId
	commands *Commands
}

func (e EntityCommands) Id() EntityId {
	return e.entityId
}

func (e EntityCommands) Update(commands ...EntityCommand) EntityCommands {
	e.commands.Queue(func(world *World) {
		for _, command := range commands {
			command(world, e.entityId)
		}
	})

	return e
}

func (e EntityCommands) Insert(components ...ErasedComponent) EntityCommands {
	return e.Update(func(world *World, entityId EntityId) {
		world.InsertComponents(entityId, components...)
	})
}

func (e EntityCommands) Despawn() {
	e.commands.Queue(func(world *World) {
		world.Despawn(e.entityId)
	})
}

// RemoveComponent creates an EntityCommand removing the component of type C.
func RemoveComponent[C ErasedComponent]() EntityCommand {
	componentType := componentTypeOf[C]()

	return func(world *World, entityId EntityId) {
		world.RemoveComponent(entityId, componentType)
	}
}

type commandSystemParamState Commands

func (c *commandSystemParamState) getValue() reflect.Value {
	return reflect.ValueOf((*Commands)(c))
}

func (c *commandSystemParamState) cleanupValue() {
	(*Commands)(c).applyToWorld()
}

func (*commandSystemParamState) valueType() reflect.Type {
	return reflect.TypeFor[*Commands]()
}
