package kesko

import (
	"fmt"
	"reflect"
)

type App struct {
	world *World
	run   RunWorld
}

func (a *App) World() *World {
	if a.world == nil {
		a.world = NewWorld()

		configureSchedules(a.world)
	}

	return a.world
}

func (a *App) AddPlugin(plugin Plugin) {
	plugin.ApplyTo(a)
}

func (a *App) AddSystems(scheduleId ScheduleId, system AnySystem, systems ...AnySystem) {
	if !reflect.ValueOf(scheduleId).Comparable() {
		panic(fmt.Sprintf("scheduleId must be comparable: %v", scheduleId))
	}

	a.World().AddSystems(scheduleId, system, systems...)
}

func (a *App) InsertResource(res any) {
	a.World().InsertResource(res)
}

// AddMessage registers a message type, see MessageType.
func (a *App) AddMessage(message AddMessageType) {
	message.configureMessageIn(a.World())
}

// Update runs exactly one frame of the Main schedule.
func (a *App) Update() {
	a.World().RunSchedule(Main)
}

func (a *App) RunWorld(run RunWorld) {
	a.run = run
}

// Run runs the app using the RunWorld function configured with App.RunWorld.
// Without one, the Main schedule is executed in a busy loop.
func (a *App) Run() error {
	if a.run == nil {
		a.run = func(world *World) error {
			for {
				world.RunSchedule(Main)
			}
		}
	}

	return a.run(a.World())
}

type Plugin interface {
	ApplyTo(app *App)
}

type PluginFunc func(app *App)

func (plugin PluginFunc) ApplyTo(app *App) {
	plugin(app)
}

type RunWorld func(world *World) error
