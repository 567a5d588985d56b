// Package viewer runs the app inside an ebiten window and draws the physics space.
package viewer

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/oliverbestmann/kesko"
	"github.com/oliverbestmann/kesko/gm"
	"github.com/oliverbestmann/kesko/physics"
)

// requests published by the viewer use ids starting here, so they never
// collide with ids handed out by a remote gateway
const requestIdBase = uint64(1) << 63

type WindowConfig struct {
	Title  string
	Width  int
	Height int
}

// Camera maps world coordinates (y pointing up) to the screen.
type Camera struct {
	Center gm.Vec

	// pixels per world unit
	Scale float64
}

// WorldToScreen returns the transform from world to screen coordinates
// for a screen of the given size.
func (c Camera) WorldToScreen(screenSize gm.Vec) gm.Affine {
	return gm.IdentityAffine().
		Translate(screenSize.Mul(0.5)).
		Scale(gm.Vec{X: c.Scale, Y: -c.Scale}).
		Translate(c.Center.Mul(-1))
}

// Plugin replaces the apps RunWorld with an ebiten game loop. Space toggles the simulation.
func Plugin(app *kesko.App) {
	app.AddMessage(kesko.MessageType[physics.ControlRequest]())

	app.InsertResource(WindowConfig{
		Title:  "kesko",
		Width:  1024,
		Height: 768,
	})

	app.InsertResource(Camera{Center: gm.Vec{Y: 4}, Scale: 40})

	app.AddSystems(kesko.PreUpdate, kesko.System(toggleOnSpaceSystem).RunIf(spaceJustPressed))

	app.RunWorld(runWorld)
}

func spaceJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeySpace)
}

func toggleOnSpaceSystem(requests *kesko.MessageWriter[physics.ControlRequest], seq *kesko.Local[uint64]) {
	seq.Value += 1

	requests.Write(physics.ControlRequest{
		Id:     requestIdBase + seq.Value,
		Action: physics.TogglePhysics{},
	})
}

func runWorld(world *kesko.World) error {
	win, _ := kesko.ResourceOf[WindowConfig](world)
	ebiten.SetWindowTitle(win.Title)
	ebiten.SetWindowSize(win.Width, win.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	var options ebiten.RunGameOptions
	options.SingleThread = true

	return ebiten.RunGameWithOptions(&game{World: world}, &options)
}

type game struct {
	World *kesko.World
}

func (g *game) Update() error {
	g.World.RunSchedule(kesko.Main)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.World.InsertResource(screenTarget{Image: screen})
	g.World.RunSystem(drawSpaceSystem)
	g.World.RunSystem(drawStatusSystem)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return outsideWidth, outsideHeight
}

type screenTarget struct {
	Image *ebiten.Image
}

func drawSpaceSystem(target screenTarget, camera Camera, engine physics.PhysicsEngine) {
	chipmunk, ok := engine.Engine.(*physics.ChipmunkEngine)
	if !ok {
		return
	}

	bounds := target.Image.Bounds()
	screenSize := gm.Vec{X: float64(bounds.Dx()), Y: float64(bounds.Dy())}

	drawSpace(target.Image, chipmunk.Space(), camera.WorldToScreen(screenSize))
}

func drawStatusSystem(target screenTarget, control physics.SimulationControl, frame kesko.FrameCount) {
	state := "running"
	if !control.Running {
		state = "paused"
	}

	text := fmt.Sprintf("frame %d, physics %s (space to toggle)", frame, state)
	ebitenutil.DebugPrintAt(target.Image, text, 16, 16)
}
