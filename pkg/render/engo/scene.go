// Package engo is the windowed presentation backend. The scene owns an
// update system that polls the controller, advances the game, and
// mirrors the player and target onto ECS entities every frame. All of
// it runs on engo's main thread; the game's background poll loop stays
// off while this backend drives frames.
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	engoengine "github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-padgame/pkg/game"
)

// FramePoller refreshes the controller snapshot synchronously.
// *gamepad.Bridge is the production implementation.
type FramePoller interface {
	PollOnce()
}

// GameScene is the engo scene for the collect-the-dot demo.
type GameScene struct {
	game   *game.Game
	poller FramePoller

	world  *ecs.World
	update *updateSystem
	hud    *HUDSystem
}

// NewGameScene creates the scene. The poller may be nil when the input
// source is engo's own GamepadSource driven by the update system.
func NewGameScene(g *game.Game, poller FramePoller) *GameScene {
	return &GameScene{
		game:   g,
		poller: poller,
	}
}

// Type returns the scene type (required by Engo).
func (scene *GameScene) Type() string {
	return "PadGameScene"
}

// Preload is called before the scene starts (required by Engo).
func (scene *GameScene) Preload() {}

// Setup is called when the scene starts (required by Engo).
func (scene *GameScene) Setup(u engoengine.Updater) {
	world, ok := u.(*ecs.World)
	if !ok {
		panic("engo updater is not an ecs world")
	}
	scene.world = world

	common.SetBackground(color.Black)
	world.AddSystem(&common.RenderSystem{})

	scene.update = newUpdateSystem(scene.game, scene.poller)
	world.AddSystem(scene.update)

	scene.hud = NewHUDSystem(scene.game)
	world.AddSystem(scene.hud)

	scene.game.Start()
}

// Exit is called when the scene is exiting (required by Engo).
func (scene *GameScene) Exit() {
	scene.game.Stop()
}

// Run opens the window and blocks until the user closes it. Must be
// called from the main goroutine. scale maps world units to pixels.
func Run(title string, width, height int, fullscreen bool, scale float32, scene *GameScene) {
	if scale <= 0 {
		scale = 1
	}
	engoengine.Run(engoengine.RunOptions{
		Title:       title,
		Width:       width,
		Height:      height,
		Fullscreen:  fullscreen,
		GlobalScale: engoengine.Point{X: scale, Y: scale},
	}, scene)
}

// shapeEntity is a renderable entity backed by a vector shape.
type shapeEntity struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// updateSystem advances the game once per engo frame and keeps the
// player and target entities in sync with the simulation state.
type updateSystem struct {
	game   *game.Game
	poller FramePoller

	player *shapeEntity
	target *shapeEntity
}

func newUpdateSystem(g *game.Game, poller FramePoller) *updateSystem {
	return &updateSystem{
		game:   g,
		poller: poller,
	}
}

// New implements ecs.Initializer: it builds the board entities and
// hands them to the render system.
func (s *updateSystem) New(world *ecs.World) {
	s.player = &shapeEntity{
		BasicEntity: ecs.NewBasic(),
		RenderComponent: common.RenderComponent{
			Drawable: common.Circle{},
			Color:    color.RGBA{G: 255, A: 255},
		},
	}
	s.target = &shapeEntity{
		BasicEntity: ecs.NewBasic(),
		RenderComponent: common.RenderComponent{
			Drawable: common.Circle{},
			Color:    color.RGBA{R: 255, G: 215, A: 255},
		},
	}

	for _, system := range world.Systems() {
		if render, ok := system.(*common.RenderSystem); ok {
			render.Add(&s.target.BasicEntity, &s.target.RenderComponent, &s.target.SpaceComponent)
			render.Add(&s.player.BasicEntity, &s.player.RenderComponent, &s.player.SpaceComponent)
		}
	}

	s.syncEntities(s.game.Snapshot())
}

// Add satisfies the ecs.System interface.
func (s *updateSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
}

// Remove satisfies the ecs.System interface.
func (s *updateSystem) Remove(basic ecs.BasicEntity) {}

// Update polls input, advances one simulation step, and mirrors the
// result onto the entities.
func (s *updateSystem) Update(dt float32) {
	if s.poller != nil {
		s.poller.PollOnce()
	}
	s.game.Advance(float64(dt))
	s.syncEntities(s.game.Snapshot())
}

func (s *updateSystem) syncEntities(state game.State) {
	playerSize := s.game.Config.Player.Size * state.Player.Scale
	s.player.SpaceComponent = common.SpaceComponent{
		Position: engoengine.Point{
			X: float32(state.Player.Position.X - playerSize/2),
			Y: float32(state.Player.Position.Y - playerSize/2),
		},
		Width:    float32(playerSize),
		Height:   float32(playerSize),
		Rotation: float32(state.Player.Rotation),
	}

	targetSize := s.game.Config.Target.Size
	s.target.SpaceComponent = common.SpaceComponent{
		Position: engoengine.Point{
			X: float32(state.Target.X - targetSize/2),
			Y: float32(state.Target.Y - targetSize/2),
		},
		Width:  float32(targetSize),
		Height: float32(targetSize),
	}
}
