// pkg/game/state.go
package game

import (
	"time"

	"github.com/opd-ai/go-padgame/pkg/gamepad"
	"github.com/opd-ai/go-padgame/pkg/physics"
	"github.com/opd-ai/go-padgame/pkg/sim"
)

// State is an immutable copy of the game state at one frame, taken with
// Snapshot. Renderers and the engo systems consume it read-only.
type State struct {
	Player  sim.PlayerState
	Target  physics.Vector2D
	Score   int
	Tick    uint64
	Elapsed time.Duration
}

// PlayerView carries everything a renderer needs to draw the player.
type PlayerView struct {
	Position physics.Vector2D
	Rotation float64 // degrees
	Scale    float64
	Size     float64 // footprint at scale 1
}

// TargetView carries everything a renderer needs to draw the target.
type TargetView struct {
	Position physics.Vector2D
	Size     float64
}

// HUDView carries score and pad status for the HUD and debug visualizer.
type HUDView struct {
	Score     int
	Connected bool
	Elapsed   time.Duration
	Input     InputView
}

// InputView is the debug-visualizer slice of the current snapshot:
// axis values and the names of held buttons.
type InputView struct {
	Axes    map[string]float64
	Pressed []string
}

// Renderer is implemented by presentation backends. The game calls the
// Render methods between Clear and Present once per frame; renderers
// hold no game logic.
type Renderer interface {
	Clear()
	RenderPlayer(PlayerView)
	RenderTarget(TargetView)
	RenderHUD(HUDView)
	Present()
}

// RenderTo draws the current state onto the renderer.
func (g *Game) RenderTo(r Renderer) {
	state := g.Snapshot()
	snap := g.input.Latest()

	r.Clear()
	r.RenderTarget(TargetView{
		Position: state.Target,
		Size:     g.Config.Target.Size,
	})
	r.RenderPlayer(PlayerView{
		Position: state.Player.Position,
		Rotation: state.Player.Rotation,
		Scale:    state.Player.Scale,
		Size:     g.Config.Player.Size,
	})
	r.RenderHUD(HUDView{
		Score:     state.Score,
		Connected: g.input.Connected(),
		Elapsed:   state.Elapsed,
		Input:     newInputView(snap),
	})
	r.Present()
}

// debugAxes are the axes surfaced in the visualizer panel.
var debugAxes = []gamepad.Axis{
	gamepad.AxisLeftX, gamepad.AxisLeftY,
	gamepad.AxisRightX, gamepad.AxisRightY,
}

func newInputView(snap gamepad.Snapshot) InputView {
	axes := make(map[string]float64, len(debugAxes))
	for _, a := range debugAxes {
		axes[a.String()] = snap.Axis(a)
	}
	return InputView{
		Axes:    axes,
		Pressed: snap.Buttons.Names(),
	}
}
