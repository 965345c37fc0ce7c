// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"image/color"

	"github.com/EngoEngine/ecs"
	engoengine "github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-padgame/pkg/game"
)

// HUDSystem surfaces the score and pad status. Without a loaded font
// it falls back to the window title, which needs no assets; with
// SetFont it renders a text entity in the top-left corner.
type HUDSystem struct {
	game *game.Game

	font      *common.Font
	text      *shapeEntity
	render    *common.RenderSystem
	lastScore int
	lastTitle string
}

// NewHUDSystem creates a HUD bound to the game state.
func NewHUDSystem(g *game.Game) *HUDSystem {
	return &HUDSystem{
		game:      g,
		lastScore: -1,
	}
}

// SetFont enables in-window text once the font asset is preloaded.
func (hud *HUDSystem) SetFont(font *common.Font) {
	hud.font = font
}

// New implements ecs.Initializer.
func (hud *HUDSystem) New(world *ecs.World) {
	for _, system := range world.Systems() {
		if render, ok := system.(*common.RenderSystem); ok {
			hud.render = render
		}
	}
}

// Add satisfies the ecs.System interface.
func (hud *HUDSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
}

// Remove satisfies the ecs.System interface.
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Update refreshes the HUD when the score changes.
func (hud *HUDSystem) Update(dt float32) {
	score := hud.game.Score()
	if score == hud.lastScore {
		return
	}
	hud.lastScore = score

	if hud.font != nil && hud.render != nil {
		hud.updateTextEntity(score)
		return
	}

	title := fmt.Sprintf("padgame | score %d", score)
	if title != hud.lastTitle {
		engoengine.SetTitle(title)
		hud.lastTitle = title
	}
}

func (hud *HUDSystem) updateTextEntity(score int) {
	text := common.Text{
		Font: hud.font,
		Text: fmt.Sprintf("Score: %d", score),
	}

	if hud.text == nil {
		hud.text = &shapeEntity{
			BasicEntity: ecs.NewBasic(),
			RenderComponent: common.RenderComponent{
				Drawable: text,
				Color:    color.White,
			},
			SpaceComponent: common.SpaceComponent{
				Position: engoengine.Point{X: 8, Y: 8},
			},
		}
		hud.text.RenderComponent.SetShader(common.HUDShader)
		hud.render.Add(&hud.text.BasicEntity, &hud.text.RenderComponent, &hud.text.SpaceComponent)
		return
	}
	hud.text.RenderComponent.Drawable = text
}
