package render

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-padgame/pkg/game"
	"github.com/opd-ai/go-padgame/pkg/physics"
)

// hudLines is the number of rows reserved below the playfield for the
// score line and the input debug panel.
const hudLines = 3

// TerminalRenderer draws the board into a tcell screen. The playfield
// is scaled to fit inside a border; the HUD and input debug panel sit
// below it.
type TerminalRenderer struct {
	screen      tcell.Screen
	boardWidth  float64
	boardHeight float64
	showDebug   bool

	player game.PlayerView
	target game.TargetView
	hud    game.HUDView
}

// NewTerminalRenderer creates a renderer on an initialized screen.
// Board dimensions are in world units; the playfield is rescaled on
// every frame so terminal resizes just work.
func NewTerminalRenderer(screen tcell.Screen, boardWidth, boardHeight float64, showDebug bool) *TerminalRenderer {
	return &TerminalRenderer{
		screen:      screen,
		boardWidth:  boardWidth,
		boardHeight: boardHeight,
		showDebug:   showDebug,
	}
}

// NewTerminalScreen initializes a real tcell screen for interactive use.
// The caller must Fini it on exit.
func NewTerminalScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal screen: %w", err)
	}
	return screen, nil
}

// Clear implements game.Renderer.
func (r *TerminalRenderer) Clear() {
	r.screen.Clear()
}

// RenderPlayer implements game.Renderer.
func (r *TerminalRenderer) RenderPlayer(p game.PlayerView) {
	r.player = p
}

// RenderTarget implements game.Renderer.
func (r *TerminalRenderer) RenderTarget(t game.TargetView) {
	r.target = t
}

// RenderHUD implements game.Renderer.
func (r *TerminalRenderer) RenderHUD(h game.HUDView) {
	r.hud = h
}

// Present implements game.Renderer. All drawing happens here so the
// frame hits the screen in one Show.
func (r *TerminalRenderer) Present() {
	width, height := r.screen.Size()
	fieldW := width - 2
	fieldH := height - 2 - hudLines
	if fieldW < 4 || fieldH < 4 {
		r.screen.Show()
		return
	}

	r.drawBorder(fieldW, fieldH)
	r.drawTarget(fieldW, fieldH)
	r.drawPlayer(fieldW, fieldH)
	r.drawHUD(fieldH)
	r.screen.Show()
}

// worldToScreen maps a world position onto the playfield cell grid.
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D, fieldW, fieldH int) (int, int) {
	x := 1 + int(pos.X/r.boardWidth*float64(fieldW))
	y := 1 + int(pos.Y/r.boardHeight*float64(fieldH))
	return x, y
}

func (r *TerminalRenderer) drawBorder(fieldW, fieldH int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for x := 0; x <= fieldW+1; x++ {
		r.screen.SetContent(x, 0, '-', nil, style)
		r.screen.SetContent(x, fieldH+1, '-', nil, style)
	}
	for y := 1; y <= fieldH; y++ {
		r.screen.SetContent(0, y, '|', nil, style)
		r.screen.SetContent(fieldW+1, y, '|', nil, style)
	}
	for _, corner := range [][2]int{{0, 0}, {fieldW + 1, 0}, {0, fieldH + 1}, {fieldW + 1, fieldH + 1}} {
		r.screen.SetContent(corner[0], corner[1], '+', nil, style)
	}
}

func (r *TerminalRenderer) drawTarget(fieldW, fieldH int) {
	x, y := r.worldToScreen(r.target.Position, fieldW, fieldH)
	r.setCell(x, y, '*', tcell.StyleDefault.Foreground(tcell.ColorYellow), fieldW, fieldH)
}

func (r *TerminalRenderer) drawPlayer(fieldW, fieldH int) {
	cx, cy := r.worldToScreen(r.player.Position, fieldW, fieldH)
	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)

	// Footprint grows with scale: half extent in cells per axis.
	halfX := int(r.player.Size * r.player.Scale / 2 / r.boardWidth * float64(fieldW))
	halfY := int(r.player.Size * r.player.Scale / 2 / r.boardHeight * float64(fieldH))
	for dy := -halfY; dy <= halfY; dy++ {
		for dx := -halfX; dx <= halfX; dx++ {
			r.setCell(cx+dx, cy+dy, '#', style, fieldW, fieldH)
		}
	}
	r.setCell(cx, cy, rotationGlyph(r.player.Rotation), style.Bold(true), fieldW, fieldH)
}

// rotationGlyph picks an arrow for the nearest 45 degree facing.
// 0 degrees points up and rotation grows clockwise.
func rotationGlyph(degrees float64) rune {
	glyphs := []rune{'^', '/', '>', '\\', 'v', '/', '<', '\\'}
	sector := int(math.Round(math.Mod(degrees, 360)/45)) % 8
	if sector < 0 {
		sector += 8
	}
	return glyphs[sector]
}

func (r *TerminalRenderer) setCell(x, y int, ch rune, style tcell.Style, fieldW, fieldH int) {
	if x < 1 || x > fieldW || y < 1 || y > fieldH {
		return
	}
	r.screen.SetContent(x, y, ch, nil, style)
}

func (r *TerminalRenderer) drawHUD(fieldH int) {
	pad := "disconnected"
	if r.hud.Connected {
		pad = "connected"
	}
	line := fmt.Sprintf("Score: %d  Pad: %s  Time: %s",
		r.hud.Score, pad, r.hud.Elapsed.Truncate(time.Second))
	r.drawText(1, fieldH+2, line, tcell.StyleDefault)

	if !r.showDebug {
		return
	}
	r.drawText(1, fieldH+3, debugAxisLine(r.hud.Input), tcell.StyleDefault.Foreground(tcell.ColorGray))
	r.drawText(1, fieldH+4, debugButtonLine(r.hud.Input), tcell.StyleDefault.Foreground(tcell.ColorGray))
}

func (r *TerminalRenderer) drawText(x, y int, text string, style tcell.Style) {
	for i, ch := range text {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}

// debugAxisLine formats axis values with a small deflection bar each,
// in stable name order.
func debugAxisLine(in game.InputView) string {
	names := make([]string, 0, len(in.Axes))
	for name := range in.Axes {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s%s%+.2f", name, axisBar(in.Axes[name]), in.Axes[name]))
	}
	return strings.Join(parts, "  ")
}

// axisBar renders a 7 cell bar with a marker at the deflection.
func axisBar(value float64) string {
	const cells = 7
	marker := int((value + 1) / 2 * (cells - 1))
	if marker < 0 {
		marker = 0
	}
	if marker >= cells {
		marker = cells - 1
	}
	bar := []rune("[---|---]")
	bar[1+marker] = 'o'
	return string(bar)
}

func debugButtonLine(in game.InputView) string {
	if len(in.Pressed) == 0 {
		return "Held: none"
	}
	return "Held: " + strings.Join(in.Pressed, ",")
}
