// Package render provides the presentation backends for the demo: a
// tcell terminal renderer with the input debug panel, a keyboard input
// source for pad-less runs, and a NullRenderer for headless use. The
// engo windowed backend lives in the engo subpackage.
package render

import (
	"context"

	"github.com/opd-ai/go-padgame/pkg/game"
	"github.com/opd-ai/go-padgame/pkg/logging"
)

// NullRenderer is a simple implementation of game.Renderer.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer() *NullRenderer {
	return &NullRenderer{
		logger: logging.NewLogger(),
	}
}

// Clear implements game.Renderer.
func (d *NullRenderer) Clear() {
	ctx := context.Background()
	d.logger.Debug(ctx, "Clear called")
}

// Present implements game.Renderer.
func (d *NullRenderer) Present() {
	ctx := context.Background()
	d.logger.Debug(ctx, "Present called")
}

// RenderPlayer implements game.Renderer.
func (d *NullRenderer) RenderPlayer(p game.PlayerView) {
	ctx := context.Background()
	d.logger.Debug(ctx, "RenderPlayer called",
		"x", p.Position.X,
		"y", p.Position.Y,
		"rotation", p.Rotation,
		"scale", p.Scale,
	)
}

// RenderTarget implements game.Renderer.
func (d *NullRenderer) RenderTarget(t game.TargetView) {
	ctx := context.Background()
	d.logger.Debug(ctx, "RenderTarget called",
		"x", t.Position.X,
		"y", t.Position.Y,
	)
}

// RenderHUD implements game.Renderer.
func (d *NullRenderer) RenderHUD(h game.HUDView) {
	ctx := context.Background()
	d.logger.Debug(ctx, "RenderHUD called",
		"score", h.Score,
		"connected", h.Connected,
	)
}
