// Package game owns the per-frame update cycle for the collect-the-dot
// demo. It schedules the simulation step, keeps the single-owner game
// state (player, target, score), publishes collision events, and hands
// renderers immutable views. All mutation happens inside one frame
// callback; nothing else writes game state.
package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/opd-ai/go-padgame/pkg/config"
	"github.com/opd-ai/go-padgame/pkg/event"
	"github.com/opd-ai/go-padgame/pkg/gamepad"
	"github.com/opd-ai/go-padgame/pkg/logging"
	"github.com/opd-ai/go-padgame/pkg/physics"
	"github.com/opd-ai/go-padgame/pkg/sim"
	"github.com/opd-ai/go-padgame/pkg/validation"
)

// MaxFrameDelta caps the elapsed time fed to one simulation step. A
// stalled frame (GC pause, window drag, debugger) otherwise teleports
// the player across the board.
const MaxFrameDelta = 50 * time.Millisecond

// InputProvider supplies the latest sanitized controller snapshot.
// *gamepad.Bridge is the production implementation.
type InputProvider interface {
	Latest() gamepad.Snapshot
	Connected() bool
}

// Pulser receives a fire-and-forget feedback trigger on each collect.
type Pulser interface {
	CollectPulse()
}

// TargetCollectedEvent is published on every collision with the target.
type TargetCollectedEvent struct {
	event.BaseEvent
	Score         int
	Position      physics.Vector2D
	SpawnAttempts int
}

// Game holds the demo's entire mutable state and drives it frame by frame.
type Game struct {
	Config   *config.GameConfig
	EventBus *event.Bus

	params sim.Params
	input  InputProvider
	pulser Pulser
	rng    *rand.Rand
	logger *logging.Logger

	mu        sync.RWMutex
	player    sim.PlayerState
	target    physics.Vector2D
	score     int
	tick      uint64
	running   bool
	started   time.Time
	lastFrame time.Time
	frameSeen bool
}

// NewGame validates the configuration and builds a game with the player
// centered and an initial target sampled from the given seed.
func NewGame(cfg *config.GameConfig, bus *event.Bus, input InputProvider, seed uint64) (*Game, error) {
	if err := validation.ValidateGameConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}
	params, err := sim.NewParams(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid input bindings: %w", err)
	}

	g := &Game{
		Config:   cfg,
		EventBus: bus,
		params:   params,
		input:    input,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger:   logging.NewLogger(),
		player: sim.PlayerState{
			Position: params.Board.Center,
			Scale:    1,
		},
	}
	g.target, _ = sim.SpawnTarget(params, g.player.Position, g.rng)
	return g, nil
}

// SetPulser attaches the collect feedback sink. A nil pulser is allowed;
// collects then produce only the bus event.
func (g *Game) SetPulser(p Pulser) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pulser = p
}

// Start marks the game active and publishes GameStarted. The caller then
// drives frames through Run, Update, or Advance.
func (g *Game) Start() {
	g.mu.Lock()
	g.running = true
	g.started = time.Now()
	g.frameSeen = false
	g.mu.Unlock()

	g.EventBus.Publish(&event.BaseEvent{EventType: event.GameStarted, Source: g})
}

// Stop halts the update cycle and publishes GameEnded. Update and
// Advance become no-ops until the next Start.
func (g *Game) Stop() {
	g.mu.Lock()
	g.running = false
	g.mu.Unlock()

	g.EventBus.Publish(&event.BaseEvent{EventType: event.GameEnded, Source: g})
}

// Running reports whether the update cycle is active.
func (g *Game) Running() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.running
}

// Update advances the game by the time elapsed since the previous frame
// timestamp, capped at MaxFrameDelta. The first frame after Start sees a
// zero delta. This is the per-display-frame callback entry point.
func (g *Game) Update(now time.Time) {
	g.mu.Lock()
	if !g.running {
		g.mu.Unlock()
		return
	}
	var dt time.Duration
	if g.frameSeen {
		dt = now.Sub(g.lastFrame)
		if dt < 0 {
			dt = 0
		}
		if dt > MaxFrameDelta {
			dt = MaxFrameDelta
		}
	}
	g.lastFrame = now
	g.frameSeen = true
	g.mu.Unlock()

	g.Advance(dt.Seconds())
}

// Advance runs one simulation step with an explicit delta in seconds.
// Engo's update systems call this with their own frame delta; the cap
// still applies.
func (g *Game) Advance(dt float64) {
	if dt > MaxFrameDelta.Seconds() {
		dt = MaxFrameDelta.Seconds()
	}

	snap := g.input.Latest()

	g.mu.Lock()
	if !g.running {
		g.mu.Unlock()
		return
	}
	next, res := sim.Step(g.params, g.player, g.target, dt, snap, g.rng)
	g.player = next
	g.tick++
	var collectedEvent *TargetCollectedEvent
	if res.Collected {
		g.score++
		g.target = res.Target
		collectedEvent = &TargetCollectedEvent{
			BaseEvent:     event.BaseEvent{EventType: event.TargetCollected, Source: g},
			Score:         g.score,
			Position:      next.Position,
			SpawnAttempts: res.SpawnAttempts,
		}
	}
	pulser := g.pulser
	g.mu.Unlock()

	if collectedEvent != nil {
		g.EventBus.Publish(collectedEvent)
		if pulser != nil {
			pulser.CollectPulse()
		}
	}
}

// Run drives the game with a frame ticker until the context is
// cancelled, rendering after every update. Used by the terminal and
// headless modes; the engo mode drives frames from its own scene.
func (g *Game) Run(ctx context.Context, renderer Renderer) error {
	frameRate := g.Config.Render.FrameRate
	if frameRate <= 0 {
		frameRate = 60
	}

	g.Start()
	defer g.Stop()

	ticker := time.NewTicker(time.Second / time.Duration(frameRate))
	defer ticker.Stop()

	g.logger.Info(ctx, "game loop started", "frame_rate", frameRate)

	for {
		select {
		case <-ctx.Done():
			g.logger.Info(ctx, "game loop stopped", "score", g.Score(), "ticks", g.Tick())
			return ctx.Err()
		case now := <-ticker.C:
			g.Update(now)
			if renderer != nil {
				g.RenderTo(renderer)
			}
		}
	}
}

// Score returns the current score.
func (g *Game) Score() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.score
}

// Tick returns the number of completed simulation steps.
func (g *Game) Tick() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.tick
}

// Snapshot returns a copy of the full game state for presentation.
func (g *Game) Snapshot() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return State{
		Player:  g.player,
		Target:  g.target,
		Score:   g.score,
		Tick:    g.tick,
		Elapsed: g.elapsedLocked(),
	}
}

func (g *Game) elapsedLocked() time.Duration {
	if g.started.IsZero() {
		return 0
	}
	return time.Since(g.started)
}

// lastFrameAge reports how long ago the loop processed a frame.
func (g *Game) lastFrameAge() (time.Duration, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.frameSeen {
		return 0, false
	}
	return time.Since(g.lastFrame), true
}

// HealthCheck adapts the game loop to the health.HealthCheck interface.
// The loop is unhealthy when stopped or when no frame has landed within
// MaxAge.
type HealthCheck struct {
	Game   *Game
	MaxAge time.Duration
}

// Name implements health.HealthCheck.
func (hc *HealthCheck) Name() string {
	return "game_loop"
}

// Check implements health.HealthCheck.
func (hc *HealthCheck) Check(ctx context.Context) error {
	if !hc.Game.Running() {
		return fmt.Errorf("game loop not running")
	}
	age, seen := hc.Game.lastFrameAge()
	if !seen {
		return fmt.Errorf("game loop has not processed a frame yet")
	}
	maxAge := hc.MaxAge
	if maxAge <= 0 {
		maxAge = time.Second
	}
	if age > maxAge {
		return fmt.Errorf("last frame %v ago exceeds %v", age, maxAge)
	}
	return nil
}
