// Package sim implements the per-frame simulation step for the
// collect-the-dot game. The step is a pure function over (previous state,
// elapsed time, input snapshot, RNG): it never touches clocks, devices,
// or goroutines, which keeps every frame deterministic under a fixed
// seed. The game loop in pkg/game owns scheduling and side effects.
package sim

import (
	"math/rand/v2"

	"github.com/opd-ai/go-padgame/pkg/config"
	"github.com/opd-ai/go-padgame/pkg/gamepad"
	"github.com/opd-ai/go-padgame/pkg/physics"
)

// PlayerState holds the player's pose on the board.
type PlayerState struct {
	Position physics.Vector2D
	Rotation float64 // degrees, unbounded; wraps visually only
	Scale    float64
}

// Bindings maps game actions to logical buttons.
type Bindings struct {
	Turbo       gamepad.Button
	RotateLeft  gamepad.Button
	RotateRight gamepad.Button
	Shrink      gamepad.Button
	Grow        gamepad.Button
}

// Params carries the tuning constants the step needs. Build one from a
// validated GameConfig with NewParams.
type Params struct {
	Board    physics.Rect
	Player   config.PlayerConfig
	Target   config.TargetConfig
	Margin   float64
	Bindings Bindings
}

// NewParams resolves a game configuration into step parameters. Binding
// names must already be validated; unknown names fall back to defaults.
func NewParams(cfg *config.GameConfig) (Params, error) {
	bindings, err := parseBindings(&cfg.Input)
	if err != nil {
		return Params{}, err
	}
	return Params{
		Board: physics.Rect{
			Center: physics.Vector2D{X: cfg.Board.Width / 2, Y: cfg.Board.Height / 2},
			Width:  cfg.Board.Width,
			Height: cfg.Board.Height,
		},
		Player:   cfg.Player,
		Target:   cfg.Target,
		Margin:   cfg.Board.SpawnMargin,
		Bindings: bindings,
	}, nil
}

func parseBindings(input *config.InputConfig) (Bindings, error) {
	var b Bindings
	var err error
	if b.Turbo, err = gamepad.ParseButton(input.Turbo); err != nil {
		return b, err
	}
	if b.RotateLeft, err = gamepad.ParseButton(input.RotateLeft); err != nil {
		return b, err
	}
	if b.RotateRight, err = gamepad.ParseButton(input.RotateRight); err != nil {
		return b, err
	}
	if b.Shrink, err = gamepad.ParseButton(input.Shrink); err != nil {
		return b, err
	}
	if b.Grow, err = gamepad.ParseButton(input.Grow); err != nil {
		return b, err
	}
	return b, nil
}

// Result reports what one step produced beyond the next player state.
type Result struct {
	Collected     bool
	Target        physics.Vector2D // new target position when Collected
	SpawnAttempts int              // samples drawn for the respawn
}

// Step advances the player by dt seconds and checks for target collision.
// dt must already be capped by the caller. On collision the returned
// Result carries a freshly sampled target; the caller owns score and
// side effects.
func Step(p Params, prev PlayerState, target physics.Vector2D, dt float64, snap gamepad.Snapshot, rng *rand.Rand) (PlayerState, Result) {
	next := prev

	move := MoveVector(snap)
	speed := p.Player.BaseSpeed
	if snap.Pressed(p.Bindings.Turbo) {
		speed *= p.Player.TurboFactor
	}

	next.Position = prev.Position.Add(move.Scale(speed * dt))
	next.Rotation = prev.Rotation + rotationInput(p.Bindings, snap)*p.Player.RotationRate*dt
	next.Scale = physics.Clamp(
		prev.Scale+scaleInput(p.Bindings, snap)*p.Player.ScaleRate*dt,
		p.Player.ScaleMin,
		p.Player.ScaleMax,
	)

	// Keep the whole footprint on the board: inset by half the scaled size.
	next.Position = p.Board.Inset(p.Player.Size * next.Scale / 2).ClampPoint(next.Position)

	playerCircle := physics.Circle{
		Center: next.Position,
		Radius: p.Player.Size * next.Scale / 2,
	}
	targetCircle := physics.Circle{
		Center: target,
		Radius: p.Target.Size / 2,
	}
	if !playerCircle.Collides(targetCircle) {
		return next, Result{}
	}

	newTarget, attempts := SpawnTarget(p, next.Position, rng)
	return next, Result{
		Collected:     true,
		Target:        newTarget,
		SpawnAttempts: attempts,
	}
}

// MoveVector combines the left stick with the dpad into a movement
// vector. Each dpad direction contributes a full unit; the result is
// clamped per axis to [-1, 1] and then bound-normalized so diagonal
// movement is never faster than axis-aligned movement.
func MoveVector(snap gamepad.Snapshot) physics.Vector2D {
	v := physics.Vector2D{
		X: snap.Axis(gamepad.AxisLeftX),
		Y: snap.Axis(gamepad.AxisLeftY),
	}
	if snap.Pressed(gamepad.ButtonDpadLeft) {
		v.X -= 1
	}
	if snap.Pressed(gamepad.ButtonDpadRight) {
		v.X += 1
	}
	if snap.Pressed(gamepad.ButtonDpadUp) {
		v.Y -= 1
	}
	if snap.Pressed(gamepad.ButtonDpadDown) {
		v.Y += 1
	}
	return v.ClampAxes(-1, 1).BoundNorm()
}

// rotationInput returns -1, 0, or +1 depending on the rotate buttons.
func rotationInput(b Bindings, snap gamepad.Snapshot) float64 {
	var dir float64
	if snap.Pressed(b.RotateLeft) {
		dir -= 1
	}
	if snap.Pressed(b.RotateRight) {
		dir += 1
	}
	return dir
}

// scaleInput returns -1, 0, or +1 depending on the shrink/grow buttons.
func scaleInput(b Bindings, snap gamepad.Snapshot) float64 {
	var dir float64
	if snap.Pressed(b.Shrink) {
		dir -= 1
	}
	if snap.Pressed(b.Grow) {
		dir += 1
	}
	return dir
}

// SpawnTarget samples a target position uniformly within the board inset
// by the spawn margin. Up to Target.MaxSpawnAttempts samples are drawn
// looking for a point farther than MinRespawnDistance from the player;
// when every attempt lands too close, the last sample is used as-is.
// It returns the chosen point and the number of samples drawn.
func SpawnTarget(p Params, player physics.Vector2D, rng *rand.Rand) (physics.Vector2D, int) {
	area := p.Board.Inset(p.Margin)

	var sample physics.Vector2D
	attempts := 0
	for attempts < p.Target.MaxSpawnAttempts {
		sample = physics.Vector2D{
			X: area.Center.X - area.Width/2 + rng.Float64()*area.Width,
			Y: area.Center.Y - area.Height/2 + rng.Float64()*area.Height,
		}
		attempts++
		if sample.Distance(player) > p.Target.MinRespawnDistance {
			return sample, attempts
		}
	}
	return sample, attempts
}
