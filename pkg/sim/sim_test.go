// Package sim provides unit tests for sim.go
package sim

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/opd-ai/go-padgame/pkg/config"
	"github.com/opd-ai/go-padgame/pkg/gamepad"
	"github.com/opd-ai/go-padgame/pkg/physics"
)

func testParams(t *testing.T) Params {
	t.Helper()
	params, err := NewParams(config.DefaultConfig())
	if err != nil {
		t.Fatalf("NewParams failed: %v", err)
	}
	return params
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func startState(p Params) PlayerState {
	return PlayerState{Position: p.Board.Center, Scale: 1}
}

func snapshotWith(buttons gamepad.Buttons, leftX, leftY float64) gamepad.Snapshot {
	s := gamepad.Snapshot{Buttons: buttons}
	s.Axes[gamepad.AxisLeftX] = leftX
	s.Axes[gamepad.AxisLeftY] = leftY
	return s
}

func TestMoveVector_MagnitudeNeverExceedsOne(t *testing.T) {
	axisValues := []float64{-1, -0.5, 0, 0.5, 1}
	dpadSets := []gamepad.Buttons{
		0,
		gamepad.Buttons(0).With(gamepad.ButtonDpadLeft),
		gamepad.Buttons(0).With(gamepad.ButtonDpadRight),
		gamepad.Buttons(0).With(gamepad.ButtonDpadUp),
		gamepad.Buttons(0).With(gamepad.ButtonDpadDown),
		gamepad.Buttons(0).With(gamepad.ButtonDpadLeft).With(gamepad.ButtonDpadUp),
		gamepad.Buttons(0).With(gamepad.ButtonDpadRight).With(gamepad.ButtonDpadDown),
		gamepad.Buttons(0).With(gamepad.ButtonDpadLeft).With(gamepad.ButtonDpadRight),
	}

	for _, x := range axisValues {
		for _, y := range axisValues {
			for _, buttons := range dpadSets {
				v := MoveVector(snapshotWith(buttons, x, y))
				if v.Length() > 1+1e-9 {
					t.Errorf("magnitude %f > 1 for axes (%f, %f) buttons %v",
						v.Length(), x, y, buttons.Names())
				}
			}
		}
	}
}

func TestMoveVector_DpadCombinesWithStick(t *testing.T) {
	// Stick half right plus dpad right clamps to a full unit right.
	v := MoveVector(snapshotWith(gamepad.Buttons(0).With(gamepad.ButtonDpadRight), 0.5, 0))
	if v.X != 1 || v.Y != 0 {
		t.Errorf("MoveVector = %+v, want {1 0}", v)
	}

	// Opposing dpad directions cancel.
	opposed := gamepad.Buttons(0).With(gamepad.ButtonDpadLeft).With(gamepad.ButtonDpadRight)
	v = MoveVector(snapshotWith(opposed, 0, 0))
	if v.X != 0 {
		t.Errorf("opposing dpad should cancel, got X=%f", v.X)
	}
}

func TestMoveVector_PartialDeflectionPreserved(t *testing.T) {
	v := MoveVector(snapshotWith(0, 0.5, 0))
	if v.X != 0.5 {
		t.Errorf("partial deflection = %f, want 0.5", v.X)
	}
}

func TestStep_NeutralInputHoldsStill(t *testing.T) {
	p := testParams(t)
	prev := startState(p)
	target := physics.Vector2D{X: 10, Y: 10}

	next, res := Step(p, prev, target, 0.016, gamepad.Snapshot{}, testRNG())
	if next.Position != prev.Position {
		t.Errorf("neutral input moved player: %+v", next.Position)
	}
	if res.Collected {
		t.Error("no collision expected")
	}
}

func TestStep_MovesBySpeedTimesDt(t *testing.T) {
	p := testParams(t)
	prev := startState(p)
	target := physics.Vector2D{X: 10, Y: 10}

	next, _ := Step(p, prev, target, 0.5, snapshotWith(0, 1, 0), testRNG())
	wantX := prev.Position.X + p.Player.BaseSpeed*0.5
	if math.Abs(next.Position.X-wantX) > 1e-9 {
		t.Errorf("X = %f, want %f", next.Position.X, wantX)
	}
	if next.Position.Y != prev.Position.Y {
		t.Errorf("Y moved unexpectedly to %f", next.Position.Y)
	}
}

func TestStep_TurboMultipliesSpeed(t *testing.T) {
	p := testParams(t)
	prev := startState(p)
	target := physics.Vector2D{X: 10, Y: 10}

	plain, _ := Step(p, prev, target, 0.1, snapshotWith(0, 0, 1), testRNG())
	turbo, _ := Step(p, prev, target, 0.1,
		snapshotWith(gamepad.Buttons(0).With(p.Bindings.Turbo), 0, 1), testRNG())

	plainDelta := plain.Position.Y - prev.Position.Y
	turboDelta := turbo.Position.Y - prev.Position.Y
	if math.Abs(turboDelta-plainDelta*p.Player.TurboFactor) > 1e-9 {
		t.Errorf("turbo delta %f, want %f", turboDelta, plainDelta*p.Player.TurboFactor)
	}
}

func TestStep_PositionStaysInBounds(t *testing.T) {
	p := testParams(t)
	state := startState(p)
	target := physics.Vector2D{X: -1000, Y: -1000} // unreachable
	rng := testRNG()

	for i := 0; i < 2000; i++ {
		snap := snapshotWith(0, rng.Float64()*2-1, rng.Float64()*2-1)
		if rng.Float64() < 0.3 {
			snap.Buttons = snap.Buttons.With(gamepad.ButtonDpadRight).With(p.Bindings.Turbo)
		}
		state, _ = Step(p, state, target, 0.05, snap, rng)

		half := p.Player.Size * state.Scale / 2
		if state.Position.X < half || state.Position.X > p.Board.Width-half ||
			state.Position.Y < half || state.Position.Y > p.Board.Height-half {
			t.Fatalf("step %d left bounds: %+v (half %f)", i, state.Position, half)
		}
	}
}

func TestStep_ScaleClampedToRange(t *testing.T) {
	p := testParams(t)
	target := physics.Vector2D{X: -1000, Y: -1000}
	rng := testRNG()

	grow := snapshotWith(gamepad.Buttons(0).With(p.Bindings.Grow), 0, 0)
	state := startState(p)
	for i := 0; i < 500; i++ {
		state, _ = Step(p, state, target, 0.05, grow, rng)
	}
	if state.Scale != p.Player.ScaleMax {
		t.Errorf("held grow ended at scale %f, want %f", state.Scale, p.Player.ScaleMax)
	}

	shrink := snapshotWith(gamepad.Buttons(0).With(p.Bindings.Shrink), 0, 0)
	for i := 0; i < 500; i++ {
		state, _ = Step(p, state, target, 0.05, shrink, rng)
	}
	if state.Scale != p.Player.ScaleMin {
		t.Errorf("held shrink ended at scale %f, want %f", state.Scale, p.Player.ScaleMin)
	}
}

func TestStep_RotationAccumulatesUnbounded(t *testing.T) {
	p := testParams(t)
	target := physics.Vector2D{X: -1000, Y: -1000}
	rng := testRNG()

	right := snapshotWith(gamepad.Buttons(0).With(p.Bindings.RotateRight), 0, 0)
	state := startState(p)
	for i := 0; i < 100; i++ {
		state, _ = Step(p, state, target, 0.1, right, rng)
	}
	want := p.Player.RotationRate * 0.1 * 100
	if math.Abs(state.Rotation-want) > 1e-6 {
		t.Errorf("rotation = %f, want %f (no wrapping)", state.Rotation, want)
	}

	left := snapshotWith(gamepad.Buttons(0).With(p.Bindings.RotateLeft), 0, 0)
	state, _ = Step(p, state, target, 0.5, left, rng)
	if state.Rotation >= want {
		t.Error("rotate left should decrement rotation")
	}
}

func TestStep_CollisionBoundaryInclusive(t *testing.T) {
	p := testParams(t)
	prev := startState(p)
	// Threshold: (player size × scale + target size) / 2.
	threshold := (p.Player.Size*prev.Scale + p.Target.Size) / 2

	exact := prev.Position.Add(physics.Vector2D{X: threshold})
	_, res := Step(p, prev, exact, 0, gamepad.Snapshot{}, testRNG())
	if !res.Collected {
		t.Error("distance exactly at threshold should count as a hit")
	}

	outside := prev.Position.Add(physics.Vector2D{X: threshold + 0.001})
	_, res = Step(p, prev, outside, 0, gamepad.Snapshot{}, testRNG())
	if res.Collected {
		t.Error("distance beyond threshold should miss")
	}
}

func TestStep_CollisionRelocatesTargetAndReportsOnce(t *testing.T) {
	p := testParams(t)
	prev := startState(p)
	rng := testRNG()

	next, res := Step(p, prev, prev.Position, 0, gamepad.Snapshot{}, rng)
	if !res.Collected {
		t.Fatal("overlapping target should collide")
	}
	if res.Target == prev.Position {
		t.Error("collision should relocate the target")
	}
	if res.Target.Distance(next.Position) <= p.Target.MinRespawnDistance {
		t.Errorf("respawn distance %f not beyond minimum %f",
			res.Target.Distance(next.Position), p.Target.MinRespawnDistance)
	}

	// The relocated target must not trigger again on the following frame.
	_, res2 := Step(p, next, res.Target, 0, gamepad.Snapshot{}, rng)
	if res2.Collected {
		t.Error("freshly spawned target collided immediately")
	}
}

func TestSpawnTarget_RespectsMinimumDistance(t *testing.T) {
	p := testParams(t)
	rng := testRNG()

	for i := 0; i < 200; i++ {
		player := physics.Vector2D{
			X: p.Margin + rng.Float64()*(p.Board.Width-2*p.Margin),
			Y: p.Margin + rng.Float64()*(p.Board.Height-2*p.Margin),
		}
		sample, attempts := SpawnTarget(p, player, rng)
		if attempts < p.Target.MaxSpawnAttempts && sample.Distance(player) <= p.Target.MinRespawnDistance {
			t.Fatalf("sample %+v too close to player %+v after %d attempts",
				sample, player, attempts)
		}
		area := p.Board.Inset(p.Margin)
		if !area.Contains(sample) && area.ClampPoint(sample) != sample {
			t.Fatalf("sample %+v outside spawn area", sample)
		}
	}
}

func TestSpawnTarget_FallsBackToLastSample(t *testing.T) {
	p := testParams(t)
	// A minimum distance no board point can satisfy forces the fallback.
	p.Target.MinRespawnDistance = 10000
	rng := testRNG()

	sample, attempts := SpawnTarget(p, p.Board.Center, rng)
	if attempts != p.Target.MaxSpawnAttempts {
		t.Errorf("attempts = %d, want %d", attempts, p.Target.MaxSpawnAttempts)
	}
	area := p.Board.Inset(p.Margin)
	if area.ClampPoint(sample) != sample {
		t.Errorf("fallback sample %+v outside spawn area", sample)
	}
}

func TestSpawnTarget_DeterministicUnderSeed(t *testing.T) {
	p := testParams(t)

	first, _ := SpawnTarget(p, p.Board.Center, rand.New(rand.NewPCG(7, 7)))
	second, _ := SpawnTarget(p, p.Board.Center, rand.New(rand.NewPCG(7, 7)))
	if first != second {
		t.Errorf("same seed produced %+v and %+v", first, second)
	}
}

func TestNewParams_RejectsUnknownBinding(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Input.Turbo = "warp"
	if _, err := NewParams(cfg); err == nil {
		t.Error("expected error for unknown binding name")
	}
}
