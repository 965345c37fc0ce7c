// pkg/render/engo/input.go
package engo

import (
	"sync"

	engoengine "github.com/EngoEngine/engo"

	"github.com/opd-ai/go-padgame/pkg/gamepad"
)

// gamepadName is the registration key for the first attached controller.
const gamepadName = "player1"

// triggerThreshold is the analog deflection at which a trigger reads
// as a held button.
const triggerThreshold = 0.5

// GamepadSource reads the physical controller through engo's input
// manager and adapts it to the gamepad.Source interface. When no
// controller is attached, optional keyboard bindings stand in so the
// windowed demo stays playable.
//
// Registration with engo is deferred to the first Poll because the
// input manager does not exist before the window is created, while the
// source itself is wired up in main before engo runs.
type GamepadSource struct {
	keyboardFallback bool
	registerOnce     sync.Once
	registerErr      error
}

// NewGamepadSource creates a source for the first attached controller.
func NewGamepadSource(keyboardFallback bool) *GamepadSource {
	return &GamepadSource{keyboardFallback: keyboardFallback}
}

func (s *GamepadSource) ensureRegistered() error {
	s.registerOnce.Do(func() {
		s.registerErr = engoengine.Input.RegisterGamepad(gamepadName)
		if s.keyboardFallback {
			registerKeyboardBindings()
		}
	})
	if s.registerErr != nil && !s.keyboardFallback {
		return s.registerErr
	}
	return nil
}

func registerKeyboardBindings() {
	engoengine.Input.RegisterButton("padUp", engoengine.KeyW, engoengine.KeyArrowUp)
	engoengine.Input.RegisterButton("padDown", engoengine.KeyS, engoengine.KeyArrowDown)
	engoengine.Input.RegisterButton("padLeft", engoengine.KeyA, engoengine.KeyArrowLeft)
	engoengine.Input.RegisterButton("padRight", engoengine.KeyD, engoengine.KeyArrowRight)
	engoengine.Input.RegisterButton("padTurbo", engoengine.KeySpace)
	engoengine.Input.RegisterButton("padRotateLeft", engoengine.KeyQ)
	engoengine.Input.RegisterButton("padRotateRight", engoengine.KeyE)
	engoengine.Input.RegisterButton("padShrink", engoengine.KeyZ)
	engoengine.Input.RegisterButton("padGrow", engoengine.KeyC)
}

// Poll implements gamepad.Source. It must run on engo's main thread,
// which holds for the scene update system that calls it.
func (s *GamepadSource) Poll() (gamepad.Snapshot, error) {
	if err := s.ensureRegistered(); err != nil {
		return gamepad.Snapshot{}, gamepad.ErrNoDevice
	}

	pad := engoengine.Input.Gamepad(gamepadName)
	if pad == nil {
		if s.keyboardFallback {
			return s.keyboardSnapshot(), nil
		}
		return gamepad.Snapshot{}, gamepad.ErrNoDevice
	}

	var snap gamepad.Snapshot
	snap.Axes[gamepad.AxisLeftX] = float64(pad.LeftX.Value())
	snap.Axes[gamepad.AxisLeftY] = float64(pad.LeftY.Value())
	snap.Axes[gamepad.AxisRightX] = float64(pad.RightX.Value())
	snap.Axes[gamepad.AxisRightY] = float64(pad.RightY.Value())
	snap.Axes[gamepad.AxisLeftTrigger] = float64(pad.LeftTrigger.Value())
	snap.Axes[gamepad.AxisRightTrigger] = float64(pad.RightTrigger.Value())

	for button, down := range map[gamepad.Button]bool{
		gamepad.ButtonA:            pad.A.Down(),
		gamepad.ButtonB:            pad.B.Down(),
		gamepad.ButtonX:            pad.X.Down(),
		gamepad.ButtonY:            pad.Y.Down(),
		gamepad.ButtonLeftBumper:   pad.LeftBumper.Down(),
		gamepad.ButtonRightBumper:  pad.RightBumper.Down(),
		gamepad.ButtonLeftThumb:    pad.LeftThumb.Down(),
		gamepad.ButtonRightThumb:   pad.RightThumb.Down(),
		gamepad.ButtonDpadUp:       pad.DpadUp.Down(),
		gamepad.ButtonDpadDown:     pad.DpadDown.Down(),
		gamepad.ButtonDpadLeft:     pad.DpadLeft.Down(),
		gamepad.ButtonDpadRight:    pad.DpadRight.Down(),
		gamepad.ButtonStart:        pad.Start.Down(),
		gamepad.ButtonBack:         pad.Back.Down(),
		gamepad.ButtonGuide:        pad.Guide.Down(),
		gamepad.ButtonLeftTrigger:  pad.LeftTrigger.Value() > triggerThreshold,
		gamepad.ButtonRightTrigger: pad.RightTrigger.Value() > triggerThreshold,
	} {
		if down {
			snap.Buttons = snap.Buttons.With(button)
		}
	}
	return snap, nil
}

func (s *GamepadSource) keyboardSnapshot() gamepad.Snapshot {
	var snap gamepad.Snapshot
	for name, button := range map[string]gamepad.Button{
		"padUp":          gamepad.ButtonDpadUp,
		"padDown":        gamepad.ButtonDpadDown,
		"padLeft":        gamepad.ButtonDpadLeft,
		"padRight":       gamepad.ButtonDpadRight,
		"padTurbo":       gamepad.ButtonA,
		"padRotateLeft":  gamepad.ButtonLeftBumper,
		"padRotateRight": gamepad.ButtonRightBumper,
		"padShrink":      gamepad.ButtonLeftTrigger,
		"padGrow":        gamepad.ButtonRightTrigger,
	} {
		if engoengine.Input.Button(name).Down() {
			snap.Buttons = snap.Buttons.With(button)
		}
	}
	return snap
}
