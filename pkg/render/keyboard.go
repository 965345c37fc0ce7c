package render

import (
	"context"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-padgame/pkg/gamepad"
)

// keyHoldDuration is how long a key press counts as held. Terminals
// report presses but not releases, so each press is decayed instead.
const keyHoldDuration = 150 * time.Millisecond

// KeyboardSource adapts terminal key events to the gamepad.Source
// interface so the demo stays playable without a controller. Arrows
// and WASD map to the dpad, space to turbo, q/e to the bumpers, and
// z/c to the triggers.
type KeyboardSource struct {
	mu      sync.Mutex
	pressed map[gamepad.Button]time.Time
	now     func() time.Time
}

// NewKeyboardSource creates an idle keyboard source.
func NewKeyboardSource() *KeyboardSource {
	return &KeyboardSource{
		pressed: make(map[gamepad.Button]time.Time),
		now:     time.Now,
	}
}

// HandleEvent records key presses. Non-key events are ignored.
func (k *KeyboardSource) HandleEvent(ev tcell.Event) {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return
	}

	button, ok := buttonForKey(key)
	if !ok {
		return
	}

	k.mu.Lock()
	k.pressed[button] = k.now()
	k.mu.Unlock()
}

func buttonForKey(ev *tcell.EventKey) (gamepad.Button, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return gamepad.ButtonDpadUp, true
	case tcell.KeyDown:
		return gamepad.ButtonDpadDown, true
	case tcell.KeyLeft:
		return gamepad.ButtonDpadLeft, true
	case tcell.KeyRight:
		return gamepad.ButtonDpadRight, true
	case tcell.KeyRune:
	default:
		return 0, false
	}

	switch ev.Rune() {
	case 'w', 'W':
		return gamepad.ButtonDpadUp, true
	case 's', 'S':
		return gamepad.ButtonDpadDown, true
	case 'a', 'A':
		return gamepad.ButtonDpadLeft, true
	case 'd', 'D':
		return gamepad.ButtonDpadRight, true
	case ' ':
		return gamepad.ButtonA, true
	case 'q', 'Q':
		return gamepad.ButtonLeftBumper, true
	case 'e', 'E':
		return gamepad.ButtonRightBumper, true
	case 'z', 'Z':
		return gamepad.ButtonLeftTrigger, true
	case 'c', 'C':
		return gamepad.ButtonRightTrigger, true
	}
	return 0, false
}

// Poll implements gamepad.Source. Keys pressed within the hold window
// read as held buttons; the sticks stay neutral.
func (k *KeyboardSource) Poll() (gamepad.Snapshot, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	var snap gamepad.Snapshot
	for button, at := range k.pressed {
		if now.Sub(at) > keyHoldDuration {
			delete(k.pressed, button)
			continue
		}
		snap.Buttons = snap.Buttons.With(button)
	}
	return snap, nil
}

// EventLoop feeds screen events into the keyboard source until the
// context is cancelled or the user quits with Esc or Ctrl-C. It calls
// cancel on quit so the game loop stops with it.
func EventLoop(ctx context.Context, cancel context.CancelFunc, screen tcell.Screen, kb *KeyboardSource) {
	go func() {
		<-ctx.Done()
		screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventInterrupt:
			return
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				cancel()
				return
			}
			if kb != nil {
				kb.HandleEvent(ev)
			}
		}
	}
}
