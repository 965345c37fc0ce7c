// pkg/gamepad/source.go
package gamepad

import (
	"errors"
	"sync"
	"time"
)

// Source supplies raw controller snapshots, one per hardware poll.
// Implementations live next to their platform layer: the engo renderer
// carries a GLFW-backed source, the terminal renderer a keyboard source.
type Source interface {
	// Poll reads the current controller state. It returns an error when
	// the underlying device is unavailable; the bridge translates repeated
	// failures into a disconnected status.
	Poll() (Snapshot, error)
}

// Vibrator is implemented by sources whose hardware supports rumble.
type Vibrator interface {
	// Rumble triggers a vibration pulse. Intensity is normalized to [0, 1].
	Rumble(duration time.Duration, intensity float64) error
}

// ErrNoDevice indicates no controller is available to poll.
var ErrNoDevice = errors.New("gamepad: no device available")

// ScriptedSource replays a fixed sequence of snapshots, then holds the
// last one. Used by the headless example and by tests that need
// deterministic input.
type ScriptedSource struct {
	mu      sync.Mutex
	frames  []Snapshot
	pos     int
	failing bool

	rumbles []RumbleCall
}

// RumbleCall records one Rumble invocation for assertions.
type RumbleCall struct {
	Duration  time.Duration
	Intensity float64
}

// NewScriptedSource creates a source that serves the given snapshots in
// order. An empty script serves neutral snapshots.
func NewScriptedSource(frames ...Snapshot) *ScriptedSource {
	return &ScriptedSource{frames: frames}
}

// Poll implements Source.
func (s *ScriptedSource) Poll() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing {
		return Snapshot{}, ErrNoDevice
	}
	if len(s.frames) == 0 {
		return Snapshot{}, nil
	}
	snap := s.frames[s.pos]
	if s.pos < len(s.frames)-1 {
		s.pos++
	}
	return snap, nil
}

// Rumble implements Vibrator by recording the call.
func (s *ScriptedSource) Rumble(duration time.Duration, intensity float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rumbles = append(s.rumbles, RumbleCall{Duration: duration, Intensity: intensity})
	return nil
}

// Rumbles returns the recorded rumble calls.
func (s *ScriptedSource) Rumbles() []RumbleCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RumbleCall, len(s.rumbles))
	copy(out, s.rumbles)
	return out
}

// SetFailing switches the source between healthy and device-lost states.
func (s *ScriptedSource) SetFailing(failing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = failing
}
