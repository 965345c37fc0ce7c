// Package feedback turns collect events into haptic pulses and an
// optional audio blip. Every trigger is fire and forget: a missing
// rumble motor, a tripped rate limit, or an unavailable audio device
// never stalls or fails a frame.
package feedback

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/opd-ai/go-padgame/pkg/config"
	"github.com/opd-ai/go-padgame/pkg/logging"
)

const audioSampleRate = beep.SampleRate(48000)

// Vibrator triggers a rumble pulse on the active controller.
// *gamepad.Bridge is the production implementation; it owns rate
// limiting and device errors.
type Vibrator interface {
	Vibrate(duration time.Duration, intensity float64)
}

// Manager fans a collect pulse out to haptics and audio per the
// haptics configuration.
type Manager struct {
	cfg      config.HapticsConfig
	vibrator Vibrator
	logger   *logging.Logger

	mu         sync.Mutex
	audioReady bool
}

// NewManager creates a feedback manager. vibrator may be nil when no
// controller supports rumble; audio stays off until InitAudio.
func NewManager(cfg config.HapticsConfig, vibrator Vibrator) *Manager {
	return &Manager{
		cfg:      cfg,
		vibrator: vibrator,
		logger:   logging.NewLogger(),
	}
}

// InitAudio opens the speaker for the collect blip. Call it once from
// the main goroutine; headless and test runs skip it and pulses stay
// haptic-only. Initialization failure disables audio but is not fatal.
func (m *Manager) InitAudio() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cfg.Audio || m.audioReady {
		return nil
	}
	if err := speaker.Init(audioSampleRate, audioSampleRate.N(time.Millisecond*100)); err != nil {
		m.logger.Warn(context.Background(), "audio unavailable, collect blip disabled",
			"error", err.Error())
		return err
	}
	m.audioReady = true
	return nil
}

// CollectPulse fires the configured feedback for one collected target.
func (m *Manager) CollectPulse() {
	if !m.cfg.Enabled {
		return
	}

	if m.vibrator != nil {
		m.vibrator.Vibrate(time.Duration(m.cfg.DurationMS)*time.Millisecond, m.cfg.Intensity)
	}

	m.mu.Lock()
	ready := m.audioReady
	m.mu.Unlock()
	if ready {
		m.playBlip()
	}
}

func (m *Manager) playBlip() {
	blip := beep.Take(
		audioSampleRate.N(time.Duration(m.cfg.DurationMS)*time.Millisecond/2),
		newBlipGenerator(audioSampleRate, 880, m.cfg.Intensity),
	)
	speaker.Play(blip)
}

// blipGenerator produces a short sine blip with a fade-out envelope.
type blipGenerator struct {
	sr        beep.SampleRate
	freq      float64
	amplitude float64
	pos       int
}

func newBlipGenerator(sr beep.SampleRate, freq, amplitude float64) *blipGenerator {
	return &blipGenerator{
		sr:        sr,
		freq:      freq,
		amplitude: amplitude * 0.3,
	}
}

func (g *blipGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		envelope := math.Exp(-t * 30)
		sample := g.amplitude * envelope * math.Sin(2*math.Pi*g.freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *blipGenerator) Err() error {
	return nil
}
