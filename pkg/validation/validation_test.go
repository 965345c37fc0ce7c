// Package validation provides unit tests for validation.go
package validation

import (
	"testing"

	"github.com/opd-ai/go-padgame/pkg/config"
)

func TestValidateGameConfig_DefaultIsValid(t *testing.T) {
	if err := ValidateGameConfig(config.DefaultConfig()); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestValidateGameConfig_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.GameConfig)
	}{
		{"zero board width", func(c *config.GameConfig) { c.Board.Width = 0 }},
		{"negative board height", func(c *config.GameConfig) { c.Board.Height = -10 }},
		{"negative spawn margin", func(c *config.GameConfig) { c.Board.SpawnMargin = -1 }},
		{"margin swallows board", func(c *config.GameConfig) { c.Board.SpawnMargin = 1000 }},
		{"zero player size", func(c *config.GameConfig) { c.Player.Size = 0 }},
		{"zero base speed", func(c *config.GameConfig) { c.Player.BaseSpeed = 0 }},
		{"turbo below one", func(c *config.GameConfig) { c.Player.TurboFactor = 0.5 }},
		{"negative rotation rate", func(c *config.GameConfig) { c.Player.RotationRate = -90 }},
		{"inverted scale range", func(c *config.GameConfig) { c.Player.ScaleMin = 3; c.Player.ScaleMax = 1 }},
		{"zero scale min", func(c *config.GameConfig) { c.Player.ScaleMin = 0 }},
		{"player outgrows board", func(c *config.GameConfig) { c.Player.Size = 200; c.Player.ScaleMax = 2.5 }},
		{"zero target size", func(c *config.GameConfig) { c.Target.Size = 0 }},
		{"negative respawn distance", func(c *config.GameConfig) { c.Target.MinRespawnDistance = -5 }},
		{"zero spawn attempts", func(c *config.GameConfig) { c.Target.MaxSpawnAttempts = 0 }},
		{"deadzone out of range", func(c *config.GameConfig) { c.Input.Deadzone = 1.5 }},
		{"haptic intensity out of range", func(c *config.GameConfig) { c.Haptics.Intensity = 2 }},
		{"zero haptic duration", func(c *config.GameConfig) { c.Haptics.DurationMS = 0 }},
		{"zero haptic rate limit", func(c *config.GameConfig) { c.Haptics.MaxPulsesPerSec = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tc.mutate(cfg)
			if err := ValidateGameConfig(cfg); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidateGameConfig_DisabledHapticsSkipsChecks(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Haptics.Enabled = false
	cfg.Haptics.DurationMS = 0
	cfg.Haptics.Intensity = 5
	if err := ValidateGameConfig(cfg); err != nil {
		t.Errorf("disabled haptics should not be validated, got %v", err)
	}
}
