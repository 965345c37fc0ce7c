// Package validation provides startup validation for game configuration.
// The simulation itself has no error states because inputs are clamped at
// the gamepad boundary, so validation concentrates on rejecting config
// files that would make the per-frame math meaningless.
package validation

import (
	"fmt"

	"github.com/opd-ai/go-padgame/pkg/config"
)

// ValidateGameConfig checks that a game configuration is internally
// consistent. It returns the first problem found.
func ValidateGameConfig(cfg *config.GameConfig) error {
	if err := validateBoard(cfg); err != nil {
		return err
	}
	if err := validatePlayer(cfg); err != nil {
		return err
	}
	if err := validateTarget(cfg); err != nil {
		return err
	}
	if err := validateInput(cfg); err != nil {
		return err
	}
	return validateHaptics(cfg)
}

func validateBoard(cfg *config.GameConfig) error {
	if cfg.Board.Width <= 0 || cfg.Board.Height <= 0 {
		return fmt.Errorf("board dimensions must be positive, got %.1fx%.1f",
			cfg.Board.Width, cfg.Board.Height)
	}
	if cfg.Board.SpawnMargin < 0 {
		return fmt.Errorf("spawn margin must not be negative, got %.1f", cfg.Board.SpawnMargin)
	}
	if 2*cfg.Board.SpawnMargin >= cfg.Board.Width || 2*cfg.Board.SpawnMargin >= cfg.Board.Height {
		return fmt.Errorf("spawn margin %.1f leaves no room on a %.1fx%.1f board",
			cfg.Board.SpawnMargin, cfg.Board.Width, cfg.Board.Height)
	}
	return nil
}

func validatePlayer(cfg *config.GameConfig) error {
	p := cfg.Player
	if p.Size <= 0 {
		return fmt.Errorf("player size must be positive, got %.1f", p.Size)
	}
	if p.BaseSpeed <= 0 {
		return fmt.Errorf("base speed must be positive, got %.1f", p.BaseSpeed)
	}
	if p.TurboFactor < 1 {
		return fmt.Errorf("turbo factor must be at least 1, got %.2f", p.TurboFactor)
	}
	if p.RotationRate < 0 {
		return fmt.Errorf("rotation rate must not be negative, got %.1f", p.RotationRate)
	}
	if p.ScaleRate < 0 {
		return fmt.Errorf("scale rate must not be negative, got %.2f", p.ScaleRate)
	}
	if p.ScaleMin <= 0 || p.ScaleMax < p.ScaleMin {
		return fmt.Errorf("scale range [%.2f, %.2f] is invalid", p.ScaleMin, p.ScaleMax)
	}
	// The player must fit on the board even at maximum scale, or the
	// bounds clamp has no valid interval.
	if p.Size*p.ScaleMax >= cfg.Board.Width || p.Size*p.ScaleMax >= cfg.Board.Height {
		return fmt.Errorf("player at max scale (%.1f) does not fit a %.1fx%.1f board",
			p.Size*p.ScaleMax, cfg.Board.Width, cfg.Board.Height)
	}
	return nil
}

func validateTarget(cfg *config.GameConfig) error {
	if cfg.Target.Size <= 0 {
		return fmt.Errorf("target size must be positive, got %.1f", cfg.Target.Size)
	}
	if cfg.Target.MinRespawnDistance < 0 {
		return fmt.Errorf("min respawn distance must not be negative, got %.1f",
			cfg.Target.MinRespawnDistance)
	}
	if cfg.Target.MaxSpawnAttempts <= 0 {
		return fmt.Errorf("spawn attempts must be positive, got %d", cfg.Target.MaxSpawnAttempts)
	}
	return nil
}

func validateInput(cfg *config.GameConfig) error {
	if cfg.Input.Deadzone < 0 || cfg.Input.Deadzone >= 1 {
		return fmt.Errorf("deadzone must be in [0, 1), got %.2f", cfg.Input.Deadzone)
	}
	return nil
}

func validateHaptics(cfg *config.GameConfig) error {
	h := cfg.Haptics
	if !h.Enabled {
		return nil
	}
	if h.DurationMS <= 0 {
		return fmt.Errorf("haptic duration must be positive, got %dms", h.DurationMS)
	}
	if h.Intensity < 0 || h.Intensity > 1 {
		return fmt.Errorf("haptic intensity must be in [0, 1], got %.2f", h.Intensity)
	}
	if h.MaxPulsesPerSec <= 0 {
		return fmt.Errorf("haptic rate limit must be positive, got %d", h.MaxPulsesPerSec)
	}
	return nil
}
