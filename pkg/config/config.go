// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// GameConfig contains configuration for a collect-the-dot session
type GameConfig struct {
	Board   BoardConfig   `json:"board" yaml:"board"`
	Player  PlayerConfig  `json:"player" yaml:"player"`
	Target  TargetConfig  `json:"target" yaml:"target"`
	Input   InputConfig   `json:"input" yaml:"input"`
	Haptics HapticsConfig `json:"haptics" yaml:"haptics"`
	Render  RenderConfig  `json:"render" yaml:"render"`
}

// BoardConfig describes the playfield in board-local coordinates
type BoardConfig struct {
	Width       float64 `json:"width" yaml:"width"`
	Height      float64 `json:"height" yaml:"height"`
	SpawnMargin float64 `json:"spawnMargin" yaml:"spawnMargin"`
}

// PlayerConfig contains player movement and appearance tuning
type PlayerConfig struct {
	Size         float64 `json:"size" yaml:"size"`                 // visual footprint at scale 1
	BaseSpeed    float64 `json:"baseSpeed" yaml:"baseSpeed"`       // units per second
	TurboFactor  float64 `json:"turboFactor" yaml:"turboFactor"`   // speed multiplier while turbo held
	RotationRate float64 `json:"rotationRate" yaml:"rotationRate"` // degrees per second
	ScaleRate    float64 `json:"scaleRate" yaml:"scaleRate"`       // scale units per second
	ScaleMin     float64 `json:"scaleMin" yaml:"scaleMin"`
	ScaleMax     float64 `json:"scaleMax" yaml:"scaleMax"`
}

// TargetConfig contains target sizing and respawn tuning
type TargetConfig struct {
	Size               float64 `json:"size" yaml:"size"`
	MinRespawnDistance float64 `json:"minRespawnDistance" yaml:"minRespawnDistance"`
	MaxSpawnAttempts   int     `json:"maxSpawnAttempts" yaml:"maxSpawnAttempts"`
}

// InputConfig contains gamepad input tuning and logical button bindings.
// Bindings are logical button names understood by gamepad.ParseButton.
type InputConfig struct {
	Deadzone    float64 `json:"deadzone" yaml:"deadzone"`
	Turbo       string  `json:"turbo" yaml:"turbo"`
	RotateLeft  string  `json:"rotateLeft" yaml:"rotateLeft"`
	RotateRight string  `json:"rotateRight" yaml:"rotateRight"`
	Shrink      string  `json:"shrink" yaml:"shrink"`
	Grow        string  `json:"grow" yaml:"grow"`
}

// HapticsConfig controls the collect feedback pulse
type HapticsConfig struct {
	Enabled         bool    `json:"enabled" yaml:"enabled"`
	DurationMS      int     `json:"durationMS" yaml:"durationMS"`
	Intensity       float64 `json:"intensity" yaml:"intensity"` // 0..1
	MaxPulsesPerSec int     `json:"maxPulsesPerSec" yaml:"maxPulsesPerSec"`
	Audio           bool    `json:"audio" yaml:"audio"` // audible blip alongside rumble
}

// RenderConfig contains presentation settings
type RenderConfig struct {
	FrameRate int `json:"frameRate" yaml:"frameRate"`
}

// LoadConfig loads a configuration from a file. The format is chosen by
// extension: .yaml/.yml parse as YAML, everything else as JSON.
func LoadConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config GameConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	return &config, nil
}

// SaveConfig saves a configuration to a file using the same
// extension-based format selection as LoadConfig.
func SaveConfig(config *GameConfig, path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
	default:
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a default game configuration
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Board: BoardConfig{
			Width:       320,
			Height:      240,
			SpawnMargin: 20,
		},
		Player: PlayerConfig{
			Size:         40,
			BaseSpeed:    160,
			TurboFactor:  2.0,
			RotationRate: 180,
			ScaleRate:    1.0,
			ScaleMin:     0.5,
			ScaleMax:     2.5,
		},
		Target: TargetConfig{
			Size:               24,
			MinRespawnDistance: 80,
			MaxSpawnAttempts:   20,
		},
		Input: InputConfig{
			Deadzone:    0.08,
			Turbo:       "a",
			RotateLeft:  "leftBumper",
			RotateRight: "rightBumper",
			Shrink:      "leftTrigger",
			Grow:        "rightTrigger",
		},
		Haptics: HapticsConfig{
			Enabled:         true,
			DurationMS:      120,
			Intensity:       0.7,
			MaxPulsesPerSec: 5,
			Audio:           false,
		},
		Render: RenderConfig{
			FrameRate: 60,
		},
	}
}
