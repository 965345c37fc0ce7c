// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// EnvironmentConfig contains deployment-level settings sourced from
// PADGAME_* environment variables. These cover the bridge polling loop,
// the circuit breaker guarding device reads, resource limits, and the
// health endpoint. Gameplay tuning stays in GameConfig.
type EnvironmentConfig struct {
	// Input bridge
	PollInterval time.Duration

	// Circuit breaker guarding device polls
	CircuitBreakerMaxRequests         int
	CircuitBreakerInterval            time.Duration
	CircuitBreakerTimeout             time.Duration
	CircuitBreakerMaxConsecutiveFails int

	// Health endpoint
	HealthEnabled bool
	HealthAddr    string

	// Resource management
	MaxMemoryMB           int64
	MaxGoroutines         int
	ShutdownTimeout       time.Duration
	ResourceCheckInterval time.Duration
}

// LoadConfigFromEnv builds an EnvironmentConfig from environment variables,
// applying defaults for anything unset. It returns an error when a variable
// is set but cannot be parsed, so typos fail fast at startup.
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	cfg := &EnvironmentConfig{}
	var err error

	if cfg.PollInterval, err = getEnvDuration("PADGAME_POLL_INTERVAL", 8*time.Millisecond); err != nil {
		return nil, err
	}

	if cfg.CircuitBreakerMaxRequests, err = getEnvInt("PADGAME_CB_MAX_REQUESTS", 3); err != nil {
		return nil, err
	}
	if cfg.CircuitBreakerInterval, err = getEnvDuration("PADGAME_CB_INTERVAL", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.CircuitBreakerTimeout, err = getEnvDuration("PADGAME_CB_TIMEOUT", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.CircuitBreakerMaxConsecutiveFails, err = getEnvInt("PADGAME_CB_MAX_CONSECUTIVE_FAILS", 5); err != nil {
		return nil, err
	}

	if cfg.HealthEnabled, err = getEnvBool("PADGAME_HEALTH_ENABLED", false); err != nil {
		return nil, err
	}
	cfg.HealthAddr = getEnvString("PADGAME_HEALTH_ADDR", "localhost:8087")

	if cfg.MaxMemoryMB, err = getEnvInt64("PADGAME_MAX_MEMORY_MB", 500); err != nil {
		return nil, err
	}
	if cfg.MaxGoroutines, err = getEnvInt("PADGAME_MAX_GOROUTINES", 100); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("PADGAME_SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ResourceCheckInterval, err = getEnvDuration("PADGAME_RESOURCE_CHECK_INTERVAL", 10*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects values that would break the polling or monitoring loops.
func (c *EnvironmentConfig) validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.PollInterval)
	}
	if c.CircuitBreakerMaxConsecutiveFails <= 0 {
		return fmt.Errorf("circuit breaker consecutive fail limit must be positive, got %d",
			c.CircuitBreakerMaxConsecutiveFails)
	}
	if c.MaxGoroutines <= 0 {
		return fmt.Errorf("goroutine limit must be positive, got %d", c.MaxGoroutines)
	}
	if c.ResourceCheckInterval <= 0 {
		return fmt.Errorf("resource check interval must be positive, got %v", c.ResourceCheckInterval)
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return parsed, nil
}
