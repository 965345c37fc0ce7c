// pkg/resource/health.go
package resource

import (
	"context"
	"fmt"
)

// HealthCheck adapts the manager to the health.HealthCheck interface.
type HealthCheck struct {
	manager *Manager
}

// NewHealthCheck creates a health check for the resource manager.
func NewHealthCheck(manager *Manager) *HealthCheck {
	return &HealthCheck{
		manager: manager,
	}
}

// Name returns the name of this health check.
func (h *HealthCheck) Name() string {
	return "resource"
}

// Check verifies that resource usage is within acceptable limits.
// Goroutine usage trips at 80% of the limit so readiness degrades
// before StartGoroutine begins rejecting work.
func (h *HealthCheck) Check(ctx context.Context) error {
	stats := h.manager.Stats()

	if stats.MemoryUsageMB > stats.MaxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB",
			stats.MemoryUsageMB, stats.MaxMemoryMB)
	}

	goroutineThreshold := int64(float64(stats.MaxGoroutines) * 0.8)
	if stats.GoroutineCount > goroutineThreshold {
		return fmt.Errorf("goroutine count %d exceeds 80%% threshold (%d/%d)",
			stats.GoroutineCount, goroutineThreshold, stats.MaxGoroutines)
	}

	return nil
}
