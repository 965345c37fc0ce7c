// pkg/gamepad/bridge.go
package gamepad

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-padgame/pkg/config"
	"github.com/opd-ai/go-padgame/pkg/event"
	"github.com/opd-ai/go-padgame/pkg/logging"
	"github.com/opd-ai/go-padgame/pkg/validation"
)

// hapticsClient is the rate limiter key for vibration pulses.
const hapticsClient = "haptics"

// ConnectionEvent is published on the bus when the pad connection
// status changes.
type ConnectionEvent struct {
	event.BaseEvent
	Connected bool
}

// SubscriptionID identifies a snapshot observer for unsubscription.
type SubscriptionID uint64

// Bridge connects a Source to the rest of the application. It polls the
// source, sanitizes the snapshots, tracks connection status through a
// circuit breaker, and fans snapshots out to registered observers. All
// reads through Latest are lock-protected copies; Snapshot is a value
// type, so consumers can never mutate bridge state.
type Bridge struct {
	source  Source
	bus     *event.Bus
	logger  *logging.Logger
	breaker *gobreaker.CircuitBreaker
	limiter *validation.RateLimiter

	pollInterval time.Duration
	deadzone     float64

	mu        sync.RWMutex
	latest    Snapshot
	connected bool
	observers map[SubscriptionID]func(Snapshot)
	nextSub   SubscriptionID
	running   bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewBridge creates a bridge around the given source. Breaker and polling
// parameters come from the environment configuration; deadzone comes from
// the game input configuration.
func NewBridge(source Source, bus *event.Bus, envConfig *config.EnvironmentConfig, deadzone float64, maxPulsesPerSec int) *Bridge {
	logger := logging.NewLogger()

	settings := gobreaker.Settings{
		Name:        "padgame-bridge",
		MaxRequests: uint32(envConfig.CircuitBreakerMaxRequests),
		Interval:    envConfig.CircuitBreakerInterval,
		Timeout:     envConfig.CircuitBreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(envConfig.CircuitBreakerMaxConsecutiveFails)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "bridge circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	if maxPulsesPerSec <= 0 {
		maxPulsesPerSec = 1
	}

	return &Bridge{
		source:       source,
		bus:          bus,
		logger:       logger,
		breaker:      gobreaker.NewCircuitBreaker(settings),
		limiter:      validation.NewRateLimiter(maxPulsesPerSec, time.Second),
		pollInterval: envConfig.PollInterval,
		deadzone:     deadzone,
		observers:    make(map[SubscriptionID]func(Snapshot)),
		done:         make(chan struct{}),
	}
}

// Start launches the background poll loop. In engo mode the loop is not
// used; the frame system calls PollOnce directly instead.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return nil
	}
	b.running = true
	ctx, b.cancel = context.WithCancel(ctx)
	b.mu.Unlock()

	go b.pollLoop(ctx)

	b.logger.Info(ctx, "gamepad bridge started",
		"poll_interval", b.pollInterval,
		"deadzone", b.deadzone,
	)
	return nil
}

// Stop cancels the poll loop and waits for it to finish. The rate limiter
// is closed as well; the bridge cannot be restarted.
func (b *Bridge) Stop() {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	b.running = false
	cancel := b.cancel
	b.mu.Unlock()

	cancel()
	<-b.done
	b.limiter.Close()
}

// pollLoop polls the source at the configured interval until cancelled.
func (b *Bridge) pollLoop(ctx context.Context) {
	defer close(b.done)

	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.PollOnce()
		}
	}
}

// PollOnce performs a single breaker-guarded poll, updates the latest
// snapshot, and notifies observers. A poll failure (or an open breaker)
// marks the pad disconnected; the next successful poll reconnects it.
func (b *Bridge) PollOnce() {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.source.Poll()
	})
	if err != nil {
		b.setConnected(false)
		return
	}

	snap := result.(Snapshot).Sanitized(b.deadzone)

	b.mu.Lock()
	b.latest = snap
	observers := make([]func(Snapshot), 0, len(b.observers))
	for _, fn := range b.observers {
		observers = append(observers, fn)
	}
	b.mu.Unlock()

	b.setConnected(true)

	for _, fn := range observers {
		fn(snap)
	}
}

// setConnected updates the connection flag and publishes a status event
// on transitions.
func (b *Bridge) setConnected(connected bool) {
	b.mu.Lock()
	changed := b.connected != connected
	b.connected = connected
	b.mu.Unlock()

	if !changed {
		return
	}

	eventType := event.PadConnected
	if !connected {
		eventType = event.PadDisconnected
	}
	b.bus.Publish(&ConnectionEvent{
		BaseEvent: event.BaseEvent{EventType: eventType, Source: b},
		Connected: connected,
	})
	b.logger.Info(context.Background(), "pad connection changed", "connected", connected)
}

// Latest returns the most recent sanitized snapshot. Before the first
// successful poll this is the neutral snapshot.
func (b *Bridge) Latest() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest
}

// Connected reports whether the pad is currently reachable.
func (b *Bridge) Connected() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.connected
}

// Subscribe registers an observer that receives every new snapshot.
// Observers run synchronously on the poll goroutine; keep them short.
func (b *Bridge) Subscribe(fn func(Snapshot)) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextSub++
	b.observers[b.nextSub] = fn
	return b.nextSub
}

// Unsubscribe removes an observer. After Unsubscribe returns the observer
// will not be invoked again.
func (b *Bridge) Unsubscribe(id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.observers, id)
}

// Vibrate triggers a fire-and-forget haptic pulse on the source, if the
// hardware supports it. Pulses are rate limited; excess requests are
// dropped silently. Errors from the device are logged, never surfaced.
func (b *Bridge) Vibrate(duration time.Duration, intensity float64) {
	vibrator, ok := b.source.(Vibrator)
	if !ok {
		return
	}
	if !b.limiter.Allow(hapticsClient) {
		b.logger.Debug(context.Background(), "haptic pulse dropped by rate limiter")
		return
	}

	go func() {
		if err := vibrator.Rumble(duration, intensity); err != nil {
			b.logger.Debug(context.Background(), "haptic pulse failed", "error", err.Error())
		}
	}()
}

// BreakerState exposes the circuit breaker state for health reporting.
func (b *Bridge) BreakerState() gobreaker.State {
	return b.breaker.State()
}

// HealthCheck adapts the bridge to the health.HealthCheck interface.
type HealthCheck struct {
	Bridge *Bridge
}

// Name implements health.HealthCheck.
func (hc *HealthCheck) Name() string {
	return "gamepad_bridge"
}

// Check implements health.HealthCheck. The bridge is unhealthy while the
// pad is unreachable.
func (hc *HealthCheck) Check(ctx context.Context) error {
	if !hc.Bridge.Connected() {
		return ErrNoDevice
	}
	return nil
}
