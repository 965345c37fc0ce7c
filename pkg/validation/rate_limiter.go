package validation

import (
	"sync"
	"time"
)

// RateLimiter implements a token bucket rate limiter per channel. The
// bridge uses it to bound haptic pulses; any other fire-and-forget side
// effect can register its own channel key.
type RateLimiter struct {
	maxRequests int
	window      time.Duration
	channels    map[string]*channelLimiter
	mu          sync.RWMutex
	cleanupTick *time.Ticker
	done        chan struct{}
}

// channelLimiter tracks rate limiting state for a single channel
type channelLimiter struct {
	tokens     int
	lastRefill time.Time
	maxTokens  int
	window     time.Duration
	mu         sync.Mutex
}

// NewRateLimiter creates a new rate limiter with specified limits
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		channels:    make(map[string]*channelLimiter),
		done:        make(chan struct{}),
	}

	// Cleanup goroutine removes channels idle for multiple windows
	rl.cleanupTick = time.NewTicker(window)
	go rl.cleanup()

	return rl
}

// Allow checks if a request should be allowed on the given channel
func (rl *RateLimiter) Allow(channel string) bool {
	rl.mu.RLock()
	limiter, exists := rl.channels[channel]
	rl.mu.RUnlock()

	if !exists {
		limiter = &channelLimiter{
			tokens:     rl.maxRequests,
			lastRefill: time.Now(),
			maxTokens:  rl.maxRequests,
			window:     rl.window,
		}
		rl.mu.Lock()
		rl.channels[channel] = limiter
		rl.mu.Unlock()
	}

	return limiter.consume()
}

// consume attempts to consume a token from the channel's bucket
func (cl *channelLimiter) consume() bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := time.Now()

	// Refill proportionally to the fraction of the window that has passed
	elapsed := now.Sub(cl.lastRefill)
	if elapsed > 0 && cl.tokens < cl.maxTokens {
		windowsPassed := float64(elapsed) / float64(cl.window)
		tokensToAdd := int(float64(cl.maxTokens) * windowsPassed)

		if tokensToAdd > 0 {
			cl.tokens += tokensToAdd
			if cl.tokens > cl.maxTokens {
				cl.tokens = cl.maxTokens
			}
			cl.lastRefill = now
		}
	}

	if cl.tokens > 0 {
		cl.tokens--
		return true
	}

	return false
}

// cleanup removes inactive channels to prevent memory leaks
func (rl *RateLimiter) cleanup() {
	for {
		select {
		case <-rl.cleanupTick.C:
			rl.removeInactiveChannels()
		case <-rl.done:
			return
		}
	}
}

// removeInactiveChannels removes channels that haven't refilled for 2 windows
func (rl *RateLimiter) removeInactiveChannels() {
	cutoff := time.Now().Add(-2 * rl.window)

	rl.mu.Lock()
	for channel, limiter := range rl.channels {
		limiter.mu.Lock()
		if limiter.lastRefill.Before(cutoff) {
			delete(rl.channels, channel)
		}
		limiter.mu.Unlock()
	}
	rl.mu.Unlock()
}

// Close stops the rate limiter and cleans up resources
func (rl *RateLimiter) Close() {
	close(rl.done)
	rl.cleanupTick.Stop()
}
