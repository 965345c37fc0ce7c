// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Common event types
const (
	PadConnected    Type = "pad_connected"
	PadDisconnected Type = "pad_disconnected"
	TargetCollected Type = "target_collected"
	TargetSpawned   Type = "target_spawned"
	GameStarted     Type = "game_started"
	GameEnded       Type = "game_ended"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler so it can be removed later.
type Subscription uint64

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type]map[Subscription]Handler
	nextSub  Subscription
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type]map[Subscription]Handler),
	}
}

// Subscribe registers a handler for a specific event type and returns a
// subscription token for later removal.
func (b *Bus) Subscribe(eventType Type, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextSub++
	sub := b.nextSub
	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make(map[Subscription]Handler)
	}
	b.handlers[eventType][sub] = handler
	return sub
}

// Unsubscribe removes a previously registered handler. After Unsubscribe
// returns, the handler will not be invoked for new events.
func (b *Bus) Unsubscribe(eventType Type, sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if handlers, ok := b.handlers[eventType]; ok {
		delete(handlers, sub)
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	registered := b.handlers[event.GetType()]
	handlers := make([]Handler, 0, len(registered))
	for _, h := range registered {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}
