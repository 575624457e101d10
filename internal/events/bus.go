package events

import (
	"sync"
	"time"
)

// Handler receives published events. Handlers run on the publisher's
// goroutine and must not block.
type Handler func(event *Event)

// SubscriptionID identifies a handler registration
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Bus is a synchronous publish/subscribe hub
type Bus struct {
	mu       sync.RWMutex
	nextID   SubscriptionID
	handlers map[EventType][]subscription
}

// NewBus creates an empty event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]subscription),
	}
}

// Subscribe registers a handler for one event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})
	return id
}

// Unsubscribe removes a handler registration. Unknown IDs are ignored.
func (b *Bus) Unsubscribe(id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.handlers {
		for i, s := range subs {
			if s.id != id {
				continue
			}
			b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
			if len(b.handlers[eventType]) == 0 {
				delete(b.handlers, eventType)
			}
			return
		}
	}
}

// Emit publishes an event to every handler subscribed to its type
func (b *Bus) Emit(eventType EventType, module string, data map[string]interface{}) {
	event := &Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
		Module:    module,
	}

	b.mu.RLock()
	subs := make([]subscription, len(b.handlers[eventType]))
	copy(subs, b.handlers[eventType])
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// SubscriberCount returns the number of handlers for an event type
func (b *Bus) SubscriberCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}
