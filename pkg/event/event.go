// Package event is an in-process publish/subscribe bus for domain events
// such as "menu.created".
package event

import (
	"sync"

	"github.com/hostelmania/server/pkg/logger"
	"github.com/hostelmania/server/pkg/metrics"
)

// Wildcard subscribes a handler to every event type.
const Wildcard = "*"

// Event is one published occurrence.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Handler receives an event.
type Handler func(e Event)

// Bus dispatches events to listeners registered by type.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Listen registers handler for eventType, or for all events with Wildcard.
func (b *Bus) Listen(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Fire delivers the event synchronously to every listener.
func (b *Bus) Fire(eventType string, data any) {
	e := Event{Type: eventType, Data: data}
	metrics.EventsPublished.WithLabelValues(eventType).Inc()
	for _, h := range b.listeners(eventType) {
		safeCall(h, e)
	}
}

// FireAsync delivers the event on a new goroutine per listener and returns
// immediately.
func (b *Bus) FireAsync(eventType string, data any) {
	e := Event{Type: eventType, Data: data}
	metrics.EventsPublished.WithLabelValues(eventType).Inc()
	for _, h := range b.listeners(eventType) {
		go safeCall(h, e)
	}
}

// Flush removes all listeners.
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = map[string][]Handler{}
}

func (b *Bus) listeners(eventType string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	hs := make([]Handler, 0, len(b.handlers[eventType])+len(b.handlers[Wildcard]))
	hs = append(hs, b.handlers[eventType]...)
	hs = append(hs, b.handlers[Wildcard]...)
	return hs
}

func safeCall(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event: listener panicked", "type", e.Type, "panic", r)
		}
	}()
	h(e)
}
