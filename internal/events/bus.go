// Package events implements the observer surface: a typed, in-process
// publish/subscribe bus for model.Event, guarded the way the teacher guards
// its own shared state (a mutex around a plain map), with non-blocking
// delivery so a slow subscriber can never stall the Event Pump.
package events

import (
	"sync"

	"github.com/murmur/torrentcore/internal/model"
)

// Subscription is a handle to a live subscription; Unsubscribe stops
// delivery and closes the channel.
type Subscription struct {
	id     int
	bus    *Bus
	events chan model.Event
}

// Events returns the channel this subscription delivers on.
func (s *Subscription) Events() <-chan model.Event {
	return s.events
}

// Unsubscribe stops delivery and closes the channel. Safe to call more than
// once.
func (s *Subscription) Unsubscribe() {
	s.bus.unsubscribe(s.id)
}

// Bus fans a single published Event out to every live subscriber.
type Bus struct {
	mu        sync.RWMutex
	nextID    int
	observers map[int]chan model.Event
	logger    model.Logger
}

// NewBus constructs an empty Bus. With a nil logger, dropped events are not
// logged.
func NewBus(logger model.Logger) *Bus {
	return &Bus{
		observers: make(map[int]chan model.Event),
		logger:    logger,
	}
}

// Subscribe registers a new observer with a buffered channel of the given
// capacity (0 means unbuffered, which is rarely what a caller wants since
// Publish never blocks on a full channel — it drops instead).
func (b *Bus) Subscribe(bufferSize int) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan model.Event, bufferSize)
	b.observers[id] = ch

	return &Subscription{id: id, bus: b, events: ch}
}

func (b *Bus) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.observers[id]
	if !ok {
		return
	}
	delete(b.observers, id)
	close(ch)
}

// Publish fans ev out to every live subscriber. Delivery is non-blocking: a
// subscriber whose buffer is full misses the event rather than stalling the
// publisher, since the Event Pump that calls Publish must never block on a
// slow observer.
func (b *Bus) Publish(ev model.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.observers {
		select {
		case ch <- ev:
		default:
			if b.logger != nil {
				b.logger.Warn("observer channel full, dropping event")
			}
		}
	}
}

// Close unsubscribes and closes every observer's channel. Safe to call once
// at shutdown.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.observers {
		delete(b.observers, id)
		close(ch)
	}
}
