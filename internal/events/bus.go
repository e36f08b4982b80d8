// Package events is the in-process publish/subscribe channel for domain events.
package events

import (
	"sync"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/google/uuid"
)

// Publisher accepts domain events
type Publisher interface {
	Publish(event models.Event)
}

// Bus fans events out to subscribers without ever blocking the publisher
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan models.Event
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan models.Event)}
}

// Publish delivers event to every subscriber with room in its buffer
func (b *Bus) Publish(event models.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
			util.EventsDroppedTotal.Inc()
		}
	}
}

// Subscribe registers a subscriber. cancel unregisters it and closes the channel; it is idempotent.
func (b *Bus) Subscribe(buffer int) (<-chan models.Event, func()) {
	ch := make(chan models.Event, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// NewBase stamps a fresh event header
func NewBase(eventType string, now time.Time) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: now,
	}
}

// Recorder collects published events; useful where a Publisher is required but nothing listens
type Recorder struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *Recorder) Publish(event models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns the events recorded so far
func (r *Recorder) Events() []models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Event(nil), r.events...)
}

// OfType returns the recorded events with the given event type
func (r *Recorder) OfType(eventType string) []models.Event {
	var out []models.Event
	for _, e := range r.Events() {
		if e.Base().EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}
