package events

import (
	"testing"
	"time"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartEvent(user string) *models.CartUpdatedEvent {
	return &models.CartUpdatedEvent{
		BaseEvent: NewBase(models.EventTypeCartUpdated, time.Now()),
		UserID:    user,
	}
}

func TestBusFanOut(t *testing.T) {
	bus := NewBus()
	a, cancelA := bus.Subscribe(4)
	defer cancelA()
	b, cancelB := bus.Subscribe(4)
	defer cancelB()

	bus.Publish(cartEvent("u1"))

	for _, ch := range []<-chan models.Event{a, b} {
		select {
		case ev := <-ch:
			assert.Equal(t, models.EventTypeCartUpdated, ev.Base().EventType)
			assert.Equal(t, "u1", ev.(*models.CartUpdatedEvent).UserID)
		default:
			t.Fatal("expected event")
		}
	}
}

func TestBusDropsWhenSubscriberIsFull(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(1)
	defer cancel()

	bus.Publish(cartEvent("first"))
	bus.Publish(cartEvent("second"))

	ev := <-ch
	assert.Equal(t, "first", ev.(*models.CartUpdatedEvent).UserID)
	assert.Len(t, ch, 0)
}

func TestBusCancelIsIdempotent(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(1)

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// publishing after cancel must not panic on the closed channel
	bus.Publish(cartEvent("late"))
}

func TestRecorderOfType(t *testing.T) {
	var r Recorder
	r.Publish(cartEvent("u1"))
	r.Publish(&models.WishlistUpdatedEvent{BaseEvent: NewBase(models.EventTypeWishlistUpdated, time.Now())})

	require.Len(t, r.Events(), 2)
	assert.Len(t, r.OfType(models.EventTypeCartUpdated), 1)
	assert.Empty(t, r.OfType(models.EventTypeOrderPlaced))
}
