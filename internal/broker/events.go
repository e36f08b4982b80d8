package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Transport delivers one keyed event to a broker. Producer and RabbitPublisher implement it.
type Transport interface {
	PublishEvent(ctx context.Context, key string, event models.Event) error
	Close() error
}

// EventKey returns the partition key for an event: order-<id> for order events,
// user-<id> for cart and wishlist events, otherwise the event type.
func EventKey(event models.Event) string {
	switch e := event.(type) {
	case *models.OrderPlacedEvent:
		return "order-" + e.OrderID
	case *models.OrderStatusChangedEvent:
		return "order-" + e.OrderID
	case *models.OrderCancelledEvent:
		return "order-" + e.OrderID
	case *models.CancelOrderRequestedEvent:
		return "order-" + e.OrderID
	case *models.CartUpdatedEvent:
		return "user-" + e.UserID
	case *models.WishlistUpdatedEvent:
		return "user-" + e.UserID
	}
	return event.Base().EventType
}

// EventPublisher handles publishing domain events
type EventPublisher struct {
	transport Transport
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(transport Transport) *EventPublisher {
	return &EventPublisher{transport: transport}
}

// Publish sends event keyed by EventKey
func (ep *EventPublisher) Publish(ctx context.Context, event models.Event) error {
	return ep.transport.PublishEvent(ctx, EventKey(event), event)
}

func (ep *EventPublisher) Close() error {
	return ep.transport.Close()
}

// EventHandler routes inbound broker messages
type EventHandler struct {
	onCancelOrderRequested func(context.Context, *models.CancelOrderRequestedEvent) error
	logger                 *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.Named("broker.handler")}
}

// OnCancelOrderRequested registers a handler for CancelOrderRequested commands
func (eh *EventHandler) OnCancelOrderRequested(handler func(context.Context, *models.CancelOrderRequestedEvent) error) {
	eh.onCancelOrderRequested = handler
}

// HandleMessage routes a Kafka message by its event type
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	return eh.Handle(ctx, msg.Value)
}

// Handle routes an encoded event by its event type. Unknown types are logged and skipped.
func (eh *EventHandler) Handle(ctx context.Context, body []byte) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(body, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Info("Handling event",
		zap.String("event_type", baseEvent.EventType),
		zap.String("event_id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeCancelOrderRequested:
		if eh.onCancelOrderRequested != nil {
			var event models.CancelOrderRequestedEvent
			if err := json.Unmarshal(body, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CancelOrderRequested event: %w", err)
			}
			return eh.onCancelOrderRequested(ctx, &event)
		}

	default:
		eh.logger.Warn("Unhandled event type", zap.String("event_type", baseEvent.EventType))
	}

	return nil
}
