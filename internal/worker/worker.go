package worker

import (
	"context"
	"errors"
	"time"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/service"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

const forwardTimeout = 5 * time.Second

// EventSink receives domain events from the forwarder. broker.EventPublisher satisfies it.
type EventSink interface {
	Publish(ctx context.Context, event models.Event) error
}

// EventForwarder copies events from the in-process bus to the broker
type EventForwarder struct {
	events <-chan models.Event
	cancel func()
	sink   EventSink
	logger *zap.Logger
}

// NewEventForwarder creates a forwarder over a bus subscription. cancel ends the subscription.
func NewEventForwarder(events <-chan models.Event, cancel func(), sink EventSink) *EventForwarder {
	return &EventForwarder{
		events: events,
		cancel: cancel,
		sink:   sink,
		logger: util.Named("worker.forwarder"),
	}
}

// Start forwards events until ctx is done or the subscription is closed.
// A failed send is logged and counted; the event is not retried.
func (f *EventForwarder) Start(ctx context.Context) error {
	f.logger.Info("Starting event forwarder")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-f.events:
			if !ok {
				return nil
			}
			f.forward(ctx, event)
		}
	}
}

func (f *EventForwarder) forward(ctx context.Context, event models.Event) {
	eventType := event.Base().EventType

	sendCtx, cancel := context.WithTimeout(ctx, forwardTimeout)
	defer cancel()

	if err := f.sink.Publish(sendCtx, event); err != nil {
		util.EventsForwardedTotal.WithLabelValues(eventType, "error").Inc()
		f.logger.Error("Failed to forward event",
			zap.String("event_type", eventType),
			zap.String("event_id", event.Base().EventID),
			zap.Error(err))
		return
	}
	util.EventsForwardedTotal.WithLabelValues(eventType, "ok").Inc()
}

// Stop ends the bus subscription
func (f *EventForwarder) Stop() {
	f.logger.Info("Stopping event forwarder")
	f.cancel()
}

// OrderCanceller is the part of the order service the command worker drives
type OrderCanceller interface {
	Cancel(ctx context.Context, id, reason string) (*models.Order, error)
}

// CommandWorker applies operator commands received from the broker
type CommandWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewCommandWorker creates a new command worker
func NewCommandWorker(consumer *broker.Consumer, orders OrderCanceller) *CommandWorker {
	w := &CommandWorker{
		consumer: consumer,
		logger:   util.Named("worker.commands"),
	}
	w.eventHandler = NewCommandHandler(orders, w.logger)
	return w
}

// NewCommandHandler builds the broker routing for operator commands
func NewCommandHandler(orders OrderCanceller, logger *zap.Logger) *broker.EventHandler {
	handler := broker.NewEventHandler()
	handler.OnCancelOrderRequested(func(ctx context.Context, cmd *models.CancelOrderRequestedEvent) error {
		_, err := orders.Cancel(ctx, cmd.OrderID, cmd.Reason)
		switch {
		case err == nil:
			logger.Info("Order cancelled by operator", zap.String("order_id", cmd.OrderID))
			return nil
		case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrOrderDelivered):
			// nothing to retry, commit the message
			logger.Warn("Ignoring cancel command",
				zap.String("order_id", cmd.OrderID),
				zap.Error(err))
			return nil
		}
		return err
	})
	return handler
}

// Start starts the worker
func (w *CommandWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting command worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *CommandWorker) Stop() error {
	w.logger.Info("Stopping command worker")
	return w.consumer.Close()
}
