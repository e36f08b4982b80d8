package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront-service/internal/events"
	"storefront-service/internal/models"
	"storefront-service/internal/pricing"
	"storefront-service/internal/schedule"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderConfig holds the order lifecycle policy
type OrderConfig struct {
	// TrackingInterval is the time between automatic status transitions
	TrackingInterval time.Duration
	// DeliveryETA is added to the order time for the estimated delivery
	DeliveryETA time.Duration
	// AllowCancelAfterDelivery lets Cancel overwrite a delivered order
	AllowCancelAfterDelivery bool
}

// DefaultOrderConfig returns the standard lifecycle policy
func DefaultOrderConfig() OrderConfig {
	return OrderConfig{
		TrackingInterval: 30 * time.Second,
		DeliveryETA:      time.Hour,
	}
}

// OrderService places orders, keeps order history and drives each order through its
// delivery lifecycle. All order state is guarded by one mutex; callers get copies.
type OrderService struct {
	store     *store.Store
	writer    *store.Writer
	events    events.Publisher
	scheduler schedule.Scheduler
	cfg       OrderConfig
	logger    *zap.Logger

	mu       sync.Mutex
	history  []*models.Order // most recent first
	byID     map[string]*models.Order
	byKey    map[string]string
	trackers map[string]*tracker
}

type tracker struct {
	handle schedule.Handle
}

// NewOrderService creates a new order service. Non-positive durations in cfg take their defaults.
func NewOrderService(st *store.Store, writer *store.Writer, pub events.Publisher, scheduler schedule.Scheduler, cfg OrderConfig) *OrderService {
	defaults := DefaultOrderConfig()
	if cfg.TrackingInterval <= 0 {
		cfg.TrackingInterval = defaults.TrackingInterval
	}
	if cfg.DeliveryETA <= 0 {
		cfg.DeliveryETA = defaults.DeliveryETA
	}

	return &OrderService{
		store:     st,
		writer:    writer,
		events:    pub,
		scheduler: scheduler,
		cfg:       cfg,
		logger:    util.Named("orders"),
		byID:      make(map[string]*models.Order),
		byKey:     make(map[string]string),
		trackers:  make(map[string]*tracker),
	}
}

// PlaceOrderRequest represents a request to place an order
type PlaceOrderRequest struct {
	UserID         string
	Lines          []models.CartLine
	Address        models.Address
	PaymentMethod  models.PaymentMethod
	Notes          string
	IdempotencyKey string
}

// PlaceOrder creates an order in the placed state from a snapshot of the lines and starts tracking it.
// A repeated idempotency key returns the order created the first time.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*models.Order, error) {
	_, span := util.StartSpan(ctx, "OrderService.PlaceOrder")
	defer span.End()

	if len(req.Lines) == 0 {
		util.OrdersRejectedTotal.WithLabelValues("empty").Inc()
		return nil, ErrEmptyOrder
	}
	for _, l := range req.Lines {
		if l.Quantity < 1 || l.Quantity > MaxLineQuantity {
			util.OrdersRejectedTotal.WithLabelValues("invalid_quantity").Inc()
			return nil, fmt.Errorf("%w: product %s", ErrInvalidQuantity, l.Product.ID)
		}
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentMethodCard
	}
	if !req.PaymentMethod.Valid() {
		util.OrdersRejectedTotal.WithLabelValues("payment_method").Inc()
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, req.PaymentMethod)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.IdempotencyKey != "" {
		if id, ok := s.byKey[req.IdempotencyKey]; ok {
			s.logger.Info("Duplicate order request detected",
				zap.String("idempotency_key", req.IdempotencyKey),
				zap.String("order_id", id))
			return s.byID[id].Clone(), nil
		}
	}

	lines := models.CloneLines(req.Lines)
	amounts := pricing.ComputeOrderAmounts(lines)
	now := s.scheduler.Now()

	order := &models.Order{
		ID:                    uuid.New().String(),
		UserID:                normalizeUser(req.UserID),
		Items:                 lines,
		TotalAmount:           amounts.TotalAmount,
		DeliveryFee:           amounts.DeliveryFee,
		Discount:              amounts.Discount,
		FinalAmount:           amounts.FinalAmount,
		Status:                models.OrderStatusPlaced,
		DeliveryAddress:       req.Address,
		OrderDate:             now,
		EstimatedDeliveryTime: now.Add(s.cfg.DeliveryETA),
		PaymentMethod:         req.PaymentMethod,
		Notes:                 req.Notes,
		IdempotencyKey:        req.IdempotencyKey,
	}

	s.history = append([]*models.Order{order}, s.history...)
	s.byID[order.ID] = order
	if order.IdempotencyKey != "" {
		s.byKey[order.IdempotencyKey] = order.ID
	}

	s.persistLocked(order)

	items := make([]models.OrderItemData, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItemData{
			ProductID: l.Product.ID,
			Quantity:  l.Quantity,
			UnitPrice: l.Product.Price,
		})
	}
	s.events.Publish(&models.OrderPlacedEvent{
		BaseEvent:   events.NewBase(models.EventTypeOrderPlaced, now),
		OrderID:     order.ID,
		UserID:      order.UserID,
		FinalAmount: order.FinalAmount,
		Items:       items,
	})

	s.startTrackingLocked(order.ID)

	util.OrdersPlacedTotal.Inc()
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.String("final_amount", order.FinalAmount.StringFixed(2)))

	return order.Clone(), nil
}

// GetOrder returns a copy of an order; found is false when it does not exist
func (s *OrderService) GetOrder(id string) (*models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return order.Clone(), true
}

// FindByIdempotencyKey returns the order placed with key, if any
func (s *OrderService) FindByIdempotencyKey(key string) (*models.Order, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byKey[key]
	if !ok {
		return nil, false
	}
	return s.byID[id].Clone(), true
}

// ListOrders returns a user's orders, most recent first. An empty userID lists every order.
func (s *OrderService) ListOrders(userID string) []*models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Order, 0)
	for _, o := range s.history {
		if userID == "" || o.UserID == userID {
			out = append(out, o.Clone())
		}
	}
	return out
}

// Cancel moves an order to cancelled and stops its tracking.
// Cancelling a cancelled order changes nothing. A delivered order is rejected
// with ErrOrderDelivered unless AllowCancelAfterDelivery is set.
func (s *OrderService) Cancel(ctx context.Context, id, reason string) (*models.Order, error) {
	_, span := util.StartSpan(ctx, "OrderService.Cancel")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.byID[id]
	if !ok {
		return nil, ErrOrderNotFound
	}

	switch order.Status {
	case models.OrderStatusCancelled:
		return order.Clone(), nil
	case models.OrderStatusDelivered:
		if !s.cfg.AllowCancelAfterDelivery {
			return nil, ErrOrderDelivered
		}
	}

	from := order.Status
	order.Status = models.OrderStatusCancelled
	s.stopTrackingLocked(id)
	s.persistLocked(order)

	s.events.Publish(&models.OrderCancelledEvent{
		BaseEvent: events.NewBase(models.EventTypeOrderCancelled, s.scheduler.Now()),
		OrderID:   order.ID,
		UserID:    order.UserID,
		From:      from,
		Reason:    reason,
	})

	util.OrdersCancelledTotal.Inc()
	s.logger.Info("Order cancelled",
		zap.String("order_id", id),
		zap.String("from", string(from)),
		zap.String("reason", reason))

	return order.Clone(), nil
}

// StartTracking starts the status driver for an order, replacing any driver already running for it.
// Orders in a terminal state are not tracked.
func (s *OrderService) StartTracking(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return ErrOrderNotFound
	}
	s.startTrackingLocked(id)
	return nil
}

// IsTracking reports whether an order has a running status driver
func (s *OrderService) IsTracking(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.trackers[id]
	return ok
}

// Restore loads order history from the store and resumes tracking every order not yet in a terminal state
func (s *OrderService) Restore(ctx context.Context) error {
	stored, err := s.store.LoadOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	restored := 0
	for i := range stored {
		o := stored[i]
		if _, ok := s.byID[o.ID]; ok {
			continue
		}
		s.history = append(s.history, &o)
		s.byID[o.ID] = &o
		if o.IdempotencyKey != "" {
			s.byKey[o.IdempotencyKey] = o.ID
		}
		restored++
	}

	sort.SliceStable(s.history, func(i, j int) bool {
		return s.history[i].OrderDate.After(s.history[j].OrderDate)
	})

	resumed := 0
	for _, o := range s.history {
		if o.Status.IsTerminal() {
			continue
		}
		if _, ok := s.trackers[o.ID]; ok {
			continue
		}
		s.startTrackingLocked(o.ID)
		resumed++
	}

	s.logger.Info("Order history restored",
		zap.Int("restored", restored),
		zap.Int("tracking", resumed))
	return nil
}

// Shutdown stops every status driver
func (s *OrderService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.trackers {
		s.stopTrackingLocked(id)
	}
}

func (s *OrderService) startTrackingLocked(id string) {
	s.stopTrackingLocked(id)

	if s.byID[id].Status.IsTerminal() {
		return
	}

	t := &tracker{}
	t.handle = s.scheduler.Every(s.cfg.TrackingInterval, func() { s.tick(id, t) })
	s.trackers[id] = t
	util.ActiveOrderTrackers.Inc()
}

func (s *OrderService) stopTrackingLocked(id string) {
	t, ok := s.trackers[id]
	if !ok {
		return
	}
	t.handle.Stop()
	delete(s.trackers, id)
	util.ActiveOrderTrackers.Dec()
}

// tick advances one order by a single status. A tick from a replaced or stopped driver does nothing.
func (s *OrderService) tick(id string, t *tracker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.trackers[id] != t {
		return
	}

	order := s.byID[id]
	next, ok := order.Status.Next()
	if !ok {
		s.stopTrackingLocked(id)
		return
	}

	from := order.Status
	now := s.scheduler.Now()
	order.Status = next
	if next == models.OrderStatusDelivered {
		order.ActualDeliveryTime = &now
	}

	s.persistLocked(order)
	s.events.Publish(&models.OrderStatusChangedEvent{
		BaseEvent: events.NewBase(models.EventTypeOrderStatusChanged, now),
		OrderID:   order.ID,
		UserID:    order.UserID,
		From:      from,
		To:        next,
	})
	util.OrderStatusTransitionsTotal.WithLabelValues(string(next)).Inc()

	s.logger.Debug("Order status advanced",
		zap.String("order_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(next)))

	if next.IsTerminal() {
		s.stopTrackingLocked(id)
	}
}

// persistLocked queues a snapshot of order for saving. The in-memory order stays authoritative.
func (s *OrderService) persistLocked(order *models.Order) {
	snapshot := order.Clone()
	s.writer.Enqueue("save_order", func(ctx context.Context) error {
		return s.store.SaveOrder(ctx, snapshot)
	})
}
