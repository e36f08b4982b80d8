package service

import (
	"context"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// CheckoutRequest represents a checkout of the user's current cart
type CheckoutRequest struct {
	UserID string
	// Address is used as-is when set. Otherwise AddressID selects a saved address,
	// and with neither the profile's default address is used.
	Address        *models.Address
	AddressID      string
	PaymentMethod  models.PaymentMethod
	Notes          string
	IdempotencyKey string
}

// CheckoutService turns a cart into an order
type CheckoutService struct {
	carts    *CartService
	orders   *OrderService
	profiles *ProfileService
	logger   *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(carts *CartService, orders *OrderService, profiles *ProfileService) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		orders:   orders,
		profiles: profiles,
		logger:   util.Named("checkout"),
	}
}

// Checkout places an order for a snapshot of the user's cart. Once the order exists the
// ordered quantities are taken out of the cart; anything added meanwhile stays.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Checkout")
	defer span.End()

	if existing, ok := s.orders.FindByIdempotencyKey(req.IdempotencyKey); ok {
		return existing, nil
	}

	userID := normalizeUser(req.UserID)
	lines := s.carts.Lines(ctx, userID)
	if len(lines) == 0 {
		util.OrdersRejectedTotal.WithLabelValues("empty").Inc()
		return nil, ErrEmptyOrder
	}

	address, err := s.resolveAddress(ctx, userID, req)
	if err != nil {
		util.OrdersRejectedTotal.WithLabelValues("address").Inc()
		return nil, err
	}

	order, err := s.orders.PlaceOrder(ctx, PlaceOrderRequest{
		UserID:         userID,
		Lines:          lines,
		Address:        address,
		PaymentMethod:  req.PaymentMethod,
		Notes:          req.Notes,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	s.carts.RemoveLines(ctx, userID, lines)
	s.logger.Info("Checkout completed",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID))
	return order, nil
}

func (s *CheckoutService) resolveAddress(ctx context.Context, userID string, req CheckoutRequest) (models.Address, error) {
	if req.Address != nil {
		if !addressComplete(*req.Address) {
			return models.Address{}, ErrInvalidAddress
		}
		return *req.Address, nil
	}

	user, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return models.Address{}, ErrNoDeliveryAddress
	}

	if req.AddressID != "" {
		for _, a := range user.Addresses {
			if a.ID == req.AddressID {
				return a, nil
			}
		}
		return models.Address{}, ErrNoDeliveryAddress
	}

	if a, ok := user.DefaultAddress(); ok {
		return a, nil
	}
	return models.Address{}, ErrNoDeliveryAddress
}
