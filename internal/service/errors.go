package service

import "errors"

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrEmptyOrder           = errors.New("order has no items")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
	ErrOrderNotFound        = errors.New("order not found")
	// ErrOrderDelivered rejects cancelling an order that has already been delivered
	ErrOrderDelivered     = errors.New("order already delivered")
	ErrNoDeliveryAddress  = errors.New("no delivery address")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidAddress     = errors.New("address is incomplete")
)
