package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeOrderPlaced          = "ORDER_PLACED"
	EventTypeOrderStatusChanged   = "ORDER_STATUS_CHANGED"
	EventTypeOrderCancelled       = "ORDER_CANCELLED"
	EventTypeCartUpdated          = "CART_UPDATED"
	EventTypeWishlistUpdated      = "WISHLIST_UPDATED"
	EventTypeStorageWriteFailed   = "STORAGE_WRITE_FAILED"
	EventTypeCancelOrderRequested = "CANCEL_ORDER_REQUESTED"
)

// Event is implemented by every domain event through the embedded BaseEvent
type Event interface {
	Base() BaseEvent
}

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

func (b BaseEvent) Base() BaseEvent { return b }

// OrderPlacedEvent published when checkout creates an order
type OrderPlacedEvent struct {
	BaseEvent
	OrderID     string          `json:"order_id"`
	UserID      string          `json:"user_id"`
	FinalAmount decimal.Decimal `json:"final_amount"`
	Items       []OrderItemData `json:"items"`
}

// OrderStatusChangedEvent published on every tracking transition
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID string      `json:"order_id"`
	UserID  string      `json:"user_id"`
	From    OrderStatus `json:"from"`
	To      OrderStatus `json:"to"`
}

// OrderCancelledEvent published when an order is cancelled
type OrderCancelledEvent struct {
	BaseEvent
	OrderID string      `json:"order_id"`
	UserID  string      `json:"user_id"`
	From    OrderStatus `json:"from"`
	Reason  string      `json:"reason,omitempty"`
}

// CartUpdatedEvent published after any cart mutation
type CartUpdatedEvent struct {
	BaseEvent
	UserID    string          `json:"user_id"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// WishlistUpdatedEvent published after any wishlist mutation
type WishlistUpdatedEvent struct {
	BaseEvent
	UserID     string   `json:"user_id"`
	ProductIDs []string `json:"product_ids"`
}

// StorageWriteFailedEvent carries a user-visible message for a failed background write
type StorageWriteFailedEvent struct {
	BaseEvent
	Operation string `json:"operation"`
	Message   string `json:"message"`
}

// CancelOrderRequestedEvent is an operator command received from the broker
type CancelOrderRequestedEvent struct {
	BaseEvent
	OrderID string `json:"order_id"`
	Reason  string `json:"reason,omitempty"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}
