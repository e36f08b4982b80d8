package models

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPacked    OrderStatus = "packed"
	OrderStatusOnTheWay  OrderStatus = "on_the_way"
	OrderStatusDelivered OrderStatus = "delivered"
	// Cancelled is only reached through an explicit cancellation, never by tracking
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Next returns the status that follows s in the delivery sequence.
// ok is false for terminal states.
func (s OrderStatus) Next() (next OrderStatus, ok bool) {
	switch s {
	case OrderStatusPlaced:
		return OrderStatusConfirmed, true
	case OrderStatusConfirmed:
		return OrderStatusPacked, true
	case OrderStatusPacked:
		return OrderStatusOnTheWay, true
	case OrderStatusOnTheWay:
		return OrderStatusDelivered, true
	}
	return "", false
}

// IsTerminal reports whether no automatic transition leaves s
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) DisplayName() string {
	switch s {
	case OrderStatusPlaced:
		return "Order Placed"
	case OrderStatusConfirmed:
		return "Confirmed"
	case OrderStatusPacked:
		return "Packed"
	case OrderStatusOnTheWay:
		return "On the Way"
	case OrderStatusDelivered:
		return "Delivered"
	case OrderStatusCancelled:
		return "Cancelled"
	}
	return string(s)
}
