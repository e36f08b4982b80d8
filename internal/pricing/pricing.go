// Package pricing derives cart and order amounts from cart lines.
package pricing

import (
	"storefront-service/internal/models"

	"github.com/shopspring/decimal"
)

var (
	// FreeDeliveryThreshold must be strictly exceeded for delivery to be free
	FreeDeliveryThreshold = decimal.NewFromInt(500)
	// FlatDeliveryFee is charged at or below the threshold
	FlatDeliveryFee = decimal.NewFromInt(40)
)

// Totals is the derived pricing of a cart snapshot
type Totals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	DeliveryFee  decimal.Decimal `json:"delivery_fee"`
	PayableTotal decimal.Decimal `json:"payable_total"`
}

// OrderAmounts is the pricing stamped onto an order at checkout
type OrderAmounts struct {
	TotalAmount decimal.Decimal
	DeliveryFee decimal.Decimal
	Discount    decimal.Decimal
	FinalAmount decimal.Decimal
}

// Subtotal sums the line totals
func Subtotal(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// DeliveryFee returns the fee owed for a given subtotal
func DeliveryFee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return FlatDeliveryFee
}

// ComputeTotals prices a cart. An empty cart still owes the flat delivery fee.
func ComputeTotals(lines []models.CartLine) Totals {
	subtotal := Subtotal(lines)
	fee := DeliveryFee(subtotal)
	return Totals{
		Subtotal:     subtotal,
		DeliveryFee:  fee,
		PayableTotal: subtotal.Add(fee),
	}
}

// ComputeOrderAmounts prices an order. Discount is reserved and currently always zero.
func ComputeOrderAmounts(lines []models.CartLine) OrderAmounts {
	t := ComputeTotals(lines)
	discount := decimal.Zero
	return OrderAmounts{
		TotalAmount: t.Subtotal,
		DeliveryFee: t.DeliveryFee,
		Discount:    discount,
		FinalAmount: t.Subtotal.Add(t.DeliveryFee).Sub(discount),
	}
}

// ItemCount sums quantities across lines
func ItemCount(lines []models.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
