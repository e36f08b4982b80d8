package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// GuestUserID identifies unauthenticated sessions
const GuestUserID = "guest"

// Product represents a product in the catalog
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	ImageURL      string           `json:"image_url"`
	Category      string           `json:"category"`
	Subcategory   string           `json:"subcategory,omitempty"`
	Unit          string           `json:"unit"`
	Brand         string           `json:"brand,omitempty"`
	Rating        float64          `json:"rating"`
	ReviewCount   int              `json:"review_count"`
	InStock       bool             `json:"in_stock"`
	Tags          []string         `json:"tags"`
	CreatedAt     time.Time        `json:"created_at"`
}

// DiscountPercentage returns the whole-percent markdown from the original price.
// ok is false when there is no original price or it is not above the current price.
func (p Product) DiscountPercentage() (pct int, ok bool) {
	if p.OriginalPrice == nil || !p.OriginalPrice.GreaterThan(p.Price) {
		return 0, false
	}
	off := p.OriginalPrice.Sub(p.Price).Div(*p.OriginalPrice).Mul(decimal.NewFromInt(100))
	return int(off.IntPart()), true
}

// Clone returns a copy that shares no mutable state with p
func (p Product) Clone() Product {
	c := p
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		c.OriginalPrice = &op
	}
	if p.Tags != nil {
		c.Tags = append([]string(nil), p.Tags...)
	}
	return c
}

// Category groups products for browsing
type Category struct {
	Name          string   `json:"name"`
	Icon          string   `json:"icon"`
	Color         string   `json:"color"`
	Subcategories []string `json:"subcategories"`
}

// CartLine is a product and the quantity of it in a cart
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal is price × quantity
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CloneLines snapshots a list of cart lines
func CloneLines(lines []CartLine) []CartLine {
	out := make([]CartLine, len(lines))
	for i, l := range lines {
		out[i] = CartLine{Product: l.Product.Clone(), Quantity: l.Quantity}
	}
	return out
}

// Address represents a delivery address
type Address struct {
	ID        string `json:"id"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	IsDefault bool   `json:"is_default"`
}

// FullAddress renders the address on one line
func (a Address) FullAddress() string {
	return fmt.Sprintf("%s, %s, %s %s", a.Street, a.City, a.State, a.ZipCode)
}

// PaymentMethod is how an order is paid for
type PaymentMethod string

// Payment methods
const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodUPI  PaymentMethod = "upi"
	PaymentMethodCash PaymentMethod = "cash"
)

// Valid reports whether m is a known payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodUPI, PaymentMethodCash:
		return true
	}
	return false
}

func (m PaymentMethod) DisplayName() string {
	switch m {
	case PaymentMethodCard:
		return "Credit/Debit Card"
	case PaymentMethodUPI:
		return "UPI"
	case PaymentMethodCash:
		return "Cash on Delivery"
	}
	return string(m)
}

// Order represents a placed customer order
type Order struct {
	ID                    string          `json:"id"`
	UserID                string          `json:"user_id"`
	Items                 []CartLine      `json:"items"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	DeliveryFee           decimal.Decimal `json:"delivery_fee"`
	Discount              decimal.Decimal `json:"discount"`
	FinalAmount           decimal.Decimal `json:"final_amount"`
	Status                OrderStatus     `json:"status"`
	DeliveryAddress       Address         `json:"delivery_address"`
	OrderDate             time.Time       `json:"order_date"`
	EstimatedDeliveryTime time.Time       `json:"estimated_delivery_time"`
	ActualDeliveryTime    *time.Time      `json:"actual_delivery_time,omitempty"`
	PaymentMethod         PaymentMethod   `json:"payment_method"`
	Notes                 string          `json:"notes,omitempty"`
	IdempotencyKey        string          `json:"idempotency_key,omitempty"`
}

// Clone returns a deep copy of the order
func (o *Order) Clone() *Order {
	c := *o
	c.Items = CloneLines(o.Items)
	if o.ActualDeliveryTime != nil {
		t := *o.ActualDeliveryTime
		c.ActualDeliveryTime = &t
	}
	return &c
}

// User represents a storefront customer profile
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Addresses   []Address `json:"addresses"`
	CreatedAt   time.Time `json:"created_at"`
}

// DefaultAddress returns the address flagged as default, falling back to the first one
func (u *User) DefaultAddress() (Address, bool) {
	for _, a := range u.Addresses {
		if a.IsDefault {
			return a, true
		}
	}
	if len(u.Addresses) > 0 {
		return u.Addresses[0], true
	}
	return Address{}, false
}
