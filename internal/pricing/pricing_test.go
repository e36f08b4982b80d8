package pricing

import (
	"testing"

	"storefront-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(id, price string, qty int) models.CartLine {
	return models.CartLine{
		Product:  models.Product{ID: id, Price: decimal.RequireFromString(price)},
		Quantity: qty,
	}
}

func TestComputeTotals(t *testing.T) {
	lines := []models.CartLine{
		line("p1", "40", 2),
		line("p2", "120.50", 1),
		line("p3", "0.10", 3),
	}

	totals := ComputeTotals(lines)

	expected := decimal.RequireFromString("200.80") // 80 + 120.50 + 0.30
	assert.True(t, expected.Equal(totals.Subtotal), totals.Subtotal.String())
	assert.True(t, FlatDeliveryFee.Equal(totals.DeliveryFee))
	assert.True(t, decimal.RequireFromString("240.80").Equal(totals.PayableTotal))
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	totals := ComputeTotals(nil)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, decimal.NewFromInt(40).Equal(totals.DeliveryFee))
	assert.True(t, decimal.NewFromInt(40).Equal(totals.PayableTotal))
}

func TestDeliveryFeeThreshold(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		fee      string
	}{
		{"below threshold", "499.99", "40"},
		{"exactly threshold", "500.00", "40"},
		{"just above threshold", "500.01", "0"},
		{"well above threshold", "1200", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := ComputeTotals([]models.CartLine{line("p", tt.subtotal, 1)})
			assert.True(t, decimal.RequireFromString(tt.fee).Equal(totals.DeliveryFee), totals.DeliveryFee.String())
		})
	}
}

func TestComputeOrderAmounts(t *testing.T) {
	amounts := ComputeOrderAmounts([]models.CartLine{line("p1", "250", 2), line("p2", "0.01", 1)})

	assert.True(t, decimal.RequireFromString("500.01").Equal(amounts.TotalAmount))
	assert.True(t, amounts.DeliveryFee.IsZero())
	assert.True(t, amounts.Discount.IsZero())
	assert.True(t, amounts.TotalAmount.Equal(amounts.FinalAmount))
}

func TestItemCount(t *testing.T) {
	assert.Equal(t, 0, ItemCount(nil))
	assert.Equal(t, 6, ItemCount([]models.CartLine{line("a", "1", 2), line("b", "1", 4)}))
}
