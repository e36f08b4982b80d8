package service

import (
	"context"
	"testing"
	"time"

	"storefront-service/internal/events"
	"storefront-service/internal/models"
	"storefront-service/internal/schedule"
	"storefront-service/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

type fakeCatalog map[string]models.Product

func (c fakeCatalog) Get(id string) (models.Product, bool) {
	p, ok := c[id]
	return p, ok
}

func testProduct(id, price string) models.Product {
	return models.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    decimal.RequireFromString(price),
		Category: "Pantry Staples",
		InStock:  true,
	}
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(userID string) (string, error) { return "token-" + userID, nil }

type testEnv struct {
	ctx      context.Context
	store    *store.Store
	writer   *store.Writer
	events   *events.Recorder
	clock    *schedule.Manual
	catalog  fakeCatalog
	carts    *CartService
	wishlist *WishlistService
	orders   *OrderService
	profiles *ProfileService
	checkout *CheckoutService
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithConfig(t, DefaultOrderConfig())
}

func newTestEnvWithConfig(t *testing.T, cfg OrderConfig) *testEnv {
	t.Helper()

	env := &testEnv{
		ctx:    context.Background(),
		store:  store.New(store.NewMemory()),
		events: &events.Recorder{},
		clock:  schedule.NewManual(testStart),
		catalog: fakeCatalog{
			"rice":  testProduct("rice", "185"),
			"milk":  testProduct("milk", "28"),
			"chips": testProduct("chips", "20"),
		},
	}
	env.writer = store.NewWriter(64, time.Second, NewStorageFailureReporter(env.events, env.clock))
	t.Cleanup(env.writer.Close)

	env.carts = NewCartService(env.store, env.writer, env.events, env.catalog, env.clock)
	env.wishlist = NewWishlistService(env.store, env.writer, env.events, env.catalog, env.clock)
	env.orders = NewOrderService(env.store, env.writer, env.events, env.clock, cfg)
	env.profiles = NewProfileService(env.store, env.writer, fakeIssuer{}, env.clock, ProfileConfig{
		DemoEmail:    "testuser@grocio.com",
		DemoPassword: "123456",
		DemoName:     "Test User",
		DemoPhone:    "+91 9876543210",
	})
	env.checkout = NewCheckoutService(env.carts, env.orders, env.profiles)
	t.Cleanup(env.orders.Shutdown)
	return env
}

func (e *testEnv) line(id string, qty int) models.CartLine {
	return models.CartLine{Product: e.catalog[id], Quantity: qty}
}

func testAddress() models.Address {
	return models.Address{Street: "12 MG Road", City: "Bengaluru", State: "KA", ZipCode: "560001"}
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}
