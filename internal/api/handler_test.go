package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-service/internal/catalog"
	"storefront-service/internal/events"
	"storefront-service/internal/identity"
	"storefront-service/internal/models"
	"storefront-service/internal/schedule"
	"storefront-service/internal/service"
	"storefront-service/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	milkID = "prd-006"
	riceID = "prd-012"
)

type testServer struct {
	router *gin.Engine
	clock  *schedule.Manual
	issuer *identity.Issuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := schedule.NewManual(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	bus := &events.Recorder{}
	st := store.New(store.NewMemory())
	writer := store.NewWriter(64, time.Second, service.NewStorageFailureReporter(bus, clock))
	t.Cleanup(writer.Close)

	cat := catalog.NewService(nil)
	issuer := identity.NewIssuer("test-secret", time.Hour)

	carts := service.NewCartService(st, writer, bus, cat, clock)
	wishlist := service.NewWishlistService(st, writer, bus, cat, clock)
	orders := service.NewOrderService(st, writer, bus, clock, service.DefaultOrderConfig())
	t.Cleanup(orders.Shutdown)
	profiles := service.NewProfileService(st, writer, issuer, clock, service.ProfileConfig{
		DemoEmail:    "testuser@grocio.com",
		DemoPassword: "123456",
		DemoName:     "Test User",
	})

	h := NewHandler(Services{
		Catalog:  cat,
		Carts:    carts,
		Wishlist: wishlist,
		Orders:   orders,
		Checkout: service.NewCheckoutService(carts, orders, profiles),
		Profiles: profiles,
		Resolver: identity.NewResolver("test-secret", true),
	})

	router := gin.New()
	h.SetupRoutes(router)
	return &testServer{router: router, clock: clock, issuer: issuer}
}

func (s *testServer) do(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf).WithContext(context.Background())
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProducts(t *testing.T) {
	s := newTestServer(t)

	var resp struct {
		Products []models.Product `json:"products"`
		Count    int              `json:"count"`
	}

	w := s.do(t, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Equal(t, len(catalog.SampleProducts()), resp.Count)

	w = s.do(t, http.MethodGet, "/api/v1/products?q=MILK", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp.Products)
	assert.Equal(t, "Amul Milk", resp.Products[0].Name)

	w = s.do(t, http.MethodGet, "/api/v1/products?category=Household", "", nil)
	decodeBody(t, w, &resp)
	assert.Equal(t, 2, resp.Count)

	w = s.do(t, http.MethodGet, "/api/v1/products?featured=3", "", nil)
	decodeBody(t, w, &resp)
	assert.Equal(t, 3, resp.Count)

	w = s.do(t, http.MethodGet, "/api/v1/products?featured=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/products/"+riceID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var one struct {
		Product            models.Product `json:"product"`
		DiscountPercentage int            `json:"discount_percentage"`
	}
	decodeBody(t, w, &one)
	assert.Equal(t, "Basmati Rice", one.Product.Name)
	assert.Equal(t, 7, one.DiscountPercentage)

	w = s.do(t, http.MethodGet, "/api/v1/products/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/categories", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartAndCheckoutFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/cart/items", "u1", gin.H{"product_id": riceID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/cart/items", "u1", gin.H{"product_id": milkID})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/cart/items/"+milkID+"/increase", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cart service.CartView
	decodeBody(t, w, &cart)
	assert.Equal(t, 4, cart.ItemCount)
	assert.Equal(t, "426", cart.Totals.Subtotal.String())
	assert.Equal(t, "40", cart.Totals.DeliveryFee.String())

	w = s.do(t, http.MethodPost, "/api/v1/cart/items", "u1", gin.H{"product_id": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/orders", "u1", gin.H{"payment_method": "upi"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "no address yet")

	w = s.do(t, http.MethodPost, "/api/v1/orders", "u1", gin.H{
		"payment_method": "upi",
		"address":        gin.H{"street": "12 MG Road", "city": "Bengaluru", "state": "KA", "zip_code": "560001"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var order models.Order
	decodeBody(t, w, &order)
	assert.Equal(t, models.OrderStatusPlaced, order.Status)
	assert.Equal(t, "466", order.FinalAmount.String())

	w = s.do(t, http.MethodGet, "/api/v1/cart", "u1", nil)
	decodeBody(t, w, &cart)
	assert.Empty(t, cart.Lines)

	s.clock.Advance(30 * time.Second)
	w = s.do(t, http.MethodGet, "/api/v1/orders/"+order.ID, "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &order)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)

	w = s.do(t, http.MethodGet, "/api/v1/orders/"+order.ID, "someone-else", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var list struct {
		Count int `json:"count"`
	}
	w = s.do(t, http.MethodGet, "/api/v1/orders", "u1", nil)
	decodeBody(t, w, &list)
	assert.Equal(t, 1, list.Count)

	w = s.do(t, http.MethodPost, "/api/v1/orders/"+order.ID+"/cancel", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &order)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)

	w = s.do(t, http.MethodPost, "/api/v1/orders/missing/cancel", "u1", gin.H{"reason": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelDeliveredOrderConflicts(t *testing.T) {
	s := newTestServer(t)

	s.do(t, http.MethodPost, "/api/v1/cart/items", "u1", gin.H{"product_id": milkID})
	w := s.do(t, http.MethodPost, "/api/v1/orders", "u1", gin.H{
		"address": gin.H{"street": "1 Lake Rd", "city": "Pune", "zip_code": "411001"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var order models.Order
	decodeBody(t, w, &order)

	s.clock.Advance(2 * time.Minute)

	w = s.do(t, http.MethodPost, "/api/v1/orders/"+order.ID+"/cancel", "u1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestWishlistEndpoints(t *testing.T) {
	s := newTestServer(t)

	var toggled struct {
		InWishlist bool `json:"in_wishlist"`
	}
	w := s.do(t, http.MethodPost, "/api/v1/wishlist/"+milkID+"/toggle", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &toggled)
	assert.True(t, toggled.InWishlist)

	w = s.do(t, http.MethodPut, "/api/v1/wishlist/"+riceID, "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Products []models.Product `json:"products"`
	}
	w = s.do(t, http.MethodGet, "/api/v1/wishlist", "u1", nil)
	decodeBody(t, w, &list)
	assert.Len(t, list.Products, 2)

	w = s.do(t, http.MethodDelete, "/api/v1/wishlist/"+milkID, "u1", nil)
	decodeBody(t, w, &list)
	assert.Len(t, list.Products, 1)

	w = s.do(t, http.MethodPost, "/api/v1/wishlist/missing/toggle", "u1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/wishlist", "u1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAuthAndProfile(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/signin", "", gin.H{"email": "testuser@grocio.com", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/signin", "", gin.H{"email": "testuser@grocio.com", "password": "123456"})
	require.Equal(t, http.StatusOK, w.Code)
	var session service.Session
	decodeBody(t, w, &session)
	require.NotEmpty(t, session.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var user models.User
	decodeBody(t, rec, &user)
	assert.Equal(t, "Test User", user.Name)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	w = s.do(t, http.MethodPatch, "/api/v1/profile", session.User.ID, gin.H{"name": "Asha"})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &user)
	assert.Equal(t, "Asha", user.Name)

	w = s.do(t, http.MethodPost, "/api/v1/profile/addresses", session.User.ID, gin.H{"street": "12 MG Road", "city": "Bengaluru", "zip_code": "560001"})
	require.Equal(t, http.StatusCreated, w.Code)
	decodeBody(t, w, &user)
	require.Len(t, user.Addresses, 1)
	assert.True(t, user.Addresses[0].IsDefault)

	w = s.do(t, http.MethodGet, "/api/v1/profile", "unknown-user", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/guest", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &session)
	assert.True(t, session.Guest)
}

func TestCartQuantityLimit(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/cart/items", "u1", gin.H{"product_id": milkID, "quantity": service.MaxLineQuantity + 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/cart/items", "u1", gin.H{"product_id": milkID, "quantity": service.MaxLineQuantity})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/cart/items/"+milkID+"/increase", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/cart/items/"+milkID, "u1", gin.H{"quantity": service.MaxLineQuantity + 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
