package api

import (
	"errors"
	"io"
	"net/http"

	"storefront-service/internal/models"
	"storefront-service/internal/service"

	"github.com/gin-gonic/gin"
)

type placeOrderRequest struct {
	Address        *models.Address      `json:"address,omitempty"`
	AddressID      string               `json:"address_id,omitempty"`
	PaymentMethod  models.PaymentMethod `json:"payment_method"`
	Notes          string               `json:"notes,omitempty"`
	IdempotencyKey string               `json:"idempotency_key,omitempty"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// placeOrder checks out the caller's cart
func (h *Handler) placeOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	order, err := h.checkout.Checkout(c.Request.Context(), service.CheckoutRequest{
		UserID:         currentUser(c),
		Address:        req.Address,
		AddressID:      req.AddressID,
		PaymentMethod:  req.PaymentMethod,
		Notes:          req.Notes,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *Handler) listOrders(c *gin.Context) {
	orders := h.orders.ListOrders(currentUser(c))
	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// getOrder handles get order by ID. Orders of other users are reported as not found.
func (h *Handler) getOrder(c *gin.Context) {
	order, ok := h.ownedOrder(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) cancelOrder(c *gin.Context) {
	var req cancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	if _, ok := h.ownedOrder(c); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	order, err := h.orders.Cancel(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ownedOrder(c *gin.Context) (*models.Order, bool) {
	order, ok := h.orders.GetOrder(c.Param("id"))
	if !ok || order.UserID != currentUser(c) {
		return nil, false
	}
	return order, true
}
