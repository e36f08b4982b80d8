package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *Handler) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.carts.Get(c.Request.Context(), currentUser(c)))
}

// addToCart adds a product; quantity defaults to 1
func (h *Handler) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	view, err := h.carts.Add(c.Request.Context(), currentUser(c), req.ProductID, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) setCartQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	view, err := h.carts.SetQuantity(c.Request.Context(), currentUser(c), c.Param("product_id"), *req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) removeFromCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.carts.Remove(c.Request.Context(), currentUser(c), c.Param("product_id")))
}

func (h *Handler) increaseCartItem(c *gin.Context) {
	view, err := h.carts.Increase(c.Request.Context(), currentUser(c), c.Param("product_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) decreaseCartItem(c *gin.Context) {
	c.JSON(http.StatusOK, h.carts.Decrease(c.Request.Context(), currentUser(c), c.Param("product_id")))
}

func (h *Handler) clearCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.carts.Clear(c.Request.Context(), currentUser(c)))
}

func (h *Handler) getWishlist(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": h.wishlist.Items(c.Request.Context(), currentUser(c))})
}

func (h *Handler) addToWishlist(c *gin.Context) {
	items, err := h.wishlist.Add(c.Request.Context(), currentUser(c), c.Param("product_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": items})
}

func (h *Handler) removeFromWishlist(c *gin.Context) {
	items := h.wishlist.Remove(c.Request.Context(), currentUser(c), c.Param("product_id"))
	c.JSON(http.StatusOK, gin.H{"products": items})
}

func (h *Handler) toggleWishlist(c *gin.Context) {
	productID := c.Param("product_id")
	member, err := h.wishlist.Toggle(c.Request.Context(), currentUser(c), productID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product_id":  productID,
		"in_wishlist": member,
	})
}

func (h *Handler) clearWishlist(c *gin.Context) {
	h.wishlist.Clear(c.Request.Context(), currentUser(c))
	c.Status(http.StatusNoContent)
}
