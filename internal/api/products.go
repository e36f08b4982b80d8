package api

import (
	"net/http"
	"strconv"

	"storefront-service/internal/catalog"
	"storefront-service/internal/models"

	"github.com/gin-gonic/gin"
)

// listProducts serves the catalog, narrowed by ?category=, ?q= or ?featured=N
func (h *Handler) listProducts(c *gin.Context) {
	var products []models.Product

	switch {
	case c.Query("featured") != "":
		n, err := strconv.Atoi(c.Query("featured"))
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid featured count"})
			return
		}
		products = h.catalog.Featured(n)
	case c.Query("category") != "":
		products = h.catalog.ByCategory(c.Query("category"))
		if q := c.Query("q"); q != "" {
			products = catalog.Search(products, q)
		}
	default:
		products = h.catalog.Search(c.Query("q"))
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

func (h *Handler) getProduct(c *gin.Context) {
	product, ok := h.catalog.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	resp := gin.H{"product": product}
	if pct, ok := product.DiscountPercentage(); ok {
		resp["discount_percentage"] = pct
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.catalog.Categories()})
}
