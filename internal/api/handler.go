package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/catalog"
	"storefront-service/internal/identity"
	"storefront-service/internal/service"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const userIDKey = "user_id"

// Handler contains HTTP handlers
type Handler struct {
	catalog  *catalog.Service
	carts    *service.CartService
	wishlist *service.WishlistService
	orders   *service.OrderService
	checkout *service.CheckoutService
	profiles *service.ProfileService
	resolver *identity.Resolver
}

// Services groups the collaborators the HTTP surface exposes
type Services struct {
	Catalog  *catalog.Service
	Carts    *service.CartService
	Wishlist *service.WishlistService
	Orders   *service.OrderService
	Checkout *service.CheckoutService
	Profiles *service.ProfileService
	Resolver *identity.Resolver
}

// NewHandler creates a new HTTP handler
func NewHandler(s Services) *Handler {
	return &Handler{
		catalog:  s.Catalog,
		carts:    s.Carts,
		wishlist: s.Wishlist,
		orders:   s.Orders,
		checkout: s.Checkout,
		profiles: s.Profiles,
		resolver: s.Resolver,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(requestLogger(util.Named("http")))

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/categories", h.listCategories)

		v1.POST("/auth/signin", h.signIn)
		v1.POST("/auth/guest", h.guestLogin)
	}

	user := v1.Group("")
	user.Use(h.identityMiddleware())
	{
		user.GET("/cart", h.getCart)
		user.DELETE("/cart", h.clearCart)
		user.POST("/cart/items", h.addToCart)
		user.PUT("/cart/items/:product_id", h.setCartQuantity)
		user.DELETE("/cart/items/:product_id", h.removeFromCart)
		user.POST("/cart/items/:product_id/increase", h.increaseCartItem)
		user.POST("/cart/items/:product_id/decrease", h.decreaseCartItem)

		user.GET("/wishlist", h.getWishlist)
		user.DELETE("/wishlist", h.clearWishlist)
		user.PUT("/wishlist/:product_id", h.addToWishlist)
		user.DELETE("/wishlist/:product_id", h.removeFromWishlist)
		user.POST("/wishlist/:product_id/toggle", h.toggleWishlist)

		user.POST("/orders", h.placeOrder)
		user.GET("/orders", h.listOrders)
		user.GET("/orders/:id", h.getOrder)
		user.POST("/orders/:id/cancel", h.cancelOrder)

		user.GET("/profile", h.getProfile)
		user.PATCH("/profile", h.updateProfile)
		user.POST("/profile/addresses", h.addAddress)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"products": len(h.catalog.Products()),
		"time":     time.Now().Unix(),
	})
}

// identityMiddleware resolves the caller from the Authorization header, or X-User-ID when trusted
func (h *Handler) identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := h.resolver.Resolve(c.GetHeader("Authorization"), c.GetHeader("X-User-ID"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token",
				"details": err.Error(),
			})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// writeError maps service errors to HTTP responses
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrNoDeliveryAddress),
		errors.Is(err, service.ErrInvalidAddress):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrOrderDelivered):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			status,
		).Inc()
	}
}

// requestLogger logs one line per request
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("user_id", c.GetString(userIDKey)))
	}
}
