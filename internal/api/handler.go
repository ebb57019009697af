// Package api is the HTTP surface. Handlers bind and translate; all
// business rules live in the service layer, and no internal error text
// ever reaches a client.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"grocermart/internal/auth"
	"grocermart/internal/models"
	"grocermart/internal/service"
	"grocermart/internal/store"
	"grocermart/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	accounts    *service.AccountService
	catalog     *service.CatalogService
	carts       *service.CartService
	checkout    *service.CheckoutService
	fulfillment *service.FulfillmentService
	vendors     *service.VendorService
	authManager *auth.Manager
	store       *store.Store
	logger      *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	accounts *service.AccountService,
	catalog *service.CatalogService,
	carts *service.CartService,
	checkout *service.CheckoutService,
	fulfillment *service.FulfillmentService,
	vendors *service.VendorService,
	authManager *auth.Manager,
	store *store.Store,
) *Handler {
	return &Handler{
		accounts:    accounts,
		catalog:     catalog,
		carts:       carts,
		checkout:    checkout,
		fulfillment: fulfillment,
		vendors:     vendors,
		authManager: authManager,
		store:       store,
		logger:      util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/register", h.register)
		v1.POST("/auth/login", h.login)
		v1.POST("/vendors/register", h.registerVendor)

		v1.GET("/catalog/home", h.home)
		v1.GET("/catalog/categories/:slug", h.browseCategory)
		v1.GET("/catalog/products/:slug", h.productDetail)
		v1.GET("/catalog/availability", h.checkAvailability)
		v1.GET("/catalog/products-nearby", h.nearbyProducts)

		v1.POST("/contact", h.submitContact)
	}

	customer := v1.Group("", h.authManager.RequireAuth())
	{
		customer.GET("/cart", h.viewCart)
		customer.GET("/cart/count", h.cartCount)
		customer.POST("/cart/items", h.addToCart)
		customer.PATCH("/cart/items/:id", h.updateCartItem)
		customer.DELETE("/cart/items/:id", h.removeCartItem)

		customer.POST("/checkout", h.processCheckout)
		customer.GET("/orders", h.orderHistory)
		customer.GET("/orders/:id", h.orderDetail)
		customer.POST("/order-items/:id/cancel", h.cancelOrderItem)
	}

	vendor := v1.Group("/vendor", h.authManager.RequireAuth(), auth.RequireApprovedVendor(h.store))
	{
		vendor.GET("/dashboard", h.vendorDashboard)
		vendor.GET("/profile", h.vendorProfile)
		vendor.PUT("/profile", h.updateVendorProfile)

		vendor.GET("/products", h.vendorProducts)
		vendor.GET("/products/low-stock", h.vendorLowStock)
		vendor.POST("/products", h.createProduct)
		vendor.PUT("/products/:id", h.updateProduct)
		vendor.DELETE("/products/:id", h.deleteProduct)
		vendor.POST("/products/:id/toggle", h.toggleProduct)

		vendor.GET("/orders", h.vendorOrders)
		vendor.GET("/orders/:id", h.vendorOrderDetail)
		vendor.PUT("/orders/:id/status", h.updateOrderItemStatus)

		vendor.GET("/earnings", h.vendorEarnings)
		vendor.GET("/earnings/export", h.exportEarningsCSV)
	}

	admin := v1.Group("/admin", h.authManager.RequireAuth(), auth.RequireRole(models.RoleAdmin))
	{
		admin.GET("/vendors", h.adminListVendors)
		admin.PUT("/vendors/:id/status", h.adminSetVendorStatus)
		admin.POST("/categories", h.adminCreateCategory)
		admin.POST("/categories/seed", h.adminSeedCategories)
		admin.GET("/contact-messages", h.adminContactMessages)
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
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// respondError translates a service error into a status code and a
// message safe to show. Unexpected errors become a generic message and
// a log line, never a stack trace or SQL text.
func (h *Handler) respondError(c *gin.Context, err error) {
	if verr, ok := models.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
		return
	}

	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, models.ErrOutOfStock):
		c.JSON(http.StatusConflict, gin.H{"error": "Not enough stock for that quantity"})
	case errors.Is(err, models.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "Already exists"})
	case errors.Is(err, models.ErrStateConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "The item changed underneath this request, please retry"})
	case errors.Is(err, models.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	default:
		h.logger.Error("Unhandled request error",
			zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again"})
	}
}

func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return id, true
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
