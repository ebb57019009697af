package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"grocermart/internal/auth"
	"grocermart/internal/models"
	"grocermart/internal/service"
	"grocermart/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// vendorDashboard serves the vendor's headline numbers.
func (h *Handler) vendorDashboard(c *gin.Context) {
	vendor := auth.CurrentVendor(c)
	dash, err := h.vendors.Dashboard(c.Request.Context(), vendor.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// vendorProfile returns the caller's shop profile.
func (h *Handler) vendorProfile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"vendor": auth.CurrentVendor(c)})
}

// updateVendorProfile rewrites the caller's shop profile.
func (h *Handler) updateVendorProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	vendor, err := h.vendors.UpdateProfile(c.Request.Context(), auth.CurrentVendor(c), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendor": vendor})
}

// vendorProducts lists the caller's products with optional filters.
func (h *Handler) vendorProducts(c *gin.Context) {
	var filter store.VendorProductFilter
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return
		}
		filter.CategoryID = &id
	}
	if raw := c.Query("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid available flag"})
			return
		}
		filter.Availability = &available
	}

	products, err := h.catalog.VendorProducts(c.Request.Context(), auth.CurrentVendor(c).ID, filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// vendorLowStock lists the caller's products running low.
func (h *Handler) vendorLowStock(c *gin.Context) {
	products, err := h.catalog.LowStockProducts(c.Request.Context(), auth.CurrentVendor(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// createProduct adds a product to the caller's catalog.
func (h *Handler) createProduct(c *gin.Context) {
	var req service.ProductInput
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), auth.CurrentVendor(c).ID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// updateProduct rewrites one of the caller's products.
func (h *Handler) updateProduct(c *gin.Context) {
	productID, ok := pathID(c)
	if !ok {
		return
	}
	var req service.ProductInput
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), auth.CurrentVendor(c).ID, productID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// deleteProduct removes one of the caller's products.
func (h *Handler) deleteProduct(c *gin.Context) {
	productID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(c.Request.Context(), auth.CurrentVendor(c).ID, productID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// toggleProduct flips a product's listed flag.
func (h *Handler) toggleProduct(c *gin.Context) {
	productID, ok := pathID(c)
	if !ok {
		return
	}

	available, err := h.catalog.ToggleAvailability(c.Request.Context(), auth.CurrentVendor(c).ID, productID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_available": available})
}

func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s date, expected YYYY-MM-DD", name)})
		return nil, false
	}
	return &t, true
}

// vendorOrders lists the caller's sold items, filterable by status and
// date range.
func (h *Handler) vendorOrders(c *gin.Context) {
	var filter store.VendorOrderFilter
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseItemStatus(raw)
		if err != nil {
			h.respondError(c, err)
			return
		}
		filter.Status = &status
	}
	var ok bool
	if filter.From, ok = parseDateQuery(c, "from"); !ok {
		return
	}
	if filter.To, ok = parseDateQuery(c, "to"); !ok {
		return
	}

	items, err := h.fulfillment.VendorItems(c.Request.Context(), auth.CurrentVendor(c).ID, filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// vendorOrderDetail returns one sold item.
func (h *Handler) vendorOrderDetail(c *gin.Context) {
	itemID, ok := pathID(c)
	if !ok {
		return
	}

	item, err := h.fulfillment.VendorItemDetail(c.Request.Context(), auth.CurrentVendor(c).ID, itemID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// updateOrderItemStatus moves a sold item through fulfillment.
func (h *Handler) updateOrderItemStatus(c *gin.Context) {
	itemID, ok := pathID(c)
	if !ok {
		return
	}
	var req updateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.fulfillment.UpdateStatus(c.Request.Context(), auth.CurrentVendor(c).ID, itemID, req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *Handler) earningsFilter(c *gin.Context) (store.EarningsFilter, bool) {
	var filter store.EarningsFilter
	var ok bool
	if filter.From, ok = parseDateQuery(c, "from"); !ok {
		return filter, false
	}
	if filter.To, ok = parseDateQuery(c, "to"); !ok {
		return filter, false
	}
	if raw := c.Query("product_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id"})
			return filter, false
		}
		filter.ProductID = &id
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return filter, false
		}
		filter.CategoryID = &id
	}
	return filter, true
}

// vendorEarnings serves the earnings report.
func (h *Handler) vendorEarnings(c *gin.Context) {
	filter, ok := h.earningsFilter(c)
	if !ok {
		return
	}

	report, err := h.vendors.Earnings(c.Request.Context(), auth.CurrentVendor(c).ID, filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// exportEarningsCSV streams the sales rows as a CSV download.
func (h *Handler) exportEarningsCSV(c *gin.Context) {
	filter, ok := h.earningsFilter(c)
	if !ok {
		return
	}

	report, err := h.vendors.Earnings(c.Request.Context(), auth.CurrentVendor(c).ID, filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filename := fmt.Sprintf("earnings-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := service.WriteSalesCSV(c.Writer, report.Rows); err != nil {
		h.logger.Error("Failed to stream earnings CSV", zap.Error(err))
	}
}
