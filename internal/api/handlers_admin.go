package api

import (
	"net/http"

	"grocermart/internal/models"
	"grocermart/internal/service"

	"github.com/gin-gonic/gin"
)

// adminListVendors lists vendors in one approval state. Defaults to
// the pending review queue.
func (h *Handler) adminListVendors(c *gin.Context) {
	status := c.DefaultQuery("status", string(models.VendorPending))
	vendors, err := h.vendors.ListByStatus(c.Request.Context(), status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}

type setVendorStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// adminSetVendorStatus approves, rejects or blocks a vendor.
func (h *Handler) adminSetVendorStatus(c *gin.Context) {
	vendorID, ok := pathID(c)
	if !ok {
		return
	}
	var req setVendorStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	vendor, err := h.vendors.SetStatus(c.Request.Context(), vendorID, req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendor": vendor})
}

// adminCreateCategory adds a category to the taxonomy.
func (h *Handler) adminCreateCategory(c *gin.Context) {
	var req service.CategoryInput
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// adminSeedCategories installs the default grocery taxonomy.
func (h *Handler) adminSeedCategories(c *gin.Context) {
	created, err := h.catalog.SeedCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}

// adminContactMessages serves the support inbox.
func (h *Handler) adminContactMessages(c *gin.Context) {
	messages, err := h.accounts.ListContactMessages(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
