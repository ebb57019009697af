package api

import (
	"net/http"
	"strconv"

	"grocermart/internal/auth"
	"grocermart/internal/service"

	"github.com/gin-gonic/gin"
)

// register handles customer sign-up.
func (h *Handler) register(c *gin.Context) {
	var req service.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	account, err := h.accounts.Register(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// login exchanges credentials for a bearer token.
func (h *Handler) login(c *gin.Context) {
	var req service.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	account, token, err := h.accounts.Login(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account, "token": token})
}

// registerVendor handles vendor sign-up.
func (h *Handler) registerVendor(c *gin.Context) {
	var req service.RegisterVendorRequest
	if !h.bindJSON(c, &req) {
		return
	}

	vendor, err := h.vendors.RegisterVendor(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"vendor":  vendor,
		"message": "Registration received; your shop will appear once approved.",
	})
}

// home serves the storefront landing page.
func (h *Handler) home(c *gin.Context) {
	page, err := h.catalog.Home(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// browseCategory serves a category's shoppable products.
func (h *Handler) browseCategory(c *gin.Context) {
	page, err := h.catalog.BrowseCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// productDetail serves one product by slug.
func (h *Handler) productDetail(c *gin.Context) {
	product, err := h.catalog.ProductDetail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// checkAvailability reports whether anyone delivers to a pincode. A
// missing pincode returns not_checked, not an error.
func (h *Handler) checkAvailability(c *gin.Context) {
	availability, err := h.catalog.CheckAvailability(c.Request.Context(), c.Query("pincode"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pincode":      c.Query("pincode"),
		"availability": availability.String(),
	})
}

// nearbyProducts serves products from vendors whose radius covers the
// given point.
func (h *Handler) nearbyProducts(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon query parameters are required"})
		return
	}

	products, err := h.catalog.NearbyProducts(c.Request.Context(), lat, lon)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// submitContact stores a support message. Works with or without a
// token.
func (h *Handler) submitContact(c *gin.Context) {
	var req service.SubmitContactRequest
	if !h.bindJSON(c, &req) {
		return
	}

	msg, err := h.accounts.SubmitContact(c.Request.Context(), auth.CurrentAccountID(c), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}
