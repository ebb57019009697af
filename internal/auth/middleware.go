package auth

import (
	"net/http"
	"strings"

	"grocermart/internal/models"
	"grocermart/internal/store"

	"github.com/gin-gonic/gin"
)

// Context keys set by the middleware.
const (
	ContextAccountID = "auth.account_id"
	ContextRole      = "auth.role"
	ContextVendor    = "auth.vendor"
)

// RequireAuth verifies the bearer token and stores the account ID and
// role on the request context.
func (m *Manager) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		accountID, role, err := m.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ContextAccountID, accountID)
		c.Set(ContextRole, role)
		c.Next()
	}
}

// RequireRole gates a route group to one role. Must run after
// RequireAuth.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentRole(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}

// RequireApprovedVendor resolves the caller's vendor profile once and
// stores it on the context. Vendors that are still pending, rejected or
// blocked see their status instead of the vendor surface.
func RequireApprovedVendor(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentRole(c) != models.RoleVendor {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}

		vendor, err := s.GetVendorByAccountID(c.Request.Context(), CurrentAccountID(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No vendor profile for this account"})
			return
		}
		if !vendor.IsApproved() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":  "Vendor account is not approved",
				"status": vendor.Status,
			})
			return
		}

		c.Set(ContextVendor, vendor)
		c.Next()
	}
}

// CurrentAccountID returns the authenticated account ID, zero when the
// request is anonymous.
func CurrentAccountID(c *gin.Context) int64 {
	id, _ := c.Get(ContextAccountID)
	accountID, _ := id.(int64)
	return accountID
}

// CurrentRole returns the authenticated role, empty when anonymous.
func CurrentRole(c *gin.Context) models.Role {
	r, _ := c.Get(ContextRole)
	role, _ := r.(models.Role)
	return role
}

// CurrentVendor returns the vendor profile resolved by
// RequireApprovedVendor.
func CurrentVendor(c *gin.Context) *models.Vendor {
	v, _ := c.Get(ContextVendor)
	vendor, _ := v.(*models.Vendor)
	return vendor
}
