package api

import (
	"net/http"

	"grocermart/internal/auth"
	"grocermart/internal/service"

	"github.com/gin-gonic/gin"
)

// viewCart returns the caller's cart, creating it on first view.
func (h *Handler) viewCart(c *gin.Context) {
	view, err := h.carts.View(c.Request.Context(), auth.CurrentAccountID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// cartCount returns the badge counts.
func (h *Handler) cartCount(c *gin.Context) {
	lines, units, err := h.carts.Count(c.Request.Context(), auth.CurrentAccountID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines, "units": units})
}

type addToCartRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity"`
}

// addToCart puts a product into the cart; re-adding merges quantities.
func (h *Handler) addToCart(c *gin.Context) {
	var req addToCartRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	view, err := h.carts.Add(c.Request.Context(), auth.CurrentAccountID(c), req.ProductID, req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type updateCartItemRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// updateCartItem applies an increment or decrement to a cart line.
// Decrementing the last unit removes the line.
func (h *Handler) updateCartItem(c *gin.Context) {
	itemID, ok := pathID(c)
	if !ok {
		return
	}
	var req updateCartItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	view, removed, err := h.carts.UpdateQuantity(c.Request.Context(), auth.CurrentAccountID(c), itemID, req.Delta)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": view, "removed": removed})
}

// removeCartItem deletes a cart line.
func (h *Handler) removeCartItem(c *gin.Context) {
	itemID, ok := pathID(c)
	if !ok {
		return
	}

	view, err := h.carts.Remove(c.Request.Context(), auth.CurrentAccountID(c), itemID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// processCheckout places an order from the cart. Submitting against an
// already emptied cart is a no-op, not an error and not a second order.
func (h *Handler) processCheckout(c *gin.Context) {
	var req service.CheckoutRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	result, err := h.checkout.Checkout(c.Request.Context(), auth.CurrentAccountID(c), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	switch {
	case result.Empty:
		c.JSON(http.StatusOK, gin.H{"status": "cart_empty"})
	case result.Duplicate:
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
	default:
		c.JSON(http.StatusCreated, gin.H{
			"status": "placed",
			"order":  result.Order,
			"items":  result.Items,
		})
	}
}

// orderHistory lists the caller's orders with items.
func (h *Handler) orderHistory(c *gin.Context) {
	history, err := h.checkout.History(c.Request.Context(), auth.CurrentAccountID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": history})
}

// orderDetail returns one of the caller's orders.
func (h *Handler) orderDetail(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	detail, err := h.checkout.OrderDetail(c.Request.Context(), auth.CurrentAccountID(c), orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// cancelOrderItem cancels one of the caller's order items if the
// vendor has not started packing it.
func (h *Handler) cancelOrderItem(c *gin.Context) {
	itemID, ok := pathID(c)
	if !ok {
		return
	}

	item, err := h.fulfillment.CancelByCustomer(c.Request.Context(), auth.CurrentAccountID(c), itemID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}
