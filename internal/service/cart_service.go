package service

import (
	"context"
	"errors"
	"fmt"

	"grocermart/internal/models"
	"grocermart/internal/store"
	"grocermart/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartService maintains the single open cart per customer. Stock is
// only checked here, never reserved; the authoritative decrement
// happens inside the checkout transaction.
type CartService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(store *store.Store) *CartService {
	return &CartService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// CartView is the customer's cart with live prices and totals. Totals
// move with catalog price changes; only placed orders freeze prices.
type CartView struct {
	Cart       models.Cart       `json:"cart"`
	Lines      []models.CartLine `json:"lines"`
	TotalItems int               `json:"total_items"`
	TotalPrice decimal.Decimal   `json:"total_price"`
}

// View returns the customer's cart, creating it on first use. Viewing
// a cart is never a not-found for its owner.
func (s *CartService) View(ctx context.Context, accountID int64) (*CartView, error) {
	ctx, span := util.StartSpan(ctx, "CartService.View")
	defer span.End()

	cart, err := s.store.GetOrCreateCart(ctx, accountID)
	if err != nil {
		return nil, err
	}
	lines, err := s.store.GetCartLines(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("load cart lines: %w", err)
	}

	view := &CartView{Cart: *cart, Lines: lines, TotalPrice: decimal.Zero}
	for i := range lines {
		view.TotalItems += lines[i].Quantity
		view.TotalPrice = view.TotalPrice.Add(lines[i].LineTotal())
	}
	return view, nil
}

// Add puts quantity units of a product into the customer's cart. If
// the product is already there the quantities merge, but never past the
// product's current stock: an add that would overshoot is refused whole
// rather than partially applied.
func (s *CartService) Add(ctx context.Context, accountID, productID int64, quantity int) (*CartView, error) {
	ctx, span := util.StartSpan(ctx, "CartService.Add")
	defer span.End()

	if quantity < 1 {
		return nil, models.NewValidationError("quantity", "Quantity must be at least 1.")
	}

	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.InStock() {
		return nil, fmt.Errorf("%s: %w", product.Name, models.ErrOutOfStock)
	}

	cart, err := s.store.GetOrCreateCart(ctx, accountID)
	if err != nil {
		return nil, err
	}

	item, err := s.store.GetCartItemByProduct(ctx, cart.ID, productID)
	switch {
	case err == nil:
		if err := s.mergeQuantity(ctx, accountID, item, product, quantity); err != nil {
			return nil, err
		}
	case errors.Is(err, models.ErrNotFound):
		if quantity > product.Quantity {
			return nil, fmt.Errorf("only %d of %s in stock: %w",
				product.Quantity, product.Name, models.ErrOutOfStock)
		}
		newItem := &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}
		err := s.store.AddCartItem(ctx, newItem)
		if errors.Is(err, models.ErrDuplicate) {
			// Lost an insert race; the line exists now, merge into it.
			item, err = s.store.GetCartItemByProduct(ctx, cart.ID, productID)
			if err != nil {
				return nil, err
			}
			if err := s.mergeQuantity(ctx, accountID, item, product, quantity); err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	util.CartOperationsTotal.WithLabelValues("add").Inc()
	return s.View(ctx, accountID)
}

func (s *CartService) mergeQuantity(ctx context.Context, accountID int64, item *models.CartItem, product *models.Product, add int) error {
	newQuantity := item.Quantity + add
	if newQuantity > product.Quantity {
		return fmt.Errorf("only %d of %s in stock: %w",
			product.Quantity, product.Name, models.ErrOutOfStock)
	}
	return s.store.UpdateCartItemQuantity(ctx, accountID, item.ID, newQuantity)
}

// UpdateQuantity applies a delta to a cart line. An increment past the
// product's stock is refused with no change; a decrement below one
// removes the line entirely. Returns the refreshed cart and whether the
// line was removed.
func (s *CartService) UpdateQuantity(ctx context.Context, accountID, itemID int64, delta int) (*CartView, bool, error) {
	ctx, span := util.StartSpan(ctx, "CartService.UpdateQuantity")
	defer span.End()

	if delta == 0 {
		return nil, false, models.NewValidationError("delta", "Quantity change cannot be zero.")
	}

	line, err := s.store.GetCartLineByItem(ctx, accountID, itemID)
	if err != nil {
		return nil, false, err
	}

	newQuantity := line.Quantity + delta
	if delta > 0 && newQuantity > line.Stock {
		return nil, false, fmt.Errorf("only %d of %s in stock: %w",
			line.Stock, line.ProductName, models.ErrOutOfStock)
	}

	removed := false
	if newQuantity < 1 {
		if err := s.store.DeleteCartItem(ctx, accountID, itemID); err != nil {
			return nil, false, err
		}
		removed = true
		util.CartOperationsTotal.WithLabelValues("remove").Inc()
	} else {
		if err := s.store.UpdateCartItemQuantity(ctx, accountID, itemID, newQuantity); err != nil {
			return nil, false, err
		}
		util.CartOperationsTotal.WithLabelValues("update").Inc()
	}

	view, err := s.View(ctx, accountID)
	return view, removed, err
}

// Remove deletes a cart line unconditionally.
func (s *CartService) Remove(ctx context.Context, accountID, itemID int64) (*CartView, error) {
	ctx, span := util.StartSpan(ctx, "CartService.Remove")
	defer span.End()

	if err := s.store.DeleteCartItem(ctx, accountID, itemID); err != nil {
		return nil, err
	}
	util.CartOperationsTotal.WithLabelValues("remove").Inc()
	return s.View(ctx, accountID)
}

// Count returns the line and unit counts for the cart badge.
func (s *CartService) Count(ctx context.Context, accountID int64) (lines, units int, err error) {
	return s.store.CountCartLines(ctx, accountID)
}
