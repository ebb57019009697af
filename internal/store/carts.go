package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"grocermart/internal/models"
)

// GetOrCreateCart returns the account's cart, creating it on first use.
// The unique index on account_id keeps this to one cart per account even
// under concurrent requests.
func (s *Store) GetOrCreateCart(ctx context.Context, accountID int64) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.GetContext(ctx, &cart, `
		INSERT INTO carts (account_id)
		VALUES ($1)
		ON CONFLICT (account_id) DO UPDATE SET account_id = EXCLUDED.account_id
		RETURNING *`, accountID)
	if err != nil {
		return nil, fmt.Errorf("get or create cart: %w", err)
	}
	return &cart, nil
}

// GetCartItemByProduct finds the line for a product in a cart.
func (s *Store) GetCartItemByProduct(ctx context.Context, cartID, productID int64) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.GetContext(ctx, &item,
		"SELECT * FROM cart_items WHERE cart_id = $1 AND product_id = $2", cartID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cart item for product %d: %w", productID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// AddCartItem inserts a new cart line. A concurrent add of the same
// product maps to models.ErrDuplicate so the caller can retry as an
// increment.
func (s *Store) AddCartItem(ctx context.Context, item *models.CartItem) error {
	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id, added_at`

	err := s.db.GetContext(ctx, item, query, item.CartID, item.ProductID, item.Quantity)
	if isUniqueViolation(err) {
		return fmt.Errorf("product %d already in cart: %w", item.ProductID, models.ErrDuplicate)
	}
	return err
}

// UpdateCartItemQuantity sets a line's quantity. The account scope makes
// cross-account item IDs look like missing rows.
func (s *Store) UpdateCartItemQuantity(ctx context.Context, accountID, itemID int64, quantity int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE cart_items ci
		SET quantity = $1
		FROM carts c
		WHERE ci.id = $2 AND ci.cart_id = c.id AND c.account_id = $3`,
		quantity, itemID, accountID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("cart item %d: %w", itemID, models.ErrNotFound)
	}
	return nil
}

// DeleteCartItem removes a line from the account's cart.
func (s *Store) DeleteCartItem(ctx context.Context, accountID, itemID int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM cart_items ci
		USING carts c
		WHERE ci.id = $1 AND ci.cart_id = c.id AND c.account_id = $2`,
		itemID, accountID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("cart item %d: %w", itemID, models.ErrNotFound)
	}
	return nil
}

// GetCartLines returns the cart's lines joined with live product data,
// oldest first.
func (s *Store) GetCartLines(ctx context.Context, cartID int64) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := s.db.SelectContext(ctx, &lines, `
		SELECT ci.id AS item_id, ci.product_id, p.name AS product_name, p.slug AS product_slug,
			p.unit, p.price, p.discount_price, ci.quantity, p.quantity AS stock, p.is_available
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.added_at`, cartID)
	return lines, err
}

// GetCartLineByItem returns one line with live product data, scoped to
// the owning account.
func (s *Store) GetCartLineByItem(ctx context.Context, accountID, itemID int64) (*models.CartLine, error) {
	var line models.CartLine
	err := s.db.GetContext(ctx, &line, `
		SELECT ci.id AS item_id, ci.product_id, p.name AS product_name, p.slug AS product_slug,
			p.unit, p.price, p.discount_price, ci.quantity, p.quantity AS stock, p.is_available
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		JOIN products p ON p.id = ci.product_id
		WHERE ci.id = $1 AND c.account_id = $2`, itemID, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cart item %d: %w", itemID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// CountCartLines returns the number of distinct lines and the summed
// quantity in the account's cart. Accounts without a cart yet count as
// zero.
func (s *Store) CountCartLines(ctx context.Context, accountID int64) (lines int, totalQuantity int, err error) {
	row := s.db.QueryRowxContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(ci.quantity), 0)
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		WHERE c.account_id = $1`, accountID)
	err = row.Scan(&lines, &totalQuantity)
	return lines, totalQuantity, err
}
