package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"grocermart/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// checkoutLine is a cart line plus the owning vendor, read under row lock
// during checkout.
type checkoutLine struct {
	models.CartLine
	CartID   int64 `db:"cart_id"`
	VendorID int64 `db:"vendor_id"`
}

// CheckoutCart converts the account's cart into an order in one
// transaction. Product rows are locked before the stock check so
// concurrent checkouts cannot drive quantity negative. The order's
// contact fields, payment method and paid flag must be set by the
// caller; the store fills the total, IDs and timestamps. Returns the
// created items with unit prices frozen at the current display price.
//
// An empty cart returns models.ErrCartEmpty with nothing written.
func (s *Store) CheckoutCart(ctx context.Context, accountID int64, order *models.Order) ([]models.OrderItem, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var lines []checkoutLine
	err = tx.SelectContext(ctx, &lines, `
		SELECT ci.id AS item_id, ci.cart_id, ci.product_id, p.vendor_id,
			p.name AS product_name, p.slug AS product_slug, p.unit,
			p.price, p.discount_price, ci.quantity, p.quantity AS stock, p.is_available
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		JOIN products p ON p.id = ci.product_id
		WHERE c.account_id = $1
		ORDER BY ci.added_at
		FOR UPDATE OF p`, accountID)
	if err != nil {
		return nil, fmt.Errorf("lock cart lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, models.ErrCartEmpty
	}

	total := decimal.Zero
	for i := range lines {
		if lines[i].Stock < lines[i].Quantity {
			return nil, fmt.Errorf("%s has only %d left: %w",
				lines[i].ProductName, lines[i].Stock, models.ErrOutOfStock)
		}
		total = total.Add(lines[i].LineTotal())
	}

	order.AccountID = accountID
	order.TotalAmount = total
	err = tx.GetContext(ctx, order, `
		INSERT INTO orders (account_id, total_amount, payment_method, is_paid,
			delivery_address, delivery_latitude, delivery_longitude, customer_name, customer_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		order.AccountID, order.TotalAmount, order.PaymentMethod, order.IsPaid,
		order.DeliveryAddress, order.DeliveryLatitude, order.DeliveryLongitude,
		order.CustomerName, order.CustomerPhone)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	items := make([]models.OrderItem, 0, len(lines))
	for i := range lines {
		item := models.OrderItem{
			OrderID:   order.ID,
			ProductID: lines[i].ProductID,
			VendorID:  lines[i].VendorID,
			Quantity:  lines[i].Quantity,
			Price:     lines[i].UnitPrice(),
			Status:    models.ItemStatusPending,
		}
		err = tx.GetContext(ctx, &item, `
			INSERT INTO order_items (order_id, product_id, vendor_id, quantity, price, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at`,
			item.OrderID, item.ProductID, item.VendorID, item.Quantity, item.Price, item.Status)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}

		// The quantity guard backs up the row lock: a decrement that
		// would go negative matches no rows.
		res, err := tx.ExecContext(ctx, `
			UPDATE products SET quantity = quantity - $1, updated_at = NOW()
			WHERE id = $2 AND quantity >= $1`,
			lines[i].Quantity, lines[i].ProductID)
		if err != nil {
			return nil, fmt.Errorf("decrement stock: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, fmt.Errorf("%s: %w", lines[i].ProductName, models.ErrOutOfStock)
		}
		items = append(items, item)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM cart_items WHERE cart_id = $1", lines[0].CartID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetOrderForAccount retrieves an order scoped to its owner.
func (s *Store) GetOrderForAccount(ctx context.Context, accountID, orderID int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE id = $1 AND account_id = $2", orderID, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", orderID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrdersByAccountID returns the account's orders, newest first.
func (s *Store) GetOrdersByAccountID(ctx context.Context, accountID int64) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE account_id = $1 ORDER BY created_at DESC", accountID)
	return orders, err
}

// GetOrderItems returns the items of one order with product names. The
// join is left so items survive a vendor deleting the product.
func (s *Store) GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItemDetail, error) {
	var items []models.OrderItemDetail
	err := s.db.SelectContext(ctx, &items, `
		SELECT oi.id AS item_id, oi.order_id, oi.product_id,
			COALESCE(p.name, 'Unavailable product') AS product_name,
			oi.vendor_id, oi.quantity, oi.price, oi.status,
			o.customer_name, a.email AS customer_email, o.customer_phone,
			o.delivery_address, o.payment_method, o.is_paid,
			oi.created_at, oi.updated_at
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN accounts a ON a.id = o.account_id
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`, orderID)
	return items, err
}

// GetItemsForOrders returns items for a set of orders keyed by order ID.
func (s *Store) GetItemsForOrders(ctx context.Context, orderIDs []int64) (map[int64][]models.OrderItemDetail, error) {
	grouped := make(map[int64][]models.OrderItemDetail)
	if len(orderIDs) == 0 {
		return grouped, nil
	}

	query, args, err := sqlx.In(`
		SELECT oi.id AS item_id, oi.order_id, oi.product_id,
			COALESCE(p.name, 'Unavailable product') AS product_name,
			oi.vendor_id, oi.quantity, oi.price, oi.status,
			o.customer_name, a.email AS customer_email, o.customer_phone,
			o.delivery_address, o.payment_method, o.is_paid,
			oi.created_at, oi.updated_at
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN accounts a ON a.id = o.account_id
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id IN (?)
		ORDER BY oi.id`, orderIDs)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var items []models.OrderItemDetail
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	for i := range items {
		grouped[items[i].OrderID] = append(grouped[items[i].OrderID], items[i])
	}
	return grouped, nil
}

// VendorOrderFilter narrows a vendor's order item listing.
type VendorOrderFilter struct {
	Status *models.ItemStatus
	From   *time.Time
	To     *time.Time
}

// GetVendorOrderItems returns items sold by a vendor, newest first.
func (s *Store) GetVendorOrderItems(ctx context.Context, vendorID int64, filter VendorOrderFilter) ([]models.OrderItemDetail, error) {
	query := `
		SELECT oi.id AS item_id, oi.order_id, oi.product_id,
			COALESCE(p.name, 'Unavailable product') AS product_name,
			oi.vendor_id, oi.quantity, oi.price, oi.status,
			o.customer_name, a.email AS customer_email, o.customer_phone,
			o.delivery_address, o.payment_method, o.is_paid,
			oi.created_at, oi.updated_at
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN accounts a ON a.id = o.account_id
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.vendor_id = $1`
	args := []interface{}{vendorID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND oi.status = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND oi.created_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND oi.created_at < $%d", len(args))
	}
	query += " ORDER BY oi.created_at DESC"

	var items []models.OrderItemDetail
	err := s.db.SelectContext(ctx, &items, query, args...)
	return items, err
}

// GetOrderItemForVendor retrieves one item scoped to the selling vendor.
func (s *Store) GetOrderItemForVendor(ctx context.Context, vendorID, itemID int64) (*models.OrderItemDetail, error) {
	return s.getOrderItemScoped(ctx, "oi.vendor_id", vendorID, itemID)
}

// GetOrderItemForCustomer retrieves one item scoped to the buying account.
func (s *Store) GetOrderItemForCustomer(ctx context.Context, accountID, itemID int64) (*models.OrderItemDetail, error) {
	return s.getOrderItemScoped(ctx, "o.account_id", accountID, itemID)
}

func (s *Store) getOrderItemScoped(ctx context.Context, ownerColumn string, ownerID, itemID int64) (*models.OrderItemDetail, error) {
	var item models.OrderItemDetail
	err := s.db.GetContext(ctx, &item, fmt.Sprintf(`
		SELECT oi.id AS item_id, oi.order_id, oi.product_id,
			COALESCE(p.name, 'Unavailable product') AS product_name,
			oi.vendor_id, oi.quantity, oi.price, oi.status,
			o.customer_name, a.email AS customer_email, o.customer_phone,
			o.delivery_address, o.payment_method, o.is_paid,
			oi.created_at, oi.updated_at
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN accounts a ON a.id = o.account_id
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.id = $1 AND %s = $2`, ownerColumn), itemID, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order item %d: %w", itemID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateOrderItemStatus moves an item from one status to another. The
// compare-and-set on the previous status turns a lost race into
// models.ErrStateConflict instead of a silent overwrite.
func (s *Store) UpdateOrderItemStatus(ctx context.Context, itemID int64, from, to models.ItemStatus) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE order_items SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`, to, itemID, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("order item %d no longer %s: %w", itemID, from, models.ErrStateConflict)
	}
	return nil
}

// CancelOrderItemAndRestock flips an item to cancelled and returns its
// quantity to the product in one transaction, so the stock cannot leak
// between the two writes. The compare-and-set on the previous status
// turns a lost race into models.ErrStateConflict. Restocking a product
// that has since been deleted updates nothing, which is fine.
func (s *Store) CancelOrderItemAndRestock(ctx context.Context, itemID int64, from models.ItemStatus, productID int64, quantity int) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE order_items SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`,
		models.ItemStatusCancelled, itemID, from)
	if err != nil {
		return fmt.Errorf("cancel order item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("order item %d no longer %s: %w", itemID, from, models.ErrStateConflict)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE products SET quantity = quantity + $1, updated_at = NOW()
		WHERE id = $2`, quantity, productID); err != nil {
		return fmt.Errorf("restock cancelled item: %w", err)
	}

	return tx.Commit()
}
