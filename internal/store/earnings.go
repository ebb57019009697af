package store

import (
	"context"
	"fmt"
	"time"

	"grocermart/internal/models"

	"github.com/shopspring/decimal"
)

// GetVendorProductCounts returns the vendor's total and active product
// counts in one query.
func (s *Store) GetVendorProductCounts(ctx context.Context, vendorID int64) (total, active int, err error) {
	row := s.db.QueryRowxContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active AND is_available)
		FROM products WHERE vendor_id = $1`, vendorID)
	err = row.Scan(&total, &active)
	return total, active, err
}

// CountLowStockProducts returns how many of the vendor's products are at
// or below their alert threshold, excluding the fully sold out.
func (s *Store) CountLowStockProducts(ctx context.Context, vendorID int64) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM products
		WHERE vendor_id = $1 AND quantity > 0 AND quantity <= low_stock_threshold`, vendorID)
	return count, err
}

// GetVendorOrderCounts returns the vendor's order item totals by
// fulfillment progress.
func (s *Store) GetVendorOrderCounts(ctx context.Context, vendorID int64) (total, pending, delivered int, err error) {
	row := s.db.QueryRowxContext(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = $2),
			COUNT(*) FILTER (WHERE status = $3)
		FROM order_items WHERE vendor_id = $1`,
		vendorID, models.ItemStatusPending, models.ItemStatusDelivered)
	err = row.Scan(&total, &pending, &delivered)
	return total, pending, delivered, err
}

// GetVendorRevenueSince sums delivered revenue for the vendor from the
// given instant. A nil since means all time.
func (s *Store) GetVendorRevenueSince(ctx context.Context, vendorID int64, since *time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(price * quantity), 0) FROM order_items
		WHERE vendor_id = $1 AND status = $2`
	args := []interface{}{vendorID, models.ItemStatusDelivered}

	if since != nil {
		args = append(args, *since)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}

	var revenue decimal.Decimal
	err := s.db.GetContext(ctx, &revenue, query, args...)
	return revenue, err
}

// EarningsFilter narrows the vendor earnings report.
type EarningsFilter struct {
	From       *time.Time
	To         *time.Time
	ProductID  *int64
	CategoryID *int64
}

func (f EarningsFilter) apply(query string, args []interface{}) (string, []interface{}) {
	if f.From != nil {
		args = append(args, *f.From)
		query += fmt.Sprintf(" AND oi.created_at >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		query += fmt.Sprintf(" AND oi.created_at < $%d", len(args))
	}
	if f.ProductID != nil {
		args = append(args, *f.ProductID)
		query += fmt.Sprintf(" AND oi.product_id = $%d", len(args))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		query += fmt.Sprintf(" AND p.category_id = $%d", len(args))
	}
	return query, args
}

// GetVendorSalesRows returns the vendor's sold line items for export,
// newest first. All fulfillment states are included; the status column
// lets the report distinguish them.
func (s *Store) GetVendorSalesRows(ctx context.Context, vendorID int64, filter EarningsFilter) ([]models.SalesRow, error) {
	query := `
		SELECT oi.order_id, COALESCE(p.name, 'Unavailable product') AS product_name,
			oi.quantity, oi.price, oi.status, oi.created_at
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.vendor_id = $1`
	args := []interface{}{vendorID}
	query, args = filter.apply(query, args)
	query += " ORDER BY oi.created_at DESC"

	var rows []models.SalesRow
	err := s.db.SelectContext(ctx, &rows, query, args...)
	return rows, err
}

// GetVendorRevenueByProduct breaks delivered revenue down per product.
func (s *Store) GetVendorRevenueByProduct(ctx context.Context, vendorID int64, filter EarningsFilter) ([]models.ProductRevenue, error) {
	query := `
		SELECT COALESCE(p.name, 'Unavailable product') AS product_name,
			COALESCE(SUM(oi.price * oi.quantity), 0) AS revenue,
			COUNT(*) AS orders
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.vendor_id = $1 AND oi.status = $2`
	args := []interface{}{vendorID, models.ItemStatusDelivered}
	query, args = filter.apply(query, args)
	query += " GROUP BY product_name ORDER BY revenue DESC"

	var rows []models.ProductRevenue
	err := s.db.SelectContext(ctx, &rows, query, args...)
	return rows, err
}

// GetVendorRevenueByCategory breaks delivered revenue down per category.
// Products that lost their category land in Uncategorized.
func (s *Store) GetVendorRevenueByCategory(ctx context.Context, vendorID int64, filter EarningsFilter) ([]models.CategoryRevenue, error) {
	query := `
		SELECT COALESCE(c.name, 'Uncategorized') AS category_name,
			COALESCE(SUM(oi.price * oi.quantity), 0) AS revenue,
			COUNT(*) AS orders
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE oi.vendor_id = $1 AND oi.status = $2`
	args := []interface{}{vendorID, models.ItemStatusDelivered}
	query, args = filter.apply(query, args)
	query += " GROUP BY category_name ORDER BY revenue DESC"

	var rows []models.CategoryRevenue
	err := s.db.SelectContext(ctx, &rows, query, args...)
	return rows, err
}
