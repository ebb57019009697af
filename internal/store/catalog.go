package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"grocermart/internal/models"

	"github.com/jmoiron/sqlx"
)

// seedCategories is the default grocery taxonomy installed by the admin
// seed endpoint.
var seedCategories = []string{
	"Dairy, Bread & Eggs",
	"Fruits & Vegetables",
	"Cold Drinks & Juices",
	"Snacks & Munchies",
	"Breakfast & Instant Food",
	"Sweet Tooth",
	"Bakery & Biscuits",
	"Tea, Coffee & Milk Drinks",
	"Atta, Rice & Dal",
	"Masala, Oil & More",
	"Sauces & Spreads",
	"Chicken, Meat & Fish",
	"Organic & Healthy Living",
	"Baby Care",
	"Pharma & Wellness",
	"Cleaning Essentials",
	"Home & Office",
	"Personal Care",
	"Pet Care",
}

// CreateCategory inserts a category.
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (name, slug, description, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := s.db.GetContext(ctx, category, query,
		category.Name, category.Slug, category.Description, category.IsActive)
	if isUniqueViolation(err) {
		return fmt.Errorf("category %s: %w", category.Name, models.ErrDuplicate)
	}
	return err
}

// SeedCategories installs the default categories, skipping any that
// already exist. Returns how many were created. The slugFn parameter
// turns names into slugs so the store stays free of naming policy.
func (s *Store) SeedCategories(ctx context.Context, slugFn func(string) string) (int, error) {
	created := 0
	for _, name := range seedCategories {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO categories (name, slug, description, is_active)
			VALUES ($1, $2, $3, TRUE)
			ON CONFLICT (name) DO NOTHING`,
			name, slugFn(name), name+" products")
		if err != nil {
			return created, fmt.Errorf("seed category %s: %w", name, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			created++
		}
	}
	return created, nil
}

// GetActiveCategories returns visible categories sorted by name.
func (s *Store) GetActiveCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.SelectContext(ctx, &categories,
		"SELECT * FROM categories WHERE is_active = TRUE ORDER BY name")
	return categories, err
}

// GetCategoryBySlug retrieves an active category by slug.
func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := s.db.GetContext(ctx, &category,
		"SELECT * FROM categories WHERE slug = $1 AND is_active = TRUE", slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %s: %w", slug, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateProduct inserts a product for a vendor.
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (vendor_id, category_id, name, slug, description, price,
			discount_price, quantity, unit, low_stock_threshold, image_url, is_available, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`

	err := s.db.GetContext(ctx, product, query,
		product.VendorID, product.CategoryID, product.Name, product.Slug, product.Description,
		product.Price, product.DiscountPrice, product.Quantity, product.Unit,
		product.LowStockThreshold, product.ImageURL, product.IsAvailable, product.IsActive)
	if isUniqueViolation(err) {
		return fmt.Errorf("product slug %s: %w", product.Slug, models.ErrDuplicate)
	}
	return err
}

// UpdateProduct rewrites the editable product fields.
func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET category_id = $1, name = $2, slug = $3, description = $4, price = $5,
			discount_price = $6, quantity = $7, unit = $8, low_stock_threshold = $9,
			image_url = $10, is_available = $11, updated_at = NOW()
		WHERE id = $12 AND vendor_id = $13
		RETURNING updated_at`

	err := s.db.GetContext(ctx, &product.UpdatedAt, query,
		product.CategoryID, product.Name, product.Slug, product.Description, product.Price,
		product.DiscountPrice, product.Quantity, product.Unit, product.LowStockThreshold,
		product.ImageURL, product.IsAvailable, product.ID, product.VendorID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("product %d: %w", product.ID, models.ErrNotFound)
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("product slug %s: %w", product.Slug, models.ErrDuplicate)
	}
	return err
}

// DeleteProduct removes a vendor's product.
func (s *Store) DeleteProduct(ctx context.Context, vendorID, productID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM products WHERE id = $1 AND vendor_id = $2", productID, vendorID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %d: %w", productID, models.ErrNotFound)
	}
	return nil
}

// SetProductAvailability toggles the listed flag and returns the new
// value.
func (s *Store) SetProductAvailability(ctx context.Context, vendorID, productID int64) (bool, error) {
	var available bool
	err := s.db.GetContext(ctx, &available, `
		UPDATE products
		SET is_available = NOT is_available, updated_at = NOW()
		WHERE id = $1 AND vendor_id = $2
		RETURNING is_available`, productID, vendorID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("product %d: %w", productID, models.ErrNotFound)
	}
	return available, err
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductBySlug retrieves an active product by slug.
func (s *Store) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product,
		"SELECT * FROM products WHERE slug = $1 AND is_active = TRUE", slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", slug, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetLatestProducts returns the newest shoppable products from approved
// vendors.
func (s *Store) GetLatestProducts(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, `
		SELECT p.* FROM products p
		JOIN vendors v ON v.id = p.vendor_id
		WHERE p.is_active = TRUE AND p.is_available = TRUE AND v.status = $1
		ORDER BY p.created_at DESC
		LIMIT $2`, models.VendorApproved, limit)
	return products, err
}

// GetProductsByCategory returns shoppable products in a category.
func (s *Store) GetProductsByCategory(ctx context.Context, categoryID int64) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, `
		SELECT p.* FROM products p
		JOIN vendors v ON v.id = p.vendor_id
		WHERE p.category_id = $1 AND p.is_active = TRUE AND p.is_available = TRUE AND v.status = $2
		ORDER BY p.created_at DESC`, categoryID, models.VendorApproved)
	return products, err
}

// GetShoppableProducts returns every listed product from approved
// vendors. Used when the customer has no location set.
func (s *Store) GetShoppableProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, `
		SELECT p.* FROM products p
		JOIN vendors v ON v.id = p.vendor_id
		WHERE p.is_active = TRUE AND p.is_available = TRUE AND v.status = $1
		ORDER BY p.created_at DESC`, models.VendorApproved)
	return products, err
}

// GetProductsByVendorIDs returns listed products belonging to any of the
// given vendors.
func (s *Store) GetProductsByVendorIDs(ctx context.Context, vendorIDs []int64) ([]models.Product, error) {
	if len(vendorIDs) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT * FROM products
		WHERE vendor_id IN (?) AND is_active = TRUE AND is_available = TRUE
		ORDER BY created_at DESC`, vendorIDs)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var products []models.Product
	err = s.db.SelectContext(ctx, &products, query, args...)
	return products, err
}

// VendorProductFilter narrows a vendor's own product listing.
type VendorProductFilter struct {
	CategoryID   *int64
	Availability *bool
}

// GetVendorProducts returns a vendor's products, newest first, with
// optional category and availability filters.
func (s *Store) GetVendorProducts(ctx context.Context, vendorID int64, filter VendorProductFilter) ([]models.Product, error) {
	query := "SELECT * FROM products WHERE vendor_id = $1"
	args := []interface{}{vendorID}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.Availability != nil {
		args = append(args, *filter.Availability)
		query += fmt.Sprintf(" AND is_available = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	var products []models.Product
	err := s.db.SelectContext(ctx, &products, query, args...)
	return products, err
}

// GetLowStockProducts returns the vendor's products running low, lowest
// stock first.
func (s *Store) GetLowStockProducts(ctx context.Context, vendorID int64, limit int) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, `
		SELECT * FROM products
		WHERE vendor_id = $1 AND quantity > 0 AND quantity <= low_stock_threshold
		ORDER BY quantity
		LIMIT $2`, vendorID, limit)
	return products, err
}

// ProductSlugExists reports whether a product slug is taken by a product
// other than excludeID.
func (s *Store) ProductSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM products WHERE slug = $1 AND id <> $2)", slug, excludeID)
	return exists, err
}
