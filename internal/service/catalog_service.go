package service

import (
	"context"
	"fmt"
	"time"

	"grocermart/internal/delivery"
	"grocermart/internal/models"
	"grocermart/internal/redisclient"
	"grocermart/internal/store"
	"grocermart/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const catalogCachePrefix = "catalog:"

// CatalogService serves the storefront and the vendor's product
// management. Browse reads go through the Redis cache; every product or
// category write drops the whole catalog cache.
type CatalogService struct {
	store          *store.Store
	redis          *redisclient.Client
	categoryImages map[string]string
	cacheTTL       time.Duration
	homeLimit      int
	logger         *zap.Logger
}

// NewCatalogService creates a new catalog service. categoryImages maps
// category slugs to asset references and comes from configuration.
func NewCatalogService(store *store.Store, redis *redisclient.Client, categoryImages map[string]string, cacheTTL time.Duration, homeLimit int) *CatalogService {
	if homeLimit <= 0 {
		homeLimit = 20
	}
	return &CatalogService{
		store:          store,
		redis:          redis,
		categoryImages: categoryImages,
		cacheTTL:       cacheTTL,
		homeLimit:      homeLimit,
		logger:         util.GetLogger(),
	}
}

// CategoryView is a category with its configured image asset.
type CategoryView struct {
	models.Category
	ImageURL string `json:"image_url"`
}

// HomePage is the storefront landing payload.
type HomePage struct {
	Categories []CategoryView   `json:"categories"`
	Products   []models.Product `json:"products"`
}

func (s *CatalogService) categoryViews(categories []models.Category) []CategoryView {
	views := make([]CategoryView, len(categories))
	for i, c := range categories {
		views[i] = CategoryView{Category: c, ImageURL: s.categoryImages[c.Slug]}
	}
	return views
}

// Home returns active categories and the newest shoppable products.
func (s *CatalogService) Home(ctx context.Context) (*HomePage, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Home")
	defer span.End()

	var page HomePage
	if hit, err := s.redis.GetCached(ctx, catalogCachePrefix+"home", &page); err == nil && hit {
		util.CatalogCacheTotal.WithLabelValues("hit").Inc()
		return &page, nil
	}
	util.CatalogCacheTotal.WithLabelValues("miss").Inc()

	categories, err := s.store.GetActiveCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	products, err := s.store.GetLatestProducts(ctx, s.homeLimit)
	if err != nil {
		return nil, fmt.Errorf("load latest products: %w", err)
	}

	page = HomePage{Categories: s.categoryViews(categories), Products: products}
	if err := s.redis.SetCached(ctx, catalogCachePrefix+"home", &page, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache home page", zap.Error(err))
	}
	return &page, nil
}

// CategoryPage is a category browse payload.
type CategoryPage struct {
	Category CategoryView     `json:"category"`
	Products []models.Product `json:"products"`
}

// BrowseCategory returns an active category and its shoppable products.
func (s *CatalogService) BrowseCategory(ctx context.Context, slug string) (*CategoryPage, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.BrowseCategory")
	defer span.End()

	cacheKey := catalogCachePrefix + "category:" + slug
	var page CategoryPage
	if hit, err := s.redis.GetCached(ctx, cacheKey, &page); err == nil && hit {
		util.CatalogCacheTotal.WithLabelValues("hit").Inc()
		return &page, nil
	}
	util.CatalogCacheTotal.WithLabelValues("miss").Inc()

	category, err := s.store.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	products, err := s.store.GetProductsByCategory(ctx, category.ID)
	if err != nil {
		return nil, fmt.Errorf("load category products: %w", err)
	}

	page = CategoryPage{
		Category: CategoryView{Category: *category, ImageURL: s.categoryImages[category.Slug]},
		Products: products,
	}
	if err := s.redis.SetCached(ctx, cacheKey, &page, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache category page", zap.Error(err))
	}
	return &page, nil
}

// ProductDetail returns one active product by slug.
func (s *CatalogService) ProductDetail(ctx context.Context, slug string) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ProductDetail")
	defer span.End()

	cacheKey := catalogCachePrefix + "product:" + slug
	var product models.Product
	if hit, err := s.redis.GetCached(ctx, cacheKey, &product); err == nil && hit {
		util.CatalogCacheTotal.WithLabelValues("hit").Inc()
		return &product, nil
	}
	util.CatalogCacheTotal.WithLabelValues("miss").Inc()

	p, err := s.store.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.redis.SetCached(ctx, cacheKey, p, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache product", zap.Error(err))
	}
	return p, nil
}

// CheckAvailability reports whether any approved vendor delivers to the
// pincode. A blank pincode is reported as not checked, which is not the
// same as unavailable.
func (s *CatalogService) CheckAvailability(ctx context.Context, pincode string) (delivery.Availability, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CheckAvailability")
	defer span.End()

	vendors, err := s.store.GetApprovedVendors(ctx)
	if err != nil {
		return delivery.NotChecked, fmt.Errorf("load vendors: %w", err)
	}
	return delivery.CheckPincode(vendors, pincode), nil
}

// NearbyProducts returns shoppable products from vendors whose delivery
// radius covers the given location.
func (s *CatalogService) NearbyProducts(ctx context.Context, lat, lon float64) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.NearbyProducts")
	defer span.End()

	vendors, err := s.store.GetApprovedVendors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load vendors: %w", err)
	}

	inRange := delivery.VendorsInRange(vendors, lat, lon)
	vendorIDs := make([]int64, len(inRange))
	for i := range inRange {
		vendorIDs[i] = inRange[i].ID
	}
	return s.store.GetProductsByVendorIDs(ctx, vendorIDs)
}

// ProductInput is a vendor's product create/update submission.
type ProductInput struct {
	CategoryID        *int64           `json:"category_id"`
	Name              string           `json:"name" binding:"required,max=200"`
	Description       string           `json:"description"`
	Price             decimal.Decimal  `json:"price" binding:"required"`
	DiscountPrice     *decimal.Decimal `json:"discount_price"`
	Quantity          int              `json:"quantity"`
	Unit              string           `json:"unit" binding:"required"`
	LowStockThreshold int              `json:"low_stock_threshold"`
	ImageURL          string           `json:"image_url"`
	IsAvailable       bool             `json:"is_available"`
}

func validateProductInput(in *ProductInput) error {
	if !in.Price.IsPositive() {
		return models.NewValidationError("price", "Price must be greater than zero.")
	}
	if in.DiscountPrice != nil && !in.DiscountPrice.LessThan(in.Price) {
		return models.NewValidationError("discount_price", "Discount price must be less than the regular price.")
	}
	if in.DiscountPrice != nil && !in.DiscountPrice.IsPositive() {
		return models.NewValidationError("discount_price", "Discount price must be greater than zero.")
	}
	if in.Quantity < 0 {
		return models.NewValidationError("quantity", "Quantity cannot be negative.")
	}
	if in.LowStockThreshold < 0 {
		return models.NewValidationError("low_stock_threshold", "Low stock threshold cannot be negative.")
	}
	if !models.ValidUnit(in.Unit) {
		return models.NewValidationError("unit", "Unknown product unit.")
	}
	return nil
}

// uniqueProductSlug derives a slug from name, retrying with a numeric
// suffix until it is free.
func (s *CatalogService) uniqueProductSlug(ctx context.Context, name string, excludeID int64) (string, error) {
	base := util.Slugify(name)
	if base == "" {
		return "", models.NewValidationError("name", "Product name must contain letters or digits.")
	}

	slug := base
	for i := 2; ; i++ {
		taken, err := s.store.ProductSlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// CreateProduct adds a product to the vendor's catalog.
func (s *CatalogService) CreateProduct(ctx context.Context, vendorID int64, in *ProductInput) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateProduct")
	defer span.End()

	if err := validateProductInput(in); err != nil {
		return nil, err
	}
	slug, err := s.uniqueProductSlug(ctx, in.Name, 0)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		VendorID:          vendorID,
		CategoryID:        in.CategoryID,
		Name:              in.Name,
		Slug:              slug,
		Description:       in.Description,
		Price:             in.Price,
		DiscountPrice:     in.DiscountPrice,
		Quantity:          in.Quantity,
		Unit:              in.Unit,
		LowStockThreshold: in.LowStockThreshold,
		ImageURL:          in.ImageURL,
		IsAvailable:       in.IsAvailable,
		IsActive:          true,
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.invalidateCatalog(ctx)
	s.logger.Info("Product created",
		zap.Int64("vendor_id", vendorID), zap.Int64("product_id", product.ID))
	return product, nil
}

// UpdateProduct rewrites a vendor's product. The slug only regenerates
// when the name changed, so shared links keep working across routine
// edits.
func (s *CatalogService) UpdateProduct(ctx context.Context, vendorID, productID int64, in *ProductInput) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.UpdateProduct")
	defer span.End()

	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.VendorID != vendorID {
		return nil, fmt.Errorf("product %d: %w", productID, models.ErrNotFound)
	}

	if in.Name != product.Name {
		slug, err := s.uniqueProductSlug(ctx, in.Name, productID)
		if err != nil {
			return nil, err
		}
		product.Slug = slug
	}
	product.CategoryID = in.CategoryID
	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.DiscountPrice = in.DiscountPrice
	product.Quantity = in.Quantity
	product.Unit = in.Unit
	product.LowStockThreshold = in.LowStockThreshold
	product.ImageURL = in.ImageURL
	product.IsAvailable = in.IsAvailable

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.invalidateCatalog(ctx)
	return product, nil
}

// DeleteProduct removes a vendor's product.
func (s *CatalogService) DeleteProduct(ctx context.Context, vendorID, productID int64) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteProduct")
	defer span.End()

	if err := s.store.DeleteProduct(ctx, vendorID, productID); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

// ToggleAvailability flips a product's listed flag and returns the new
// value.
func (s *CatalogService) ToggleAvailability(ctx context.Context, vendorID, productID int64) (bool, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ToggleAvailability")
	defer span.End()

	available, err := s.store.SetProductAvailability(ctx, vendorID, productID)
	if err != nil {
		return false, err
	}
	s.invalidateCatalog(ctx)
	return available, nil
}

// VendorProducts lists the vendor's own products with optional filters.
func (s *CatalogService) VendorProducts(ctx context.Context, vendorID int64, filter store.VendorProductFilter) ([]models.Product, error) {
	return s.store.GetVendorProducts(ctx, vendorID, filter)
}

// LowStockProducts lists the vendor's products running low.
func (s *CatalogService) LowStockProducts(ctx context.Context, vendorID int64) ([]models.Product, error) {
	return s.store.GetLowStockProducts(ctx, vendorID, 50)
}

// CategoryInput is an admin category submission.
type CategoryInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

// CreateCategory adds a category to the taxonomy.
func (s *CatalogService) CreateCategory(ctx context.Context, in *CategoryInput) (*models.Category, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateCategory")
	defer span.End()

	slug := util.Slugify(in.Name)
	if slug == "" {
		return nil, models.NewValidationError("name", "Category name must contain letters or digits.")
	}

	category := &models.Category{
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		IsActive:    true,
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	return category, nil
}

// SeedCategories installs the default grocery taxonomy.
func (s *CatalogService) SeedCategories(ctx context.Context) (int, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.SeedCategories")
	defer span.End()

	created, err := s.store.SeedCategories(ctx, util.Slugify)
	if err != nil {
		return created, err
	}
	if created > 0 {
		s.invalidateCatalog(ctx)
	}
	return created, nil
}

func (s *CatalogService) invalidateCatalog(ctx context.Context) {
	if err := s.redis.InvalidatePrefix(ctx, catalogCachePrefix); err != nil {
		s.logger.Warn("Failed to invalidate catalog cache", zap.Error(err))
	}
}
