package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"grocermart/internal/auth"
	"grocermart/internal/broker"
	"grocermart/internal/delivery"
	"grocermart/internal/models"
	"grocermart/internal/store"
	"grocermart/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// VendorService handles the vendor lifecycle: registration, profile
// edits, the admin approval queue, the dashboard and earnings reports.
type VendorService struct {
	store          *store.Store
	authManager    *auth.Manager
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewVendorService creates a new vendor service
func NewVendorService(store *store.Store, authManager *auth.Manager, eventPublisher *broker.EventPublisher) *VendorService {
	return &VendorService{
		store:          store,
		authManager:    authManager,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// RegisterVendorRequest is a vendor sign-up: a login account plus the
// shop profile, created together.
type RegisterVendorRequest struct {
	Username         string   `json:"username" binding:"required,min=3,max=50"`
	Email            string   `json:"email" binding:"required,email"`
	Password         string   `json:"password" binding:"required,min=8"`
	ShopName         string   `json:"shop_name" binding:"required,max=200"`
	OwnerName        string   `json:"owner_name" binding:"required,max=100"`
	Phone            string   `json:"phone" binding:"required,max=20"`
	Address          string   `json:"address" binding:"required"`
	City             string   `json:"city" binding:"required,max=100"`
	State            string   `json:"state" binding:"required,max=100"`
	Pincodes         string   `json:"pincodes" binding:"required"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	DeliveryRadiusKM float64  `json:"delivery_radius_km"`
}

// RegisterVendor creates a vendor account and profile. The shop starts
// pending and stays off the storefront until an admin approves it.
// Pincode input is validated strictly here; the read side tolerates
// whatever is already stored.
func (s *VendorService) RegisterVendor(ctx context.Context, req *RegisterVendorRequest) (*models.Vendor, error) {
	ctx, span := util.StartSpan(ctx, "VendorService.RegisterVendor")
	defer span.End()

	pincodes, err := delivery.NormalizePincodes(req.Pincodes)
	if err != nil {
		return nil, err
	}

	radius := req.DeliveryRadiusKM
	if radius == 0 {
		radius = delivery.DefaultDeliveryRadiusKM
	}
	if err := delivery.ValidateRadius(radius); err != nil {
		return nil, err
	}

	slug, err := s.uniqueVendorSlug(ctx, req.ShopName, 0)
	if err != nil {
		return nil, err
	}
	hash, err := s.authManager.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         models.RoleVendor,
	}
	vendor := &models.Vendor{
		ShopName:         strings.TrimSpace(req.ShopName),
		Slug:             slug,
		OwnerName:        strings.TrimSpace(req.OwnerName),
		Email:            account.Email,
		Phone:            strings.TrimSpace(req.Phone),
		Address:          strings.TrimSpace(req.Address),
		City:             strings.TrimSpace(req.City),
		State:            strings.TrimSpace(req.State),
		Pincodes:         pincodes,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		DeliveryRadiusKM: radius,
		Status:           models.VendorPending,
	}

	if err := s.store.CreateVendorWithAccount(ctx, account, vendor); err != nil {
		return nil, fmt.Errorf("register vendor: %w", err)
	}

	util.VendorRegistrationsTotal.Inc()
	s.logger.Info("Vendor registered",
		zap.Int64("vendor_id", vendor.ID), zap.String("shop", vendor.ShopName))

	event := &models.VendorRegisteredEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeVendorRegistered,
			Timestamp: time.Now(),
		},
		VendorID:  vendor.ID,
		ShopName:  vendor.ShopName,
		OwnerName: vendor.OwnerName,
		Email:     vendor.Email,
	}
	if err := s.eventPublisher.PublishVendorRegistered(ctx, event); err != nil {
		s.logger.Warn("Failed to publish VendorRegistered event", zap.Error(err))
	}

	return vendor, nil
}

// UpdateProfileRequest is a vendor's profile edit.
type UpdateProfileRequest struct {
	ShopName         string   `json:"shop_name" binding:"required,max=200"`
	OwnerName        string   `json:"owner_name" binding:"required,max=100"`
	Email            string   `json:"email" binding:"required,email"`
	Phone            string   `json:"phone" binding:"required,max=20"`
	Address          string   `json:"address" binding:"required"`
	City             string   `json:"city" binding:"required,max=100"`
	State            string   `json:"state" binding:"required,max=100"`
	Pincodes         string   `json:"pincodes" binding:"required"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	DeliveryRadiusKM float64  `json:"delivery_radius_km" binding:"required"`
}

// UpdateProfile rewrites the vendor's own profile. The slug only
// regenerates when the shop name changed.
func (s *VendorService) UpdateProfile(ctx context.Context, vendor *models.Vendor, req *UpdateProfileRequest) (*models.Vendor, error) {
	ctx, span := util.StartSpan(ctx, "VendorService.UpdateProfile")
	defer span.End()

	pincodes, err := delivery.NormalizePincodes(req.Pincodes)
	if err != nil {
		return nil, err
	}
	if err := delivery.ValidateRadius(req.DeliveryRadiusKM); err != nil {
		return nil, err
	}

	if req.ShopName != vendor.ShopName {
		slug, err := s.uniqueVendorSlug(ctx, req.ShopName, vendor.ID)
		if err != nil {
			return nil, err
		}
		vendor.Slug = slug
	}
	vendor.ShopName = strings.TrimSpace(req.ShopName)
	vendor.OwnerName = strings.TrimSpace(req.OwnerName)
	vendor.Email = strings.ToLower(strings.TrimSpace(req.Email))
	vendor.Phone = strings.TrimSpace(req.Phone)
	vendor.Address = strings.TrimSpace(req.Address)
	vendor.City = strings.TrimSpace(req.City)
	vendor.State = strings.TrimSpace(req.State)
	vendor.Pincodes = pincodes
	vendor.Latitude = req.Latitude
	vendor.Longitude = req.Longitude
	vendor.DeliveryRadiusKM = req.DeliveryRadiusKM

	if err := s.store.UpdateVendorProfile(ctx, vendor); err != nil {
		return nil, fmt.Errorf("update vendor profile: %w", err)
	}
	return vendor, nil
}

func (s *VendorService) uniqueVendorSlug(ctx context.Context, shopName string, excludeID int64) (string, error) {
	base := util.Slugify(shopName)
	if base == "" {
		return "", models.NewValidationError("shop_name", "Shop name must contain letters or digits.")
	}

	slug := base
	for i := 2; ; i++ {
		taken, err := s.store.VendorSlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// SetStatus moves a vendor through the approval lifecycle. Admin only.
func (s *VendorService) SetStatus(ctx context.Context, vendorID int64, rawStatus string) (*models.Vendor, error) {
	ctx, span := util.StartSpan(ctx, "VendorService.SetStatus")
	defer span.End()

	status, err := models.ParseVendorStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateVendorStatus(ctx, vendorID, status); err != nil {
		return nil, err
	}

	s.logger.Info("Vendor status changed",
		zap.Int64("vendor_id", vendorID), zap.String("status", rawStatus))
	return s.store.GetVendorByID(ctx, vendorID)
}

// ListByStatus returns vendors in one approval state for the admin
// queue.
func (s *VendorService) ListByStatus(ctx context.Context, rawStatus string) ([]models.Vendor, error) {
	status, err := models.ParseVendorStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	return s.store.GetVendorsByStatus(ctx, status)
}

// Dashboard assembles the vendor's headline numbers. Revenue windows
// count delivered items only.
func (s *VendorService) Dashboard(ctx context.Context, vendorID int64) (*models.VendorDashboard, error) {
	ctx, span := util.StartSpan(ctx, "VendorService.Dashboard")
	defer span.End()

	dash := &models.VendorDashboard{}

	var err error
	dash.TotalProducts, dash.ActiveProducts, err = s.store.GetVendorProductCounts(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("product counts: %w", err)
	}
	dash.LowStockProducts, err = s.store.CountLowStockProducts(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("low stock count: %w", err)
	}
	dash.TotalOrders, dash.PendingOrders, dash.DeliveredOrders, err = s.store.GetVendorOrderCounts(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("order counts: %w", err)
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	week := now.AddDate(0, 0, -7)
	month := now.AddDate(0, 0, -30)

	if dash.TotalRevenue, err = s.store.GetVendorRevenueSince(ctx, vendorID, nil); err != nil {
		return nil, fmt.Errorf("total revenue: %w", err)
	}
	if dash.TodayRevenue, err = s.store.GetVendorRevenueSince(ctx, vendorID, &today); err != nil {
		return nil, fmt.Errorf("today revenue: %w", err)
	}
	if dash.WeekRevenue, err = s.store.GetVendorRevenueSince(ctx, vendorID, &week); err != nil {
		return nil, fmt.Errorf("week revenue: %w", err)
	}
	if dash.MonthRevenue, err = s.store.GetVendorRevenueSince(ctx, vendorID, &month); err != nil {
		return nil, fmt.Errorf("month revenue: %w", err)
	}

	return dash, nil
}

// EarningsReport is the vendor earnings breakdown. TotalRevenue covers
// delivered items; the rows list every sold item with its status.
type EarningsReport struct {
	Rows         []models.SalesRow        `json:"rows"`
	TotalItems   int                      `json:"total_items"`
	TotalRevenue decimal.Decimal          `json:"total_revenue"`
	ByProduct    []models.ProductRevenue  `json:"by_product"`
	ByCategory   []models.CategoryRevenue `json:"by_category"`
}

// Earnings builds the vendor's earnings report under the given filters.
func (s *VendorService) Earnings(ctx context.Context, vendorID int64, filter store.EarningsFilter) (*EarningsReport, error) {
	ctx, span := util.StartSpan(ctx, "VendorService.Earnings")
	defer span.End()

	rows, err := s.store.GetVendorSalesRows(ctx, vendorID, filter)
	if err != nil {
		return nil, fmt.Errorf("sales rows: %w", err)
	}
	byProduct, err := s.store.GetVendorRevenueByProduct(ctx, vendorID, filter)
	if err != nil {
		return nil, fmt.Errorf("revenue by product: %w", err)
	}
	byCategory, err := s.store.GetVendorRevenueByCategory(ctx, vendorID, filter)
	if err != nil {
		return nil, fmt.Errorf("revenue by category: %w", err)
	}

	report := &EarningsReport{
		Rows:         rows,
		TotalRevenue: decimal.Zero,
		ByProduct:    byProduct,
		ByCategory:   byCategory,
	}
	for i := range rows {
		report.TotalItems += rows[i].Quantity
		if rows[i].Status == models.ItemStatusDelivered {
			report.TotalRevenue = report.TotalRevenue.Add(rows[i].Total())
		}
	}
	return report, nil
}

// WriteSalesCSV writes sales rows as the flat export table.
func WriteSalesCSV(w io.Writer, rows []models.SalesRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Order ID", "Product", "Quantity", "Price", "Total", "Status", "Date"}); err != nil {
		return err
	}
	for i := range rows {
		record := []string{
			strconv.FormatInt(rows[i].OrderID, 10),
			rows[i].ProductName,
			strconv.Itoa(rows[i].Quantity),
			rows[i].Price.StringFixed(2),
			rows[i].Total().StringFixed(2),
			string(rows[i].Status),
			rows[i].CreatedAt.Format("2006-01-02"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
