package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"grocermart/internal/models"
)

// CreateVendorWithAccount inserts the login account and the vendor
// profile in one transaction so a failed profile never leaves an orphan
// login behind.
func (s *Store) CreateVendorWithAccount(ctx context.Context, account *models.Account, vendor *models.Vendor) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, account, `
		INSERT INTO accounts (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		account.Username, account.Email, account.PasswordHash, account.Role)
	if isUniqueViolation(err) {
		return fmt.Errorf("account %s: %w", account.Username, models.ErrDuplicate)
	}
	if err != nil {
		return err
	}

	vendor.AccountID = account.ID
	err = tx.GetContext(ctx, vendor, `
		INSERT INTO vendors (account_id, shop_name, slug, owner_name, email, phone,
			address, city, state, pincodes, latitude, longitude, delivery_radius_km, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at`,
		vendor.AccountID, vendor.ShopName, vendor.Slug, vendor.OwnerName, vendor.Email,
		vendor.Phone, vendor.Address, vendor.City, vendor.State, vendor.Pincodes,
		vendor.Latitude, vendor.Longitude, vendor.DeliveryRadiusKM, vendor.Status)
	if isUniqueViolation(err) {
		return fmt.Errorf("vendor %s: %w", vendor.Slug, models.ErrDuplicate)
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetVendorByID retrieves a vendor by ID
func (s *Store) GetVendorByID(ctx context.Context, id int64) (*models.Vendor, error) {
	var vendor models.Vendor
	err := s.db.GetContext(ctx, &vendor, "SELECT * FROM vendors WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("vendor %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

// GetVendorByAccountID retrieves the vendor profile attached to an account.
func (s *Store) GetVendorByAccountID(ctx context.Context, accountID int64) (*models.Vendor, error) {
	var vendor models.Vendor
	err := s.db.GetContext(ctx, &vendor, "SELECT * FROM vendors WHERE account_id = $1", accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("vendor profile for account %d: %w", accountID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

// UpdateVendorProfile rewrites the editable profile fields.
func (s *Store) UpdateVendorProfile(ctx context.Context, vendor *models.Vendor) error {
	query := `
		UPDATE vendors
		SET shop_name = $1, slug = $2, owner_name = $3, email = $4, phone = $5,
			address = $6, city = $7, state = $8, pincodes = $9,
			latitude = $10, longitude = $11, delivery_radius_km = $12, updated_at = NOW()
		WHERE id = $13
		RETURNING updated_at`

	err := s.db.GetContext(ctx, &vendor.UpdatedAt, query,
		vendor.ShopName, vendor.Slug, vendor.OwnerName, vendor.Email, vendor.Phone,
		vendor.Address, vendor.City, vendor.State, vendor.Pincodes,
		vendor.Latitude, vendor.Longitude, vendor.DeliveryRadiusKM, vendor.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("vendor slug %s: %w", vendor.Slug, models.ErrDuplicate)
	}
	return err
}

// UpdateVendorStatus moves a vendor through the approval lifecycle.
func (s *Store) UpdateVendorStatus(ctx context.Context, vendorID int64, status models.VendorStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE vendors SET status = $1, updated_at = NOW() WHERE id = $2",
		status, vendorID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("vendor %d: %w", vendorID, models.ErrNotFound)
	}
	return nil
}

// GetApprovedVendors returns all vendors allowed to sell.
func (s *Store) GetApprovedVendors(ctx context.Context) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := s.db.SelectContext(ctx, &vendors,
		"SELECT * FROM vendors WHERE status = $1 ORDER BY created_at DESC", models.VendorApproved)
	return vendors, err
}

// GetVendorsByStatus returns vendors in a given approval state, newest
// first.
func (s *Store) GetVendorsByStatus(ctx context.Context, status models.VendorStatus) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := s.db.SelectContext(ctx, &vendors,
		"SELECT * FROM vendors WHERE status = $1 ORDER BY created_at DESC", status)
	return vendors, err
}

// VendorSlugExists reports whether a vendor slug is taken by someone
// other than excludeID.
func (s *Store) VendorSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM vendors WHERE slug = $1 AND id <> $2)", slug, excludeID)
	return exists, err
}
