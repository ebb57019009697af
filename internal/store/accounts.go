package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"grocermart/internal/models"
)

// CreateAccount inserts an account. A duplicate username or email maps
// to models.ErrDuplicate.
func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := s.db.GetContext(ctx, account, query,
		account.Username, account.Email, account.PasswordHash, account.Role)
	if isUniqueViolation(err) {
		return fmt.Errorf("account %s: %w", account.Username, models.ErrDuplicate)
	}
	return err
}

// GetAccountByID retrieves an account by ID
func (s *Store) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	var account models.Account
	err := s.db.GetContext(ctx, &account, "SELECT * FROM accounts WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountByUsername retrieves an account by username
func (s *Store) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	err := s.db.GetContext(ctx, &account, "SELECT * FROM accounts WHERE username = $1", username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", username, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// UsernameExists reports whether the username is already taken.
func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM accounts WHERE username = $1)", username)
	return exists, err
}

// EmailExists reports whether the email is already registered.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1)", email)
	return exists, err
}
