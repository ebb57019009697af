// Package auth issues and verifies the bearer tokens that identify
// customers, vendors and admins. The account role is embedded in the
// token so most requests never touch the accounts table.
package auth

import (
	"fmt"
	"strconv"
	"time"

	"grocermart/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Claims carries the account identity inside a signed token.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies tokens and hashes passwords.
type Manager struct {
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
}

// NewManager creates a token manager.
func NewManager(secret string, tokenTTL time.Duration, bcryptCost int) *Manager {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Manager{
		secret:     []byte(secret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
	}
}

// HashPassword hashes a plaintext password for storage.
func (m *Manager) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a stored hash.
// A mismatch maps to models.ErrInvalidCredentials so login never leaks
// whether the account or the password was wrong.
func (m *Manager) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return models.ErrInvalidCredentials
	}
	return nil
}

// IssueToken signs a token for the account.
func (m *Manager) IssueToken(account *models.Account) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(account.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a token and returns the account ID and role.
func (m *Manager) ParseToken(tokenString string) (int64, models.Role, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", models.ErrInvalidCredentials
	}

	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || accountID <= 0 {
		return 0, "", models.ErrInvalidCredentials
	}
	switch claims.Role {
	case models.RoleCustomer, models.RoleVendor, models.RoleAdmin:
	default:
		return 0, "", models.ErrInvalidCredentials
	}
	return accountID, claims.Role, nil
}
