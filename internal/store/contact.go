package store

import (
	"context"

	"grocermart/internal/models"
)

// CreateContactMessage stores a support message.
func (s *Store) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (account_id, source, name, email, subject, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, msg, query,
		msg.AccountID, msg.Source, msg.Name, msg.Email, msg.Subject, msg.Message)
}

// GetContactMessages returns support messages for the admin inbox,
// newest first.
func (s *Store) GetContactMessages(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	err := s.db.SelectContext(ctx, &messages,
		"SELECT * FROM contact_messages ORDER BY created_at DESC LIMIT $1", limit)
	return messages, err
}
