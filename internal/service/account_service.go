// Package service holds the marketplace business logic. Each service
// owns one slice of the domain and talks to the store, cache and event
// publisher; HTTP concerns stay in the api package.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"grocermart/internal/auth"
	"grocermart/internal/broker"
	"grocermart/internal/models"
	"grocermart/internal/store"
	"grocermart/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountService handles customer registration and login.
type AccountService struct {
	store          *store.Store
	authManager    *auth.Manager
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(store *store.Store, authManager *auth.Manager, eventPublisher *broker.EventPublisher) *AccountService {
	return &AccountService{
		store:          store,
		authManager:    authManager,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// RegisterRequest is a customer sign-up submission.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register creates a customer account and publishes the welcome event.
func (s *AccountService) Register(ctx context.Context, req *RegisterRequest) (*models.Account, error) {
	ctx, span := util.StartSpan(ctx, "AccountService.Register")
	defer span.End()

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := s.authManager.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleCustomer,
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("register account: %w", err)
	}

	s.logger.Info("Customer registered",
		zap.Int64("account_id", account.ID), zap.String("username", account.Username))

	event := &models.CustomerRegisteredEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeCustomerRegistered,
			Timestamp: time.Now(),
		},
		AccountID: account.ID,
		Username:  account.Username,
		Email:     account.Email,
	}
	if err := s.eventPublisher.PublishCustomerRegistered(ctx, event); err != nil {
		s.logger.Warn("Failed to publish CustomerRegistered event", zap.Error(err))
	}

	return account, nil
}

// LoginRequest is a login submission.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials and returns the account with a signed token.
func (s *AccountService) Login(ctx context.Context, req *LoginRequest) (*models.Account, string, error) {
	ctx, span := util.StartSpan(ctx, "AccountService.Login")
	defer span.End()

	account, err := s.store.GetAccountByUsername(ctx, req.Username)
	if err != nil {
		// Same answer as a bad password.
		return nil, "", models.ErrInvalidCredentials
	}
	if err := s.authManager.CheckPassword(account.PasswordHash, req.Password); err != nil {
		return nil, "", err
	}

	token, err := s.authManager.IssueToken(account)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// SubmitContactRequest is a support message submission.
type SubmitContactRequest struct {
	Source  string `json:"source" binding:"required,oneof=user vendor"`
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required"`
}

// SubmitContact stores a support message. accountID is zero for
// anonymous submissions.
func (s *AccountService) SubmitContact(ctx context.Context, accountID int64, req *SubmitContactRequest) (*models.ContactMessage, error) {
	ctx, span := util.StartSpan(ctx, "AccountService.SubmitContact")
	defer span.End()

	msg := &models.ContactMessage{
		Source:  req.Source,
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Subject: strings.TrimSpace(req.Subject),
		Message: req.Message,
	}
	if accountID > 0 {
		msg.AccountID = &accountID
	}
	if err := s.store.CreateContactMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("store contact message: %w", err)
	}
	return msg, nil
}

// ListContactMessages returns the admin support inbox.
func (s *AccountService) ListContactMessages(ctx context.Context) ([]models.ContactMessage, error) {
	return s.store.GetContactMessages(ctx, 200)
}
