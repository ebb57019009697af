package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"grocermart/internal/broker"
	"grocermart/internal/models"
	"grocermart/internal/redisclient"
	"grocermart/internal/store"
	"grocermart/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	checkoutLockTTL        = 15 * time.Second
	checkoutIdempotencyTTL = 24 * time.Hour
)

// CheckoutService converts carts into orders. The heavy lifting is one
// store transaction; this layer adds validation, the per-customer lock,
// idempotency keys and the post-commit event.
type CheckoutService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(store *store.Store, redis *redisclient.Client, eventPublisher *broker.EventPublisher) *CheckoutService {
	return &CheckoutService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// CheckoutRequest is the checkout form submission. The contact and
// address fields are captured onto the order, decoupled from whatever
// the account profile says later.
type CheckoutRequest struct {
	Name           string   `json:"name"`
	Phone          string   `json:"phone"`
	Address        string   `json:"address"`
	PaymentMethod  string   `json:"payment_method"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	IdempotencyKey string   `json:"idempotency_key,omitempty"`
}

// ValidateCheckoutRequest checks the required checkout fields. Nothing
// is written when this fails, so a rejected form leaves the cart
// untouched.
func ValidateCheckoutRequest(req *CheckoutRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return models.NewValidationError("name", "Name is required.")
	}
	if strings.TrimSpace(req.Phone) == "" {
		return models.NewValidationError("phone", "Phone number is required.")
	}
	if strings.TrimSpace(req.Address) == "" {
		return models.NewValidationError("address", "Delivery address is required.")
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return models.NewValidationError("payment_method", "Payment method is required.")
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return models.NewValidationError("payment_method", "Unknown payment method.")
	}
	return nil
}

// CheckoutResult reports what a checkout attempt did. Empty means the
// cart had nothing in it and no order was created; Duplicate means the
// idempotency key was already used and this submission was dropped.
type CheckoutResult struct {
	Empty     bool               `json:"empty,omitempty"`
	Duplicate bool               `json:"duplicate,omitempty"`
	Order     *models.Order      `json:"order,omitempty"`
	Items     []models.OrderItem `json:"items,omitempty"`
}

// Checkout places an order from the customer's cart. All writes happen
// in one transaction: the order and its items appear, stock drops and
// the cart empties together or not at all. Anything other than cash on
// delivery is marked paid; there is no gateway behind the label.
func (s *CheckoutService) Checkout(ctx context.Context, accountID int64, req *CheckoutRequest) (*CheckoutResult, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Checkout")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	if err := ValidateCheckoutRequest(req); err != nil {
		util.OrdersFailedTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	if req.IdempotencyKey != "" {
		seen, err := s.redis.CheckIdempotencyKey(ctx, "checkout:"+req.IdempotencyKey)
		if err != nil {
			s.logger.Warn("Idempotency check failed, proceeding", zap.Error(err))
		} else if seen {
			return &CheckoutResult{Duplicate: true}, nil
		}
	}

	lockKey := fmt.Sprintf("checkout:%d", accountID)
	acquired, err := s.redis.AcquireLock(ctx, lockKey, checkoutLockTTL)
	if err != nil {
		s.logger.Warn("Checkout lock unavailable, proceeding unlocked", zap.Error(err))
	} else if !acquired {
		util.OrdersFailedTotal.WithLabelValues("concurrent").Inc()
		return nil, fmt.Errorf("checkout already in progress: %w", models.ErrStateConflict)
	} else {
		defer func() {
			if err := s.redis.ReleaseLock(ctx, lockKey); err != nil {
				s.logger.Warn("Failed to release checkout lock", zap.Error(err))
			}
		}()
	}

	order := &models.Order{
		PaymentMethod:     req.PaymentMethod,
		IsPaid:            req.PaymentMethod != models.PaymentCOD,
		DeliveryAddress:   strings.TrimSpace(req.Address),
		DeliveryLatitude:  req.Latitude,
		DeliveryLongitude: req.Longitude,
		CustomerName:      strings.TrimSpace(req.Name),
		CustomerPhone:     strings.TrimSpace(req.Phone),
	}

	items, err := s.store.CheckoutCart(ctx, accountID, order)
	if errors.Is(err, models.ErrCartEmpty) {
		// Double submission after a successful checkout lands here.
		return &CheckoutResult{Empty: true}, nil
	}
	if err != nil {
		if errors.Is(err, models.ErrOutOfStock) {
			util.OrdersFailedTotal.WithLabelValues("out_of_stock").Inc()
		} else {
			util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		}
		return nil, fmt.Errorf("checkout: %w", err)
	}

	util.OrdersPlacedTotal.Inc()
	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("account_id", accountID),
		zap.String("total", order.TotalAmount.StringFixed(2)),
		zap.Int("items", len(items)))

	if req.IdempotencyKey != "" {
		if err := s.redis.SetIdempotencyKey(ctx, "checkout:"+req.IdempotencyKey, order.ID, checkoutIdempotencyTTL); err != nil {
			s.logger.Warn("Failed to record idempotency key", zap.Error(err))
		}
	}

	s.publishOrderPlaced(ctx, accountID, order, items)

	return &CheckoutResult{Order: order, Items: items}, nil
}

func (s *CheckoutService) publishOrderPlaced(ctx context.Context, accountID int64, order *models.Order, items []models.OrderItem) {
	email := ""
	if account, err := s.store.GetAccountByID(ctx, accountID); err == nil {
		email = account.Email
	} else {
		s.logger.Warn("Could not resolve customer email for order event", zap.Error(err))
	}

	eventItems := make([]models.OrderItemData, len(items))
	for i, item := range items {
		eventItems[i] = models.OrderItemData{
			ProductID: item.ProductID,
			VendorID:  item.VendorID,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		}
	}

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:       order.ID,
		AccountID:     accountID,
		CustomerName:  order.CustomerName,
		CustomerEmail: email,
		PaymentMethod: order.PaymentMethod,
		TotalAmount:   order.TotalAmount,
		Items:         eventItems,
	}
	if err := s.eventPublisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Warn("Failed to publish OrderPlaced event", zap.Error(err))
	}
}

// OrderWithItems pairs an order with its line items for history views.
type OrderWithItems struct {
	Order models.Order             `json:"order"`
	Items []models.OrderItemDetail `json:"items"`
}

// History returns the customer's orders with items, newest first.
func (s *CheckoutService) History(ctx context.Context, accountID int64) ([]OrderWithItems, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.History")
	defer span.End()

	orders, err := s.store.GetOrdersByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	orderIDs := make([]int64, len(orders))
	for i := range orders {
		orderIDs[i] = orders[i].ID
	}
	itemsByOrder, err := s.store.GetItemsForOrders(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}

	history := make([]OrderWithItems, len(orders))
	for i := range orders {
		history[i] = OrderWithItems{Order: orders[i], Items: itemsByOrder[orders[i].ID]}
	}
	return history, nil
}

// OrderDetail returns one of the customer's orders with its items.
func (s *CheckoutService) OrderDetail(ctx context.Context, accountID, orderID int64) (*OrderWithItems, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.OrderDetail")
	defer span.End()

	order, err := s.store.GetOrderForAccount(ctx, accountID, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.store.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	return &OrderWithItems{Order: *order, Items: items}, nil
}
