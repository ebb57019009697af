package service

import (
	"context"
	"fmt"
	"time"

	"grocermart/internal/broker"
	"grocermart/internal/models"
	"grocermart/internal/store"
	"grocermart/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FulfillmentService moves order items through their delivery states.
// Items advance one at a time and independently of their siblings in
// the same order.
type FulfillmentService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewFulfillmentService creates a new fulfillment service
func NewFulfillmentService(store *store.Store, eventPublisher *broker.EventPublisher) *FulfillmentService {
	return &FulfillmentService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// VendorItems lists the vendor's sold items with optional status and
// date filters, newest first.
func (s *FulfillmentService) VendorItems(ctx context.Context, vendorID int64, filter store.VendorOrderFilter) ([]models.OrderItemDetail, error) {
	ctx, span := util.StartSpan(ctx, "FulfillmentService.VendorItems")
	defer span.End()

	return s.store.GetVendorOrderItems(ctx, vendorID, filter)
}

// VendorItemDetail returns one item sold by the vendor.
func (s *FulfillmentService) VendorItemDetail(ctx context.Context, vendorID, itemID int64) (*models.OrderItemDetail, error) {
	return s.store.GetOrderItemForVendor(ctx, vendorID, itemID)
}

// UpdateStatus moves an item to a new fulfillment state on behalf of
// the selling vendor. Vendors may reorder the usual progression, but
// delivered and cancelled items are final. The customer notification is
// best effort and never fails the transition.
func (s *FulfillmentService) UpdateStatus(ctx context.Context, vendorID, itemID int64, rawStatus string) (*models.OrderItemDetail, error) {
	ctx, span := util.StartSpan(ctx, "FulfillmentService.UpdateStatus")
	defer span.End()

	target, err := models.ParseItemStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	item, err := s.store.GetOrderItemForVendor(ctx, vendorID, itemID)
	if err != nil {
		return nil, err
	}
	if item.Status == target {
		return item, nil
	}
	if !item.Status.CanTransition(target) {
		return nil, fmt.Errorf("item is already %s: %w", item.Status, models.ErrStateConflict)
	}

	if err := s.store.UpdateOrderItemStatus(ctx, itemID, item.Status, target); err != nil {
		return nil, err
	}

	util.OrderItemStatusTotal.WithLabelValues(string(target)).Inc()
	s.logger.Info("Order item status updated",
		zap.Int64("item_id", itemID),
		zap.Int64("vendor_id", vendorID),
		zap.String("from", string(item.Status)),
		zap.String("to", string(target)))

	item.Status = target
	s.publishStatusChanged(ctx, item)
	return item, nil
}

// CancelByCustomer cancels an item for its buyer. Only items a vendor
// has not started packing can be cancelled; the quantity goes back to
// the product's stock.
func (s *FulfillmentService) CancelByCustomer(ctx context.Context, accountID, itemID int64) (*models.OrderItemDetail, error) {
	ctx, span := util.StartSpan(ctx, "FulfillmentService.CancelByCustomer")
	defer span.End()

	item, err := s.store.GetOrderItemForCustomer(ctx, accountID, itemID)
	if err != nil {
		return nil, err
	}
	if !item.Status.CanCancel() {
		return nil, fmt.Errorf("item is already %s: %w", item.Status, models.ErrStateConflict)
	}

	if err := s.store.CancelOrderItemAndRestock(ctx, itemID, item.Status, item.ProductID, item.Quantity); err != nil {
		return nil, err
	}

	util.OrderItemStatusTotal.WithLabelValues(string(models.ItemStatusCancelled)).Inc()
	s.logger.Info("Order item cancelled by customer",
		zap.Int64("item_id", itemID), zap.Int64("account_id", accountID))

	item.Status = models.ItemStatusCancelled
	s.publishStatusChanged(ctx, item)
	return item, nil
}

func (s *FulfillmentService) publishStatusChanged(ctx context.Context, item *models.OrderItemDetail) {
	event := &models.OrderItemStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderItemStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:       item.OrderID,
		ItemID:        item.ItemID,
		ProductName:   item.ProductName,
		Quantity:      item.Quantity,
		Status:        item.Status,
		CustomerName:  item.CustomerName,
		CustomerEmail: item.CustomerEmail,
	}
	if err := s.eventPublisher.PublishOrderItemStatusChanged(ctx, event); err != nil {
		s.logger.Warn("Failed to publish OrderItemStatusChanged event", zap.Error(err))
	}
}
