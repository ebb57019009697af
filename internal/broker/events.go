package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"grocermart/internal/models"
	"grocermart/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderPlaced publishes an OrderPlaced event after checkout
// commits.
func (ep *EventPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOrderItemStatusChanged publishes a fulfillment transition.
func (ep *EventPublisher) PublishOrderItemStatusChanged(ctx context.Context, event *models.OrderItemStatusChangedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishCustomerRegistered publishes a customer sign-up.
func (ep *EventPublisher) PublishCustomerRegistered(ctx context.Context, event *models.CustomerRegisteredEvent) error {
	key := fmt.Sprintf("account-%d", event.AccountID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishVendorRegistered publishes a vendor sign-up.
func (ep *EventPublisher) PublishVendorRegistered(ctx context.Context, event *models.VendorRegisteredEvent) error {
	key := fmt.Sprintf("vendor-%d", event.VendorID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes consumed events to registered callbacks.
type EventHandler struct {
	onOrderPlaced        func(context.Context, *models.OrderPlacedEvent) error
	onItemStatusChanged  func(context.Context, *models.OrderItemStatusChangedEvent) error
	onCustomerRegistered func(context.Context, *models.CustomerRegisteredEvent) error
	onVendorRegistered   func(context.Context, *models.VendorRegisteredEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnOrderPlaced registers a handler for OrderPlaced events.
func (eh *EventHandler) OnOrderPlaced(handler func(context.Context, *models.OrderPlacedEvent) error) {
	eh.onOrderPlaced = handler
}

// OnOrderItemStatusChanged registers a handler for fulfillment
// transitions.
func (eh *EventHandler) OnOrderItemStatusChanged(handler func(context.Context, *models.OrderItemStatusChangedEvent) error) {
	eh.onItemStatusChanged = handler
}

// OnCustomerRegistered registers a handler for customer sign-ups.
func (eh *EventHandler) OnCustomerRegistered(handler func(context.Context, *models.CustomerRegisteredEvent) error) {
	eh.onCustomerRegistered = handler
}

// OnVendorRegistered registers a handler for vendor sign-ups.
func (eh *EventHandler) OnVendorRegistered(handler func(context.Context, *models.VendorRegisteredEvent) error) {
	eh.onVendorRegistered = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	logger := util.GetLogger()
	logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType), zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeOrderPlaced:
		if eh.onOrderPlaced != nil {
			var event models.OrderPlacedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderPlaced event: %w", err)
			}
			return eh.onOrderPlaced(ctx, &event)
		}

	case models.EventTypeOrderItemStatusChanged:
		if eh.onItemStatusChanged != nil {
			var event models.OrderItemStatusChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderItemStatusChanged event: %w", err)
			}
			return eh.onItemStatusChanged(ctx, &event)
		}

	case models.EventTypeCustomerRegistered:
		if eh.onCustomerRegistered != nil {
			var event models.CustomerRegisteredEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CustomerRegistered event: %w", err)
			}
			return eh.onCustomerRegistered(ctx, &event)
		}

	case models.EventTypeVendorRegistered:
		if eh.onVendorRegistered != nil {
			var event models.VendorRegisteredEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal VendorRegistered event: %w", err)
			}
			return eh.onVendorRegistered(ctx, &event)
		}

	default:
		logger.Debug("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
