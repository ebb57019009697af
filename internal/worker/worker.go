// Package worker runs the background consumer that turns order events
// into customer and vendor notifications.
package worker

import (
	"context"

	"grocermart/internal/broker"
	"grocermart/internal/models"
	"grocermart/internal/notify"
	"grocermart/internal/util"
)

// NotificationWorker consumes order events and sends the matching
// emails. Notification failures are swallowed inside the notifier, so
// every message commits exactly once regardless of mail outcomes.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
}

// NewNotificationWorker wires the event handler to the notifier.
func NewNotificationWorker(consumer *broker.Consumer, notifier *notify.Notifier) *NotificationWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnOrderPlaced(func(ctx context.Context, ev *models.OrderPlacedEvent) error {
		notifier.OrderConfirmation(ctx, ev)
		return nil
	})
	eventHandler.OnOrderItemStatusChanged(func(ctx context.Context, ev *models.OrderItemStatusChangedEvent) error {
		notifier.ItemStatusUpdate(ctx, ev)
		return nil
	})
	eventHandler.OnCustomerRegistered(func(ctx context.Context, ev *models.CustomerRegisteredEvent) error {
		notifier.CustomerWelcome(ctx, ev)
		return nil
	})
	eventHandler.OnVendorRegistered(func(ctx context.Context, ev *models.VendorRegisteredEvent) error {
		notifier.VendorRegistered(ctx, ev)
		return nil
	})

	return &NotificationWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
	}
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	util.GetLogger().Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	util.GetLogger().Info("Stopping notification worker")
	return w.consumer.Close()
}
