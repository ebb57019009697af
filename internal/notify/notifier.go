package notify

import (
	"context"
	"fmt"
	"strings"

	"grocermart/internal/models"
	"grocermart/internal/util"

	"go.uber.org/zap"
)

// Notifier turns domain events into emails. Every method swallows
// delivery failures after logging them, so callers never have to guard
// a state change against a broken mail path.
type Notifier struct {
	mailer Mailer
	logger *zap.Logger
}

// NewNotifier creates a notifier on top of a mailer.
func NewNotifier(mailer Mailer) *Notifier {
	return &Notifier{
		mailer: mailer,
		logger: util.GetLogger(),
	}
}

func (n *Notifier) send(ctx context.Context, kind, to, subject, body string) {
	if to == "" {
		n.logger.Warn("Notification skipped, no recipient", zap.String("kind", kind))
		return
	}
	if err := n.mailer.Send(ctx, to, subject, body); err != nil {
		util.NotificationsFailedTotal.Inc()
		n.logger.Warn("Notification failed",
			zap.String("kind", kind), zap.String("to", to), zap.Error(err))
		return
	}
	util.NotificationsSentTotal.WithLabelValues(kind).Inc()
}

// OrderConfirmation mails the customer after checkout.
func (n *Notifier) OrderConfirmation(ctx context.Context, ev *models.OrderPlacedEvent) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", ev.CustomerName)
	fmt.Fprintf(&b, "Thank you for your order #%d.\n\n", ev.OrderID)
	for _, item := range ev.Items {
		fmt.Fprintf(&b, "  %d x product %d @ %s\n", item.Quantity, item.ProductID, item.UnitPrice.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: %s\nPayment: %s\n\nWe will let you know as your items are prepared.\n",
		ev.TotalAmount.StringFixed(2), ev.PaymentMethod)

	subject := fmt.Sprintf("Order #%d confirmed", ev.OrderID)
	n.send(ctx, "order_confirmation", ev.CustomerEmail, subject, b.String())
}

// ItemStatusUpdate mails the customer when a vendor moves an item
// through fulfillment or the item is cancelled.
func (n *Notifier) ItemStatusUpdate(ctx context.Context, ev *models.OrderItemStatusChangedEvent) {
	subject := fmt.Sprintf("Order #%d update: %s", ev.OrderID, ev.Status)
	body := fmt.Sprintf("Hi %s,\n\n%d x %s from your order #%d is now %s.\n",
		ev.CustomerName, ev.Quantity, ev.ProductName, ev.OrderID, ev.Status)
	n.send(ctx, "item_status", ev.CustomerEmail, subject, body)
}

// CustomerWelcome mails a newly registered customer.
func (n *Notifier) CustomerWelcome(ctx context.Context, ev *models.CustomerRegisteredEvent) {
	body := fmt.Sprintf("Hi %s,\n\nWelcome to GrocerMart! Your account is ready.\n", ev.Username)
	n.send(ctx, "customer_welcome", ev.Email, "Welcome to GrocerMart", body)
}

// VendorRegistered mails a vendor that signed up. The shop stays
// hidden until an administrator approves it.
func (n *Notifier) VendorRegistered(ctx context.Context, ev *models.VendorRegisteredEvent) {
	body := fmt.Sprintf("Hi %s,\n\nThanks for registering %s.\n"+
		"Your shop is under review; we will email you once it is approved.\n",
		ev.OwnerName, ev.ShopName)
	n.send(ctx, "vendor_registered", ev.Email, "Your GrocerMart shop registration", body)
}
