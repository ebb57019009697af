package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeOrderPlaced            = "ORDER_PLACED"
	EventTypeOrderItemStatusChanged = "ORDER_ITEM_STATUS_CHANGED"
	EventTypeCustomerRegistered     = "CUSTOMER_REGISTERED"
	EventTypeVendorRegistered       = "VENDOR_REGISTERED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent is published after a checkout transaction commits.
// It carries everything the notification worker needs, so handling it
// never touches the database.
type OrderPlacedEvent struct {
	BaseEvent
	OrderID       int64           `json:"order_id"`
	AccountID     int64           `json:"account_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	PaymentMethod string          `json:"payment_method"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Items         []OrderItemData `json:"items"`
}

// OrderItemStatusChangedEvent is published when a vendor moves an item
// through fulfillment or a customer cancels one.
type OrderItemStatusChangedEvent struct {
	BaseEvent
	OrderID       int64      `json:"order_id"`
	ItemID        int64      `json:"item_id"`
	ProductName   string     `json:"product_name"`
	Quantity      int        `json:"quantity"`
	Status        ItemStatus `json:"status"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
}

// CustomerRegisteredEvent is published after a customer account is
// created. The worker sends the welcome mail.
type CustomerRegisteredEvent struct {
	BaseEvent
	AccountID int64  `json:"account_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

// VendorRegisteredEvent is published after a vendor signs up. The
// profile starts in pending until an admin reviews it.
type VendorRegisteredEvent struct {
	BaseEvent
	VendorID  int64  `json:"vendor_id"`
	ShopName  string `json:"shop_name"`
	OwnerName string `json:"owner_name"`
	Email     string `json:"email"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID int64           `json:"product_id"`
	VendorID  int64           `json:"vendor_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}
