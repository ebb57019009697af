package models

import "fmt"

// ItemStatus is the fulfillment state of a single order item. Each item
// moves through fulfillment independently of its siblings.
type ItemStatus string

const (
	ItemStatusPending        ItemStatus = "Pending"
	ItemStatusAccepted       ItemStatus = "Accepted"
	ItemStatusPacked         ItemStatus = "Packed"
	ItemStatusOutForDelivery ItemStatus = "Out for Delivery"
	ItemStatusDelivered      ItemStatus = "Delivered"
	ItemStatusCancelled      ItemStatus = "Cancelled"
)

// ItemStatuses returns all fulfillment states in display order.
func ItemStatuses() []ItemStatus {
	return []ItemStatus{
		ItemStatusPending,
		ItemStatusAccepted,
		ItemStatusPacked,
		ItemStatusOutForDelivery,
		ItemStatusDelivered,
		ItemStatusCancelled,
	}
}

// Valid reports whether s is a known fulfillment state.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusPending, ItemStatusAccepted, ItemStatusPacked,
		ItemStatusOutForDelivery, ItemStatusDelivered, ItemStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed out of s.
func (s ItemStatus) Terminal() bool {
	return s == ItemStatusDelivered || s == ItemStatusCancelled
}

// CanCancel reports whether the customer may still cancel an item in
// this state. Once packing starts the item is committed.
func (s ItemStatus) CanCancel() bool {
	return s == ItemStatusPending || s == ItemStatusAccepted
}

// CanTransition reports whether a vendor may move an item from s to
// target. Vendors may reorder states freely, but terminal states are
// final.
func (s ItemStatus) CanTransition(target ItemStatus) bool {
	if !target.Valid() {
		return false
	}
	return !s.Terminal()
}

// ParseItemStatus converts a raw label into an ItemStatus.
func ParseItemStatus(raw string) (ItemStatus, error) {
	s := ItemStatus(raw)
	if !s.Valid() {
		return "", NewValidationError("status", fmt.Sprintf("unknown order status %q", raw))
	}
	return s, nil
}

// VendorStatus is the approval state of a vendor profile. Only approved
// vendors appear in the catalog or may manage products and orders.
type VendorStatus string

const (
	VendorPending  VendorStatus = "pending"
	VendorApproved VendorStatus = "approved"
	VendorRejected VendorStatus = "rejected"
	VendorBlocked  VendorStatus = "blocked"
)

// Valid reports whether s is a known vendor state.
func (s VendorStatus) Valid() bool {
	switch s {
	case VendorPending, VendorApproved, VendorRejected, VendorBlocked:
		return true
	}
	return false
}

// ParseVendorStatus converts a raw label into a VendorStatus.
func ParseVendorStatus(raw string) (VendorStatus, error) {
	s := VendorStatus(raw)
	if !s.Valid() {
		return "", NewValidationError("status", fmt.Sprintf("unknown vendor status %q", raw))
	}
	return s, nil
}

// Role names which surface an account belongs to. It is stored on the
// account row and resolved once per request at authentication time.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

// Payment methods accepted at checkout. Anything except cash on delivery
// is treated as paid up front.
const (
	PaymentCOD    = "cod"
	PaymentOnline = "online"
	PaymentUPI    = "upi"
	PaymentCard   = "card"
)

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCOD, PaymentOnline, PaymentUPI, PaymentCard:
		return true
	}
	return false
}

// Product units offered in the catalog form.
const (
	UnitKilogram   = "kg"
	UnitGram       = "g"
	UnitLiter      = "l"
	UnitMilliliter = "ml"
	UnitPiece      = "piece"
	UnitPack       = "pack"
)

// ValidUnit reports whether u is an accepted product unit.
func ValidUnit(u string) bool {
	switch u {
	case UnitKilogram, UnitGram, UnitLiter, UnitMilliliter, UnitPiece, UnitPack:
		return true
	}
	return false
}
