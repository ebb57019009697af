package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemStatusCanCancel(t *testing.T) {
	cancellable := map[ItemStatus]bool{
		ItemStatusPending:        true,
		ItemStatusAccepted:       true,
		ItemStatusPacked:         false,
		ItemStatusOutForDelivery: false,
		ItemStatusDelivered:      false,
		ItemStatusCancelled:      false,
	}

	for status, want := range cancellable {
		assert.Equal(t, want, status.CanCancel(), "status %s", status)
	}
}

func TestItemStatusTransitions(t *testing.T) {
	// Vendors can move freely between non-terminal states.
	assert.True(t, ItemStatusPending.CanTransition(ItemStatusDelivered))
	assert.True(t, ItemStatusOutForDelivery.CanTransition(ItemStatusAccepted))
	assert.True(t, ItemStatusPacked.CanTransition(ItemStatusCancelled))

	// Terminal states are final.
	assert.False(t, ItemStatusDelivered.CanTransition(ItemStatusPending))
	assert.False(t, ItemStatusCancelled.CanTransition(ItemStatusAccepted))

	// Unknown targets are rejected.
	assert.False(t, ItemStatusPending.CanTransition(ItemStatus("Shipped")))
}

func TestParseItemStatus(t *testing.T) {
	status, err := ParseItemStatus("Out for Delivery")
	require.NoError(t, err)
	assert.Equal(t, ItemStatusOutForDelivery, status)

	_, err = ParseItemStatus("delivered")
	require.Error(t, err)

	verr, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "status", verr.Field)
}

func TestParseVendorStatus(t *testing.T) {
	status, err := ParseVendorStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, VendorApproved, status)

	_, err = ParseVendorStatus("banned")
	assert.Error(t, err)
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod("cod"))
	assert.True(t, ValidPaymentMethod("upi"))
	assert.False(t, ValidPaymentMethod("cheque"))
	assert.False(t, ValidPaymentMethod(""))
}
