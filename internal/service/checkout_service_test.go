package service

import (
	"testing"

	"grocermart/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCheckout() *CheckoutRequest {
	return &CheckoutRequest{
		Name:          "Asha Verma",
		Phone:         "9876543210",
		Address:       "12 MG Road, Bengaluru",
		PaymentMethod: models.PaymentCOD,
	}
}

func TestValidateCheckoutRequest(t *testing.T) {
	require.NoError(t, ValidateCheckoutRequest(validCheckout()))
}

func TestValidateCheckoutRequestMissingFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CheckoutRequest)
		field  string
	}{
		{"missing name", func(r *CheckoutRequest) { r.Name = " " }, "name"},
		{"missing phone", func(r *CheckoutRequest) { r.Phone = "" }, "phone"},
		{"missing address", func(r *CheckoutRequest) { r.Address = "" }, "address"},
		{"missing method", func(r *CheckoutRequest) { r.PaymentMethod = "" }, "payment_method"},
		{"unknown method", func(r *CheckoutRequest) { r.PaymentMethod = "cheque" }, "payment_method"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCheckout()
			tc.mutate(req)

			err := ValidateCheckoutRequest(req)
			require.Error(t, err)

			verr, ok := models.AsValidation(err)
			require.True(t, ok)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestValidateCheckoutRequestLeavesNoSideEffects(t *testing.T) {
	// A rejected form must not mutate the request it validated.
	req := validCheckout()
	req.Phone = ""
	original := *req

	_ = ValidateCheckoutRequest(req)
	assert.Equal(t, original, *req)
}
