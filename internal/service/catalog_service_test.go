package service

import (
	"testing"

	"grocermart/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProductInput() *ProductInput {
	return &ProductInput{
		Name:     "Fresh Paneer",
		Price:    decimal.RequireFromString("120.00"),
		Quantity: 10,
		Unit:     models.UnitKilogram,
	}
}

func TestValidateProductInput(t *testing.T) {
	require.NoError(t, validateProductInput(validProductInput()))
}

func TestValidateProductInputRejections(t *testing.T) {
	equalDiscount := decimal.RequireFromString("120.00")
	negativeDiscount := decimal.RequireFromString("-1.00")

	cases := []struct {
		name   string
		mutate func(*ProductInput)
		field  string
	}{
		{"zero price", func(in *ProductInput) { in.Price = decimal.Zero }, "price"},
		{"negative quantity", func(in *ProductInput) { in.Quantity = -1 }, "quantity"},
		{"negative threshold", func(in *ProductInput) { in.LowStockThreshold = -5 }, "low_stock_threshold"},
		{"unknown unit", func(in *ProductInput) { in.Unit = "dozen" }, "unit"},
		{"discount not below price", func(in *ProductInput) { in.DiscountPrice = &equalDiscount }, "discount_price"},
		{"negative discount", func(in *ProductInput) { in.DiscountPrice = &negativeDiscount }, "discount_price"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validProductInput()
			tc.mutate(in)

			err := validateProductInput(in)
			require.Error(t, err)

			verr, ok := models.AsValidation(err)
			require.True(t, ok)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestValidateProductInputDiscountBelowPrice(t *testing.T) {
	discount := decimal.RequireFromString("99.00")
	in := validProductInput()
	in.DiscountPrice = &discount
	assert.NoError(t, validateProductInput(in))
}
