package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestProductDisplayPrice(t *testing.T) {
	discount := dec("79.00")

	full := &Product{Price: dec("99.00")}
	discounted := &Product{Price: dec("99.00"), DiscountPrice: &discount}

	assert.True(t, dec("99.00").Equal(full.DisplayPrice()))
	assert.True(t, dec("79.00").Equal(discounted.DisplayPrice()))
}

func TestProductSavings(t *testing.T) {
	discount := dec("79.00")
	product := &Product{Price: dec("99.00"), DiscountPrice: &discount}
	assert.True(t, dec("20.00").Equal(product.Savings()))

	plain := &Product{Price: dec("99.00")}
	assert.True(t, plain.Savings().IsZero())
}

func TestProductStockFlags(t *testing.T) {
	product := &Product{Quantity: 0, LowStockThreshold: 10}
	assert.False(t, product.InStock())
	assert.False(t, product.LowStock())

	product.Quantity = 10
	assert.True(t, product.InStock())
	assert.True(t, product.LowStock())

	product.Quantity = 11
	assert.False(t, product.LowStock())
}

func TestCartLineTotals(t *testing.T) {
	discount := dec("40.00")
	line := &CartLine{Price: dec("50.00"), DiscountPrice: &discount, Quantity: 3}

	assert.True(t, dec("40.00").Equal(line.UnitPrice()))
	assert.True(t, dec("120.00").Equal(line.LineTotal()))
}

func TestOrderItemTotalPrice(t *testing.T) {
	item := &OrderItem{Quantity: 4, Price: dec("25.50")}
	assert.True(t, dec("102.00").Equal(item.TotalPrice()))
}

func TestSalesRowTotal(t *testing.T) {
	row := &SalesRow{Quantity: 2, Price: dec("12.75")}
	assert.True(t, dec("25.50").Equal(row.Total()))
}
