package service

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"grocermart/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestWriteSalesCSV(t *testing.T) {
	rows := []models.SalesRow{
		{
			OrderID:     42,
			ProductName: "Organic Bananas",
			Quantity:    3,
			Price:       dec("45.50"),
			Status:      models.ItemStatusDelivered,
			CreatedAt:   time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			OrderID:     43,
			ProductName: "Whole Wheat Atta, 5kg",
			Quantity:    1,
			Price:       dec("280.00"),
			Status:      models.ItemStatusPending,
			CreatedAt:   time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSalesCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "Order ID,Product,Quantity,Price,Total,Status,Date", lines[0])
	assert.Equal(t, "42,Organic Bananas,3,45.50,136.50,Delivered,2024-03-15", lines[1])
	// The comma in the product name must be quoted, not split.
	assert.Equal(t, `43,"Whole Wheat Atta, 5kg",1,280.00,280.00,Pending,2024-03-16`, lines[2])
}

func TestWriteSalesCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSalesCSV(&buf, nil))
	assert.Equal(t, "Order ID,Product,Quantity,Price,Total,Status,Date\n", buf.String())
}
