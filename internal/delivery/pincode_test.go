package delivery

import (
	"testing"

	"grocermart/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPincodes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"single", "110001", []string{"110001"}},
		{"comma separated", "110001, 110002,110003", []string{"110001", "110002", "110003"}},
		{"messy separators", "110001; 110002 / pin:110003", []string{"110001", "110002", "110003"}},
		{"duplicates keep first", "110002, 110001, 110002", []string{"110002", "110001"}},
		{"seven digit run ignored", "1100011", nil},
		{"five digit run ignored", "11000, 110001", []string{"110001"}},
		{"no digits", "nothing here", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPincodes(tt.raw))
		})
	}
}

func TestNormalizePincodes(t *testing.T) {
	got, err := NormalizePincodes("110001,  560043 , 110001")
	require.NoError(t, err)
	assert.Equal(t, "110001, 560043", got)
}

func TestNormalizePincodesRejectsBadRuns(t *testing.T) {
	_, err := NormalizePincodes("110001, 12345")
	require.Error(t, err)

	verr, ok := models.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "pincode", verr.Field)
	assert.Equal(t, "Each pincode must be exactly 6 digits.", verr.Message)
}

func TestNormalizePincodesRequiresOne(t *testing.T) {
	for _, raw := range []string{"", "   ", "no digits at all"} {
		_, err := NormalizePincodes(raw)
		require.Error(t, err, "raw %q", raw)

		verr, ok := models.AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "Please enter at least one valid 6-digit pincode.", verr.Message)
	}
}

func TestCheckPincode(t *testing.T) {
	vendors := []models.Vendor{
		{ShopName: "Fresh Basket", Pincodes: "110001, 110002", Status: models.VendorApproved},
		{ShopName: "Blocked Mart", Pincodes: "560043", Status: models.VendorBlocked},
	}

	assert.Equal(t, Available, CheckPincode(vendors, "110002"))
	assert.Equal(t, Unavailable, CheckPincode(vendors, "999999"))

	// Blocked vendors do not count as coverage.
	assert.Equal(t, Unavailable, CheckPincode(vendors, "560043"))

	// Blank means the shopper has not chosen a pincode yet.
	assert.Equal(t, NotChecked, CheckPincode(vendors, ""))
	assert.Equal(t, NotChecked, CheckPincode(vendors, "   "))
}

func TestAvailabilityString(t *testing.T) {
	assert.Equal(t, "available", Available.String())
	assert.Equal(t, "unavailable", Unavailable.String())
	assert.Equal(t, "not_checked", NotChecked.String())
}
