package delivery

import (
	"testing"

	"grocermart/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func TestDistance(t *testing.T) {
	// One degree of longitude at the equator.
	d, ok := Distance(fp(0), fp(0), fp(0), fp(1))
	require.True(t, ok)
	assert.InDelta(t, 111.19, d, 0.001)

	// One degree of latitude.
	d, ok = Distance(fp(0), fp(0), fp(1), fp(0))
	require.True(t, ok)
	assert.InDelta(t, 111.19, d, 0.001)

	// Half a degree, checking the two-decimal rounding.
	d, ok = Distance(fp(0), fp(0), fp(0), fp(0.5))
	require.True(t, ok)
	assert.InDelta(t, 55.60, d, 0.001)
}

func TestDistanceSamePoint(t *testing.T) {
	d, ok := Distance(fp(28.6139), fp(77.2090), fp(28.6139), fp(77.2090))
	require.True(t, ok)
	assert.Zero(t, d)
}

func TestDistanceZeroCoordinatesAreValid(t *testing.T) {
	// The origin is a real location, not a missing coordinate.
	d, ok := Distance(fp(0), fp(0), fp(0), fp(0))
	require.True(t, ok)
	assert.Zero(t, d)
}

func TestDistanceMissingCoordinates(t *testing.T) {
	_, ok := Distance(nil, fp(77.2090), fp(19.0760), fp(72.8777))
	assert.False(t, ok)

	_, ok = Distance(fp(28.6139), fp(77.2090), fp(19.0760), nil)
	assert.False(t, ok)
}

func TestVendorsInRange(t *testing.T) {
	vendors := []models.Vendor{
		{ShopName: "Near", Status: models.VendorApproved, Latitude: fp(0), Longitude: fp(0), DeliveryRadiusKM: 120},
		{ShopName: "Far", Status: models.VendorApproved, Latitude: fp(0), Longitude: fp(0), DeliveryRadiusKM: 100},
		{ShopName: "No location", Status: models.VendorApproved, DeliveryRadiusKM: 50},
		{ShopName: "Pending", Status: models.VendorPending, Latitude: fp(0), Longitude: fp(1), DeliveryRadiusKM: 120},
	}

	// Customer one degree of longitude away, about 111.19 km.
	matched := VendorsInRange(vendors, 0, 1)

	require.Len(t, matched, 1)
	assert.Equal(t, "Near", matched[0].ShopName)
}

func TestVendorsInRangeBoundary(t *testing.T) {
	vendors := []models.Vendor{
		{ShopName: "Exact", Status: models.VendorApproved, Latitude: fp(0), Longitude: fp(0), DeliveryRadiusKM: 111.19},
	}

	// Rounded distance equals the radius, which still counts as in range.
	matched := VendorsInRange(vendors, 0, 1)
	require.Len(t, matched, 1)
}

func TestValidateRadius(t *testing.T) {
	assert.NoError(t, ValidateRadius(0.5))
	assert.NoError(t, ValidateRadius(5))
	assert.NoError(t, ValidateRadius(50))
	assert.Error(t, ValidateRadius(0.4))
	assert.Error(t, ValidateRadius(50.1))
}
