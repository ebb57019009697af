package delivery

import (
	"math"

	"grocermart/internal/models"
)

const earthRadiusKM = 6371.0

// Delivery radius bounds in kilometers.
const (
	MinDeliveryRadiusKM     = 0.5
	MaxDeliveryRadiusKM     = 50.0
	DefaultDeliveryRadiusKM = 5.0
)

// Distance returns the great-circle distance in kilometers between two
// points, rounded to two decimals. ok is false when any coordinate is
// missing; zero is a legitimate coordinate, not a missing one.
func Distance(lat1, lon1, lat2, lon2 *float64) (float64, bool) {
	if lat1 == nil || lon1 == nil || lat2 == nil || lon2 == nil {
		return 0, false
	}

	rlat1 := *lat1 * math.Pi / 180
	rlon1 := *lon1 * math.Pi / 180
	rlat2 := *lat2 * math.Pi / 180
	rlon2 := *lon2 * math.Pi / 180

	dlat := rlat2 - rlat1
	dlon := rlon2 - rlon1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(earthRadiusKM*c*100) / 100, true
}

// VendorsInRange returns the approved vendors whose delivery radius
// covers the given location. Vendors without stored coordinates never
// match. The scan is linear; vendor counts here are small.
func VendorsInRange(vendors []models.Vendor, lat, lon float64) []models.Vendor {
	var matched []models.Vendor
	for i := range vendors {
		v := vendors[i]
		if !v.IsApproved() {
			continue
		}
		d, ok := Distance(&lat, &lon, v.Latitude, v.Longitude)
		if ok && d <= v.DeliveryRadiusKM {
			matched = append(matched, v)
		}
	}
	return matched
}

// ValidateRadius checks a delivery radius against the allowed bounds.
func ValidateRadius(km float64) error {
	if km < MinDeliveryRadiusKM || km > MaxDeliveryRadiusKM {
		return models.NewValidationError("delivery_radius_km", "Delivery radius must be between 0.5 and 50 km.")
	}
	return nil
}
