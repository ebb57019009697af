// Package delivery decides which vendors can serve a customer, either by
// pincode lists or by geographic distance.
package delivery

import (
	"regexp"
	"strings"

	"grocermart/internal/models"
)

// Availability is the outcome of a pincode serviceability check. A blank
// pincode means the shopper has not picked one yet, which is not the
// same as nobody delivering there.
type Availability int

const (
	NotChecked Availability = iota
	Available
	Unavailable
)

func (a Availability) String() string {
	switch a {
	case Available:
		return "available"
	case Unavailable:
		return "unavailable"
	default:
		return "not_checked"
	}
}

var digitRuns = regexp.MustCompile(`\d+`)

// ExtractPincodes returns the distinct pincodes in raw, in first-seen
// order. A pincode is a maximal run of exactly six digits; longer or
// shorter runs are ignored rather than truncated.
func ExtractPincodes(raw string) []string {
	if raw == "" {
		return nil
	}

	var pins []string
	seen := make(map[string]bool)
	for _, run := range digitRuns.FindAllString(raw, -1) {
		if len(run) != 6 || seen[run] {
			continue
		}
		pins = append(pins, run)
		seen[run] = true
	}
	return pins
}

// NormalizePincodes validates a vendor's pincode input for storage.
// Every digit run must be exactly six digits and at least one pincode is
// required. Returns the canonical comma separated form.
func NormalizePincodes(raw string) (string, error) {
	runs := digitRuns.FindAllString(raw, -1)
	if len(runs) == 0 {
		return "", models.NewValidationError("pincode", "Please enter at least one valid 6-digit pincode.")
	}

	var pins []string
	seen := make(map[string]bool)
	for _, run := range runs {
		if len(run) != 6 {
			return "", models.NewValidationError("pincode", "Each pincode must be exactly 6 digits.")
		}
		if seen[run] {
			continue
		}
		pins = append(pins, run)
		seen[run] = true
	}
	return strings.Join(pins, ", "), nil
}

// CheckPincode reports whether any approved vendor serves the given
// pincode.
func CheckPincode(vendors []models.Vendor, pincode string) Availability {
	pin := strings.TrimSpace(pincode)
	if pin == "" {
		return NotChecked
	}

	for i := range vendors {
		if !vendors[i].IsApproved() {
			continue
		}
		for _, p := range ExtractPincodes(vendors[i].Pincodes) {
			if p == pin {
				return Available
			}
		}
	}
	return Unavailable
}
