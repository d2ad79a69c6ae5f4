package payments

import "math"

// MinorUnits converts a major-unit amount (rupees) to the minor units
// (paise) the gateway API expects. Amounts are stored in major units
// everywhere else; only the gateway boundary uses minor units.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
