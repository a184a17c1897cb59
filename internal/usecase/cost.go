package usecase

import (
	"math"
	"time"
)

// ChargeableDays converts a stored booking duration into billable days. Any
// partial day rounds up to a full day charge; a zero duration bills nothing.
func ChargeableDays(duration time.Duration) int {
	if duration <= 0 {
		return 0
	}
	return int(math.Ceil(duration.Hours() / 24))
}

// roundCurrency rounds a monetary amount to two decimal places.
func roundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}
