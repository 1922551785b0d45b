package food

import (
	"Food-Inventory-Backend/domain"
	"math"
	"time"
)

const (
	day = 24 * time.Hour

	// expiringSoonDays is the last whole day (inclusive) that still counts
	// as "expiring soon" rather than "good".
	expiringSoonDays = 7
)

// DaysUntilExpiry returns ceil((expiry - now) / 24h).
func DaysUntilExpiry(now, expiry time.Time) int {
	return int(math.Ceil(float64(expiry.Sub(now)) / float64(day)))
}

// ClassifyFreshness maps the remaining whole days before expiry to a label:
// more than 7 is good, 0 through 7 is expiring soon, below 0 is expired.
func ClassifyFreshness(now, expiry time.Time) domain.FreshnessStatus {
	return statusForDays(DaysUntilExpiry(now, expiry))
}

func statusForDays(diffDays int) domain.FreshnessStatus {
	switch {
	case diffDays > expiringSoonDays:
		return domain.StatusGood
	case diffDays >= 0:
		return domain.StatusExpiringSoon
	default:
		return domain.StatusExpired
	}
}
