package models

import (
	"time"

	nurture "github.com/bill2712/nursing-tracker"
)

const (
	// StashShelfLife is how long stored milk stays usable.
	StashShelfLife = 90 * 24 * time.Hour
	// StashExpiryWarning flags entries this close to expiring.
	StashExpiryWarning = 7 * 24 * time.Hour
)

func StashExpiry(e nurture.StashRecord) time.Time {
	return e.Date.Add(StashShelfLife)
}

// ExpiringSoon reports entries that expire within StashExpiryWarning of now,
// expired ones included.
func ExpiringSoon(e nurture.StashRecord, now time.Time) bool {
	return StashExpiry(e).Before(now.Add(StashExpiryWarning))
}

func StashTotal(entries []nurture.ExistingStashRecord) float64 {
	var total float64
	for _, e := range entries {
		total += e.AmountMl
	}
	return total
}
