package inventory

import (
	"math"
	"time"
)

// DefaultExpiryWindowDays is how far ahead an item still counts as
// expiring soon.
const DefaultExpiryWindowDays = 3

// Classification partitions an inventory snapshot by expiration status.
// Every input item lands in exactly one of the three buckets.
type Classification struct {
	Expired      []*Item
	ExpiringSoon []*Item
	Fresh        []*Item
}

// Classify partitions items by comparing their expiration date to now.
// An item is expired once its expiration timestamp is strictly in the past.
// A non-expired item is expiring soon when it expires within windowDays
// whole calendar days, counting today as day zero. Everything else is fresh.
func Classify(items []*Item, now time.Time, windowDays int) Classification {
	if windowDays <= 0 {
		windowDays = DefaultExpiryWindowDays
	}

	var c Classification
	for _, item := range items {
		switch {
		case item.ExpiresAt.Before(now):
			c.Expired = append(c.Expired, item)
		case DaysUntil(item.ExpiresAt, now) <= windowDays:
			c.ExpiringSoon = append(c.ExpiringSoon, item)
		default:
			c.Fresh = append(c.Fresh, item)
		}
	}
	return c
}

// DaysUntil returns the whole-day calendar distance from now to t.
// Both timestamps are truncated to midnight in now's location first, so an
// item expiring later today is 0 days away regardless of clock time.
func DaysUntil(t, now time.Time) int {
	tMid := midnight(t.In(now.Location()))
	nowMid := midnight(now)
	// Rounding absorbs DST transitions inside the span.
	return int(math.Round(tMid.Sub(nowMid).Hours() / 24))
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
