package rewards

import (
	"time"
)

// NextStreak applies the daily-streak rule for an event on `today` given
// the stored last-scan date. Dates are compared on their UTC calendar day
// only, so replaying an event for the same day never inflates the streak.
//
//	no prior date          -> 1
//	same day               -> unchanged
//	exactly the next day   -> previous + 1
//	gap >= 2 days or a date regression -> 1
func NextStreak(previous int, lastScan *time.Time, today time.Time) int {
	if lastScan == nil {
		return 1
	}

	last := utcDate(*lastScan)
	cur := utcDate(today)

	switch {
	case cur.Equal(last):
		return previous
	case cur.Equal(last.AddDate(0, 0, 1)):
		return previous + 1
	default:
		return 1
	}
}

func utcDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
