package rewards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextStreak(t *testing.T) {
	day := func(y int, m time.Month, d, hour int) time.Time {
		return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
	}
	monday := day(2025, time.March, 10, 9)

	tests := []struct {
		name     string
		previous int
		lastScan *time.Time
		today    time.Time
		want     int
	}{
		{"first ever scan", 0, nil, monday, 1},
		{"same day keeps streak", 4, ptr(monday), day(2025, time.March, 10, 23), 4},
		{"next day increments", 4, ptr(monday), day(2025, time.March, 11, 1), 5},
		{"two day gap resets", 9, ptr(monday), day(2025, time.March, 12, 9), 1},
		{"long gap resets", 30, ptr(monday), day(2025, time.April, 2, 9), 1},
		{"clock regression resets", 4, ptr(monday), day(2025, time.March, 9, 9), 1},
		{"month boundary increments", 2, ptr(day(2025, time.March, 31, 22)), day(2025, time.April, 1, 2), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextStreak(tt.previous, tt.lastScan, tt.today)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextStreakComparesUTCDays(t *testing.T) {
	// 23:30 UTC-5 on March 10 is already March 11 in UTC, so a scan on
	// UTC March 12 is the next calendar day, not a gap.
	loc := time.FixedZone("EST", -5*3600)
	last := time.Date(2025, time.March, 10, 23, 30, 0, 0, loc)
	today := time.Date(2025, time.March, 12, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, NextStreak(2, &last, today))
}

func ptr(t time.Time) *time.Time { return &t }
