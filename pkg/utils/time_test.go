package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeAgo(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"just now", now.Add(-30 * time.Second), "just now"},
		{"one minute", now.Add(-90 * time.Second), "1 minute ago"},
		{"minutes", now.Add(-10 * time.Minute), "10 minutes ago"},
		{"one hour", now.Add(-90 * time.Minute), "1 hour ago"},
		{"hours", now.Add(-5 * time.Hour), "5 hours ago"},
		{"yesterday", now.Add(-30 * time.Hour), "yesterday"},
		{"days", now.Add(-3 * 24 * time.Hour), "3 days ago"},
		{"one week", now.Add(-8 * 24 * time.Hour), "1 week ago"},
		{"weeks", now.Add(-20 * 24 * time.Hour), "2 weeks ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeAgo(tt.t))
		})
	}
}

func TestFormatTimestampOldDate(t *testing.T) {
	old := time.Date(2020, time.January, 15, 10, 30, 0, 0, time.Local)
	assert.Equal(t, "2020-01-15", FormatTimestamp(old))
}
