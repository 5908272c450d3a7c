package rewards

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForPoints(t *testing.T) {
	tests := []struct {
		points int
		want   int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3},
		{499, 3},
		{500, 4},
		{999, 4},
		{1000, 5},
		{1999, 5},
		{2000, 6},
		{50000, 6},
		{-10, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForPoints(tt.points), "points=%d", tt.points)
	}
}
