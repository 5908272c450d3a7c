package rewards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleancity/pkg/models"
)

var applyNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestApplyEventIncrementsCounters(t *testing.T) {
	prev := models.NewUserStats("u1")

	result := ApplyEvent(prev, models.CategoryRecycle, 10, 0.5, applyNow, nil)
	stats := result.Stats

	assert.Equal(t, 1, stats.ItemsScanned)
	assert.Equal(t, 1, stats.ItemsRecycled)
	assert.Equal(t, 0, stats.CompostItems)
	assert.Equal(t, 10, stats.TotalPoints)
	assert.InDelta(t, 0.5, stats.CO2SavedKg, 1e-9)
	assert.Equal(t, 1, stats.DailyStreak)
	require.NotNil(t, stats.LastScanDate)
	assert.Equal(t, applyNow, *stats.LastScanDate)

	// Input record is untouched.
	assert.Equal(t, 0, prev.ItemsScanned)
	assert.Nil(t, prev.LastScanDate)
}

func TestApplyEventCategoryCounters(t *testing.T) {
	tests := []struct {
		category models.Category
		check    func(t *testing.T, s *models.UserStats)
	}{
		{models.CategoryCompost, func(t *testing.T, s *models.UserStats) { assert.Equal(t, 1, s.CompostItems) }},
		{models.CategoryEwaste, func(t *testing.T, s *models.UserStats) { assert.Equal(t, 1, s.EwasteItems) }},
		{models.CategoryHazardous, func(t *testing.T, s *models.UserStats) {
			assert.Zero(t, s.ItemsRecycled)
			assert.Zero(t, s.CompostItems)
			assert.Zero(t, s.EwasteItems)
		}},
		{models.CategoryLandfill, func(t *testing.T, s *models.UserStats) {
			assert.Zero(t, s.ItemsRecycled)
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			result := ApplyEvent(models.NewUserStats("u1"), tt.category, 5, 0, applyNow, nil)
			assert.Equal(t, 1, result.Stats.ItemsScanned)
			tt.check(t, result.Stats)
		})
	}
}

func TestApplyEventMonthlySnapshot(t *testing.T) {
	prev := models.NewUserStats("u1")
	prev.MonthlyStats["2025-05"] = models.MonthlySnapshot{Items: 7, Points: 60, CO2Kg: 2}

	result := ApplyEvent(prev, models.CategoryCompost, 8, 0.3, applyNow, nil)

	snap := result.Stats.MonthlyStats["2025-06"]
	assert.Equal(t, 1, snap.Items)
	assert.Equal(t, 8, snap.Points)
	assert.InDelta(t, 0.3, snap.CO2Kg, 1e-9)

	// Prior months are untouched.
	assert.Equal(t, 7, result.Stats.MonthlyStats["2025-05"].Items)
}

func TestApplyEventGrantsBadge(t *testing.T) {
	prev := models.NewUserStats("u1")
	prev.ItemsScanned = 9
	prev.TotalPoints = 90

	result := ApplyEvent(prev, models.CategoryLandfill, 5, 0.1, applyNow, DefaultBadgeRules)
	stats := result.Stats

	// The tenth scan triggers Eco Warrior; its bonus lands on top of the
	// event points and pushes the total past the level 2 threshold.
	require.Len(t, result.NewBadges, 1)
	assert.Equal(t, "Eco Warrior", result.NewBadges[0].Name)
	assert.Equal(t, []string{"Eco Warrior"}, stats.Badges)
	assert.Equal(t, 90+5+50, stats.TotalPoints)
	assert.Equal(t, 2, stats.Level)
	assert.Empty(t, result.RuleErrors)
}

func TestApplyEventBadgeNotRegranted(t *testing.T) {
	prev := models.NewUserStats("u1")
	prev.ItemsScanned = 20
	prev.Badges = []string{"Eco Warrior"}

	result := ApplyEvent(prev, models.CategoryLandfill, 5, 0.1, applyNow, DefaultBadgeRules)

	assert.Empty(t, result.NewBadges)
	assert.Equal(t, []string{"Eco Warrior"}, result.Stats.Badges)
	assert.Equal(t, 5, result.Stats.TotalPoints)
}

func TestApplyEventMultipleBadgesInRuleOrder(t *testing.T) {
	prev := models.NewUserStats("u1")
	prev.ItemsScanned = 9
	prev.ItemsRecycled = 4

	result := ApplyEvent(prev, models.CategoryRecycle, 10, 0.5, applyNow, DefaultBadgeRules)

	require.Len(t, result.NewBadges, 2)
	assert.Equal(t, "Eco Warrior", result.NewBadges[0].Name)
	assert.Equal(t, "Plastic Reducer", result.NewBadges[1].Name)
	assert.Equal(t, 10+50+30, result.Stats.TotalPoints)
}

func TestApplyEventMalformedRuleIsReportedNotFatal(t *testing.T) {
	rules := []BadgeRule{
		{Name: "Broken", Field: "no_such_field", Op: OpGTE, Threshold: 1, Bonus: 10},
		{Name: "First Scan", Field: FieldItemsScanned, Op: OpGTE, Threshold: 1, Bonus: 5},
	}

	result := ApplyEvent(models.NewUserStats("u1"), models.CategoryLandfill, 5, 0, applyNow, rules)

	require.Len(t, result.RuleErrors, 1)
	assert.ErrorIs(t, result.RuleErrors[0], models.ErrInvalidRule)
	require.Len(t, result.NewBadges, 1)
	assert.Equal(t, "First Scan", result.NewBadges[0].Name)
	assert.Equal(t, 5+5, result.Stats.TotalPoints)
}

func TestApplyEventStreakContinuation(t *testing.T) {
	prev := models.NewUserStats("u1")
	prev.DailyStreak = 3
	yesterday := applyNow.AddDate(0, 0, -1)
	prev.LastScanDate = &yesterday

	result := ApplyEvent(prev, models.CategoryRecycle, 10, 0.5, applyNow, nil)
	assert.Equal(t, 4, result.Stats.DailyStreak)
}

func TestApplyBonus(t *testing.T) {
	prev := models.NewUserStats("u1")
	prev.TotalPoints = 95
	prev.ItemsScanned = 4

	result := ApplyBonus(prev, 10, applyNow, DefaultBadgeRules)
	stats := result.Stats

	assert.Equal(t, 105, stats.TotalPoints)
	assert.Equal(t, 2, stats.Level)
	// Counters, streak and monthly items do not move on a bonus.
	assert.Equal(t, 4, stats.ItemsScanned)
	assert.Equal(t, 0, stats.DailyStreak)
	assert.Nil(t, stats.LastScanDate)
	assert.Empty(t, stats.MonthlyStats)
}

func TestApplyBonusCanTriggerPointBadge(t *testing.T) {
	prev := models.NewUserStats("u1")
	prev.TotalPoints = 495

	result := ApplyBonus(prev, 10, applyNow, DefaultBadgeRules)

	require.Len(t, result.NewBadges, 1)
	assert.Equal(t, "Point Collector", result.NewBadges[0].Name)
	assert.Equal(t, 495+10+100, result.Stats.TotalPoints)
	assert.Equal(t, 4, result.Stats.Level)
}
