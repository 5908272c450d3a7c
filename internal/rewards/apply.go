package rewards

import (
	"time"

	"cleancity/pkg/models"
)

// ApplyResult carries the post-transition record plus what changed.
type ApplyResult struct {
	Stats *models.UserStats
	// NewBadges lists rules granted by this event, in rule order.
	NewBadges []BadgeRule
	// RuleErrors collects malformed-rule configuration errors. The caller
	// logs them; they never block scoring.
	RuleErrors []error
}

// ApplyEvent computes the full statistics transition for one scoring
// event: streak update, counter increments, badge evaluation against the
// post-increment record, and level recompute. The input record is not
// mutated; the result holds a fresh copy representing the committed
// state. Persisting it atomically is the caller's job.
func ApplyEvent(prev *models.UserStats, category models.Category, points int, co2Delta float64, now time.Time, rules []BadgeRule) ApplyResult {
	stats := prev.Clone()
	now = now.UTC()

	stats.DailyStreak = NextStreak(stats.DailyStreak, stats.LastScanDate, now)

	stats.ItemsScanned++
	stats.TotalPoints += points
	stats.CO2SavedKg += co2Delta
	switch category {
	case models.CategoryRecycle:
		stats.ItemsRecycled++
	case models.CategoryCompost:
		stats.CompostItems++
	case models.CategoryEwaste:
		stats.EwasteItems++
	}
	scanDate := now
	stats.LastScanDate = &scanDate

	month := now.Format("2006-01")
	snap := stats.MonthlyStats[month]
	snap.Items++
	snap.Points += points
	snap.CO2Kg += co2Delta
	stats.MonthlyStats[month] = snap

	result := ApplyResult{Stats: stats}
	for _, rule := range rules {
		if stats.HasBadge(rule.Name) {
			continue
		}
		ok, err := rule.Evaluate(stats)
		if err != nil {
			result.RuleErrors = append(result.RuleErrors, err)
			continue
		}
		if ok {
			stats.Badges = append(stats.Badges, rule.Name)
			stats.TotalPoints += rule.Bonus
			result.NewBadges = append(result.NewBadges, rule)
		}
	}

	stats.Level = LevelForPoints(stats.TotalPoints)
	stats.UpdatedAt = now
	return result
}

// ApplyBonus computes the transition for a plain point award (waste
// reports). No counters, streak or monthly items change; badge rules that
// reference total_points may still fire.
func ApplyBonus(prev *models.UserStats, points int, now time.Time, rules []BadgeRule) ApplyResult {
	stats := prev.Clone()
	now = now.UTC()

	stats.TotalPoints += points

	result := ApplyResult{Stats: stats}
	for _, rule := range rules {
		if stats.HasBadge(rule.Name) {
			continue
		}
		ok, err := rule.Evaluate(stats)
		if err != nil {
			result.RuleErrors = append(result.RuleErrors, err)
			continue
		}
		if ok {
			stats.Badges = append(stats.Badges, rule.Name)
			stats.TotalPoints += rule.Bonus
			result.NewBadges = append(result.NewBadges, rule)
		}
	}

	stats.Level = LevelForPoints(stats.TotalPoints)
	stats.UpdatedAt = now
	return result
}
