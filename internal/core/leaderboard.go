package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cleancity/internal/cache"
	"cleancity/internal/repository"
	"cleancity/pkg/models"
)

// Leaderboard timeframes.
const (
	TimeframeAllTime = "all_time"
	TimeframeWeekly  = "weekly"
	TimeframeMonthly = "monthly"
)

// LeaderboardService derives ranks, listings and monthly reports from
// the statistics store. Reads take a snapshot; a few seconds of
// staleness is acceptable because ranks are advisory.
type LeaderboardService interface {
	RankTier(ctx context.Context, userID string) (models.RankTier, error)
	Top(ctx context.Context, limit int, timeframe string) (*models.LeaderboardResponse, error)
	MonthlyReport(ctx context.Context, userID, month string) (*models.MonthlyReport, error)
}

type leaderboardService struct {
	statsRepo repository.UserStatsRepository
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
	cache     *cache.LeaderboardCache
	now       func() time.Time
}

// NewLeaderboardService creates the leaderboard and reporting service.
// cache may be nil; lookups then always hit the store.
func NewLeaderboardService(statsRepo repository.UserStatsRepository, eventRepo repository.EventRepository, userRepo repository.UserRepository, lbCache *cache.LeaderboardCache) LeaderboardService {
	return &leaderboardService{
		statsRepo: statsRepo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		cache:     lbCache,
		now:       time.Now,
	}
}

// sortByPoints orders stats by total points descending, ties broken by
// user_id so the ordering is deterministic.
func sortByPoints(all []*models.UserStats) {
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].TotalPoints != all[j].TotalPoints {
			return all[i].TotalPoints > all[j].TotalPoints
		}
		return all[i].UserID < all[j].UserID
	})
}

// tierForPosition maps a 1-based leaderboard position to its tier.
func tierForPosition(pos int) models.RankTier {
	switch {
	case pos <= 3:
		return models.TierLegend
	case pos <= 10:
		return models.TierMaster
	case pos <= 100:
		return models.TierExpert
	default:
		return models.TierBeginner
	}
}

// RankTier computes the user's current tier over a full snapshot. This
// is O(U log U) per call; frequent readers go through the cached Top.
func (s *leaderboardService) RankTier(ctx context.Context, userID string) (models.RankTier, error) {
	all, err := s.statsRepo.ListAll(ctx)
	if err != nil {
		return "", fmt.Errorf("rank snapshot: %w", err)
	}
	sortByPoints(all)

	for i, stats := range all {
		if stats.UserID == userID {
			return tierForPosition(i + 1), nil
		}
	}
	return "", fmt.Errorf("rank for %s: %w", userID, models.ErrUserNotFound)
}

// Top lists the highest-scoring users. weekly and monthly restrict the
// set to users whose last scan falls inside the window before sorting.
func (s *leaderboardService) Top(ctx context.Context, limit int, timeframe string) (*models.LeaderboardResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	switch timeframe {
	case TimeframeAllTime, TimeframeWeekly, TimeframeMonthly:
	case "":
		timeframe = TimeframeAllTime
	default:
		return nil, fmt.Errorf("%w: unknown timeframe %q", models.ErrInvalidInput, timeframe)
	}

	if cached := s.cache.Get(ctx, timeframe, limit); cached != nil {
		return cached, nil
	}

	all, err := s.statsRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboard snapshot: %w", err)
	}

	var cutoff time.Time
	switch timeframe {
	case TimeframeWeekly:
		cutoff = s.now().UTC().AddDate(0, 0, -7)
	case TimeframeMonthly:
		cutoff = s.now().UTC().AddDate(0, 0, -30)
	}
	if !cutoff.IsZero() {
		filtered := all[:0]
		for _, stats := range all {
			if stats.LastScanDate != nil && !stats.LastScanDate.Before(cutoff) {
				filtered = append(filtered, stats)
			}
		}
		all = filtered
	}

	sortByPoints(all)

	total := len(all)
	if len(all) > limit {
		all = all[:limit]
	}

	entries := make([]models.LeaderboardEntry, 0, len(all))
	for i, stats := range all {
		entry := models.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      stats.UserID,
			TotalPoints: stats.TotalPoints,
			Level:       stats.Level,
			Tier:        tierForPosition(i + 1),
		}
		if user, err := s.userRepo.GetByID(ctx, stats.UserID); err == nil {
			entry.Username = user.Username
		}
		entries = append(entries, entry)
	}

	resp := &models.LeaderboardResponse{
		Timeframe:  timeframe,
		Entries:    entries,
		TotalUsers: total,
	}
	s.cache.Set(ctx, timeframe, limit, resp)
	return resp, nil
}

// MonthlyReport aggregates the user's events for one calendar month and
// compares scan volume against the prior 30-day window.
func (s *leaderboardService) MonthlyReport(ctx context.Context, userID, month string) (*models.MonthlyReport, error) {
	monthStart, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, fmt.Errorf("%w: month must be YYYY-MM", models.ErrInvalidInput)
	}
	monthEnd := monthStart.AddDate(0, 1, 0)
	prevStart := monthStart.AddDate(0, 0, -30)

	events, err := s.eventRepo.ListByUserBetween(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("monthly events: %w", err)
	}
	prevEvents, err := s.eventRepo.ListByUserBetween(ctx, userID, prevStart, monthStart)
	if err != nil {
		return nil, fmt.Errorf("prior window events: %w", err)
	}

	report := &models.MonthlyReport{
		UserID:     userID,
		Month:      month,
		ByCategory: map[models.Category]int{},
		PrevItems:  len(prevEvents),
	}
	for _, e := range events {
		report.ByCategory[e.Category]++
		report.TotalItems++
		report.TotalPoints += e.Points
		report.TotalCO2Kg += e.CO2Kg
	}

	report.ItemsDelta = report.TotalItems - report.PrevItems
	// Denominator floored at 1 so a quiet prior window cannot divide by
	// zero.
	denom := report.PrevItems
	if denom < 1 {
		denom = 1
	}
	report.ItemsDeltaPct = float64(report.ItemsDelta) / float64(denom) * 100

	return report, nil
}
