package models

import (
	"time"
)

// RankTier is a coarse leaderboard-position label.
type RankTier string

const (
	TierLegend   RankTier = "Legend"
	TierMaster   RankTier = "Master"
	TierExpert   RankTier = "Expert"
	TierBeginner RankTier = "Beginner"
)

// MonthlySnapshot aggregates a user's activity for one calendar month.
type MonthlySnapshot struct {
	Items  int     `json:"items"`
	Points int     `json:"points"`
	CO2Kg  float64 `json:"co2_kg"`
}

// UserStats is the per-user cumulative statistics record. Created lazily
// on the first event for a user, mutated only through the rewards
// aggregator (and rank refresh), never deleted.
//
// Version is the optimistic-concurrency counter used by the storage
// layer; it is not part of the API surface.
type UserStats struct {
	UserID       string                     `json:"user_id" db:"user_id"`
	TotalPoints  int                        `json:"total_points" db:"total_points"`
	ItemsScanned int                        `json:"items_scanned" db:"items_scanned"`
	ItemsRecycled int                       `json:"items_recycled" db:"items_recycled"`
	CompostItems int                        `json:"compost_items" db:"compost_items"`
	EwasteItems  int                        `json:"ewaste_items" db:"ewaste_items"`
	CO2SavedKg   float64                    `json:"co2_saved_kg" db:"co2_saved_kg"`
	Badges       []string                   `json:"badges" db:"badges"`
	DailyStreak  int                        `json:"daily_streak" db:"daily_streak"`
	LastScanDate *time.Time                 `json:"last_scan_date,omitempty" db:"last_scan_date"`
	Level        int                        `json:"level" db:"level"`
	Rank         *RankTier                  `json:"rank,omitempty" db:"-"`
	MonthlyStats map[string]MonthlySnapshot `json:"monthly_stats" db:"monthly_stats"`
	Version      int64                      `json:"-" db:"version"`
	CreatedAt    time.Time                  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at" db:"updated_at"`
}

// NewUserStats returns an all-zero record for a first-time user.
func NewUserStats(userID string) *UserStats {
	now := time.Now().UTC()
	return &UserStats{
		UserID:       userID,
		Badges:       []string{},
		Level:        1,
		MonthlyStats: map[string]MonthlySnapshot{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// HasBadge reports whether the badge was already granted.
func (s *UserStats) HasBadge(name string) bool {
	for _, b := range s.Badges {
		if b == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so concurrent readers never observe a record
// mid-mutation.
func (s *UserStats) Clone() *UserStats {
	dup := *s
	dup.Badges = append([]string(nil), s.Badges...)
	dup.MonthlyStats = make(map[string]MonthlySnapshot, len(s.MonthlyStats))
	for k, v := range s.MonthlyStats {
		dup.MonthlyStats[k] = v
	}
	if s.LastScanDate != nil {
		t := *s.LastScanDate
		dup.LastScanDate = &t
	}
	if s.Rank != nil {
		r := *s.Rank
		dup.Rank = &r
	}
	return &dup
}

// LeaderboardEntry represents one row of a leaderboard listing.
type LeaderboardEntry struct {
	Rank        int      `json:"rank"`
	UserID      string   `json:"user_id"`
	Username    string   `json:"username,omitempty"`
	TotalPoints int      `json:"total_points"`
	Level       int      `json:"level"`
	Tier        RankTier `json:"tier"`
}

// LeaderboardResponse is the API payload for leaderboard listings.
type LeaderboardResponse struct {
	Timeframe  string             `json:"timeframe"`
	Entries    []LeaderboardEntry `json:"entries"`
	TotalUsers int                `json:"total_users"`
}

// MonthlyReport aggregates a user's classification events for one month
// and compares scan volume against the prior 30-day window.
type MonthlyReport struct {
	UserID      string           `json:"user_id"`
	Month       string           `json:"month"` // YYYY-MM
	ByCategory  map[Category]int `json:"by_category"`
	TotalItems  int              `json:"total_items"`
	TotalPoints int              `json:"total_points"`
	TotalCO2Kg  float64          `json:"total_co2_kg"`
	PrevItems   int              `json:"previous_items"`
	ItemsDelta  int              `json:"items_delta"`
	ItemsDeltaPct float64        `json:"items_delta_pct"`
}
