package core

import (
	"context"
	"fmt"

	"cleancity/internal/repository"
	"cleancity/pkg/models"
)

// StatsService defines read access to per-user statistics.
type StatsService interface {
	GetUserStats(ctx context.Context, userID string) (*models.UserStats, error)
}

type statsService struct {
	statsRepo      repository.UserStatsRepository
	leaderboardSvc LeaderboardService
}

// NewStatsService creates a new statistics read service
func NewStatsService(statsRepo repository.UserStatsRepository, leaderboardSvc LeaderboardService) StatsService {
	return &statsService{
		statsRepo:      statsRepo,
		leaderboardSvc: leaderboardSvc,
	}
}

// GetUserStats returns the user's record with a freshly computed rank
// tier. First-time users get an all-zero record rather than a 404.
func (s *statsService) GetUserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	stats, err := s.statsRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get_user_stats: %w", err)
	}

	tier, err := s.leaderboardSvc.RankTier(ctx, userID)
	if err != nil {
		// The record exists; a rank failure should not hide it.
		return stats, nil
	}
	stats.Rank = &tier
	return stats, nil
}
