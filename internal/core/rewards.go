package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cleancity/internal/repository"
	"cleancity/internal/rewards"
	"cleancity/pkg/logger"
	"cleancity/pkg/models"
)

// maxSaveAttempts bounds the optimistic retry loop before surfacing the
// conflict to the caller as a transient error.
const maxSaveAttempts = 3

// RewardsService applies scoring events to per-user statistics. It is
// the only mutation path for UserStats outside administrative edits.
type RewardsService interface {
	// ApplyEvent applies one classification to the user's record:
	// streak, counters, badges and level move as a single atomically
	// observed transition.
	ApplyEvent(ctx context.Context, userID string, category models.Category, points int, co2Delta float64) (*models.UserStats, []string, error)
	// ApplyBonus awards plain points (waste reports) through the same
	// transaction discipline.
	ApplyBonus(ctx context.Context, userID string, points int) (*models.UserStats, error)
}

type rewardsService struct {
	statsRepo repository.UserStatsRepository
	rules     []rewards.BadgeRule
	now       func() time.Time
	onChange  func() // optional hook, fired after a committed transition
}

// NewRewardsService creates the stats aggregator with the default badge
// rule set.
func NewRewardsService(statsRepo repository.UserStatsRepository) RewardsService {
	return &rewardsService{
		statsRepo: statsRepo,
		rules:     rewards.DefaultBadgeRules,
		now:       time.Now,
	}
}

// NewRewardsServiceWith creates an aggregator with explicit rules, clock
// and change hook. Used by the server wiring and by tests.
func NewRewardsServiceWith(statsRepo repository.UserStatsRepository, rules []rewards.BadgeRule, now func() time.Time, onChange func()) RewardsService {
	if now == nil {
		now = time.Now
	}
	return &rewardsService{statsRepo: statsRepo, rules: rules, now: now, onChange: onChange}
}

func (s *rewardsService) ApplyEvent(ctx context.Context, userID string, category models.Category, points int, co2Delta float64) (*models.UserStats, []string, error) {
	var committed *models.UserStats
	var newBadges []string

	err := s.withRetry(ctx, userID, func(prev *models.UserStats) *models.UserStats {
		result := rewards.ApplyEvent(prev, category, points, co2Delta, s.now(), s.rules)
		s.reportRuleErrors(result.RuleErrors)
		newBadges = newBadges[:0]
		for _, rule := range result.NewBadges {
			newBadges = append(newBadges, rule.Name)
			logger.Badge(userID, rule.Name, rule.Bonus)
		}
		committed = result.Stats
		return result.Stats
	})
	if err != nil {
		return nil, nil, err
	}
	return committed, newBadges, nil
}

func (s *rewardsService) ApplyBonus(ctx context.Context, userID string, points int) (*models.UserStats, error) {
	var committed *models.UserStats

	err := s.withRetry(ctx, userID, func(prev *models.UserStats) *models.UserStats {
		result := rewards.ApplyBonus(prev, points, s.now(), s.rules)
		s.reportRuleErrors(result.RuleErrors)
		for _, rule := range result.NewBadges {
			logger.Badge(userID, rule.Name, rule.Bonus)
		}
		committed = result.Stats
		return result.Stats
	})
	if err != nil {
		return nil, err
	}
	return committed, nil
}

// withRetry runs the load-compute-save cycle, restarting from the load
// when the conditional write hits a version conflict. The transition
// closure is pure, so rerunning it against the fresh record is safe and
// badge grants stay deduplicated.
func (s *rewardsService) withRetry(ctx context.Context, userID string, transition func(*models.UserStats) *models.UserStats) error {
	for attempt := 1; ; attempt++ {
		prev, err := s.statsRepo.GetOrCreate(ctx, userID)
		if err != nil {
			return fmt.Errorf("load user stats: %w", err)
		}

		next := transition(prev)

		err = s.statsRepo.Save(ctx, next)
		if err == nil {
			if s.onChange != nil {
				s.onChange()
			}
			return nil
		}
		if !errors.Is(err, models.ErrConflict) {
			return fmt.Errorf("save user stats: %w", err)
		}
		if attempt >= maxSaveAttempts {
			return fmt.Errorf("apply event for %s: %w", userID, models.ErrConflict)
		}
		logger.Conflict(userID, attempt)
	}
}

// Malformed rules are configuration errors: logged, never fatal, so one
// bad badge definition cannot block scoring.
func (s *rewardsService) reportRuleErrors(errs []error) {
	for _, err := range errs {
		logger.Errorf("badge rule skipped: %v", err)
	}
}
