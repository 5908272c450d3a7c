package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cleancity/pkg/models"
)

// In-memory repositories back unit tests and demo mode. They honor the
// same contracts as the SQL implementations, including the conditional
// write on UserStats.Version.

// MemoryStatsRepository is a mutex-guarded UserStatsRepository.
type MemoryStatsRepository struct {
	mu    sync.Mutex
	stats map[string]*models.UserStats
}

// NewMemoryStatsRepository creates an empty in-memory stats store
func NewMemoryStatsRepository() *MemoryStatsRepository {
	return &MemoryStatsRepository{stats: map[string]*models.UserStats{}}
}

func (r *MemoryStatsRepository) Get(ctx context.Context, userID string) (*models.UserStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.stats[userID]
	if !ok {
		return nil, fmt.Errorf("get_user_stats: %w", models.ErrUserNotFound)
	}
	return stats.Clone(), nil
}

func (r *MemoryStatsRepository) GetOrCreate(ctx context.Context, userID string) (*models.UserStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.stats[userID]
	if !ok {
		stats = models.NewUserStats(userID)
		stats.Version = 1
		r.stats[userID] = stats
	}
	return stats.Clone(), nil
}

// Save is a compare-and-swap on the version counter, mirroring the SQL
// conditional write.
func (r *MemoryStatsRepository) Save(ctx context.Context, stats *models.UserStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.stats[stats.UserID]
	if !ok {
		return fmt.Errorf("save_user_stats: %w", models.ErrUserNotFound)
	}
	if current.Version != stats.Version {
		return fmt.Errorf("save_user_stats: %w", models.ErrConflict)
	}
	committed := stats.Clone()
	committed.Version++
	r.stats[stats.UserID] = committed
	stats.Version++
	return nil
}

func (r *MemoryStatsRepository) ListAll(ctx context.Context) ([]*models.UserStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*models.UserStats, 0, len(r.stats))
	for _, s := range r.stats {
		all = append(all, s.Clone())
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	return all, nil
}

// MemoryEventRepository is an append-only in-memory event log.
type MemoryEventRepository struct {
	mu     sync.Mutex
	events []*models.ClassificationEvent
}

// NewMemoryEventRepository creates an empty in-memory event log
func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{}
}

func (r *MemoryEventRepository) Append(ctx context.Context, event *models.ClassificationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dup := *event
	r.events = append(r.events, &dup)
	return nil
}

func (r *MemoryEventRepository) ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]*models.ClassificationEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ClassificationEvent
	for _, e := range r.events {
		if e.UserID != userID {
			continue
		}
		if e.Timestamp.Before(from) || !e.Timestamp.Before(to) {
			continue
		}
		dup := *e
		out = append(out, &dup)
	}
	return out, nil
}

// MemoryBinRepository stores bins in insertion order.
type MemoryBinRepository struct {
	mu   sync.Mutex
	bins []models.BinLocation
}

// NewMemoryBinRepository creates an empty in-memory bin store
func NewMemoryBinRepository() *MemoryBinRepository {
	return &MemoryBinRepository{}
}

func (r *MemoryBinRepository) Create(ctx context.Context, bin *models.BinLocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bins = append(r.bins, *bin)
	return nil
}

func (r *MemoryBinRepository) GetByID(ctx context.Context, id string) (*models.BinLocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bins {
		if r.bins[i].ID == id {
			dup := r.bins[i]
			return &dup, nil
		}
	}
	return nil, fmt.Errorf("get_bin: %w", models.ErrBinNotFound)
}

func (r *MemoryBinRepository) List(ctx context.Context, status models.BinStatus) ([]models.BinLocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.BinLocation, 0, len(r.bins))
	for _, b := range r.bins {
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *MemoryBinRepository) Update(ctx context.Context, bin *models.BinLocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bins {
		if r.bins[i].ID == bin.ID {
			r.bins[i] = *bin
			return nil
		}
	}
	return fmt.Errorf("update_bin: %w", models.ErrBinNotFound)
}

// MemoryReportRepository stores waste reports.
type MemoryReportRepository struct {
	mu      sync.Mutex
	reports []*models.WasteReport
}

// NewMemoryReportRepository creates an empty in-memory report store
func NewMemoryReportRepository() *MemoryReportRepository {
	return &MemoryReportRepository{}
}

func (r *MemoryReportRepository) Create(ctx context.Context, report *models.WasteReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dup := *report
	r.reports = append(r.reports, &dup)
	return nil
}

func (r *MemoryReportRepository) GetByID(ctx context.Context, id string) (*models.WasteReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rep := range r.reports {
		if rep.ID == id {
			dup := *rep
			return &dup, nil
		}
	}
	return nil, fmt.Errorf("get_report: %w", models.ErrReportNotFound)
}

func (r *MemoryReportRepository) List(ctx context.Context, limit int) ([]*models.WasteReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	out := make([]*models.WasteReport, 0, len(r.reports))
	for _, rep := range r.reports {
		dup := *rep
		out = append(out, &dup)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryReportRepository) Update(ctx context.Context, report *models.WasteReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rep := range r.reports {
		if rep.ID == report.ID {
			dup := *report
			r.reports[i] = &dup
			return nil
		}
	}
	return fmt.Errorf("update_report: %w", models.ErrReportNotFound)
}

// MemoryUserRepository stores registered accounts.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*models.User
}

// NewMemoryUserRepository creates an empty in-memory user store
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: map[string]*models.User{}}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return fmt.Errorf("create_user: %w", models.ErrUsernameExists)
		}
	}
	dup := *user
	r.users[user.ID] = &dup
	return nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("get_user: %w", models.ErrUserNotFound)
	}
	dup := *u
	return &dup, nil
}

func (r *MemoryUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			dup := *u
			return &dup, nil
		}
	}
	return nil, fmt.Errorf("get_user: %w", models.ErrUserNotFound)
}

func (r *MemoryUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryUserRepository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("update_user: %w", models.ErrUserNotFound)
	}
	dup := *user
	r.users[user.ID] = &dup
	return nil
}
