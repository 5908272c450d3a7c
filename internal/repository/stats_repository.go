package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"cleancity/pkg/database"
	"cleancity/pkg/models"
)

type statsRepository struct {
	db *database.DB
}

// NewUserStatsRepository creates a SQL-backed user statistics repository
func NewUserStatsRepository(db *database.DB) UserStatsRepository {
	return &statsRepository{db: db}
}

const statsColumns = `user_id, total_points, items_scanned, items_recycled, compost_items,
	ewaste_items, co2_saved_kg, badges, daily_streak, last_scan_date, level,
	monthly_stats, version, created_at, updated_at`

// Get retrieves the statistics record for a user
func (r *statsRepository) Get(ctx context.Context, userID string) (*models.UserStats, error) {
	query := `SELECT ` + statsColumns + ` FROM user_stats WHERE user_id = $1`
	stats, err := r.scanStats(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get_user_stats: %w", models.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get_user_stats: %w", err)
	}
	return stats, nil
}

// GetOrCreate loads the record, lazily inserting all-zero defaults for a
// first-time user. The insert uses ON CONFLICT DO NOTHING so two
// concurrent first events race safely.
func (r *statsRepository) GetOrCreate(ctx context.Context, userID string) (*models.UserStats, error) {
	stats, err := r.Get(ctx, userID)
	if err == nil {
		return stats, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	fresh := models.NewUserStats(userID)
	badges, monthly, jsonErr := marshalStatsJSON(fresh)
	if jsonErr != nil {
		return nil, fmt.Errorf("init_user_stats: %w", jsonErr)
	}

	insert := `
		INSERT INTO user_stats (` + statsColumns + `)
		VALUES ($1, 0, 0, 0, 0, 0, 0, $2, 0, NULL, 1, $3, 1, $4, $5)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, insert, userID, badges, monthly, fresh.CreatedAt, fresh.UpdatedAt); err != nil {
		return nil, fmt.Errorf("init_user_stats: %w", err)
	}

	return r.Get(ctx, userID)
}

// Save writes the full record conditionally on the version read at load
// time. Zero rows affected means a concurrent writer got there first.
func (r *statsRepository) Save(ctx context.Context, stats *models.UserStats) error {
	badges, monthly, err := marshalStatsJSON(stats)
	if err != nil {
		return fmt.Errorf("save_user_stats: %w", err)
	}

	query := `
		UPDATE user_stats
		SET total_points = $3, items_scanned = $4, items_recycled = $5,
		    compost_items = $6, ewaste_items = $7, co2_saved_kg = $8,
		    badges = $9, daily_streak = $10, last_scan_date = $11,
		    level = $12, monthly_stats = $13, version = version + 1,
		    updated_at = $14
		WHERE user_id = $1 AND version = $2
	`
	result, err := r.db.ExecContext(ctx, query,
		stats.UserID,
		stats.Version,
		stats.TotalPoints,
		stats.ItemsScanned,
		stats.ItemsRecycled,
		stats.CompostItems,
		stats.EwasteItems,
		stats.CO2SavedKg,
		badges,
		stats.DailyStreak,
		stats.LastScanDate,
		stats.Level,
		monthly,
		stats.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save_user_stats: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save_user_stats: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("save_user_stats: %w", models.ErrConflict)
	}

	stats.Version++
	return nil
}

// ListAll returns a snapshot of every statistics record
func (r *statsRepository) ListAll(ctx context.Context) ([]*models.UserStats, error) {
	query := `SELECT ` + statsColumns + ` FROM user_stats ORDER BY user_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list_user_stats: %w", err)
	}
	defer rows.Close()

	var all []*models.UserStats
	for rows.Next() {
		stats, err := r.scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("scan_user_stats: %w", err)
		}
		all = append(all, stats)
	}
	return all, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *statsRepository) scanStats(row rowScanner) (*models.UserStats, error) {
	stats := &models.UserStats{}
	var badges, monthly []byte
	var lastScan sql.NullTime

	err := row.Scan(
		&stats.UserID,
		&stats.TotalPoints,
		&stats.ItemsScanned,
		&stats.ItemsRecycled,
		&stats.CompostItems,
		&stats.EwasteItems,
		&stats.CO2SavedKg,
		&badges,
		&stats.DailyStreak,
		&lastScan,
		&stats.Level,
		&monthly,
		&stats.Version,
		&stats.CreatedAt,
		&stats.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastScan.Valid {
		t := lastScan.Time.UTC()
		stats.LastScanDate = &t
	}
	if err := json.Unmarshal(badges, &stats.Badges); err != nil {
		return nil, fmt.Errorf("decode badges: %w", err)
	}
	if err := json.Unmarshal(monthly, &stats.MonthlyStats); err != nil {
		return nil, fmt.Errorf("decode monthly stats: %w", err)
	}
	return stats, nil
}

// Badges and monthly snapshots are stored as JSON text so the same SQL
// runs on both backends.
func marshalStatsJSON(stats *models.UserStats) ([]byte, []byte, error) {
	badges, err := json.Marshal(stats.Badges)
	if err != nil {
		return nil, nil, err
	}
	monthly, err := json.Marshal(stats.MonthlyStats)
	if err != nil {
		return nil, nil, err
	}
	return badges, monthly, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrUserNotFound) ||
		errors.Is(err, models.ErrBinNotFound) ||
		errors.Is(err, models.ErrReportNotFound) ||
		errors.Is(err, models.ErrNotFound)
}
