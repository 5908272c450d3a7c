// Package repository persists CleanCity records. SQL implementations run
// against PostgreSQL or sqlite through database/sql; in-memory
// implementations back unit tests and demo mode. Both honor the same
// contracts, in particular the optimistic-version discipline on
// UserStats.
package repository

import (
	"context"
	"time"

	"cleancity/pkg/models"
)

// UserStatsRepository stores per-user cumulative statistics.
//
// Save is a conditional write: it succeeds only when the stored version
// still equals stats.Version, then bumps the version. A mismatch returns
// models.ErrConflict so the aggregator can reload and retry.
type UserStatsRepository interface {
	Get(ctx context.Context, userID string) (*models.UserStats, error)
	GetOrCreate(ctx context.Context, userID string) (*models.UserStats, error)
	Save(ctx context.Context, stats *models.UserStats) error
	ListAll(ctx context.Context) ([]*models.UserStats, error)
}

// EventRepository appends and queries classification events.
type EventRepository interface {
	Append(ctx context.Context, event *models.ClassificationEvent) error
	ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]*models.ClassificationEvent, error)
}

// BinRepository stores disposal-bin locations.
type BinRepository interface {
	Create(ctx context.Context, bin *models.BinLocation) error
	GetByID(ctx context.Context, id string) (*models.BinLocation, error)
	List(ctx context.Context, status models.BinStatus) ([]models.BinLocation, error)
	Update(ctx context.Context, bin *models.BinLocation) error
}

// ReportRepository stores waste reports.
type ReportRepository interface {
	Create(ctx context.Context, report *models.WasteReport) error
	GetByID(ctx context.Context, id string) (*models.WasteReport, error)
	List(ctx context.Context, limit int) ([]*models.WasteReport, error)
	Update(ctx context.Context, report *models.WasteReport) error
}

// UserRepository stores registered accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, user *models.User) error
}
