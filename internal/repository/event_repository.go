package repository

import (
	"context"
	"fmt"
	"time"

	"cleancity/pkg/database"
	"cleancity/pkg/models"
)

type eventRepository struct {
	db *database.DB
}

// NewEventRepository creates a SQL-backed classification event log
func NewEventRepository(db *database.DB) EventRepository {
	return &eventRepository{db: db}
}

// Append inserts one immutable classification event
func (r *eventRepository) Append(ctx context.Context, event *models.ClassificationEvent) error {
	query := `
		INSERT INTO classification_events
			(id, user_id, raw_label, category, points, co2_kg, latitude, longitude, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.UserID,
		event.RawLabel,
		string(event.Category),
		event.Points,
		event.CO2Kg,
		event.Latitude,
		event.Longitude,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append_event: %w", err)
	}
	return nil
}

// ListByUserBetween returns the user's events with timestamp in [from, to)
func (r *eventRepository) ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]*models.ClassificationEvent, error) {
	query := `
		SELECT id, user_id, raw_label, category, points, co2_kg, latitude, longitude, timestamp
		FROM classification_events
		WHERE user_id = $1 AND timestamp >= $2 AND timestamp < $3
		ORDER BY timestamp
	`
	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list_events: %w", err)
	}
	defer rows.Close()

	var events []*models.ClassificationEvent
	for rows.Next() {
		event := &models.ClassificationEvent{}
		var category string
		if err := rows.Scan(
			&event.ID,
			&event.UserID,
			&event.RawLabel,
			&category,
			&event.Points,
			&event.CO2Kg,
			&event.Latitude,
			&event.Longitude,
			&event.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan_event: %w", err)
		}
		event.Category = models.Category(category)
		events = append(events, event)
	}
	return events, rows.Err()
}
