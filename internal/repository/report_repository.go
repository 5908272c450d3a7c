package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cleancity/pkg/database"
	"cleancity/pkg/models"
)

type reportRepository struct {
	db *database.DB
}

// NewReportRepository creates a SQL-backed waste report repository
func NewReportRepository(db *database.DB) ReportRepository {
	return &reportRepository{db: db}
}

const reportColumns = `id, user_id, location, latitude, longitude, description,
	status, priority, timestamp, resolved_at`

// Create inserts a new waste report
func (r *reportRepository) Create(ctx context.Context, report *models.WasteReport) error {
	query := `
		INSERT INTO waste_reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.UserID, report.Location, report.Latitude,
		report.Longitude, report.Description, string(report.Status),
		string(report.Priority), report.Timestamp, report.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("create_report: %w", err)
	}
	return nil
}

// GetByID retrieves a report by ID
func (r *reportRepository) GetByID(ctx context.Context, id string) (*models.WasteReport, error) {
	query := `SELECT ` + reportColumns + ` FROM waste_reports WHERE id = $1`
	report, err := scanReport(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get_report: %w", models.ErrReportNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get_report: %w", err)
	}
	return report, nil
}

// List returns the most recent reports, newest first
func (r *reportRepository) List(ctx context.Context, limit int) ([]*models.WasteReport, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := `SELECT ` + reportColumns + ` FROM waste_reports ORDER BY timestamp DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list_reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.WasteReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan_report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// Update writes status and resolved_at; other fields are immutable
func (r *reportRepository) Update(ctx context.Context, report *models.WasteReport) error {
	query := `
		UPDATE waste_reports
		SET status = $2, resolved_at = $3
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, report.ID, string(report.Status), report.ResolvedAt)
	if err != nil {
		return fmt.Errorf("update_report: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update_report: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update_report: %w", models.ErrReportNotFound)
	}
	return nil
}

func scanReport(row rowScanner) (*models.WasteReport, error) {
	report := &models.WasteReport{}
	var status, priority string
	var resolvedAt sql.NullTime

	err := row.Scan(
		&report.ID, &report.UserID, &report.Location, &report.Latitude,
		&report.Longitude, &report.Description, &status, &priority,
		&report.Timestamp, &resolvedAt,
	)
	if err != nil {
		return nil, err
	}

	report.Status = models.ReportStatus(status)
	report.Priority = models.ReportPriority(priority)
	if resolvedAt.Valid {
		t := resolvedAt.Time
		report.ResolvedAt = &t
	}
	return report, nil
}
