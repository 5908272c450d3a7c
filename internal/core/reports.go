package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cleancity/internal/repository"
	"cleancity/pkg/logger"
	"cleancity/pkg/models"
)

// ReportService manages citizen waste reports and the point awards that
// go with them.
type ReportService interface {
	Create(ctx context.Context, userID string, req models.CreateReportRequest) (*models.WasteReport, error)
	Get(ctx context.Context, reportID string) (*models.WasteReport, error)
	List(ctx context.Context, limit int) ([]*models.WasteReport, error)
	UpdateStatus(ctx context.Context, reportID string, req models.UpdateReportStatusRequest) (*models.WasteReport, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
	rewardsSvc RewardsService
	now        func() time.Time
}

// NewReportService creates a new waste report service
func NewReportService(reportRepo repository.ReportRepository, rewardsSvc RewardsService) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		rewardsSvc: rewardsSvc,
		now:        time.Now,
	}
}

// Create files a report and awards the reporter the fixed bonus for its
// priority. The report itself is the source of truth; a failed award is
// logged but does not roll the report back.
func (s *reportService) Create(ctx context.Context, userID string, req models.CreateReportRequest) (*models.WasteReport, error) {
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}

	priority := models.ReportPriority(req.Priority)
	if priority == "" {
		priority = models.PriorityMedium
	}
	switch priority {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
	default:
		return nil, fmt.Errorf("%w: unknown priority %q", models.ErrInvalidInput, req.Priority)
	}

	report := &models.WasteReport{
		ID:          uuid.New().String(),
		UserID:      userID,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Description: req.Description,
		Status:      models.ReportStatusPending,
		Priority:    priority,
		Timestamp:   s.now().UTC(),
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	if _, err := s.rewardsSvc.ApplyBonus(ctx, userID, priority.Points()); err != nil {
		logger.Errorf("failed to award report bonus to %s: %v", userID, err)
	}

	return report, nil
}

// Get retrieves a single report by ID
func (s *reportService) Get(ctx context.Context, reportID string) (*models.WasteReport, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", reportID, err)
	}
	return report, nil
}

// List returns the most recent reports.
func (s *reportService) List(ctx context.Context, limit int) ([]*models.WasteReport, error) {
	reports, err := s.reportRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// UpdateStatus moves a report through its lifecycle. Reaching resolved
// stamps resolved_at; leaving resolved clears it.
func (s *reportService) UpdateStatus(ctx context.Context, reportID string, req models.UpdateReportStatusRequest) (*models.WasteReport, error) {
	status := models.ReportStatus(req.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown report status %q", models.ErrInvalidInput, req.Status)
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("update report %s: %w", reportID, err)
	}

	report.Status = status
	if status == models.ReportStatusResolved {
		resolvedAt := s.now().UTC()
		report.ResolvedAt = &resolvedAt
	} else {
		report.ResolvedAt = nil
	}

	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, fmt.Errorf("update report %s: %w", reportID, err)
	}
	return report, nil
}
