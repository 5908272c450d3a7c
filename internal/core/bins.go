package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cleancity/internal/geo"
	"cleancity/internal/repository"
	"cleancity/pkg/models"
)

// BinService manages the disposal-bin registry and proximity lookups.
type BinService interface {
	Create(ctx context.Context, req models.CreateBinRequest) (*models.BinLocation, error)
	Get(ctx context.Context, binID string) (*models.BinLocation, error)
	List(ctx context.Context, status models.BinStatus) ([]models.BinLocation, error)
	Update(ctx context.Context, binID string, req models.UpdateBinRequest) (*models.BinLocation, error)
	FindNearby(ctx context.Context, lat, lon float64, category models.Category, limit int, maxRadiusKm float64) ([]models.RankedBin, error)
}

type binService struct {
	binRepo repository.BinRepository
	now     func() time.Time
}

// NewBinService creates a new bin registry service
func NewBinService(binRepo repository.BinRepository) BinService {
	return &binService{binRepo: binRepo, now: time.Now}
}

func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fmt.Errorf("%w: coordinates out of range", models.ErrInvalidInput)
	}
	return nil
}

// Create registers a new bin. Status defaults to active and capacity to
// an empty bin when not supplied.
func (s *binService) Create(ctx context.Context, req models.CreateBinRequest) (*models.BinLocation, error) {
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}

	status := models.BinStatus(req.Status)
	if status == "" {
		status = models.BinStatusActive
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown bin status %q", models.ErrInvalidInput, req.Status)
	}
	if req.Capacity < 0 || req.Capacity > 100 {
		return nil, fmt.Errorf("%w: capacity must be within 0-100", models.ErrInvalidInput)
	}

	now := s.now().UTC()
	bin := &models.BinLocation{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Type:         req.Type,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Address:      req.Address,
		Status:       status,
		Capacity:     req.Capacity,
		Accepts:      req.Accepts,
		Timings:      req.Timings,
		Contact:      req.Contact,
		Instructions: req.Instructions,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if bin.Accepts == nil {
		bin.Accepts = []string{}
	}

	if err := s.binRepo.Create(ctx, bin); err != nil {
		return nil, fmt.Errorf("create bin: %w", err)
	}
	return bin, nil
}

// Get retrieves a single bin by ID
func (s *binService) Get(ctx context.Context, binID string) (*models.BinLocation, error) {
	bin, err := s.binRepo.GetByID(ctx, binID)
	if err != nil {
		return nil, fmt.Errorf("get bin %s: %w", binID, err)
	}
	return bin, nil
}

// List returns bins, optionally filtered by status.
func (s *binService) List(ctx context.Context, status models.BinStatus) ([]models.BinLocation, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown bin status %q", models.ErrInvalidInput, status)
	}
	bins, err := s.binRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list bins: %w", err)
	}
	return bins, nil
}

// Update changes a bin's status or fill level. Only the supplied fields
// move; name, type and location are immutable after creation.
func (s *binService) Update(ctx context.Context, binID string, req models.UpdateBinRequest) (*models.BinLocation, error) {
	bin, err := s.binRepo.GetByID(ctx, binID)
	if err != nil {
		return nil, fmt.Errorf("update bin %s: %w", binID, err)
	}

	if req.Status != nil {
		status := models.BinStatus(*req.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown bin status %q", models.ErrInvalidInput, *req.Status)
		}
		bin.Status = status
	}
	if req.Capacity != nil {
		if *req.Capacity < 0 || *req.Capacity > 100 {
			return nil, fmt.Errorf("%w: capacity must be within 0-100", models.ErrInvalidInput)
		}
		bin.Capacity = *req.Capacity
	}
	bin.UpdatedAt = s.now().UTC()

	if err := s.binRepo.Update(ctx, bin); err != nil {
		return nil, fmt.Errorf("update bin %s: %w", binID, err)
	}
	return bin, nil
}

// FindNearby returns the closest eligible active bins, nearest first.
func (s *binService) FindNearby(ctx context.Context, lat, lon float64, category models.Category, limit int, maxRadiusKm float64) ([]models.RankedBin, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", models.ErrInvalidInput, category)
	}
	if limit <= 0 {
		limit = nearbyBinLimit
	}

	bins, err := s.binRepo.List(ctx, models.BinStatusActive)
	if err != nil {
		return nil, fmt.Errorf("find nearby bins: %w", err)
	}
	return geo.FindNearest(bins, lat, lon, category, limit, maxRadiusKm), nil
}
