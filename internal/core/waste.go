package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cleancity/internal/geo"
	"cleancity/internal/repository"
	"cleancity/internal/taxonomy"
	"cleancity/pkg/logger"
	"cleancity/pkg/models"
)

// nearbyBinLimit caps the bins attached to a classify response.
const nearbyBinLimit = 3

// WasteService runs the classify-and-score pipeline: upstream classify,
// normalize, apply rewards, record the event, and attach nearby bins
// when the caller supplied coordinates.
type WasteService interface {
	ClassifyAndScore(ctx context.Context, userID string, req models.ClassifyRequest) (*models.ClassifyResponse, error)
}

type wasteService struct {
	classifier Classifier
	rewardsSvc RewardsService
	eventRepo  repository.EventRepository
	binRepo    repository.BinRepository
	now        func() time.Time
}

// NewWasteService creates the classification pipeline service
func NewWasteService(classifier Classifier, rewardsSvc RewardsService, eventRepo repository.EventRepository, binRepo repository.BinRepository) WasteService {
	return &wasteService{
		classifier: classifier,
		rewardsSvc: rewardsSvc,
		eventRepo:  eventRepo,
		binRepo:    binRepo,
		now:        time.Now,
	}
}

func (s *wasteService) ClassifyAndScore(ctx context.Context, userID string, req models.ClassifyRequest) (*models.ClassifyResponse, error) {
	// Upstream failure leaves stats untouched and records nothing.
	label, guess, err := s.classifier.Classify(ctx, req.Item)
	if err != nil {
		return nil, fmt.Errorf("classify %q: %w", req.Item, err)
	}

	def := taxonomy.Normalize(label, guess)

	stats, newBadges, err := s.rewardsSvc.ApplyEvent(ctx, userID, def.Name, def.Points, def.CO2PerItem)
	if err != nil {
		return nil, fmt.Errorf("apply rewards: %w", err)
	}

	event := &models.ClassificationEvent{
		ID:        uuid.New().String(),
		UserID:    userID,
		RawLabel:  label,
		Category:  def.Name,
		Points:    def.Points,
		CO2Kg:     def.CO2PerItem,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Timestamp: s.now().UTC(),
	}
	if err := s.eventRepo.Append(ctx, event); err != nil {
		// The rewards transition already committed; losing the event row
		// only degrades monthly reporting.
		logger.Errorf("failed to record classification event: %v", err)
	}

	logger.Classification(userID, label, string(def.Name), def.Points)

	resp := &models.ClassifyResponse{
		EventID:   event.ID,
		Label:     label,
		Category:  *def,
		Points:    def.Points,
		CO2Kg:     def.CO2PerItem,
		NewBadges: newBadges,
		Stats:     stats,
	}

	if req.Latitude != nil && req.Longitude != nil {
		bins, err := s.binRepo.List(ctx, models.BinStatusActive)
		if err != nil {
			logger.Errorf("failed to list bins for classify response: %v", err)
		} else {
			resp.NearbyBins = geo.FindNearest(bins, *req.Latitude, *req.Longitude, def.Name, nearbyBinLimit, 0)
		}
	}

	return resp, nil
}
