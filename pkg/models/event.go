package models

import (
	"time"
)

// ClassificationEvent is the append-only record of one classification
// call. Created once, never mutated.
type ClassificationEvent struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	RawLabel  string    `json:"raw_label" db:"raw_label"`
	Category  Category  `json:"category" db:"category"`
	Points    int       `json:"points" db:"points"`
	CO2Kg     float64   `json:"co2_kg" db:"co2_kg"`
	Latitude  *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude *float64  `json:"longitude,omitempty" db:"longitude"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// ClassifyRequest is the payload for the classify-and-score operation.
type ClassifyRequest struct {
	Item      string   `json:"item" binding:"required"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// ClassifyResponse carries the resolved category, the awarded rewards and
// any nearby bins accepting that category.
type ClassifyResponse struct {
	EventID    string             `json:"event_id"`
	Label      string             `json:"label"`
	Category   CategoryDefinition `json:"category"`
	Points     int                `json:"points_awarded"`
	CO2Kg      float64            `json:"co2_saved_kg"`
	NewBadges  []string           `json:"new_badges,omitempty"`
	Stats      *UserStats         `json:"stats"`
	NearbyBins []RankedBin        `json:"nearby_bins,omitempty"`
}
