package models

import (
	"strings"
	"time"
)

// BinStatus enumerates disposal-bin operational states.
type BinStatus string

const (
	BinStatusActive      BinStatus = "active"
	BinStatusFull        BinStatus = "full"
	BinStatusMaintenance BinStatus = "maintenance"
)

// Valid reports whether s is a known bin status.
func (s BinStatus) Valid() bool {
	switch s {
	case BinStatusActive, BinStatusFull, BinStatusMaintenance:
		return true
	}
	return false
}

// BinLocation is a physical disposal location. Capacity and status are
// mutated by administrative calls; everything else is set on creation.
type BinLocation struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Type         string    `json:"type" db:"type"` // coarse legacy type, e.g. "recycling"
	Latitude     float64   `json:"latitude" db:"latitude"`
	Longitude    float64   `json:"longitude" db:"longitude"`
	Address      string    `json:"address" db:"address"`
	Status       BinStatus `json:"status" db:"status"`
	Capacity     int       `json:"capacity" db:"capacity"` // fill percentage 0-100
	Accepts      []string  `json:"accepts" db:"accepts"`   // accepted category names
	Timings      string    `json:"timings" db:"timings"`
	Contact      string    `json:"contact,omitempty" db:"contact"`
	Instructions string    `json:"instructions,omitempty" db:"instructions"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// AcceptsCategory reports whether the bin takes the given category,
// either through its accepted-category set or through the coarse legacy
// type field. Both checks are case-insensitive and deliberately ORed.
func (b *BinLocation) AcceptsCategory(category Category) bool {
	want := strings.ToLower(string(category))
	for _, a := range b.Accepts {
		if strings.ToLower(a) == want {
			return true
		}
	}
	return strings.ToLower(b.Type) == want
}

// RankedBin pairs a bin with its distance from the query point.
type RankedBin struct {
	Bin        BinLocation `json:"bin"`
	DistanceKm float64     `json:"distance_km"`
}

// CreateBinRequest is the administrative payload for registering a bin.
type CreateBinRequest struct {
	Name         string   `json:"name" binding:"required"`
	Type         string   `json:"type" binding:"required"`
	Latitude     float64  `json:"latitude" binding:"required"`
	Longitude    float64  `json:"longitude" binding:"required"`
	Address      string   `json:"address" binding:"required"`
	Status       string   `json:"status"`
	Capacity     int      `json:"capacity"`
	Accepts      []string `json:"accepts"`
	Timings      string   `json:"timings"`
	Contact      string   `json:"contact"`
	Instructions string   `json:"instructions"`
}

// UpdateBinRequest mutates status and/or capacity of an existing bin.
type UpdateBinRequest struct {
	Status   *string `json:"status,omitempty"`
	Capacity *int    `json:"capacity,omitempty"`
}
