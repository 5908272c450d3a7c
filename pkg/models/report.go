package models

import (
	"time"
)

// ReportStatus enumerates waste-report lifecycle states.
type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "pending"
	ReportStatusInProgress ReportStatus = "in_progress"
	ReportStatusResolved   ReportStatus = "resolved"
)

// Valid reports whether s is a known report status.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusInProgress, ReportStatusResolved:
		return true
	}
	return false
}

// ReportPriority enumerates waste-report priorities.
type ReportPriority string

const (
	PriorityLow    ReportPriority = "low"
	PriorityMedium ReportPriority = "medium"
	PriorityHigh   ReportPriority = "high"
)

// reportPriorityPoints is the fixed priority-to-points table. Unknown or
// empty priorities fall back to the medium award.
var reportPriorityPoints = map[ReportPriority]int{
	PriorityLow:    3,
	PriorityMedium: 5,
	PriorityHigh:   10,
}

// Points returns the award for reporting at this priority.
func (p ReportPriority) Points() int {
	if pts, ok := reportPriorityPoints[p]; ok {
		return pts
	}
	return 5
}

// WasteReport is a citizen report of waste at a location. Immutable
// except for status and resolved_at.
type WasteReport struct {
	ID          string         `json:"id" db:"id"`
	UserID      string         `json:"user_id" db:"user_id"`
	Location    string         `json:"location" db:"location"`
	Latitude    float64        `json:"latitude" db:"latitude"`
	Longitude   float64        `json:"longitude" db:"longitude"`
	Description string         `json:"description" db:"description"`
	Status      ReportStatus   `json:"status" db:"status"`
	Priority    ReportPriority `json:"priority" db:"priority"`
	Timestamp   time.Time      `json:"timestamp" db:"timestamp"`
	ResolvedAt  *time.Time     `json:"resolved_at,omitempty" db:"resolved_at"`
}

// CreateReportRequest is the payload for filing a waste report.
type CreateReportRequest struct {
	Location    string  `json:"location" binding:"required"`
	Latitude    float64 `json:"latitude" binding:"required"`
	Longitude   float64 `json:"longitude" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Priority    string  `json:"priority"`
}

// UpdateReportStatusRequest moves a report through its lifecycle.
type UpdateReportStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
