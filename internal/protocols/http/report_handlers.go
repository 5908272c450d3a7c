package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"cleancity/pkg/models"
)

// createReport files a waste report for the authenticated user and
// awards the priority bonus.
func (s *Server) createReport(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondError(c, models.ErrUnauthorized)
		return
	}

	var req models.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	report, err := s.reportSvc.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(201, models.APIResponse{
		Success:   true,
		Message:   "Report filed successfully",
		Data:      report,
		Timestamp: time.Now(),
	})
}

// listReports returns the most recent waste reports
func (s *Server) listReports(c *gin.Context) {
	limit := 0
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}

	reports, err := s.reportSvc.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Data:      gin.H{"reports": reports, "count": len(reports)},
		Timestamp: time.Now(),
	})
}

// getReport returns a single waste report
func (s *Server) getReport(c *gin.Context) {
	report, err := s.reportSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Data:      report,
		Timestamp: time.Now(),
	})
}

// updateReportStatus moves a report through its lifecycle (admin only)
func (s *Server) updateReportStatus(c *gin.Context) {
	var req models.UpdateReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	report, err := s.reportSvc.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Message:   "Report status updated",
		Data:      report,
		Timestamp: time.Now(),
	})
}
