package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"cleancity/pkg/models"
)

// getUserStats returns the cumulative statistics for a user, including a
// freshly computed rank tier. Unknown users get an all-zero record.
func (s *Server) getUserStats(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		respondBadRequest(c, "user id is required")
		return
	}

	stats, err := s.statsSvc.GetUserStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Data:      stats,
		Timestamp: time.Now(),
	})
}

// getMonthlyReport returns the per-category aggregation for one calendar
// month, with a comparison against the prior 30-day window.
func (s *Server) getMonthlyReport(c *gin.Context) {
	userID := c.Param("id")
	month := c.Query("month")
	if month == "" {
		month = time.Now().UTC().Format("2006-01")
	}

	report, err := s.leaderboardSvc.MonthlyReport(c.Request.Context(), userID, month)
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
