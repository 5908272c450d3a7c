package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"cleancity/pkg/models"
)

// getLeaderboard returns the top users for a timeframe
func (s *Server) getLeaderboard(c *gin.Context) {
	limit := 10
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	timeframe := c.Query("timeframe")

	board, err := s.leaderboardSvc.Top(c.Request.Context(), limit, timeframe)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Data:      board,
		Timestamp: time.Now(),
	})
}
