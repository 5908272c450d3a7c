package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"cleancity/pkg/models"
)

// classify runs the classify-and-score pipeline for the authenticated
// user: classification, reward application and nearby-bin matching.
func (s *Server) classify(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondError(c, models.ErrUnauthorized)
		return
	}

	var req models.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		respondBadRequest(c, "latitude and longitude must be supplied together")
		return
	}

	resp, err := s.wasteSvc.ClassifyAndScore(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Data:      resp,
		Timestamp: time.Now(),
	})
}
