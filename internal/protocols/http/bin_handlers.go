package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"cleancity/pkg/models"
)

// listBins returns registered bins, optionally filtered by status
func (s *Server) listBins(c *gin.Context) {
	status := models.BinStatus(c.Query("status"))

	bins, err := s.binSvc.List(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Data:      gin.H{"bins": bins, "count": len(bins)},
		Timestamp: time.Now(),
	})
}

// nearbyBins returns the closest active bins for a location, optionally
// restricted to bins accepting a category.
func (s *Server) nearbyBins(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		respondBadRequest(c, "lat and lon query parameters are required")
		return
	}

	category := models.Category(c.Query("category"))

	limit := 0
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 50 {
			limit = v
		}
	}

	radiusKm := 0.0
	if r := c.Query("radius_km"); r != "" {
		if v, err := strconv.ParseFloat(r, 64); err == nil && v > 0 {
			radiusKm = v
		}
	}

	ranked, err := s.binSvc.FindNearby(c.Request.Context(), lat, lon, category, limit, radiusKm)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Data:      gin.H{"bins": ranked, "count": len(ranked)},
		Timestamp: time.Now(),
	})
}

// getBin returns a single bin
func (s *Server) getBin(c *gin.Context) {
	bin, err := s.binSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Data:      bin,
		Timestamp: time.Now(),
	})
}

// createBin registers a new bin (admin only)
func (s *Server) createBin(c *gin.Context) {
	var req models.CreateBinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	bin, err := s.binSvc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(201, models.APIResponse{
		Success:   true,
		Message:   "Bin registered successfully",
		Data:      bin,
		Timestamp: time.Now(),
	})
}

// updateBin changes a bin's status or fill level (admin only)
func (s *Server) updateBin(c *gin.Context) {
	var req models.UpdateBinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	bin, err := s.binSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Message:   "Bin updated successfully",
		Data:      bin,
		Timestamp: time.Now(),
	})
}
