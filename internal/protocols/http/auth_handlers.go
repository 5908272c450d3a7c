package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"cleancity/pkg/models"
)

// register handles user registration
func (s *Server) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := s.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(201, models.APIResponse{
		Success:   true,
		Message:   "User registered successfully",
		Data:      gin.H{"user": user},
		Timestamp: time.Now(),
	})
}

// login handles user authentication
func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	resp, err := s.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.APIResponse{
		Success:   true,
		Message:   "Login successful",
		Data:      resp,
		Timestamp: time.Now(),
	})
}
