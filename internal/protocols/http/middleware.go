package http

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"cleancity/internal/core"
	"cleancity/pkg/models"
)

// AuthMiddleware validates JWT token and sets user context
func AuthMiddleware(authSvc core.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondAppError(c, models.NewHTTPError(
				models.ErrCodeUnauthorized, "missing authorization header", 401, models.ErrUnauthorized))
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondAppError(c, models.NewHTTPError(
				models.ErrCodeUnauthorized, "invalid authorization format", 401, models.ErrUnauthorized))
			return
		}

		user, err := authSvc.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			respondError(c, models.ErrInvalidToken)
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Next()
	}
}

// GetUserID extracts user ID from gin context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}

// GetUser retrieves the full authenticated user from the context
func GetUser(c *gin.Context) (*models.User, bool) {
	user, exists := c.Get("user")
	if !exists {
		return nil, false
	}

	u, ok := user.(*models.User)
	return u, ok
}

// AdminMiddleware ensures the user has admin role. Must run after
// AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := GetUser(c)
		if !exists {
			respondError(c, models.ErrUnauthorized)
			return
		}

		if !user.HasRole(models.UserRoleAdmin) {
			respondError(c, models.ErrForbidden)
			return
		}

		c.Next()
	}
}

// RateLimitMiddleware throttles requests per authenticated user, falling
// back to the client IP for anonymous calls. Limiters are kept for the
// lifetime of the process; the key space is bounded by the user base.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 10
	}

	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if l, ok := limiters[key]; ok {
			return l
		}
		l := rate.NewLimiter(rate.Limit(rps), burst)
		limiters[key] = l
		return l
	}

	return func(c *gin.Context) {
		key, ok := GetUserID(c)
		if !ok {
			key = c.ClientIP()
		}

		if !limiterFor(key).Allow() {
			c.JSON(429, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
