// Package http exposes the REST API: classification, statistics, bins,
// waste reports, leaderboards and authentication.
package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"cleancity/internal/core"
	"cleancity/internal/protocols/websocket"
	"cleancity/pkg/config"
	"cleancity/pkg/database"
	"cleancity/pkg/logger"
)

// Server manages the HTTP REST API server
type Server struct {
	router         *gin.Engine
	config         *config.Config
	db             *database.DB
	authSvc        core.AuthService
	wasteSvc       core.WasteService
	statsSvc       core.StatsService
	binSvc         core.BinService
	reportSvc      core.ReportService
	leaderboardSvc core.LeaderboardService
	wsHandler      *websocket.Handler
}

// NewServer creates a new HTTP server with all handlers
func NewServer(
	cfg *config.Config,
	db *database.DB,
	authSvc core.AuthService,
	wasteSvc core.WasteService,
	statsSvc core.StatsService,
	binSvc core.BinService,
	reportSvc core.ReportService,
	leaderboardSvc core.LeaderboardService,
	wsHandler *websocket.Handler,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestLogger())
	router.Use(corsMiddleware())

	s := &Server{
		router:         router,
		config:         cfg,
		db:             db,
		authSvc:        authSvc,
		wasteSvc:       wasteSvc,
		statsSvc:       statsSvc,
		binSvc:         binSvc,
		reportSvc:      reportSvc,
		leaderboardSvc: leaderboardSvc,
		wsHandler:      wsHandler,
	}

	s.setupRoutes()
	return s
}

// setupRoutes registers all HTTP routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.healthCheck)

	// Live leaderboard feed (public)
	if s.wsHandler != nil {
		s.router.GET("/ws/leaderboard", s.wsHandler.HandleWebSocket)
		s.router.GET("/ws/leaderboard/status", s.wsHandler.Status)
	}

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", s.register)
			auth.POST("/login", s.login)
		}

		// Classification (authenticated, rate limited per client)
		classify := v1.Group("", AuthMiddleware(s.authSvc),
			RateLimitMiddleware(s.config.Server.ClassifyRate, s.config.Server.ClassifyBurst))
		{
			classify.POST("/classify", s.classify)
		}

		// Statistics and reporting (public)
		v1.GET("/users/:id/stats", s.getUserStats)
		v1.GET("/users/:id/report", s.getMonthlyReport)
		v1.GET("/leaderboard", s.getLeaderboard)

		// Bin routes
		v1.GET("/bins", s.listBins)          // Public: list bins
		v1.GET("/bins/nearby", s.nearbyBins) // Public: proximity search
		v1.GET("/bins/:id", s.getBin)        // Public: single bin

		adminBins := v1.Group("", AuthMiddleware(s.authSvc), AdminMiddleware())
		{
			adminBins.POST("/bins", s.createBin)      // Register bin
			adminBins.PATCH("/bins/:id", s.updateBin) // Status / fill level
		}

		// Waste report routes
		v1.GET("/reports", s.listReports)    // Public: recent reports
		v1.GET("/reports/:id", s.getReport)  // Public: single report

		protectedReports := v1.Group("", AuthMiddleware(s.authSvc))
		{
			protectedReports.POST("/reports", s.createReport) // File a report
		}

		adminReports := v1.Group("", AuthMiddleware(s.authSvc), AdminMiddleware())
		{
			adminReports.PATCH("/reports/:id/status", s.updateReportStatus)
		}
	}
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Router returns the gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// requestLogger logs each request through the structured logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := int(time.Since(start).Milliseconds())
		logger.HTTP(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), latency)
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// healthCheck returns server health status
func (s *Server) healthCheck(c *gin.Context) {
	status := "ok"
	if s.db != nil {
		if err := s.db.HealthCheck(c.Request.Context()); err != nil {
			status = "degraded"
		}
	}
	c.JSON(200, gin.H{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
