package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cleancity/internal/cache"
	"cleancity/internal/core"
	"cleancity/internal/rewards"
	httpProtocol "cleancity/internal/protocols/http"
	wsProtocol "cleancity/internal/protocols/websocket"
	"cleancity/internal/repository"
	"cleancity/pkg/config"
	"cleancity/pkg/database"
	"cleancity/pkg/logger"
)

func main() {
	configPath := os.Getenv("CLEANCITY_CONFIG")
	if configPath == "" {
		configPath = "./configs/development.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	logger.Info("Starting CleanCity server...")

	// Connect to storage
	dbCfg := database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		Timeout:         cfg.Database.Timeout,
	}

	db, err := database.Open(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	logger.Infof("Connected to %s database", cfg.Database.Driver)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	statsRepo := repository.NewUserStatsRepository(db)
	eventRepo := repository.NewEventRepository(db)
	binRepo := repository.NewBinRepository(db)
	reportRepo := repository.NewReportRepository(db)

	logger.Info("Initialized all repositories")

	// Leaderboard cache (optional; empty addr disables it)
	lbCache := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
	if lbCache != nil {
		defer lbCache.Close()
		logger.Infof("Leaderboard cache enabled at %s", cfg.Redis.Addr)
	}

	// Initialize core services
	authSvc := core.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	leaderboardSvc := core.NewLeaderboardService(statsRepo, eventRepo, userRepo, lbCache)

	// Live leaderboard feed, refreshed on every committed score change.
	wsHub := wsProtocol.NewHub(leaderboardSvc)
	defer wsHub.Stop()
	wsHandler := wsProtocol.NewHandler(wsHub)

	onScoreChange := func() {
		lbCache.Invalidate(context.Background())
		wsHub.Notify()
	}
	rewardsSvc := core.NewRewardsServiceWith(statsRepo, rewards.DefaultBadgeRules, nil, onScoreChange)

	var classifier core.Classifier
	if cfg.Classifier.Mode == "http" && cfg.Classifier.URL != "" {
		classifier = core.NewHTTPClassifier(cfg.Classifier.URL, cfg.Classifier.APIKey, cfg.Classifier.Timeout)
		logger.Infof("Using HTTP classifier at %s", cfg.Classifier.URL)
	} else {
		classifier = core.StubClassifier{}
		logger.Info("Using built-in keyword classifier")
	}

	wasteSvc := core.NewWasteService(classifier, rewardsSvc, eventRepo, binRepo)
	statsSvc := core.NewStatsService(statsRepo, leaderboardSvc)
	binSvc := core.NewBinService(binRepo)
	reportSvc := core.NewReportService(reportRepo, rewardsSvc)

	logger.Info("Initialized all core services")

	httpServer := httpProtocol.NewServer(
		cfg,
		db,
		authSvc,
		wasteSvc,
		statsSvc,
		binSvc,
		reportSvc,
		leaderboardSvc,
		wsHandler,
	)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("HTTP server panic recovered: %v", r)
			}
		}()
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		logger.Infof("Starting HTTP server on %s", addr)
		if err := httpServer.Start(addr); err != nil {
			logger.Errorf("HTTP server error: %v", err)
		}
	}()

	logger.Info("Press Ctrl+C to shutdown")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logger.Infof("Received signal: %v", sig)

	logger.Info("Shutting down...")
}
