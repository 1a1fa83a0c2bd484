package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "leasehold-backend/internal/api/http"
	"leasehold-backend/internal/assets"
	"leasehold-backend/internal/chain"
	"leasehold-backend/internal/config"
	"leasehold-backend/internal/jobs"
	"leasehold-backend/internal/ledger"
	"leasehold-backend/internal/logger"
	"leasehold-backend/internal/repository"
	"leasehold-backend/internal/repository/memory"
	"leasehold-backend/internal/repository/postgres"
	"leasehold-backend/internal/scheduler"
	"leasehold-backend/internal/security"
	"leasehold-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Leasehold Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "storage", cfg.Storage.Type)

	// Initialize Repositories
	var (
		postingRepo  repository.PostingRepository
		leaseRepo    repository.LeaseRepository
		historyRepo  repository.HistoryRepository
		platformRepo repository.PlatformRepository
	)
	switch cfg.Storage.Type {
	case "postgres":
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Error("Failed to ping database", "error", err)
			log.Fatalf("Failed to ping database: %v", err)
		}
		logger.Info("Database connection established")

		store := postgres.NewStore(db)
		postingRepo = store.PostingRepository
		leaseRepo = store.LeaseRepository
		historyRepo = store.HistoryRepository
		platformRepo = store.PlatformRepository
	default:
		store := memory.NewStore(cfg.Platform.ServiceFeeBps, cfg.Platform.MinimumLeaseBlocks, cfg.Platform.MaximumLeaseBlocks)
		postingRepo = store.PostingRepository
		leaseRepo = store.LeaseRepository
		historyRepo = store.HistoryRepository
		platformRepo = store.PlatformRepository
	}

	// Initialize Collaborators
	gateway := ledger.NewMemoryGateway(cfg.Ledger.SeedBalances)

	var registry assets.Registry
	if cfg.Assets.Type == "static" {
		registry = assets.NewStaticRegistry(cfg.Assets.Owners)
		logger.Info("Asset ownership registry enabled", "assets", len(cfg.Assets.Owners))
	}

	genesis := time.Unix(cfg.Chain.GenesisUnix, 0)
	clock := chain.NewIntervalClock(genesis, time.Duration(cfg.Chain.BlockTimeSeconds)*time.Second)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Services. The engine mutex serializes every state-changing
	// marketplace operation across the listing, lease and admin services.
	engineMu := &sync.Mutex{}
	listingSvc := service.NewListingService(postingRepo, leaseRepo, platformRepo, registry, clock, engineMu)
	leaseSvc := service.NewLeaseService(postingRepo, leaseRepo, historyRepo, platformRepo, gateway, clock, cfg.Platform.CustodyAccount, cfg.Platform.AdminAccount, engineMu)
	metricsSvc := service.NewMetricsService(historyRepo, gateway)
	adminSvc := service.NewAdminService(platformRepo, gateway, cfg.Platform.CustodyAccount, cfg.Platform.AdminAccount, engineMu)
	authSvc := service.NewAuthService(tokenManager, cfg.Platform.AdminAccount, cfg.Platform.AdminPasswordHash, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// Initialize HTTP Server
	server := httpapi.NewServer(
		httpapi.ServerConfig{
			Addr:         cfg.GetServerAddress(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		tokenManager,
		listingSvc,
		leaseSvc,
		metricsSvc,
		adminSvc,
		authSvc,
	)

	// Initialize Scheduler
	jobRunner := jobs.NewJobRunner(leaseRepo, leaseSvc, clock, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()

	// Serve until interrupted
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server failed", "error", err)
		}
	case sig := <-quit:
		logger.Info("Received shutdown signal", "signal", sig.String())
	}

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
