package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"leasehold-backend/internal/chain"
	"leasehold-backend/internal/config"
	"leasehold-backend/internal/jobs"
	"leasehold-backend/internal/ledger"
	"leasehold-backend/internal/logger"
	"leasehold-backend/internal/repository"
	"leasehold-backend/internal/repository/postgres"
	"leasehold-backend/internal/scheduler"
	"leasehold-backend/internal/service"
)

// The cronjob binary runs the expired-lease sweeper against the shared
// postgres store, either on a schedule or once with -run-once. It needs the
// postgres backend: a private in-memory store would sweep nothing.
func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.Bool("run-once", false, "Run the expired-lease sweep once and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Leasehold Cronjob Runner...", "log_level", cfg.Log.Level)

	if cfg.Storage.Type != "postgres" {
		log.Fatalf("cronjob runner requires postgres storage, got %q", cfg.Storage.Type)
	}

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Repositories and Services
	store := postgres.NewStore(db)
	var leaseRepo repository.LeaseRepository = store.LeaseRepository

	gateway := ledger.NewMemoryGateway(cfg.Ledger.SeedBalances)
	genesis := time.Unix(cfg.Chain.GenesisUnix, 0)
	clock := chain.NewIntervalClock(genesis, time.Duration(cfg.Chain.BlockTimeSeconds)*time.Second)

	leaseSvc := service.NewLeaseService(
		store.PostingRepository,
		leaseRepo,
		store.HistoryRepository,
		store.PlatformRepository,
		gateway,
		clock,
		cfg.Platform.CustodyAccount,
		cfg.Platform.AdminAccount,
		&sync.Mutex{},
	)

	jobRunner := jobs.NewJobRunner(leaseRepo, leaseSvc, clock, cfg)

	if *runOnce {
		logger.Info("Running expired-lease sweep once")
		jobRunner.SweepExpiredLeases()
		return
	}

	// Run scheduled
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Received shutdown signal", "signal", sig.String())

	sched.Stop()
	logger.Info("Cronjob runner stopped")
}
