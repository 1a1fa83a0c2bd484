package jobs

import (
	"leasehold-backend/internal/chain"
	"leasehold-backend/internal/config"
	"leasehold-backend/internal/logger"
	"leasehold-backend/internal/repository"
	"leasehold-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	leaseRepo repository.LeaseRepository
	leases    service.LeaseService
	clock     chain.Clock
	config    *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(leaseRepo repository.LeaseRepository, leases service.LeaseService, clock chain.Clock, cfg *config.Config) *JobRunner {
	return &JobRunner{
		leaseRepo: leaseRepo,
		leases:    leases,
		clock:     clock,
		config:    cfg,
	}
}

// Config returns the loaded configuration for job registration.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}
