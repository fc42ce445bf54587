package jobs

import (
	"github.com/PatrickVM/in-house-open-sub001/internal/config"
	"github.com/PatrickVM/in-house-open-sub001/internal/logger"
	"github.com/PatrickVM/in-house-open-sub001/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	enforcement service.EnforcementService
	config      *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(enforcement service.EnforcementService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		enforcement: enforcement,
		config:      cfg,
	}
}

// Config exposes the loaded configuration to the scheduler
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
