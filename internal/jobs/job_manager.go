package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	timeoutScanJob *TimeoutScanJob
	watchdogJob    *WatchdogJob
	scoreDecayJob  *ScoreDecayJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	scanTimeoutsHandler commands.ScanTimeoutsCommandHandler,
	healStuckOrdersHandler commands.HealStuckOrdersCommandHandler,
	decayVendorScoresHandler commands.DecayVendorScoresCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		timeoutScanJob: NewTimeoutScanJob(scanTimeoutsHandler, logger),
		watchdogJob:    NewWatchdogJob(healStuckOrdersHandler, logger),
		scoreDecayJob:  NewScoreDecayJob(decayVendorScoresHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.timeoutScanJob.Start(); err != nil {
		return fmt.Errorf("failed to start timeout scan job: %w", err)
	}

	if err := jm.watchdogJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.timeoutScanJob.Stop()
		return fmt.Errorf("failed to start watchdog job: %w", err)
	}

	if err := jm.scoreDecayJob.Start(); err != nil {
		jm.timeoutScanJob.Stop()
		jm.watchdogJob.Stop()
		return fmt.Errorf("failed to start score decay job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.scoreDecayJob.Stop()
	jm.watchdogJob.Stop()
	jm.timeoutScanJob.Stop()
}
