package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// WatchdogJob manages the scheduled detection and healing of stalled
// orders. Runs every minute to find orders that stopped making progress
// and apply the matching recovery.
type WatchdogJob struct {
	handler commands.HealStuckOrdersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewWatchdogJob creates a new job for healing stalled orders.
// Uses HealStuckOrdersCommandHandler to process stalls every minute.
func NewWatchdogJob(handler commands.HealStuckOrdersCommandHandler, logger *slog.Logger) *WatchdogJob {
	return &WatchdogJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "watchdog_job"),
	}
}

// Start begins the watchdog job to run every minute.
func (j *WatchdogJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewHealStuckOrdersCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Watchdog job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Watchdog job started (running every minute)")
	return nil
}

// Stop stops the watchdog job.
func (j *WatchdogJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Watchdog job stopped")
}
