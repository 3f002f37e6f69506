package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// TimeoutScanJob manages the scheduled sweep of expired acceptance
// windows. Runs every 15 seconds to time out unresponsive vendors and
// reroute their orders.
type TimeoutScanJob struct {
	handler commands.ScanTimeoutsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewTimeoutScanJob creates a new job for sweeping expired acceptance
// windows. Uses ScanTimeoutsCommandHandler to process timeouts every
// 15 seconds.
func NewTimeoutScanJob(handler commands.ScanTimeoutsCommandHandler, logger *slog.Logger) *TimeoutScanJob {
	return &TimeoutScanJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "timeout_scan_job"),
	}
}

// Start begins the timeout scan job to run every 15 seconds.
func (j *TimeoutScanJob) Start() error {
	_, err := j.cron.AddFunc("*/15 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewScanTimeoutsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Timeout scan job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Timeout scan job started (running every 15 seconds)")
	return nil
}

// Stop stops the timeout scan job.
func (j *TimeoutScanJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Timeout scan job stopped")
}
