package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ScoreDecayJob manages the scheduled decay of idle vendor scores.
// Runs hourly to drift scores without recent activity toward neutral.
type ScoreDecayJob struct {
	handler commands.DecayVendorScoresCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewScoreDecayJob creates a new job for decaying idle vendor scores.
// Uses DecayVendorScoresCommandHandler to process decay every hour.
func NewScoreDecayJob(handler commands.DecayVendorScoresCommandHandler, logger *slog.Logger) *ScoreDecayJob {
	return &ScoreDecayJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "score_decay_job"),
	}
}

// Start begins the score decay job to run at the top of every hour.
func (j *ScoreDecayJob) Start() error {
	_, err := j.cron.AddFunc("0 0 * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewDecayVendorScoresCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Score decay job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Score decay job started (running hourly)")
	return nil
}

// Stop stops the score decay job.
func (j *ScoreDecayJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Score decay job stopped")
}
