package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/ports"
)

// DecayVendorScoresCommandHandler drifts idle vendors' overall scores
// toward the neutral value so reputations earned long ago fade unless the
// vendor keeps performing.
type DecayVendorScoresCommandHandler struct {
	uowFactory ScoreUoWFactory
	cfg        ports.WatchdogConfig
}

// NewDecayVendorScoresCommandHandler creates a handler for score decay.
func NewDecayVendorScoresCommandHandler(uowFactory ScoreUoWFactory, cfg ports.WatchdogConfig) DecayVendorScoresCommandHandler {
	return DecayVendorScoresCommandHandler{
		uowFactory: uowFactory,
		cfg:        cfg,
	}
}

// Handle runs one decay pass over scores idle past the configured window.
func (h DecayVendorScoresCommandHandler) Handle(ctx context.Context, cmd DecayVendorScoresCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	vendorRepo := uow.VendorRepository()

	idle, err := vendorRepo.GetScoresIdleSince(ctx, now.Add(-h.cfg.ScoreDecayAfter), h.cfg.ScanBatchSize)
	if err != nil {
		return err
	}

	for _, score := range idle {
		score.Decay(h.cfg.ScoreDecayFactor, now)
		if err = vendorRepo.UpdateScore(ctx, score); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
