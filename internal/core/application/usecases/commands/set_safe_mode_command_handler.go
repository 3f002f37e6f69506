package commands

import (
	"context"
	"log/slog"
)

// SetSafeModeCommandHandler persists the safe mode flag.
type SetSafeModeCommandHandler struct {
	uowFactory SettingsUoWFactory
	logger     *slog.Logger
}

// NewSetSafeModeCommandHandler creates a handler for safe mode changes.
func NewSetSafeModeCommandHandler(uowFactory SettingsUoWFactory, logger *slog.Logger) SetSafeModeCommandHandler {
	return SetSafeModeCommandHandler{
		uowFactory: uowFactory,
		logger:     logger,
	}
}

// Handle applies the safe mode change.
func (h SetSafeModeCommandHandler) Handle(ctx context.Context, cmd SetSafeModeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.SettingsRepository().SetSafeMode(ctx, cmd.Enabled()); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "safe mode changed", "enabled", cmd.Enabled(), "actor", cmd.Actor())

	return nil
}
