package commands

import (
	"context"
	"log/slog"
)

// SetLedgerFreezeCommandHandler flips a retailer's ledger freeze flag
// under the retailer's row lock.
type SetLedgerFreezeCommandHandler struct {
	uowFactory LedgerUoWFactory
	logger     *slog.Logger
}

// NewSetLedgerFreezeCommandHandler creates a handler for freeze changes.
func NewSetLedgerFreezeCommandHandler(uowFactory LedgerUoWFactory, logger *slog.Logger) SetLedgerFreezeCommandHandler {
	return SetLedgerFreezeCommandHandler{
		uowFactory: uowFactory,
		logger:     logger,
	}
}

// Handle applies the freeze change.
func (h SetLedgerFreezeCommandHandler) Handle(ctx context.Context, cmd SetLedgerFreezeCommand) error {
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

	rtl, err := uow.RetailerRepository().GetForUpdate(ctx, cmd.RetailerID())
	if err != nil {
		return err
	}

	if cmd.Frozen() {
		rtl.FreezeLedger()
	} else {
		rtl.UnfreezeLedger()
	}

	if err = uow.RetailerRepository().Update(ctx, rtl); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "ledger freeze changed",
		"retailerId", cmd.RetailerID().String(), "frozen", cmd.Frozen(), "actor", cmd.Actor())

	return nil
}
