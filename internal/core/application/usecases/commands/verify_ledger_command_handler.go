package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/ledger"
	"fulfillment/internal/core/ports"
)

// VerifyLedgerCommandHandler walks a retailer's whole chain and checks
// that every entry's previous balance matches its predecessor's running
// balance. A mismatch freezes the retailer's ledger, which hard-stops all
// further writes, and alerts an operator.
type VerifyLedgerCommandHandler struct {
	uowFactory LedgerUoWFactory
	admin      ports.AdminNotifier
	logger     *slog.Logger
}

// NewVerifyLedgerCommandHandler creates a handler for chain verification.
func NewVerifyLedgerCommandHandler(uowFactory LedgerUoWFactory, admin ports.AdminNotifier, logger *slog.Logger) VerifyLedgerCommandHandler {
	return VerifyLedgerCommandHandler{
		uowFactory: uowFactory,
		admin:      admin,
		logger:     logger,
	}
}

// Handle verifies the chain. Returns ledger.ErrChainMismatch after
// freezing when the chain is broken; a clean chain is a no-op.
func (h VerifyLedgerCommandHandler) Handle(ctx context.Context, cmd VerifyLedgerCommand) error {
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

	chain, err := uow.LedgerRepository().GetChain(ctx, cmd.RetailerID())
	if err != nil {
		return err
	}

	verifyErr := ledger.VerifyChain(chain)
	if verifyErr == nil {
		return uow.Commit(ctx)
	}
	if !errors.Is(verifyErr, ledger.ErrChainMismatch) {
		return verifyErr
	}

	rtl, err := uow.RetailerRepository().GetForUpdate(ctx, cmd.RetailerID())
	if err != nil {
		return err
	}
	rtl.FreezeLedger()
	if err = uow.RetailerRepository().Update(ctx, rtl); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if err = h.admin.Alert(ctx, "ledger chain corrupted",
		fmt.Sprintf("retailer %s ledger failed verification and was frozen: %v", cmd.RetailerID(), verifyErr)); err != nil {
		h.logger.WarnContext(ctx, "admin alert failed", "retailerId", cmd.RetailerID().String(), "error", err)
	}

	return verifyErr
}
