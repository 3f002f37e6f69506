package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/ledger"
)

// RecordPaymentCommandHandler credits a retailer payment against the
// ledger: a PAYMENT_CREDIT is appended at the chain tail and the
// retailer's outstanding debt drops by the same amount, atomically.
type RecordPaymentCommandHandler struct {
	uowFactory LedgerUoWFactory
}

// NewRecordPaymentCommandHandler creates a handler for payment recording.
func NewRecordPaymentCommandHandler(uowFactory LedgerUoWFactory) RecordPaymentCommandHandler {
	return RecordPaymentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the payment. A payment above the outstanding debt is
// rejected by the retailer aggregate, and a frozen ledger blocks the write
// entirely.
func (h RecordPaymentCommandHandler) Handle(ctx context.Context, cmd RecordPaymentCommand) error {
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

	rtl, err := uow.RetailerRepository().GetForUpdate(ctx, cmd.RetailerID())
	if err != nil {
		return err
	}

	if _, err = postEntry(ctx, uow.LedgerRepository(), rtl, ledger.PaymentCredit, cmd.Amount(), nil, cmd.PaymentRef(), now); err != nil {
		return err
	}
	if err = uow.RetailerRepository().Update(ctx, rtl); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
