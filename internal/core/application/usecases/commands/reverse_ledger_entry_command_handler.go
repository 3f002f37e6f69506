package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrEntryAlreadyReversed is returned when the target entry already has an
// offsetting entry, from either flow. Reversing twice would double the
// correction.
var ErrEntryAlreadyReversed = errors.New("ledger entry already reversed")

// ReverseLedgerEntryCommandHandler appends the offsetting entry for an
// operator-initiated correction and mirrors the balance change onto the
// retailer, all under the retailer's row lock.
type ReverseLedgerEntryCommandHandler struct {
	uowFactory LedgerUoWFactory
}

// NewReverseLedgerEntryCommandHandler creates a handler for ledger
// reversals.
func NewReverseLedgerEntryCommandHandler(uowFactory LedgerUoWFactory) ReverseLedgerEntryCommandHandler {
	return ReverseLedgerEntryCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the reversal.
func (h ReverseLedgerEntryCommandHandler) Handle(ctx context.Context, cmd ReverseLedgerEntryCommand) error {
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

	ledgerRepo := uow.LedgerRepository()

	original, err := ledgerRepo.Get(ctx, cmd.EntryID())
	if err != nil {
		return err
	}

	rtl, err := uow.RetailerRepository().GetForUpdate(ctx, original.RetailerID())
	if err != nil {
		return err
	}

	// Checked under the retailer lock so concurrent reversals serialize.
	reversed, err := ledgerRepo.HasReversal(ctx, original.ID())
	if err != nil {
		return err
	}
	if reversed {
		return ErrEntryAlreadyReversed
	}

	tail, err := ledgerRepo.GetTailForUpdate(ctx, rtl.ID())
	if err != nil {
		return err
	}
	tailBalance := kernel.Zero()
	if tail != nil {
		tailBalance = tail.RunningBalance()
	}

	reversal, err := original.Reverse(kernel.NewUUID(), tailBalance, now)
	if err != nil {
		return err
	}
	reversal.WithPaymentRef(cmd.Reason())

	if err = ledgerRepo.Append(ctx, reversal); err != nil {
		return err
	}

	if reversal.TransactionType().IsDebit() {
		err = rtl.ApplyDebit(reversal.Amount())
	} else {
		err = rtl.ApplyCredit(reversal.Amount())
	}
	if err != nil {
		return err
	}

	if err = uow.RetailerRepository().Update(ctx, rtl); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
