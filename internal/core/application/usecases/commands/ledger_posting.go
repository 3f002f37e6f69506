package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/ledger"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/retailer"
	"fulfillment/internal/core/ports"
)

// ErrNoDebitToReverse is returned when a failed order has no open debit
// left to reverse, e.g. it was already reversed by an earlier unwind.
var ErrNoDebitToReverse = errors.New("no unreversed order debit found")

// unwindUoW is the slice of a unit of work the financial unwind needs.
type unwindUoW interface {
	OrderRepoFactory
	RetailerRepoFactory
	LedgerRepoFactory
}

// failOrderWithReversal moves an unrecoverable order to Failed and, for
// credit orders, reverses the unreversed opening debit under the
// retailer's row lock. Runs inside the caller's transaction.
func failOrderWithReversal(ctx context.Context, uow unwindUoW, o *order.Order, actor string, now time.Time) error {
	if err := o.TransitionTo(order.Failed, actor, now); err != nil {
		return err
	}
	if err := uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if o.CreditUsed().IsZero() {
		return nil
	}
	rtl, err := uow.RetailerRepository().GetForUpdate(ctx, o.RetailerID())
	if err != nil {
		return err
	}
	if _, err = reverseOrderDebit(ctx, uow.LedgerRepository(), rtl, o.ID(), now); err != nil {
		return err
	}
	return uow.RetailerRepository().Update(ctx, rtl)
}

// postEntry appends one ledger entry to the retailer's chain and mirrors
// the balance change onto the retailer aggregate. The caller must hold the
// retailer's row lock; postEntry locks the chain tail itself.
func postEntry(
	ctx context.Context,
	ledgerRepo ports.LedgerRepository,
	r *retailer.Retailer,
	txType ledger.TransactionType,
	amount kernel.Money,
	orderID *kernel.UUID,
	paymentRef string,
	now time.Time,
) (*ledger.Entry, error) {
	tail, err := ledgerRepo.GetTailForUpdate(ctx, r.ID())
	if err != nil {
		return nil, err
	}
	previous := kernel.Zero()
	if tail != nil {
		previous = tail.RunningBalance()
	}

	entry, err := ledger.NewEntry(kernel.NewUUID(), r.ID(), txType, amount, previous, now)
	if err != nil {
		return nil, err
	}
	if orderID != nil {
		entry.WithOrderRef(*orderID)
	}
	if paymentRef != "" {
		entry.WithPaymentRef(paymentRef)
	}

	if err = ledgerRepo.Append(ctx, entry); err != nil {
		return nil, err
	}

	if txType.IsDebit() {
		err = r.ApplyDebit(amount)
	} else {
		err = r.ApplyCredit(amount)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// reverseOrderDebit finds the order's unreversed ORDER_DEBIT and appends
// the offsetting REVERSAL_CREDIT at the current chain tail. Used when a
// credit order reaches Failed or Cancelled before settlement.
func reverseOrderDebit(
	ctx context.Context,
	ledgerRepo ports.LedgerRepository,
	r *retailer.Retailer,
	orderID kernel.UUID,
	now time.Time,
) (*ledger.Entry, error) {
	entries, err := ledgerRepo.GetByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	reversed := make(map[kernel.UUID]bool, len(entries))
	for _, e := range entries {
		if e.ReversalOfID() != nil {
			reversed[*e.ReversalOfID()] = true
		}
	}

	var debit *ledger.Entry
	for _, e := range entries {
		if e.TransactionType() == ledger.OrderDebit && !reversed[e.ID()] {
			debit = e
			break
		}
	}
	if debit == nil {
		return nil, ErrNoDebitToReverse
	}

	tail, err := ledgerRepo.GetTailForUpdate(ctx, r.ID())
	if err != nil {
		return nil, err
	}
	tailBalance := kernel.Zero()
	if tail != nil {
		tailBalance = tail.RunningBalance()
	}

	reversal, err := debit.Reverse(kernel.NewUUID(), tailBalance, now)
	if err != nil {
		return nil, err
	}
	if err = ledgerRepo.Append(ctx, reversal); err != nil {
		return nil, err
	}
	if err = r.ApplyCredit(reversal.Amount()); err != nil {
		return nil, err
	}
	return reversal, nil
}
