package ledger

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

var (
	// ErrEntryIsNotConstructed is returned when an Entry instance was not
	// created through NewEntry or RestoreEntry.
	ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry or RestoreEntry")

	// ErrChainMismatch indicates that an entry's previousBalance does not
	// equal the preceding entry's runningBalance. A retailer whose ledger
	// exhibits this is frozen for writes until manually reconciled.
	ErrChainMismatch = errors.New("ledger chain mismatch")
)

// Entry is a single immutable row in a retailer's credit ledger.
//
// Entries form a verifiable chain per retailer: each entry carries the
// balance it observed (previousBalance) and the balance it produced
// (runningBalance = previousBalance ± amount depending on the transaction
// type's sign). Entries are never mutated or deleted; corrections are new
// offsetting entries created with Reverse.
type Entry struct {
	id              kernel.UUID
	retailerID      kernel.UUID
	transactionType TransactionType
	amount          kernel.Money
	previousBalance kernel.Money
	runningBalance  kernel.Money
	orderID         *kernel.UUID
	paymentRef      string
	reversalOfID    *kernel.UUID
	createdAt       time.Time

	isConstructed bool
}

// NewEntry creates a ledger entry continuing the retailer's chain from
// previousBalance. The running balance is computed from the transaction
// type's sign; the amount must be non-negative.
func NewEntry(
	id kernel.UUID,
	retailerID kernel.UUID,
	transactionType TransactionType,
	amount kernel.Money,
	previousBalance kernel.Money,
	now time.Time,
) (*Entry, error) {
	if err := errors.Join(
		id.Validate(),
		retailerID.Validate(),
		transactionType.Validate(),
		amount.ValidateAmount("amount"),
	); err != nil {
		return nil, err
	}

	running := previousBalance.Sub(amount)
	if transactionType.IsDebit() {
		running = previousBalance.Add(amount)
	}

	return &Entry{
		id:              id,
		retailerID:      retailerID,
		transactionType: transactionType,
		amount:          amount,
		previousBalance: previousBalance,
		runningBalance:  running,
		createdAt:       now,
		isConstructed:   true,
	}, nil
}

// RestoreEntry reconstructs an entry from persistence, re-deriving the
// running balance to reject rows whose stored balances do not add up.
func RestoreEntry(
	id kernel.UUID,
	retailerID kernel.UUID,
	transactionType TransactionType,
	amount kernel.Money,
	previousBalance kernel.Money,
	runningBalance kernel.Money,
	orderID *kernel.UUID,
	paymentRef string,
	reversalOfID *kernel.UUID,
	createdAt time.Time,
) (*Entry, error) {
	e, err := NewEntry(id, retailerID, transactionType, amount, previousBalance, createdAt)
	if err != nil {
		return nil, err
	}
	if !e.runningBalance.IsEqual(runningBalance) {
		return nil, fmt.Errorf("%w: entry %s stores balance %s, expected %s",
			ErrChainMismatch, id, runningBalance, e.runningBalance)
	}
	e.orderID = orderID
	e.paymentRef = paymentRef
	e.reversalOfID = reversalOfID
	return e, nil
}

// Validate ensures the Entry was created through a constructor.
func (e *Entry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

// ID returns the entry identifier.
func (e *Entry) ID() kernel.UUID { return e.id }

// RetailerID returns the retailer whose chain this entry belongs to.
func (e *Entry) RetailerID() kernel.UUID { return e.retailerID }

// TransactionType returns the entry's type tag.
func (e *Entry) TransactionType() TransactionType { return e.transactionType }

// Amount returns the entry amount (always non-negative).
func (e *Entry) Amount() kernel.Money { return e.amount }

// PreviousBalance returns the balance observed before this entry.
func (e *Entry) PreviousBalance() kernel.Money { return e.previousBalance }

// RunningBalance returns the balance produced by this entry.
func (e *Entry) RunningBalance() kernel.Money { return e.runningBalance }

// OrderID returns the referenced order, if any.
func (e *Entry) OrderID() *kernel.UUID { return e.orderID }

// PaymentRef returns the external payment reference, if any.
func (e *Entry) PaymentRef() string { return e.paymentRef }

// ReversalOfID returns the entry this one offsets, if it is a reversal.
func (e *Entry) ReversalOfID() *kernel.UUID { return e.reversalOfID }

// CreatedAt returns the entry creation time.
func (e *Entry) CreatedAt() time.Time { return e.createdAt }

// IsReversal reports whether this entry offsets another.
func (e *Entry) IsReversal() bool { return e.reversalOfID != nil }

// WithOrderRef attaches an order reference. Returns the entry for chaining
// during construction; the reference is part of the immutable row once
// persisted.
func (e *Entry) WithOrderRef(orderID kernel.UUID) *Entry {
	ref := orderID
	e.orderID = &ref
	return e
}

// WithPaymentRef attaches an external payment reference.
func (e *Entry) WithPaymentRef(ref string) *Entry {
	e.paymentRef = ref
	return e
}

// Reverse creates the offsetting entry for this one, continuing the chain
// from the given tail balance. History is never edited: the original entry
// stays untouched and the correction is a new row referencing it.
func (e *Entry) Reverse(newID kernel.UUID, tailBalance kernel.Money, now time.Time) (*Entry, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	reversal, err := NewEntry(newID, e.retailerID, e.transactionType.ReversalType(), e.amount, tailBalance, now)
	if err != nil {
		return nil, err
	}
	original := e.id
	reversal.reversalOfID = &original
	reversal.orderID = e.orderID
	return reversal, nil
}

// VerifyChain checks the chain invariant over entries ordered by creation
// time: every entry's previousBalance must equal its predecessor's
// runningBalance. Returns ErrChainMismatch on the first violation.
func VerifyChain(entries []*Entry) error {
	for i := 1; i < len(entries); i++ {
		if !entries[i].previousBalance.IsEqual(entries[i-1].runningBalance) {
			return fmt.Errorf("%w: entry %s observed %s, predecessor produced %s",
				ErrChainMismatch, entries[i].id, entries[i].previousBalance, entries[i-1].runningBalance)
		}
	}
	return nil
}
