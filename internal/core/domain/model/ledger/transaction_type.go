package ledger

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// TransactionType tags a ledger entry with its business reason and its
// accounting direction. Debits increase the retailer's outstanding debt
// (the running balance), credits decrease it.
type TransactionType string

const (
	// OrderDebit records credit consumed when an order is created.
	OrderDebit TransactionType = "ORDER_DEBIT"

	// PaymentCredit records a payment received from the retailer,
	// including cash collected on delivery.
	PaymentCredit TransactionType = "PAYMENT_CREDIT"

	// ReversalCredit offsets a prior debit entry.
	ReversalCredit TransactionType = "REVERSAL_CREDIT"

	// ReversalDebit offsets a prior credit entry.
	ReversalDebit TransactionType = "REVERSAL_DEBIT"

	// AdjustmentDebit and AdjustmentCredit record manual corrections made
	// by an administrator outside the order flow.
	AdjustmentDebit  TransactionType = "ADJUSTMENT_DEBIT"
	AdjustmentCredit TransactionType = "ADJUSTMENT_CREDIT"
)

// getValidTransactionTypes returns the set of defined transaction types.
func getValidTransactionTypes() map[TransactionType]struct{} {
	return map[TransactionType]struct{}{
		OrderDebit:       {},
		PaymentCredit:    {},
		ReversalCredit:   {},
		ReversalDebit:    {},
		AdjustmentDebit:  {},
		AdjustmentCredit: {},
	}
}

// Validate checks that the transaction type is one of the defined values.
func (t TransactionType) Validate() error {
	if _, ok := getValidTransactionTypes()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("transactionType",
			fmt.Errorf("%q is not a valid transaction type", string(t)))
	}
	return nil
}

// IsDebit reports whether entries of this type increase the running balance.
func (t TransactionType) IsDebit() bool {
	switch t {
	case OrderDebit, ReversalDebit, AdjustmentDebit:
		return true
	default:
		return false
	}
}

// ReversalType returns the transaction type that offsets this one.
func (t TransactionType) ReversalType() TransactionType {
	if t.IsDebit() {
		return ReversalCredit
	}
	return ReversalDebit
}

func (t TransactionType) String() string {
	return string(t)
}
