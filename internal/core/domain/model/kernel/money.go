package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Money is a value object representing a monetary amount as an integer
// number of cents. Keeping money integral avoids floating-point drift on
// ledger arithmetic; all balances, totals, and ledger amounts in the domain
// use this type.
//
// Unlike UUID, the zero value of Money is meaningful (zero cents) and valid.
// Negative amounts are representable because running balances may go below
// zero (e.g. a retailer in surplus after an overpayment reversal), but
// individual ledger amounts are validated as non-negative at their call
// sites.
type Money struct {
	cents int64
}

// NewMoney creates a Money from an amount in cents.
func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

// Zero returns the zero monetary amount.
func Zero() Money {
	return Money{}
}

// Cents returns the amount in cents.
func (m Money) Cents() int64 {
	return m.cents
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Sub returns the difference of two amounts.
func (m Money) Sub(other Money) Money {
	return Money{cents: m.cents - other.cents}
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.cents < 0
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.cents == 0
}

// IsGreaterThan reports whether m exceeds other.
func (m Money) IsGreaterThan(other Money) bool {
	return m.cents > other.cents
}

// IsEqual reports whether two amounts are the same.
func (m Money) IsEqual(other Money) bool {
	return m.cents == other.cents
}

// ValidateAmount returns an error unless the amount is usable as a ledger
// amount, i.e. non-negative.
func (m Money) ValidateAmount(paramName string) error {
	if m.cents < 0 {
		return errs.NewValueIsInvalidErrorWithCause(paramName,
			fmt.Errorf("%d cents is negative", m.cents))
	}
	return nil
}

// String renders the amount in major units, e.g. "49.00" for 4900 cents.
func (m Money) String() string {
	sign := ""
	cents := m.cents
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
