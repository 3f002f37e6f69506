package retailer

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrRetailerIsNotConstructed is returned when a Retailer instance was
	// not created through NewRetailer or RestoreRetailer.
	ErrRetailerIsNotConstructed = errors.New("Retailer must be created via NewRetailer or RestoreRetailer")

	// ErrCreditLimitExceeded is returned when an order's credit requirement
	// exceeds the retailer's available credit.
	ErrCreditLimitExceeded = errors.New("credit limit exceeded")

	// ErrCreditTierRestricted is returned when the retailer's credit tier
	// disallows credit orders above its configured ceiling.
	ErrCreditTierRestricted = errors.New("credit tier restricts order size")

	// ErrLedgerFrozen is returned for any write attempted against a
	// retailer whose ledger chain failed verification. This is a hard stop
	// until an operator reconciles the chain.
	ErrLedgerFrozen = errors.New("retailer ledger is frozen pending reconciliation")

	// ErrDebtUnderflow is returned when a credit would push outstanding
	// debt below zero.
	ErrDebtUnderflow = errors.New("outstanding debt cannot go negative")
)

// Tier is the retailer's credit-score tier. Each tier carries a configured
// per-order credit ceiling; see CreditPolicy.
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

// Validate checks that the tier is one of the defined values.
func (t Tier) Validate() error {
	switch t {
	case TierA, TierB, TierC:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("tier",
			fmt.Errorf("%q is not a valid credit tier", string(t)))
	}
}

// CreditPolicy is the injected configuration for tier-based restrictions:
// the maximum credit a single order may consume per tier. A zero ceiling
// means the tier has no per-order restriction.
type CreditPolicy struct {
	TierCeilings map[Tier]kernel.Money
}

// CeilingFor returns the per-order credit ceiling for a tier and whether
// one is configured.
func (p CreditPolicy) CeilingFor(tier Tier) (kernel.Money, bool) {
	ceiling, ok := p.TierCeilings[tier]
	if !ok || ceiling.IsZero() {
		return kernel.Zero(), false
	}
	return ceiling, true
}

// Retailer is the buyer-side account aggregate. It carries the credit
// limit, the outstanding debt mirrored from the ledger's running balance,
// the credit tier, and the frozen flag raised on chain corruption.
type Retailer struct {
	id              kernel.UUID
	name            string
	city            string
	state           string
	creditLimit     kernel.Money
	outstandingDebt kernel.Money
	tier            Tier
	ledgerFrozen    bool

	isConstructed bool
}

// NewRetailer creates a retailer account with no outstanding debt.
func NewRetailer(id kernel.UUID, name, city, state string, creditLimit kernel.Money, tier Tier) (*Retailer, error) {
	if err := errors.Join(id.Validate(), tier.Validate(), creditLimit.ValidateAmount("creditLimit")); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	return &Retailer{
		id:            id,
		name:          name,
		city:          city,
		state:         state,
		creditLimit:   creditLimit,
		tier:          tier,
		isConstructed: true,
	}, nil
}

// RestoreRetailer reconstructs a retailer from persistence.
func RestoreRetailer(
	id kernel.UUID,
	name, city, state string,
	creditLimit kernel.Money,
	outstandingDebt kernel.Money,
	tier Tier,
	ledgerFrozen bool,
) (*Retailer, error) {
	r, err := NewRetailer(id, name, city, state, creditLimit, tier)
	if err != nil {
		return nil, err
	}
	if err = outstandingDebt.ValidateAmount("outstandingDebt"); err != nil {
		return nil, err
	}
	r.outstandingDebt = outstandingDebt
	r.ledgerFrozen = ledgerFrozen
	return r, nil
}

// Validate ensures the Retailer was created through a constructor.
func (r *Retailer) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRetailerIsNotConstructed
	}
	return nil
}

// ID returns the retailer identifier.
func (r *Retailer) ID() kernel.UUID { return r.id }

// Name returns the retailer's display name.
func (r *Retailer) Name() string { return r.name }

// City returns the retailer's city. Feeds the proximity score component.
func (r *Retailer) City() string { return r.city }

// State returns the retailer's state/region.
func (r *Retailer) State() string { return r.state }

// CreditLimit returns the maximum total debt the retailer may carry.
func (r *Retailer) CreditLimit() kernel.Money { return r.creditLimit }

// OutstandingDebt returns the current debt, i.e. the ledger's running
// balance.
func (r *Retailer) OutstandingDebt() kernel.Money { return r.outstandingDebt }

// Tier returns the credit-score tier.
func (r *Retailer) Tier() Tier { return r.tier }

// IsLedgerFrozen reports whether writes to this retailer's ledger are
// blocked pending manual reconciliation.
func (r *Retailer) IsLedgerFrozen() bool { return r.ledgerFrozen }

// AvailableCredit returns creditLimit - outstandingDebt.
func (r *Retailer) AvailableCredit() kernel.Money {
	return r.creditLimit.Sub(r.outstandingDebt)
}

// CheckAvailability verifies that an order consuming the given credit can
// be accepted: the amount must fit in the available credit and must not
// exceed the tier's per-order ceiling.
func (r *Retailer) CheckAvailability(amount kernel.Money, policy CreditPolicy) error {
	if r.ledgerFrozen {
		return ErrLedgerFrozen
	}
	if amount.IsGreaterThan(r.AvailableCredit()) {
		return fmt.Errorf("%w: need %s, available %s", ErrCreditLimitExceeded, amount, r.AvailableCredit())
	}
	if ceiling, ok := policy.CeilingFor(r.tier); ok && amount.IsGreaterThan(ceiling) {
		return fmt.Errorf("%w: tier %s ceiling is %s, order needs %s", ErrCreditTierRestricted, r.tier, ceiling, amount)
	}
	return nil
}

// ApplyDebit increases outstanding debt after a ledger debit posts.
func (r *Retailer) ApplyDebit(amount kernel.Money) error {
	if r.ledgerFrozen {
		return ErrLedgerFrozen
	}
	if err := amount.ValidateAmount("amount"); err != nil {
		return err
	}
	r.outstandingDebt = r.outstandingDebt.Add(amount)
	return nil
}

// ApplyCredit decreases outstanding debt after a ledger credit posts.
func (r *Retailer) ApplyCredit(amount kernel.Money) error {
	if r.ledgerFrozen {
		return ErrLedgerFrozen
	}
	if err := amount.ValidateAmount("amount"); err != nil {
		return err
	}
	newDebt := r.outstandingDebt.Sub(amount)
	if newDebt.IsNegative() {
		return ErrDebtUnderflow
	}
	r.outstandingDebt = newDebt
	return nil
}

// FreezeLedger blocks further ledger writes for this retailer. Called when
// chain verification fails on read.
func (r *Retailer) FreezeLedger() {
	r.ledgerFrozen = true
}

// UnfreezeLedger re-enables ledger writes after manual reconciliation.
func (r *Retailer) UnfreezeLedger() {
	r.ledgerFrozen = false
}
