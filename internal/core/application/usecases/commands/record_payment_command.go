package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrRecordPaymentCommandIsNotConstructed = errors.New(
		"RecordPaymentCommand must be created via NewRecordPaymentCommand constructor",
	)
	ErrPaymentRefIsRequired       = errors.New("payment reference is required")
	ErrPaymentAmountIsNotPositive = errors.New("payment amount must be positive")
)

// RecordPaymentCommand represents a retailer paying down outstanding debt.
// The payment reference ties the ledger entry to the external payment
// system's record.
type RecordPaymentCommand struct { //nolint:recvcheck //using for validation
	retailerID kernel.UUID
	amount     kernel.Money
	paymentRef string

	guard guard.ConstructorGuard
}

// NewRecordPaymentCommand creates a command to credit a payment against a
// retailer's ledger.
func NewRecordPaymentCommand(retailerID kernel.UUID, amount kernel.Money, paymentRef string) (RecordPaymentCommand, error) {
	cmd := RecordPaymentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRetailerID(retailerID),
		cmd.setAmount(amount),
		cmd.setPaymentRef(paymentRef),
	); err != nil {
		return RecordPaymentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRecordPaymentCommandIsNotConstructed)
}

// RetailerID returns the paying retailer.
func (c RecordPaymentCommand) RetailerID() kernel.UUID {
	return c.retailerID
}

// Amount returns the payment amount.
func (c RecordPaymentCommand) Amount() kernel.Money {
	return c.amount
}

// PaymentRef returns the external payment reference.
func (c RecordPaymentCommand) PaymentRef() string {
	return c.paymentRef
}

func (c *RecordPaymentCommand) setRetailerID(retailerID kernel.UUID) error {
	if err := retailerID.Validate(); err != nil {
		return err
	}

	c.retailerID = retailerID
	return nil
}

func (c *RecordPaymentCommand) setAmount(amount kernel.Money) error {
	if amount.IsZero() || amount.IsNegative() {
		return ErrPaymentAmountIsNotPositive
	}

	c.amount = amount
	return nil
}

func (c *RecordPaymentCommand) setPaymentRef(paymentRef string) error {
	if paymentRef == "" {
		return ErrPaymentRefIsRequired
	}

	c.paymentRef = paymentRef
	return nil
}
