package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrVerifyLedgerCommandIsNotConstructed = errors.New(
	"VerifyLedgerCommand must be created via NewVerifyLedgerCommand constructor",
)

// VerifyLedgerCommand requests a full chain verification of one
// retailer's ledger. On a broken chain the retailer's ledger is frozen
// and an operator alerted; no write touches that retailer until an
// operator reconciles and unfreezes.
type VerifyLedgerCommand struct { //nolint:recvcheck //using for validation
	retailerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewVerifyLedgerCommand creates a command to verify a retailer's chain.
func NewVerifyLedgerCommand(retailerID kernel.UUID) (VerifyLedgerCommand, error) {
	cmd := VerifyLedgerCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := retailerID.Validate(); err != nil {
		return VerifyLedgerCommand{}, err
	}
	cmd.retailerID = retailerID

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c VerifyLedgerCommand) Validate() error {
	return c.guard.Validate(ErrVerifyLedgerCommandIsNotConstructed)
}

// RetailerID returns the retailer whose chain to verify.
func (c VerifyLedgerCommand) RetailerID() kernel.UUID {
	return c.retailerID
}
