package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrSetLedgerFreezeCommandIsNotConstructed = errors.New(
	"SetLedgerFreezeCommand must be created via NewSetLedgerFreezeCommand constructor",
)

// SetLedgerFreezeCommand represents an operator freezing or unfreezing a
// retailer's ledger. Unfreezing is only done after manual reconciliation
// of a corrupted chain.
type SetLedgerFreezeCommand struct { //nolint:recvcheck //using for validation
	retailerID kernel.UUID
	frozen     bool
	actor      string

	guard guard.ConstructorGuard
}

// NewSetLedgerFreezeCommand creates a command to change a retailer's
// ledger freeze state.
func NewSetLedgerFreezeCommand(retailerID kernel.UUID, frozen bool, actor string) (SetLedgerFreezeCommand, error) {
	cmd := SetLedgerFreezeCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := retailerID.Validate(); err != nil {
		return SetLedgerFreezeCommand{}, err
	}
	if actor == "" {
		return SetLedgerFreezeCommand{}, ErrActorIsRequired
	}
	cmd.retailerID = retailerID
	cmd.frozen = frozen
	cmd.actor = actor

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SetLedgerFreezeCommand) Validate() error {
	return c.guard.Validate(ErrSetLedgerFreezeCommandIsNotConstructed)
}

// RetailerID returns the retailer whose ledger to freeze or unfreeze.
func (c SetLedgerFreezeCommand) RetailerID() kernel.UUID {
	return c.retailerID
}

// Frozen returns the desired freeze state.
func (c SetLedgerFreezeCommand) Frozen() bool {
	return c.frozen
}

// Actor returns who requested the change.
func (c SetLedgerFreezeCommand) Actor() string {
	return c.actor
}
