package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrReverseLedgerEntryCommandIsNotConstructed = errors.New(
		"ReverseLedgerEntryCommand must be created via NewReverseLedgerEntryCommand constructor",
	)
	ErrReasonIsRequired = errors.New("reason is required")
)

// ReverseLedgerEntryCommand represents an operator correcting a ledger
// mistake. The original entry is never edited; an offsetting entry is
// appended at the chain tail.
type ReverseLedgerEntryCommand struct { //nolint:recvcheck //using for validation
	entryID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewReverseLedgerEntryCommand creates a command to reverse a ledger
// entry.
func NewReverseLedgerEntryCommand(entryID kernel.UUID, reason string) (ReverseLedgerEntryCommand, error) {
	cmd := ReverseLedgerEntryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := entryID.Validate(); err != nil {
		return ReverseLedgerEntryCommand{}, err
	}
	if reason == "" {
		return ReverseLedgerEntryCommand{}, ErrReasonIsRequired
	}
	cmd.entryID = entryID
	cmd.reason = reason

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReverseLedgerEntryCommand) Validate() error {
	return c.guard.Validate(ErrReverseLedgerEntryCommandIsNotConstructed)
}

// EntryID returns the entry to reverse.
func (c ReverseLedgerEntryCommand) EntryID() kernel.UUID {
	return c.entryID
}

// Reason returns the operator's justification, recorded as the reversal's
// payment reference.
func (c ReverseLedgerEntryCommand) Reason() string {
	return c.reason
}
