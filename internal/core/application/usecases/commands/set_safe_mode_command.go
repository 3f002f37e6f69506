package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrSetSafeModeCommandIsNotConstructed = errors.New(
	"SetSafeModeCommand must be created via NewSetSafeModeCommand constructor",
)

// SetSafeModeCommand toggles intake suspension. With safe mode on, new
// orders are rejected at the door while in-flight orders keep moving.
type SetSafeModeCommand struct { //nolint:recvcheck //using for validation
	enabled bool
	actor   string

	guard guard.ConstructorGuard
}

// NewSetSafeModeCommand creates a command to change the safe mode flag.
func NewSetSafeModeCommand(enabled bool, actor string) (SetSafeModeCommand, error) {
	if actor == "" {
		return SetSafeModeCommand{}, ErrActorIsRequired
	}

	return SetSafeModeCommand{
		enabled: enabled,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SetSafeModeCommand) Validate() error {
	return c.guard.Validate(ErrSetSafeModeCommandIsNotConstructed)
}

// Enabled returns the desired safe mode state.
func (c SetSafeModeCommand) Enabled() bool {
	return c.enabled
}

// Actor returns who requested the change.
func (c SetSafeModeCommand) Actor() string {
	return c.actor
}
