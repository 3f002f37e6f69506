package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrHealStuckOrdersCommandIsNotConstructed = errors.New(
	"HealStuckOrdersCommand must be created via NewHealStuckOrdersCommand constructor",
)

// HealStuckOrdersCommand triggers one watchdog pass: find non-terminal
// orders that stopped progressing, classify the stall, and run the
// matching recovery under a per-order claim.
type HealStuckOrdersCommand struct {
	guard guard.ConstructorGuard
}

// NewHealStuckOrdersCommand creates a new command to trigger a watchdog
// pass.
func NewHealStuckOrdersCommand() HealStuckOrdersCommand {
	return HealStuckOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *HealStuckOrdersCommand) Validate() error {
	return c.guard.Validate(
		ErrHealStuckOrdersCommandIsNotConstructed,
	)
}
