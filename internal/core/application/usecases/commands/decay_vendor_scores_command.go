package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrDecayVendorScoresCommandIsNotConstructed = errors.New(
	"DecayVendorScoresCommand must be created via NewDecayVendorScoresCommand constructor",
)

// DecayVendorScoresCommand triggers one decay pass over idle vendor
// scores, drifting stale reputations toward the neutral value.
type DecayVendorScoresCommand struct {
	guard guard.ConstructorGuard
}

// NewDecayVendorScoresCommand creates a new command to trigger a decay
// pass.
func NewDecayVendorScoresCommand() DecayVendorScoresCommand {
	return DecayVendorScoresCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *DecayVendorScoresCommand) Validate() error {
	return c.guard.Validate(
		ErrDecayVendorScoresCommandIsNotConstructed,
	)
}
