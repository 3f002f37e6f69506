package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrScanTimeoutsCommandIsNotConstructed = errors.New(
	"ScanTimeoutsCommand must be created via NewScanTimeoutsCommand constructor",
)

// ScanTimeoutsCommand triggers one pass of the acceptance-window timeout
// scanner: expired PENDING windows are claimed, the silent vendor is
// penalized, and each affected order is either re-routed or failed.
//
// Example:
//
//	cmd := NewScanTimeoutsCommand()
//	handler := NewScanTimeoutsCommandHandler(uowFactory, router, notifier, admin, publisher, cfg, logger)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("timeout scan finished with errors: %v", err)
//	}
type ScanTimeoutsCommand struct {
	guard guard.ConstructorGuard
}

// NewScanTimeoutsCommand creates a new command to trigger a timeout scan.
func NewScanTimeoutsCommand() ScanTimeoutsCommand {
	return ScanTimeoutsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *ScanTimeoutsCommand) Validate() error {
	return c.guard.Validate(
		ErrScanTimeoutsCommandIsNotConstructed,
	)
}
