package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignVendorManuallyCommandIsNotConstructed = errors.New(
	"AssignVendorManuallyCommand must be created via NewAssignVendorManuallyCommand constructor",
)

// AssignVendorManuallyCommand represents an operator overriding the
// scoring engine and routing an order to a vendor of their choice. The
// chosen vendor must still be approved and active; the override skips
// ranking, not eligibility.
type AssignVendorManuallyCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	vendorID kernel.UUID
	actor    string

	guard guard.ConstructorGuard
}

// NewAssignVendorManuallyCommand creates a command for a manual vendor
// assignment.
func NewAssignVendorManuallyCommand(orderID, vendorID kernel.UUID, actor string) (AssignVendorManuallyCommand, error) {
	cmd := AssignVendorManuallyCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return AssignVendorManuallyCommand{}, err
	}
	if err := vendorID.Validate(); err != nil {
		return AssignVendorManuallyCommand{}, err
	}
	if actor == "" {
		return AssignVendorManuallyCommand{}, ErrActorIsRequired
	}
	cmd.orderID = orderID
	cmd.vendorID = vendorID
	cmd.actor = actor

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignVendorManuallyCommand) Validate() error {
	return c.guard.Validate(ErrAssignVendorManuallyCommandIsNotConstructed)
}

// OrderID returns the order to assign.
func (c AssignVendorManuallyCommand) OrderID() kernel.UUID {
	return c.orderID
}

// VendorID returns the operator's chosen vendor.
func (c AssignVendorManuallyCommand) VendorID() kernel.UUID {
	return c.vendorID
}

// Actor returns who requested the override.
func (c AssignVendorManuallyCommand) Actor() string {
	return c.actor
}
