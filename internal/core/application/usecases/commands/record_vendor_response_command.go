package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRecordVendorResponseCommandIsNotConstructed = errors.New(
	"RecordVendorResponseCommand must be created via NewRecordVendorResponseCommand constructor",
)

// RecordVendorResponseCommand represents a vendor's accept/reject decision
// for an order currently assigned to it.
type RecordVendorResponseCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	vendorID kernel.UUID
	accepted bool

	guard guard.ConstructorGuard
}

// NewRecordVendorResponseCommand creates a command carrying a vendor's
// decision on its open acceptance window.
func NewRecordVendorResponseCommand(orderID, vendorID kernel.UUID, accepted bool) (RecordVendorResponseCommand, error) {
	cmd := RecordVendorResponseCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(orderID.Validate(), vendorID.Validate()); err != nil {
		return RecordVendorResponseCommand{}, err
	}
	cmd.orderID = orderID
	cmd.vendorID = vendorID
	cmd.accepted = accepted

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordVendorResponseCommand) Validate() error {
	return c.guard.Validate(ErrRecordVendorResponseCommandIsNotConstructed)
}

// OrderID returns the order the vendor is responding about.
func (c RecordVendorResponseCommand) OrderID() kernel.UUID {
	return c.orderID
}

// VendorID returns the responding vendor.
func (c RecordVendorResponseCommand) VendorID() kernel.UUID {
	return c.vendorID
}

// IsAccepted reports whether the vendor accepted the order.
func (c RecordVendorResponseCommand) IsAccepted() bool {
	return c.accepted
}
