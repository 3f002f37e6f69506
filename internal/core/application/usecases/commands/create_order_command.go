package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrItemsAreRequired = errors.New("at least one order item is required")
)

// CreateOrderCommand represents a request to register a new order from an
// accepted intent: the buying retailer, the item lines, and any upfront
// payment. The remainder of the total is consumed from the retailer's
// credit line.
//
// Example:
//
//	item, _ := order.NewItem(productID, 3, kernel.NewMoney(4999))
//	cmd, err := NewCreateOrderCommand(orderID, retailerID, []order.Item{item}, kernel.NewMoney(5000))
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	retailerID kernel.UUID
	items      []order.Item
	paidAmount kernel.Money

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates identifiers, requires at least one item, and rejects a
// negative upfront payment.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	retailerID kernel.UUID,
	items []order.Item,
	paidAmount kernel.Money,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRetailerID(retailerID),
		cmd.setItems(items),
		cmd.setPaidAmount(paidAmount),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// RetailerID returns the buying retailer's identifier.
func (c CreateOrderCommand) RetailerID() kernel.UUID {
	return c.retailerID
}

// Items returns the order's item lines.
func (c CreateOrderCommand) Items() []order.Item {
	return c.items
}

// PaidAmount returns the upfront payment.
func (c CreateOrderCommand) PaidAmount() kernel.Money {
	return c.paidAmount
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setRetailerID(retailerID kernel.UUID) error {
	if err := retailerID.Validate(); err != nil {
		return err
	}

	c.retailerID = retailerID
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	c.items = items
	return nil
}

func (c *CreateOrderCommand) setPaidAmount(paidAmount kernel.Money) error {
	if err := paidAmount.ValidateAmount("paidAmount"); err != nil {
		return err
	}

	c.paidAmount = paidAmount
	return nil
}
