package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrTransitionOrderCommandIsNotConstructed = errors.New(
		"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
	)
	ErrActorIsRequired = errors.New("actor is required")

	// ErrUnsupportedTransitionTarget is returned for targets this command
	// does not drive. Confirmation, assignment, and acceptance have their
	// own commands.
	ErrUnsupportedTransitionTarget = errors.New("unsupported transition target")
)

// TransitionOrderCommand drives the post-acceptance order lifecycle:
// Dispatched, Delivered, Completed, and Cancelled. A delivery may carry a
// collected amount when the retailer pays cash on delivery.
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	target          order.Status
	actor           string
	collectedAmount kernel.Money

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a command to move an order to the
// target status. collectedAmount is only meaningful for Delivered and may
// be zero.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	target order.Status,
	actor string,
	collectedAmount kernel.Money,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
		cmd.setActor(actor),
		cmd.setCollectedAmount(collectedAmount),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested status.
func (c TransitionOrderCommand) Target() order.Status {
	return c.target
}

// Actor returns who requested the transition, recorded in the status log.
func (c TransitionOrderCommand) Actor() string {
	return c.actor
}

// CollectedAmount returns the cash collected on delivery, zero when the
// delivery was fully on credit.
func (c TransitionOrderCommand) CollectedAmount() kernel.Money {
	return c.collectedAmount
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setTarget(target order.Status) error {
	switch target {
	case order.Dispatched, order.Delivered, order.Completed, order.Cancelled:
	default:
		return ErrUnsupportedTransitionTarget
	}

	c.target = target
	return nil
}

func (c *TransitionOrderCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}

	c.actor = actor
	return nil
}

func (c *TransitionOrderCommand) setCollectedAmount(collectedAmount kernel.Money) error {
	if err := collectedAmount.ValidateAmount("collectedAmount"); err != nil {
		return err
	}

	c.collectedAmount = collectedAmount
	return nil
}
