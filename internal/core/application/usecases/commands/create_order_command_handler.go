package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/ledger"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/retailer"
	"fulfillment/internal/core/ports"
)

// ErrSafeModeActive is returned when order intake is suspended. In-flight
// orders keep progressing; only new intake is blocked.
var ErrSafeModeActive = errors.New("order intake is suspended (safe mode)")

// CreateOrderCommandHandler handles the business logic for order intake.
// Inside one transaction it checks the retailer's credit position, posts
// the opening ORDER_DEBIT for the credit portion, and confirms the order.
// Routing to a vendor is a separate command that follows the intake.
type CreateOrderCommandHandler struct {
	uowFactory OrderingUoWFactory
	policy     retailer.CreditPolicy
	publisher  ports.EventPublisher
}

// NewCreateOrderCommandHandler creates a handler for order intake.
func NewCreateOrderCommandHandler(
	uowFactory OrderingUoWFactory,
	policy retailer.CreditPolicy,
	publisher ports.EventPublisher,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		publisher:  publisher,
	}
}

// Handle processes the order intake command.
// Rejects intake in safe mode, checks the tier policy and available
// credit under a retailer row lock, posts the opening debit, and confirms
// the order. Everything commits atomically; the order-created event goes
// out only after commit.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	safeMode, err := uow.SettingsRepository().IsSafeMode(ctx)
	if err != nil {
		return err
	}
	if safeMode {
		return ErrSafeModeActive
	}

	rtl, err := uow.RetailerRepository().GetForUpdate(ctx, cmd.RetailerID())
	if err != nil {
		return err
	}

	newOrder, err := order.NewOrder(cmd.OrderID(), cmd.RetailerID(), cmd.Items(), cmd.PaidAmount(), now)
	if err != nil {
		return err
	}

	creditUsed := newOrder.CreditUsed()
	if !creditUsed.IsZero() {
		if err = rtl.CheckAvailability(creditUsed, h.policy); err != nil {
			return err
		}

		orderID := newOrder.ID()
		if _, err = postEntry(ctx, uow.LedgerRepository(), rtl, ledger.OrderDebit, creditUsed, &orderID, "", now); err != nil {
			return err
		}
		if err = uow.RetailerRepository().Update(ctx, rtl); err != nil {
			return err
		}
	}

	if err = newOrder.TransitionTo(order.Confirmed, "system", now); err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.publisher.Publish(ctx, ports.OutboundEvent{
		Name:       "order.created",
		OrderID:    newOrder.ID(),
		OccurredAt: now,
		Payload: map[string]any{
			"retailerId": newOrder.RetailerID().String(),
			"total":      newOrder.Total().Cents(),
			"creditUsed": creditUsed.Cents(),
		},
	})

	return nil
}
