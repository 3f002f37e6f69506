package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/ledger"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// TransitionOrderCommandHandler moves an order through its post-acceptance
// lifecycle and applies the financial and scoring side effects of each
// step inside the same transaction:
//
//   - Delivered posts a PAYMENT_CREDIT for any cash collected on delivery
//     and bumps the vendor's delivery counter
//   - Cancelled reverses the unreversed opening debit, returns reserved
//     stock, and bumps the vendor's cancellation counter
type TransitionOrderCommandHandler struct {
	uowFactory RoutingUoWFactory
	router     Router
	publisher  ports.EventPublisher
}

// NewTransitionOrderCommandHandler creates a handler for lifecycle
// transitions.
func NewTransitionOrderCommandHandler(uowFactory RoutingUoWFactory, router Router, publisher ports.EventPublisher) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		router:     router,
		publisher:  publisher,
	}
}

// Handle processes the transition command. Illegal transitions surface as
// order.ErrInvalidTransition from the aggregate.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
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

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	prior := o.Status()

	if err = o.TransitionTo(cmd.Target(), cmd.Actor(), now); err != nil {
		return err
	}

	switch cmd.Target() {
	case order.Delivered:
		err = h.onDelivered(ctx, uow, o, cmd.CollectedAmount(), now)
	case order.Cancelled:
		err = h.onCancelled(ctx, uow, o, prior, now)
	}
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.publisher.Publish(ctx, ports.OutboundEvent{
		Name:       fmt.Sprintf("order.%s", cmd.Target()),
		OrderID:    o.ID(),
		OccurredAt: now,
		Payload:    map[string]any{"actor": cmd.Actor(), "from": prior.String()},
	})

	return nil
}

func (h TransitionOrderCommandHandler) onDelivered(
	ctx context.Context,
	uow RoutingUoW,
	o *order.Order,
	collected kernel.Money,
	now time.Time,
) error {
	if !collected.IsZero() {
		rtl, err := uow.RetailerRepository().GetForUpdate(ctx, o.RetailerID())
		if err != nil {
			return err
		}

		orderID := o.ID()
		ref := fmt.Sprintf("delivery:%s", orderID)
		if _, err = postEntry(ctx, uow.LedgerRepository(), rtl, ledger.PaymentCredit, collected, &orderID, ref, now); err != nil {
			return err
		}
		if err = uow.RetailerRepository().Update(ctx, rtl); err != nil {
			return err
		}
		if err = o.ApplyPayment(collected, now); err != nil {
			return err
		}
	}

	return h.recordVendorOutcome(ctx, uow, o, func(s vendorScore) { s.RecordDelivered() }, now)
}

func (h TransitionOrderCommandHandler) onCancelled(
	ctx context.Context,
	uow RoutingUoW,
	o *order.Order,
	prior order.Status,
	now time.Time,
) error {
	// Stock is reserved at acceptance and consumed at delivery, so only
	// cancellations in between return it.
	if o.VendorID() != nil && (prior == order.Accepted || prior == order.Dispatched) {
		if err := uow.VendorRepository().ReleaseStock(ctx, *o.VendorID(), o.Items()); err != nil {
			return err
		}
	}

	if !o.CreditUsed().IsZero() {
		rtl, err := uow.RetailerRepository().GetForUpdate(ctx, o.RetailerID())
		if err != nil {
			return err
		}
		if _, err = reverseOrderDebit(ctx, uow.LedgerRepository(), rtl, o.ID(), now); err != nil {
			return err
		}
		if err = uow.RetailerRepository().Update(ctx, rtl); err != nil {
			return err
		}
	}

	return h.recordVendorOutcome(ctx, uow, o, func(s vendorScore) { s.RecordCancelled() }, now)
}

// vendorScore is the slice of the score entity the outcome recorders use.
type vendorScore interface {
	RecordDelivered()
	RecordCancelled()
}

func (h TransitionOrderCommandHandler) recordVendorOutcome(
	ctx context.Context,
	uow RoutingUoW,
	o *order.Order,
	record func(vendorScore),
	now time.Time,
) error {
	if o.VendorID() == nil {
		return nil
	}
	score, err := uow.VendorRepository().GetScore(ctx, *o.VendorID())
	if err != nil {
		return err
	}
	record(score)
	if err = h.router.rescore(score, now); err != nil {
		return err
	}
	return uow.VendorRepository().UpdateScore(ctx, score)
}
