package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/ports"
)

// RouteOrderCommandHandler runs one routing attempt for an order: ranks
// the eligible vendors, assigns the winner, and opens the acceptance
// window. The vendor notification goes out only after the transaction
// commits; if the notification fails, the window simply times out and the
// scanner reassigns.
type RouteOrderCommandHandler struct {
	uowFactory RoutingUoWFactory
	router     Router
	notifier   ports.VendorNotifier
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewRouteOrderCommandHandler creates a handler for routing operations.
func NewRouteOrderCommandHandler(
	uowFactory RoutingUoWFactory,
	router Router,
	notifier ports.VendorNotifier,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) RouteOrderCommandHandler {
	return RouteOrderCommandHandler{
		uowFactory: uowFactory,
		router:     router,
		notifier:   notifier,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes the routing command. Returns ErrNoVendorAvailable when
// ranking leaves no candidate and ErrRoutingExhausted when the attempt
// budget is already spent.
func (h RouteOrderCommandHandler) Handle(ctx context.Context, cmd RouteOrderCommand) error {
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
	rtl, err := uow.RetailerRepository().Get(ctx, o.RetailerID())
	if err != nil {
		return err
	}

	outcome, err := h.router.route(ctx, uow, o, rtl, "router", now)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if err = h.notifier.NotifyAssignment(ctx, outcome.vendorID, o.ID(), outcome.window.Deadline()); err != nil {
		h.logger.WarnContext(ctx, "vendor assignment notification failed",
			"orderId", o.ID().String(),
			"vendorId", outcome.vendorID.String(),
			"error", err,
		)
	}

	_ = h.publisher.Publish(ctx, ports.OutboundEvent{
		Name:       "order.vendor_assigned",
		OrderID:    o.ID(),
		OccurredAt: now,
		Payload: map[string]any{
			"vendorId": outcome.vendorID.String(),
			"attempt":  outcome.window.AttemptNumber(),
			"deadline": outcome.window.Deadline().Format(time.RFC3339),
		},
	})

	return nil
}
