package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/assignment"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ErrWindowVendorMismatch is returned when a vendor responds to a window
// that was opened for a different vendor.
var ErrWindowVendorMismatch = errors.New("acceptance window belongs to a different vendor")

// RecordVendorResponseCommandHandler applies a vendor's accept/reject
// decision. The window is claimed with a conditional update, so a response
// racing the timeout scanner resolves to exactly one winner.
//
// Acceptance reserves the vendor's stock and moves the order to Accepted.
// Rejection immediately re-routes to the next ranked vendor; when no
// vendor remains, the order fails and its opening debit is reversed.
// Notifications and events run strictly after commit.
type RecordVendorResponseCommandHandler struct {
	uowFactory RoutingUoWFactory
	router     Router
	notifier   ports.VendorNotifier
	admin      ports.AdminNotifier
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewRecordVendorResponseCommandHandler creates a handler for vendor
// responses.
func NewRecordVendorResponseCommandHandler(
	uowFactory RoutingUoWFactory,
	router Router,
	notifier ports.VendorNotifier,
	admin ports.AdminNotifier,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) RecordVendorResponseCommandHandler {
	return RecordVendorResponseCommandHandler{
		uowFactory: uowFactory,
		router:     router,
		notifier:   notifier,
		admin:      admin,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes the vendor response.
// Returns assignment.ErrWindowExpired for late responses and
// assignment.ErrWindowAlreadyClosed when the window was already claimed.
func (h RecordVendorResponseCommandHandler) Handle(ctx context.Context, cmd RecordVendorResponseCommand) error {
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

	windowRepo := uow.WindowRepository()

	window, err := windowRepo.GetPendingByOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if !window.VendorID().IsEqual(cmd.VendorID()) {
		return ErrWindowVendorMismatch
	}
	if window.IsExpired(now) {
		// Late responses never reopen a window; the scanner owns it now.
		return assignment.ErrWindowExpired
	}

	claimed, err := windowRepo.ClaimResponded(ctx, window.ID(), cmd.IsAccepted(), now)
	if err != nil {
		return err
	}
	if !claimed {
		return assignment.ErrWindowAlreadyClosed
	}
	if err = window.Respond(cmd.IsAccepted(), now); err != nil {
		return err
	}

	var afterCommit []func()
	if cmd.IsAccepted() {
		afterCommit, err = h.accept(ctx, uow, cmd, now)
	} else {
		afterCommit, err = h.reject(ctx, uow, cmd, window, now)
	}
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, fn := range afterCommit {
		fn()
	}
	return nil
}

func (h RecordVendorResponseCommandHandler) accept(
	ctx context.Context,
	uow RoutingUoW,
	cmd RecordVendorResponseCommand,
	now time.Time,
) ([]func(), error) {
	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	actor := fmt.Sprintf("vendor:%s", cmd.VendorID())
	if err = o.TransitionTo(order.Accepted, actor, now); err != nil {
		return nil, err
	}

	if err = uow.VendorRepository().ReserveStock(ctx, cmd.VendorID(), o.Items()); err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}

	score, err := uow.VendorRepository().GetScore(ctx, cmd.VendorID())
	if err != nil {
		return nil, err
	}
	score.RecordAccepted()
	if err = h.router.rescore(score, now); err != nil {
		return nil, err
	}
	if err = uow.VendorRepository().UpdateScore(ctx, score); err != nil {
		return nil, err
	}

	return []func(){func() {
		_ = h.publisher.Publish(ctx, ports.OutboundEvent{
			Name:       "order.accepted",
			OrderID:    o.ID(),
			OccurredAt: now,
			Payload:    map[string]any{"vendorId": cmd.VendorID().String()},
		})
	}}, nil
}

func (h RecordVendorResponseCommandHandler) reject(
	ctx context.Context,
	uow RoutingUoW,
	cmd RecordVendorResponseCommand,
	window *assignment.Window,
	now time.Time,
) ([]func(), error) {
	score, err := uow.VendorRepository().GetScore(ctx, cmd.VendorID())
	if err != nil {
		return nil, err
	}
	score.RecordRejected()
	if err = h.router.rescore(score, now); err != nil {
		return nil, err
	}
	if err = uow.VendorRepository().UpdateScore(ctx, score); err != nil {
		return nil, err
	}

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	rtl, err := uow.RetailerRepository().Get(ctx, o.RetailerID())
	if err != nil {
		return nil, err
	}

	outcome, err := h.router.route(ctx, uow, o, rtl, "router", now)
	if errors.Is(err, ErrNoVendorAvailable) || errors.Is(err, ErrRoutingExhausted) {
		return h.failOrder(ctx, uow, o, err, now)
	}
	if err != nil {
		return nil, err
	}

	if err = window.MarkReassigned(outcome.vendorID); err != nil {
		return nil, err
	}
	if err = uow.WindowRepository().Update(ctx, window); err != nil {
		return nil, err
	}

	nextVendorID := outcome.vendorID
	deadline := outcome.window.Deadline()
	return []func(){func() {
		if err := h.notifier.NotifyAssignment(ctx, nextVendorID, o.ID(), deadline); err != nil {
			h.logger.WarnContext(ctx, "vendor assignment notification failed",
				"orderId", o.ID().String(), "vendorId", nextVendorID.String(), "error", err)
		}
	}}, nil
}

// failOrder moves a routed-out order to Failed and reverses its opening
// debit. Runs inside the caller's transaction; the returned hook sends the
// operator alert after commit.
func (h RecordVendorResponseCommandHandler) failOrder(
	ctx context.Context,
	uow RoutingUoW,
	o *order.Order,
	cause error,
	now time.Time,
) ([]func(), error) {
	if err := failOrderWithReversal(ctx, uow, o, "router", now); err != nil {
		return nil, err
	}

	orderID := o.ID()
	return []func(){func() {
		if err := h.admin.Alert(ctx, "order routing failed",
			fmt.Sprintf("order %s failed: %v", orderID, cause)); err != nil {
			h.logger.WarnContext(ctx, "admin alert failed", "orderId", orderID.String(), "error", err)
		}
		_ = h.publisher.Publish(ctx, ports.OutboundEvent{
			Name:       "order.failed",
			OrderID:    orderID,
			OccurredAt: now,
			Payload:    map[string]any{"reason": cause.Error()},
		})
	}}, nil
}
