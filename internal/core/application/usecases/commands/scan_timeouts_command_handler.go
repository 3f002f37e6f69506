package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/assignment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ScanTimeoutsCommandHandler runs the acceptance-window timeout scanner.
// Each expired window is processed in its own transaction and claimed with
// a conditional update, so any number of scanner instances can run
// concurrently without double-processing. A timed-out vendor is penalized
// as if it had rejected, and the order is routed to the next candidate; an
// order out of attempts is failed and its opening debit reversed.
type ScanTimeoutsCommandHandler struct {
	uowFactory RoutingUoWFactory
	router     Router
	notifier   ports.VendorNotifier
	admin      ports.AdminNotifier
	publisher  ports.EventPublisher
	cfg        ports.RoutingConfig
	logger     *slog.Logger
}

// NewScanTimeoutsCommandHandler creates a handler for timeout scans.
func NewScanTimeoutsCommandHandler(
	uowFactory RoutingUoWFactory,
	router Router,
	notifier ports.VendorNotifier,
	admin ports.AdminNotifier,
	publisher ports.EventPublisher,
	cfg ports.RoutingConfig,
	logger *slog.Logger,
) ScanTimeoutsCommandHandler {
	return ScanTimeoutsCommandHandler{
		uowFactory: uowFactory,
		router:     router,
		notifier:   notifier,
		admin:      admin,
		publisher:  publisher,
		cfg:        cfg,
		logger:     logger,
	}
}

// Handle runs one scan pass. Windows that fail to process do not stop the
// pass; their errors are joined into the result.
func (h ScanTimeoutsCommandHandler) Handle(ctx context.Context, cmd ScanTimeoutsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	expired, err := h.listExpired(ctx, now)
	if err != nil {
		return err
	}

	var errs []error
	for _, window := range expired {
		if err := h.processWindow(ctx, window, now); err != nil {
			h.logger.ErrorContext(ctx, "timeout processing failed",
				"windowId", window.ID().String(), "orderId", window.OrderID().String(), "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h ScanTimeoutsCommandHandler) listExpired(ctx context.Context, now time.Time) ([]*assignment.Window, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.WindowRepository().GetExpiredPending(ctx, now, timeoutScanBatch)
}

// timeoutScanBatch bounds how many expired windows one pass picks up.
const timeoutScanBatch = 100

// processWindow handles one expired window in its own transaction.
func (h ScanTimeoutsCommandHandler) processWindow(ctx context.Context, window *assignment.Window, now time.Time) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	claimed, err := uow.WindowRepository().ClaimTimedOut(ctx, window.ID())
	if err != nil {
		return err
	}
	if !claimed {
		// A response or another scanner got there first.
		return nil
	}
	if err = window.TimeOut(now); err != nil {
		return err
	}

	// Silence counts as a rejection.
	score, err := uow.VendorRepository().GetScore(ctx, window.VendorID())
	if err != nil {
		return err
	}
	score.RecordRejected()
	if err = h.router.rescore(score, now); err != nil {
		return err
	}
	if err = uow.VendorRepository().UpdateScore(ctx, score); err != nil {
		return err
	}

	o, err := uow.OrderRepository().Get(ctx, window.OrderID())
	if err != nil {
		return err
	}
	rtl, err := uow.RetailerRepository().Get(ctx, o.RetailerID())
	if err != nil {
		return err
	}

	outcome, routeErr := h.router.route(ctx, uow, o, rtl, "timeout-scanner", now)
	if errors.Is(routeErr, ErrNoVendorAvailable) || errors.Is(routeErr, ErrRoutingExhausted) {
		return h.exhaust(ctx, uow, o, window, routeErr, now)
	}
	if routeErr != nil {
		return routeErr
	}

	if err = window.MarkReassigned(outcome.vendorID); err != nil {
		return err
	}
	if err = uow.WindowRepository().Update(ctx, window); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.afterReassign(ctx, o.ID(), outcome, now)
	return nil
}

// exhaust fails an order with no routing attempts left, reversing its
// opening debit, then alerts the operator after commit.
func (h ScanTimeoutsCommandHandler) exhaust(
	ctx context.Context,
	uow RoutingUoW,
	o *order.Order,
	window *assignment.Window,
	cause error,
	now time.Time,
) error {
	if err := failOrderWithReversal(ctx, uow, o, "timeout-scanner", now); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	if err := h.admin.Alert(ctx, "order routing exhausted",
		fmt.Sprintf("order %s failed after %d attempts: %v", o.ID(), window.AttemptNumber(), cause)); err != nil {
		h.logger.WarnContext(ctx, "admin alert failed", "orderId", o.ID().String(), "error", err)
	}
	_ = h.publisher.Publish(ctx, ports.OutboundEvent{
		Name:       "order.failed",
		OrderID:    o.ID(),
		OccurredAt: now,
		Payload:    map[string]any{"reason": cause.Error(), "attempts": window.AttemptNumber()},
	})
	return nil
}

func (h ScanTimeoutsCommandHandler) afterReassign(ctx context.Context, orderID kernel.UUID, outcome *routeOutcome, now time.Time) {
	if err := h.notifier.NotifyAssignment(ctx, outcome.vendorID, orderID, outcome.window.Deadline()); err != nil {
		h.logger.WarnContext(ctx, "vendor assignment notification failed",
			"orderId", orderID.String(), "vendorId", outcome.vendorID.String(), "error", err)
	}

	// Early escalation: let an operator watch orders that keep bouncing.
	if h.cfg.NotifyAdminAfterAttempts > 0 && outcome.window.AttemptNumber() > h.cfg.NotifyAdminAfterAttempts {
		if err := h.admin.Alert(ctx, "order repeatedly reassigned",
			fmt.Sprintf("order %s is on routing attempt %d", orderID, outcome.window.AttemptNumber())); err != nil {
			h.logger.WarnContext(ctx, "admin alert failed", "orderId", orderID.String(), "error", err)
		}
	}

	_ = h.publisher.Publish(ctx, ports.OutboundEvent{
		Name:       "order.vendor_reassigned",
		OrderID:    orderID,
		OccurredAt: now,
		Payload: map[string]any{
			"vendorId": outcome.vendorID.String(),
			"attempt":  outcome.window.AttemptNumber(),
		},
	})
}
