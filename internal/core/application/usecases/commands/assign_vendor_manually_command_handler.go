package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/assignment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ErrVendorIsNotRoutable is returned when a manual assignment names a
// vendor that is not approved or not active.
var ErrVendorIsNotRoutable = errors.New("vendor is not approved and active")

// AssignVendorManuallyCommandHandler routes an order to an operator's
// chosen vendor, bypassing scoring. Any pending acceptance window is
// closed first; the losing vendor is not penalized for an override.
type AssignVendorManuallyCommandHandler struct {
	uowFactory RoutingUoWFactory
	notifier   ports.VendorNotifier
	publisher  ports.EventPublisher
	cfg        ports.RoutingConfig
	logger     *slog.Logger
}

// NewAssignVendorManuallyCommandHandler creates a handler for manual
// vendor assignments.
func NewAssignVendorManuallyCommandHandler(
	uowFactory RoutingUoWFactory,
	notifier ports.VendorNotifier,
	publisher ports.EventPublisher,
	cfg ports.RoutingConfig,
	logger *slog.Logger,
) AssignVendorManuallyCommandHandler {
	return AssignVendorManuallyCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		publisher:  publisher,
		cfg:        cfg,
		logger:     logger,
	}
}

// Handle processes the override. Returns ErrVendorIsNotRoutable when the
// chosen vendor cannot take orders and assignment.ErrWindowAlreadyClosed
// when the pending window was claimed concurrently.
func (h AssignVendorManuallyCommandHandler) Handle(ctx context.Context, cmd AssignVendorManuallyCommand) error {
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
	vendorRepo := uow.VendorRepository()

	vendor, err := vendorRepo.Get(ctx, cmd.VendorID())
	if err != nil {
		return err
	}
	if !vendor.IsRoutable() {
		return ErrVendorIsNotRoutable
	}

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	pending, err := windowRepo.GetPendingByOrder(ctx, cmd.OrderID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	if pending != nil {
		claimed, err := windowRepo.ClaimTimedOut(ctx, pending.ID())
		if err != nil {
			return err
		}
		if !claimed {
			return assignment.ErrWindowAlreadyClosed
		}
		pending, err = windowRepo.Get(ctx, pending.ID())
		if err != nil {
			return err
		}
		if err = pending.MarkReassigned(cmd.VendorID()); err != nil {
			return err
		}
		if err = windowRepo.Update(ctx, pending); err != nil {
			return err
		}
	}

	history, err := windowRepo.GetByOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	attempt := len(history) + 1

	if err = o.AssignVendor(cmd.VendorID(), cmd.Actor(), now); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	score, err := vendorRepo.GetScore(ctx, cmd.VendorID())
	if err != nil {
		return err
	}
	score.RecordAssigned()
	if err = vendorRepo.UpdateScore(ctx, score); err != nil {
		return err
	}

	window, err := assignment.NewWindow(kernel.NewUUID(), cmd.OrderID(), cmd.VendorID(), attempt, now, h.cfg.ResponseTimeout)
	if err != nil {
		return err
	}
	if err = windowRepo.Add(ctx, window); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if err = h.notifier.NotifyAssignment(ctx, cmd.VendorID(), cmd.OrderID(), window.Deadline()); err != nil {
		h.logger.WarnContext(ctx, "vendor notification failed",
			"orderId", cmd.OrderID().String(), "vendorId", cmd.VendorID().String(), "error", err)
	}

	_ = h.publisher.Publish(ctx, ports.OutboundEvent{
		Name:       "order.vendor_assigned",
		OrderID:    cmd.OrderID(),
		OccurredAt: now,
		Payload: map[string]any{
			"vendorId": cmd.VendorID().String(),
			"attempt":  attempt,
			"manual":   true,
			"actor":    cmd.Actor(),
		},
	})

	return nil
}
