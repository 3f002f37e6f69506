package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/healing"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// HealStuckOrdersCommandHandler runs the self-healing watchdog. One pass
// finds non-terminal orders that stopped progressing, classifies each as a
// routing stall or a workflow stall, and executes the matching recovery.
// Every intervention is recorded as a healing action; the action insert
// doubles as the claim, so concurrent watchdog instances never heal the
// same order twice. After repeated automated attempts the order is parked
// for manual intervention and an operator is alerted.
type HealStuckOrdersCommandHandler struct {
	uowFactory HealingUoWFactory
	router     Router
	notifier   ports.VendorNotifier
	admin      ports.AdminNotifier
	publisher  ports.EventPublisher
	cfg        ports.WatchdogConfig
	logger     *slog.Logger
}

// NewHealStuckOrdersCommandHandler creates a handler for watchdog passes.
func NewHealStuckOrdersCommandHandler(
	uowFactory HealingUoWFactory,
	router Router,
	notifier ports.VendorNotifier,
	admin ports.AdminNotifier,
	publisher ports.EventPublisher,
	cfg ports.WatchdogConfig,
	logger *slog.Logger,
) HealStuckOrdersCommandHandler {
	return HealStuckOrdersCommandHandler{
		uowFactory: uowFactory,
		router:     router,
		notifier:   notifier,
		admin:      admin,
		publisher:  publisher,
		cfg:        cfg,
		logger:     logger,
	}
}

// Handle runs one watchdog pass. Orders that fail to heal do not stop the
// pass; their errors are joined into the result.
func (h HealStuckOrdersCommandHandler) Handle(ctx context.Context, cmd HealStuckOrdersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	stalled, err := h.listStalled(ctx, now)
	if err != nil {
		return err
	}

	var failures []error
	for _, o := range stalled {
		issue, stuck := h.classify(o, now)
		if !stuck {
			continue
		}
		if err := h.healOrder(ctx, o.ID(), issue, now); err != nil {
			h.logger.ErrorContext(ctx, "healing failed",
				"orderId", o.ID().String(), "issue", issue.String(), "error", err)
			failures = append(failures, err)
		}
	}
	return errors.Join(failures...)
}

func (h HealStuckOrdersCommandHandler) listStalled(ctx context.Context, now time.Time) ([]*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cutoff := now.Add(-h.cfg.RoutingStallAfter)
	if h.cfg.WorkflowStallAfter < h.cfg.RoutingStallAfter {
		cutoff = now.Add(-h.cfg.WorkflowStallAfter)
	}
	return uow.OrderRepository().GetStalledSince(ctx, cutoff, h.cfg.ScanBatchSize)
}

// classify decides whether the order is genuinely stuck and which stall
// class applies. Each class has its own age threshold.
func (h HealStuckOrdersCommandHandler) classify(o *order.Order, now time.Time) (healing.IssueType, bool) {
	age := now.Sub(o.UpdatedAt())
	switch o.Status() {
	case order.Draft, order.Confirmed, order.VendorAssigned:
		return healing.IssueRoutingStall, age >= h.cfg.RoutingStallAfter
	case order.Accepted, order.Dispatched, order.Delivered:
		return healing.IssueWorkflowStall, age >= h.cfg.WorkflowStallAfter
	default:
		return "", false
	}
}

// healOrder runs one intervention in its own transaction.
func (h HealStuckOrdersCommandHandler) healOrder(ctx context.Context, orderID kernel.UUID, issue healing.IssueType, now time.Time) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	healingRepo := uow.HealingRepository()

	prior, err := healingRepo.CountByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	recovery := healing.ClassifyRecovery(issue, prior)

	action, err := healing.NewAction(kernel.NewUUID(), orderID, issue, recovery, prior+1, now)
	if err != nil {
		return err
	}
	claimed, err := healingRepo.TryClaim(ctx, action)
	if err != nil {
		return err
	}
	if !claimed {
		// Another watchdog instance holds this order.
		return nil
	}

	o, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return err
	}

	var afterCommit []func()
	if o.Status().IsTerminal() {
		action.MarkSucceeded("order reached a terminal status on its own", now)
	} else {
		switch recovery {
		case healing.RecoverReassignVendor:
			afterCommit, err = h.reassign(ctx, uow, o, action, now)
		case healing.RecoverRetryWorkflow:
			afterCommit, err = h.retryWorkflow(ctx, uow, o, action, now)
		case healing.RecoverManualIntervention:
			afterCommit = h.escalate(ctx, o, action, issue, now)
		}
		if err != nil {
			return err
		}
	}

	if err = healingRepo.Update(ctx, action); err != nil {
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

// reassign re-runs routing for an order stuck before acceptance. Any still
// open window is claimed timed out first so the stalled vendor is skipped.
func (h HealStuckOrdersCommandHandler) reassign(
	ctx context.Context,
	uow HealingUoW,
	o *order.Order,
	action *healing.Action,
	now time.Time,
) ([]func(), error) {
	windowRepo := uow.WindowRepository()

	pending, err := windowRepo.GetPendingByOrder(ctx, o.ID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}
	if pending != nil {
		claimed, err := windowRepo.ClaimTimedOut(ctx, pending.ID())
		if err != nil {
			return nil, err
		}
		if !claimed {
			action.MarkSucceeded("window already claimed by the timeout scanner", now)
			return nil, nil
		}
	}

	rtl, err := uow.RetailerRepository().Get(ctx, o.RetailerID())
	if err != nil {
		return nil, err
	}

	outcome, routeErr := h.router.route(ctx, uow, o, rtl, "watchdog", now)
	if errors.Is(routeErr, ErrNoVendorAvailable) || errors.Is(routeErr, ErrRoutingExhausted) {
		if err := failOrderWithReversal(ctx, uow, o, "watchdog", now); err != nil {
			return nil, err
		}
		action.MarkFailed(fmt.Sprintf("reassignment impossible: %v; order failed", routeErr), now)

		orderID := o.ID()
		return []func(){func() {
			if err := h.admin.Alert(ctx, "watchdog failed order",
				fmt.Sprintf("order %s failed during healing: %v", orderID, routeErr)); err != nil {
				h.logger.WarnContext(ctx, "admin alert failed", "orderId", orderID.String(), "error", err)
			}
		}}, nil
	}
	if routeErr != nil {
		return nil, routeErr
	}

	action.MarkSucceeded(fmt.Sprintf("reassigned to vendor %s", outcome.vendorID), now)

	orderID := o.ID()
	vendorID := outcome.vendorID
	deadline := outcome.window.Deadline()
	return []func(){func() {
		if err := h.notifier.NotifyAssignment(ctx, vendorID, orderID, deadline); err != nil {
			h.logger.WarnContext(ctx, "vendor assignment notification failed",
				"orderId", orderID.String(), "vendorId", vendorID.String(), "error", err)
		}
	}}, nil
}

// retryWorkflow nudges an accepted order that stopped progressing: the
// assigned vendor gets a reminder and downstream consumers get a stall
// event. The touch moves the order out of the stuck set until the next
// threshold elapses.
func (h HealStuckOrdersCommandHandler) retryWorkflow(
	ctx context.Context,
	uow HealingUoW,
	o *order.Order,
	action *healing.Action,
	now time.Time,
) ([]func(), error) {
	o.Touch(now)
	if err := uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}
	action.MarkSucceeded("vendor reminded, workflow retried", now)

	orderID := o.ID()
	vendorID := o.VendorID()
	return []func(){func() {
		if vendorID != nil {
			if err := h.notifier.NotifyAssignment(ctx, *vendorID, orderID, now.Add(h.cfg.WorkflowStallAfter)); err != nil {
				h.logger.WarnContext(ctx, "vendor reminder failed",
					"orderId", orderID.String(), "vendorId", vendorID.String(), "error", err)
			}
		}
		_ = h.publisher.Publish(ctx, ports.OutboundEvent{
			Name:       "order.stalled",
			OrderID:    orderID,
			OccurredAt: now,
			Payload:    map[string]any{"recovery": healing.RecoverRetryWorkflow.String()},
		})
	}}, nil
}

// escalate parks the order for an operator after automation kept failing.
func (h HealStuckOrdersCommandHandler) escalate(
	ctx context.Context,
	o *order.Order,
	action *healing.Action,
	issue healing.IssueType,
	now time.Time,
) []func() {
	action.MarkAdminNotified()
	action.MarkSucceeded("escalated to operator", now)

	orderID := o.ID()
	status := o.Status().String()
	return []func(){func() {
		if err := h.admin.Alert(ctx, "order needs manual intervention",
			fmt.Sprintf("order %s (%s) stuck with %s after repeated automated recovery", orderID, status, issue)); err != nil {
			h.logger.WarnContext(ctx, "admin alert failed", "orderId", orderID.String(), "error", err)
		}
	}}
}
