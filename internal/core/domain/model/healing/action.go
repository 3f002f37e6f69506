package healing

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// IssueType classifies what the watchdog detected about a stuck order.
type IssueType string

const (
	// IssueRoutingStall means the order sat in a pre-acceptance status
	// longer than the routing threshold.
	IssueRoutingStall IssueType = "ROUTING_STALL"
	// IssueWorkflowStall means an accepted order stopped progressing
	// through dispatch or delivery.
	IssueWorkflowStall IssueType = "WORKFLOW_STALL"
)

// Validate checks that the issue type is one of the defined values.
func (i IssueType) Validate() error {
	switch i {
	case IssueRoutingStall, IssueWorkflowStall:
		return nil
	default:
		return errs.NewValueIsInvalidError("issueType")
	}
}

// String implements fmt.Stringer.
func (i IssueType) String() string { return string(i) }

// RecoveryKind is the remediation the watchdog chose for an issue.
type RecoveryKind string

const (
	// RecoverReassignVendor re-runs routing for a routing stall.
	RecoverReassignVendor RecoveryKind = "REASSIGN_VENDOR"
	// RecoverRetryWorkflow nudges a stalled workflow forward.
	RecoverRetryWorkflow RecoveryKind = "RETRY_WORKFLOW"
	// RecoverManualIntervention parks the order for an operator after
	// automated recovery kept failing.
	RecoverManualIntervention RecoveryKind = "MANUAL_INTERVENTION"
)

// Validate checks that the recovery kind is one of the defined values.
func (r RecoveryKind) Validate() error {
	switch r {
	case RecoverReassignVendor, RecoverRetryWorkflow, RecoverManualIntervention:
		return nil
	default:
		return errs.NewValueIsInvalidError("recoveryKind")
	}
}

// String implements fmt.Stringer.
func (r RecoveryKind) String() string { return string(r) }

// ActionStatus is the outcome state of a healing action.
type ActionStatus string

const (
	ActionInProgress ActionStatus = "IN_PROGRESS"
	ActionSucceeded  ActionStatus = "SUCCESS"
	ActionFailed     ActionStatus = "FAILED"
)

// Validate checks that the status is one of the defined values.
func (s ActionStatus) Validate() error {
	switch s {
	case ActionInProgress, ActionSucceeded, ActionFailed:
		return nil
	default:
		return errs.NewValueIsInvalidError("actionStatus")
	}
}

// String implements fmt.Stringer.
func (s ActionStatus) String() string { return string(s) }

// maxAutomatedAttempts bounds automated recovery per order. The attempt
// that would be number maxAutomatedAttempts+1 escalates to an operator
// instead.
const maxAutomatedAttempts = 2

// ClassifyRecovery picks the remediation for a detected issue given how
// many healing actions were already recorded for the order.
func ClassifyRecovery(issue IssueType, priorAttempts int) RecoveryKind {
	if priorAttempts >= maxAutomatedAttempts {
		return RecoverManualIntervention
	}
	if issue == IssueRoutingStall {
		return RecoverReassignVendor
	}
	return RecoverRetryWorkflow
}

// ErrActionIsNotConstructed is returned when an Action instance was not
// created through NewAction or RestoreAction.
var ErrActionIsNotConstructed = errors.New("Action must be created via NewAction or RestoreAction")

// Action is the audit record of one watchdog intervention on one order.
// Rows are claimed with a uniqueness guarantee so concurrent watchdog
// workers never heal the same order twice.
type Action struct {
	id            kernel.UUID
	orderID       kernel.UUID
	issueType     IssueType
	recovery      RecoveryKind
	status        ActionStatus
	attemptNumber int
	detail        string
	adminNotified bool
	detectedAt    time.Time
	completedAt   *time.Time

	isConstructed bool
}

// NewAction records a freshly detected issue. The action starts
// IN_PROGRESS; the caller resolves it after executing the recovery.
func NewAction(id, orderID kernel.UUID, issue IssueType, recovery RecoveryKind, attemptNumber int, detectedAt time.Time) (*Action, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), issue.Validate(), recovery.Validate()); err != nil {
		return nil, err
	}
	if attemptNumber < 1 {
		return nil, errs.NewValueIsOutOfRangeError("attemptNumber", attemptNumber, 1, 1<<31-1)
	}
	return &Action{
		id:            id,
		orderID:       orderID,
		issueType:     issue,
		recovery:      recovery,
		status:        ActionInProgress,
		attemptNumber: attemptNumber,
		detectedAt:    detectedAt,
		isConstructed: true,
	}, nil
}

// RestoreAction reconstructs an action from persistence.
func RestoreAction(
	id, orderID kernel.UUID,
	issue IssueType,
	recovery RecoveryKind,
	status ActionStatus,
	attemptNumber int,
	detail string,
	adminNotified bool,
	detectedAt time.Time,
	completedAt *time.Time,
) (*Action, error) {
	a, err := NewAction(id, orderID, issue, recovery, attemptNumber, detectedAt)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}
	a.status = status
	a.detail = detail
	a.adminNotified = adminNotified
	a.completedAt = completedAt
	return a, nil
}

// Validate ensures the Action was created through a constructor.
func (a *Action) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrActionIsNotConstructed
	}
	return nil
}

// ID returns the action identifier.
func (a *Action) ID() kernel.UUID { return a.id }

// OrderID returns the order the action healed.
func (a *Action) OrderID() kernel.UUID { return a.orderID }

// IssueType returns what kind of stall was detected.
func (a *Action) IssueType() IssueType { return a.issueType }

// Recovery returns the chosen remediation.
func (a *Action) Recovery() RecoveryKind { return a.recovery }

// Status returns the action's outcome state.
func (a *Action) Status() ActionStatus { return a.status }

// AttemptNumber returns which healing attempt this is for the order,
// starting at 1.
func (a *Action) AttemptNumber() int { return a.attemptNumber }

// Detail returns a human-readable description of what was done.
func (a *Action) Detail() string { return a.detail }

// IsAdminNotified reports whether an operator alert went out for this
// action.
func (a *Action) IsAdminNotified() bool { return a.adminNotified }

// DetectedAt returns when the watchdog flagged the order.
func (a *Action) DetectedAt() time.Time { return a.detectedAt }

// CompletedAt returns when the recovery finished, or nil while running.
func (a *Action) CompletedAt() *time.Time { return a.completedAt }

// MarkSucceeded resolves the action as successful.
func (a *Action) MarkSucceeded(detail string, now time.Time) {
	a.status = ActionSucceeded
	a.detail = detail
	completedAt := now
	a.completedAt = &completedAt
}

// MarkFailed resolves the action as failed; the next watchdog pass will
// count it toward the escalation threshold.
func (a *Action) MarkFailed(detail string, now time.Time) {
	a.status = ActionFailed
	a.detail = detail
	completedAt := now
	a.completedAt = &completedAt
}

// MarkAdminNotified records that the operator alert for this action was
// delivered.
func (a *Action) MarkAdminNotified() { a.adminNotified = true }
