package order

import (
	"time"

	"fulfillment/internal/pkg/errs"
)

// StatusChange is an immutable record of a single order transition.
// One row is appended to the status log for every successful transition,
// in the same transaction that updates the order itself, giving a complete
// audit trail of who moved the order and when.
type StatusChange struct {
	from       Status
	to         Status
	actor      string
	occurredAt time.Time
}

// NewStatusChange records a transition performed by actor at occurredAt.
func NewStatusChange(from, to Status, actor string, occurredAt time.Time) (StatusChange, error) {
	if actor == "" {
		return StatusChange{}, errs.NewValueIsRequiredError("actor")
	}
	if err := to.Validate(); err != nil {
		return StatusChange{}, err
	}
	return StatusChange{
		from:       from,
		to:         to,
		actor:      actor,
		occurredAt: occurredAt,
	}, nil
}

// From returns the status the order left.
func (c StatusChange) From() Status { return c.from }

// To returns the status the order entered.
func (c StatusChange) To() Status { return c.to }

// Actor returns who performed the transition (a user, "router",
// "timeout-scheduler", "watchdog", ...).
func (c StatusChange) Actor() string { return c.actor }

// OccurredAt returns when the transition happened.
func (c StatusChange) OccurredAt() time.Time { return c.occurredAt }
