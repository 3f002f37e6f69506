package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetInterventionLogQueryIsNotConstructed = errors.New(
	"GetInterventionLogQuery must be created via NewGetInterventionLogQuery constructor",
)

// GetInterventionLogQuery retrieves the watchdog's intervention history
// for one order: every recovery attempt, what it did, and how it ended.
type GetInterventionLogQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetInterventionLogQuery creates a query for an order's intervention
// audit trail.
func NewGetInterventionLogQuery(orderID kernel.UUID) (GetInterventionLogQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetInterventionLogQuery{}, err
	}
	return GetInterventionLogQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetInterventionLogQuery) Validate() error {
	return q.guard.Validate(ErrGetInterventionLogQueryIsNotConstructed)
}

// OrderID returns the order whose interventions to load.
func (q GetInterventionLogQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetInterventionLogQueryResponse is one watchdog intervention.
type GetInterventionLogQueryResponse struct {
	ID            kernel.UUID
	IssueType     string
	RecoveryKind  string
	AttemptNumber int
	Status        string
	Detail        string
	AdminNotified bool
	StartedAt     time.Time
	FinishedAt    *time.Time
}
