package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/healing"
	"fulfillment/internal/core/domain/model/kernel"
)

// HealingRepository defines the persistence contract for watchdog
// actions.
type HealingRepository interface {
	// TryClaim inserts an IN_PROGRESS action for an order. At most one
	// action per order may be in progress; when another worker already
	// holds the claim, TryClaim returns false without error.
	TryClaim(ctx context.Context, action *healing.Action) (bool, error)

	// Update persists the resolution of a claimed action.
	Update(ctx context.Context, action *healing.Action) error

	// Get retrieves an action by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*healing.Action, error)

	// CountByOrder counts all recorded actions for an order. Drives the
	// escalation to manual intervention.
	CountByOrder(ctx context.Context, orderID kernel.UUID) (int, error)

	// GetByOrder retrieves an order's actions newest-first for the
	// intervention audit trail.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*healing.Action, error)
}
