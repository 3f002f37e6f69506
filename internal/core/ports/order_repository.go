// Package ports defines repository and outbound interfaces for the
// fulfillment domain. These interfaces establish contracts between the
// domain layer and infrastructure, enabling dependency inversion and
// testability.
package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Implementations persist the order row and its uncommitted status changes
// atomically within the ambient transaction.
type OrderRepository interface {
	// Add persists a new order aggregate together with its status log.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate and appends
	// any uncommitted status changes.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetStalledSince retrieves non-terminal orders whose last update is
	// older than the cutoff. The watchdog classifies each one by status.
	GetStalledSince(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error)

	// CountActiveByVendor counts the vendor's orders between assignment
	// and delivery. Feeds the workload score component.
	CountActiveByVendor(ctx context.Context, vendorID kernel.UUID) (int, error)
}
