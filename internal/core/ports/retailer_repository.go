package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/retailer"
)

// RetailerRepository defines the persistence contract for retailer
// aggregates.
type RetailerRepository interface {
	// Add persists a new retailer aggregate.
	Add(ctx context.Context, aggregate *retailer.Retailer) error

	// Update persists changes to an existing retailer aggregate.
	Update(ctx context.Context, aggregate *retailer.Retailer) error

	// Get retrieves a retailer aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*retailer.Retailer, error)

	// GetForUpdate retrieves a retailer with a row lock so concurrent
	// credit checks against the same account serialize. Must be called
	// inside an open transaction.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*retailer.Retailer, error)
}
