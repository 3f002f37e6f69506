package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/vendor"
)

// VendorRepository defines the persistence contract for vendor aggregates,
// their scores, and their per-product stock.
type VendorRepository interface {
	// Add persists a new vendor aggregate with an initial score row.
	Add(ctx context.Context, aggregate *vendor.Vendor) error

	// Update persists changes to an existing vendor aggregate.
	Update(ctx context.Context, aggregate *vendor.Vendor) error

	// Get retrieves a vendor aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*vendor.Vendor, error)

	// GetAllRoutable retrieves all approved, active vendors as routing
	// candidates.
	GetAllRoutable(ctx context.Context) ([]*vendor.Vendor, error)

	// GetScore retrieves the vendor's score row.
	GetScore(ctx context.Context, vendorID kernel.UUID) (*vendor.Score, error)

	// UpdateScore persists a recalculated score row.
	UpdateScore(ctx context.Context, score *vendor.Score) error

	// GetScoresIdleSince retrieves score rows not recalculated since the
	// cutoff. Feeds the decay job.
	GetScoresIdleSince(ctx context.Context, cutoff time.Time, limit int) ([]*vendor.Score, error)

	// Quote prices an order against the vendor's stock: the sum of the
	// vendor's unit prices times quantities. The bool reports whether the
	// vendor stocks every item in sufficient quantity.
	Quote(ctx context.Context, vendorID kernel.UUID, items []order.Item) (kernel.Money, bool, error)

	// ReserveStock decrements the vendor's stock for every order item,
	// locking the stock rows first. Fails without partial effect when any
	// item lacks sufficient stock.
	ReserveStock(ctx context.Context, vendorID kernel.UUID, items []order.Item) error

	// ReleaseStock returns previously reserved stock after an order fails
	// or is cancelled before delivery.
	ReleaseStock(ctx context.Context, vendorID kernel.UUID, items []order.Item) error
}
