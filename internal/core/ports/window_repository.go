package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/assignment"
	"fulfillment/internal/core/domain/model/kernel"
)

// WindowRepository defines the persistence contract for acceptance
// windows. Closing a window goes through the claim methods so that a
// vendor response and a timeout scanner racing for the same window cannot
// both win.
type WindowRepository interface {
	// Add persists a new acceptance window.
	Add(ctx context.Context, window *assignment.Window) error

	// Update persists changes to an already-claimed window.
	Update(ctx context.Context, window *assignment.Window) error

	// Get retrieves a window by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*assignment.Window, error)

	// GetPendingByOrder retrieves the order's single PENDING window, or
	// an ObjectNotFoundError when none is open.
	GetPendingByOrder(ctx context.Context, orderID kernel.UUID) (*assignment.Window, error)

	// GetByOrder retrieves all of an order's windows oldest-first. The
	// router derives the exclusion set and attempt number from them.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*assignment.Window, error)

	// GetExpiredPending retrieves PENDING windows whose deadline passed
	// before now. Candidates only; each must still be claimed.
	GetExpiredPending(ctx context.Context, now time.Time, limit int) ([]*assignment.Window, error)

	// ClaimTimedOut atomically moves a window PENDING -> TIMED_OUT.
	// Returns false when another worker or a response claimed it first.
	ClaimTimedOut(ctx context.Context, windowID kernel.UUID) (bool, error)

	// ClaimResponded atomically moves a window PENDING -> RESPONDED with
	// the vendor's decision. Returns false when the window was already
	// claimed.
	ClaimResponded(ctx context.Context, windowID kernel.UUID, accepted bool, respondedAt time.Time) (bool, error)
}
