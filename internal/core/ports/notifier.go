package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// VendorNotifier delivers assignment notifications to vendors. Called
// strictly after the assigning transaction commits; a delivery failure
// never rolls the assignment back, the acceptance window simply times out.
type VendorNotifier interface {
	// NotifyAssignment tells a vendor an order awaits their response
	// until the deadline.
	NotifyAssignment(ctx context.Context, vendorID, orderID kernel.UUID, deadline time.Time) error
}

// AdminNotifier delivers operator alerts for situations automation cannot
// resolve: routing exhaustion, repeated healing failures, ledger chain
// corruption.
type AdminNotifier interface {
	Alert(ctx context.Context, subject, detail string) error
}

// OutboundEvent is a domain event published to downstream consumers after
// commit.
type OutboundEvent struct {
	Name       string
	OrderID    kernel.UUID
	OccurredAt time.Time
	Payload    map[string]any
}

// EventPublisher pushes domain events to external subscribers. Events that
// cannot be delivered after retries land in a dead-letter store instead of
// failing the caller.
type EventPublisher interface {
	Publish(ctx context.Context, event OutboundEvent) error
}
