package ports

import (
	"context"
	"time"
)

// RoutingConfig holds the routing engine's operational parameters,
// injected from configuration at startup.
type RoutingConfig struct {
	// ResponseTimeout is how long a vendor has to accept or reject.
	ResponseTimeout time.Duration
	// MaxAttempts bounds the assign-timeout-reassign loop per order.
	MaxAttempts int
	// NotifyAdminAfterAttempts sends an operator alert once an order has
	// been reassigned this many times, before exhaustion.
	NotifyAdminAfterAttempts int
	// MinReliability is the ranking floor; vendors scoring below it are
	// never auto-assigned.
	MinReliability float64
}

// WatchdogConfig holds the self-healing scanner's thresholds.
type WatchdogConfig struct {
	// RoutingStallAfter flags orders stuck before acceptance.
	RoutingStallAfter time.Duration
	// WorkflowStallAfter flags accepted orders that stopped progressing.
	WorkflowStallAfter time.Duration
	// ScanBatchSize bounds how many stuck orders one pass picks up.
	ScanBatchSize int
	// ScoreDecayAfter marks a vendor score idle and eligible for decay.
	ScoreDecayAfter time.Duration
	// ScoreDecayFactor is the per-pass drift toward the neutral score.
	ScoreDecayFactor float64
}

// SettingsRepository persists runtime-togglable operational flags, as
// opposed to the static startup configuration above.
type SettingsRepository interface {
	// IsSafeMode reports whether order intake is suspended. In safe mode
	// new orders are rejected while in-flight orders continue.
	IsSafeMode(ctx context.Context) (bool, error)

	// SetSafeMode toggles intake suspension.
	SetSafeMode(ctx context.Context, enabled bool) error
}
