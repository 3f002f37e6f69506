package cmd

import "time"

// Config holds everything the application reads from the environment at
// startup. Monetary values are in cents.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	VendorGatewayURL string
	AdminAlertURL    string
	EventSinkURL     string

	VendorResponseTimeout    time.Duration
	MaxRoutingAttempts       int
	NotifyAdminAfterAttempts int
	MinReliability           float64

	RoutingStallAfter  time.Duration
	WorkflowStallAfter time.Duration
	ScanBatchSize      int
	ScoreDecayAfter    time.Duration
	ScoreDecayFactor   float64

	TierACeiling int64
	TierBCeiling int64
	TierCCeiling int64
}
