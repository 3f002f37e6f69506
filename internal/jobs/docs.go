// Package jobs provides scheduled background tasks for the fulfillment
// system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the fulfillment service.
//
// # Available Jobs
//
// 1. TimeoutScanJob - Runs every 15 seconds to time out expired acceptance windows and reroute orders
// 2. WatchdogJob - Runs every minute to detect stalled orders and apply automated recovery
// 3. ScoreDecayJob - Runs hourly to drift idle vendor scores toward neutral
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(scanTimeoutsHandler, healStuckOrdersHandler, decayVendorScoresHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The timeout scan runs well inside the shortest configurable acceptance
// window so a timed-out vendor is replaced promptly. The watchdog and
// score decay cover slower drifts and run at a coarser cadence.
//
// # Error Handling
//
// Batch handlers collect per-item failures and return them joined, so a
// single bad row never blocks the rest of a sweep. Failed job starts
// will stop any already running jobs.
package jobs
