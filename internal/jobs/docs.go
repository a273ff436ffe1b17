// Package jobs provides scheduled background tasks for the laboratory
// order workflow.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations the order lifecycle needs outside of
// request handling.
//
// # Available Jobs
//
// 1. OverdueAlertJob - Runs every minute to flag items stuck in a pending
// stage longer than their facility's alert thresholds
// 2. CounterCleanupJob - Runs nightly to drop exhausted daily order-number
// counters
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required dependencies
//	jobManager := jobs.NewJobManager(overdueItemsHandler, db, logger)
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
// The alert job uses "0 * * * * *" (every minute): alert thresholds are
// expressed in minutes, so a tighter schedule adds noise without precision.
// The cleanup job uses "0 0 3 * * *" (daily at 03:00) since counters only
// become stale once per day.
//
// # Error Handling
//
// Both jobs log failures and keep their schedule; a failed run is retried
// on the next tick. Failed job starts stop any already running jobs.
package jobs
