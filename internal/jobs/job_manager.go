package jobs

import (
	"fmt"
	"log/slog"

	"labflow/internal/core/application/usecases/queries"

	"gorm.io/gorm"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	overdueAlertJob   *OverdueAlertJob
	counterCleanupJob *CounterCleanupJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	overdueItemsHandler queries.GetOverdueItemsQueryHandler,
	db *gorm.DB,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		overdueAlertJob:   NewOverdueAlertJob(overdueItemsHandler, logger),
		counterCleanupJob: NewCounterCleanupJob(db, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.overdueAlertJob.Start(); err != nil {
		return fmt.Errorf("failed to start overdue alert job: %w", err)
	}

	if err := jm.counterCleanupJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.overdueAlertJob.Stop()
		return fmt.Errorf("failed to start counter cleanup job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.overdueAlertJob.Stop()
	jm.counterCleanupJob.Stop()
}
