package jobs

import (
	"context"
	"log/slog"
	"time"

	"labflow/internal/adapters/out/postgres"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// counterRetentionDays is how long exhausted daily counters are kept before
// cleanup. A week leaves room to audit recent number sequences.
const counterRetentionDays = 7

// CounterCleanupJob removes daily order-number counters once they can no
// longer be reached by number generation. Runs nightly.
type CounterCleanupJob struct {
	db     *gorm.DB
	cron   *cron.Cron
	logger *slog.Logger
}

// NewCounterCleanupJob creates a new job for pruning stale counters.
func NewCounterCleanupJob(db *gorm.DB, logger *slog.Logger) *CounterCleanupJob {
	return &CounterCleanupJob{
		db:     db,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "counter_cleanup_job"),
	}
}

// Start schedules the cleanup to run daily at 03:00.
func (j *CounterCleanupJob) Start() error {
	_, err := j.cron.AddFunc("0 0 3 * * *", func() {
		ctx := context.Background()
		cutoff := time.Now().AddDate(0, 0, -counterRetentionDays).Format("20060102")

		result := j.db.WithContext(ctx).Where("day < ?", cutoff).Delete(&postgres.CounterDTO{})
		if result.Error != nil {
			j.logger.ErrorContext(ctx, "Counter cleanup job failed", "error", result.Error)
			return
		}

		if result.RowsAffected > 0 {
			j.logger.InfoContext(ctx, "Removed stale order counters", "count", result.RowsAffected)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Counter cleanup job started (running daily at 03:00)")
	return nil
}

// Stop stops the counter cleanup job.
func (j *CounterCleanupJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Counter cleanup job stopped")
}
