package jobs

import (
	"context"
	"log/slog"
	"time"

	"labflow/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// OverdueAlertJob watches for items stuck in a pending stage.
// Runs every minute and logs a warning per item that exceeded its
// facility's collection or result thresholds.
type OverdueAlertJob struct {
	handler queries.GetOverdueItemsQueryHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewOverdueAlertJob creates a new job for flagging overdue items.
func NewOverdueAlertJob(handler queries.GetOverdueItemsQueryHandler, logger *slog.Logger) *OverdueAlertJob {
	return &OverdueAlertJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "overdue_alert_job"),
	}
}

// Start begins the overdue alert job to run every minute.
func (j *OverdueAlertJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		query, err := queries.NewGetOverdueItemsQuery(time.Now())
		if err != nil {
			j.logger.ErrorContext(ctx, "Overdue alert job could not build query", "error", err)
			return
		}

		items, err := j.handler.Handle(ctx, query)
		if err != nil {
			j.logger.ErrorContext(ctx, "Overdue alert job failed", "error", err)
			return
		}

		for _, item := range items {
			j.logger.WarnContext(ctx, "Item exceeded its stage threshold",
				"order_number", item.OrderNumber,
				"item_id", item.ItemID.String(),
				"facility_id", item.FacilityID.String(),
				"status", item.Status,
				"urgent", item.Urgent,
				"waiting_since", item.WaitingSince,
			)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Overdue alert job started (running every minute)")
	return nil
}

// Stop stops the overdue alert job.
func (j *OverdueAlertJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Overdue alert job stopped")
}
