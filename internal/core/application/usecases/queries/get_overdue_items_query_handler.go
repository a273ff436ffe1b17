package queries

import (
	"context"

	"labflow/internal/core/domain/model/facility"
	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOverdueItemsQueryHandler reads items whose pending stage exceeded the
// facility's alert thresholds. Facilities without a stored configuration
// fall back to the default thresholds; facilities that disabled
// AlertPendingExam are skipped entirely.
type GetOverdueItemsQueryHandler struct {
	db *gorm.DB
}

// NewGetOverdueItemsQueryHandler creates a handler for overdue item queries.
func NewGetOverdueItemsQueryHandler(db *gorm.DB) GetOverdueItemsQueryHandler {
	return GetOverdueItemsQueryHandler{db: db}
}

// Handle lists items waiting for collection longer than the collection
// threshold and collected items waiting for a result longer than the result
// threshold, oldest wait first within urgency.
func (h GetOverdueItemsQueryHandler) Handle(
	ctx context.Context,
	query GetOverdueItemsQuery,
) ([]GetOverdueItemsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	defaults := facility.DefaultConfig()
	resultStatuses := []int{int(order.Collected), int(order.InAnalysis)}

	items := make([]GetOverdueItemsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.number,
			o.facility_id,
			i.id,
			i.exam_id,
			i.status,
			o.urgent,
			CASE WHEN i.status = @awaiting THEN o.created_at ELSE i.collected_at END AS waiting_since
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		LEFT JOIN facility_configs c ON c.facility_id = o.facility_id
		WHERE COALESCE(c.alert_pending_exam, @defaultAlert)
		  AND (
			(i.status = @awaiting
				AND o.created_at + COALESCE(c.collection_alert_minutes, @defaultCollectionMinutes) * interval '1 minute' <= @asOf)
			OR
			(i.status IN @resultStatuses
				AND i.collected_at + COALESCE(c.result_alert_minutes, @defaultResultMinutes) * interval '1 minute' <= @asOf)
		  )
		ORDER BY o.urgent DESC, waiting_since, i.id
	`, map[string]interface{}{
		"awaiting":                 int(order.AwaitingCollection),
		"resultStatuses":           resultStatuses,
		"defaultAlert":             defaults.AlertPendingExam,
		"defaultCollectionMinutes": defaults.CollectionAlertMinutes,
		"defaultResultMinutes":     defaults.ResultAlertMinutes,
		"asOf":                     query.AsOf(),
	}).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item GetOverdueItemsQueryResponse
		var orderID, facilityID, itemID, examID uuid.UUID
		var status int

		err = rows.Scan(
			&orderID,
			&item.OrderNumber,
			&facilityID,
			&itemID,
			&examID,
			&status,
			&item.Urgent,
			&item.WaitingSince,
		)
		if err != nil {
			return nil, err
		}

		if item.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		if item.FacilityID, err = kernel.UUIDFromBytes(facilityID[:]); err != nil {
			return nil, err
		}
		if item.ItemID, err = kernel.UUIDFromBytes(itemID[:]); err != nil {
			return nil, err
		}
		if item.ExamID, err = kernel.UUIDFromBytes(examID[:]); err != nil {
			return nil, err
		}
		item.Status = order.ItemStatus(status).String()

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
