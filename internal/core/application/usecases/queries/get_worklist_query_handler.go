package queries

import (
	"context"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetWorklistQueryHandler reads a station worklist from the database.
// Urgent orders sort first, then oldest reception first, so stations work
// the queue in clinical priority order.
type GetWorklistQueryHandler struct {
	db *gorm.DB
}

// NewGetWorklistQueryHandler creates a handler for worklist queries.
func NewGetWorklistQueryHandler(db *gorm.DB) GetWorklistQueryHandler {
	return GetWorklistQueryHandler{db: db}
}

// Handle executes the worklist query for the stage's item statuses.
func (h GetWorklistQueryHandler) Handle(
	ctx context.Context,
	query GetWorklistQuery,
) ([]GetWorklistQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	statuses := query.Stage().itemStatuses()
	statusValues := make([]int, len(statuses))
	for i, s := range statuses {
		statusValues[i] = int(s)
	}

	sql := `
		SELECT
			o.id,
			o.number,
			o.barcode,
			i.id,
			i.exam_id,
			o.patient_id,
			i.status,
			o.urgent,
			o.created_at
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE i.status IN ?`
	args := []interface{}{statusValues}

	if facilityID := query.FacilityID(); facilityID != nil {
		sql += `
		  AND o.facility_id = ?`
		args = append(args, facilityID.Bytes())
	}
	sql += `
		ORDER BY o.urgent DESC, o.created_at, i.id`

	items := make([]GetWorklistQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item GetWorklistQueryResponse
		var orderID, itemID, examID, patientID uuid.UUID
		var status int

		err = rows.Scan(
			&orderID,
			&item.OrderNumber,
			&item.Barcode,
			&itemID,
			&examID,
			&patientID,
			&status,
			&item.Urgent,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if item.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		if item.ItemID, err = kernel.UUIDFromBytes(itemID[:]); err != nil {
			return nil, err
		}
		if item.ExamID, err = kernel.UUIDFromBytes(examID[:]); err != nil {
			return nil, err
		}
		if item.PatientID, err = kernel.UUIDFromBytes(patientID[:]); err != nil {
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
