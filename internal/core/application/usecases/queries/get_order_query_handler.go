package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order with its items straight from the
// database, bypassing the aggregate. The order-level status is derived from
// the item statuses at read time, never read from a stored column.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order lookups.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the lookup. Returns errs.ObjectNotFoundError when no order
// matches the selector.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	where := "o.number = ?"
	arg := any(query.Number())
	switch {
	case query.ID() != nil:
		where = "o.id = ?"
		arg = query.ID().Bytes()
	case query.Barcode() != "":
		where = "o.barcode = ?"
		arg = query.Barcode()
	}

	var response GetOrderQueryResponse

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			barcode,
			patient_id,
			facility_id,
			urgent,
			cancel_reason,
			created_at
		FROM orders o
		WHERE `+where, arg).Row()

	var id, patientID, facilityID uuid.UUID
	err := row.Scan(
		&id,
		&response.Number,
		&response.Barcode,
		&patientID,
		&facilityID,
		&response.Urgent,
		&response.CancelReason,
		&response.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", arg)
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.PatientID, err = kernel.UUIDFromBytes(patientID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.FacilityID, err = kernel.UUIDFromBytes(facilityID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			i.id,
			i.exam_id,
			i.status,
			i.price,
			i.cancel_reason,
			i.collected_at,
			COALESCE(r.released, FALSE),
			COALESCE(r.signed, FALSE),
			i.version
		FROM order_items i
		LEFT JOIN results r ON r.item_id = i.id
		WHERE i.order_id = ?
		ORDER BY i.id
	`, response.ID.Bytes()).Rows()
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	defer rows.Close()

	statuses := make([]order.ItemStatus, 0)
	for rows.Next() {
		var item GetOrderItemResponse
		var itemID, examID uuid.UUID
		var status int
		var collectedAt sql.NullTime

		err = rows.Scan(
			&itemID,
			&examID,
			&status,
			&item.Price,
			&item.CancelReason,
			&collectedAt,
			&item.Released,
			&item.Signed,
			&item.Version,
		)
		if err != nil {
			return GetOrderQueryResponse{}, err
		}

		if item.ID, err = kernel.UUIDFromBytes(itemID[:]); err != nil {
			return GetOrderQueryResponse{}, err
		}
		if item.ExamID, err = kernel.UUIDFromBytes(examID[:]); err != nil {
			return GetOrderQueryResponse{}, err
		}
		if collectedAt.Valid {
			at := collectedAt.Time.In(time.UTC)
			item.CollectedAt = &at
		}

		itemStatus := order.ItemStatus(status)
		item.Status = itemStatus.String()
		statuses = append(statuses, itemStatus)

		response.Items = append(response.Items, item)
	}
	if err = rows.Err(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	response.Status = order.DeriveStatus(statuses).String()
	return response, nil
}
