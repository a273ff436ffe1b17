package queries

import (
	"errors"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/errs"
	"labflow/internal/pkg/guard"
)

var ErrGetOverdueItemsQueryIsNotConstructed = errors.New(
	"GetOverdueItemsQuery must be created via NewGetOverdueItemsQuery",
)

// GetOverdueItemsQuery finds items that sit in a pending stage longer than
// the owning facility's alert thresholds allow. The alert job runs it
// periodically with the current time.
type GetOverdueItemsQuery struct {
	asOf time.Time

	guard guard.ConstructorGuard
}

// NewGetOverdueItemsQuery creates a query evaluating thresholds at asOf.
func NewGetOverdueItemsQuery(asOf time.Time) (GetOverdueItemsQuery, error) {
	if asOf.IsZero() {
		return GetOverdueItemsQuery{}, errs.NewValueIsRequiredError("asOf")
	}
	return GetOverdueItemsQuery{
		asOf:  asOf,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOverdueItemsQuery) Validate() error {
	return q.guard.Validate(ErrGetOverdueItemsQueryIsNotConstructed)
}

// AsOf returns the moment thresholds are evaluated against.
func (q GetOverdueItemsQuery) AsOf() time.Time { return q.asOf }

// GetOverdueItemsQueryResponse is one item past its facility's threshold.
type GetOverdueItemsQueryResponse struct {
	OrderID      kernel.UUID
	OrderNumber  string
	FacilityID   kernel.UUID
	ItemID       kernel.UUID
	ExamID       kernel.UUID
	Status       string
	Urgent       bool
	WaitingSince time.Time
}
