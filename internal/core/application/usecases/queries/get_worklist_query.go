package queries

import (
	"errors"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/pkg/guard"
)

var ErrGetWorklistQueryIsNotConstructed = errors.New(
	"GetWorklistQuery must be created via a worklist query constructor",
)

// WorklistStage selects which station's pending work a worklist query
// returns.
type WorklistStage int

const (
	// WorklistAwaitingCollection lists items whose material was not
	// collected yet.
	WorklistAwaitingCollection WorklistStage = iota + 1
	// WorklistPendingResults lists collected items without a released
	// result.
	WorklistPendingResults
	// WorklistPendingSignature lists released results awaiting sign-off.
	WorklistPendingSignature
	// WorklistReadyForDelivery lists signed items not yet handed out.
	WorklistReadyForDelivery
)

// itemStatuses returns the item statuses each stage covers.
func (s WorklistStage) itemStatuses() []order.ItemStatus {
	switch s {
	case WorklistAwaitingCollection:
		return []order.ItemStatus{order.AwaitingCollection}
	case WorklistPendingResults:
		return []order.ItemStatus{order.Collected, order.InAnalysis}
	case WorklistPendingSignature:
		return []order.ItemStatus{order.ResultEntered}
	case WorklistReadyForDelivery:
		return []order.ItemStatus{order.Signed}
	default:
		return nil
	}
}

// GetWorklistQuery retrieves the pending items of one workflow stage,
// urgent orders first. The facility filter is optional: a nil facility
// returns the cross-facility list, which the sign-off desk of a central
// lab works from. Each station screen is one stage.
type GetWorklistQuery struct {
	facilityID *kernel.UUID
	stage      WorklistStage

	guard guard.ConstructorGuard
}

func newWorklistQuery(facilityID *kernel.UUID, stage WorklistStage) (GetWorklistQuery, error) {
	if facilityID != nil {
		if err := facilityID.Validate(); err != nil {
			return GetWorklistQuery{}, err
		}
	}
	return GetWorklistQuery{
		facilityID: facilityID,
		stage:      stage,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// NewAwaitingCollectionWorklistQuery creates the collection station worklist.
func NewAwaitingCollectionWorklistQuery(facilityID *kernel.UUID) (GetWorklistQuery, error) {
	return newWorklistQuery(facilityID, WorklistAwaitingCollection)
}

// NewPendingResultsWorklistQuery creates the analysis bench worklist.
func NewPendingResultsWorklistQuery(facilityID *kernel.UUID) (GetWorklistQuery, error) {
	return newWorklistQuery(facilityID, WorklistPendingResults)
}

// NewPendingSignatureWorklistQuery creates the sign-off worklist.
func NewPendingSignatureWorklistQuery(facilityID *kernel.UUID) (GetWorklistQuery, error) {
	return newWorklistQuery(facilityID, WorklistPendingSignature)
}

// NewReadyForDeliveryWorklistQuery creates the front desk delivery worklist.
func NewReadyForDeliveryWorklistQuery(facilityID *kernel.UUID) (GetWorklistQuery, error) {
	return newWorklistQuery(facilityID, WorklistReadyForDelivery)
}

// Validate ensures the query was created through a constructor.
func (q GetWorklistQuery) Validate() error {
	return q.guard.Validate(ErrGetWorklistQueryIsNotConstructed)
}

// FacilityID returns the facility whose worklist is requested, or nil for
// the cross-facility list.
func (q GetWorklistQuery) FacilityID() *kernel.UUID { return q.facilityID }

// Stage returns the requested workflow stage.
func (q GetWorklistQuery) Stage() WorklistStage { return q.stage }

// GetWorklistQueryResponse is one pending item on a station worklist.
type GetWorklistQueryResponse struct {
	OrderID     kernel.UUID
	OrderNumber string
	Barcode     string
	ItemID      kernel.UUID
	ExamID      kernel.UUID
	PatientID   kernel.UUID
	Status      string
	Urgent      bool
	CreatedAt   time.Time
}
