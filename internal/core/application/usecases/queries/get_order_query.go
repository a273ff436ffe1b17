package queries

import (
	"errors"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via a NewGetOrderQuery constructor",
	)
	ErrOrderSelectorIsRequired = errors.New("an order id, number, or barcode is required")
)

// GetOrderQuery retrieves one order with its items for station screens.
// Exactly one selector is set: the order id (web UI), the order number
// (printed protocol), or the barcode (scanned label).
type GetOrderQuery struct {
	id      *kernel.UUID
	number  string
	barcode string

	guard guard.ConstructorGuard
}

// NewGetOrderQueryByID creates a query selecting an order by its identifier.
func NewGetOrderQueryByID(id kernel.UUID) (GetOrderQuery, error) {
	if err := id.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{id: &id, guard: guard.NewConstructorGuard()}, nil
}

// NewGetOrderQueryByNumber creates a query selecting an order by number.
func NewGetOrderQueryByNumber(number string) (GetOrderQuery, error) {
	if number == "" {
		return GetOrderQuery{}, ErrOrderSelectorIsRequired
	}
	return GetOrderQuery{number: number, guard: guard.NewConstructorGuard()}, nil
}

// NewGetOrderQueryByBarcode creates a query selecting an order by barcode.
func NewGetOrderQueryByBarcode(barcode string) (GetOrderQuery, error) {
	if barcode == "" {
		return GetOrderQuery{}, ErrOrderSelectorIsRequired
	}
	return GetOrderQuery{barcode: barcode, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through a constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// ID returns the id selector, when set.
func (q GetOrderQuery) ID() *kernel.UUID { return q.id }

// Number returns the number selector, when set.
func (q GetOrderQuery) Number() string { return q.number }

// Barcode returns the barcode selector, when set.
func (q GetOrderQuery) Barcode() string { return q.barcode }

// GetOrderItemResponse is the read model of one item on the order screen.
type GetOrderItemResponse struct {
	ID           kernel.UUID
	ExamID       kernel.UUID
	Status       string
	Price        int64
	CancelReason string
	CollectedAt  *time.Time
	Released     bool
	Signed       bool
	Version      int
}

// GetOrderQueryResponse is the read model of one order with the status
// derived from its items.
type GetOrderQueryResponse struct {
	ID           kernel.UUID
	Number       string
	Barcode      string
	PatientID    kernel.UUID
	FacilityID   kernel.UUID
	Status       string
	Urgent       bool
	CancelReason string
	CreatedAt    time.Time
	Items        []GetOrderItemResponse
}
