package ports

import (
	"context"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities.
//
// Update commits item changes with a version guard: an item row is written
// only when its stored version still equals the loaded one, and the call
// fails with errs.ConcurrentModificationError when another transaction won
// the race. All item updates of one call are atomic.
type OrderRepository interface {
	// Add persists a new order aggregate with its items.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, bumping the
	// version of every changed item.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumber retrieves an order by its human-readable order number.
	GetByNumber(ctx context.Context, number string) (*order.Order, error)

	// GetByBarcode retrieves an order by its barcode. Used by the collection
	// and delivery stations, which scan labels instead of typing numbers.
	GetByBarcode(ctx context.Context, barcode string) (*order.Order, error)

	// HasActiveExam reports whether the patient already has a non-cancelled
	// item for the exam on an order received at or after since. Backs the
	// duplicate-exam intake check.
	HasActiveExam(ctx context.Context, patientID, examID kernel.UUID, since time.Time) (bool, error)
}

// OrderNumberGenerator issues the sequential identifiers assigned at intake.
type OrderNumberGenerator interface {
	// NextOrderNumber returns the next order number for the given reception
	// date and the barcode to print on the order's labels.
	NextOrderNumber(ctx context.Context, at time.Time) (number string, barcode string, err error)
}
