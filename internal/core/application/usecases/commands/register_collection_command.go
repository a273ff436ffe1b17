package commands

import (
	"errors"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/guard"
)

var ErrRegisterCollectionCommandIsNotConstructed = errors.New(
	"RegisterCollectionCommand must be created via NewRegisterCollectionCommand constructor",
)

// CollectedMaterialRequest describes one material drawn during collection,
// with the tube or container label applied at the bench.
type CollectedMaterialRequest struct {
	MaterialID kernel.UUID
	Quantity   int
	TubeCode   string
}

// RegisterCollectionCommand represents a collection-station request to mark
// an order's material as collected. When ItemID is set only that item is
// collected; otherwise every item awaiting collection is.
type RegisterCollectionCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	itemID      *kernel.UUID
	materials   []CollectedMaterialRequest
	collectedAt time.Time

	guard guard.ConstructorGuard
}

// NewRegisterCollectionCommand creates a command to register material
// collection for an order. A zero collectedAt defaults to the current time.
func NewRegisterCollectionCommand(
	orderID kernel.UUID,
	itemID *kernel.UUID,
	materials []CollectedMaterialRequest,
	collectedAt time.Time,
) (RegisterCollectionCommand, error) {
	cmd := RegisterCollectionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return RegisterCollectionCommand{}, err
	}
	if itemID != nil {
		if err := itemID.Validate(); err != nil {
			return RegisterCollectionCommand{}, err
		}
	}

	if collectedAt.IsZero() {
		collectedAt = time.Now()
	}

	cmd.orderID = orderID
	cmd.itemID = itemID
	cmd.materials = materials
	cmd.collectedAt = collectedAt

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterCollectionCommand) Validate() error {
	return c.guard.Validate(ErrRegisterCollectionCommandIsNotConstructed)
}

// OrderID returns the order being collected.
func (c RegisterCollectionCommand) OrderID() kernel.UUID { return c.orderID }

// ItemID returns the single item to collect, or nil for the whole order.
func (c RegisterCollectionCommand) ItemID() *kernel.UUID { return c.itemID }

// Materials returns the collected materials with their tube codes.
func (c RegisterCollectionCommand) Materials() []CollectedMaterialRequest { return c.materials }

// CollectedAt returns the collection timestamp.
func (c RegisterCollectionCommand) CollectedAt() time.Time { return c.collectedAt }
