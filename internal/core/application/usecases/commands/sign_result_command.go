package commands

import (
	"errors"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/guard"
)

var ErrSignResultCommandIsNotConstructed = errors.New(
	"SignResultCommand must be created via NewSignResultCommand constructor",
)

// SignResultCommand represents a professional's sign-off on a released
// result. Signing freezes the result: field values can no longer change.
type SignResultCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	itemID   kernel.UUID
	signerID kernel.UUID
	signedAt time.Time

	guard guard.ConstructorGuard
}

// NewSignResultCommand creates a command to sign an item's released result.
// A zero signedAt defaults to the current time.
func NewSignResultCommand(
	orderID, itemID, signerID kernel.UUID,
	signedAt time.Time,
) (SignResultCommand, error) {
	cmd := SignResultCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		itemID.Validate(),
		signerID.Validate(),
	); err != nil {
		return SignResultCommand{}, err
	}

	if signedAt.IsZero() {
		signedAt = time.Now()
	}

	cmd.orderID = orderID
	cmd.itemID = itemID
	cmd.signerID = signerID
	cmd.signedAt = signedAt

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SignResultCommand) Validate() error {
	return c.guard.Validate(ErrSignResultCommandIsNotConstructed)
}

// OrderID returns the order the item belongs to.
func (c SignResultCommand) OrderID() kernel.UUID { return c.orderID }

// ItemID returns the item being signed.
func (c SignResultCommand) ItemID() kernel.UUID { return c.itemID }

// SignerID returns the signing professional.
func (c SignResultCommand) SignerID() kernel.UUID { return c.signerID }

// SignedAt returns the signature timestamp.
func (c SignResultCommand) SignedAt() time.Time { return c.signedAt }
