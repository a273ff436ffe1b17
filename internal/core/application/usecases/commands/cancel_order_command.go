package commands

import (
	"errors"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/errs"
	"labflow/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand represents a request to cancel an order or a single
// item of it. Cancellation is blocked once a result is signed.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	itemID  *kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a command to cancel an order. When itemID is
// set only that item is cancelled. A reason is always required.
func NewCancelOrderCommand(orderID kernel.UUID, itemID *kernel.UUID, reason string) (CancelOrderCommand, error) {
	cmd := CancelOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return CancelOrderCommand{}, err
	}
	if itemID != nil {
		if err := itemID.Validate(); err != nil {
			return CancelOrderCommand{}, err
		}
	}
	if reason == "" {
		return CancelOrderCommand{}, errs.NewValueIsRequiredError("cancellation reason")
	}

	cmd.orderID = orderID
	cmd.itemID = itemID
	cmd.reason = reason

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// OrderID returns the order being cancelled.
func (c CancelOrderCommand) OrderID() kernel.UUID { return c.orderID }

// ItemID returns the single item to cancel, or nil for the whole order.
func (c CancelOrderCommand) ItemID() *kernel.UUID { return c.itemID }

// Reason returns the cancellation reason.
func (c CancelOrderCommand) Reason() string { return c.reason }
