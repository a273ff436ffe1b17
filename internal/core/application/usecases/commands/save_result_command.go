package commands

import (
	"errors"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/guard"
)

var ErrSaveResultCommandIsNotConstructed = errors.New(
	"SaveResultCommand must be created via NewSaveResultCommand constructor",
)

// FieldValueRequest carries one raw field value typed at the result bench.
type FieldValueRequest struct {
	FieldID kernel.UUID
	Value   string
}

// SaveResultCommand represents a request to enter or correct the result of
// one order item. Release moves the item to ResultEntered, making it
// available for signature; without release the result stays a draft in
// analysis.
type SaveResultCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	itemID    kernel.UUID
	methodID  *kernel.UUID
	freeText  string
	fields    []FieldValueRequest
	release   bool
	enteredBy kernel.UUID
	enteredAt time.Time

	guard guard.ConstructorGuard
}

// NewSaveResultCommand creates a command to save an item's result.
// A zero enteredAt defaults to the current time.
func NewSaveResultCommand(
	orderID, itemID kernel.UUID,
	methodID *kernel.UUID,
	freeText string,
	fields []FieldValueRequest,
	release bool,
	enteredBy kernel.UUID,
	enteredAt time.Time,
) (SaveResultCommand, error) {
	cmd := SaveResultCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		itemID.Validate(),
		enteredBy.Validate(),
	); err != nil {
		return SaveResultCommand{}, err
	}
	if methodID != nil {
		if err := methodID.Validate(); err != nil {
			return SaveResultCommand{}, err
		}
	}

	if enteredAt.IsZero() {
		enteredAt = time.Now()
	}

	cmd.orderID = orderID
	cmd.itemID = itemID
	cmd.methodID = methodID
	cmd.freeText = freeText
	cmd.fields = fields
	cmd.release = release
	cmd.enteredBy = enteredBy
	cmd.enteredAt = enteredAt

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SaveResultCommand) Validate() error {
	return c.guard.Validate(ErrSaveResultCommandIsNotConstructed)
}

// OrderID returns the order the item belongs to.
func (c SaveResultCommand) OrderID() kernel.UUID { return c.orderID }

// ItemID returns the item whose result is being saved.
func (c SaveResultCommand) ItemID() kernel.UUID { return c.itemID }

// MethodID returns the analysis method used, when recorded.
func (c SaveResultCommand) MethodID() *kernel.UUID { return c.methodID }

// FreeText returns the memo-style result text.
func (c SaveResultCommand) FreeText() string { return c.freeText }

// Fields returns the raw structured field values.
func (c SaveResultCommand) Fields() []FieldValueRequest { return c.fields }

// Release reports whether the result should be released for signature.
func (c SaveResultCommand) Release() bool { return c.release }

// EnteredBy returns the professional entering the result.
func (c SaveResultCommand) EnteredBy() kernel.UUID { return c.enteredBy }

// EnteredAt returns the entry timestamp.
func (c SaveResultCommand) EnteredAt() time.Time { return c.enteredAt }
