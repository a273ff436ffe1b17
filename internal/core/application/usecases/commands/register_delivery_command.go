package commands

import (
	"errors"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/errs"
	"labflow/internal/pkg/guard"
)

var ErrRegisterDeliveryCommandIsNotConstructed = errors.New(
	"RegisterDeliveryCommand must be created via NewRegisterDeliveryCommand constructor",
)

// RegisterDeliveryCommand represents a front-desk request to hand signed
// results to a recipient. When ItemIDs is empty every signed item of the
// order is delivered.
type RegisterDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID           kernel.UUID
	itemIDs           []kernel.UUID
	recipientName     string
	recipientDocument string
	relationship      string
	documentVerified  bool
	biometricVerified bool
	deliveredBy       kernel.UUID
	deliveredAt       time.Time
	notes             string

	guard guard.ConstructorGuard
}

// NewRegisterDeliveryCommand creates a command to register a result delivery.
// A zero deliveredAt defaults to the current time.
func NewRegisterDeliveryCommand(
	orderID kernel.UUID,
	itemIDs []kernel.UUID,
	recipientName, recipientDocument, relationship string,
	documentVerified, biometricVerified bool,
	deliveredBy kernel.UUID,
	deliveredAt time.Time,
	notes string,
) (RegisterDeliveryCommand, error) {
	cmd := RegisterDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		deliveredBy.Validate(),
	); err != nil {
		return RegisterDeliveryCommand{}, err
	}
	if recipientName == "" {
		return RegisterDeliveryCommand{}, errs.NewValueIsRequiredError("recipient name")
	}
	for _, itemID := range itemIDs {
		if err := itemID.Validate(); err != nil {
			return RegisterDeliveryCommand{}, err
		}
	}

	if deliveredAt.IsZero() {
		deliveredAt = time.Now()
	}

	cmd.orderID = orderID
	cmd.itemIDs = itemIDs
	cmd.recipientName = recipientName
	cmd.recipientDocument = recipientDocument
	cmd.relationship = relationship
	cmd.documentVerified = documentVerified
	cmd.biometricVerified = biometricVerified
	cmd.deliveredBy = deliveredBy
	cmd.deliveredAt = deliveredAt
	cmd.notes = notes

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrRegisterDeliveryCommandIsNotConstructed)
}

// OrderID returns the order whose results are being delivered.
func (c RegisterDeliveryCommand) OrderID() kernel.UUID { return c.orderID }

// ItemIDs returns the delivered items; empty means all signed items.
func (c RegisterDeliveryCommand) ItemIDs() []kernel.UUID { return c.itemIDs }

// RecipientName returns the name of the person receiving the results.
func (c RegisterDeliveryCommand) RecipientName() string { return c.recipientName }

// RecipientDocument returns the recipient's identifying document.
func (c RegisterDeliveryCommand) RecipientDocument() string { return c.recipientDocument }

// Relationship returns the recipient's relationship to the patient.
func (c RegisterDeliveryCommand) Relationship() string { return c.relationship }

// DocumentVerified reports whether the recipient's document was checked.
func (c RegisterDeliveryCommand) DocumentVerified() bool { return c.documentVerified }

// BiometricVerified reports whether a biometric check was performed.
func (c RegisterDeliveryCommand) BiometricVerified() bool { return c.biometricVerified }

// DeliveredBy returns the staff member handing out the results.
func (c RegisterDeliveryCommand) DeliveredBy() kernel.UUID { return c.deliveredBy }

// DeliveredAt returns the delivery timestamp.
func (c RegisterDeliveryCommand) DeliveredAt() time.Time { return c.deliveredAt }

// Notes returns free-text delivery notes.
func (c RegisterDeliveryCommand) Notes() string { return c.notes }
