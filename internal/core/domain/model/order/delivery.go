package order

import (
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/errs"
)

// Recipient identifies who received the results at the delivery desk.
type Recipient struct {
	Name         string
	Document     string
	Relationship string
}

// Delivery records one delivery event: which items were handed out, to whom,
// and which identity verifications were performed. When partial delivery is
// allowed an order accumulates one Delivery per visit. Deliveries reference
// items by id; they do not own them.
type Delivery struct {
	id                kernel.UUID
	orderID           kernel.UUID
	recipient         Recipient
	documentVerified  bool
	biometricVerified bool
	itemIDs           []kernel.UUID
	deliveredBy       kernel.UUID
	deliveredAt       time.Time
	notes             string
}

// newDelivery creates a delivery event. Only the owning Order constructs
// deliveries; callers go through Order.RegisterDelivery.
func newDelivery(
	orderID kernel.UUID,
	recipient Recipient,
	documentVerified, biometricVerified bool,
	itemIDs []kernel.UUID,
	deliveredBy kernel.UUID,
	at time.Time,
	notes string,
) (*Delivery, error) {
	if recipient.Name == "" {
		return nil, errs.NewValueIsRequiredError("recipient name")
	}
	if len(itemIDs) == 0 {
		return nil, errs.NewValueIsRequiredError("delivered item ids")
	}

	return &Delivery{
		id:                kernel.NewUUID(),
		orderID:           orderID,
		recipient:         recipient,
		documentVerified:  documentVerified,
		biometricVerified: biometricVerified,
		itemIDs:           itemIDs,
		deliveredBy:       deliveredBy,
		deliveredAt:       at,
		notes:             notes,
	}, nil
}

// RestoreDelivery reconstructs a delivery event from persistence.
func RestoreDelivery(
	id, orderID kernel.UUID,
	recipient Recipient,
	documentVerified, biometricVerified bool,
	itemIDs []kernel.UUID,
	deliveredBy kernel.UUID,
	at time.Time,
	notes string,
) (*Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	return &Delivery{
		id:                id,
		orderID:           orderID,
		recipient:         recipient,
		documentVerified:  documentVerified,
		biometricVerified: biometricVerified,
		itemIDs:           itemIDs,
		deliveredBy:       deliveredBy,
		deliveredAt:       at,
		notes:             notes,
	}, nil
}

// ID returns the delivery event's unique identifier.
func (d *Delivery) ID() kernel.UUID { return d.id }

// OrderID returns the order this delivery belongs to.
func (d *Delivery) OrderID() kernel.UUID { return d.orderID }

// Recipient returns who received the results.
func (d *Delivery) Recipient() Recipient { return d.recipient }

// DocumentVerified reports whether the recipient's document was checked.
func (d *Delivery) DocumentVerified() bool { return d.documentVerified }

// BiometricVerified reports whether the recipient's biometrics were checked.
func (d *Delivery) BiometricVerified() bool { return d.biometricVerified }

// ItemIDs returns the ids of the items covered by this delivery event.
func (d *Delivery) ItemIDs() []kernel.UUID { return d.itemIDs }

// DeliveredBy returns the operator that performed the delivery.
func (d *Delivery) DeliveredBy() kernel.UUID { return d.deliveredBy }

// DeliveredAt returns the delivery timestamp.
func (d *Delivery) DeliveredAt() time.Time { return d.deliveredAt }

// Notes returns free-text delivery notes.
func (d *Delivery) Notes() string { return d.notes }
