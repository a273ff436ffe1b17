package order

import (
	"errors"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder. This ensures all orders are
	// properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
)

// BillingType classifies how the order is billed. The classification is
// stored for downstream billing systems; this core performs no adjudication.
type BillingType int

const (
	// BillingUnknown catches uninitialized billing values.
	BillingUnknown BillingType = iota
	// BillingPublic bills against the public health system.
	BillingPublic
	// BillingPrivate bills the patient directly.
	BillingPrivate
	// BillingInsurance bills a health-insurance agreement.
	BillingInsurance
)

// String returns the human-readable name of the billing type.
func (b BillingType) String() string {
	switch b {
	case BillingPublic:
		return "Public"
	case BillingPrivate:
		return "Private"
	case BillingInsurance:
		return "Insurance"
	default:
		return "Unknown"
	}
}

// Validate rejects the zero billing value.
func (b BillingType) Validate() error {
	switch b {
	case BillingPublic, BillingPrivate, BillingInsurance:
		return nil
	default:
		return errs.NewValueIsInvalidError("billing type")
	}
}

// DeliveryPolicy carries the facility configuration flags that govern a
// delivery attempt. The configuration itself is owned outside the aggregate;
// the aggregate only enforces it.
type DeliveryPolicy struct {
	RequireDocument  bool
	RequireBiometric bool
	AllowPartial     bool
}

// Order is the aggregate root for a patient's laboratory request. It owns its
// items (cascade on cancel, never physical deletion) and its delivery events,
// and is the single place where cross-item rules are enforced: whole-order
// collection, delivery coverage, cancellation cascade, and the derived
// order-level status.
//
// An order is created once at reception and never re-created; the collection,
// result-entry, signature, and delivery stations mutate it only through the
// item-scoped methods below.
type Order struct {
	id          kernel.UUID
	number      string
	barcode     string
	patientID   kernel.UUID
	facilityID  kernel.UUID
	requesterID kernel.UUID
	scheduleID  *kernel.UUID
	urgent      bool
	billing     BillingType
	notes       string
	createdAt   time.Time

	cancelReason string

	items      []*Item
	deliveries []*Delivery

	isConstructed bool
}

// NewOrder creates an order with its items at reception. The order number
// and barcode are assigned by intake and must be unique; items must be
// non-empty and are expected to start in AwaitingCollection.
func NewOrder(
	id kernel.UUID,
	number, barcode string,
	patientID, facilityID, requesterID kernel.UUID,
	scheduleID *kernel.UUID,
	urgent bool,
	billing BillingType,
	notes string,
	items []*Item,
	createdAt time.Time,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		patientID.Validate(),
		facilityID.Validate(),
		requesterID.Validate(),
		billing.Validate(),
	); err != nil {
		return nil, err
	}
	if number == "" {
		return nil, errs.NewValueIsRequiredError("order number")
	}
	if barcode == "" {
		return nil, errs.NewValueIsRequiredError("barcode")
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("order items")
	}

	return &Order{
		id:            id,
		number:        number,
		barcode:       barcode,
		patientID:     patientID,
		facilityID:    facilityID,
		requesterID:   requesterID,
		scheduleID:    scheduleID,
		urgent:        urgent,
		billing:       billing,
		notes:         notes,
		createdAt:     createdAt,
		items:         items,
		isConstructed: true,
	}, nil
}

// RestoreOrder reconstructs an order from persistence without re-running
// intake validation beyond structural checks.
func RestoreOrder(
	id kernel.UUID,
	number, barcode string,
	patientID, facilityID, requesterID kernel.UUID,
	scheduleID *kernel.UUID,
	urgent bool,
	billing BillingType,
	notes string,
	cancelReason string,
	items []*Item,
	deliveries []*Delivery,
	createdAt time.Time,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		patientID.Validate(),
		facilityID.Validate(),
	); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("order items")
	}

	return &Order{
		id:            id,
		number:        number,
		barcode:       barcode,
		patientID:     patientID,
		facilityID:    facilityID,
		requesterID:   requesterID,
		scheduleID:    scheduleID,
		urgent:        urgent,
		billing:       billing,
		notes:         notes,
		cancelReason:  cancelReason,
		items:         items,
		deliveries:    deliveries,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Order instance was properly constructed through
// NewOrder or RestoreOrder. Called when persisting and when reconstructing
// orders to guarantee data integrity.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// Number returns the human-readable order number.
func (o *Order) Number() string { return o.number }

// Barcode returns the opaque barcode value used for station-side lookup.
func (o *Order) Barcode() string { return o.barcode }

// PatientID returns the patient reference.
func (o *Order) PatientID() kernel.UUID { return o.patientID }

// FacilityID returns the facility reference.
func (o *Order) FacilityID() kernel.UUID { return o.facilityID }

// RequesterID returns the requesting professional reference.
func (o *Order) RequesterID() kernel.UUID { return o.requesterID }

// ScheduleID returns the optional scheduling reference.
func (o *Order) ScheduleID() *kernel.UUID { return o.scheduleID }

// Urgent reports whether the order was flagged urgent at reception.
func (o *Order) Urgent() bool { return o.urgent }

// Billing returns the billing classification.
func (o *Order) Billing() BillingType { return o.billing }

// Notes returns the free-text reception notes.
func (o *Order) Notes() string { return o.notes }

// CreatedAt returns the reception timestamp.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// CancelReason returns the cancellation reason, empty unless cancelled.
func (o *Order) CancelReason() string { return o.cancelReason }

// Items returns the order's items.
func (o *Order) Items() []*Item { return o.items }

// Deliveries returns the delivery events recorded so far.
func (o *Order) Deliveries() []*Delivery { return o.deliveries }

// Item returns the item with the given id, or an ObjectNotFoundError when
// the order has no such item.
func (o *Order) Item(itemID kernel.UUID) (*Item, error) {
	for _, item := range o.items {
		if item.ID().IsEqual(itemID) {
			return item, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderItem", itemID.String())
}

// Status derives the order-level status from the item statuses. The result
// is recomputed on every call and never stored authoritatively.
func (o *Order) Status() Status {
	return deriveStatus(o.items)
}

// IsTerminal reports whether the order reached a logically terminal state:
// every non-cancelled item delivered, or every item cancelled.
func (o *Order) IsTerminal() bool {
	s := o.Status()
	return s == StatusDelivered || s == StatusCancelled
}

// RegisterCollection collects every item currently awaiting collection,
// recording the materials used. Items already collected are untouched, so a
// client retry after a timeout succeeds without error. Fails with
// InvalidTransition when no item is awaiting collection and none was ever
// collected (e.g. a fully cancelled order).
func (o *Order) RegisterCollection(materials []CollectedMaterial, at time.Time) error {
	collected := 0
	alreadyCollected := 0

	for _, item := range o.items {
		switch item.Status() {
		case AwaitingCollection:
			if err := item.Collect(materials, at); err != nil {
				return err
			}
			collected++
		case Collected:
			alreadyCollected++
		}
	}

	if collected == 0 && alreadyCollected == 0 {
		return errs.NewInvalidTransitionError("order", o.Status().String(), StatusInCollection.String())
	}
	return nil
}

// CollectItem collects a single item, for benches that process exams of one
// order separately.
func (o *Order) CollectItem(itemID kernel.UUID, materials []CollectedMaterial, at time.Time) error {
	item, err := o.Item(itemID)
	if err != nil {
		return err
	}
	return item.Collect(materials, at)
}

// EnterItemResult creates or replaces the result of one item; see
// Item.EnterResult for the transition rules.
func (o *Order) EnterItemResult(
	itemID kernel.UUID,
	methodID *kernel.UUID,
	freeText string,
	fields []FieldValue,
	release bool,
	enteredBy kernel.UUID,
	at time.Time,
) (*Result, error) {
	item, err := o.Item(itemID)
	if err != nil {
		return nil, err
	}
	if err := item.EnterResult(methodID, freeText, fields, release, enteredBy, at); err != nil {
		return nil, err
	}
	return item.Result(), nil
}

// SignItemResult signs the released result of one item; see Item.Sign.
func (o *Order) SignItemResult(itemID, signer kernel.UUID, at time.Time) (*Result, error) {
	item, err := o.Item(itemID)
	if err != nil {
		return nil, err
	}
	if err := item.Sign(signer, at); err != nil {
		return nil, err
	}
	return item.Result(), nil
}

// RegisterDelivery hands the given items to a recipient, enforcing the
// facility's delivery policy:
//
//   - every id must belong to this order and be Signed (Delivered is
//     accepted for idempotent re-confirmation)
//   - document and biometric verification are required when the policy says so
//   - without partial delivery, the items must cover every non-cancelled,
//     not-yet-delivered item of the order
//
// On success the covered items become Delivered and a new delivery event is
// appended to the order.
func (o *Order) RegisterDelivery(
	itemIDs []kernel.UUID,
	recipient Recipient,
	documentVerified, biometricVerified bool,
	policy DeliveryPolicy,
	deliveredBy kernel.UUID,
	at time.Time,
	notes string,
) (*Delivery, error) {
	if len(itemIDs) == 0 {
		return nil, errs.NewValueIsRequiredError("delivered item ids")
	}

	if policy.RequireDocument && !documentVerified {
		return nil, errs.NewVerificationRequiredError("recipient document")
	}
	if policy.RequireBiometric && !biometricVerified {
		return nil, errs.NewVerificationRequiredError("recipient biometrics")
	}

	covered := make(map[kernel.UUID]struct{}, len(itemIDs))
	for _, itemID := range itemIDs {
		item, err := o.Item(itemID)
		if err != nil {
			return nil, err
		}
		if item.Status() != Signed && item.Status() != Delivered {
			return nil, errs.NewInvalidTransitionError("order item",
				item.Status().String(), Delivered.String())
		}
		covered[itemID] = struct{}{}
	}

	if !policy.AllowPartial {
		for _, item := range o.items {
			if item.Status() == ItemCancelled || item.Status() == Delivered {
				continue
			}
			if _, ok := covered[item.ID()]; !ok {
				return nil, errs.NewValueIsInvalidErrorWithCause("delivered item ids",
					errs.NewValueIsRequiredError("partial delivery is not allowed at this facility"))
			}
		}
	}

	for itemID := range covered {
		item, _ := o.Item(itemID)
		if err := item.Deliver(); err != nil {
			return nil, err
		}
	}

	delivery, err := newDelivery(o.id, recipient, documentVerified, biometricVerified,
		itemIDs, deliveredBy, at, notes)
	if err != nil {
		return nil, err
	}

	o.deliveries = append(o.deliveries, delivery)
	return delivery, nil
}

// Cancel cancels every item that has not been signed or delivered, recording
// the reason on the order. Fails with InvalidTransition when any item already
// reached Signed or Delivered: signed results require an amendment workflow,
// not cancellation.
func (o *Order) Cancel(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("cancellation reason")
	}

	for _, item := range o.items {
		if item.Status() == Signed || item.Status() == Delivered {
			return errs.NewInvalidTransitionError("order",
				o.Status().String(), StatusCancelled.String())
		}
	}

	for _, item := range o.items {
		if err := item.Cancel(reason); err != nil {
			return err
		}
	}

	o.cancelReason = reason
	return nil
}
