package order

import (
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/errs"
)

// CollectedMaterial records one biological material used to collect an item.
type CollectedMaterial struct {
	MaterialID kernel.UUID
	Quantity   int
	TubeCode   string
}

// Item is one requested exam within an order, tracked independently through
// the lifecycle. Items are created by the order at intake and mutated only
// through their transition methods, which enforce the state machine.
//
// Each item carries a version counter for optimistic concurrency: the
// repository commits an item update only when the stored version still equals
// the loaded one, and fails with ConcurrentModification otherwise.
type Item struct {
	id           kernel.UUID
	examID       kernel.UUID
	quantity     int
	session      int
	authorized   bool
	authNumber   string
	price        int64
	status       ItemStatus
	cancelReason string

	materials   []CollectedMaterial
	collectedAt *time.Time

	result *Result

	version int
	changed bool
}

// ItemSpec carries the intake parameters for one requested exam.
type ItemSpec struct {
	ExamID     kernel.UUID
	Quantity   int
	Session    int
	Authorized bool
	AuthNumber string
	Price      int64
}

// NewItem creates an item in AwaitingCollection status from an intake spec.
func NewItem(spec ItemSpec) (*Item, error) {
	if err := spec.ExamID.Validate(); err != nil {
		return nil, err
	}
	if spec.Quantity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("quantity",
			errs.NewValueIsOutOfRangeError("quantity", spec.Quantity, 1, "unbounded"))
	}

	session := spec.Session
	if session == 0 {
		session = 1
	}

	return &Item{
		id:         kernel.NewUUID(),
		examID:     spec.ExamID,
		quantity:   spec.Quantity,
		session:    session,
		authorized: spec.Authorized,
		authNumber: spec.AuthNumber,
		price:      spec.Price,
		status:     AwaitingCollection,
	}, nil
}

// RestoreItem reconstructs an item from persistence, including its version
// counter and optional result, without applying transition rules.
func RestoreItem(
	id, examID kernel.UUID,
	quantity, session int,
	authorized bool,
	authNumber string,
	price int64,
	status ItemStatus,
	cancelReason string,
	materials []CollectedMaterial,
	collectedAt *time.Time,
	result *Result,
	version int,
) (*Item, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := examID.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if version < 0 {
		return nil, errs.NewVersionIsInvalidError("item version")
	}

	return &Item{
		id:           id,
		examID:       examID,
		quantity:     quantity,
		session:      session,
		authorized:   authorized,
		authNumber:   authNumber,
		price:        price,
		status:       status,
		cancelReason: cancelReason,
		materials:    materials,
		collectedAt:  collectedAt,
		result:       result,
		version:      version,
	}, nil
}

// ID returns the item's unique identifier.
func (i *Item) ID() kernel.UUID { return i.id }

// ExamID returns the catalog exam this item requests.
func (i *Item) ExamID() kernel.UUID { return i.examID }

// Quantity returns the requested quantity.
func (i *Item) Quantity() int { return i.quantity }

// Session returns the session number for multi-session protocols.
func (i *Item) Session() int { return i.session }

// Authorized reports whether the exam carries an insurance authorization.
func (i *Item) Authorized() bool { return i.authorized }

// AuthNumber returns the authorization number, empty when unauthorized.
func (i *Item) AuthNumber() string { return i.authNumber }

// Price returns the priced value of the item in cents.
func (i *Item) Price() int64 { return i.price }

// Status returns the item's current lifecycle status.
func (i *Item) Status() ItemStatus { return i.status }

// CancelReason returns the cancellation reason, empty unless cancelled.
func (i *Item) CancelReason() string { return i.cancelReason }

// Materials returns the materials recorded at collection.
func (i *Item) Materials() []CollectedMaterial { return i.materials }

// CollectedAt returns the collection timestamp, nil before collection.
func (i *Item) CollectedAt() *time.Time { return i.collectedAt }

// Result returns the item's result, nil before the first entry.
func (i *Item) Result() *Result { return i.result }

// Version returns the optimistic-concurrency version counter loaded from
// persistence. Zero for items that were never stored.
func (i *Item) Version() int { return i.version }

// Changed reports whether a transition method modified the item since it was
// loaded. The repository persists only changed items, bumping their version.
func (i *Item) Changed() bool { return i.changed }

func (i *Item) markChanged() { i.changed = true }

// Collect transitions the item to Collected, recording the materials used.
// Calling Collect on an already collected item is a no-op success so client
// retries after a network timeout do not surface as errors.
func (i *Item) Collect(materials []CollectedMaterial, at time.Time) error {
	if i.status == Collected {
		return nil
	}

	newStatus, err := i.status.TransitionTo(Collected)
	if err != nil {
		return err
	}

	i.status = newStatus
	i.materials = materials
	i.collectedAt = &at
	i.markChanged()
	return nil
}

// EnterResult creates or replaces the item's result. Requires the item to be
// Collected, InAnalysis, or (for the pre-signature correction window)
// ResultEntered. When release is true the item advances to ResultEntered and
// the result is released; otherwise the item moves to InAnalysis. Entering a
// result for a signed item fails with ResultLocked; re-saving a released
// result does not clear the released flag.
func (i *Item) EnterResult(
	methodID *kernel.UUID,
	freeText string,
	fields []FieldValue,
	release bool,
	enteredBy kernel.UUID,
	at time.Time,
) error {
	switch i.status {
	case Collected, InAnalysis, ResultEntered:
	case Signed, Delivered:
		return errs.NewResultLockedError("result for item", i.id.String())
	default:
		return errs.NewInvalidTransitionError("order item", i.status.String(),
			InAnalysis.String())
	}

	if i.result == nil {
		i.result = newResult(i.id, enteredBy, at)
	}
	if err := i.result.update(methodID, freeText, fields, enteredBy, at); err != nil {
		return err
	}

	target := InAnalysis
	if release || i.result.Released() {
		target = ResultEntered
	}
	if i.status != target {
		newStatus, err := i.status.TransitionTo(target)
		if err != nil {
			return err
		}
		i.status = newStatus
	}
	if release {
		i.result.release(at)
	}

	i.markChanged()
	return nil
}

// Sign applies the professional signature to the item's released result and
// advances the item to Signed. Signing an already signed item is an
// idempotent success: the existing signature is kept and SignedAt does not
// change.
func (i *Item) Sign(signer kernel.UUID, at time.Time) error {
	if i.status == Signed {
		return nil
	}

	if i.result == nil || !i.result.Released() {
		return errs.NewInvalidTransitionError("order item", i.status.String(), Signed.String())
	}

	newStatus, err := i.status.TransitionTo(Signed)
	if err != nil {
		return err
	}

	if err := i.result.sign(signer, at); err != nil {
		return err
	}

	i.status = newStatus
	i.markChanged()
	return nil
}

// Deliver marks the item's signed result as handed out. Delivering an
// already delivered item is a no-op success for idempotent re-confirmation.
func (i *Item) Deliver() error {
	if i.status == Delivered {
		return nil
	}

	newStatus, err := i.status.TransitionTo(Delivered)
	if err != nil {
		return err
	}

	i.status = newStatus
	i.markChanged()
	return nil
}

// Cancel cancels the item with a reason. Allowed from any state up to and
// including ResultEntered; cancelling a signed or delivered item fails with
// InvalidTransition. Re-cancelling is a no-op success.
func (i *Item) Cancel(reason string) error {
	if i.status == ItemCancelled {
		return nil
	}

	newStatus, err := i.status.TransitionTo(ItemCancelled)
	if err != nil {
		return err
	}

	i.status = newStatus
	i.cancelReason = reason
	i.markChanged()
	return nil
}
