package order

import (
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/errs"
)

// FieldValue is one structured value of a result, tied to a catalog field
// definition. Numeric holds the parsed value for numeric fields; Altered is
// set when the value falls outside the analysis method's reference range.
type FieldValue struct {
	FieldID kernel.UUID
	Raw     string
	Numeric *float64
	Text    string
	Altered bool
}

// Result holds the findings entered for one order item. A result is created
// at the first entry and updated in place on re-entry: saving replaces the
// field values rather than appending. Once signed, a result is immutable.
//
// Invariants:
//   - Signed implies Released, and SignedAt >= EnteredAt
//   - Field values reference distinct field definitions
type Result struct {
	id         kernel.UUID
	itemID     kernel.UUID
	methodID   *kernel.UUID
	enteredBy  kernel.UUID
	enteredAt  time.Time
	freeText   string
	fields     []FieldValue
	reportRef  string
	released   bool
	releasedAt *time.Time
	signed     bool
	signedBy   *kernel.UUID
	signedAt   *time.Time
	printCount int
}

// newResult creates a result for the given item at first entry.
// Only the owning Item constructs results; callers go through Item.EnterResult.
func newResult(itemID, enteredBy kernel.UUID, at time.Time) *Result {
	return &Result{
		id:        kernel.NewUUID(),
		itemID:    itemID,
		enteredBy: enteredBy,
		enteredAt: at,
	}
}

// RestoreResult reconstructs a result from persistence without applying
// transition rules. The repository is responsible for passing stored state
// exactly as persisted.
func RestoreResult(
	id, itemID kernel.UUID,
	methodID *kernel.UUID,
	enteredBy kernel.UUID,
	enteredAt time.Time,
	freeText string,
	fields []FieldValue,
	reportRef string,
	released bool,
	releasedAt *time.Time,
	signed bool,
	signedBy *kernel.UUID,
	signedAt *time.Time,
	printCount int,
) (*Result, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := itemID.Validate(); err != nil {
		return nil, err
	}

	return &Result{
		id:         id,
		itemID:     itemID,
		methodID:   methodID,
		enteredBy:  enteredBy,
		enteredAt:  enteredAt,
		freeText:   freeText,
		fields:     fields,
		reportRef:  reportRef,
		released:   released,
		releasedAt: releasedAt,
		signed:     signed,
		signedBy:   signedBy,
		signedAt:   signedAt,
		printCount: printCount,
	}, nil
}

// ID returns the result's unique identifier.
func (r *Result) ID() kernel.UUID { return r.id }

// ItemID returns the identifier of the order item this result belongs to.
func (r *Result) ItemID() kernel.UUID { return r.itemID }

// MethodID returns the analysis method reference, nil when not set.
func (r *Result) MethodID() *kernel.UUID { return r.methodID }

// EnteredBy returns the operator that last entered the result.
func (r *Result) EnteredBy() kernel.UUID { return r.enteredBy }

// EnteredAt returns the timestamp of the last entry.
func (r *Result) EnteredAt() time.Time { return r.enteredAt }

// FreeText returns the free-text report body.
func (r *Result) FreeText() string { return r.freeText }

// Fields returns the structured field values in entry order.
func (r *Result) Fields() []FieldValue { return r.fields }

// ReportRef returns the generated report reference, empty when none exists.
func (r *Result) ReportRef() string { return r.reportRef }

// Released reports whether the result was released for signature.
func (r *Result) Released() bool { return r.released }

// ReleasedAt returns the release timestamp, nil when not released.
func (r *Result) ReleasedAt() *time.Time { return r.releasedAt }

// Signed reports whether the result carries a professional signature.
func (r *Result) Signed() bool { return r.signed }

// SignedBy returns the signing professional, nil when unsigned.
func (r *Result) SignedBy() *kernel.UUID { return r.signedBy }

// SignedAt returns the signature timestamp, nil when unsigned.
func (r *Result) SignedAt() *time.Time { return r.signedAt }

// PrintCount returns how many times the report was printed.
func (r *Result) PrintCount() int { return r.printCount }

// update replaces the result content with a fresh entry. Saving after release
// but before signature is the correction window and does not change the
// released flag. Saving after signature is rejected with ResultLocked.
func (r *Result) update(methodID *kernel.UUID, freeText string, fields []FieldValue, enteredBy kernel.UUID, at time.Time) error {
	if r.signed {
		return errs.NewResultLockedError("result", r.id.String())
	}

	seen := make(map[kernel.UUID]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.FieldID]; dup {
			return errs.NewValueIsInvalidError("duplicate field value for field " + f.FieldID.String())
		}
		seen[f.FieldID] = struct{}{}
	}

	r.methodID = methodID
	r.freeText = freeText
	r.fields = fields
	r.enteredBy = enteredBy
	r.enteredAt = at
	return nil
}

// release marks the result as released for signature. Releasing an already
// released result keeps the original release timestamp.
func (r *Result) release(at time.Time) {
	if r.released {
		return
	}
	r.released = true
	r.releasedAt = &at
}

// sign applies the professional signature. Requires a released, unsigned
// result; already-signed results are left untouched by the caller (Item.Sign
// treats them as idempotent success before reaching here).
func (r *Result) sign(signer kernel.UUID, at time.Time) error {
	if !r.released {
		return errs.NewInvalidTransitionError("result", "Draft", "Signed")
	}
	if r.signed {
		return nil
	}
	r.signed = true
	r.signedBy = &signer
	r.signedAt = &at
	return nil
}

// RecordPrint increments the print counter for the generated report.
func (r *Result) RecordPrint() {
	r.printCount++
}
