package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used as classification anchors. Callers match on these with
// errors.Is, while the concrete error types carry the structured detail needed
// to render an actionable message.
var (
	// ErrValueIsRequired indicates a required value was not provided.
	ErrValueIsRequired = errors.New("value is required")

	// ErrValueIsInvalid indicates a provided value failed validation.
	ErrValueIsInvalid = errors.New("value is invalid")

	// ErrValueIsOutOfRange indicates a numeric value outside its allowed bounds.
	ErrValueIsOutOfRange = errors.New("value is out of range")

	// ErrObjectNotFound indicates a lookup by identifier found nothing.
	ErrObjectNotFound = errors.New("object not found")

	// ErrVersionIsInvalid indicates a version counter is malformed or negative.
	ErrVersionIsInvalid = errors.New("version is invalid")

	// ErrInvalidTransition indicates an attempted state change that is not
	// allowed from the current status. The caller should re-fetch and retry
	// with fresh state.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConcurrentModification indicates an optimistic-lock conflict: the
	// record changed between read and write. Recoverable by re-fetch and retry.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrVerificationRequired indicates a delivery precondition (document or
	// biometric verification) was not satisfied.
	ErrVerificationRequired = errors.New("verification required")

	// ErrResultLocked indicates an edit was attempted on a signed result.
	// Not recoverable; signed results require an out-of-band amendment.
	ErrResultLocked = errors.New("result is locked")
)

// ValueIsRequiredError reports a missing required value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError for the named parameter.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping a cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsInvalidError reports a value that failed a validation rule.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError for the named parameter.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping a cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a numeric value outside its allowed bounds.
// Values are sanitized so multi-line input cannot break log formatting.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError for the named parameter.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping a cause.
func NewValueIsOutOfRangeErrorWithCause(paramName string, value, minValue, maxValue any, cause error) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %s)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// sanitize renders a value for inclusion in an error message, collapsing
// newlines so a single log line stays a single line.
func sanitize(v any) string {
	s := fmt.Sprintf("%v", v)
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}

// ObjectNotFoundError reports a failed lookup, carrying the parameter name and
// the identifier that was searched for.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError for the given identifier.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping a cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// VersionIsInvalidError reports a malformed version counter.
type VersionIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewVersionIsInvalidError creates a VersionIsInvalidError for the named parameter.
func NewVersionIsInvalidError(paramName string) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName}
}

// NewVersionIsInvalidErrorWithCause creates a VersionIsInvalidError wrapping a cause.
func NewVersionIsInvalidErrorWithCause(paramName string, cause error) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *VersionIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrVersionIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrVersionIsInvalid, e.ParamName)
}

func (e *VersionIsInvalidError) Unwrap() error {
	return ErrVersionIsInvalid
}

// InvalidTransitionError reports a status change that is not allowed from the
// current status. From and To carry the status names for diagnostics.
type InvalidTransitionError struct {
	Subject string
	From    string
	To      string
}

// NewInvalidTransitionError creates an InvalidTransitionError for the named subject.
func NewInvalidTransitionError(subject, from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{Subject: subject, From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s cannot move from %s to %s",
		ErrInvalidTransition, e.Subject, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ConcurrentModificationError reports an optimistic-lock conflict on a record.
type ConcurrentModificationError struct {
	ParamName string
	ID        any
	Version   int
}

// NewConcurrentModificationError creates a ConcurrentModificationError for the
// record identified by id at the expected version.
func NewConcurrentModificationError(paramName string, id any, version int) *ConcurrentModificationError {
	return &ConcurrentModificationError{ParamName: paramName, ID: id, Version: version}
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("%s: %s %s changed since version %d",
		ErrConcurrentModification, e.ParamName, e.ID, e.Version)
}

func (e *ConcurrentModificationError) Unwrap() error {
	return ErrConcurrentModification
}

// VerificationRequiredError reports an unmet delivery verification precondition.
type VerificationRequiredError struct {
	Check string
}

// NewVerificationRequiredError creates a VerificationRequiredError for the named check.
func NewVerificationRequiredError(check string) *VerificationRequiredError {
	return &VerificationRequiredError{Check: check}
}

func (e *VerificationRequiredError) Error() string {
	return fmt.Sprintf("%s: %s", ErrVerificationRequired, e.Check)
}

func (e *VerificationRequiredError) Unwrap() error {
	return ErrVerificationRequired
}

// ResultLockedError reports an edit attempt on a result that has been signed.
type ResultLockedError struct {
	ParamName string
	ID        any
}

// NewResultLockedError creates a ResultLockedError for the given result.
func NewResultLockedError(paramName string, id any) *ResultLockedError {
	return &ResultLockedError{ParamName: paramName, ID: id}
}

func (e *ResultLockedError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrResultLocked, e.ParamName, e.ID)
}

func (e *ResultLockedError) Unwrap() error {
	return ErrResultLocked
}

// FieldViolation describes a single invalid result field value. Violations are
// accumulated so the caller can surface every problem at once.
type FieldViolation struct {
	FieldID string
	Rule    string
	Detail  string
}

func (v FieldViolation) String() string {
	return fmt.Sprintf("field %s: %s (%s)", v.FieldID, v.Rule, v.Detail)
}

// FieldViolations is a validation error aggregating all invalid field values
// of a single result entry. It unwraps to ErrValueIsInvalid so generic
// validation handling still applies.
type FieldViolations struct {
	Violations []FieldViolation
}

// NewFieldViolations creates a FieldViolations error from the collected violations.
func NewFieldViolations(violations []FieldViolation) *FieldViolations {
	return &FieldViolations{Violations: violations}
}

func (e *FieldViolations) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, strings.Join(parts, "; "))
}

func (e *FieldViolations) Unwrap() error {
	return ErrValueIsInvalid
}
