// Package errs provides standardized error types for the laboratory order
// application. It implements a consistent pattern for error creation,
// formatting, and unwrapping that is used throughout the application.
//
// The package covers the full error taxonomy of the order lifecycle:
//   - ValueIsRequiredError / ValueIsInvalidError: malformed or missing input
//   - ObjectNotFoundError: unknown identifier
//   - InvalidTransitionError: state change not allowed from the current status
//   - ConcurrentModificationError: optimistic-lock conflict, retry after re-fetch
//   - VerificationRequiredError: delivery identity checks not satisfied
//   - ResultLockedError: edit attempted after signature
//   - FieldViolations: accumulated per-field result validation failures
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrInvalidTransition) for errors.Is matching
//   - A struct type with fields for structured detail
//   - Constructor functions, with and without cause where applicable
//   - Error() method for formatting the error message
//   - Unwrap() method resolving to the sentinel
//
// The core never retries on these errors itself; they are returned typed to
// the caller, which decides whether the underlying user intent still applies.
package errs
