package http

import (
	"errors"
	"net/http"

	"labflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Code       int              `json:"code"`
	Message    string           `json:"message"`
	Violations []ErrorViolation `json:"violations,omitempty"`
}

// ErrorViolation reports one invalid result field value.
type ErrorViolation struct {
	FieldID string `json:"field_id"`
	Rule    string `json:"rule"`
	Detail  string `json:"detail,omitempty"`
}

// writeError maps domain errors to HTTP responses. The mapping follows the
// error taxonomy: validation problems are client errors, transition and
// version conflicts report 409, unmet delivery verification reports 412, and
// attempts to change a signed result report 423.
func writeError(ctx echo.Context, err error) error {
	var violations *errs.FieldViolations
	if errors.As(err, &violations) {
		response := ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid result field values",
		}
		for _, v := range violations.Violations {
			response.Violations = append(response.Violations, ErrorViolation{
				FieldID: v.FieldID,
				Rule:    v.Rule,
				Detail:  v.Detail,
			})
		}
		return ctx.JSON(http.StatusBadRequest, response)
	}

	code := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrConcurrentModification):
		code = http.StatusConflict
		message = err.Error()
	case errors.Is(err, errs.ErrVerificationRequired):
		code = http.StatusPreconditionFailed
		message = err.Error()
	case errors.Is(err, errs.ErrResultLocked):
		code = http.StatusLocked
		message = err.Error()
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrVersionIsInvalid):
		code = http.StatusBadRequest
		message = err.Error()
	}

	return ctx.JSON(code, ErrorResponse{Code: code, Message: message})
}
