package prediction

import (
	apperrors "github.com/yanqian/neo-hazard/pkg/errors"
)

// Validation codes returned synchronously by Resolve and Submit.
const (
	CodeMissingID     = "missing-id"
	CodeMissingFields = "missing-fields"
	CodeUnknownField  = "unknown-field"
	CodeUnknownMode   = "unknown-mode"
)

// Remote failure codes produced by classifier adapters.
const (
	CodeCapacityExceeded = "capacity_exceeded"
	CodeInvalidInput     = "invalid_input"
	CodeTransportFailure = "transport_failure"
)

// CodeSubmitInFlight rejects a submit while a request is outstanding.
const CodeSubmitInFlight = "submit_in_flight"

// ErrSubmitInFlight is returned by Submit while the session is loading.
var ErrSubmitInFlight = apperrors.Wrap(CodeSubmitInFlight, "a prediction is already in progress", nil)

func validationError(code, message string) error {
	return apperrors.Wrap(code, message, nil)
}

// IsValidationError reports whether err was raised before any network call.
func IsValidationError(err error) bool {
	switch apperrors.CodeOf(err) {
	case CodeMissingID, CodeMissingFields, CodeUnknownField, CodeUnknownMode:
		return true
	default:
		return false
	}
}

// FailureFromError maps a classifier error onto a failure reason.
// Anything not explicitly tagged is a transport failure.
func FailureFromError(err error) FailureReason {
	switch apperrors.CodeOf(err) {
	case CodeCapacityExceeded:
		return FailureCapacityExceeded
	case CodeInvalidInput:
		return FailureInvalidInput
	default:
		return FailureTransport
	}
}
