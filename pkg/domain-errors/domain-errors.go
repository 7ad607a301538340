package domainerrors

import "errors"

// Code is a transport-neutral failure category. Failure reasons the registry
// reports for a request are results, not errors, and never use these codes.
type Code string

const (
	// request shape
	CodeBadRequest   Code = "bad_request"
	CodeInvalidInput Code = "invalid_input"
	CodeValidation   Code = "validation_failed"

	// registry state
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"

	// registry reachability
	CodeTimeout     Code = "timeout"
	CodeUnavailable Code = "registry_unavailable"

	CodeInternal Code = "internal_error"
)

// Error carries a stable code alongside an optional message and cause.
// Field names the offending request field, in its wire form, for
// validation failures.
type Error struct {
	Code    Code
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches by code so callers can test errors.Is(err, &Error{Code: CodeNotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Invalid reports a request field that failed validation.
func Invalid(field, msg string) error {
	return &Error{Code: CodeValidation, Message: msg, Field: field}
}

// Wrap attaches a code and message to err.
// When err already carries a domain code, that code and field win.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Field: existing.Field, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the outermost domain code in err's chain, or "" when there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func HasCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// Retryable reports whether err means the registry could not be reached in
// time, so the same request may succeed later.
func Retryable(err error) bool {
	switch CodeOf(err) {
	case CodeTimeout, CodeUnavailable:
		return true
	default:
		return false
	}
}
