package queryir

import (
	"errors"
	"fmt"
)

// Error is returned when query intent cannot be turned into a URL.
//
// Error kinds:
//   - Precondition: a URL was requested before the model was set
//   - Invalid argument: a builder call received a value it cannot render
//
// Neither kind is retryable; the caller has to fix the call sequence or the
// argument.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op is the builder call that failed, e.g. "Params".
	Op string

	// Message is a human-readable description.
	Message string
}

// ErrorCode categorizes query errors.
type ErrorCode string

const (
	// ErrCodePrecondition indicates a required call was not made first.
	ErrCodePrecondition ErrorCode = "PRECONDITION"

	// ErrCodeInvalidArgument indicates a call received an unusable value.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewPreconditionError creates an Error for a missing prerequisite call.
func NewPreconditionError(op, message string) *Error {
	return &Error{Code: ErrCodePrecondition, Op: op, Message: message}
}

// NewInvalidArgumentError creates an Error for an unusable argument.
func NewInvalidArgumentError(op, format string, args ...any) *Error {
	return &Error{Code: ErrCodeInvalidArgument, Op: op, Message: fmt.Sprintf(format, args...)}
}

// IsPreconditionError reports whether err is, or wraps, a precondition error.
func IsPreconditionError(err error) bool {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Code == ErrCodePrecondition
	}
	return false
}

// IsInvalidArgument reports whether err is, or wraps, an invalid argument error.
func IsInvalidArgument(err error) bool {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Code == ErrCodeInvalidArgument
	}
	return false
}
