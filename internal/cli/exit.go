package cli

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // a query, validation or scenario failed
	ExitCommandError = 2 // the command could not run: bad path, bad flag, catalog error
)

// ExitError carries the exit code a command wants main to exit with.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError returns an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError returns an ExitError wrapping err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns the code of the first ExitError in err's chain, or
// ExitFailure for any other error.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
