package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when a step does not match its expectation.
// It includes the trace up to the failing step to help debug the failure.
type AssertionError struct {
	Step     int
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: step %d\n", e.Step)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  %s\n", formatEvent(event))
	}

	return buf.String()
}

// checkRender validates a successful render against the step.
func checkRender(n int, step Step, url string, trace []TraceEvent) error {
	if step.ExpectError != "" {
		return &AssertionError{
			Step:     n,
			Expected: fmt.Sprintf("%s error", step.ExpectError),
			Actual:   url,
			Trace:    trace,
		}
	}
	if step.Expect != "" && step.Expect != url {
		return &AssertionError{
			Step:     n,
			Expected: step.Expect,
			Actual:   url,
			Trace:    trace,
		}
	}
	return nil
}

// checkFailure validates a failed render against the step.
func checkFailure(n int, step Step, kind string, err error, trace []TraceEvent) error {
	if step.ExpectError == kind {
		return nil
	}

	expected := step.Expect
	if step.ExpectError != "" {
		expected = fmt.Sprintf("%s error", step.ExpectError)
	} else if expected == "" {
		expected = "a rendered URL"
	}
	return &AssertionError{
		Step:     n,
		Expected: expected,
		Actual:   fmt.Sprintf("%s error: %v", kind, err),
		Trace:    trace,
	}
}
