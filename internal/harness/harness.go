package harness

import (
	"fmt"

	"github.com/roach88/apiquery/internal/query"
	"github.com/roach88/apiquery/internal/queryir"
)

// Harness executes the steps of one scenario on one Builder.
type Harness struct {
	builder *query.Builder
	result  *Result
}

// Run executes a scenario and returns the result.
//
// One Builder is created from scenario.Config and shared by all steps, so
// state set by a step is visible to every later step unless cleared.
// The returned error is reserved for scenarios that cannot run at all;
// unmet expectations are reported through Result.Pass and Result.Errors.
func Run(scenario *Scenario, opts ...query.Option) (*Result, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario is nil")
	}
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	h := &Harness{
		builder: query.New(scenario.Config, opts...),
		result:  NewResult(),
	}
	for i, step := range scenario.Steps {
		h.executeStep(i+1, step)
	}
	return h.result, nil
}

// executeStep applies one step. Steps are numbered from 1.
func (h *Harness) executeStep(n int, step Step) {
	if step.Clear {
		h.builder.Clear()
		h.result.AddClear(n)
	}
	if step.Query == nil {
		return
	}

	url, err := step.Query.Apply(h.builder).Get()
	if err != nil {
		kind := errorKind(err)
		h.result.AddFailure(n, kind, err)
		if failure := checkFailure(n, step, kind, err, h.result.Trace); failure != nil {
			h.result.AddError(failure.Error())
		}
		return
	}

	h.result.AddRender(n, url)
	if failure := checkRender(n, step, url, h.result.Trace); failure != nil {
		h.result.AddError(failure.Error())
	}
}

// errorKind maps a render error to its scenario name.
func errorKind(err error) string {
	switch {
	case queryir.IsPreconditionError(err):
		return ExpectPrecondition
	case queryir.IsInvalidArgument(err):
		return ExpectInvalidArgument
	default:
		return "unknown"
	}
}
