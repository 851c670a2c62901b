package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a result as the golden text: a header line with the
// scenario name, then one line per trace event.
//
//	# reuse_keeps_filters
//	[1] render /pizza?filter[topping]=cheese
//	[2] clear
//	[3] error precondition: PRECONDITION: For: ...
func Snapshot(name string, result *Result) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n", name)
	for _, event := range result.Trace {
		fmt.Fprintf(&buf, "%s\n", formatEvent(event))
	}
	return buf.Bytes()
}

func formatEvent(event TraceEvent) string {
	switch event.Type {
	case EventRender:
		return fmt.Sprintf("[%d] render %s", event.Step, event.URL)
	case EventError:
		return fmt.Sprintf("[%d] error %s: %s", event.Step, event.ErrorKind, event.Error)
	default:
		return fmt.Sprintf("[%d] %s", event.Step, event.Type)
	}
}

// RunWithGolden executes a scenario, fails if any expectation is unmet, and
// compares the trace against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if !result.Pass {
		return fmt.Errorf("scenario %q failed:\n%s", scenario.Name, result.Errors[0])
	}

	AssertGolden(t, scenario.Name, result)
	return nil
}

// AssertGolden compares an existing result against its golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, Snapshot(scenarioName, result))
}
