package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/apiquery/internal/definition"
	"github.com/roach88/apiquery/internal/query"
)

// Scenario is a sequence of builder interactions with expected outcomes.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config constructs the Builder shared by every step.
	Config query.Config `yaml:"config,omitempty"`

	// Steps run in order on the same Builder.
	Steps []Step `yaml:"steps"`
}

// Step is one interaction with the shared Builder.
type Step struct {
	// Clear wipes the Builder before Query is applied.
	Clear bool `yaml:"clear,omitempty"`

	// Query holds the calls to replay before rendering. Name is optional here.
	// A step without a query does not render.
	Query *definition.Definition `yaml:"query,omitempty"`

	// Expect is the exact URL the render must produce.
	Expect string `yaml:"expect,omitempty"`

	// ExpectError is the error kind the render must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Expected error kinds.
const (
	ExpectPrecondition    = "precondition"
	ExpectInvalidArgument = "invalid_argument"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	// Reject unknown fields: "expects:" must not silently skip the check.
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	return nil
}

func validateStep(step Step) error {
	if step.Query == nil && !step.Clear {
		return fmt.Errorf("query or clear is required")
	}
	if step.Query == nil && (step.Expect != "" || step.ExpectError != "") {
		return fmt.Errorf("expect needs a query to render")
	}
	if step.Expect != "" && step.ExpectError != "" {
		return fmt.Errorf("expect and expect_error are mutually exclusive")
	}

	switch step.ExpectError {
	case "", ExpectPrecondition, ExpectInvalidArgument:
	default:
		return fmt.Errorf("unknown expect_error %q (want %s or %s)", step.ExpectError, ExpectPrecondition, ExpectInvalidArgument)
	}
	return nil
}
