package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/apiquery/internal/harness"
	"github.com/roach88/apiquery/internal/query"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // rewrite golden files from the current output
	Filter string // glob matched against scenario file names without extension
}

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult is the JSON payload of the test command.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

func (r *TestResult) add(s ScenarioResult) {
	r.Scenarios = append(r.Scenarios, s)
	r.Total++
	if s.Pass {
		r.Passed++
	} else {
		r.Failed++
	}
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run conformance scenarios",
		Long: `Run conformance scenarios against the query builder.

Each scenario replays its steps on one builder and checks the expected
URLs and errors. When <scenarios-dir>/golden/<file>.golden exists the
rendered trace must match it byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Scenarios directory missing or unreadable

Examples:
  apiquery test ./scenarios
  apiquery test ./scenarios --filter "reuse*"
  apiquery test ./scenarios --update
  apiquery test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "rewrite golden files from the current output")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run scenarios whose file name matches this glob")

	return cmd
}

func runTests(opts *TestOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		msg := fmt.Sprintf("scenarios directory not found: %s", dir)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	files, err := scenarioFiles(dir, opts.Filter)
	if err != nil {
		_ = formatter.Error(ErrCodeScanError, err.Error(), nil)
		return WrapExitError(ExitCommandError, "scan scenarios", err)
	}

	result := TestResult{Scenarios: make([]ScenarioResult, 0, len(files))}
	if len(files) == 0 && !formatter.json() {
		fmt.Fprintln(formatter.Writer, "No scenarios found.")
		return nil
	}

	r := scenarioRunner{formatter: formatter, update: opts.Update}
	for _, file := range files {
		result.add(r.run(file))
	}

	if formatter.json() {
		return writeTestJSON(formatter, result)
	}
	return writeTestSummary(formatter.Writer, result)
}

// scenarioFiles lists the .yaml/.yml files under dir, skipping golden
// directories, in lexical order.
func scenarioFiles(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case d.IsDir() && d.Name() == "golden":
			return filepath.SkipDir
		case d.IsDir():
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			ok, err := filepath.Match(filter, strings.TrimSuffix(d.Name(), ext))
			if err != nil {
				return fmt.Errorf("bad --filter %q: %w", filter, err)
			}
			if !ok {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// scenarioRunner runs scenario files one at a time and prints a line per
// scenario in text mode.
type scenarioRunner struct {
	formatter *OutputFormatter
	update    bool
}

func (r scenarioRunner) run(file string) ScenarioResult {
	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return r.fail(filepath.Base(file), fmt.Sprintf("failed to load scenario: %v", err))
	}

	r.formatter.VerboseLog("running %s (%d steps)", scenario.Name, len(scenario.Steps))
	result, err := harness.Run(scenario, query.WithLogger(r.formatter.Logger))
	if err != nil {
		return r.fail(scenario.Name, fmt.Sprintf("execution failed: %v", err))
	}
	if !result.Pass {
		return r.fail(scenario.Name, result.Errors...)
	}

	got := harness.Snapshot(scenario.Name, result)
	golden := goldenFilePath(file)

	if r.update {
		if err := writeGolden(golden, got); err != nil {
			return r.fail(scenario.Name, err.Error())
		}
		return r.pass(scenario.Name, " (golden updated)")
	}

	want, err := os.ReadFile(golden)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// expectations only
	case err != nil:
		return r.fail(scenario.Name, fmt.Sprintf("read golden file: %v", err))
	case !bytes.Equal(want, got):
		return r.fail(scenario.Name, "trace does not match golden file (run with --update to regenerate)")
	}
	return r.pass(scenario.Name, "")
}

func (r scenarioRunner) pass(name, note string) ScenarioResult {
	if !r.formatter.json() {
		fmt.Fprintf(r.formatter.Writer, "✓ %s%s\n", name, note)
	}
	return ScenarioResult{Name: name, Pass: true}
}

func (r scenarioRunner) fail(name string, errs ...string) ScenarioResult {
	if !r.formatter.json() {
		fmt.Fprintf(r.formatter.Writer, "✗ %s\n", name)
		for _, e := range errs {
			fmt.Fprintf(r.formatter.Writer, "  %s\n", e)
		}
	}
	return ScenarioResult{Name: name, Pass: false, Errors: errs}
}

// goldenFilePath maps dir/name.yaml to dir/golden/name.golden.
func goldenFilePath(scenarioFile string) string {
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(scenarioFile), "golden", name+".golden")
}

func writeGolden(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%s: create golden directory: %w", ErrCodeWriteFailed, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%s: write golden file: %w", ErrCodeWriteFailed, err)
	}
	return nil
}

func writeTestJSON(formatter *OutputFormatter, result TestResult) error {
	resp := CLIResponse{Status: "ok", Data: result}
	if result.Failed > 0 {
		resp.Status = "error"
		resp.Error = &CLIError{
			Code:    ErrCodeTestFailed,
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}
	if err := formatter.Respond(resp); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, resp.Error.Message)
	}
	return nil
}

func writeTestSummary(w io.Writer, result TestResult) error {
	fmt.Fprintf(w, "\nTest Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
