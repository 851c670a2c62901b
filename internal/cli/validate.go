package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/apiquery/internal/definition"
)

// ValidationError is one problem found in a definition file.
type ValidationError struct {
	Query   string `json:"query,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Queries int               `json:"queries"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that every query of a definition file renders",
		Long: `Load a YAML or CUE definition file and render every query,
reporting all failures instead of stopping at the first one.

Exit codes:
  0 - All queries render
  1 - One or more queries fail, or the file does not parse
  2 - Command error (file not found)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if err := checkExists(formatter, path); err != nil {
		return err
	}

	// A file that exists but does not parse is a validation failure.
	doc, err := definition.LoadFile(path)
	if err != nil {
		return outputValidationErrors(formatter, []ValidationError{{
			Code:    ErrCodeLoadFailed,
			Message: err.Error(),
			Line:    lineOf(err),
		}}, 0)
	}
	formatter.VerboseLog("loaded %d query(ies) from %s", len(doc.Queries), path)

	result := renderAll(path, doc.Config, doc.Queries, formatter)
	var errs []ValidationError
	for _, q := range result.Queries {
		if q.Error != nil {
			errs = append(errs, ValidationError{Query: q.Name, Code: q.Error.Code, Message: q.Error.Message})
		}
	}

	if len(errs) > 0 {
		return outputValidationErrors(formatter, errs, len(doc.Queries))
	}
	return outputValidateSuccess(formatter, len(doc.Queries))
}

func outputValidateSuccess(formatter *OutputFormatter, queries int) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Queries: queries})
	}

	fmt.Fprintf(formatter.Writer, "✓ All %d query(ies) valid\n", queries)
	return nil
}

func outputValidationErrors(formatter *OutputFormatter, errs []ValidationError, queries int) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:   false,
				Queries: queries,
				Errors:  errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if err := formatter.Respond(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		if err.Query != "" {
			fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Query, err.Message)
			continue
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
