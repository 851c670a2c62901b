package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/roach88/apiquery/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the apiquery CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "apiquery",
		Short: "apiquery - JSON:API query string builder",
		Long:  "Build, render and test JSON:API-style query strings for REST APIs.",
		// main prints errors that are not already reported.
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newLogger builds the diagnostic logger for a command. Debug output is
// only enabled with --verbose.
func newLogger(opts *RootOptions, w io.Writer) zerolog.Logger {
	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	return logging.NewWithComponent(logging.Config{
		Level:  level,
		Pretty: true,
		Output: w,
	}, "cli")
}

// newFormatter wires an OutputFormatter to the command's writers.
// Verbose logs go to stderr to avoid corrupting JSON.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	f := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	f.Logger = newLogger(opts, f.GetErrWriter())
	return f
}
