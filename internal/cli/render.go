package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/apiquery/internal/definition"
	"github.com/roach88/apiquery/internal/query"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Query string // render only this definition
}

// RenderedQuery is one rendered definition.
type RenderedQuery struct {
	Name  string    `json:"name"`
	URL   string    `json:"url,omitempty"`
	Error *CLIError `json:"error,omitempty"`
}

// RenderResult is the JSON payload of the render command.
type RenderResult struct {
	File    string          `json:"file"`
	Queries []RenderedQuery `json:"queries"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render the queries of a definition file",
		Long: `Render every query of a YAML or CUE definition file.

Each definition is rendered on a fresh builder configured from the file's
config block, so definitions never see each other's state.

Examples:
  apiquery render queries.yaml
  apiquery render queries.cue --query cheesy
  apiquery render queries.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "render only the named query")

	return cmd
}

func runRender(opts *RenderOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	doc, err := loadDocument(formatter, path)
	if err != nil {
		return err
	}

	defs := doc.Queries
	if opts.Query != "" {
		def, ok := doc.Find(opts.Query)
		if !ok {
			msg := fmt.Sprintf("query %q not found in %s", opts.Query, path)
			_ = formatter.Error(ErrCodeNotFound, msg, nil)
			return NewExitError(ExitCommandError, msg)
		}
		defs = []definition.Definition{*def}
	}

	result := renderAll(path, doc.Config, defs, formatter)
	failed := 0
	for _, q := range result.Queries {
		if q.Error != nil {
			failed++
		}
	}

	if formatter.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if failed > 0 {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    ErrCodeRenderFailed,
				Message: fmt.Sprintf("%d query(ies) failed to render", failed),
			}
		}
		if err := formatter.Respond(resp); err != nil {
			return err
		}
	} else {
		writeRenderText(formatter.Writer, result, opts.Query != "")
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d query(ies) failed to render", failed))
	}
	return nil
}

// renderAll renders each definition on its own Builder.
func renderAll(path string, cfg query.Config, defs []definition.Definition, formatter *OutputFormatter) RenderResult {
	result := RenderResult{File: path, Queries: make([]RenderedQuery, 0, len(defs))}
	for i := range defs {
		def := &defs[i]
		formatter.VerboseLog("rendering %s", def.Name)

		url, err := def.Render(cfg, query.WithLogger(formatter.Logger))
		if err != nil {
			result.Queries = append(result.Queries, RenderedQuery{
				Name:  def.Name,
				Error: &CLIError{Code: MapErrorToCode(err), Message: err.Error()},
			})
			continue
		}
		result.Queries = append(result.Queries, RenderedQuery{Name: def.Name, URL: url})
	}
	return result
}

// writeRenderText prints "name<TAB>url" per query, or the bare URL when a
// single query was selected.
func writeRenderText(w io.Writer, result RenderResult, bare bool) {
	for _, q := range result.Queries {
		switch {
		case q.Error != nil:
			fmt.Fprintf(w, "✗ %s: %s: %s\n", q.Name, q.Error.Code, q.Error.Message)
		case bare:
			fmt.Fprintln(w, q.URL)
		default:
			fmt.Fprintf(w, "%s\t%s\n", q.Name, q.URL)
		}
	}
}

// loadDocument loads a definition file, reporting failures through the
// formatter.
func loadDocument(formatter *OutputFormatter, path string) (*definition.Document, error) {
	if err := checkExists(formatter, path); err != nil {
		return nil, err
	}

	doc, err := definition.LoadFile(path)
	if err != nil {
		_ = formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, ErrCodeLoadFailed, err)
	}
	formatter.VerboseLog("loaded %d query(ies) from %s", len(doc.Queries), path)
	return doc, nil
}

// checkExists reports a missing path as a command error.
func checkExists(formatter *OutputFormatter, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		msg := fmt.Sprintf("not found: %s", path)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", ErrCodeNotFound, msg))
	}
	return nil
}
