package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/apiquery/internal/query"
	"github.com/roach88/apiquery/internal/queryir"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Model      string
	Include    []string
	Append     []string
	Select     []string
	Where      []string // key=value, repeatable
	WhereIn    []string // key=a,b,c, repeatable
	Sort       string   // -name,flavour
	Page       int
	Limit      int
	Params     []string // key=value, repeatable, order kept
	BaseURL    string
	ParamNames []string // logical=wire, repeatable
}

// BuildResult is the JSON payload of the build command.
type BuildResult struct {
	URL string `json:"url"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build one query URL from flags",
		Long: `Build one query URL from flags.

Every flag maps to one builder call. Filters keep the order in which they
are given; params are emitted in flag order.

Exit codes:
  0 - URL rendered
  1 - Render failed (missing --model, invalid argument)
  2 - Command error (malformed flag)

Examples:
  apiquery build --model pizza --where topping=cheese
  apiquery build --model posts --include user --sort -created_at --page 2 --limit 10
  apiquery build --model pizza --where-in topping=cheese,beef --param format=basic
  apiquery build --model pizza --page 1 --param-name page=p --base-url https://api.example.com`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "model (resource collection) to query")
	cmd.Flags().StringSliceVar(&opts.Include, "include", nil, "relations to include")
	cmd.Flags().StringSliceVar(&opts.Append, "append", nil, "computed attributes to append")
	cmd.Flags().StringSliceVar(&opts.Select, "select", nil, "fields of the model to return")
	cmd.Flags().StringArrayVar(&opts.Where, "where", nil, "filter as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.WhereIn, "where-in", nil, "filter as key=a,b,c (repeatable)")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "sort fields, '-' prefix for descending")
	cmd.Flags().IntVar(&opts.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "page size")
	cmd.Flags().StringArrayVar(&opts.Params, "param", nil, "extra parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "", "prefix for the rendered path")
	cmd.Flags().StringArrayVar(&opts.ParamNames, "param-name", nil, "rename a parameter as logical=wire (repeatable)")

	return cmd
}

func runBuild(opts *BuildOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg := query.Config{BaseURL: opts.BaseURL}
	for _, raw := range opts.ParamNames {
		logical, wire, err := splitPair(raw, "--param-name")
		if err != nil {
			return flagError(formatter, err)
		}
		if !cfg.QueryParameters.Set(logical, wire) {
			return flagError(formatter, fmt.Errorf("--param-name: unknown parameter %q", logical))
		}
	}

	b := query.New(cfg, query.WithLogger(formatter.Logger))
	if opts.Model != "" {
		b.For(opts.Model)
	}
	if cmd.Flags().Changed("include") {
		b.Includes(opts.Include...)
	}
	if cmd.Flags().Changed("append") {
		b.Appends(opts.Append...)
	}
	if cmd.Flags().Changed("select") {
		b.Select(opts.Select...)
	}

	for _, raw := range opts.Where {
		key, value, err := splitPair(raw, "--where")
		if err != nil {
			return flagError(formatter, err)
		}
		b.Where(key, value)
	}
	for _, raw := range opts.WhereIn {
		key, values, err := splitPair(raw, "--where-in")
		if err != nil {
			return flagError(formatter, err)
		}
		b.WhereIn(key, splitList(values))
	}

	if cmd.Flags().Changed("sort") {
		b.Sort(queryir.ParseSort(opts.Sort)...)
	}
	if cmd.Flags().Changed("page") {
		b.Page(opts.Page)
	}
	if cmd.Flags().Changed("limit") {
		b.Limit(opts.Limit)
	}

	if len(opts.Params) > 0 {
		params := make(query.OrderedParams, 0, len(opts.Params))
		for _, raw := range opts.Params {
			key, value, err := splitPair(raw, "--param")
			if err != nil {
				return flagError(formatter, err)
			}
			params = append(params, query.Param{Key: key, Value: value})
		}
		b.Params(params)
	}

	url, err := b.Get()
	if err != nil {
		_ = formatter.Error(MapErrorToCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "build failed", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(BuildResult{URL: url})
	}
	return formatter.Success(url)
}

// splitPair splits "key=value" at the first '='. The key must be non-empty.
func splitPair(raw, flag string) (string, string, error) {
	key, value, ok := strings.Cut(raw, "=")
	if !ok || key == "" {
		return "", "", fmt.Errorf("%s: expected key=value, got %q", flag, raw)
	}
	return key, value, nil
}

// splitList splits a comma separated flag value. An empty value is an
// empty list.
func splitList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, ",")
}

func flagError(formatter *OutputFormatter, err error) error {
	_ = formatter.Error(ErrCodeBadFlag, err.Error(), nil)
	return WrapExitError(ExitCommandError, "invalid flag", err)
}
