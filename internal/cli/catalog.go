package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/apiquery/internal/store"
)

// CatalogOptions holds flags shared by the catalog subcommands.
type CatalogOptions struct {
	*RootOptions
	DBPath string
}

// CatalogEntry is the JSON form of a saved definition.
type CatalogEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Model    string `json:"model"`
	Revision int    `json:"revision"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// NewCatalogCommand creates the catalog command and its subcommands.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage saved query definitions",
		Long: `Save query definitions to a SQLite catalog and render them later.

Examples:
  apiquery catalog save queries.yaml --db ./catalog.db
  apiquery catalog list --db ./catalog.db
  apiquery catalog show cheesy --db ./catalog.db
  apiquery catalog delete cheesy --db ./catalog.db`,
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "./apiquery.db", "path to the catalog database")

	cmd.AddCommand(newCatalogSaveCommand(opts))
	cmd.AddCommand(newCatalogListCommand(opts))
	cmd.AddCommand(newCatalogShowCommand(opts))
	cmd.AddCommand(newCatalogDeleteCommand(opts))

	return cmd
}

func newCatalogSaveCommand(opts *CatalogOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "save <file>",
		Short:         "Save every query of a definition file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)

			doc, err := loadDocument(formatter, args[0])
			if err != nil {
				return err
			}

			st, err := openCatalog(formatter, opts.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			entries := make([]CatalogEntry, 0, len(doc.Queries))
			for _, def := range doc.Queries {
				rec, err := st.Save(cmd.Context(), doc.Config, def)
				if err != nil {
					return storeError(formatter, err)
				}
				formatter.VerboseLog("saved %s (revision %d)", rec.Name, rec.Revision)
				entries = append(entries, entryOf(rec, false))
			}

			if formatter.Format == "json" {
				return formatter.Success(entries)
			}
			for _, e := range entries {
				fmt.Fprintf(formatter.Writer, "✓ saved %s (revision %d)\n", e.Name, e.Revision)
			}
			return nil
		},
	}
}

func newCatalogListCommand(opts *CatalogOptions) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List saved queries with their rendered URLs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)

			st, err := openCatalog(formatter, opts.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			var records []store.Record
			if model != "" {
				records, err = st.ListByModel(cmd.Context(), model)
			} else {
				records, err = st.List(cmd.Context())
			}
			if err != nil {
				return storeError(formatter, err)
			}

			entries := make([]CatalogEntry, 0, len(records))
			for _, rec := range records {
				entries = append(entries, entryOf(rec, true))
			}

			if formatter.Format == "json" {
				return formatter.Success(entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(formatter.Writer, "No saved queries.")
				return nil
			}
			for _, e := range entries {
				if e.Error != "" {
					fmt.Fprintf(formatter.Writer, "%s\t✗ %s\n", e.Name, e.Error)
					continue
				}
				fmt.Fprintf(formatter.Writer, "%s\t%s\n", e.Name, e.URL)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "only list queries for this model")

	return cmd
}

func newCatalogShowCommand(opts *CatalogOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <name>",
		Short:         "Render one saved query",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)

			st, err := openCatalog(formatter, opts.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return storeError(formatter, err)
			}

			entry := entryOf(rec, true)
			if entry.Error != "" {
				_ = formatter.Error(ErrCodeRenderFailed, entry.Error, nil)
				return NewExitError(ExitFailure, entry.Error)
			}
			if formatter.Format == "json" {
				return formatter.Success(entry)
			}
			return formatter.Success(entry.URL)
		},
	}
}

func newCatalogDeleteCommand(opts *CatalogOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete a saved query",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)

			st, err := openCatalog(formatter, opts.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return storeError(formatter, err)
			}

			name := store.NormalizeName(args[0])
			if formatter.Format == "json" {
				return formatter.Success(map[string]string{"deleted": name})
			}
			return formatter.Success(fmt.Sprintf("✓ deleted %s", name))
		},
	}
}

func openCatalog(formatter *OutputFormatter, path string) (*store.Store, error) {
	formatter.VerboseLog("opening catalog %s", path)
	st, err := store.Open(path)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to open catalog", err)
	}
	return st, nil
}

func storeError(formatter *OutputFormatter, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitFailure, ErrCodeNotFound, err)
	}
	_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
	return WrapExitError(ExitCommandError, ErrCodeStoreFailed, err)
}

// entryOf converts a record, rendering it when render is set.
func entryOf(rec store.Record, render bool) CatalogEntry {
	entry := CatalogEntry{
		ID:       rec.ID,
		Name:     rec.Name,
		Model:    rec.Definition.Model,
		Revision: rec.Revision,
	}
	if !render {
		return entry
	}
	url, err := rec.Render()
	if err != nil {
		entry.Error = err.Error()
		return entry
	}
	entry.URL = url
	return entry
}
