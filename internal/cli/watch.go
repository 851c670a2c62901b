package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/roach88/apiquery/internal/definition"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	Query    string
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-render a definition file whenever it changes",
		Long: `Render a YAML or CUE definition file, then render it again after
every change until interrupted. Load and render errors are printed and
watching continues.

Examples:
  apiquery watch queries.yaml
  apiquery watch queries.cue --query cheesy`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "render only the named query")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 100*time.Millisecond, "wait this long after a change before rendering")

	return cmd
}

func runWatch(ctx context.Context, opts *WatchOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	if err := checkExists(formatter, path); err != nil {
		return err
	}

	// Renders run on the timer goroutine and on this one; serialize output.
	var mu sync.Mutex
	render := func() {
		mu.Lock()
		defer mu.Unlock()
		renderOnce(formatter, path, opts.Query)
	}

	render()
	return watchFile(ctx, path, opts.Debounce, formatter.Logger, render)
}

// renderOnce loads and renders the file, printing results or errors.
func renderOnce(formatter *OutputFormatter, path, only string) {
	doc, err := definition.LoadFile(path)
	if err != nil {
		_ = formatter.Error(MapErrorToCode(err), err.Error(), nil)
		return
	}

	defs := doc.Queries
	if only != "" {
		def, ok := doc.Find(only)
		if !ok {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("query %q not found in %s", only, path), nil)
			return
		}
		defs = []definition.Definition{*def}
	}

	result := renderAll(path, doc.Config, defs, formatter)
	if formatter.Format == "json" {
		_ = formatter.Success(result)
		return
	}
	writeRenderText(formatter.Writer, result, only != "")
}

// watchFile calls onChange after path is written, created or renamed into
// place. The parent directory is watched so editors that replace the file
// are followed. Bursts of events within debounce trigger one call.
func watchFile(ctx context.Context, path string, debounce time.Duration, logger zerolog.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create file watcher", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to resolve path", err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return WrapExitError(ExitCommandError, "failed to watch path", err)
	}
	logger.Debug().Str("path", target).Msg("watching")

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug().Str("op", event.Op.String()).Msg("file event")

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, onChange)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			logger.Error().Err(err).Msg("file watcher error")
		}
	}
}
