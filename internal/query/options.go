package query

import "github.com/rs/zerolog"

// Option configures optional collaborators of a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for render and argument diagnostics.
// Renders are logged at debug level, rejected arguments at warn.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}
