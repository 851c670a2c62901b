package query

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/roach88/apiquery/internal/queryir"
	"github.com/roach88/apiquery/internal/querystring"
)

// Builder accumulates query intent through chained calls and renders it as
// a URL. Every mutator returns the same Builder.
//
// A Builder can be reused: Get renders from a snapshot and keeps nothing
// rendered. Structural state is NOT cleared by Get. Filters, fieldsets,
// sorts, pagination and params set for one model are still applied after
// For switches to another model. Overwrite them, or call Clear, before
// building an unrelated query.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	intent queryir.Intent

	// err is the first argument error since the last render.
	err error

	logger zerolog.Logger
}

// New creates a Builder. Parameter names are resolved from cfg once, here.
func New(cfg Config, opts ...Option) *Builder {
	b := &Builder{
		intent: queryir.Intent{
			BaseURL: cfg.BaseURL,
			Names:   cfg.QueryParameters.Resolve(),
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// For sets the model (resource collection) the query targets.
func (b *Builder) For(model string) *Builder {
	b.intent.Model = model
	return b
}

// Includes replaces the relations to include. No names clears them.
func (b *Builder) Includes(names ...string) *Builder {
	b.intent.Include = cloneStrings(names)
	return b
}

// Appends replaces the computed attributes to append.
func (b *Builder) Appends(names ...string) *Builder {
	b.intent.Append = cloneStrings(names)
	return b
}

// Select replaces the sparse fieldset of the model. Names may be dotted
// relation paths such as "posts.comments"; they are passed through as-is.
func (b *Builder) Select(names ...string) *Builder {
	b.intent.Fields = cloneStrings(names)
	return b
}

// Where sets filter[key]=value. A nil value (or nil pointer) is a no-op and
// leaves any existing filter for key in place.
func (b *Builder) Where(key, value any) *Builder {
	s, null, err := scalarString(value)
	if err != nil {
		b.fail(queryir.NewInvalidArgumentError("Where", "%v", err))
		return b
	}
	if null {
		return b
	}

	k, err := keyString(key)
	if err != nil {
		b.fail(queryir.NewInvalidArgumentError("Where", "%v", err))
		return b
	}
	b.intent.SetFilter(k, s)
	return b
}

// WhereIn sets filter[key] to the comma-joined values. It always
// overwrites; an empty slice yields an empty value.
func (b *Builder) WhereIn(key, values any) *Builder {
	list, err := listStrings(values)
	if err != nil {
		b.fail(queryir.NewInvalidArgumentError("WhereIn", "%v", err))
		return b
	}

	k, err := keyString(key)
	if err != nil {
		b.fail(queryir.NewInvalidArgumentError("WhereIn", "%v", err))
		return b
	}
	b.intent.SetFilter(k, strings.Join(list, ","))
	return b
}

// Sort replaces the sort directives.
func (b *Builder) Sort(specs ...queryir.Sort) *Builder {
	if specs == nil {
		b.intent.Sorts = nil
		return b
	}
	b.intent.Sorts = append([]queryir.Sort{}, specs...)
	return b
}

// Page sets the page number.
func (b *Builder) Page(n int) *Builder {
	b.intent.Page = &n
	return b
}

// Limit sets the page size.
func (b *Builder) Limit(n int) *Builder {
	b.intent.Limit = &n
	return b
}

// Params replaces the free-form parameters. obj must be a map with string or
// integer keys and scalar values, or an OrderedParams. Any other value is
// recorded as an invalid argument and the previous params are kept.
func (b *Builder) Params(obj any) *Builder {
	pairs, err := paramPairs(obj)
	if err != nil {
		b.fail(queryir.NewInvalidArgumentError("Params", "%v", err))
		return b
	}
	b.intent.Params = pairs
	return b
}

// Get renders the URL. It fails with a precondition error when For was
// never called, or with the first invalid argument recorded since the last
// render. Transient state is reset afterwards whatever the outcome; the
// structural intent is kept as-is.
func (b *Builder) Get() (string, error) {
	defer b.Reset()

	if b.err != nil {
		return "", b.err
	}

	snapshot := b.Snapshot()
	url, err := querystring.Compile(snapshot)
	if err != nil {
		b.logger.Warn().Err(err).Msg("query not rendered")
		return "", err
	}

	b.logger.Debug().Str("model", snapshot.Model).Str("url", url).Msg("rendered query")
	return url, nil
}

// URL is an alias of Get.
func (b *Builder) URL() (string, error) {
	return b.Get()
}

// Reset discards transient render state: the pending argument error.
// Structural intent is untouched.
func (b *Builder) Reset() {
	b.err = nil
}

// Err returns the first invalid argument recorded since the last render.
func (b *Builder) Err() error {
	return b.err
}

// Snapshot returns a deep copy of the current intent.
func (b *Builder) Snapshot() queryir.Intent {
	return b.intent.Clone()
}

// Clear wipes all structural intent, model included, and any pending error.
// The base URL and parameter names configured at construction survive.
// Get never calls Clear.
func (b *Builder) Clear() *Builder {
	b.intent = queryir.Intent{
		BaseURL: b.intent.BaseURL,
		Names:   b.intent.Names,
	}
	b.err = nil
	return b
}

// Asc is a shorthand for an ascending sort on field.
func Asc(field string) queryir.Sort {
	return queryir.Sort{Field: field, Direction: queryir.Asc}
}

// Desc is a shorthand for a descending sort on field.
func Desc(field string) queryir.Sort {
	return queryir.Sort{Field: field, Direction: queryir.Desc}
}

func (b *Builder) fail(err *queryir.Error) {
	b.logger.Warn().Str("op", err.Op).Msg(err.Message)
	if b.err == nil {
		b.err = err
	}
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	cloned := make([]string, len(values))
	copy(cloned, values)
	return cloned
}
