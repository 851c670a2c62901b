// Package definition describes queries declaratively so they can be kept in
// YAML or CUE files, stored in the catalog and replayed onto a Builder.
//
// A Definition is a recorded sequence of builder calls rather than a
// complete intent: a field that is absent means "this call was not made",
// which matters when definitions are applied one after another to the same
// reused Builder.
package definition

import (
	"fmt"

	"github.com/roach88/apiquery/internal/query"
	"github.com/roach88/apiquery/internal/queryir"
)

// Document is the top level of a definition file.
type Document struct {
	// Config configures every Builder created for the document.
	Config query.Config `json:"config,omitempty" yaml:"config,omitempty"`

	// Queries are rendered independently, each on a fresh Builder.
	Queries []Definition `json:"queries" yaml:"queries"`
}

// Definition is one declared query.
type Definition struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Model   string   `json:"model,omitempty" yaml:"model,omitempty"`
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`
	Append  []string `json:"append,omitempty" yaml:"append,omitempty"`
	Fields  []string `json:"fields,omitempty" yaml:"fields,omitempty"`
	Filters []Filter `json:"filters,omitempty" yaml:"filters,omitempty"`
	Sort    Sorts    `json:"sort,omitempty" yaml:"sort,omitempty"`
	Page    *int     `json:"page,omitempty" yaml:"page,omitempty"`
	Limit   *int     `json:"limit,omitempty" yaml:"limit,omitempty"`
	Params  Params   `json:"params,omitempty" yaml:"params,omitempty"`
}

// Filter is a Where (Value) or, when In is non-nil, a WhereIn call.
type Filter struct {
	Key   string `json:"key" yaml:"key"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`
	In    []any  `json:"in" yaml:"in,omitempty"`
}

// Sorts is the sort list of a definition.
type Sorts []queryir.Sort

// Params is the ordered free-form parameter list of a definition.
type Params query.OrderedParams

// Apply replays the definition onto b and returns b. Only the calls the
// definition records are made, in the builder's canonical call order.
func (d *Definition) Apply(b *query.Builder) *query.Builder {
	if d.Model != "" {
		b.For(d.Model)
	}
	if d.Include != nil {
		b.Includes(d.Include...)
	}
	if d.Append != nil {
		b.Appends(d.Append...)
	}
	if d.Fields != nil {
		b.Select(d.Fields...)
	}
	for _, f := range d.Filters {
		if f.In != nil {
			b.WhereIn(f.Key, f.In)
			continue
		}
		b.Where(f.Key, f.Value)
	}
	if d.Sort != nil {
		b.Sort(d.Sort...)
	}
	if d.Page != nil {
		b.Page(*d.Page)
	}
	if d.Limit != nil {
		b.Limit(*d.Limit)
	}
	if d.Params != nil {
		b.Params(query.OrderedParams(d.Params))
	}
	return b
}

// Render applies the definition to a fresh Builder built from cfg.
func (d *Definition) Render(cfg query.Config, opts ...query.Option) (string, error) {
	url, err := d.Apply(query.New(cfg, opts...)).Get()
	if err != nil {
		return "", fmt.Errorf("render %q: %w", d.Name, err)
	}
	return url, nil
}

// Find returns the definition named name.
func (doc *Document) Find(name string) (*Definition, bool) {
	for i := range doc.Queries {
		if doc.Queries[i].Name == name {
			return &doc.Queries[i], true
		}
	}
	return nil, false
}

// Validate checks that every definition has a unique, non-empty name.
// It does not render anything; see Definition.Render.
func (doc *Document) Validate() error {
	seen := make(map[string]bool, len(doc.Queries))
	for i, d := range doc.Queries {
		if d.Name == "" {
			return fmt.Errorf("queries[%d]: name is required", i)
		}
		if seen[d.Name] {
			return fmt.Errorf("queries[%d]: duplicate name %q", i, d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}
