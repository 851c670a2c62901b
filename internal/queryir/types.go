package queryir

import (
	"slices"
	"strings"
)

// Direction is the ordering direction of a Sort.
type Direction string

const (
	// Asc sorts ascending. It is also what an empty Direction means.
	Asc Direction = "asc"

	// Desc sorts descending and renders as a "-" prefix on the field.
	Desc Direction = "desc"
)

// Sort is a single sort directive.
type Sort struct {
	Field     string    `json:"field" yaml:"field"`
	Direction Direction `json:"direction,omitempty" yaml:"direction,omitempty"`
}

// Descending reports whether the sort renders with a "-" prefix.
// Anything other than Desc, including the empty value, is ascending.
func (s Sort) Descending() bool {
	return s.Direction == Desc
}

// Token returns the wire form of the sort: "-field" or "field".
func (s Sort) Token() string {
	if s.Descending() {
		return "-" + s.Field
	}
	return s.Field
}

// ParseSort parses a comma separated list of sort tokens such as
// "-name,flavour". Empty tokens are skipped.
func ParseSort(s string) []Sort {
	var sorts []Sort
	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if field, ok := strings.CutPrefix(token, "-"); ok {
			sorts = append(sorts, Sort{Field: field, Direction: Desc})
			continue
		}
		sorts = append(sorts, Sort{Field: strings.TrimPrefix(token, "+"), Direction: Asc})
	}
	return sorts
}

// Pair is a rendered key/value pair. Values are converted to their textual
// form when they enter the intent, so the compiler only deals in strings.
type Pair struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// ParameterNames maps logical query parameters to their wire names.
type ParameterNames struct {
	Filters  string `json:"filters" yaml:"filters"`
	Fields   string `json:"fields" yaml:"fields"`
	Includes string `json:"includes" yaml:"includes"`
	Appends  string `json:"appends" yaml:"appends"`
	Page     string `json:"page" yaml:"page"`
	Limit    string `json:"limit" yaml:"limit"`
	Sort     string `json:"sort" yaml:"sort"`
}

// DefaultParameterNames returns the wire names used when no override is
// configured.
func DefaultParameterNames() ParameterNames {
	return ParameterNames{
		Filters:  "filter",
		Fields:   "fields",
		Includes: "include",
		Appends:  "append",
		Page:     "page",
		Limit:    "limit",
		Sort:     "sort",
	}
}

// Intent is the accumulated query intent for one builder.
type Intent struct {
	Model   string
	BaseURL string

	Include []string
	Append  []string
	Fields  []string

	// Filters hold unique keys in first-insertion order.
	Filters []Pair

	Sorts []Sort

	Page  *int
	Limit *int

	// Params is nil until set. A non-nil empty slice renders nothing.
	Params []Pair

	Names ParameterNames
}

// SetFilter sets key to value, keeping the original position of key when
// it already exists.
func (in *Intent) SetFilter(key, value string) {
	for i := range in.Filters {
		if in.Filters[i].Key == key {
			in.Filters[i].Value = value
			return
		}
	}
	in.Filters = append(in.Filters, Pair{Key: key, Value: value})
}

// Filter returns the value stored for key.
func (in *Intent) Filter(key string) (string, bool) {
	for _, p := range in.Filters {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Clone returns a deep copy of the intent.
func (in Intent) Clone() Intent {
	out := in
	out.Include = slices.Clone(in.Include)
	out.Append = slices.Clone(in.Append)
	out.Fields = slices.Clone(in.Fields)
	out.Filters = slices.Clone(in.Filters)
	out.Sorts = slices.Clone(in.Sorts)
	out.Params = slices.Clone(in.Params)
	if in.Page != nil {
		page := *in.Page
		out.Page = &page
	}
	if in.Limit != nil {
		limit := *in.Limit
		out.Limit = &limit
	}
	return out
}
