package query

import "github.com/roach88/apiquery/internal/queryir"

// Config is the construction-time configuration of a Builder. It is read
// once by New and never consulted again.
type Config struct {
	// BaseURL is prepended to every rendered path, e.g. "https://api.example.com".
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// QueryParameters overrides the wire names of the logical parameters.
	QueryParameters ParameterOverrides `json:"query_parameters,omitempty" yaml:"query_parameters,omitempty"`
}

// ParameterOverrides holds optional wire names for the logical query
// parameters. Empty fields fall back to queryir.DefaultParameterNames.
type ParameterOverrides struct {
	Filters  string `json:"filters,omitempty" yaml:"filters,omitempty"`
	Fields   string `json:"fields,omitempty" yaml:"fields,omitempty"`
	Includes string `json:"includes,omitempty" yaml:"includes,omitempty"`
	Appends  string `json:"appends,omitempty" yaml:"appends,omitempty"`
	Page     string `json:"page,omitempty" yaml:"page,omitempty"`
	Limit    string `json:"limit,omitempty" yaml:"limit,omitempty"`
	Sort     string `json:"sort,omitempty" yaml:"sort,omitempty"`
}

// Resolve merges the overrides over the default table.
func (o ParameterOverrides) Resolve() queryir.ParameterNames {
	names := queryir.DefaultParameterNames()
	override(&names.Filters, o.Filters)
	override(&names.Fields, o.Fields)
	override(&names.Includes, o.Includes)
	override(&names.Appends, o.Appends)
	override(&names.Page, o.Page)
	override(&names.Limit, o.Limit)
	override(&names.Sort, o.Sort)
	return names
}

// Set assigns the wire name for a logical parameter. Logical names are the
// ParameterOverrides field names in lower case ("filters", "includes", ...).
// Returns false for an unknown logical name.
func (o *ParameterOverrides) Set(logical, wire string) bool {
	switch logical {
	case "filters":
		o.Filters = wire
	case "fields":
		o.Fields = wire
	case "includes":
		o.Includes = wire
	case "appends":
		o.Appends = wire
	case "page":
		o.Page = wire
	case "limit":
		o.Limit = wire
	case "sort":
		o.Sort = wire
	default:
		return false
	}
	return true
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
