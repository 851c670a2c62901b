// Package querystring compiles a queryir.Intent into a JSON:API-style URL.
//
// Output grammar:
//
//	[base_url]/model[?segment(&segment)*]
//
// Segments are written by a fixed sequence of emitters: includes, appends,
// fields, filters, sorts, page, limit, params. The order does not depend on
// the order in which the builder was called and is part of the output
// contract; callers compare URLs as strings.
//
// Values are written raw. No percent-encoding is applied to keys or values,
// so the result is a template for an HTTP layer rather than an escaped URI.
package querystring

import (
	"strconv"
	"strings"

	"github.com/roach88/apiquery/internal/queryir"
)

// emitter appends the segments for one section of the intent.
type emitter func(w *segmentWriter, in *queryir.Intent)

// emitters run in this exact order for every compile.
var emitters = []emitter{
	emitIncludes,
	emitAppends,
	emitFields,
	emitFilters,
	emitSorts,
	emitPage,
	emitLimit,
	emitParams,
}

// Compile renders the intent as base URL, path and query string.
// Returns a precondition error when the intent has no model.
func Compile(in queryir.Intent) (string, error) {
	path, err := CompilePath(in)
	if err != nil {
		return "", err
	}
	if in.BaseURL == "" {
		return path, nil
	}
	return in.BaseURL + path, nil
}

// CompilePath renders "/model?..." without the base URL.
func CompilePath(in queryir.Intent) (string, error) {
	if err := queryir.Validate(in); err != nil {
		return "", err
	}

	w := newSegmentWriter("/" + in.Model)
	for _, emit := range emitters {
		emit(w, &in)
	}
	return w.String(), nil
}

func emitIncludes(w *segmentWriter, in *queryir.Intent) {
	if len(in.Include) == 0 {
		return
	}
	w.add(in.Names.Includes, strings.Join(in.Include, ","))
}

func emitAppends(w *segmentWriter, in *queryir.Intent) {
	if len(in.Append) == 0 {
		return
	}
	w.add(in.Names.Appends, strings.Join(in.Append, ","))
}

// emitFields writes the sparse fieldset keyed by model: fields[pizza]=a,b
func emitFields(w *segmentWriter, in *queryir.Intent) {
	if len(in.Fields) == 0 {
		return
	}
	w.add(nestedKey(in.Names.Fields, in.Model), strings.Join(in.Fields, ","))
}

// emitFilters writes one filter[key]=value segment per filter.
func emitFilters(w *segmentWriter, in *queryir.Intent) {
	for _, f := range in.Filters {
		w.add(nestedKey(in.Names.Filters, f.Key), f.Value)
	}
}

func emitSorts(w *segmentWriter, in *queryir.Intent) {
	if len(in.Sorts) == 0 {
		return
	}
	tokens := make([]string, len(in.Sorts))
	for i, s := range in.Sorts {
		tokens[i] = s.Token()
	}
	w.add(in.Names.Sort, strings.Join(tokens, ","))
}

func emitPage(w *segmentWriter, in *queryir.Intent) {
	if in.Page == nil {
		return
	}
	w.add(in.Names.Page, strconv.Itoa(*in.Page))
}

func emitLimit(w *segmentWriter, in *queryir.Intent) {
	if in.Limit == nil {
		return
	}
	w.add(in.Names.Limit, strconv.Itoa(*in.Limit))
}

// emitParams writes free-form parameters unprefixed, in stored order.
func emitParams(w *segmentWriter, in *queryir.Intent) {
	for _, p := range in.Params {
		w.add(p.Key, p.Value)
	}
}

// nestedKey builds a bracket-nested key such as filter[name].
func nestedKey(name, sub string) string {
	return name + "[" + sub + "]"
}
