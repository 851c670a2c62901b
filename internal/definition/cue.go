package definition

import (
	stderrors "errors"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/apiquery/internal/query"
	"github.com/roach88/apiquery/internal/queryir"
)

// ParseCUE parses a definition document written in CUE:
//
//	config: base_url: "https://api.example.com"
//	queries: [{
//		name:  "cheesy"
//		model: "pizza"
//		filters: [{key: "topping", in: ["cheese", "beef"]}]
//		params: {format: "basic"}
//	}]
//
// Struct field order is preserved for params.
func ParseCUE(path string, data []byte) (*Document, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, cueLoadError(path, err)
	}

	doc := &Document{}

	if cfgVal := v.LookupPath(cue.ParsePath("config")); cfgVal.Exists() {
		cfg, err := parseCUEConfig(cfgVal)
		if err != nil {
			return nil, cueLoadError(path, err)
		}
		doc.Config = cfg
	}

	queriesVal := v.LookupPath(cue.ParsePath("queries"))
	if !queriesVal.Exists() {
		return nil, &LoadError{Path: path, Message: "queries is required", Pos: v.Pos()}
	}
	iter, err := queriesVal.List()
	if err != nil {
		return nil, cueLoadError(path, err)
	}
	for iter.Next() {
		def, err := parseCUEDefinition(iter.Value())
		if err != nil {
			return nil, cueLoadError(path, err)
		}
		doc.Queries = append(doc.Queries, *def)
	}

	if err := doc.Validate(); err != nil {
		return nil, &LoadError{Path: path, Message: err.Error()}
	}
	return doc, nil
}

func parseCUEConfig(v cue.Value) (query.Config, error) {
	var cfg query.Config
	var err error

	if cfg.BaseURL, err = optionalString(v, "base_url"); err != nil {
		return cfg, err
	}

	names := v.LookupPath(cue.ParsePath("query_parameters"))
	if !names.Exists() {
		return cfg, nil
	}
	iter, err := names.Fields()
	if err != nil {
		return cfg, err
	}
	for iter.Next() {
		wire, err := iter.Value().String()
		if err != nil {
			return cfg, err
		}
		if !cfg.QueryParameters.Set(iter.Label(), wire) {
			return cfg, &fieldError{pos: iter.Value().Pos(), msg: fmt.Sprintf("unknown query parameter %q", iter.Label())}
		}
	}
	return cfg, nil
}

func parseCUEDefinition(v cue.Value) (*Definition, error) {
	def := &Definition{}
	var err error

	if def.Name, err = optionalString(v, "name"); err != nil {
		return nil, err
	}
	if def.Description, err = optionalString(v, "description"); err != nil {
		return nil, err
	}
	if def.Model, err = optionalString(v, "model"); err != nil {
		return nil, err
	}
	if def.Include, err = optionalStrings(v, "include"); err != nil {
		return nil, err
	}
	if def.Append, err = optionalStrings(v, "append"); err != nil {
		return nil, err
	}
	if def.Fields, err = optionalStrings(v, "fields"); err != nil {
		return nil, err
	}
	if def.Filters, err = parseCUEFilters(v.LookupPath(cue.ParsePath("filters"))); err != nil {
		return nil, err
	}
	if def.Sort, err = parseCUESorts(v.LookupPath(cue.ParsePath("sort"))); err != nil {
		return nil, err
	}
	if def.Page, err = optionalInt(v, "page"); err != nil {
		return nil, err
	}
	if def.Limit, err = optionalInt(v, "limit"); err != nil {
		return nil, err
	}
	if def.Params, err = parseCUEParams(v.LookupPath(cue.ParsePath("params"))); err != nil {
		return nil, err
	}
	return def, nil
}

func parseCUEFilters(v cue.Value) ([]Filter, error) {
	if !v.Exists() {
		return nil, nil
	}
	iter, err := v.List()
	if err != nil {
		return nil, err
	}

	var filters []Filter
	for iter.Next() {
		item := iter.Value()
		keyVal := item.LookupPath(cue.ParsePath("key"))
		if !keyVal.Exists() {
			return nil, &fieldError{pos: item.Pos(), msg: "filter key is required"}
		}
		key, err := cueScalar(keyVal)
		if err != nil {
			return nil, err
		}
		if key == nil {
			return nil, &fieldError{pos: keyVal.Pos(), msg: "filter key must not be null"}
		}

		f := Filter{Key: fmt.Sprint(key)}
		if inVal := item.LookupPath(cue.ParsePath("in")); inVal.Exists() {
			f.In = []any{}
			list, err := inVal.List()
			if err != nil {
				return nil, err
			}
			for list.Next() {
				elem, err := cueScalar(list.Value())
				if err != nil {
					return nil, err
				}
				f.In = append(f.In, elem)
			}
		} else if valueVal := item.LookupPath(cue.ParsePath("value")); valueVal.Exists() {
			if f.Value, err = cueScalar(valueVal); err != nil {
				return nil, err
			}
		}
		filters = append(filters, f)
	}
	return filters, nil
}

func parseCUESorts(v cue.Value) (Sorts, error) {
	if !v.Exists() {
		return nil, nil
	}
	if v.Kind() == cue.StringKind {
		s, _ := v.String()
		return append(Sorts{}, queryir.ParseSort(s)...), nil
	}

	iter, err := v.List()
	if err != nil {
		return nil, err
	}
	sorts := Sorts{}
	for iter.Next() {
		item := iter.Value()
		switch item.Kind() {
		case cue.StringKind:
			s, _ := item.String()
			sorts = append(sorts, queryir.ParseSort(s)...)
		case cue.StructKind:
			field, err := optionalString(item, "field")
			if err != nil {
				return nil, err
			}
			if field == "" {
				return nil, &fieldError{pos: item.Pos(), msg: "sort field is required"}
			}
			direction, err := optionalString(item, "direction")
			if err != nil {
				return nil, err
			}
			sorts = append(sorts, queryir.Sort{Field: field, Direction: queryir.Direction(direction)})
		default:
			return nil, &fieldError{pos: item.Pos(), msg: "expected a sort token or struct"}
		}
	}
	return sorts, nil
}

func parseCUEParams(v cue.Value) (Params, error) {
	if !v.Exists() {
		return nil, nil
	}
	iter, err := v.Fields()
	if err != nil {
		return nil, err
	}
	params := Params{}
	for iter.Next() {
		value, err := cueScalar(iter.Value())
		if err != nil {
			return nil, err
		}
		params = append(params, query.Param{Key: iter.Label(), Value: value})
	}
	return params, nil
}

// cueScalar converts a concrete CUE scalar to its Go value. null becomes nil.
func cueScalar(v cue.Value) (any, error) {
	switch v.Kind() {
	case cue.NullKind:
		return nil, nil
	case cue.StringKind:
		s, err := v.String()
		return s, err
	case cue.IntKind:
		n, err := v.Int64()
		return n, err
	case cue.FloatKind:
		f, err := v.Float64()
		return f, err
	default:
		return nil, &fieldError{pos: v.Pos(), msg: fmt.Sprintf("expected a string, number or null, got %v", v.IncompleteKind())}
	}
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	return fv.String()
}

func optionalStrings(v cue.Value, field string) ([]string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	iter, err := fv.List()
	if err != nil {
		return nil, err
	}
	out := []string{}
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func optionalInt(v cue.Value, field string) (*int, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	n, err := fv.Int64()
	if err != nil {
		return nil, err
	}
	i := int(n)
	return &i, nil
}

// fieldError is a structural problem at a CUE position.
type fieldError struct {
	pos token.Pos
	msg string
}

func (e *fieldError) Error() string {
	return e.msg
}

// cueLoadError converts a CUE or field error into a LoadError, keeping the
// position of the first error when CUE reports one.
func cueLoadError(path string, err error) *LoadError {
	var fe *fieldError
	if stderrors.As(err, &fe) {
		return &LoadError{Path: path, Message: fe.msg, Pos: fe.pos}
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Path: path, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Path: path, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
