package query

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/roach88/apiquery/internal/queryir"
)

// Param is one free-form query parameter.
type Param struct {
	Key   string `json:"key" yaml:"key"`
	Value any    `json:"value" yaml:"value"`
}

// OrderedParams is a list of free-form parameters emitted in the given order.
// Use it instead of a map when the parameter order on the wire matters.
type OrderedParams []Param

// paramPairs converts the argument of Builder.Params into rendered pairs.
//
// Accepted shapes:
//   - OrderedParams, emitted in slice order
//   - any map with string or integer keys and scalar (or nil) values,
//     emitted in ascending key order
//
// A nil value renders as an empty value ("key=").
func paramPairs(obj any) ([]queryir.Pair, error) {
	switch p := obj.(type) {
	case nil:
		return nil, fmt.Errorf("expected a key-value mapping, got nil")
	case OrderedParams:
		return orderedPairs(p)
	case []Param:
		return orderedPairs(p)
	}

	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Map {
		return nil, fmt.Errorf("expected a key-value mapping, got %T", obj)
	}

	pairs := make([]queryir.Pair, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, err := keyValue(iter.Key())
		if err != nil {
			return nil, err
		}
		value, _, err := scalarValue(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", key, err)
		}
		pairs = append(pairs, queryir.Pair{Key: key, Value: value})
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Key < pairs[j].Key
	})
	return pairs, nil
}

func orderedPairs(params []Param) ([]queryir.Pair, error) {
	pairs := make([]queryir.Pair, 0, len(params))
	for _, p := range params {
		value, _, err := scalarString(p.Value)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", p.Key, err)
		}
		pairs = append(pairs, queryir.Pair{Key: p.Key, Value: value})
	}
	return pairs, nil
}
