package query

import (
	"fmt"
	"reflect"
	"strconv"
)

// scalarString renders a filter or parameter value. null is true for an
// untyped nil or a nil pointer.
func scalarString(v any) (s string, null bool, err error) {
	if v == nil {
		return "", true, nil
	}
	return scalarValue(reflect.ValueOf(v))
}

func scalarValue(rv reflect.Value) (string, bool, error) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", true, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), false, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), false, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), false, nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), false, nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), false, nil
	default:
		return "", false, fmt.Errorf("expected a string or number, got %s", rv.Type())
	}
}

// keyString renders a filter or parameter key: any string or integer kind.
func keyString(k any) (string, error) {
	if k == nil {
		return "", fmt.Errorf("expected a string or integer key, got nil")
	}
	return keyValue(reflect.ValueOf(k))
}

func keyValue(rv reflect.Value) (string, error) {
	if rv.Kind() == reflect.Interface && !rv.IsNil() {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	default:
		if !rv.IsValid() {
			return "", fmt.Errorf("expected a string or integer key, got nil")
		}
		return "", fmt.Errorf("expected a string or integer key, got %s", rv.Type())
	}
}

// listStrings renders every element of a slice or array. nil elements
// render as empty strings.
func listStrings(values any) ([]string, error) {
	if values == nil {
		return nil, fmt.Errorf("expected a slice of strings or numbers, got nil")
	}

	rv := reflect.ValueOf(values)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected a slice of strings or numbers, got %s", rv.Type())
	}

	out := make([]string, rv.Len())
	for i := range out {
		s, _, err := scalarValue(rv.Index(i))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}
