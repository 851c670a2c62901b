// Package jsonutil wraps sonic with the one JSON configuration used across
// apiquery: HTML characters are left alone so rendered URLs keep their '&',
// map keys are sorted, and integers decode as int64.
package jsonutil

import (
	"io"

	"github.com/bytedance/sonic"
)

var api = sonic.Config{
	EscapeHTML:       false,
	SortMapKeys:      true,
	CompactMarshaler: true,
	CopyString:       true,
	ValidateString:   true,
	UseInt64:         true,
}.Froze()

// Marshal encodes v as compact JSON.
func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

// MarshalIndent encodes v with the given prefix and indent.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v any) error {
	return api.Unmarshal(data, v)
}

// Encode writes v to w followed by a newline.
func Encode(w io.Writer, v any) error {
	return api.NewEncoder(w).Encode(v)
}

// EncodeIndent writes v to w, indented, followed by a newline.
func EncodeIndent(w io.Writer, v any, indent string) error {
	enc := api.NewEncoder(w)
	enc.SetIndent("", indent)
	return enc.Encode(v)
}

// Decode reads one JSON value from r into v.
func Decode(r io.Reader, v any) error {
	return api.NewDecoder(r).Decode(v)
}
