package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/apiquery/internal/query"
	"github.com/roach88/apiquery/internal/queryir"
)

// ParseYAML parses a definition document. Unknown fields are rejected so
// typos such as "filter:" for "filters:" fail loudly.
func ParseYAML(path string, data []byte) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Path: path, Message: "empty document"}
		}
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("parse YAML: %v", err)}
	}
	if err := doc.Validate(); err != nil {
		return nil, &LoadError{Path: path, Message: err.Error()}
	}
	return &doc, nil
}

// UnmarshalYAML accepts a comma separated string ("-name,flavour"), or a
// sequence whose items are sort tokens or {field, direction} mappings.
func (s *Sorts) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = append(Sorts{}, queryir.ParseSort(node.Value)...)
		return nil
	case yaml.SequenceNode:
		sorts := Sorts{}
		for _, item := range node.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				sorts = append(sorts, queryir.ParseSort(item.Value)...)
			case yaml.MappingNode:
				var sort queryir.Sort
				if err := item.Decode(&sort); err != nil {
					return err
				}
				if sort.Field == "" {
					return fmt.Errorf("line %d: sort field is required", item.Line)
				}
				sorts = append(sorts, sort)
			default:
				return fmt.Errorf("line %d: expected a sort token or mapping", item.Line)
			}
		}
		*s = sorts
		return nil
	default:
		return fmt.Errorf("line %d: sort must be a string or a sequence", node.Line)
	}
}

// UnmarshalYAML reads a mapping and keeps the key order of the document. A
// sequence of {key, value} mappings is accepted as well.
func (p *Params) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		params := Params{}
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valueNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: param keys must be scalars", keyNode.Line)
			}
			var value any
			if err := valueNode.Decode(&value); err != nil {
				return err
			}
			params = append(params, query.Param{Key: keyNode.Value, Value: value})
		}
		*p = params
		return nil
	case yaml.SequenceNode:
		var list []query.Param
		if err := node.Decode(&list); err != nil {
			return err
		}
		*p = append(Params{}, list...)
		return nil
	default:
		return fmt.Errorf("line %d: params must be a mapping", node.Line)
	}
}
