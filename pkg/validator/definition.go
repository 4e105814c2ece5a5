package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Definition is a form declared as data, as loaded by the CLI and the HTTP
// server. Fields keep the order they are written in.
//
//	stop_on_error: true
//	messages:
//	  required: "Please fill in {0}."
//	fields:
//	  email: "Email: required; email"
//	  password:
//	    rule: "Password: required; length[8~]"
//	    messages:
//	      length: "Use at least 8 characters."
type Definition struct {
	Fields      FieldList         `json:"fields" yaml:"fields"`
	Messages    map[string]string `json:"messages,omitempty" yaml:"messages,omitempty"`
	StopOnError bool              `json:"stop_on_error,omitempty" yaml:"stop_on_error,omitempty"`
}

// NamedField is a field declaration together with its key.
type NamedField struct {
	Key string
	FieldSpec
}

// FieldList is an ordered set of field declarations. It decodes from a
// mapping whose values are either a rule string or a FieldSpec.
type FieldList []NamedField

// UnmarshalYAML keeps the mapping order of the document.
func (l *FieldList) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: fields must be a mapping (line %d)", ErrInvalidDefinition, n.Line)
	}
	out := make(FieldList, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, n.Content[i+1]
		var spec FieldSpec
		switch val.Kind {
		case yaml.ScalarNode:
			spec.Rule = val.Value
		case yaml.MappingNode:
			if err := val.Decode(&spec); err != nil {
				return errors.Join(ErrInvalidDefinition, fmt.Errorf("field %q: %w", key, err))
			}
		default:
			return fmt.Errorf("%w: field %q must be a rule or a mapping (line %d)", ErrInvalidDefinition, key, val.Line)
		}
		out = append(out, NamedField{Key: key, FieldSpec: spec})
	}
	*l = out
	return nil
}

// UnmarshalJSON accepts the same shapes. JSON objects carry no order, so
// fields are sorted by key.
func (l *FieldList) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return errors.Join(ErrInvalidDefinition, err)
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(FieldList, 0, len(keys))
	for _, k := range keys {
		var spec FieldSpec
		if err := json.Unmarshal(raw[k], &spec.Rule); err != nil {
			spec = FieldSpec{}
			if err := json.Unmarshal(raw[k], &spec); err != nil {
				return errors.Join(ErrInvalidDefinition, fmt.Errorf("field %q: %w", k, err))
			}
		}
		out = append(out, NamedField{Key: k, FieldSpec: spec})
	}
	*l = out
	return nil
}

// Lookup returns the declaration of key.
func (l FieldList) Lookup(key string) (FieldSpec, bool) {
	for _, f := range l {
		if f.Key == key {
			return f.FieldSpec, true
		}
	}
	return FieldSpec{}, false
}

// Keys returns the field keys in declaration order.
func (l FieldList) Keys() []string {
	keys := make([]string, len(l))
	for i, f := range l {
		keys[i] = f.Key
	}
	return keys
}

// Options converts the definition into form options.
func (d Definition) Options() []Option {
	opts := make([]Option, 0, len(d.Fields)+2)
	for _, f := range d.Fields {
		opts = append(opts, WithField(f.Key, f.FieldSpec))
	}
	if len(d.Messages) > 0 {
		opts = append(opts, WithMessages(d.Messages))
	}
	if d.StopOnError {
		opts = append(opts, WithStopOnError(true))
	}
	return opts
}

// ParseDefinition decodes a YAML (or JSON) form definition.
func ParseDefinition(data []byte) (Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(data, &d); err != nil {
		if errors.Is(err, ErrInvalidDefinition) {
			return Definition{}, err
		}
		return Definition{}, errors.Join(ErrInvalidDefinition, err)
	}
	return d, nil
}

// LoadDefinition reads a form definition from path.
func LoadDefinition(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, errors.Join(ErrInvalidDefinition, err)
	}
	return ParseDefinition(data)
}
