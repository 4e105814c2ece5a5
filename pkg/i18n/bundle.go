package i18n

import (
	"fmt"
	"maps"
	"sort"
	"strings"
)

// RuleDef declares a rule inside a bundle without any executable code: either
// a regular expression the value must match or a boolean expression evaluated
// by the validation engine.
type RuleDef struct {
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Expr    string `json:"expr,omitempty" yaml:"expr,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Bundle is the resource set for one language: flattened message templates
// keyed by dotted names ("range.rg", "integer.+") and declarative rules.
type Bundle struct {
	Lang     string
	Messages map[string]string
	Rules    map[string]RuleDef
}

// NewBundle creates an empty bundle for lang.
func NewBundle(lang string) *Bundle {
	return &Bundle{
		Lang:     lang,
		Messages: make(map[string]string),
		Rules:    make(map[string]RuleDef),
	}
}

// Message returns the template stored under key.
func (b *Bundle) Message(key string) (string, bool) {
	if b == nil {
		return "", false
	}
	msg, ok := b.Messages[key]
	return msg, ok
}

// Keys returns every message key in sorted order.
func (b *Bundle) Keys() []string {
	keys := make([]string, 0, len(b.Messages))
	for k := range b.Messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge copies other's messages and rules over b's.
func (b *Bundle) Merge(other *Bundle) {
	if other == nil {
		return
	}
	maps.Copy(b.Messages, other.Messages)
	maps.Copy(b.Rules, other.Rules)
}

// Clone returns a deep copy of b.
func (b *Bundle) Clone() *Bundle {
	c := NewBundle(b.Lang)
	c.Merge(b)
	return c
}

// flatten turns nested message maps into dotted keys:
// {"range": {"rg": "..."}} becomes {"range.rg": "..."}.
func flatten(prefix string, in map[string]any, out map[string]string) error {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		case map[any]any:
			converted := make(map[string]any, len(val))
			for mk, mv := range val {
				converted[fmt.Sprint(mk)] = mv
			}
			if err := flatten(key, converted, out); err != nil {
				return err
			}
		case nil:
			// empty entries are skipped
		case []any:
			return fmt.Errorf("%w: message %q is a list", ErrInvalidBundle, key)
		default:
			out[key] = fmt.Sprint(val)
		}
	}
	return nil
}

// rawBundle is the on-disk shape of one language section.
type rawBundle struct {
	Messages map[string]any     `json:"messages" yaml:"messages"`
	Rules    map[string]RuleDef `json:"rules" yaml:"rules"`
}

func (r rawBundle) build(lang string) (*Bundle, error) {
	b := NewBundle(lang)
	if err := flatten("", r.Messages, b.Messages); err != nil {
		return nil, err
	}
	for name, def := range r.Rules {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: empty rule name", ErrInvalidBundle)
		}
		if def.Pattern == "" && def.Expr == "" {
			return nil, fmt.Errorf("%w: rule %q has neither pattern nor expr", ErrInvalidBundle, name)
		}
		b.Rules[name] = def
	}
	return b, nil
}
