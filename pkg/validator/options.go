package validator

import (
	"log/slog"
	"sort"
	"time"

	"github.com/dmitrymomot/formrules/pkg/i18n"
)

// DefaultDebounce is the delay applied to keystroke triggers.
const DefaultDebounce = 500 * time.Millisecond

// Option configures a Form.
type Option func(*formOptions)

type ruleDef struct {
	name string
	msg  string
	fn   RuleFunc
}

type formOptions struct {
	fields      []string
	specs       map[string]FieldSpec
	rules       []ruleDef
	messages    map[string]string
	groups      []*Group
	stopOnError bool
	timely      Timely
	debounce    time.Duration
	ignore      func(key string) bool
	display     func(key string) string
	inputs      Accessor
	logger      *slog.Logger
	parent      *Registry
	catalog     *i18n.Catalog
	onValid     func()
	onInvalid   func(ValidationErrors)
}

func defaultFormOptions() *formOptions {
	return &formOptions{
		specs:    make(map[string]FieldSpec),
		messages: make(map[string]string),
		timely:   TimelyOnBlur,
		debounce: DefaultDebounce,
	}
}

func (o *formOptions) addField(key string, spec FieldSpec) {
	if _, ok := o.specs[key]; !ok {
		o.fields = append(o.fields, key)
	}
	o.specs[key] = spec
}

// WithFields declares fields from key -> rule string, in key order.
func WithFields(rules map[string]string) Option {
	return func(o *formOptions) {
		keys := make([]string, 0, len(rules))
		for k := range rules {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			o.addField(k, FieldSpec{Rule: rules[k]})
		}
	}
}

// WithField declares one field. Fields keep the order they are declared in.
func WithField(key string, spec FieldSpec) Option {
	return func(o *formOptions) {
		o.addField(key, spec)
	}
}

// WithRule registers a rule visible only to this form.
func WithRule(name, msg string, fn RuleFunc) Option {
	return func(o *formOptions) {
		o.rules = append(o.rules, ruleDef{name: name, msg: msg, fn: fn})
	}
}

// WithRules registers several form-scoped rules without messages.
func WithRules(rules map[string]RuleFunc) Option {
	return func(o *formOptions) {
		names := make([]string, 0, len(rules))
		for name := range rules {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			o.rules = append(o.rules, ruleDef{name: name, fn: rules[name]})
		}
	}
}

// WithMessages overrides message templates for this form only.
func WithMessages(msgs map[string]string) Option {
	return func(o *formOptions) {
		for k, v := range msgs {
			o.messages[k] = v
		}
	}
}

// WithGroup adds a group. A group without fields or callback is ignored.
func WithGroup(g Group) Option {
	return func(o *formOptions) {
		if !g.usable() {
			return
		}
		o.groups = append(o.groups, &g)
	}
}

// WithStopOnError halts a full-form pass at the first synchronous failure.
func WithStopOnError(stop bool) Option {
	return func(o *formOptions) {
		o.stopOnError = stop
	}
}

func WithTimely(t Timely) Option {
	return func(o *formOptions) {
		o.timely = t
	}
}

// WithDebounce sets the keystroke trigger delay. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(o *formOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithIgnore excludes matching keys from every pass.
func WithIgnore(fn func(key string) bool) Option {
	return func(o *formOptions) {
		o.ignore = fn
	}
}

// WithDisplay resolves display names for fields that do not declare one.
func WithDisplay(fn func(key string) string) Option {
	return func(o *formOptions) {
		o.display = fn
	}
}

// WithInputs sets where field values are read from. By default the form owns
// an empty Store, reachable through Form.Store.
func WithInputs(a Accessor) Option {
	return func(o *formOptions) {
		o.inputs = a
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *formOptions) {
		o.logger = l
	}
}

// WithRegistry sets the registry the form's own registry falls through to.
// The default is Global().
func WithRegistry(parent *Registry) Option {
	return func(o *formOptions) {
		o.parent = parent
	}
}

// WithCatalog keeps the form's messages and declarative rules in step with
// the active language of c until the form is closed.
func WithCatalog(c *i18n.Catalog) Option {
	return func(o *formOptions) {
		o.catalog = c
	}
}

// WithConfig applies the pass settings of cfg.
func WithConfig(cfg Config) Option {
	return func(o *formOptions) {
		o.stopOnError = cfg.StopOnError
		o.timely = cfg.Timely
		if cfg.Debounce > 0 {
			o.debounce = cfg.Debounce
		}
	}
}

// OnValid is called after a non-silent pass in which every field is valid.
func OnValid(fn func()) Option {
	return func(o *formOptions) {
		o.onValid = fn
	}
}

// OnInvalid is called with the failures of a non-silent pass.
func OnInvalid(fn func(ValidationErrors)) Option {
	return func(o *formOptions) {
		o.onInvalid = fn
	}
}
