package validator

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"sort"
	"sync"

	"github.com/dmitrymomot/formrules/pkg/i18n"
)

// RuleFunc evaluates one rule step against the field described by c.
type RuleFunc func(ctx context.Context, c *Check) Result

// Registry maps rule names to implementations and message keys to templates.
// Lookups fall through to the parent registry, so a form-scoped registry can
// override a global rule or message without touching it.
type Registry struct {
	parent *Registry

	mu       sync.RWMutex
	rules    map[string]RuleFunc
	messages map[string]string
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry, seeded with the built-in rules and
// the English message bundle.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry(nil)
		registerBuiltins(global)
		if err := global.LoadBundle(i18n.Builtin()[i18n.DefaultLanguage]); err != nil {
			panic(fmt.Sprintf("validator: load built-in bundle: %v", err))
		}
	})
	return global
}

// NewRegistry creates an empty registry that defers to parent for anything it
// does not define itself. parent may be nil.
func NewRegistry(parent *Registry) *Registry {
	return &Registry{
		parent:   parent,
		rules:    make(map[string]RuleFunc),
		messages: make(map[string]string),
	}
}

// Parent returns the registry lookups fall through to.
func (r *Registry) Parent() *Registry {
	return r.parent
}

// Register installs fn under name. Registering an existing name replaces it.
func (r *Registry) Register(name string, fn RuleFunc) error {
	if !validRuleName(name) || fn == nil {
		return fmt.Errorf("%w: %q", ErrInvalidRuleName, name)
	}
	r.mu.Lock()
	r.rules[name] = fn
	r.mu.Unlock()
	return nil
}

// AddRule installs fn and, when msg is not empty, its failure message.
func (r *Registry) AddRule(name, msg string, fn RuleFunc) error {
	if err := r.Register(name, fn); err != nil {
		return err
	}
	if msg != "" {
		r.SetMessage(name, msg)
	}
	return nil
}

// RegisterPattern installs a rule that passes when the value matches pattern.
func (r *Registry) RegisterPattern(name, pattern, msg string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return errors.Join(ErrInvalidPattern, fmt.Errorf("rule %q: %w", name, err))
	}
	return r.AddRule(name, msg, func(_ context.Context, c *Check) Result {
		return Bool(re.MatchString(c.Value))
	})
}

// Lookup resolves a rule by name through the registry chain.
func (r *Registry) Lookup(name string) (RuleFunc, bool) {
	for reg := r; reg != nil; reg = reg.parent {
		reg.mu.RLock()
		fn, ok := reg.rules[name]
		reg.mu.RUnlock()
		if ok {
			return fn, true
		}
	}
	return nil, false
}

// SetMessage stores a message template under key, e.g. "range.rg".
func (r *Registry) SetMessage(key, msg string) {
	r.mu.Lock()
	r.messages[key] = msg
	r.mu.Unlock()
}

// SetMessages stores every entry of msgs.
func (r *Registry) SetMessages(msgs map[string]string) {
	r.mu.Lock()
	maps.Copy(r.messages, msgs)
	r.mu.Unlock()
}

// Message resolves a message template by key through the registry chain.
func (r *Registry) Message(key string) (string, bool) {
	for reg := r; reg != nil; reg = reg.parent {
		reg.mu.RLock()
		msg, ok := reg.messages[key]
		reg.mu.RUnlock()
		if ok {
			return msg, true
		}
	}
	return "", false
}

// Rules returns the sorted names of every rule visible through the chain.
func (r *Registry) Rules() []string {
	seen := make(map[string]struct{})
	for reg := r; reg != nil; reg = reg.parent {
		reg.mu.RLock()
		for name := range reg.rules {
			seen[name] = struct{}{}
		}
		reg.mu.RUnlock()
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadBundle installs the messages and declarative rules of b. Rules that fail
// to compile are reported together; the valid ones are still installed.
func (r *Registry) LoadBundle(b *i18n.Bundle) error {
	if b == nil {
		return nil
	}
	r.SetMessages(b.Messages)

	names := make([]string, 0, len(b.Rules))
	for name := range b.Rules {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		def := b.Rules[name]
		var err error
		switch {
		case def.Pattern != "":
			err = r.RegisterPattern(name, def.Pattern, def.Message)
		case def.Expr != "":
			err = r.RegisterExpr(name, def.Expr, def.Message)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Follow keeps the registry in step with the active language of c. It loads
// the current bundle right away and returns a function that stops following.
func (r *Registry) Follow(c *i18n.Catalog) (func(), error) {
	var first error
	loaded := false
	stop := c.OnChange(func(b *i18n.Bundle) {
		err := r.LoadBundle(b)
		if !loaded {
			first = err
			loaded = true
		}
	})
	return stop, first
}

var ruleName = regexp.MustCompile(`^\w+$`)

func validRuleName(name string) bool {
	return ruleName.MatchString(name)
}
