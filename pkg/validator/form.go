package validator

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/formrules/pkg/async"
	"github.com/dmitrymomot/formrules/pkg/logger"
)

// Form validates a set of fields and aggregates their results. All methods
// are safe for concurrent use. Subscribers and callbacks are invoked without
// the form lock held, so they may call back into the Form.
type Form struct {
	id          string
	log         *slog.Logger
	registry    *Registry
	inputs      Accessor
	store       *Store
	display     func(string) string
	ignore      func(string) bool
	stopOnError bool
	timely      Timely
	debounce    time.Duration
	onValid     func()
	onInvalid   func(ValidationErrors)
	unfollow    func()

	mu          sync.Mutex
	order       []string
	fields      map[string]*fieldEntry
	groupOf     map[string]*Group
	chains      map[string]Chain
	deps        map[string][]string
	errors      map[string]ValidationResult
	pending     map[string]*async.Future[Result]
	handlers    map[int]func(Event)
	nextHandler int
	closed      bool
}

// fieldEntry is the mutable, form-owned state of one field.
type fieldEntry struct {
	spec    FieldSpec
	field   *Field
	seq     uint64
	ignored bool
	matched bool
	last    *ValidationResult
	timer   *time.Timer
}

// New creates a form. Form-scoped rules and messages live in a registry of
// their own that falls through to Global() or the one set with WithRegistry.
// A catalog set with WithCatalog gets a layer between the two, so language
// switches never replace the form's own messages.
func New(opts ...Option) *Form {
	o := defaultFormOptions()
	for _, opt := range opts {
		opt(o)
	}

	parent := o.parent
	if parent == nil {
		parent = Global()
	}
	var (
		unfollow  func()
		followErr error
	)
	if o.catalog != nil {
		layer := NewRegistry(parent)
		unfollow, followErr = layer.Follow(o.catalog)
		parent = layer
	}
	reg := NewRegistry(parent)
	reg.SetMessages(o.messages)

	f := &Form{
		id:          uuid.NewString(),
		registry:    reg,
		display:     o.display,
		ignore:      o.ignore,
		stopOnError: o.stopOnError,
		timely:      o.timely,
		debounce:    o.debounce,
		onValid:     o.onValid,
		onInvalid:   o.onInvalid,
		unfollow:    unfollow,
		fields:      make(map[string]*fieldEntry),
		groupOf:     make(map[string]*Group),
		chains:      make(map[string]Chain),
		deps:        make(map[string][]string),
		errors:      make(map[string]ValidationResult),
		pending:     make(map[string]*async.Future[Result]),
		handlers:    make(map[int]func(Event)),
	}

	log := o.logger
	if log == nil {
		log = logger.Discard()
	}
	f.log = log.With(logger.Component("validator"), logger.FormID(f.id))

	if o.inputs != nil {
		f.inputs = o.inputs
	} else {
		f.store = NewStore(nil)
		f.inputs = f.store
	}

	if followErr != nil {
		f.log.Warn("catalog bundle partially loaded", logger.Error(followErr))
	}

	for _, rd := range o.rules {
		if err := reg.AddRule(rd.name, rd.msg, rd.fn); err != nil {
			f.log.Warn("form rule ignored", logger.Rule(rd.name), logger.Error(err))
		}
	}

	for _, key := range o.fields {
		spec := o.specs[key]
		if strings.TrimSpace(spec.Rule) == "" {
			continue
		}
		f.order = append(f.order, key)
		f.fields[key] = &fieldEntry{spec: spec}
	}

	for _, g := range o.groups {
		for _, key := range g.Fields {
			f.groupOf[key] = g
			if _, ok := f.fields[key]; !ok {
				f.order = append(f.order, key)
				f.fields[key] = &fieldEntry{spec: o.specs[key]}
			}
		}
	}

	return f
}

// ID identifies the form in logs.
func (f *Form) ID() string { return f.id }

// Registry returns the form-scoped registry.
func (f *Form) Registry() *Registry { return f.registry }

// Store returns the form's own input store, or nil when WithInputs was used.
func (f *Form) Store() *Store { return f.store }

// AddRule registers a rule for this form only.
func (f *Form) AddRule(name, msg string, fn RuleFunc) error {
	return f.registry.AddRule(name, msg, fn)
}

// AddGlobalRule registers a rule on the process-wide registry.
func AddGlobalRule(name, msg string, fn RuleFunc) error {
	return Global().AddRule(name, msg, fn)
}

// Fields returns the keys of the verifiable fields in validation order.
func (f *Form) Fields() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.order)
}

// Field returns the compiled form of key.
func (f *Form) Field(key string) (*Field, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.fields[key]
	if !ok {
		return nil, false
	}
	return f.compileLocked(key, entry), true
}

// Compile compiles every field up front instead of on first validation.
func (f *Form) Compile() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range f.order {
		f.compileLocked(key, f.fields[key])
	}
}

// SetField replaces the declaration of key, or removes the field when spec is
// nil. Any pass in flight for key is abandoned.
func (f *Form) SetField(key string, spec *FieldSpec) {
	var flush func()
	func() {
		f.mu.Lock()
		defer f.mu.Unlock()

		r := newRun(context.Background(), false)
		entry, exists := f.fields[key]
		if exists {
			f.resetLocked(r, key, entry)
			f.dropDependentLocked(key)
		}

		if spec == nil || (strings.TrimSpace(spec.Rule) == "" && f.groupOf[key] == nil) {
			if exists {
				delete(f.fields, key)
				delete(f.deps, key)
				f.order = slices.DeleteFunc(f.order, func(k string) bool { return k == key })
				f.log.Debug("field removed", logger.Field(key))
			}
			flush = f.flushLocked(r)
			return
		}

		if !exists {
			entry = &fieldEntry{}
			f.fields[key] = entry
			f.order = append(f.order, key)
		}
		entry.spec = *spec
		entry.field = nil
		entry.matched = false
		flush = f.flushLocked(r)
	}()
	flush()
}

// SetRule is SetField with only a rule string. An empty rule removes the field.
func (f *Form) SetRule(key, rule string) {
	if strings.TrimSpace(rule) == "" {
		f.SetField(key, nil)
		return
	}
	f.SetField(key, &FieldSpec{Rule: rule})
}

// SetIgnored marks key so that passes settle it valid without running rules.
func (f *Form) SetIgnored(key string, ignored bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if entry, ok := f.fields[key]; ok {
		entry.ignored = ignored
	}
}

// ResetField forgets the result of key and abandons any pass in flight for it.
func (f *Form) ResetField(key string) {
	var flush func()
	func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		r := newRun(context.Background(), false)
		if entry, ok := f.fields[key]; ok {
			f.resetLocked(r, key, entry)
		}
		flush = f.flushLocked(r)
	}()
	flush()
}

// ResetForm resets every field.
func (f *Form) ResetForm() {
	var flush func()
	func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		r := newRun(context.Background(), false)
		for _, key := range f.order {
			f.resetLocked(r, key, f.fields[key])
		}
		flush = f.flushLocked(r)
	}()
	flush()
}

// Result returns the latest settlement of key.
func (f *Form) Result(key string) (ValidationResult, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.fields[key]
	if !ok || entry.last == nil {
		return ValidationResult{}, false
	}
	return *entry.last, true
}

// Errors returns the latest failure of every invalid field in field order.
func (f *Form) Errors() ValidationErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out ValidationErrors
	for _, key := range f.order {
		if res, ok := f.errors[key]; ok {
			out.Add(newValidationError(res, f.displayLocked(key)))
		}
	}
	return out
}

// Pending returns the number of asynchronous rule evaluations in flight.
func (f *Form) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// Close stops pending debounced triggers and abandons in-flight passes.
// Validation after Close returns ErrFormClosed.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	if f.unfollow != nil {
		f.unfollow()
	}
	for _, entry := range f.fields {
		if entry.timer != nil {
			entry.timer.Stop()
			entry.timer = nil
		}
		entry.seq++
	}
}

func (f *Form) compileLocked(key string, entry *fieldEntry) *Field {
	if entry.field != nil {
		return entry.field
	}
	chain, ok := f.chains[entry.spec.Rule]
	if !ok {
		chain = Parse(entry.spec.Rule)
		f.chains[entry.spec.Rule] = chain
	}
	entry.field = compileField(key, entry.spec, chain)
	return entry.field
}

// resetLocked clears everything the form knows about key's last passes.
func (f *Form) resetLocked(r *run, key string, entry *fieldEntry) {
	entry.seq++
	entry.last = nil
	if entry.timer != nil {
		entry.timer.Stop()
		entry.timer = nil
	}
	delete(f.errors, key)
	prefix := key + ":"
	for id := range f.pending {
		if strings.HasPrefix(id, prefix) {
			delete(f.pending, id)
		}
	}
	r.emit(Event{Kind: EventFieldReset, Key: key})
}

// dependLocked records that a valid settlement of other revalidates key.
func (f *Form) dependLocked(key, other string) {
	entry, ok := f.fields[key]
	if !ok || entry.matched {
		return
	}
	entry.matched = true
	if target, ok := f.fields[other]; ok {
		target.matched = true
	}
	if !slices.Contains(f.deps[other], key) {
		f.deps[other] = append(f.deps[other], key)
	}
}

func (f *Form) dropDependentLocked(key string) {
	for other, keys := range f.deps {
		f.deps[other] = slices.DeleteFunc(keys, func(k string) bool { return k == key })
		if len(f.deps[other]) == 0 {
			delete(f.deps, other)
		}
	}
}

// displayLocked resolves the {0} name of key.
func (f *Form) displayLocked(key string) string {
	if entry, ok := f.fields[key]; ok {
		if field := f.compileLocked(key, entry); field.Display != "" {
			return field.Display
		}
	}
	if f.display != nil {
		if name := f.display(key); name != "" {
			return name
		}
	}
	return key
}
