package validator

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/formrules/pkg/async"
	"github.com/dmitrymomot/formrules/pkg/logger"
)

// run is one external stimulus: a Validate call, a trigger or a reset. It
// collects what must happen once the form lock is released.
type run struct {
	ctx    context.Context
	silent bool
	join   *async.Join
	groups map[*Group]GroupVerdict

	suspended bool
	failed    bool
	errs      ValidationErrors

	events    []Event
	callbacks []func()
	followups []string
}

func newRun(ctx context.Context, silent bool) *run {
	return &run{
		ctx:    context.WithoutCancel(ctx),
		silent: silent,
		join:   async.NewJoin(),
		groups: make(map[*Group]GroupVerdict),
	}
}

func (r *run) emit(ev Event) {
	if r.silent {
		return
	}
	r.events = append(r.events, ev)
}

func (r *run) call(fn func()) {
	if r.silent || fn == nil {
		return
	}
	r.callbacks = append(r.callbacks, fn)
}

// pass is the execution context of one field within a run. The step cursor
// lives here, never on the shared field state.
type pass struct {
	run   *run
	key   string
	seq   uint64
	entry *fieldEntry
	field *Field
	input Input
	value string
	index int
	state passState

	suspended bool
	result    *ValidationResult
}

// flushLocked detaches the queued notifications of r. The returned function
// must be called after the lock is released.
func (f *Form) flushLocked(r *run) func() {
	events, callbacks, followups := r.events, r.callbacks, r.followups
	r.events, r.callbacks, r.followups = nil, nil, nil
	handlers := f.handlerSnapshotLocked()
	ctx := r.ctx
	return func() {
		for _, ev := range events {
			for _, h := range handlers {
				h(ev)
			}
		}
		for _, cb := range callbacks {
			cb()
		}
		seen := make(map[string]bool, len(followups))
		for _, key := range followups {
			if seen[key] {
				continue
			}
			seen[key] = true
			f.Validate(ctx, key)
		}
	}
}

// startPassLocked begins a pass for key. It returns false when the field is
// not validated at all in this run.
func (f *Form) startPassLocked(r *run, key string) bool {
	entry, ok := f.fields[key]
	if !ok {
		return false
	}
	in, _ := lookupInput(f.inputs, key)
	if in.Disabled {
		return false
	}

	field := f.compileLocked(key, entry)
	entry.seq++
	p := &pass{
		run:   r,
		key:   key,
		seq:   entry.seq,
		entry: entry,
		field: field,
		input: in,
		value: in.Value,
		state: stateIdle,
	}
	p.fire(eventStart)

	if entry.ignored {
		f.settleLocked(p, ValidationResult{Key: key, Valid: true, Skip: true, Value: p.value})
		r.emit(Event{Kind: EventFieldReset, Key: key})
		return true
	}

	if g := f.groupOf[key]; g != nil {
		v := f.groupVerdictLocked(r, g)
		switch v.decision {
		case groupPass:
			if len(field.Steps) == 0 {
				f.settleLocked(p, ValidationResult{Key: key, Valid: true, Rule: "group", Value: p.value})
				return true
			}
		case groupFail:
			msg := v.message
			if msg == "" {
				msg = g.Message
			}
			res := FailWith(msg)
			f.settleLocked(p, ValidationResult{
				Key:     key,
				Rule:    "group",
				Message: f.resolveMessageLocked(p, Step{Method: "group"}, res),
				Value:   p.value,
			})
			return true
		}
	}

	if !field.Required && !field.MustSelect && in.Value == "" && !in.Choice {
		f.settleLocked(p, ValidationResult{Key: key, Valid: true, Value: p.value})
		return true
	}
	if len(field.Steps) == 0 {
		f.settleLocked(p, ValidationResult{Key: key, Valid: true, Value: p.value})
		return true
	}

	f.evaluateLocked(p)
	return true
}

// evaluateLocked runs steps from the cursor until the pass settles or suspends.
func (f *Form) evaluateLocked(p *pass) {
	for {
		step := p.field.Steps[p.index]
		res := f.invokeLocked(p, step)
		if res.Pending() {
			f.suspendLocked(p, step, res.future)
			return
		}
		if !f.advanceLocked(p, res) {
			return
		}
	}
}

func (f *Form) invokeLocked(p *pass, step Step) Result {
	fn, ok := f.registry.Lookup(step.Method)
	if !ok {
		f.log.Warn("unknown rule skipped", logger.Field(p.key), logger.Rule(step.Method))
		return Pass()
	}
	c := &Check{
		Key:    p.key,
		Rule:   step.Method,
		Value:  p.value,
		Input:  p.input,
		Params: step.Params,
		Field:  p.field,
		form:   f,
	}
	res := fn(p.run.ctx, c)
	p.value = c.Value
	if res.Pending() && res.future == nil {
		return Fail()
	}
	return res
}

// advanceLocked applies one step outcome and reports whether the next step
// should be evaluated.
func (f *Form) advanceLocked(p *pass, res Result) bool {
	step := p.field.Steps[p.index]
	n := len(p.field.Steps)
	r := p.run

	if res.Skipped() {
		f.settleLocked(p, ValidationResult{Key: p.key, Valid: true, Rule: step.Method, Skip: true, Value: p.value})
		return false
	}

	valid := res.Valid()
	if step.Negate {
		res.Message = ""
		valid = step.Method == "required" || !valid
	}

	transfer := false
	if step.Or {
		if valid {
			for p.index < n && p.field.Steps[p.index].Or {
				p.index++
			}
		} else {
			transfer = true
		}
	}

	var msg string
	switch {
	case valid:
		msg = res.Message
		r.emit(Event{Kind: EventRuleValid, Key: p.key, Rule: step.Method, Message: msg})
	case !transfer || p.index+1 >= n:
		msg = f.resolveMessageLocked(p, step, res)
		r.emit(Event{Kind: EventRuleInvalid, Key: p.key, Rule: step.Method, Message: msg})
		transfer = false
	}

	if transfer || (valid && p.index < n-1) {
		p.index++
		return true
	}

	f.settleLocked(p, ValidationResult{
		Key:     p.key,
		Valid:   valid,
		Message: msg,
		Rule:    step.Method,
		Value:   p.value,
	})
	return false
}

func (f *Form) suspendLocked(p *pass, step Step, fut *async.Future[Result]) {
	p.fire(eventSuspend)
	p.suspended = true
	p.run.suspended = true
	id := p.key + ":" + step.Method
	f.pending[id] = fut
	if err := p.run.join.Add(1); err != nil {
		f.log.Error("pass joined after settlement", logger.Field(p.key), logger.Error(err))
	}
	f.log.Debug("rule suspended", logger.Field(p.key), logger.Rule(step.Method), logger.Pass(p.seq))
	fut.OnComplete(func(res Result, err error) {
		f.resume(p, id, fut, res, err)
	})
}

// resume continues p once its pending rule settles. A pass superseded by a
// newer one for the same field is dropped.
func (f *Form) resume(p *pass, id string, fut *async.Future[Result], res Result, err error) {
	var (
		flush    func()
		fieldErr error
	)
	func() {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.pending[id] == fut {
			delete(f.pending, id)
		}
		if f.closed || f.fields[p.key] != p.entry || p.entry.seq != p.seq {
			f.log.Debug("stale rule result dropped", logger.Field(p.key), logger.Pass(p.seq))
			// The superseded pass still answers for the field's current state.
			if !f.closed && f.fields[p.key] == p.entry {
				if cur, ok := f.errors[p.key]; ok && !cur.Valid {
					fieldErr = newValidationError(cur, f.displayLocked(p.key))
				}
			}
			return
		}

		if err != nil {
			if msg, ok := async.RejectionMessage(err); ok {
				res = FailWith(msg)
			} else {
				f.log.Warn("async rule failed", logger.Field(p.key), logger.Error(err))
				res = Fail()
			}
		}
		if res.Pending() && res.future == nil {
			res = Fail()
		}

		f.continueLocked(p, res)
		if p.result != nil && !p.result.Valid {
			fieldErr = newValidationError(*p.result, f.displayLocked(p.key))
		}
		flush = f.flushLocked(p.run)
	}()
	if flush != nil {
		flush()
	}
	p.run.join.Done(fieldErr)
}

// continueLocked resumes evaluation. A panicking rule cannot reach a caller
// from here, so it settles the field invalid instead.
func (f *Form) continueLocked(p *pass, res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			f.log.Error("rule panicked", logger.Field(p.key), logger.Error(fmt.Errorf("%v", rec)))
			if p.state == stateRunning {
				f.settleLocked(p, ValidationResult{Key: p.key, Rule: p.field.Steps[p.index].Method, Value: p.value})
			}
		}
	}()

	p.fire(eventResume)
	if res.Pending() {
		f.suspendLocked(p, p.field.Steps[p.index], res.future)
		return
	}
	if f.advanceLocked(p, res) {
		f.evaluateLocked(p)
	}
}

func (f *Form) settleLocked(p *pass, res ValidationResult) {
	p.fire(eventSettle)
	p.result = &res
	p.entry.last = &res
	r := p.run

	if res.Valid {
		delete(f.errors, p.key)
	} else {
		f.errors[p.key] = res
	}

	kind := EventFieldInvalid
	cb := p.field.spec.OnInvalid
	if res.Valid {
		kind = EventFieldValid
		cb = p.field.spec.OnValid
		if !r.silent {
			r.followups = append(r.followups, f.deps[p.key]...)
		}
	}
	r.emit(Event{Kind: kind, Key: p.key, Rule: res.Rule, Message: res.Message, Result: &res})
	if cb != nil {
		r.call(func() { cb(res) })
	}

	if !res.Valid && !p.suspended {
		ve := newValidationError(res, f.displayLocked(p.key))
		r.failed = true
		r.errs.Add(ve)
		r.join.Fail(ve)
	}

	f.log.Debug("field settled",
		logger.Field(p.key),
		logger.Rule(res.Rule),
		logger.Valid(res.Valid),
		logger.Pass(p.seq),
	)
}
