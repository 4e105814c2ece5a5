package validator

import (
	"context"

	"github.com/dmitrymomot/formrules/pkg/async"
)

// Verdict is the outcome of a pass over one or more fields. It is settled
// right away unless an asynchronous rule was started, in which case it settles
// once every outstanding rule across every field has resolved.
type Verdict struct {
	future *async.Future[struct{}]
	valid  bool
	errs   ValidationErrors
	err    error
}

// Async reports whether the verdict depends on asynchronous rules.
func (v Verdict) Async() bool { return v.future != nil }

// Pending reports whether the verdict is still waiting for asynchronous rules.
func (v Verdict) Pending() bool { return v.future != nil && !v.future.IsComplete() }

// Valid reports whether every field settled valid. A pending verdict is not valid.
func (v Verdict) Valid() bool {
	if v.err != nil {
		return false
	}
	if v.future == nil {
		return v.valid
	}
	if !v.future.IsComplete() {
		return false
	}
	_, err := v.future.Await()
	return err == nil
}

// Wait blocks until the verdict settles or ctx is done. It returns nil when
// every field is valid, the ValidationErrors of the failing fields otherwise.
func (v Verdict) Wait(ctx context.Context) error {
	if v.err != nil {
		return v.err
	}
	if v.future == nil {
		if v.valid {
			return nil
		}
		return v.errs
	}
	_, err := v.future.AwaitContext(ctx)
	if err == nil {
		return nil
	}
	if errs := ExtractValidationErrors(err); len(errs) > 0 {
		return errs
	}
	return err
}

// Errors returns the failures known so far.
func (v Verdict) Errors() ValidationErrors {
	if v.future == nil {
		return v.errs
	}
	if !v.future.IsComplete() {
		return nil
	}
	_, err := v.future.Await()
	return ExtractValidationErrors(err)
}

// Future exposes the underlying aggregate, or nil for a synchronous verdict.
func (v Verdict) Future() *async.Future[struct{}] { return v.future }

// Validate runs a pass over keys, or over every field when none are given.
func (f *Form) Validate(ctx context.Context, keys ...string) Verdict {
	return f.validate(ctx, keys, false)
}

// IsValid runs the same pass as Validate without emitting events, invoking
// callbacks or revalidating dependent fields.
func (f *Form) IsValid(ctx context.Context, keys ...string) Verdict {
	return f.validate(ctx, keys, true)
}

func (f *Form) validate(ctx context.Context, keys []string, silent bool) Verdict {
	r := newRun(ctx, silent)
	var (
		flush     func()
		suspended bool
		failed    bool
		errs      ValidationErrors
	)
	closed := func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.closed {
			return true
		}
		targets := keys
		if len(targets) == 0 {
			targets = append([]string(nil), f.order...)
		}
		for _, key := range targets {
			if f.ignore != nil && f.ignore(key) {
				continue
			}
			f.startPassLocked(r, key)
			if f.stopOnError && r.failed {
				break
			}
		}
		r.join.Seal()
		suspended, failed, errs = r.suspended, r.failed, r.errs
		flush = f.flushLocked(r)
		return false
	}()
	if closed {
		return Verdict{err: ErrFormClosed}
	}
	flush()

	if !suspended {
		if !silent {
			f.notifyForm(errs)
		}
		return Verdict{valid: !failed, errs: errs}
	}

	fut := r.join.Future()
	if !silent {
		fut.OnComplete(func(_ struct{}, err error) {
			f.notifyForm(ExtractValidationErrors(err))
		})
	}
	return Verdict{future: fut}
}

func (f *Form) notifyForm(errs ValidationErrors) {
	if len(errs) == 0 {
		if f.onValid != nil {
			f.onValid()
		}
		return
	}
	if f.onInvalid != nil {
		f.onInvalid(errs)
	}
}
