package validator

import (
	"github.com/dmitrymomot/formrules/pkg/async"
)

type outcome uint8

const (
	outcomePass outcome = iota
	outcomeFail
	outcomeSkip
	outcomePending
)

// Result is what a rule returns for one evaluation. The zero value is a pass.
type Result struct {
	state outcome

	// Message is a message proposed by the rule itself. For a failure it is
	// used when neither the field nor the control carries one.
	Message string
	// Variants name message sub-keys to try, most specific first, e.g. "rg".
	Variants []string
	// Args fill the {1}..{n} placeholders of the resolved message.
	Args []string

	future *async.Future[Result]
}

// Pass reports a satisfied rule.
func Pass() Result { return Result{} }

// PassWith reports a satisfied rule carrying an informational message.
func PassWith(msg string) Result { return Result{Message: msg} }

// Fail reports a violated rule; the message comes from the registry.
func Fail() Result { return Result{state: outcomeFail} }

// FailWith reports a violated rule with its own message.
func FailWith(msg string) Result { return Result{state: outcomeFail, Message: msg} }

// Skip settles the field as valid and stops the chain without a message.
func Skip() Result { return Result{state: outcomeSkip} }

// Bool converts a predicate outcome into a Result.
func Bool(ok bool) Result {
	if ok {
		return Pass()
	}
	return Fail()
}

// Await suspends the field until f settles. A resolved value is processed as
// if the rule had returned it synchronously. A rejection carrying an
// async.Rejection becomes a failure with that message; any other error is a
// failure with no message.
func Await(f *async.Future[Result]) Result {
	return Result{state: outcomePending, future: f}
}

// WithVariant sets the message sub-keys to try.
func (r Result) WithVariant(variants ...string) Result {
	r.Variants = variants
	return r
}

// WithArgs sets the values for the {1}..{n} placeholders.
func (r Result) WithArgs(args ...string) Result {
	r.Args = args
	return r
}

func (r Result) Valid() bool   { return r.state == outcomePass || r.state == outcomeSkip }
func (r Result) Skipped() bool { return r.state == outcomeSkip }
func (r Result) Pending() bool { return r.state == outcomePending }

// Future returns the pending operation of an Await result, or nil.
func (r Result) Future() *async.Future[Result] { return r.future }
