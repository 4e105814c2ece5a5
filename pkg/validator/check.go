package validator

import (
	"context"
	"log/slog"
)

// Check is the evaluation context handed to a rule. Rules run with the form
// locked, so they must not call back into the Form; use the helpers here.
type Check struct {
	Key  string
	Rule string
	// Value is the current value; sanitizing rules may replace it.
	Value  string
	Input  Input
	Params []string
	Field  *Field

	form *Form
}

// Lookup returns the control state of another field.
func (c *Check) Lookup(key string) (Input, bool) {
	if c.form == nil {
		return Input{}, false
	}
	return lookupInput(c.form.inputs, key)
}

// Display returns the display name of another field.
func (c *Check) Display(key string) string {
	if c.form == nil {
		return key
	}
	return c.form.displayLocked(key)
}

// Message looks up a message template in the form's registry chain.
func (c *Check) Message(key string) (string, bool) {
	return c.registry().Message(key)
}

// SetValue replaces the value seen by later steps of the chain.
func (c *Check) SetValue(v string) {
	c.Value = v
}

// DependOn records that a successful validation of key must revalidate this
// field. Only the first call per field has an effect.
func (c *Check) DependOn(key string) {
	if c.form == nil {
		return
	}
	c.form.dependLocked(c.Key, key)
}

// Test evaluates the first step of rule against this field synchronously.
// A rule that suspends counts as not satisfied.
func (c *Check) Test(ctx context.Context, rule string) bool {
	chain := Parse(rule)
	if len(chain.Steps) == 0 {
		return true
	}
	st := chain.Steps[0]
	fn, ok := c.registry().Lookup(st.Method)
	if !ok {
		return false
	}
	sub := *c
	sub.Rule = st.Method
	sub.Params = st.Params
	res := fn(ctx, &sub)
	if res.Pending() {
		return false
	}
	if st.Negate {
		return !res.Valid()
	}
	return res.Valid()
}

func (c *Check) registry() *Registry {
	if c.form == nil {
		return Global()
	}
	return c.form.registry
}

func (c *Check) logger() *slog.Logger {
	if c.form == nil {
		return slog.Default()
	}
	return c.form.log
}
