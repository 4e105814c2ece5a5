package validator

import "context"

// checkedRule counts the selected options of a choice control. Without
// parameters at least one option must be selected; checked[a~b] bounds the
// count like range does. Other controls always pass.
func checkedRule(_ context.Context, c *Check) Result {
	if !c.Input.Choice {
		return Pass()
	}
	count := c.Input.Checked
	if len(c.Params) > 0 {
		return checkRange(float64(count), true, c.Params[0], "")
	}
	if count > 0 {
		return Pass()
	}
	if msg, ok := c.Message("required"); ok {
		return FailWith(msg)
	}
	return Fail()
}
