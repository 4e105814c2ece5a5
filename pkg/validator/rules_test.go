package validator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formrules/pkg/validator"
)

func evalRule(t *testing.T, name, value string, params ...string) validator.Result {
	t.Helper()
	fn, ok := validator.Global().Lookup(name)
	require.True(t, ok, "rule %s not registered", name)
	return fn(context.Background(), &validator.Check{Key: "field", Rule: name, Value: value, Params: params})
}

func TestBuiltinsRegistered(t *testing.T) {
	t.Parallel()
	for _, name := range validator.Builtins {
		_, ok := validator.Global().Lookup(name)
		assert.True(t, ok, name)
	}
}

func TestRequiredRule(t *testing.T) {
	t.Parallel()

	assert.False(t, evalRule(t, "required", "").Valid())
	assert.False(t, evalRule(t, "required", "   ").Valid())
	assert.True(t, evalRule(t, "required", "x").Valid())

	t.Run("not values count as blank", func(t *testing.T) {
		assert.False(t, evalRule(t, "required", "-1", "not", "-1", "none").Valid())
		assert.False(t, evalRule(t, "required", "none", "not", "-1", "none").Valid())
		assert.True(t, evalRule(t, "required", "3", "not", "-1").Valid())
	})

	t.Run("conditional", func(t *testing.T) {
		// digits holds for a blank value, so the field is required
		assert.False(t, evalRule(t, "required", "", "digits").Valid())
		// integer does not hold for a blank value, so requirement is skipped
		res := evalRule(t, "required", "", "integer")
		assert.True(t, res.Valid())
		assert.True(t, res.Skipped())
	})
}

func TestDigitsRule(t *testing.T) {
	t.Parallel()
	for _, v := range []string{"", "12", " 12 ", "-3.5", "1e3", "Infinity", "-Infinity"} {
		assert.True(t, evalRule(t, "digits", v).Valid(), v)
	}
	for _, v := range []string{"abc", "12a", "1,5", "NaN", "nan", "Inf", "-inf", "infinity", "1e999"} {
		assert.False(t, evalRule(t, "digits", v).Valid(), v)
	}
}

func TestIntegerRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		param  string
		accept []string
		reject []string
	}{
		{param: "+", accept: []string{"1", "42", "999999"}, reject: []string{"0", "-1", "1.5", "", "01"}},
		{param: "+0", accept: []string{"0", "1", "999999"}, reject: []string{"-1", "1.5", ""}},
		{param: "-", accept: []string{"-1", "-20"}, reject: []string{"0", "1", "-0"}},
		{param: "-0", accept: []string{"0", "-7"}, reject: []string{"3"}},
		{param: "", accept: []string{"-5", "0", "7"}, reject: []string{"1.5", "x", ""}},
	}
	for _, tt := range tests {
		t.Run("integer["+tt.param+"]", func(t *testing.T) {
			var params []string
			if tt.param != "" {
				params = []string{tt.param}
			}
			for _, v := range tt.accept {
				assert.True(t, evalRule(t, "integer", v, params...).Valid(), v)
			}
			for _, v := range tt.reject {
				res := evalRule(t, "integer", v, params...)
				assert.False(t, res.Valid(), v)
			}
		})
	}

	res := evalRule(t, "integer", "0", "+")
	assert.Equal(t, []string{"+"}, res.Variants)
}

func TestFloatRule(t *testing.T) {
	t.Parallel()
	assert.True(t, evalRule(t, "float", "1.5").Valid())
	assert.True(t, evalRule(t, "float", "-2").Valid())
	assert.False(t, evalRule(t, "float", "1.").Valid())
	assert.True(t, evalRule(t, "float", "0.5", "+").Valid())
	assert.False(t, evalRule(t, "float", "0", "+").Valid())
	assert.True(t, evalRule(t, "float", "0", "+0").Valid())
	assert.True(t, evalRule(t, "float", "-0.5", "-").Valid())
	assert.True(t, evalRule(t, "float", "0.0", "-0").Valid())
	assert.False(t, evalRule(t, "float", "2", "-0").Valid())
}

func TestRangeRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		param   string
		valid   bool
		variant string
		args    []string
	}{
		{value: "50", param: "0~99", valid: true},
		{value: "100", param: "0~99", variant: "rg", args: []string{"0", "99"}},
		{value: "150", param: "~99", variant: "lte", args: []string{"99"}},
		{value: "-1", param: "0~", variant: "gte", args: []string{"0"}},
		{value: "5", param: "5", valid: true},
		{value: "6", param: "5", variant: "eq", args: []string{"5"}},
		{value: "abc", param: "0~99", variant: "rg", args: []string{"0", "99"}},
		{value: "1", param: "~", variant: "rg"},
		{value: "Inf", param: "0~", variant: "gte", args: []string{"0"}},
		{value: "NaN", param: "~99", variant: "lte", args: []string{"99"}},
		{value: "Infinity", param: "0~", valid: true},
	}
	for _, tt := range tests {
		res := evalRule(t, "range", tt.value, tt.param)
		assert.Equal(t, tt.valid, res.Valid(), "%s in %s", tt.value, tt.param)
		if !tt.valid {
			assert.Equal(t, []string{tt.variant}, res.Variants)
			assert.Equal(t, tt.args, res.Args)
		}
	}
}

func TestLengthRule(t *testing.T) {
	t.Parallel()

	assert.True(t, evalRule(t, "length", "abcdef", "6~16").Valid())
	assert.False(t, evalRule(t, "length", "abc", "6~16").Valid())
	assert.True(t, evalRule(t, "length", "漢字漢", "~3").Valid())

	res := evalRule(t, "length", "漢字漢", "~4", "true")
	assert.False(t, res.Valid())
	assert.Equal(t, []string{"lte_2", "lte"}, res.Variants)
	assert.True(t, evalRule(t, "length", "漢字", "~4", "true").Valid())
	assert.True(t, evalRule(t, "length", "ab漢", "4", "true").Valid())
}

func TestCheckedRule(t *testing.T) {
	t.Parallel()

	fn, _ := validator.Global().Lookup("checked")
	run := func(in validator.Input, params ...string) validator.Result {
		return fn(context.Background(), &validator.Check{Key: "tags", Input: in, Params: params})
	}

	assert.True(t, run(validator.Input{}).Valid(), "non-choice control passes")
	assert.False(t, run(validator.Input{Choice: true}).Valid())
	assert.Equal(t, "{0} is required.", run(validator.Input{Choice: true}).Message)
	assert.True(t, run(validator.Input{Choice: true, Checked: 1}).Valid())
	assert.False(t, run(validator.Input{Choice: true, Checked: 1}, "2~3").Valid())
	assert.True(t, run(validator.Input{Choice: true, Checked: 2}, "2~3").Valid())
}

func TestFilterRule(t *testing.T) {
	t.Parallel()

	fn, _ := validator.Global().Lookup("filter")
	run := func(value string, params ...string) string {
		c := &validator.Check{Key: "bio", Value: value, Params: params}
		res := fn(context.Background(), c)
		assert.True(t, res.Valid())
		return c.Value
	}

	assert.Equal(t, "script", run("<script>"))
	assert.Equal(t, "abc", run("a1b2c3", "0-9"))
	assert.Equal(t, "ac", run("a-b-c", "b-"))
	assert.Equal(t, "ab", run("a]b", "]"))
}
