package validator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/dmitrymomot/formrules/pkg/logger"
)

const (
	maxExprLength = 1000
	maxExprNodes  = 200
)

// exprPrograms caches compiled rule expressions by source text.
var exprPrograms = struct {
	sync.RWMutex
	m map[string]*vm.Program
}{m: make(map[string]*vm.Program)}

// exprEnv builds the variables visible to a rule expression:
//
//	value    current (possibly filtered) field value
//	key      field key
//	params   rule parameters
//	checked  selected options of a choice control
//	choice   whether the control is a choice control
//	field(k) value of another field, "" when unknown
func exprEnv(c *Check) map[string]any {
	env := map[string]any{
		"value":   "",
		"key":     "",
		"params":  []string{},
		"checked": 0,
		"choice":  false,
		"field":   func(string) string { return "" },
	}
	if c == nil {
		return env
	}
	env["value"] = c.Value
	env["key"] = c.Key
	env["params"] = append([]string{}, c.Params...)
	env["checked"] = c.Input.Checked
	env["choice"] = c.Input.Choice
	env["field"] = func(key string) string {
		in, ok := c.Lookup(key)
		if !ok {
			return ""
		}
		return in.Value
	}
	return env
}

func exprOptions() []expr.Option {
	return []expr.Option{
		expr.Env(exprEnv(nil)),
		expr.AsBool(),
		expr.MaxNodes(maxExprNodes),
		expr.Function("number", func(params ...any) (any, error) {
			s, err := stringParam("number", params)
			if err != nil {
				return nil, err
			}
			n, _ := parseNumber(s)
			return n, nil
		}, new(func(string) float64)),
		expr.Function("isNumber", func(params ...any) (any, error) {
			s, err := stringParam("isNumber", params)
			if err != nil {
				return nil, err
			}
			_, ok := parseNumber(s)
			return ok, nil
		}, new(func(string) bool)),
		expr.Function("blank", func(params ...any) (any, error) {
			s, err := stringParam("blank", params)
			if err != nil {
				return nil, err
			}
			return strings.TrimSpace(s) == "", nil
		}, new(func(string) bool)),
	}
}

func stringParam(fn string, params []any) (string, error) {
	if len(params) != 1 {
		return "", fmt.Errorf("%s expects 1 argument", fn)
	}
	s, ok := params[0].(string)
	if !ok {
		return "", fmt.Errorf("%s: argument must be a string", fn)
	}
	return s, nil
}

func compileExpr(source string) (*vm.Program, error) {
	if len(source) > maxExprLength {
		return nil, fmt.Errorf("%w: longer than %d characters", ErrInvalidExpression, maxExprLength)
	}

	exprPrograms.RLock()
	program, ok := exprPrograms.m[source]
	exprPrograms.RUnlock()
	if ok {
		return program, nil
	}

	exprPrograms.Lock()
	defer exprPrograms.Unlock()
	if program, ok := exprPrograms.m[source]; ok {
		return program, nil
	}
	program, err := expr.Compile(source, exprOptions()...)
	if err != nil {
		return nil, errors.Join(ErrInvalidExpression, err)
	}
	exprPrograms.m[source] = program
	return program, nil
}

// RegisterExpr installs a rule backed by a boolean expr-lang expression, e.g.
//
//	len(value) >= 3 && value != key
//
// An expression that fails at run time counts as a violated rule.
func (r *Registry) RegisterExpr(name, source, msg string) error {
	program, err := compileExpr(source)
	if err != nil {
		return fmt.Errorf("rule %q: %w", name, err)
	}
	return r.AddRule(name, msg, func(_ context.Context, c *Check) Result {
		out, err := expr.Run(program, exprEnv(c))
		if err != nil {
			c.logger().Warn("rule expression failed", logger.Rule(name), logger.Error(err))
			return Fail()
		}
		ok, _ := out.(bool)
		return Bool(ok)
	})
}
