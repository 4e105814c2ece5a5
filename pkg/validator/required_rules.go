package validator

import (
	"context"
	"strings"
)

// requiredRule fails on a blank value.
//
//	required            value must not be blank
//	required(cond)      only enforced when the rule cond holds
//	required(not, a, b) the values a and b also count as blank
func requiredRule(ctx context.Context, c *Check) Result {
	val := strings.TrimSpace(c.Value)
	switch {
	case len(c.Params) == 1:
		if val == "" && !c.Test(ctx, c.Params[0]) {
			return Skip()
		}
	case len(c.Params) > 1 && c.Params[0] == "not":
		for _, blank := range c.Params[1:] {
			if val == strings.TrimSpace(blank) {
				return Fail()
			}
		}
	}
	return Bool(val != "")
}
