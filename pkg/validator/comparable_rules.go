package validator

import (
	"cmp"
	"context"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"15:04:05",
	"15:04",
}

// matchRule compares the field with another one.
//
//	match[password]            equal to password
//	match[lt, money]           less than money (eq neq lt lte gt gte)
//	match[gte, start, date]    compared as dates
//
// A missing other field passes; a blank side skips the field.
func matchRule(_ context.Context, c *Check) Result {
	if len(c.Params) == 0 {
		return Pass()
	}
	op, key := "eq", c.Params[0]
	if len(c.Params) > 1 {
		op, key = c.Params[0], c.Params[1]
	}
	other, ok := c.Lookup(key)
	if !ok {
		return Pass()
	}
	c.DependOn(key)

	a, b := c.Value, other.Value
	if a == "" || b == "" {
		return Skip()
	}

	isDate := len(c.Params) > 2 && c.Params[2] == "date"
	if compareValues(a, b, isDate, op) {
		return Pass()
	}

	variants := []string{op}
	if isDate {
		variants = []string{"date" + op, op}
	}
	return Fail().WithVariant(variants...).WithArgs(c.Display(key))
}

// compareValues orders dates when asked and both parse, numbers when both
// parse, strings otherwise.
func compareValues(a, b string, isDate bool, op string) bool {
	var order int
	switch {
	case isDate && bothDates(a, b):
		ta, _ := parseDate(a)
		tb, _ := parseDate(b)
		order = ta.Compare(tb)
	default:
		na, aok := parseNumber(a)
		nb, bok := parseNumber(b)
		if aok && bok {
			order = cmp.Compare(na, nb)
		} else {
			order = strings.Compare(a, b)
		}
	}

	switch op {
	case "lt":
		return order < 0
	case "lte":
		return order <= 0
	case "gt":
		return order > 0
	case "gte":
		return order >= 0
	case "neq":
		return order != 0
	default:
		return order == 0
	}
}

func bothDates(a, b string) bool {
	_, aok := parseDate(a)
	_, bok := parseDate(b)
	return aok && bok
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
