package validator

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	integerPatterns = map[string]*regexp.Regexp{
		"*":  regexp.MustCompile(`^(?:0|-?[1-9]\d*)$`),
		"+":  regexp.MustCompile(`^[1-9]\d*$`),
		"+0": regexp.MustCompile(`^(?:0|[1-9]\d*)$`),
		"-":  regexp.MustCompile(`^-[1-9]\d*$`),
		"-0": regexp.MustCompile(`^(?:0|-[1-9]\d*)$`),
	}
	floatPatterns = map[string]*regexp.Regexp{
		"*":  regexp.MustCompile(`^(-?\d+)(\.\d+)?$`),
		"+":  regexp.MustCompile(`^(([0-9]+\.[0-9]*[1-9][0-9]*)|([0-9]*[1-9][0-9]*\.[0-9]+)|([0-9]*[1-9][0-9]*))$`),
		"+0": regexp.MustCompile(`^\d+(\.\d+)?$`),
		"-":  regexp.MustCompile(`^(-(([0-9]+\.[0-9]*[1-9][0-9]*)|([0-9]*[1-9][0-9]*\.[0-9]+)|([0-9]*[1-9][0-9]*)))$`),
		"-0": regexp.MustCompile(`^((-\d+(\.\d+)?)|(0+(\.0+)?))$`),
	}
)

// digitsRule passes blank values and anything that parses as a number.
func digitsRule(_ context.Context, c *Check) Result {
	if strings.TrimSpace(c.Value) == "" {
		return Pass()
	}
	_, ok := parseNumber(c.Value)
	return Bool(ok)
}

// integerRule checks integer[sign], sign being one of * + +0 - -0.
func integerRule(_ context.Context, c *Check) Result {
	return signedPattern(integerPatterns, c)
}

// floatRule checks float[sign], sign being one of * + +0 - -0.
func floatRule(_ context.Context, c *Check) Result {
	return signedPattern(floatPatterns, c)
}

func signedPattern(patterns map[string]*regexp.Regexp, c *Check) Result {
	key := "*"
	if len(c.Params) > 0 && c.Params[0] != "" {
		key = c.Params[0]
	}
	re, ok := patterns[key]
	if !ok {
		key = "*"
		re = patterns[key]
	}
	if re.MatchString(c.Value) {
		return Pass()
	}
	return Fail().WithVariant(key)
}

// rangeRule checks range[a~b], range[a~], range[~b] or range[n].
func rangeRule(_ context.Context, c *Check) Result {
	if len(c.Params) == 0 {
		return Pass()
	}
	v, ok := parseNumber(c.Value)
	return checkRange(v, ok, c.Params[0], "")
}

// checkRange applies a range expression to v. The failure variant is rg, gte,
// lte or eq with suffix appended, followed by the plain variant.
func checkRange(v float64, isNumber bool, expr, suffix string) Result {
	var (
		ok      bool
		variant string
		args    []string
	)
	if lo, hi, found := strings.Cut(expr, "~"); found {
		lo, hi = strings.TrimSpace(lo), strings.TrimSpace(hi)
		switch {
		case lo != "" && hi != "":
			variant, args = "rg", []string{lo, hi}
			ok = isNumber && v >= number(lo) && v <= number(hi)
		case lo != "":
			variant, args = "gte", []string{lo}
			ok = isNumber && v >= number(lo)
		case hi != "":
			variant, args = "lte", []string{hi}
			ok = isNumber && v <= number(hi)
		default:
			variant = "rg"
		}
	} else {
		want := strings.TrimSpace(expr)
		variant, args = "eq", []string{want}
		ok = isNumber && v == number(want)
	}
	if ok {
		return Pass()
	}
	variants := []string{variant}
	if suffix != "" {
		variants = []string{variant + suffix, variant}
	}
	return Fail().WithVariant(variants...).WithArgs(args...)
}

// parseNumber reads s as a decimal number. NaN and the Go spellings of
// infinity are rejected; only "Infinity" with an optional sign names one.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0, false
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// number parses a bound; an unusable bound compares false against anything.
func number(s string) float64 {
	v, ok := parseNumber(s)
	if !ok {
		return math.NaN()
	}
	return v
}
