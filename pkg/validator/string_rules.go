package validator

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// lengthRule bounds the character count: length[6~16], length[~140],
// length[4]. With a second parameter set to true, wide and fullwidth
// characters count as two.
func lengthRule(_ context.Context, c *Check) Result {
	if len(c.Params) == 0 {
		return Pass()
	}
	wide := false
	if len(c.Params) > 1 {
		wide, _ = strconv.ParseBool(c.Params[1])
	}
	n := utf8.RuneCountInString(c.Value)
	suffix := ""
	if wide {
		n = displayWidth(c.Value)
		suffix = "_2"
	}
	return checkRange(float64(n), true, c.Params[0], suffix)
}

func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

var filterPatterns sync.Map

// filterRule strips characters from the value and always passes. The
// parameter is the body of a character class; the default removes < and >.
func filterRule(_ context.Context, c *Check) Result {
	class := "<>"
	if len(c.Params) > 0 && c.Params[0] != "" {
		class = c.Params[0]
	}
	c.SetValue(filterPattern(class).ReplaceAllString(c.Value, ""))
	return Pass()
}

func filterPattern(class string) *regexp.Regexp {
	if re, ok := filterPatterns.Load(class); ok {
		return re.(*regexp.Regexp)
	}
	re, err := regexp.Compile("[" + class + "]")
	if err != nil {
		re = regexp.MustCompile("[" + escapeClass(class) + "]")
	}
	actual, _ := filterPatterns.LoadOrStore(class, re)
	return actual.(*regexp.Regexp)
}

// escapeClass makes every character of class literal inside [...].
func escapeClass(class string) string {
	var b strings.Builder
	for _, r := range class {
		if r == '-' {
			b.WriteString(`\-`)
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
	return b.String()
}
