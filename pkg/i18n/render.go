package i18n

import (
	"regexp"
	"strconv"
)

var placeholderRegex = regexp.MustCompile(`\{(\d+)\}`)

// Render substitutes positional placeholders "{0}", "{1}", ... in tmpl with
// args. Placeholders without a matching argument are left untouched.
//
//	i18n.Render("{0} must be less than {1}.", "Price", "Budget")
//	// "Price must be less than Budget."
func Render(tmpl string, args ...string) string {
	if len(args) == 0 || tmpl == "" {
		return tmpl
	}
	return placeholderRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		i, err := strconv.Atoi(match[1 : len(match)-1])
		if err != nil || i >= len(args) {
			return match
		}
		return args[i]
	})
}
