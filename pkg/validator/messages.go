package validator

import (
	"strings"

	"github.com/dmitrymomot/formrules/pkg/i18n"
)

const fallbackMessage = "{0} is not valid."

// resolveMessageLocked picks the failure template for step and renders it.
// Priority: field message for the rule, control message for the rule, the
// control's generic message, the rule's own message, then registry entries
// from most to least specific, then "default".
func (f *Form) resolveMessageLocked(p *pass, step Step, res Result) string {
	tmpl := f.messageTemplate(p.field, p.input, step, res)
	args := make([]string, 0, len(res.Args)+1)
	args = append(args, f.displayLocked(p.key))
	args = append(args, res.Args...)
	return i18n.Render(tmpl, args...)
}

func (f *Form) messageTemplate(field *Field, in Input, step Step, res Result) string {
	if msg, ok := field.message(step.Method); ok {
		return msg
	}
	if msg := in.Messages[step.Method]; msg != "" {
		return msg
	}
	if msg := in.Messages[""]; msg != "" {
		return msg
	}
	if res.Message != "" {
		return res.Message
	}
	for _, key := range MessageKeys(step.Method, step.Params, res.Variants) {
		if msg, ok := f.registry.Message(key); ok {
			return msg
		}
	}
	if msg, ok := f.registry.Message("default"); ok {
		return msg
	}
	return fallbackMessage
}

// MessageKeys lists the registry keys tried for a failing rule, most specific
// first. For range[0~99] failing with variant "rg":
//
//	range[0~99].rg, range.rg, range[0~99], range
func MessageKeys(rule string, params, variants []string) []string {
	var qualified string
	if len(params) > 0 {
		qualified = rule + "[" + strings.Join(params, ",") + "]"
	}
	keys := make([]string, 0, 2*len(variants)+2)
	for _, v := range variants {
		if qualified != "" {
			keys = append(keys, qualified+"."+v)
		}
		keys = append(keys, rule+"."+v)
	}
	if qualified != "" {
		keys = append(keys, qualified)
	}
	return append(keys, rule)
}
