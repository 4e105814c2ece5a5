package validator

// Builtins lists the rules every registry chain rooted at Global() provides.
var Builtins = []string{"required", "digits", "integer", "float", "match", "range", "checked", "length", "filter"}

func registerBuiltins(r *Registry) {
	for name, fn := range map[string]RuleFunc{
		"required": requiredRule,
		"digits":   digitsRule,
		"integer":  integerRule,
		"float":    floatRule,
		"match":    matchRule,
		"range":    rangeRule,
		"checked":  checkedRule,
		"length":   lengthRule,
		"filter":   filterRule,
	} {
		r.rules[name] = fn
	}
}
