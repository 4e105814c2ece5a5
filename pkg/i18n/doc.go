// Package i18n provides locale resource bundles for the validation engine.
//
// A bundle carries the message templates rules report on failure and a set of
// declarative rules (regular expressions or boolean expressions, never code).
// Bundle documents are YAML or JSON, keyed by language:
//
//	en:
//	  messages:
//	    required: "{0} is required."
//	    range:
//	      rg: "Please enter a number between {1} and {2}."
//	  rules:
//	    mobile:
//	      pattern: '^1[3-9]\d{9}$'
//	      message: "Please enter a valid mobile number."
//
// Nested message maps are flattened into dotted keys ("range.rg"). Templates
// use positional placeholders rendered with Render.
//
// A Catalog holds bundles for several languages, resolves regional tags to
// their base language with golang.org/x/text/language, and notifies OnChange
// listeners when the active language switches. Builtin returns the English and
// Chinese bundles embedded in the package.
package i18n
