// Package validator is a declarative field-validation engine. Fields carry
// rule strings such as
//
//	"Password: required; length[6~16]"
//	"email | mobile"
//	"match[gte, start_date, date]"
//
// which are compiled once into rule chains and evaluated against values read
// through an Accessor.
//
// # Architecture
//
// Rules live in a two-tier Registry: Global() holds the built-ins (required,
// digits, integer, float, match, range, checked, length, filter) and the
// English messages, and every Form owns a child registry for its own rules
// and message overrides. Declarative rules come from i18n bundles as regular
// expressions or expr-lang expressions; rule code is never built from strings
// at run time.
//
// A Form drives passes. Each pass evaluates one field's chain with AND
// semantics between steps, OR semantics inside a "|" run and "!" negation.
// A rule may return Await(future) to suspend its field; the Verdict of the
// pass then settles once every outstanding rule of every field has resolved.
// A newer pass for the same field makes older in-flight results stale.
//
// Core building blocks:
//   - Registry          – rule and message lookup with parent fallback
//   - Parse / Chain     – the rule-string grammar
//   - Form              – field set, error map, events and triggers
//   - Verdict           – synchronous or aggregated asynchronous outcome
//   - ValidationErrors  – slice type that implements the error interface
//
// # Usage
//
//	store := validator.NewStore(validator.Values(map[string]string{
//	    "password": "secret1",
//	    "confirm":  "secret2",
//	}))
//	form := validator.New(
//	    validator.WithInputs(store),
//	    validator.WithField("password", validator.FieldSpec{Rule: "Password: required; length[6~16]"}),
//	    validator.WithField("confirm", validator.FieldSpec{Rule: "required; match[password]"}),
//	)
//	if err := form.Validate(ctx).Wait(ctx); err != nil {
//	    for field, msg := range validator.ExtractValidationErrors(err).Map() {
//	        // show msg next to field
//	    }
//	}
//
// # Messages
//
// A failing rule's message is taken from, in order: the field declaration,
// the control (Input.Messages), the rule's own result, the registry (most
// specific variant first, see MessageKeys) and finally "default". {0} is the
// field's display name; {1}.. are rule arguments.
package validator
