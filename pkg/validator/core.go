package validator

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationResult is the settlement of one validation pass for one field.
type ValidationResult struct {
	Key     string `json:"key"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	Rule    string `json:"rule,omitempty"`
	// Skip marks a settlement a rule asked to suppress (valid, nothing to display).
	Skip bool `json:"skip,omitempty"`
	// Value is the field value after sanitizing rules such as filter ran.
	Value string `json:"value,omitempty"`
}

// ValidationError represents a single validation error with translation support.
type ValidationError struct {
	Field             string
	Message           string
	TranslationKey    string
	TranslationValues map[string]any
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors represents a collection of validation errors.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, err.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (ve *ValidationErrors) Add(err ValidationError) {
	*ve = append(*ve, err)
}

func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Get returns the messages recorded for field.
func (ve ValidationErrors) Get(field string) []string {
	var messages []string
	for _, err := range ve {
		if err.Field == field {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

func (ve ValidationErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, err := range ve {
		if !seen[err.Field] {
			fields = append(fields, err.Field)
			seen[err.Field] = true
		}
	}
	return fields
}

func (ve ValidationErrors) IsEmpty() bool {
	return len(ve) == 0
}

// Map returns the first message per field.
func (ve ValidationErrors) Map() map[string]string {
	out := make(map[string]string, len(ve))
	for _, err := range ve {
		if _, ok := out[err.Field]; !ok {
			out[err.Field] = err.Message
		}
	}
	return out
}

func newValidationError(res ValidationResult, display string) ValidationError {
	return ValidationError{
		Field:          res.Key,
		Message:        res.Message,
		TranslationKey: res.Rule,
		TranslationValues: map[string]any{
			"field": display,
		},
	}
}

// ExtractValidationErrors collects every ValidationError reachable from err,
// including errors combined with errors.Join.
func ExtractValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var out ValidationErrors
	var walk func(error)
	walk = func(e error) {
		switch v := e.(type) {
		case ValidationErrors:
			out = append(out, v...)
			return
		case ValidationError:
			out = append(out, v)
			return
		case interface{ Unwrap() []error }:
			for _, inner := range v.Unwrap() {
				walk(inner)
			}
			return
		}
		if inner := errors.Unwrap(e); inner != nil {
			walk(inner)
		}
	}
	walk(err)
	return out
}

func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var many ValidationErrors
	var one ValidationError
	return errors.As(err, &many) || errors.As(err, &one)
}
