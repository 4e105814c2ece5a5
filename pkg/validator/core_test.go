package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/formrules/pkg/validator"
)

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	var errs validator.ValidationErrors
	assert.True(t, errs.IsEmpty())
	assert.Equal(t, "validation failed", errs.Error())

	errs.Add(validator.ValidationError{Field: "email", Message: "Please enter a valid email address."})
	errs.Add(validator.ValidationError{Field: "age", Message: "age is required."})
	errs.Add(validator.ValidationError{Field: "email", Message: "email is already taken."})

	assert.False(t, errs.IsEmpty())
	assert.True(t, errs.Has("age"))
	assert.False(t, errs.Has("name"))
	assert.Equal(t, []string{"email", "age"}, errs.Fields())
	assert.Len(t, errs.Get("email"), 2)
	assert.Equal(t, map[string]string{
		"email": "Please enter a valid email address.",
		"age":   "age is required.",
	}, errs.Map())
	assert.Equal(t,
		"validation failed: email: Please enter a valid email address.; age: age is required.; email: email is already taken.",
		errs.Error(),
	)
}

func TestExtractValidationErrors(t *testing.T) {
	t.Parallel()

	one := validator.ValidationError{Field: "a", Message: "bad"}
	two := validator.ValidationError{Field: "b", Message: "worse"}

	assert.Nil(t, validator.ExtractValidationErrors(nil))
	assert.Equal(t, validator.ValidationErrors{one, two}, validator.ExtractValidationErrors(errors.Join(one, two)))
	assert.Equal(t, validator.ValidationErrors{one}, validator.ExtractValidationErrors(fmt.Errorf("wrapped: %w", one)))
	assert.Equal(t, validator.ValidationErrors{one, two}, validator.ExtractValidationErrors(validator.ValidationErrors{one, two}))
	assert.Empty(t, validator.ExtractValidationErrors(errors.New("plain")))

	assert.True(t, validator.IsValidationError(errors.Join(one)))
	assert.False(t, validator.IsValidationError(errors.New("plain")))
	assert.False(t, validator.IsValidationError(nil))
}
