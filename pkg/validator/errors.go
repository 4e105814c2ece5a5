package validator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidExpression is returned when a declarative rule expression does not compile.
	ErrInvalidExpression = errors.New("invalid rule expression")

	// ErrInvalidPattern is returned when a pattern rule is not a valid regular expression.
	ErrInvalidPattern = errors.New("invalid rule pattern")

	// ErrInvalidRuleName is returned when a rule is registered without a usable name.
	ErrInvalidRuleName = errors.New("invalid rule name")

	// ErrInvalidTimely is returned for an unknown real-time validation mode.
	ErrInvalidTimely = errors.New("invalid timely mode")

	// ErrInvalidDefinition is returned when a form definition cannot be decoded.
	ErrInvalidDefinition = errors.New("invalid form definition")

	// ErrFormClosed is returned by operations on a closed form.
	ErrFormClosed = errors.New("form is closed")
)

// ErrIllegalTransition reports a pass lifecycle transition that the engine
// never performs. Seeing it means the executor is broken.
type ErrIllegalTransition struct {
	From  string
	Event string
}

func (e *ErrIllegalTransition) Error() string {
	return fmt.Sprintf("illegal pass transition from %q on %q", e.From, e.Event)
}
