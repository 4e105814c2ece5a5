package validator

// FieldSpec declares one verifiable field.
type FieldSpec struct {
	// Rule is the rule string, e.g. "Email: required; email".
	Rule string `json:"rule" yaml:"rule"`
	// Display overrides the display name from the rule prefix.
	Display string `json:"display,omitempty" yaml:"display,omitempty"`
	// Message is used for every failing rule of this field.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	// Messages are per-rule messages; they win over Message.
	Messages map[string]string `json:"messages,omitempty" yaml:"messages,omitempty"`
	// Timely disables real-time triggers for this field when set to false.
	Timely *bool `json:"timely,omitempty" yaml:"timely,omitempty"`

	OnValid   func(ValidationResult) `json:"-" yaml:"-"`
	OnInvalid func(ValidationResult) `json:"-" yaml:"-"`
}

// Field is a compiled field. It is immutable once built.
type Field struct {
	Key     string
	Display string
	// Required is set when the chain contains required, in either polarity.
	Required bool
	// MustSelect is set when the chain contains checked.
	MustSelect bool
	Steps      []Step
	Timely     bool

	spec FieldSpec
}

// Spec returns the declaration the field was compiled from.
func (f *Field) Spec() FieldSpec { return f.spec }

// message returns the field-level message for rule.
func (f *Field) message(rule string) (string, bool) {
	if msg, ok := f.spec.Messages[rule]; ok && msg != "" {
		return msg, true
	}
	if f.spec.Message != "" {
		return f.spec.Message, true
	}
	return "", false
}

func compileField(key string, spec FieldSpec, chain Chain) *Field {
	f := &Field{
		Key:     key,
		Display: chain.Display,
		Steps:   chain.Steps,
		Timely:  spec.Timely == nil || *spec.Timely,
		spec:    spec,
	}
	if spec.Display != "" {
		f.Display = spec.Display
	}
	for _, st := range chain.Steps {
		switch st.Method {
		case "required":
			f.Required = true
		case "checked":
			f.MustSelect = true
		}
	}
	return f
}
