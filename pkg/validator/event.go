package validator

import "slices"

// EventKind identifies a validation notification.
type EventKind uint8

const (
	// EventRuleValid is emitted when one rule step passes.
	EventRuleValid EventKind = iota + 1
	// EventRuleInvalid is emitted when one rule step fails and the failure is reported.
	EventRuleInvalid
	// EventFieldValid is emitted when a field settles valid.
	EventFieldValid
	// EventFieldInvalid is emitted when a field settles invalid.
	EventFieldInvalid
	// EventFieldReset asks the UI to clear anything displayed for a field.
	EventFieldReset
	// EventGroupReset asks the UI to clear the shared message of a group.
	EventGroupReset
)

func (k EventKind) String() string {
	switch k {
	case EventRuleValid:
		return "valid.rule"
	case EventRuleInvalid:
		return "invalid.rule"
	case EventFieldValid:
		return "valid.field"
	case EventFieldInvalid:
		return "invalid.field"
	case EventFieldReset:
		return "reset.field"
	case EventGroupReset:
		return "reset.group"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after the form lock is released.
type Event struct {
	Kind    EventKind
	Key     string
	Rule    string
	Message string
	// Result is set for field settlement events.
	Result *ValidationResult
}

// Subscribe registers fn for every event of the form and returns a function
// that removes it.
func (f *Form) Subscribe(fn func(Event)) func() {
	if fn == nil {
		return func() {}
	}
	f.mu.Lock()
	id := f.nextHandler
	f.nextHandler++
	f.handlers[id] = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.handlers, id)
		f.mu.Unlock()
	}
}

func (f *Form) handlerSnapshotLocked() []func(Event) {
	if len(f.handlers) == 0 {
		return nil
	}
	ids := make([]int, 0, len(f.handlers))
	for id := range f.handlers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		out = append(out, f.handlers[id])
	}
	return out
}
