package validator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrymomot/formrules/pkg/logger"
)

// Timely selects which interactions validate a field in real time.
type Timely uint8

const (
	TimelyOff Timely = iota
	TimelyOnBlur
	TimelyOnInput
)

func (t Timely) String() string {
	switch t {
	case TimelyOff:
		return "off"
	case TimelyOnBlur:
		return "blur"
	case TimelyOnInput:
		return "input"
	default:
		return fmt.Sprintf("timely(%d)", uint8(t))
	}
}

// ParseTimely accepts off, blur and input (also 0, 1 and 2).
func ParseTimely(s string) (Timely, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "false", "0":
		return TimelyOff, nil
	case "blur", "true", "1", "":
		return TimelyOnBlur, nil
	case "input", "keyup", "2":
		return TimelyOnInput, nil
	}
	return TimelyOff, fmt.Errorf("%w: %q", ErrInvalidTimely, s)
}

func (t Timely) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Timely) UnmarshalText(text []byte) error {
	v, err := ParseTimely(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// TriggerKind is an interaction reported by the UI layer.
type TriggerKind uint8

const (
	// TriggerManual validates immediately regardless of the timely mode.
	TriggerManual TriggerKind = iota
	// TriggerBlur validates immediately in blur mode.
	TriggerBlur
	// TriggerInput validates after the debounce delay in input mode.
	TriggerInput
	// TriggerChange validates immediately in input mode.
	TriggerChange
)

// Trigger reports an interaction with key. Keystrokes are debounced per
// field: a new trigger for the same field cancels the delayed one.
func (f *Form) Trigger(ctx context.Context, key string, kind TriggerKind) {
	if kind == TriggerManual {
		f.Validate(ctx, key)
		return
	}

	f.mu.Lock()
	entry, ok := f.fields[key]
	if !ok || f.closed || !f.acceptsLocked(key, entry, kind) {
		f.mu.Unlock()
		return
	}
	if entry.timer != nil {
		entry.timer.Stop()
		entry.timer = nil
	}
	if kind != TriggerInput {
		f.mu.Unlock()
		f.Validate(ctx, key)
		return
	}

	detached := context.WithoutCancel(ctx)
	var timer *time.Timer
	timer = time.AfterFunc(f.debounce, func() {
		f.mu.Lock()
		current := entry.timer == timer && !f.closed
		if current {
			entry.timer = nil
		}
		f.mu.Unlock()
		if current {
			f.Validate(detached, key)
		}
	})
	entry.timer = timer
	f.mu.Unlock()
	f.log.Debug("validation scheduled", logger.Field(key))
}

func (f *Form) acceptsLocked(key string, entry *fieldEntry, kind TriggerKind) bool {
	if f.ignore != nil && f.ignore(key) {
		return false
	}
	if f.timely == TimelyOff {
		return false
	}
	if field := f.compileLocked(key, entry); !field.Timely {
		return false
	}
	switch kind {
	case TriggerBlur:
		return f.timely == TimelyOnBlur
	case TriggerInput, TriggerChange:
		return f.timely == TimelyOnInput
	}
	return false
}
