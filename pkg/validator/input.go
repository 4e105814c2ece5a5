package validator

import (
	"maps"
	"strings"
	"sync"
)

// Input is the state of one control as reported by the UI layer.
type Input struct {
	Value    string `json:"value" yaml:"value"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	// Choice marks a checkbox or radio group.
	Choice bool `json:"choice,omitempty" yaml:"choice,omitempty"`
	// Checked is the number of selected options of a choice control.
	Checked int `json:"checked,omitempty" yaml:"checked,omitempty"`
	// Messages are control-attached messages by rule name. The empty key holds
	// the control's generic message.
	Messages map[string]string `json:"messages,omitempty" yaml:"messages,omitempty"`
}

// Accessor gives the engine read access to current control state.
type Accessor interface {
	Input(key string) (Input, bool)
}

// AccessorFunc adapts a function to Accessor.
type AccessorFunc func(key string) (Input, bool)

func (fn AccessorFunc) Input(key string) (Input, bool) { return fn(key) }

// Inputs is a fixed snapshot of control state.
type Inputs map[string]Input

func (in Inputs) Input(key string) (Input, bool) {
	v, ok := in[key]
	return v, ok
}

// Values builds an Inputs snapshot from plain key/value pairs.
func Values(values map[string]string) Inputs {
	in := make(Inputs, len(values))
	for k, v := range values {
		in[k] = Input{Value: v}
	}
	return in
}

// Store is a mutable, concurrency-safe Accessor.
type Store struct {
	mu     sync.RWMutex
	inputs map[string]Input
}

// NewStore creates a store holding a copy of initial.
func NewStore(initial Inputs) *Store {
	s := &Store{inputs: make(map[string]Input, len(initial))}
	maps.Copy(s.inputs, initial)
	return s
}

func (s *Store) Input(key string) (Input, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in, ok := s.inputs[key]
	return in, ok
}

// Set replaces the value of key, keeping the rest of its control state.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	in := s.inputs[key]
	in.Value = value
	s.inputs[key] = in
	s.mu.Unlock()
}

// SetInput replaces the whole control state of key.
func (s *Store) SetInput(key string, in Input) {
	s.mu.Lock()
	s.inputs[key] = in
	s.mu.Unlock()
}

func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.inputs, key)
	s.mu.Unlock()
}

// Snapshot returns a copy of the stored state.
func (s *Store) Snapshot() Inputs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Inputs, len(s.inputs))
	maps.Copy(out, s.inputs)
	return out
}

// lookupInput finds key, also trying it without a leading '#'.
func lookupInput(a Accessor, key string) (Input, bool) {
	if in, ok := a.Input(key); ok {
		return in, true
	}
	if trimmed := strings.TrimPrefix(key, "#"); trimmed != key {
		return a.Input(trimmed)
	}
	return Input{}, false
}
