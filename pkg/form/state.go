package form

import (
	"errors"
	"strings"
	"sync"
)

// ErrEmptyName is returned when a value is set without a field name.
var ErrEmptyName = errors.New("form: field name is empty")

// State tracks the current value of every field. Values not declared by the
// definition are kept too and submitted as-is.
type State struct {
	mu     sync.RWMutex
	def    Definition
	values map[string]string
}

// NewState seeds a state with field defaults, then applies prefill on top.
func NewState(def Definition, prefill map[string]string) *State {
	values := make(map[string]string, len(def.Fields)+len(prefill))
	for _, field := range def.Fields {
		values[field.Name] = field.Default
	}
	for key, value := range prefill {
		if name := strings.TrimSpace(key); name != "" {
			values[name] = value
		}
	}
	return &State{def: def, values: values}
}

// Definition returns the definition the state was built from.
func (s *State) Definition() Definition {
	return s.def
}

// Value returns the current value of a field.
func (s *State) Value(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[name]
	return value, ok
}

// Set stores the value of a field.
func (s *State) Set(name, value string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	s.mu.Lock()
	s.values[name] = value
	s.mu.Unlock()
	return nil
}

// Payload snapshots the current values plus the definition's hidden fields
// into a fresh map. Hidden fields win on collisions.
func (s *State) Payload() Payload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Payload(MergeHiddenFields(s.values, s.def.hiddenFields()...))
}
