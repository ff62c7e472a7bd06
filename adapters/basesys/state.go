package basesys

import (
	"fmt"

	"github.com/artpar/fieldprop/core/model"
)

// state is the per-instance materialized map plus private slot storage.
// No internal locking: the execution model is single-threaded and callers
// sharing an instance must serialize writes externally.
type state struct {
	class  *Class
	values map[string]any

	slots    map[string]any
	declared map[string]bool
}

var _ model.State = (*state)(nil)

// SetAttr is the standard validated write path.
func (s *state) SetAttr(name string, value any) (bool, error) {
	fs, ok := s.class.fields[name]
	if !ok {
		return false, fmt.Errorf("class %s: %q: %w", s.class.name, name, ErrUnknownField)
	}
	checked, err := s.class.checkValue(name, fs, value)
	if err != nil {
		return false, err
	}
	s.values[name] = checked
	return true, nil
}

// Store writes directly into the materialized map without validation.
func (s *state) Store(name string, value any) {
	s.values[name] = value
}

// Value reads the materialized map.
func (s *state) Value(name string) (any, error) {
	v, ok := s.values[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrNoAttribute)
	}
	return v, nil
}

// Remove deletes a key from the materialized map.
func (s *state) Remove(name string) error {
	if _, ok := s.values[name]; !ok {
		return fmt.Errorf("%q: %w", name, ErrNoAttribute)
	}
	delete(s.values, name)
	return nil
}

// Map returns a copy of the materialized map.
func (s *state) Map() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Slot reads a private slot. Declared-but-unset and undeclared slots both
// report the missing-attribute error.
func (s *state) Slot(name string) (any, error) {
	v, ok := s.slots[name]
	if !ok {
		return nil, fmt.Errorf("private slot %q: %w", name, ErrNoAttribute)
	}
	return v, nil
}

// SetSlot writes a private slot. The slot must have been declared when
// the class was built; there is no silent fallback to undeclared storage.
func (s *state) SetSlot(name string, value any) error {
	if !s.declared[name] {
		return fmt.Errorf("private slot %q: %w", name, ErrNoSlot)
	}
	s.slots[name] = value
	return nil
}

// ClearSlot removes a declared private slot's value.
func (s *state) ClearSlot(name string) error {
	if !s.declared[name] {
		return fmt.Errorf("private slot %q: %w", name, ErrNoSlot)
	}
	delete(s.slots, name)
	return nil
}
