package model

import (
	"fmt"

	"github.com/artpar/fieldprop/core/field"
)

// Instance is a live model object. Every attribute write goes through the
// synchronization protocol that keeps the materialized map consistent with
// descriptor getter output. Instances are not safe for concurrent
// mutation; callers sharing one across goroutines must serialize writes.
type Instance struct {
	typ   *Type
	state State
}

var _ field.Instance = (*Instance)(nil)

// Type returns the instance's constructed class.
func (m *Instance) Type() *Type { return m.typ }

// Set writes an attribute. The standard validated path runs first; when
// name is a registered descriptor field and a value was stored, the
// descriptor's setter runs against the instance with the original value,
// and every registered field is then recomputed into the materialized map.
// Ordinary fields stop after the standard path.
func (m *Instance) Set(name string, value any) error {
	stored, err := m.state.SetAttr(name, value)
	if err != nil {
		return fmt.Errorf("set %s.%s: %w", m.typ.name, name, err)
	}

	d, ok := m.typ.registry.Get(name)
	if !ok {
		return nil
	}

	if stored {
		// The setter is authoritative: it may target a private slot or
		// mutate storage shared with other fields.
		if err := d.Write(m, value); err != nil {
			return fmt.Errorf("set %s.%s: %w", m.typ.name, name, err)
		}
	}

	m.typ.recorder.WriteApplied(m.typ.name, name)

	if err := m.refresh(); err != nil {
		return fmt.Errorf("set %s.%s: %w", m.typ.name, name, err)
	}
	return nil
}

// Get reads an attribute. Descriptor fields always go through their
// getter; ordinary fields read the materialized map.
func (m *Instance) Get(name string) (any, error) {
	if d, ok := m.typ.registry.Get(name); ok {
		return d.Read(m)
	}
	return m.state.Value(name)
}

// Delete removes an attribute. Descriptor fields go through their deleter
// and the materialized map is re-synchronized afterwards; a missing
// deleter fails with the map untouched. Ordinary fields are removed from
// the materialized map.
func (m *Instance) Delete(name string) error {
	if d, ok := m.typ.registry.Get(name); ok {
		if err := d.Delete(m); err != nil {
			return fmt.Errorf("delete %s.%s: %w", m.typ.name, name, err)
		}
		if err := m.refresh(); err != nil {
			return fmt.Errorf("delete %s.%s: %w", m.typ.name, name, err)
		}
		return nil
	}
	return m.state.Remove(name)
}

// ToMap returns a copy of the materialized map.
func (m *Instance) ToMap() map[string]any {
	return m.state.Map()
}

// refresh recomputes every registered field and overwrites the
// materialized map. A setter may have touched storage shared with other
// fields, so the whole registry is re-read, never just the written field.
// All reads are staged before any store so a failing read leaves the map
// untouched.
func (m *Instance) refresh() error {
	names := m.typ.registry.Names()
	staged := make(map[string]any, len(names))

	for _, name := range names {
		d, _ := m.typ.registry.Get(name)
		value, err := d.Read(m)
		if err != nil {
			m.typ.recorder.RefreshFailed(m.typ.name)
			m.typ.logger.Debug().
				Str("type", m.typ.name).
				Str("field", name).
				Err(err).
				Msg("field refresh failed")
			return fmt.Errorf("refresh %q: %w", name, err)
		}
		staged[name] = value
	}

	for _, name := range names {
		m.state.Store(name, staged[name])
	}
	m.typ.recorder.RefreshCompleted(m.typ.name, len(names))
	return nil
}

// Slot reads a private slot, exposing the state's private storage to
// descriptor getters and setters.
func (m *Instance) Slot(name string) (any, error) {
	return m.state.Slot(name)
}

// SetSlot writes a declared private slot.
func (m *Instance) SetSlot(name string, value any) error {
	return m.state.SetSlot(name, value)
}

// ClearSlot removes a private slot's value.
func (m *Instance) ClearSlot(name string) error {
	return m.state.ClearSlot(name)
}
