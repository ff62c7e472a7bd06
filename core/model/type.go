package model

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/artpar/fieldprop/core/registry"
)

// Type is a constructed model class: its field registry, annotations, and
// the model system's finalized class. Types are immutable once built and
// safe for concurrent use.
type Type struct {
	name        string
	bases       []*Type
	registry    *registry.Registry
	annotations *Annotations
	class       Class

	logger   zerolog.Logger
	recorder Recorder
}

// TypeOption configures a Type at construction.
type TypeOption func(*Type)

// WithLogger sets the logger used by the type and its instances.
func WithLogger(l zerolog.Logger) TypeOption {
	return func(t *Type) { t.logger = l }
}

// WithRecorder sets the metrics recorder used by the type and its
// instances.
func WithRecorder(r Recorder) TypeOption {
	return func(t *Type) { t.recorder = r }
}

// NewType assembles a constructed class. Called by the class builder; the
// registry and annotations must already be merged across the hierarchy.
func NewType(name string, bases []*Type, reg *registry.Registry, ann *Annotations, class Class, opts ...TypeOption) *Type {
	t := &Type{
		name:        name,
		bases:       append([]*Type(nil), bases...),
		registry:    reg,
		annotations: ann,
		class:       class,
		logger:      zerolog.Nop(),
		recorder:    NopRecorder{},
	}
	if t.registry == nil {
		t.registry = registry.Empty()
	}
	if t.annotations == nil {
		t.annotations = EmptyAnnotations()
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the class name.
func (t *Type) Name() string { return t.name }

// Bases returns the base types in declaration order.
func (t *Type) Bases() []*Type {
	return append([]*Type(nil), t.bases...)
}

// Registry returns the inheritance-merged field registry.
func (t *Type) Registry() *registry.Registry { return t.registry }

// Annotations returns the inheritance-merged annotation table.
func (t *Type) Annotations() *Annotations { return t.annotations }

// Class returns the model system's finalized class.
func (t *Type) Class() Class { return t.class }

// New instantiates the type. Defaults are populated per field, provided
// values pass through the validated write path, setters run for provided
// descriptor fields, and a full refresh synchronizes the materialized map
// with live getter output. A value provided for a descriptor field without
// a setter lands in the map only until that refresh recomputes it.
func (t *Type) New(values map[string]any) (*Instance, error) {
	state, err := t.class.NewState(values)
	if err != nil {
		return nil, fmt.Errorf("instantiate %s: %w", t.name, err)
	}

	m := &Instance{typ: t, state: state}

	for _, name := range t.registry.Names() {
		value, provided := values[name]
		if !provided {
			continue
		}
		d, _ := t.registry.Get(name)
		if !d.Writable() {
			continue
		}
		if err := d.Write(m, value); err != nil {
			return nil, fmt.Errorf("instantiate %s: field %q: %w", t.name, name, err)
		}
	}

	if err := m.refresh(); err != nil {
		return nil, fmt.Errorf("instantiate %s: %w", t.name, err)
	}
	return m, nil
}
