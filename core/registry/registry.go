// Package registry provides the per-class field table: an ordered,
// immutable mapping from field name to descriptor, merged across the
// class hierarchy at class-construction time.
package registry

import (
	"fmt"

	"github.com/artpar/fieldprop/core/field"
)

// Registry is an immutable ordered table of field name to descriptor.
// It is built once when a class is constructed and is safe for
// concurrent reads afterwards.
type Registry struct {
	names  []string
	fields map[string]*field.Descriptor
}

// New builds a registry from bound descriptors in declaration order.
// Descriptors must be bound (carry a public name) and names must be
// unique.
func New(descriptors []*field.Descriptor) (*Registry, error) {
	r := &Registry{
		names:  make([]string, 0, len(descriptors)),
		fields: make(map[string]*field.Descriptor, len(descriptors)),
	}
	for _, d := range descriptors {
		name := d.PublicName()
		if name == "" {
			return nil, fmt.Errorf("registry: descriptor has no public name")
		}
		if _, exists := r.fields[name]; exists {
			return nil, fmt.Errorf("registry: duplicate field %q", name)
		}
		r.names = append(r.names, name)
		r.fields[name] = d
	}
	return r, nil
}

// Empty returns a registry with no fields.
func Empty() *Registry {
	return &Registry{fields: map[string]*field.Descriptor{}}
}

// Merge builds a child registry: parent entries in base order followed by
// the child's own entries. A name declared by both keeps its original
// position and resolves to the most-derived descriptor. Inputs are never
// mutated.
func Merge(parents []*Registry, own *Registry) *Registry {
	merged := &Registry{fields: make(map[string]*field.Descriptor)}

	add := func(src *Registry) {
		for _, name := range src.names {
			if _, exists := merged.fields[name]; !exists {
				merged.names = append(merged.names, name)
			}
			merged.fields[name] = src.fields[name]
		}
	}

	for _, p := range parents {
		add(p)
	}
	if own != nil {
		add(own)
	}
	return merged
}

// Get returns the descriptor registered under name.
func (r *Registry) Get(name string) (*field.Descriptor, bool) {
	d, ok := r.fields[name]
	return d, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// Names returns the field names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered fields.
func (r *Registry) Len() int {
	return len(r.names)
}
