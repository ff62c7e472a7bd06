package model

import (
	"github.com/artpar/fieldprop/core/schema"
)

// Annotations is the ordered, immutable table of field name to field type
// for a class, merged across the hierarchy the same way the field registry
// is.
type Annotations struct {
	names []string
	types map[string]schema.FieldType
}

// NewAnnotations builds an annotation table from ordered names and their
// types. Inputs are copied.
func NewAnnotations(names []string, types map[string]schema.FieldType) *Annotations {
	a := &Annotations{
		names: make([]string, len(names)),
		types: make(map[string]schema.FieldType, len(types)),
	}
	copy(a.names, names)
	for k, v := range types {
		a.types[k] = v
	}
	return a
}

// EmptyAnnotations returns an annotation table with no entries.
func EmptyAnnotations() *Annotations {
	return &Annotations{types: map[string]schema.FieldType{}}
}

// MergeAnnotations combines parent tables in base order with the child's
// own table, most-derived-wins, original position kept.
func MergeAnnotations(parents []*Annotations, own *Annotations) *Annotations {
	merged := &Annotations{types: make(map[string]schema.FieldType)}

	add := func(src *Annotations) {
		for _, name := range src.names {
			if _, exists := merged.types[name]; !exists {
				merged.names = append(merged.names, name)
			}
			merged.types[name] = src.types[name]
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

// Get returns the annotated type for name.
func (a *Annotations) Get(name string) (schema.FieldType, bool) {
	t, ok := a.types[name]
	return t, ok
}

// Names returns the annotated field names in declaration order.
func (a *Annotations) Names() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// Len returns the number of annotated fields.
func (a *Annotations) Len() int {
	return len(a.names)
}
