package meta

import (
	"github.com/artpar/fieldprop/core/model"
	"github.com/artpar/fieldprop/core/schema"
)

// Namespace is an ordered class body: named declarations (descriptors,
// private attributes, literal defaults) plus type annotations. Declaring
// a name again keeps its original position and replaces its entry, which
// is how decorator-style chained declarations compose onto one
// descriptor.
type Namespace struct {
	names   []string
	entries map[string]any

	annNames    []string
	annotations map[string]schema.FieldType
}

// NewNamespace creates an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		entries:     make(map[string]any),
		annotations: make(map[string]schema.FieldType),
	}
}

// Declare adds a named entry. Returns the namespace for chaining.
func (ns *Namespace) Declare(name string, value any) *Namespace {
	if _, exists := ns.entries[name]; !exists {
		ns.names = append(ns.names, name)
	}
	ns.entries[name] = value
	return ns
}

// Annotate records a type annotation for name. Returns the namespace for
// chaining.
func (ns *Namespace) Annotate(name string, t schema.FieldType) *Namespace {
	if _, exists := ns.annotations[name]; !exists {
		ns.annNames = append(ns.annNames, name)
	}
	ns.annotations[name] = t
	return ns
}

// Entry returns the declared entry for name.
func (ns *Namespace) Entry(name string) (any, bool) {
	v, ok := ns.entries[name]
	return v, ok
}

// Annotated reports whether name carries a type annotation.
func (ns *Namespace) Annotated(name string) bool {
	_, ok := ns.annotations[name]
	return ok
}

// Names returns the declared entry names in declaration order.
func (ns *Namespace) Names() []string {
	out := make([]string, len(ns.names))
	copy(out, ns.names)
	return out
}

// spec snapshots the namespace into the form handed to the model system's
// class builder.
func (ns *Namespace) spec() model.ClassSpec {
	spec := model.ClassSpec{
		Names:           make([]string, len(ns.names)),
		Entries:         make(map[string]any, len(ns.entries)),
		AnnotationNames: make([]string, len(ns.annNames)),
		Annotations:     make(map[string]schema.FieldType, len(ns.annotations)),
	}
	copy(spec.Names, ns.names)
	copy(spec.AnnotationNames, ns.annNames)
	for k, v := range ns.entries {
		spec.Entries[k] = v
	}
	for k, v := range ns.annotations {
		spec.Annotations[k] = v
	}
	return spec
}
