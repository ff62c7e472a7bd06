// Package basesys is the reference model system: an in-memory
// implementation of class construction, validated attribute writes, and
// the per-instance materialized map.
package basesys

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/artpar/fieldprop/core/field"
	"github.com/artpar/fieldprop/core/model"
	"github.com/artpar/fieldprop/core/schema"
)

var (
	// ErrNoAttribute is the system's missing-attribute error.
	ErrNoAttribute = errors.New("no such attribute")

	// ErrUnknownField is returned for writes to names not in the class.
	ErrUnknownField = errors.New("unknown field")

	// ErrNoSlot is returned for writes to undeclared private slots.
	ErrNoSlot = errors.New("private slot not declared")

	// ErrRequired is returned when instantiation is missing a value for a
	// field with no default.
	ErrRequired = errors.New("field is required")
)

// System implements the model.System contract in memory.
type System struct {
	logger zerolog.Logger
}

var _ model.System = (*System)(nil)

// New creates a system with logging disabled.
func New() *System {
	return &System{logger: zerolog.Nop()}
}

// NewWithLogger creates a system that logs class construction.
func NewWithLogger(logger zerolog.Logger) *System {
	return &System{logger: logger}
}

// ValidateField checks a field's constraint configuration.
func (s *System) ValidateField(name string, cons schema.Constraints) error {
	return cons.CheckConfig(name)
}

// BuildClass finalizes a class: base class specs are merged in base
// order, then the namespace's annotated fields and private attributes are
// layered on top, most-derived-wins.
func (s *System) BuildClass(name string, bases []model.Class, spec model.ClassSpec) (model.Class, error) {
	cls := &Class{
		name:   name,
		fields: make(map[string]fieldSpec),
		slots:  make(map[string]slotSpec),
	}

	for _, base := range bases {
		parent, ok := base.(*Class)
		if !ok {
			return nil, fmt.Errorf("class %s: base class %T was not built by this system", name, base)
		}
		for _, fname := range parent.fieldOrder {
			cls.putField(fname, parent.fields[fname])
		}
		for _, sname := range parent.slotOrder {
			cls.putSlot(sname, parent.slots[sname])
		}
	}

	for _, fname := range spec.AnnotationNames {
		ft := spec.Annotations[fname]
		if !ft.Valid() {
			return nil, fmt.Errorf("class %s: field %q: invalid type %q", name, fname, ft)
		}

		fs := fieldSpec{typ: ft}
		if entry, ok := spec.Entries[fname]; ok {
			switch v := entry.(type) {
			case *field.Descriptor:
				if def := v.Default(); !field.IsUnset(def) {
					fs.def, fs.hasDefault = def, true
				}
				fs.factory = v.Factory()
				fs.cons = v.Schema()
			case model.PrivateAttr:
				return nil, fmt.Errorf("class %s: %q: a private attribute cannot be annotated as a field", name, fname)
			case model.FieldDecl:
				if v.Default != nil {
					fs.def, fs.hasDefault = v.Default, true
				}
				fs.factory = v.DefaultFactory
				fs.cons = v.Constraints
			default:
				if v != nil {
					fs.def, fs.hasDefault = v, true
				}
			}
		}
		cls.putField(fname, fs)
	}

	for _, ename := range spec.Names {
		attr, ok := spec.Entries[ename].(model.PrivateAttr)
		if !ok {
			continue
		}
		ss := slotSpec{factory: attr.DefaultFactory}
		if attr.Default != nil && !field.IsUnset(attr.Default) {
			ss.def, ss.hasDefault = attr.Default, true
		}
		cls.putSlot(ename, ss)
	}

	s.logger.Debug().
		Str("class", name).
		Int("fields", len(cls.fieldOrder)).
		Int("slots", len(cls.slotOrder)).
		Msg("class built")

	return cls, nil
}
