package basesys

import (
	"fmt"

	"github.com/artpar/fieldprop/core/model"
	"github.com/artpar/fieldprop/core/schema"
)

// fieldSpec is the finalized definition of a serializable field.
type fieldSpec struct {
	typ        schema.FieldType
	def        any
	hasDefault bool
	factory    func() any
	cons       schema.Constraints
}

func (fs fieldSpec) required() bool {
	return !fs.hasDefault && fs.factory == nil
}

// slotSpec is the finalized definition of a private storage slot.
type slotSpec struct {
	def        any
	hasDefault bool
	factory    func() any
}

// Class is a finalized class: ordered field and slot specs merged across
// the hierarchy. Immutable after BuildClass.
type Class struct {
	name string

	fieldOrder []string
	fields     map[string]fieldSpec

	slotOrder []string
	slots     map[string]slotSpec
}

var _ model.Class = (*Class)(nil)

func (c *Class) putField(name string, fs fieldSpec) {
	if _, exists := c.fields[name]; !exists {
		c.fieldOrder = append(c.fieldOrder, name)
	}
	c.fields[name] = fs
}

func (c *Class) putSlot(name string, ss slotSpec) {
	if _, exists := c.slots[name]; !exists {
		c.slotOrder = append(c.slotOrder, name)
	}
	c.slots[name] = ss
}

// NewState creates per-instance state. Defaults populate the materialized
// map and private slots; provided initial values pass through the
// validated write path; a field with neither fails instantiation.
func (c *Class) NewState(initial map[string]any) (model.State, error) {
	for name := range initial {
		if _, ok := c.fields[name]; !ok {
			return nil, fmt.Errorf("class %s: %q: %w", c.name, name, ErrUnknownField)
		}
	}

	st := &state{
		class:    c,
		values:   make(map[string]any, len(c.fieldOrder)),
		slots:    make(map[string]any, len(c.slotOrder)),
		declared: make(map[string]bool, len(c.slotOrder)),
	}

	for _, name := range c.fieldOrder {
		fs := c.fields[name]

		if value, ok := initial[name]; ok {
			checked, err := c.checkValue(name, fs, value)
			if err != nil {
				return nil, err
			}
			st.values[name] = checked
			continue
		}

		switch {
		case fs.hasDefault:
			st.values[name] = fs.def
		case fs.factory != nil:
			st.values[name] = fs.factory()
		default:
			return nil, fmt.Errorf("class %s: %q: %w", c.name, name, ErrRequired)
		}
	}

	for _, name := range c.slotOrder {
		ss := c.slots[name]
		st.declared[name] = true
		switch {
		case ss.hasDefault:
			st.slots[name] = ss.def
		case ss.factory != nil:
			st.slots[name] = ss.factory()
		}
	}

	return st, nil
}

// checkValue runs the standard validation for a single write: coercion to
// the field's type, then constraint enforcement against the coerced
// value.
func (c *Class) checkValue(name string, fs fieldSpec, value any) (any, error) {
	coerced, err := schema.Coerce(value, fs.typ)
	if err != nil {
		return nil, fmt.Errorf("class %s: field %q: %w", c.name, name, err)
	}
	if result := fs.cons.Check(name, coerced); !result.Valid {
		return nil, fmt.Errorf("class %s: %w", c.name, result)
	}
	return coerced, nil
}
