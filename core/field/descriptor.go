// Package field implements descriptors: field specifications that combine
// validation metadata with custom getter/setter/deleter logic.
package field

import (
	"errors"
	"fmt"
	"strings"

	"github.com/artpar/fieldprop/core/schema"
)

// Access errors raised when a descriptor operation has no backing function.
var (
	ErrUnreadable   = errors.New("unreadable attribute")
	ErrNotWritable  = errors.New("can't set attribute")
	ErrNotDeletable = errors.New("can't delete attribute")

	// ErrBound is returned when a descriptor is bound to a second name.
	ErrBound = errors.New("descriptor already bound")

	// ErrNoSlot is returned when the synthesized getter runs without a
	// private slot name to read.
	ErrNoSlot = errors.New("no private slot configured")
)

type unset struct{}

func (unset) String() string { return "<unset>" }

// Unset marks the absence of a default value.
var Unset any = unset{}

// IsUnset reports whether v is the Unset sentinel.
func IsUnset(v any) bool {
	_, ok := v.(unset)
	return ok
}

// Instance is the surface a getter/setter/deleter sees: the private
// storage of the model instance it runs against.
type Instance interface {
	// Slot reads a private slot. Missing or undeclared slots return the
	// model system's missing-attribute error.
	Slot(name string) (any, error)

	// SetSlot writes a private slot. The slot must be declared.
	SetSlot(name string, value any) error

	// ClearSlot removes a private slot's value.
	ClearSlot(name string) error
}

// Getter computes a field's value from an instance.
type Getter func(inst Instance) (any, error)

// Setter applies a written value to an instance. It may write any private
// slot, including slots backing other fields.
type Setter func(inst Instance, value any) error

// Deleter removes a field's backing state from an instance.
type Deleter func(inst Instance) error

// Config carries the optional parts of a descriptor declaration.
// A nil Default means the field has no default value.
type Config struct {
	Get Getter
	Set Setter
	Del Deleter

	Default        any
	DefaultFactory func() any

	PublicName  string
	PrivateName string

	Schema schema.Constraints
}

// Descriptor is a field specification with custom access logic. It is
// created in a class declaration, bound to its attribute name during class
// construction, and consulted on every access to that field afterwards.
type Descriptor struct {
	public  string
	private string
	bound   bool

	get Getter
	set Setter
	del Deleter

	def     any
	factory func() any

	cons schema.Constraints
}

// New creates a descriptor from a config. When no getter is supplied, a
// default getter is synthesized that reads the private slot and falls back
// to the default value.
func New(cfg Config) *Descriptor {
	d := &Descriptor{
		public:  cfg.PublicName,
		private: cfg.PrivateName,
		get:     cfg.Get,
		set:     cfg.Set,
		del:     cfg.Del,
		def:     Unset,
		factory: cfg.DefaultFactory,
		cons:    cfg.Schema,
	}
	if cfg.Default != nil {
		d.def = cfg.Default
	}
	if d.get == nil {
		d.get = d.slotGetter
	}
	return d
}

// Slot creates a descriptor backed by the named private slot, the string
// shorthand form of a declaration. The getter reads the slot, falling back
// to the default value when the slot is absent. When no public name is
// configured and the slot name starts with exactly one underscore (not
// two), the public name defaults to the slot name with that underscore
// stripped.
func Slot(private string, cfg Config) *Descriptor {
	cfg.PrivateName = private
	cfg.Get = nil
	d := New(cfg)

	if d.public == "" && strings.HasPrefix(private, "_") && !strings.HasPrefix(private, "__") {
		d.public = strings.TrimPrefix(private, "_")
	}
	return d
}

// slotGetter is the synthesized default getter: read the private slot,
// fall back to the default, otherwise propagate the missing-attribute
// error.
func (d *Descriptor) slotGetter(inst Instance) (any, error) {
	if d.private == "" {
		return nil, fmt.Errorf("field %q: %w", d.public, ErrNoSlot)
	}
	v, err := inst.Slot(d.private)
	if err != nil {
		if def := d.DefaultValue(); !IsUnset(def) {
			return def, nil
		}
		return nil, err
	}
	return v, nil
}

// Bind assigns the descriptor's public name. It is invoked exactly once
// per class by the registration pass; binding an already-bound descriptor
// to a different name fails. Bind never alters the private name.
func (d *Descriptor) Bind(name string) error {
	if d.bound {
		if name == d.public {
			return nil
		}
		return fmt.Errorf("cannot rebind %q as %q: %w", d.public, name, ErrBound)
	}
	d.public = name
	d.bound = true
	return nil
}

// PublicName returns the field's public attribute name.
func (d *Descriptor) PublicName() string { return d.public }

// PrivateName returns the backing slot name, empty when the descriptor
// has no private storage.
func (d *Descriptor) PrivateName() string { return d.private }

// Default returns the configured default, Unset when absent. Use
// DefaultValue for the resolved value.
func (d *Descriptor) Default() any { return d.def }

// Factory returns the configured default factory, nil when absent.
func (d *Descriptor) Factory() func() any { return d.factory }

// Schema returns the validation constraint set.
func (d *Descriptor) Schema() schema.Constraints { return d.cons }

// Readable reports whether the descriptor has a getter.
func (d *Descriptor) Readable() bool { return d.get != nil }

// Writable reports whether the descriptor has a setter.
func (d *Descriptor) Writable() bool { return d.set != nil }

// Deletable reports whether the descriptor has a deleter.
func (d *Descriptor) Deletable() bool { return d.del != nil }

// Read returns the field's current value for an instance.
func (d *Descriptor) Read(inst Instance) (any, error) {
	if d.get == nil {
		return nil, fmt.Errorf("field %q: %w", d.public, ErrUnreadable)
	}
	return d.get(inst)
}

// Write applies a value to an instance through the setter.
func (d *Descriptor) Write(inst Instance, value any) error {
	if d.set == nil {
		return fmt.Errorf("field %q: %w", d.public, ErrNotWritable)
	}
	return d.set(inst, value)
}

// Delete removes the field's backing state through the deleter.
func (d *Descriptor) Delete(inst Instance) error {
	if d.del == nil {
		return fmt.Errorf("field %q: %w", d.public, ErrNotDeletable)
	}
	return d.del(inst)
}

// DefaultValue resolves the default: the literal default if set, else the
// factory's product, else Unset.
func (d *Descriptor) DefaultValue() any {
	if !IsUnset(d.def) {
		return d.def
	}
	if d.factory != nil {
		return d.factory()
	}
	return Unset
}

// InferType returns the field type of the resolved default value. ok is
// false when no default resolves, in which case the field needs an
// explicit type annotation.
func (d *Descriptor) InferType() (schema.FieldType, bool) {
	def := d.DefaultValue()
	if IsUnset(def) {
		return "", false
	}
	return schema.TypeOf(def), true
}

// Getter attaches fn and returns the descriptor, so repeated same-name
// declarations compose onto one descriptor.
func (d *Descriptor) Getter(fn Getter) *Descriptor {
	d.get = fn
	return d
}

// Setter attaches fn and returns the descriptor.
func (d *Descriptor) Setter(fn Setter) *Descriptor {
	d.set = fn
	return d
}

// Deleter attaches fn and returns the descriptor.
func (d *Descriptor) Deleter(fn Deleter) *Descriptor {
	d.del = fn
	return d
}
