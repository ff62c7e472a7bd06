package model

import (
	"github.com/artpar/fieldprop/core/schema"
)

// PrivateAttr declares a private storage slot in a class namespace. Slots
// back descriptor storage and are initialized per instance from Default or
// DefaultFactory. A nil Default with a nil factory declares the slot
// without a value; reading it before a write yields the system's
// missing-attribute error.
type PrivateAttr struct {
	Default        any
	DefaultFactory func() any
}

// FieldDecl declares an ordinary field's default and constraints as a
// namespace entry, without descriptor logic. A nil Default with a nil
// factory makes the field required at instantiation.
type FieldDecl struct {
	Default        any
	DefaultFactory func() any
	Constraints    schema.Constraints
}

// ClassSpec is the augmented namespace handed to the model system's class
// builder: declaration-ordered entries (descriptors, private attributes,
// literal defaults) plus type annotations in their own order.
type ClassSpec struct {
	Names   []string
	Entries map[string]any

	AnnotationNames []string
	Annotations     map[string]schema.FieldType
}

// System is the contract with the external validation/serialization
// framework that owns class construction, attribute validation, and the
// materialized map.
type System interface {
	// ValidateField checks a field's constraint set at class-definition
	// time. A failure aborts class construction.
	ValidateField(name string, cons schema.Constraints) error

	// BuildClass finalizes a class from the augmented namespace. Base
	// classes are given in declaration order.
	BuildClass(name string, bases []Class, spec ClassSpec) (Class, error)
}

// Class is a finalized class produced by the system's builder.
type Class interface {
	// NewState creates per-instance state with defaults populated and the
	// provided initial values applied through the validated write path.
	NewState(initial map[string]any) (State, error)
}

// State is the system-owned per-instance state: the materialized map used
// for serialization plus the private slots backing descriptor storage.
type State interface {
	// SetAttr performs the standard validated write: type check, coercion,
	// constraint enforcement, then storage under name in the materialized
	// map. stored reports whether a value was actually stored.
	SetAttr(name string, value any) (stored bool, err error)

	// Store writes directly into the materialized map, bypassing
	// validation. Used by the refresh pass.
	Store(name string, value any)

	// Value reads the materialized map.
	Value(name string) (any, error)

	// Remove deletes a key from the materialized map.
	Remove(name string) error

	// Map returns a copy of the materialized map.
	Map() map[string]any

	// Slot reads a private slot.
	Slot(name string) (any, error)

	// SetSlot writes a declared private slot.
	SetSlot(name string, value any) error

	// ClearSlot removes a private slot's value.
	ClearSlot(name string) error
}

// Recorder observes descriptor activity for metrics collection.
type Recorder interface {
	TypeBuilt(typeName string, fields int)
	WriteApplied(typeName, field string)
	RefreshCompleted(typeName string, fields int)
	RefreshFailed(typeName string)
}

// NopRecorder discards all observations.
type NopRecorder struct{}

func (NopRecorder) TypeBuilt(string, int)       {}
func (NopRecorder) WriteApplied(string, string) {}
func (NopRecorder) RefreshCompleted(string, int) {}
func (NopRecorder) RefreshFailed(string)         {}
