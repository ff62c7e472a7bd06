// Package meta implements class construction for models with computed
// fields: a registration pass that scans the class namespace for
// descriptors and augments it, followed by delegation to the model
// system's own class builder.
package meta

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/artpar/fieldprop/core/field"
	"github.com/artpar/fieldprop/core/model"
	"github.com/artpar/fieldprop/core/registry"
)

// ErrNoType is returned when a descriptor field has neither a resolvable
// default to infer a type from nor an explicit annotation.
var ErrNoType = errors.New("cannot infer field type: no default value and no annotation")

// DefinitionError reports a class that could not be constructed. It is
// raised during Build, never deferred to instantiation.
type DefinitionError struct {
	Class string
	Field string
	Err   error
}

func (e *DefinitionError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("define %s: %v", e.Class, e.Err)
	}
	return fmt.Sprintf("define %s: field %q: %v", e.Class, e.Field, e.Err)
}

func (e *DefinitionError) Unwrap() error { return e.Err }

// Config configures a class builder.
type Config struct {
	// System is the model system delegate. Required.
	System model.System

	// Logger for definition-time events.
	Logger zerolog.Logger

	// Metrics records build and write activity. Defaults to a no-op.
	Metrics model.Recorder
}

// Builder constructs model types. It wraps the model system's class
// builder with the descriptor registration pass.
type Builder struct {
	sys      model.System
	logger   zerolog.Logger
	recorder model.Recorder
}

// New creates a builder.
func New(cfg Config) (*Builder, error) {
	if cfg.System == nil {
		return nil, errors.New("meta: config requires a model system")
	}
	b := &Builder{
		sys:      cfg.System,
		logger:   cfg.Logger,
		recorder: cfg.Metrics,
	}
	if b.recorder == nil {
		b.recorder = model.NopRecorder{}
	}
	return b, nil
}

// Build constructs a model type from a class namespace. The registration
// pass runs first and mutates only the namespace; the model system's
// builder then produces the finalized class; finally the field registry
// and annotation table are merged across the hierarchy.
func (b *Builder) Build(name string, bases []*model.Type, ns *Namespace) (*model.Type, error) {
	descriptors, err := b.register(name, ns)
	if err != nil {
		return nil, err
	}

	baseClasses := make([]model.Class, len(bases))
	for i, base := range bases {
		baseClasses[i] = base.Class()
	}

	class, err := b.sys.BuildClass(name, baseClasses, ns.spec())
	if err != nil {
		return nil, &DefinitionError{Class: name, Err: err}
	}

	own, err := registry.New(descriptors)
	if err != nil {
		return nil, &DefinitionError{Class: name, Err: err}
	}

	parentRegistries := make([]*registry.Registry, len(bases))
	parentAnnotations := make([]*model.Annotations, len(bases))
	for i, base := range bases {
		parentRegistries[i] = base.Registry()
		parentAnnotations[i] = base.Annotations()
	}

	reg := registry.Merge(parentRegistries, own)
	ann := model.MergeAnnotations(parentAnnotations, b.ownAnnotations(ns))

	t := model.NewType(name, bases, reg, ann, class,
		model.WithLogger(b.logger),
		model.WithRecorder(b.recorder),
	)

	b.recorder.TypeBuilt(name, reg.Len())
	b.logger.Debug().
		Str("type", name).
		Int("fields", reg.Len()).
		Int("bases", len(bases)).
		Msg("model type built")

	return t, nil
}

// register is the first build phase. It scans the namespace in
// declaration order and, for each descriptor: validates its constraint
// set, binds it to its declared name, synthesizes a type annotation from
// the default when none is declared, and synthesizes the backing private
// attribute when the class body did not declare it. It mutates only the
// namespace.
func (b *Builder) register(class string, ns *Namespace) ([]*field.Descriptor, error) {
	var descriptors []*field.Descriptor

	for _, name := range ns.Names() {
		entry, _ := ns.Entry(name)
		d, ok := entry.(*field.Descriptor)
		if !ok {
			continue
		}

		if err := b.sys.ValidateField(name, d.Schema()); err != nil {
			return nil, &DefinitionError{Class: class, Field: name, Err: err}
		}

		if err := d.Bind(name); err != nil {
			return nil, &DefinitionError{Class: class, Field: name, Err: err}
		}

		if !ns.Annotated(name) {
			t, ok := d.InferType()
			if !ok {
				return nil, &DefinitionError{Class: class, Field: name, Err: ErrNoType}
			}
			ns.Annotate(name, t)
		}

		if private := d.PrivateName(); private != "" {
			// Idempotent: never overwrite an explicit declaration.
			if _, declared := ns.Entry(private); !declared {
				attr := model.PrivateAttr{DefaultFactory: d.Factory()}
				if def := d.Default(); !field.IsUnset(def) {
					attr.Default = def
				}
				ns.Declare(private, attr)
			}
		}

		descriptors = append(descriptors, d)
	}

	return descriptors, nil
}

// ownAnnotations snapshots the namespace's annotations after the
// registration pass, in annotation order.
func (b *Builder) ownAnnotations(ns *Namespace) *model.Annotations {
	spec := ns.spec()
	return model.NewAnnotations(spec.AnnotationNames, spec.Annotations)
}
