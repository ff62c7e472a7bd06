// Package loader builds model types from declarative YAML definitions.
// Custom getter/setter/deleter logic stays in Go and is referenced by
// name through a function registry.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/artpar/fieldprop/core/field"
	"github.com/artpar/fieldprop/core/meta"
	"github.com/artpar/fieldprop/core/model"
	"github.com/artpar/fieldprop/core/schema"
)

// Definition is a declarative model description.
//
//	model: rectangle
//	bases: [shape]
//	fields:
//	  width:  { type: float, default: 1, slot: _width, setter: set_width, ge: 0 }
//	  height: { type: float, default: 1, slot: _height, setter: set_height, ge: 0 }
//	  area:   { type: float, default: 0, getter: rect_area }
type Definition struct {
	Model  string              `yaml:"model"`
	Bases  []string            `yaml:"bases,omitempty"`
	Fields map[string]FieldDef `yaml:"fields"`
}

// FieldDef describes a single field. A field with a slot, getter, setter,
// or deleter becomes a descriptor; otherwise it is an ordinary field.
type FieldDef struct {
	Type    string `yaml:"type,omitempty"`
	Default any    `yaml:"default,omitempty"`

	Slot    string `yaml:"slot,omitempty"`
	Getter  string `yaml:"getter,omitempty"`
	Setter  string `yaml:"setter,omitempty"`
	Deleter string `yaml:"deleter,omitempty"`

	// Constraint keys, inlined so definitions read flat.
	Gt         *float64 `yaml:"gt,omitempty"`
	Ge         *float64 `yaml:"ge,omitempty"`
	Lt         *float64 `yaml:"lt,omitempty"`
	Le         *float64 `yaml:"le,omitempty"`
	MultipleOf *float64 `yaml:"multiple_of,omitempty"`
	MinLength  *int     `yaml:"min_length,omitempty"`
	MaxLength  *int     `yaml:"max_length,omitempty"`
	Pattern    string   `yaml:"pattern,omitempty"`
	Enum       []string `yaml:"enum,omitempty"`
}

func (fd FieldDef) constraints() schema.Constraints {
	return schema.Constraints{
		Gt:         fd.Gt,
		Ge:         fd.Ge,
		Lt:         fd.Lt,
		Le:         fd.Le,
		MultipleOf: fd.MultipleOf,
		MinLength:  fd.MinLength,
		MaxLength:  fd.MaxLength,
		Pattern:    fd.Pattern,
		Enum:       fd.Enum,
	}
}

func (fd FieldDef) isDescriptor() bool {
	return fd.Slot != "" || fd.Getter != "" || fd.Setter != "" || fd.Deleter != ""
}

// Parse parses a model definition from YAML bytes.
func Parse(data []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := validate(def); err != nil {
		return Definition{}, fmt.Errorf("validate model %q: %w", def.Model, err)
	}
	return def, nil
}

// ParseFile parses a model definition from a YAML file.
func ParseFile(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("read file %s: %w", path, err)
	}
	return Parse(data)
}

// ParseDir parses all model definitions from a directory, including
// subdirectories.
func ParseDir(dir string) ([]Definition, error) {
	var defs []Definition

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			sub, err := ParseDir(path)
			if err != nil {
				return nil, err
			}
			defs = append(defs, sub...)
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		def, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	return defs, nil
}

// validate checks a definition for structural problems. Function names
// are resolved later, at build time.
func validate(def Definition) error {
	var errs []string

	if def.Model == "" {
		errs = append(errs, "model name is required")
	} else if !isValidIdentifier(def.Model) {
		errs = append(errs, fmt.Sprintf("model name %q is not a valid identifier", def.Model))
	}

	if len(def.Fields) == 0 {
		errs = append(errs, "fields must have at least one entry")
	}

	for name, fd := range def.Fields {
		if !isValidIdentifier(name) {
			errs = append(errs, fmt.Sprintf("field name %q is not a valid identifier", name))
		}
		if fd.Type != "" && !schema.FieldType(fd.Type).Valid() {
			errs = append(errs, fmt.Sprintf("field %q: unknown type %q", name, fd.Type))
		}
		if fd.Type == "" && fd.Default == nil && !fd.isDescriptor() {
			errs = append(errs, fmt.Sprintf("field %q: cannot infer type: no type and no default", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Catalog builds and holds the model types produced from a set of
// definitions. Build replaces the held types atomically, so a failed
// rebuild keeps the previous catalog intact.
type Catalog struct {
	mu      sync.RWMutex
	builder *meta.Builder
	funcs   *Funcs
	types   map[string]*model.Type
}

// NewCatalog creates a catalog. funcs may be nil when no definition
// references named functions.
func NewCatalog(builder *meta.Builder, funcs *Funcs) *Catalog {
	if funcs == nil {
		funcs = NewFuncs()
	}
	return &Catalog{
		builder: builder,
		funcs:   funcs,
		types:   make(map[string]*model.Type),
	}
}

// Type returns a built model type by name.
func (c *Catalog) Type(name string) (*model.Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.types[name]
	return t, ok
}

// Names returns the names of all built types, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.types))
	for name := range c.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs types for all definitions, resolving bases across the
// set in dependency order. On success the catalog's types are replaced;
// on failure the previous types are kept.
func (c *Catalog) Build(defs []Definition) (map[string]*model.Type, error) {
	pending := make(map[string]Definition, len(defs))
	for _, def := range defs {
		if _, dup := pending[def.Model]; dup {
			return nil, fmt.Errorf("duplicate model %q", def.Model)
		}
		pending[def.Model] = def
	}

	built := make(map[string]*model.Type, len(defs))

	for len(pending) > 0 {
		progress := false

		for _, name := range sortedKeys(pending) {
			def := pending[name]
			if !basesReady(def, built) {
				continue
			}
			t, err := c.buildOne(def, built)
			if err != nil {
				return nil, err
			}
			built[name] = t
			delete(pending, name)
			progress = true
		}

		if !progress {
			return nil, fmt.Errorf("unresolved bases for models: %s",
				strings.Join(sortedKeys(pending), ", "))
		}
	}

	c.mu.Lock()
	c.types = built
	c.mu.Unlock()

	out := make(map[string]*model.Type, len(built))
	for k, v := range built {
		out[k] = v
	}
	return out, nil
}

func (c *Catalog) buildOne(def Definition, built map[string]*model.Type) (*model.Type, error) {
	ns := meta.NewNamespace()

	for _, name := range sortedFieldNames(def) {
		fd := def.Fields[name]

		if !fd.isDescriptor() {
			if err := c.declareOrdinary(ns, name, fd); err != nil {
				return nil, fmt.Errorf("model %q: %w", def.Model, err)
			}
			continue
		}

		d, err := c.buildDescriptor(name, fd)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", def.Model, err)
		}
		ns.Declare(name, d)
		if fd.Type != "" {
			ns.Annotate(name, schema.FieldType(fd.Type))
		}
	}

	bases := make([]*model.Type, len(def.Bases))
	for i, base := range def.Bases {
		bases[i] = built[base]
	}

	return c.builder.Build(def.Model, bases, ns)
}

func (c *Catalog) declareOrdinary(ns *meta.Namespace, name string, fd FieldDef) error {
	ft := schema.FieldType(fd.Type)
	if fd.Type == "" {
		ft = schema.TypeOf(fd.Default)
	}
	ns.Annotate(name, ft)
	ns.Declare(name, model.FieldDecl{
		Default:     fd.Default,
		Constraints: fd.constraints(),
	})
	return nil
}

func (c *Catalog) buildDescriptor(name string, fd FieldDef) (*field.Descriptor, error) {
	cfg := field.Config{
		Default: fd.Default,
		Schema:  fd.constraints(),
	}

	var d *field.Descriptor
	if fd.Slot != "" {
		d = field.Slot(fd.Slot, cfg)
	} else {
		d = field.New(cfg)
	}

	if fd.Getter != "" {
		fn, ok := c.funcs.Getter(fd.Getter)
		if !ok {
			return nil, fmt.Errorf("field %q: getter %q not registered", name, fd.Getter)
		}
		d.Getter(fn)
	}
	if fd.Setter != "" {
		fn, ok := c.funcs.Setter(fd.Setter)
		if !ok {
			return nil, fmt.Errorf("field %q: setter %q not registered", name, fd.Setter)
		}
		d.Setter(fn)
	}
	if fd.Deleter != "" {
		fn, ok := c.funcs.Deleter(fd.Deleter)
		if !ok {
			return nil, fmt.Errorf("field %q: deleter %q not registered", name, fd.Deleter)
		}
		d.Deleter(fn)
	}

	return d, nil
}

func basesReady(def Definition, built map[string]*model.Type) bool {
	for _, base := range def.Bases {
		if _, ok := built[base]; !ok {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]Definition) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedFieldNames returns field names in a stable order. YAML maps do
// not preserve declaration order, so the catalog sorts alphabetically.
func sortedFieldNames(def Definition) []string {
	names := make([]string, 0, len(def.Fields))
	for name := range def.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// isValidIdentifier checks if a string is a valid identifier.
func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		if i == 0 {
			if !isLetter(c) && c != '_' {
				return false
			}
		} else {
			if !isLetter(c) && !isDigit(c) && c != '_' {
				return false
			}
		}
	}
	return true
}

func isLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}
