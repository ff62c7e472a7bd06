package loader

import (
	"sync"

	"github.com/artpar/fieldprop/core/field"
)

// Funcs manages the Go functions that YAML definitions reference by name
// in getter:, setter:, and deleter: directives.
type Funcs struct {
	mu       sync.RWMutex
	getters  map[string]field.Getter
	setters  map[string]field.Setter
	deleters map[string]field.Deleter
}

// NewFuncs creates an empty function registry.
func NewFuncs() *Funcs {
	return &Funcs{
		getters:  make(map[string]field.Getter),
		setters:  make(map[string]field.Setter),
		deleters: make(map[string]field.Deleter),
	}
}

// RegisterGetter adds a named getter.
func (f *Funcs) RegisterGetter(name string, fn field.Getter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getters[name] = fn
}

// RegisterSetter adds a named setter.
func (f *Funcs) RegisterSetter(name string, fn field.Setter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setters[name] = fn
}

// RegisterDeleter adds a named deleter.
func (f *Funcs) RegisterDeleter(name string, fn field.Deleter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleters[name] = fn
}

// Getter looks up a named getter.
func (f *Funcs) Getter(name string) (field.Getter, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	fn, ok := f.getters[name]
	return fn, ok
}

// Setter looks up a named setter.
func (f *Funcs) Setter(name string) (field.Setter, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	fn, ok := f.setters[name]
	return fn, ok
}

// Deleter looks up a named deleter.
func (f *Funcs) Deleter(name string) (field.Deleter, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	fn, ok := f.deleters[name]
	return fn, ok
}
