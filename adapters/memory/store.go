// Package memory provides an in-memory instance store, useful for tests
// and for running without a database file.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/artpar/fieldprop/core/model"
	"github.com/artpar/fieldprop/core/storage"
)

// ErrNotFound is returned when a stored instance is not found.
var ErrNotFound = errors.New("not found")

// Store is an in-memory implementation of storage.Store. Records are
// keyed by type name, then by id.
type Store struct {
	mu      sync.RWMutex
	records map[string]map[string]map[string]any
}

var _ storage.Store = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{records: make(map[string]map[string]map[string]any)}
}

// CreateTable prepares storage for a model type.
func (s *Store) CreateTable(ctx context.Context, t *model.Type) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[t.Name()]; !ok {
		s.records[t.Name()] = make(map[string]map[string]any)
	}
	return nil
}

// Save stores a copy of an instance's materialized map under a
// generated id.
func (s *Store) Save(ctx context.Context, m *model.Instance) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := m.Type().Name()
	table, ok := s.records[name]
	if !ok {
		table = make(map[string]map[string]any)
		s.records[name] = table
	}

	id := uuid.New().String()
	table[id] = m.ToMap()
	return id, nil
}

// Load reconstructs an instance by id through the type's instantiation
// path.
func (s *Store) Load(ctx context.Context, t *model.Type, id string) (*model.Instance, error) {
	s.mu.RLock()
	record, ok := s.records[t.Name()][id]
	if ok {
		copied := make(map[string]any, len(record))
		for k, v := range record {
			copied[k] = v
		}
		record = copied
	}
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("load %s: id %q: %w", t.Name(), id, ErrNotFound)
	}
	return t.New(record)
}

// List returns the stored maps for a type, sorted by id. Each record
// carries its id.
func (s *Store) List(ctx context.Context, t *model.Type) ([]map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table := s.records[t.Name()]
	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		record := map[string]any{"id": id}
		for k, v := range table[id] {
			record[k] = v
		}
		results = append(results, record)
	}
	return results, nil
}

// Delete removes a stored instance.
func (s *Store) Delete(ctx context.Context, t *model.Type, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.records[t.Name()]
	if _, ok := table[id]; !ok {
		return fmt.Errorf("delete %s: id %q: %w", t.Name(), id, ErrNotFound)
	}
	delete(table, id)
	return nil
}
