// Package storage persists model instances through their materialized
// maps. It is strictly a consumer of the serialization surface: the
// descriptor core has no dependency on it.
package storage

import (
	"context"

	"github.com/artpar/fieldprop/core/model"
)

// Store is the interface for instance persistence. Implementations
// include SQLite and in-memory stores.
type Store interface {
	// CreateTable creates a table for a model type, deriving columns
	// from the type's annotation table.
	CreateTable(ctx context.Context, t *model.Type) error

	// Save writes an instance's materialized map under a generated id.
	Save(ctx context.Context, m *model.Instance) (string, error)

	// Load reconstructs an instance by id. Values go through the type's
	// full instantiation path, so setters re-derive private slots.
	Load(ctx context.Context, t *model.Type, id string) (*model.Instance, error)

	// List returns the raw stored maps for a type, sorted by id.
	List(ctx context.Context, t *model.Type) ([]map[string]any, error)

	// Delete removes a stored instance.
	Delete(ctx context.Context, t *model.Type, id string) error
}
