package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/artpar/fieldprop/adapters/basesys"
	"github.com/artpar/fieldprop/core/field"
	"github.com/artpar/fieldprop/core/meta"
	"github.com/artpar/fieldprop/core/model"
	"github.com/artpar/fieldprop/core/schema"
)

func gadgetType(t *testing.T) *model.Type {
	t.Helper()

	count := field.Slot("_count", field.Config{Default: 0}).
		Setter(func(inst field.Instance, value any) error {
			return inst.SetSlot("_count", value)
		})

	ns := meta.NewNamespace().
		Declare("count", count).
		Declare("name", model.FieldDecl{Default: "gadget"}).
		Annotate("name", schema.FieldTypeString).
		Declare("tags", model.FieldDecl{DefaultFactory: func() any { return map[string]any{} }}).
		Annotate("tags", schema.FieldTypeJSON).
		Declare("created", model.FieldDecl{
			Default: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		}).
		Annotate("created", schema.FieldTypeTimestamp)

	builder, err := meta.New(meta.Config{System: basesys.New()})
	if err != nil {
		t.Fatalf("meta.New() error = %v", err)
	}
	typ, err := builder.Build("gadget", nil, ns)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return typ
}

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	typ := gadgetType(t)

	if err := store.CreateTable(ctx, typ); err != nil {
		t.Fatalf("CreateTable() error = %v", err)
	}

	m, err := typ.New(map[string]any{
		"count": 7,
		"name":  "widget",
		"tags":  map[string]any{"color": "red"},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	id, err := store.Save(ctx, m)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if id == "" {
		t.Fatal("Save() should return a generated id")
	}

	loaded, err := store.Load(ctx, typ, id)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got := loaded.ToMap()
	if got["count"] != 7 {
		t.Errorf("count = %v, want 7", got["count"])
	}
	if got["name"] != "widget" {
		t.Errorf("name = %v, want widget", got["name"])
	}
	if diff := cmp.Diff(map[string]any{"color": "red"}, got["tags"]); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	created, ok := got["created"].(time.Time)
	if !ok {
		t.Fatalf("created = %T, want time.Time", got["created"])
	}
	if !created.Equal(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("created = %v, want the stored timestamp", created)
	}

	// Loading re-runs the setter, so the private slot is rebuilt too.
	v, err := loaded.Get("count")
	if err != nil {
		t.Fatalf("Get(count) error = %v", err)
	}
	if v != 7 {
		t.Errorf("Get(count) = %v, want 7", v)
	}
}

func TestSQLiteStore_LoadMissing(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	typ := gadgetType(t)

	if err := store.CreateTable(ctx, typ); err != nil {
		t.Fatalf("CreateTable() error = %v", err)
	}
	_, err := store.Load(ctx, typ, "nope")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Load() error = %v, want not found", err)
	}
}

func TestSQLiteStore_List(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	typ := gadgetType(t)

	if err := store.CreateTable(ctx, typ); err != nil {
		t.Fatalf("CreateTable() error = %v", err)
	}

	for _, name := range []string{"first", "second"} {
		m, err := typ.New(map[string]any{"name": name})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if _, err := store.Save(ctx, m); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	records, err := store.List(ctx, typ)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("List() returned %d records, want 2", len(records))
	}

	names := map[any]bool{}
	for _, record := range records {
		if record["id"] == nil {
			t.Error("records should carry their id")
		}
		names[record["name"]] = true
	}
	if !names["first"] || !names["second"] {
		t.Errorf("List() names = %v, want first and second", names)
	}
}

func TestSQLiteStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	typ := gadgetType(t)

	if err := store.CreateTable(ctx, typ); err != nil {
		t.Fatalf("CreateTable() error = %v", err)
	}

	m, err := typ.New(nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	id, err := store.Save(ctx, m)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := store.Delete(ctx, typ, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, typ, id); err == nil {
		t.Error("Delete() of a removed id should fail")
	}
}
