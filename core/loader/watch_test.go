package loader

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/artpar/fieldprop/core/model"
)

func TestNewWatcher_InitialBuild(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "shape.yaml"), shapeYAML)

	w, err := NewWatcher(dir, newCatalog(t, nil), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if _, ok := w.catalog.Type("shape"); !ok {
		t.Error("NewWatcher() should build the catalog immediately")
	}
}

func TestNewWatcher_InitialBuildFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "broken.yaml"), "model: [broken\n")

	if _, err := NewWatcher(dir, newCatalog(t, nil), zerolog.Nop()); err == nil {
		t.Error("NewWatcher() should fail when the initial build fails")
	}
}

func TestWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "shape.yaml"), shapeYAML)

	catalog := newCatalog(t, rectangleFuncs())
	w, err := NewWatcher(dir, catalog, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	var notified map[string]*model.Type
	w.OnChange(func(types map[string]*model.Type) { notified = types })

	writeFile(t, filepath.Join(dir, "rectangle.yaml"), rectangleYAML)
	if err := w.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if _, ok := catalog.Type("rectangle"); !ok {
		t.Error("Reload() should pick up the new definition")
	}
	if len(notified) != 2 {
		t.Errorf("OnChange received %d types, want 2", len(notified))
	}
}

func TestWatcher_ReloadKeepsOldOnFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "shape.yaml"), shapeYAML)

	catalog := newCatalog(t, nil)
	w, err := NewWatcher(dir, catalog, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	writeFile(t, filepath.Join(dir, "broken.yaml"), "model: [broken\n")
	if err := w.Reload(); err == nil {
		t.Fatal("Reload() with a broken definition should fail")
	}
	if _, ok := catalog.Type("shape"); !ok {
		t.Error("a failed reload must keep the previous catalog")
	}
}

func TestIsDefinitionFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/models/shape.yaml", true},
		{"/models/shape.yml", true},
		{"/models/shape.json", false},
		{"/models/.shape.yaml.swp", false},
	}
	for _, tt := range tests {
		if got := isDefinitionFile(tt.path); got != tt.want {
			t.Errorf("isDefinitionFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
