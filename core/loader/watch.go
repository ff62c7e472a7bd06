package loader

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/artpar/fieldprop/core/model"
)

// Watcher rebuilds a catalog when definition files in a directory change.
// A rebuild produces new immutable types; existing types and their
// instances are never mutated. A failed rebuild keeps the previous
// catalog.
type Watcher struct {
	mu       sync.Mutex
	dir      string
	catalog  *Catalog
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
	onChange []func(map[string]*model.Type)
	stopCh   chan struct{}
}

// NewWatcher creates a watcher and performs the initial build.
func NewWatcher(dir string, catalog *Catalog, logger zerolog.Logger) (*Watcher, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}

	w := &Watcher{
		dir:     absDir,
		catalog: catalog,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}

	if err := w.Reload(); err != nil {
		return nil, fmt.Errorf("initial build: %w", err)
	}
	return w, nil
}

// Reload re-parses the directory and rebuilds the catalog. Returns an
// error if parsing or building fails (the old catalog is kept).
func (w *Watcher) Reload() error {
	w.logger.Info().Str("dir", w.dir).Msg("rebuilding model catalog")

	defs, err := ParseDir(w.dir)
	if err != nil {
		w.logger.Error().Err(err).Msg("catalog reload failed, keeping old types")
		return fmt.Errorf("reload definitions: %w", err)
	}

	types, err := w.catalog.Build(defs)
	if err != nil {
		w.logger.Error().Err(err).Msg("catalog rebuild failed, keeping old types")
		return fmt.Errorf("rebuild catalog: %w", err)
	}

	w.mu.Lock()
	listeners := append(([]func(map[string]*model.Type))(nil), w.onChange...)
	w.mu.Unlock()

	for _, fn := range listeners {
		fn(types)
	}

	w.logger.Info().Int("types", len(types)).Msg("model catalog rebuilt")
	return nil
}

// OnChange registers a callback invoked with the new types after each
// successful rebuild.
func (w *Watcher) OnChange(fn func(map[string]*model.Type)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Watch starts watching the definitions directory for changes.
func (w *Watcher) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	w.watcher = watcher

	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	go w.watchLoop()

	w.logger.Info().Str("dir", w.dir).Msg("watching model definitions for changes")
	return nil
}

// Stop stops watching for file changes.
func (w *Watcher) Stop() {
	close(w.stopCh)
	if w.watcher != nil {
		w.watcher.Close()
	}
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if !isDefinitionFile(event.Name) {
				continue
			}

			// Write or create (atomic save = create) or remove.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("definition file changed")

				if err := w.Reload(); err != nil {
					w.logger.Error().Err(err).Msg("file watch reload failed")
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("file watcher error")

		case <-w.stopCh:
			return
		}
	}
}

func isDefinitionFile(path string) bool {
	name := filepath.Base(path)
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
