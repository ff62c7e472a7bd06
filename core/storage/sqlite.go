package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/artpar/fieldprop/core/model"
	"github.com/artpar/fieldprop/core/schema"
)

// SQLiteStore implements Store with SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens a SQLite database at path. Use ":memory:" for an
// in-memory store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStoreFromDB creates a store from an existing connection.
func NewSQLiteStoreFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateTable creates a table for a model type.
func (s *SQLiteStore) CreateTable(ctx context.Context, t *model.Type) error {
	columns := []string{"id TEXT PRIMARY KEY"}
	for _, name := range t.Annotations().Names() {
		ft, _ := t.Annotations().Get(name)
		columns = append(columns, fmt.Sprintf("%s %s", name, ft.SQLType()))
	}

	createSQL := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s)",
		t.Name(),
		strings.Join(columns, ", "),
	)
	if _, err := s.db.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("create table %s: %w", t.Name(), err)
	}
	return nil
}

// Save inserts an instance's materialized map under a generated id.
func (s *SQLiteStore) Save(ctx context.Context, m *model.Instance) (string, error) {
	t := m.Type()
	data := m.ToMap()

	id := uuid.New().String()
	columns := []string{"id"}
	placeholders := []string{"?"}
	values := []any{id}

	for _, name := range t.Annotations().Names() {
		value, ok := data[name]
		if !ok {
			continue
		}
		ft, _ := t.Annotations().Get(name)
		converted, err := toColumn(value, ft)
		if err != nil {
			return "", fmt.Errorf("save %s.%s: %w", t.Name(), name, err)
		}
		columns = append(columns, name)
		placeholders = append(placeholders, "?")
		values = append(values, converted)
	}

	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		t.Name(),
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)
	if _, err := s.db.ExecContext(ctx, insertSQL, values...); err != nil {
		return "", fmt.Errorf("insert %s: %w", t.Name(), err)
	}
	return id, nil
}

// Load reconstructs an instance by id through the type's instantiation
// path.
func (s *SQLiteStore) Load(ctx context.Context, t *model.Type, id string) (*model.Instance, error) {
	data, err := s.fetch(ctx, t, id)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("load %s: id %q not found", t.Name(), id)
	}
	return t.New(data)
}

// List returns the raw stored maps for a type, sorted by id.
func (s *SQLiteStore) List(ctx context.Context, t *model.Type) ([]map[string]any, error) {
	names := t.Annotations().Names()
	columns := append([]string{"id"}, names...)

	querySQL := fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY id",
		strings.Join(columns, ", "),
		t.Name(),
	)
	rows, err := s.db.QueryContext(ctx, querySQL)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.Name(), err)
	}
	defer rows.Close()

	var results []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		scanDest := make([]any, len(columns))
		for i := range values {
			scanDest[i] = &values[i]
		}
		if err := rows.Scan(scanDest...); err != nil {
			return nil, fmt.Errorf("list %s: %w", t.Name(), err)
		}

		record := map[string]any{"id": values[0]}
		for i, name := range names {
			ft, _ := t.Annotations().Get(name)
			converted, err := fromColumn(values[i+1], ft)
			if err != nil {
				return nil, fmt.Errorf("list %s.%s: %w", t.Name(), name, err)
			}
			record[name] = converted
		}
		results = append(results, record)
	}
	return results, rows.Err()
}

// Delete removes a stored instance.
func (s *SQLiteStore) Delete(ctx context.Context, t *model.Type, id string) error {
	deleteSQL := fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.Name())
	result, err := s.db.ExecContext(ctx, deleteSQL, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.Name(), err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("delete %s: id %q not found", t.Name(), id)
	}
	return nil
}

// fetch reads one row into a field map keyed by annotation names.
func (s *SQLiteStore) fetch(ctx context.Context, t *model.Type, id string) (map[string]any, error) {
	names := t.Annotations().Names()

	querySQL := fmt.Sprintf(
		"SELECT %s FROM %s WHERE id = ?",
		strings.Join(names, ", "),
		t.Name(),
	)
	row := s.db.QueryRowContext(ctx, querySQL, id)

	values := make([]any, len(names))
	scanDest := make([]any, len(names))
	for i := range values {
		scanDest[i] = &values[i]
	}
	if err := row.Scan(scanDest...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch %s: %w", t.Name(), err)
	}

	data := make(map[string]any, len(names))
	for i, name := range names {
		if values[i] == nil {
			continue
		}
		ft, _ := t.Annotations().Get(name)
		converted, err := fromColumn(values[i], ft)
		if err != nil {
			return nil, fmt.Errorf("fetch %s.%s: %w", t.Name(), name, err)
		}
		data[name] = converted
	}
	return data, nil
}

// toColumn converts a materialized value to its column representation.
func toColumn(value any, ft schema.FieldType) (any, error) {
	switch ft {
	case schema.FieldTypeJSON:
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return string(encoded), nil
	case schema.FieldTypeTimestamp:
		ts, ok := value.(time.Time)
		if !ok {
			return nil, fmt.Errorf("expected time.Time, got %T", value)
		}
		return ts.Format(time.RFC3339), nil
	default:
		return value, nil
	}
}

// fromColumn converts a scanned column back to the field's canonical
// representation.
func fromColumn(value any, ft schema.FieldType) (any, error) {
	if value == nil {
		return nil, nil
	}
	if ft == schema.FieldTypeJSON {
		var text string
		switch v := value.(type) {
		case string:
			text = v
		case []byte:
			text = string(v)
		default:
			return nil, fmt.Errorf("expected json text, got %T", value)
		}
		var decoded any
		if err := json.Unmarshal([]byte(text), &decoded); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return decoded, nil
	}
	return schema.Coerce(value, ft)
}
