package schema

import (
	"time"
)

// FieldType represents the type of a model field.
type FieldType string

const (
	FieldTypeString    FieldType = "string"
	FieldTypeInt       FieldType = "int"
	FieldTypeFloat     FieldType = "float"
	FieldTypeBool      FieldType = "bool"
	FieldTypeTimestamp FieldType = "timestamp"
	FieldTypeJSON      FieldType = "json"
)

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeString, FieldTypeInt, FieldTypeFloat, FieldTypeBool,
		FieldTypeTimestamp, FieldTypeJSON:
		return true
	default:
		return false
	}
}

// SQLType returns the SQLite column type for this field type.
func (t FieldType) SQLType() string {
	switch t {
	case FieldTypeInt, FieldTypeBool:
		return "INTEGER"
	case FieldTypeFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

// TypeOf infers the field type of a runtime value.
// Unknown kinds map to FieldTypeJSON.
func TypeOf(v any) FieldType {
	switch v.(type) {
	case string:
		return FieldTypeString
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return FieldTypeInt
	case float32, float64:
		return FieldTypeFloat
	case bool:
		return FieldTypeBool
	case time.Time:
		return FieldTypeTimestamp
	default:
		return FieldTypeJSON
	}
}
