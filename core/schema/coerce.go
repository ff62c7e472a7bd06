package schema

import (
	"fmt"
	"strconv"
	"time"
)

// Coerce converts a value to the canonical Go representation for a field
// type. Numeric types cross-accept each other, and string representations
// are parsed, so values arriving from YAML, JSON, or a database scan all
// normalize the same way. Returns an error when no sensible conversion
// exists.
func Coerce(value any, t FieldType) (any, error) {
	switch t {
	case FieldTypeString:
		return coerceString(value)
	case FieldTypeInt:
		return coerceInt(value)
	case FieldTypeFloat:
		return coerceFloat(value)
	case FieldTypeBool:
		return coerceBool(value)
	case FieldTypeTimestamp:
		return coerceTimestamp(value)
	case FieldTypeJSON:
		return value, nil
	default:
		return nil, fmt.Errorf("unknown field type %q", t)
	}
}

func coerceString(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return nil, fmt.Errorf("must be a string, got %T", value)
	}
}

func coerceInt(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float32:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("must be an integer, got %q", v)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("must be an integer, got %T", value)
	}
}

func coerceFloat(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("must be a number, got %q", v)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("must be a number, got %T", value)
	}
}

func coerceBool(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case int64:
		// SQLite stores booleans as integers.
		return v != 0, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("must be a boolean, got %q", v)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("must be a boolean, got %T", value)
	}
}

func coerceTimestamp(value any) (any, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("must be an RFC 3339 timestamp, got %q", v)
		}
		return ts, nil
	default:
		return nil, fmt.Errorf("must be a timestamp, got %T", value)
	}
}

// asFloat64 extracts a numeric value for constraint checks without
// string parsing. Non-numeric values report ok=false.
func asFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
