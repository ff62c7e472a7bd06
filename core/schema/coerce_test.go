package schema

import (
	"testing"
	"time"
)

func TestCoerce(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		value   any
		typ     FieldType
		want    any
		wantErr bool
	}{
		{"string pass-through", "hello", FieldTypeString, "hello", false},
		{"bytes to string", []byte("raw"), FieldTypeString, "raw", false},
		{"int rejects string type", 42, FieldTypeString, nil, true},
		{"int pass-through", 42, FieldTypeInt, 42, false},
		{"int64 to int", int64(42), FieldTypeInt, 42, false},
		{"float to int", 42.9, FieldTypeInt, 42, false},
		{"string to int", "42", FieldTypeInt, 42, false},
		{"bad string to int", "forty", FieldTypeInt, nil, true},
		{"float pass-through", 1.5, FieldTypeFloat, 1.5, false},
		{"int to float", 3, FieldTypeFloat, 3.0, false},
		{"string to float", "1.5", FieldTypeFloat, 1.5, false},
		{"bool pass-through", true, FieldTypeBool, true, false},
		{"sqlite int to bool", int64(1), FieldTypeBool, true, false},
		{"string to bool", "true", FieldTypeBool, true, false},
		{"bad bool", "maybe", FieldTypeBool, nil, true},
		{"timestamp pass-through", ts, FieldTypeTimestamp, ts, false},
		{"rfc3339 to timestamp", "2024-06-01T12:00:00Z", FieldTypeTimestamp, ts, false},
		{"bad timestamp", "yesterday", FieldTypeTimestamp, nil, true},
		{"unknown type", 1, FieldType("blob"), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.value, tt.typ)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Coerce(%v, %s) should fail, got %v", tt.value, tt.typ, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Coerce(%v, %s) error = %v", tt.value, tt.typ, err)
			}
			if got != tt.want {
				t.Errorf("Coerce(%v, %s) = %v, want %v", tt.value, tt.typ, got, tt.want)
			}
		})
	}
}

func TestCoerce_JSONPassThrough(t *testing.T) {
	value := map[string]any{"a": 1}
	got, err := Coerce(value, FieldTypeJSON)
	if err != nil {
		t.Fatalf("Coerce() error = %v", err)
	}
	if _, ok := got.(map[string]any); !ok {
		t.Errorf("Coerce() = %T, want map[string]any", got)
	}
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		value any
		want  FieldType
	}{
		{"s", FieldTypeString},
		{42, FieldTypeInt},
		{int64(42), FieldTypeInt},
		{1.5, FieldTypeFloat},
		{true, FieldTypeBool},
		{time.Now(), FieldTypeTimestamp},
		{map[string]any{}, FieldTypeJSON},
		{[]any{1}, FieldTypeJSON},
	}

	for _, tt := range tests {
		if got := TypeOf(tt.value); got != tt.want {
			t.Errorf("TypeOf(%T) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestFieldType_Valid(t *testing.T) {
	for _, ft := range []FieldType{FieldTypeString, FieldTypeInt, FieldTypeFloat, FieldTypeBool, FieldTypeTimestamp, FieldTypeJSON} {
		if !ft.Valid() {
			t.Errorf("%s should be valid", ft)
		}
	}
	if FieldType("blob").Valid() {
		t.Error("blob should not be valid")
	}
}
