package schema

import (
	"strings"
	"testing"
)

func TestConstraints_IsZero(t *testing.T) {
	if !(Constraints{}).IsZero() {
		t.Error("empty Constraints should be zero")
	}
	if (Constraints{Ge: Float(0)}).IsZero() {
		t.Error("Constraints with a bound should not be zero")
	}
	if (Constraints{Title: "Weight"}).IsZero() {
		t.Error("Constraints with metadata should not be zero")
	}
}

func TestConstraints_CheckConfig(t *testing.T) {
	tests := []struct {
		name    string
		cons    Constraints
		wantErr string
	}{
		{"empty", Constraints{}, ""},
		{"valid bounds", Constraints{Ge: Float(0), Le: Float(10)}, ""},
		{"gt and ge", Constraints{Gt: Float(0), Ge: Float(0)}, "mutually exclusive"},
		{"lt and le", Constraints{Lt: Float(1), Le: Float(1)}, "mutually exclusive"},
		{"inverted bounds", Constraints{Ge: Float(10), Le: Float(0)}, "exceeds upper bound"},
		{"zero multiple", Constraints{MultipleOf: Float(0)}, "must be positive"},
		{"negative min_length", Constraints{MinLength: Int(-1)}, "must not be negative"},
		{"inverted lengths", Constraints{MinLength: Int(5), MaxLength: Int(2)}, "min_length exceeds max_length"},
		{"inverted items", Constraints{MinItems: Int(3), MaxItems: Int(1)}, "min_items exceeds max_items"},
		{"bad pattern", Constraints{Pattern: "["}, "invalid pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cons.CheckConfig("f")
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("CheckConfig() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("CheckConfig() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("CheckConfig() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestConstraints_Check(t *testing.T) {
	tests := []struct {
		name  string
		cons  Constraints
		value any
		valid bool
	}{
		{"no constraints", Constraints{}, 42, true},
		{"ge pass", Constraints{Ge: Float(0)}, 0, true},
		{"ge fail", Constraints{Ge: Float(0)}, -1, false},
		{"gt boundary fails", Constraints{Gt: Float(0)}, 0, false},
		{"le pass", Constraints{Le: Float(10)}, 10.0, true},
		{"lt boundary fails", Constraints{Lt: Float(10)}, 10, false},
		{"multiple_of pass", Constraints{MultipleOf: Float(5)}, 15, true},
		{"multiple_of fail", Constraints{MultipleOf: Float(5)}, 7, false},
		{"bounds skip strings", Constraints{Ge: Float(0)}, "hello", true},
		{"min_length pass", Constraints{MinLength: Int(3)}, "abc", true},
		{"min_length fail", Constraints{MinLength: Int(3)}, "ab", false},
		{"max_length fail", Constraints{MaxLength: Int(2)}, "abc", false},
		{"pattern pass", Constraints{Pattern: "^[a-z]+$"}, "abc", true},
		{"pattern fail", Constraints{Pattern: "^[a-z]+$"}, "abc1", false},
		{"enum pass", Constraints{Enum: []string{"on", "off"}}, "on", true},
		{"enum fail", Constraints{Enum: []string{"on", "off"}}, "idle", false},
		{"min_items pass", Constraints{MinItems: Int(1)}, []any{1}, true},
		{"min_items fail", Constraints{MinItems: Int(2)}, []any{1}, false},
		{"max_items fail", Constraints{MaxItems: Int(1)}, []any{1, 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.cons.Check("f", tt.value)
			if result.Valid != tt.valid {
				t.Errorf("Check(%v).Valid = %v, want %v (errors: %v)",
					tt.value, result.Valid, tt.valid, result.Errors)
			}
		})
	}
}

func TestValidationResult_Error(t *testing.T) {
	var result ValidationResult
	result.Valid = true
	if result.Error() != "" {
		t.Error("valid result should have empty error message")
	}

	result.AddError("x", "ge", -1, "must be at least 0")
	result.AddError("x", "multiple_of", -1, "must be a multiple of 2")

	if result.Valid {
		t.Error("AddError should mark result invalid")
	}
	msg := result.Error()
	if !strings.Contains(msg, "must be at least 0") || !strings.Contains(msg, "multiple of 2") {
		t.Errorf("Error() = %q, want both messages", msg)
	}
}
