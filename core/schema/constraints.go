package schema

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// Constraints is the validation metadata attached to a field declaration.
// The descriptor machinery treats it as opaque; it is checked once for
// configuration sanity at class-definition time and enforced against values
// on every validated write.
type Constraints struct {
	// Numeric bounds. Gt/Ge and Lt/Le are mutually exclusive pairs.
	Gt *float64 `yaml:"gt,omitempty" json:"gt,omitempty"`
	Ge *float64 `yaml:"ge,omitempty" json:"ge,omitempty"`
	Lt *float64 `yaml:"lt,omitempty" json:"lt,omitempty"`
	Le *float64 `yaml:"le,omitempty" json:"le,omitempty"`

	// MultipleOf requires the value to be an integer multiple.
	MultipleOf *float64 `yaml:"multiple_of,omitempty" json:"multiple_of,omitempty"`

	// String length bounds.
	MinLength *int `yaml:"min_length,omitempty" json:"min_length,omitempty"`
	MaxLength *int `yaml:"max_length,omitempty" json:"max_length,omitempty"`

	// Collection size bounds.
	MinItems *int `yaml:"min_items,omitempty" json:"min_items,omitempty"`
	MaxItems *int `yaml:"max_items,omitempty" json:"max_items,omitempty"`

	// Pattern is a regular expression the string value must match.
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	// Enum restricts the value to one of the listed options.
	Enum []string `yaml:"enum,omitempty" json:"enum,omitempty"`

	// Documentation metadata, passed through untouched.
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Float returns a pointer to f, for building constraint literals.
func Float(f float64) *float64 { return &f }

// Int returns a pointer to n, for building constraint literals.
func Int(n int) *int { return &n }

// IsZero reports whether no constraint or metadata is set.
func (c Constraints) IsZero() bool {
	return c.Gt == nil && c.Ge == nil && c.Lt == nil && c.Le == nil &&
		c.MultipleOf == nil && c.MinLength == nil && c.MaxLength == nil &&
		c.MinItems == nil && c.MaxItems == nil && c.Pattern == "" &&
		len(c.Enum) == 0 && c.Title == "" && c.Description == ""
}

// CheckConfig validates the constraint set itself. It is called at
// class-definition time so that a misconfigured field aborts class
// construction instead of failing on first write.
func (c Constraints) CheckConfig(field string) error {
	var errs []string

	if c.Gt != nil && c.Ge != nil {
		errs = append(errs, "gt and ge are mutually exclusive")
	}
	if c.Lt != nil && c.Le != nil {
		errs = append(errs, "lt and le are mutually exclusive")
	}
	if lo, hi := lowerBound(c), upperBound(c); lo != nil && hi != nil && *lo > *hi {
		errs = append(errs, fmt.Sprintf("lower bound %v exceeds upper bound %v", *lo, *hi))
	}
	if c.MultipleOf != nil && *c.MultipleOf <= 0 {
		errs = append(errs, "multiple_of must be positive")
	}
	if c.MinLength != nil && *c.MinLength < 0 {
		errs = append(errs, "min_length must not be negative")
	}
	if c.MaxLength != nil && *c.MaxLength < 0 {
		errs = append(errs, "max_length must not be negative")
	}
	if c.MinLength != nil && c.MaxLength != nil && *c.MinLength > *c.MaxLength {
		errs = append(errs, "min_length exceeds max_length")
	}
	if c.MinItems != nil && *c.MinItems < 0 {
		errs = append(errs, "min_items must not be negative")
	}
	if c.MaxItems != nil && *c.MaxItems < 0 {
		errs = append(errs, "max_items must not be negative")
	}
	if c.MinItems != nil && c.MaxItems != nil && *c.MinItems > *c.MaxItems {
		errs = append(errs, "min_items exceeds max_items")
	}
	if c.Pattern != "" {
		if _, err := regexp.Compile(c.Pattern); err != nil {
			errs = append(errs, fmt.Sprintf("invalid pattern: %v", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("field %q: %s", field, strings.Join(errs, "; "))
	}
	return nil
}

func lowerBound(c Constraints) *float64 {
	if c.Gt != nil {
		return c.Gt
	}
	return c.Ge
}

func upperBound(c Constraints) *float64 {
	if c.Lt != nil {
		return c.Lt
	}
	return c.Le
}

// ConstraintError represents a single validation failure.
type ConstraintError struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Value      any    `json:"value,omitempty"`
	Message    string `json:"message"`
}

func (e ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult holds all constraint failures for a single write.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ConstraintError `json:"errors,omitempty"`
}

// AddError records a validation failure.
func (r *ValidationResult) AddError(field, constraint string, value any, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ConstraintError{
		Field:      field,
		Constraint: constraint,
		Value:      value,
		Message:    message,
	})
}

// Error returns a combined error message.
func (r ValidationResult) Error() string {
	if r.Valid {
		return ""
	}
	var msgs []string
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Check validates a value against the constraint set. Constraints that do
// not apply to the value's kind are skipped, matching how bounds behave for
// non-numeric values.
func (c Constraints) Check(field string, value any) ValidationResult {
	result := ValidationResult{Valid: true}

	if num, ok := asFloat64(value); ok {
		c.checkNumeric(&result, field, num, value)
	}
	if str, ok := value.(string); ok {
		c.checkString(&result, field, str)
	}
	c.checkItems(&result, field, value)
	c.checkEnum(&result, field, value)

	return result
}

func (c Constraints) checkNumeric(result *ValidationResult, field string, num float64, value any) {
	if c.Gt != nil && num <= *c.Gt {
		result.AddError(field, "gt", value, fmt.Sprintf("must be greater than %v", *c.Gt))
	}
	if c.Ge != nil && num < *c.Ge {
		result.AddError(field, "ge", value, fmt.Sprintf("must be at least %v", *c.Ge))
	}
	if c.Lt != nil && num >= *c.Lt {
		result.AddError(field, "lt", value, fmt.Sprintf("must be less than %v", *c.Lt))
	}
	if c.Le != nil && num > *c.Le {
		result.AddError(field, "le", value, fmt.Sprintf("must be at most %v", *c.Le))
	}
	if c.MultipleOf != nil {
		quotient := num / *c.MultipleOf
		if quotient != float64(int64(quotient)) {
			result.AddError(field, "multiple_of", value, fmt.Sprintf("must be a multiple of %v", *c.MultipleOf))
		}
	}
}

func (c Constraints) checkString(result *ValidationResult, field, str string) {
	if c.MinLength != nil && len(str) < *c.MinLength {
		result.AddError(field, "min_length", len(str), fmt.Sprintf("must be at least %d characters", *c.MinLength))
	}
	if c.MaxLength != nil && len(str) > *c.MaxLength {
		result.AddError(field, "max_length", len(str), fmt.Sprintf("must be at most %d characters", *c.MaxLength))
	}
	if c.Pattern != "" {
		re, err := regexp.Compile(c.Pattern)
		if err == nil && !re.MatchString(str) {
			result.AddError(field, "pattern", str, "does not match required pattern")
		}
	}
}

func (c Constraints) checkItems(result *ValidationResult, field string, value any) {
	if c.MinItems == nil && c.MaxItems == nil {
		return
	}

	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
	default:
		return
	}

	n := rv.Len()
	if c.MinItems != nil && n < *c.MinItems {
		result.AddError(field, "min_items", n, fmt.Sprintf("must have at least %d items", *c.MinItems))
	}
	if c.MaxItems != nil && n > *c.MaxItems {
		result.AddError(field, "max_items", n, fmt.Sprintf("must have at most %d items", *c.MaxItems))
	}
}

func (c Constraints) checkEnum(result *ValidationResult, field string, value any) {
	if len(c.Enum) == 0 {
		return
	}

	str := fmt.Sprintf("%v", value)
	for _, allowed := range c.Enum {
		if allowed == str {
			return
		}
	}
	result.AddError(field, "enum", value,
		fmt.Sprintf("must be one of: %s", strings.Join(c.Enum, ", ")))
}
