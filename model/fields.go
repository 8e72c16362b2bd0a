package model

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/armature-io/armature/internal/pathutil"
)

// StringField holds one or many string values with optional length, choice,
// and pattern constraints
type StringField struct {
	BaseField

	// MinLength and MaxLength bound the value in runes. A MaxLength of
	// zero means unbounded.
	MinLength int
	MaxLength int

	// Choices restricts the value to a fixed set when non-empty.
	Choices []string

	// Pattern is a regular expression the value must match in full.
	Pattern string
}

// Validate implements the Field interface
func (f *StringField) Validate() error {
	return f.validateWith(f.checkString)
}

func (f *StringField) checkString(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, NewValidationError(f.Name, CodeInvalidType,
			fmt.Sprintf("field %q expects a string value", f.Name))
	}
	length := utf8.RuneCountInString(s)
	if length < f.MinLength {
		return nil, NewValidationError(f.Name, CodeTooShort,
			fmt.Sprintf("field %q must be at least %d characters", f.Name, f.MinLength))
	}
	if f.MaxLength > 0 && length > f.MaxLength {
		return nil, NewValidationError(f.Name, CodeTooLong,
			fmt.Sprintf("field %q must be at most %d characters", f.Name, f.MaxLength))
	}
	if len(f.Choices) > 0 {
		found := false
		for _, choice := range f.Choices {
			if s == choice {
				found = true
				break
			}
		}
		if !found {
			return nil, NewValidationError(f.Name, CodeInvalidChoice,
				fmt.Sprintf("field %q must be one of %v", f.Name, f.Choices))
		}
	}
	if f.Pattern != "" {
		re, err := regexp.Compile("^(?:" + f.Pattern + ")$")
		if err != nil {
			return nil, fmt.Errorf("field %q has an invalid pattern: %w", f.Name, err)
		}
		if !re.MatchString(s) {
			return nil, NewValidationError(f.Name, CodePatternMismatch,
				fmt.Sprintf("field %q must match pattern %s", f.Name, f.Pattern))
		}
	}
	return s, nil
}

// IntegerField holds one or many integer values with optional bounds.
// Numeric input from JSON decoding (float64 without a fractional part) is
// normalized to int during validation.
type IntegerField struct {
	BaseField

	Minimum *int
	Maximum *int
}

// Validate implements the Field interface
func (f *IntegerField) Validate() error {
	return f.validateWith(f.checkInteger)
}

func (f *IntegerField) checkInteger(v any) (any, error) {
	n, ok := coerceInt(v)
	if !ok {
		return nil, NewValidationError(f.Name, CodeInvalidType,
			fmt.Sprintf("field %q expects an integer value", f.Name))
	}
	if f.Minimum != nil && n < *f.Minimum {
		return nil, NewValidationError(f.Name, CodeOutOfRange,
			fmt.Sprintf("field %q must be at least %d", f.Name, *f.Minimum))
	}
	if f.Maximum != nil && n > *f.Maximum {
		return nil, NewValidationError(f.Name, CodeOutOfRange,
			fmt.Sprintf("field %q must be at most %d", f.Name, *f.Maximum))
	}
	return n, nil
}

// FromInternal normalizes stored numbers to int so representations are stable
// regardless of the decoder that produced the raw tree
func (f *IntegerField) FromInternal(raw any) error {
	switch items := raw.(type) {
	case []any:
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = normalizeInt(item)
		}
		f.Value = out
	default:
		f.Value = normalizeInt(raw)
	}
	return nil
}

// BooleanField holds one or many boolean values
type BooleanField struct {
	BaseField
}

// Validate implements the Field interface
func (f *BooleanField) Validate() error {
	return f.validateWith(f.checkBool)
}

func (f *BooleanField) checkBool(v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, NewValidationError(f.Name, CodeInvalidType,
			fmt.Sprintf("field %q expects a boolean value", f.Name))
	}
	return b, nil
}

// coerceInt converts common numeric types to int. Floats only convert when
// they carry no fractional part.
func coerceInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		return int(v), true
	case float32:
		if float32(int(v)) == v {
			return int(v), true
		}
		return 0, false
	case float64:
		if float64(int(v)) == v {
			return int(v), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func normalizeInt(v any) any {
	if v == nil {
		return nil
	}
	if n, ok := coerceInt(v); ok {
		return n
	}
	return pathutil.Copy(v)
}

// typeToken derives the documentation type token for a field when its
// configuration does not set one
func typeToken(f Field) string {
	switch f.(type) {
	case *StringField:
		return "string"
	case *IntegerField:
		return "integer"
	case *BooleanField:
		return "boolean"
	default:
		return "any"
	}
}
