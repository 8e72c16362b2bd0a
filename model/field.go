package model

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/armature-io/armature/internal/pathutil"
)

// Field is the contract a Model consumes. Concrete field types embed
// BaseField for shared configuration and the common validation walk, and
// implement the conversion hooks for their value shape.
//
// A field's Value always holds the representation form: the shape exposed to
// API consumers. ToInternal and FromInternal translate between that shape and
// the form written to the persisted config tree.
type Field interface {
	// Base exposes the shared field configuration and runtime state.
	Base() *BaseField

	// Validate checks the field's current value against its configuration
	// and normalizes it in place.
	Validate() error

	// ToInternal converts the current representation value into its
	// persisted form.
	ToInternal() (any, error)

	// FromInternal hydrates the representation value from persisted data.
	FromInternal(raw any) error

	// OpenAPIProperty describes the field as an OpenAPI schema fragment.
	OpenAPIProperty() *openapi3.SchemaRef
}

// BaseField carries the configuration and machinery shared by every field
// type. It is a usable Field on its own (an unconstrained value slot), but is
// normally embedded in a concrete type.
type BaseField struct {
	// Name is the field's key in representation data.
	Name string

	// Type is the documentation type token, e.g. "string" or a model name.
	Type string

	// Value is the current representation-form value. For many-valued
	// fields this is a []any.
	Value any

	// Many marks the field as holding an ordered list of values, bounded
	// by ManyMinimum and ManyMaximum. A ManyMaximum of zero means
	// unbounded.
	Many        bool
	ManyMinimum int
	ManyMaximum int

	// Required fields must be present in caller input. Required and a
	// non-nil Default are mutually exclusive.
	Required bool
	Default  any

	// AllowEmpty permits empty strings and empty lists; AllowNull permits
	// explicit null values.
	AllowEmpty bool
	AllowNull  bool

	// Immutable values may not change once the record has been created.
	// ReadOnly values are derived by the system and rejected from caller
	// input; WriteOnly values are accepted but never echoed back.
	Immutable bool
	ReadOnly  bool
	WriteOnly bool

	// Unique values must not repeat across sibling records validated in
	// the same pass.
	Unique bool

	// Conditions gates the field on sibling values: every named sibling
	// field must currently hold the given value, otherwise this field is
	// skipped and its value discarded.
	Conditions map[string]any

	HelpText          string
	VerboseName       string
	VerboseNamePlural string

	// InternalName is the field's key in the persisted record; it defaults
	// to Name. InternalNamespace locates the value's subtree in the wider
	// config tree and is informational for ordinary fields.
	InternalName      string
	InternalNamespace string

	context *Model
}

// Base implements the Field interface
func (b *BaseField) Base() *BaseField {
	return b
}

// Context returns the Model that owns this field, or nil before assembly
func (b *BaseField) Context() *Model {
	return b.context
}

// Validate runs the shared validation walk with no per-item hook
func (b *BaseField) Validate() error {
	return b.validateWith(nil)
}

// ToInternal returns a deep copy of the current value. Field types whose
// internal form differs from the representation form override this.
func (b *BaseField) ToInternal() (any, error) {
	return pathutil.Copy(b.Value), nil
}

// FromInternal sets the value from persisted data. The copy keeps the field
// detached from the caller's tree.
func (b *BaseField) FromInternal(raw any) error {
	b.Value = pathutil.Copy(raw)
	return nil
}

// internalKey returns the key this field occupies in the persisted record
func (b *BaseField) internalKey() string {
	if b.InternalName != "" {
		return b.InternalName
	}
	return b.Name
}

// validateWith is the validation walk shared by all field types. It resolves
// absence against Required and Default, enforces null/empty rules, checks
// list shape and cardinality bounds for many-valued fields, and runs the
// per-item check on every candidate. The check may normalize the item; the
// normalized value replaces the original in place.
func (b *BaseField) validateWith(check func(any) (any, error)) error {
	if b.Value == nil {
		if b.Required {
			return NewValidationError(b.Name, CodeRequired,
				fmt.Sprintf("field %q is required", b.Name))
		}
		if b.Default != nil {
			b.Value = pathutil.Copy(b.Default)
		}
	}
	if b.Value == nil {
		return nil
	}

	if b.Many {
		items, ok := b.Value.([]any)
		if !ok {
			return NewValidationError(b.Name, CodeInvalidType,
				fmt.Sprintf("field %q expects a list of values", b.Name))
		}
		if len(items) == 0 && !b.AllowEmpty {
			return NewValidationError(b.Name, CodeEmptyNotAllowed,
				fmt.Sprintf("field %q does not allow an empty list", b.Name))
		}
		if len(items) < b.ManyMinimum {
			return NewValidationError(b.Name, CodeCountOutOfRange,
				fmt.Sprintf("field %q expects at least %d values, got %d", b.Name, b.ManyMinimum, len(items)))
		}
		if b.ManyMaximum > 0 && len(items) > b.ManyMaximum {
			return NewValidationError(b.Name, CodeCountOutOfRange,
				fmt.Sprintf("field %q expects at most %d values, got %d", b.Name, b.ManyMaximum, len(items)))
		}
		for i, item := range items {
			normalized, err := b.checkItem(item, check)
			if err != nil {
				return err
			}
			items[i] = normalized
		}
		b.Value = items
		return nil
	}

	normalized, err := b.checkItem(b.Value, check)
	if err != nil {
		return err
	}
	b.Value = normalized
	return nil
}

// checkItem applies the null/empty rules and the per-item check to a single
// candidate value
func (b *BaseField) checkItem(item any, check func(any) (any, error)) (any, error) {
	if item == nil {
		if !b.AllowNull {
			return nil, NewValidationError(b.Name, CodeNullNotAllowed,
				fmt.Sprintf("field %q does not allow null values", b.Name))
		}
		return nil, nil
	}
	if s, ok := item.(string); ok && s == "" && !b.AllowEmpty {
		return nil, NewValidationError(b.Name, CodeEmptyNotAllowed,
			fmt.Sprintf("field %q does not allow empty values", b.Name))
	}
	if check == nil {
		return item, nil
	}
	return check(item)
}

// checkFieldConfig rejects contradictory field configuration. It runs when a
// field joins a model, so bad definitions fail at assembly time rather than
// on first use.
func checkFieldConfig(b *BaseField) error {
	if b.Name == "" {
		return fmt.Errorf("%w: field name must not be empty", ErrFieldConfig)
	}
	if b.Required && b.Default != nil {
		return fmt.Errorf("%w: field %q cannot be required and carry a default", ErrFieldConfig, b.Name)
	}
	if b.Required && b.ReadOnly {
		return fmt.Errorf("%w: field %q cannot be required and read-only", ErrFieldConfig, b.Name)
	}
	if b.ReadOnly && b.WriteOnly {
		return fmt.Errorf("%w: field %q cannot be read-only and write-only", ErrFieldConfig, b.Name)
	}
	if b.ManyMinimum < 0 || b.ManyMaximum < 0 {
		return fmt.Errorf("%w: field %q has negative cardinality bounds", ErrFieldConfig, b.Name)
	}
	if b.ManyMaximum > 0 && b.ManyMinimum > b.ManyMaximum {
		return fmt.Errorf("%w: field %q has minimum count %d above maximum %d", ErrFieldConfig, b.Name, b.ManyMinimum, b.ManyMaximum)
	}
	if !b.Many && (b.ManyMinimum != 0 || b.ManyMaximum != 0) {
		return fmt.Errorf("%w: field %q sets cardinality bounds without many", ErrFieldConfig, b.Name)
	}
	return nil
}
