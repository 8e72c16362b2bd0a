package model

import (
	"errors"
	"fmt"
)

// Common model errors
var (
	// ErrUnknownModel is returned when a model type is not registered
	ErrUnknownModel = errors.New("unknown model type")

	// ErrDuplicateModel is returned when a model type is registered twice
	ErrDuplicateModel = errors.New("model type already registered")

	// ErrDuplicateField is returned when a field name is defined twice on a model
	ErrDuplicateField = errors.New("field already defined")

	// ErrInvalidDescriptor is returned when a descriptor fails registration checks
	ErrInvalidDescriptor = errors.New("invalid model descriptor")

	// ErrFieldConfig is returned when a field's configuration is contradictory
	ErrFieldConfig = errors.New("invalid field configuration")

	// ErrNoStore is returned when a persistence operation runs on an unbound model
	ErrNoStore = errors.New("model is not bound to a config store")

	// ErrNotFound is returned when a record does not exist in the config tree
	ErrNotFound = errors.New("record not found")
)

// Response codes attached to validation failures. Codes are stable machine
// identifiers; messages are for humans and may change.
const (
	CodeRequired        = "field_required"
	CodeInvalidType     = "field_invalid_type"
	CodeNullNotAllowed  = "field_null_not_allowed"
	CodeEmptyNotAllowed = "field_empty_not_allowed"
	CodeCountOutOfRange = "field_count_out_of_range"
	CodeReadOnly        = "field_read_only"
	CodeImmutable       = "field_immutable"
	CodeUnknownField    = "unknown_field"
	CodeInvalidChoice   = "field_invalid_choice"
	CodeOutOfRange      = "field_out_of_range"
	CodeTooShort        = "field_too_short"
	CodeTooLong         = "field_too_long"
	CodePatternMismatch = "field_pattern_mismatch"
	CodeNotUnique       = "field_not_unique"
	CodeParentNotFound  = "parent_not_found"
	CodeNestedInvalid   = "nested_validation_failed"
)

// ValidationError is a structured validation failure. It carries the name of
// the offending field, a human-readable message, and a stable machine code.
// Nested failures are re-wrapped so the code of the innermost failure is
// preserved while the message names the full field context.
type ValidationError struct {
	Field   string
	Message string
	Code    string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, code, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Code:    code,
	}
}

// wrapNested re-scopes a nested failure to an enclosing field. The inner
// message and code survive; only the field context changes.
func wrapNested(field string, err error) *ValidationError {
	var inner *ValidationError
	if errors.As(err, &inner) {
		return &ValidationError{
			Field:   field,
			Code:    inner.Code,
			Message: fmt.Sprintf("field %q failed nested validation: %s", field, inner.Message),
		}
	}
	return &ValidationError{
		Field:   field,
		Code:    CodeNestedInvalid,
		Message: fmt.Sprintf("field %q failed nested validation: %s", field, err.Error()),
	}
}

// AsValidationError unwraps err into a *ValidationError if possible
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsValidationError returns true if err is or wraps a *ValidationError
func IsValidationError(err error) bool {
	_, ok := AsValidationError(err)
	return ok
}
