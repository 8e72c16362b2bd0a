package model

import (
	"fmt"
	"reflect"

	"github.com/armature-io/armature/internal/pathutil"
)

// Model is one config record: an ordered collection of named fields plus
// identity and placement. Instances come from a Registry factory; the
// embedded Descriptor carries the static metadata shared by every instance
// of the type.
//
// Identity is positional. For many-valued types, ID is the record's index in
// the persisted sequence; ParentID and Parent link a nested record to the
// enclosing one without owning it.
type Model struct {
	Descriptor

	ID       int
	ParentID int
	Parent   *Model

	fields []Field
	index  map[string]Field
	store  ConfigStore
}

// New creates an empty Model from a descriptor. Fields are attached with
// AddField; Registry.New does both from a registered factory.
func New(desc Descriptor) *Model {
	return &Model{
		Descriptor: desc,
		index:      make(map[string]Field),
	}
}

// AddField attaches a field to the model, validating its configuration and
// rejecting duplicate names. The model becomes the field's context.
func (m *Model) AddField(f Field) error {
	b := f.Base()
	if b.Type == "" {
		b.Type = typeToken(f)
	}
	if err := checkFieldConfig(b); err != nil {
		return err
	}
	if _, exists := m.index[b.Name]; exists {
		return fmt.Errorf("%w: %s.%s", ErrDuplicateField, m.Name, b.Name)
	}
	b.context = m
	m.fields = append(m.fields, f)
	m.index[b.Name] = f
	return nil
}

// Field retrieves a field by name
func (m *Model) Field(name string) (Field, bool) {
	f, ok := m.index[name]
	return f, ok
}

// Fields returns the fields in declaration order. The slice is a copy; the
// fields themselves are shared.
func (m *Model) Fields() []Field {
	out := make([]Field, len(m.fields))
	copy(out, m.fields)
	return out
}

// RequiredFieldNames lists the names of required fields in declaration order
func (m *Model) RequiredFieldNames() []string {
	var names []string
	for _, f := range m.fields {
		if f.Base().Required {
			names = append(names, f.Base().Name)
		}
	}
	return names
}

// ValidateOptions configures one validation pass
type ValidateOptions struct {
	// SkipParentCheck suppresses the parent-existence check. Nested
	// validation sets it because the parent may itself be mid-creation.
	SkipParentCheck bool

	// Set is the accumulator shared across sibling records in this pass.
	// Sibling-aware rules (Unique) consult it; nested validation appends
	// to it.
	Set *ModelSet
}

// Validate runs every field's validation in declaration order and fails on
// the first error. Fields whose conditions are not met by current sibling
// values are skipped and their values discarded. After a successful call
// every field holds validated, normalized data.
func (m *Model) Validate(opts ValidateOptions) error {
	if m.ParentType != "" && !opts.SkipParentCheck && m.Parent == nil {
		return NewValidationError("", CodeParentNotFound,
			fmt.Sprintf("%s requires an existing %s parent", m.Name, m.ParentType))
	}
	for _, f := range m.fields {
		b := f.Base()
		if !m.conditionsMet(b.Conditions) {
			b.Value = nil
			continue
		}
		if err := f.Validate(); err != nil {
			return err
		}
		if b.Unique && opts.Set != nil {
			if err := m.checkUnique(b, opts.Set); err != nil {
				return err
			}
		}
	}
	return nil
}

// conditionsMet reports whether every condition names a sibling field that
// currently holds the required value
func (m *Model) conditionsMet(conditions map[string]any) bool {
	for name, want := range conditions {
		f, ok := m.index[name]
		if !ok {
			return false
		}
		if !reflect.DeepEqual(f.Base().Value, want) {
			return false
		}
	}
	return true
}

// checkUnique rejects a value already held by the same field on a sibling
// record validated earlier in this pass
func (m *Model) checkUnique(b *BaseField, set *ModelSet) error {
	if b.Value == nil {
		return nil
	}
	for _, sibling := range set.Models() {
		if sibling == m {
			continue
		}
		sf, ok := sibling.Field(b.Name)
		if !ok || sf.Base().Value == nil {
			continue
		}
		if reflect.DeepEqual(sf.Base().Value, b.Value) {
			return NewValidationError(b.Name, CodeNotUnique,
				fmt.Sprintf("field %q must be unique across %s entries, %v is already used", b.Name, m.displayPlural(), b.Value))
		}
	}
	return nil
}

// Representation converts the record to its API-facing form. Identity is
// included where it is meaningful: id for many-valued types, parent_id when
// the record has a parent. Write-only and unset fields are omitted.
func (m *Model) Representation() map[string]any {
	rep := make(map[string]any, len(m.fields)+2)
	if m.Many {
		rep["id"] = m.ID
	}
	if m.Parent != nil {
		rep["parent_id"] = m.ParentID
	}
	for _, f := range m.fields {
		b := f.Base()
		if b.WriteOnly || b.Value == nil {
			continue
		}
		rep[b.Name] = pathutil.Copy(b.Value)
	}
	return rep
}

// SetRepresentation loads caller-supplied representation data into the
// model's fields. Unknown keys and values for read-only fields are rejected
// before anything is applied.
func (m *Model) SetRepresentation(data map[string]any) error {
	for name := range data {
		f, ok := m.index[name]
		if !ok {
			return NewValidationError(name, CodeUnknownField,
				fmt.Sprintf("%s has no field %q", m.Name, name))
		}
		if f.Base().ReadOnly {
			return NewValidationError(name, CodeReadOnly,
				fmt.Sprintf("field %q is read-only", name))
		}
	}
	m.apply(data)
	return nil
}

// apply copies values into fields without the caller-input checks. Internal
// conversion paths use it on data the engine produced itself.
func (m *Model) apply(data map[string]any) {
	for _, f := range m.fields {
		b := f.Base()
		if raw, ok := data[b.Name]; ok {
			b.Value = pathutil.Copy(raw)
		}
	}
}

// Internal converts the record to its persisted form: a map keyed by each
// field's internal name. Identity fields are never included; position in the
// persisted sequence is the identity.
func (m *Model) Internal() (map[string]any, error) {
	out := make(map[string]any, len(m.fields))
	for _, f := range m.fields {
		b := f.Base()
		if b.Value == nil {
			continue
		}
		v, err := f.ToInternal()
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		out[b.internalKey()] = v
	}
	return out, nil
}

// FromInternalObject hydrates every field from a persisted record. Fields
// absent from the record are cleared; keys the model does not know are
// ignored.
func (m *Model) FromInternalObject(raw map[string]any) error {
	for _, f := range m.fields {
		b := f.Base()
		rawValue, ok := raw[b.internalKey()]
		if !ok {
			b.Value = nil
			continue
		}
		if err := f.FromInternal(rawValue); err != nil {
			return fmt.Errorf("field %q: %w", b.Name, err)
		}
	}
	return nil
}

// displayPlural returns the plural display name, falling back to the type
// name
func (m *Model) displayPlural() string {
	if m.VerboseNamePlural != "" {
		return m.VerboseNamePlural
	}
	return m.Name
}
