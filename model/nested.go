package model

import (
	"fmt"

	"github.com/armature-io/armature/internal/pathutil"
)

// NestedModelField embeds records of another registered model type inside a
// parent record. In the representation the records appear inline as objects
// with assigned identity; in the persisted form they are plain records whose
// identity is their position.
//
// Validation instantiates one nested Model per object, so nested fields get
// the full validation walk of their own type, recursively.
type NestedModelField struct {
	BaseField

	registry *Registry
	desc     Descriptor

	// set accumulates the instances built by the most recent Validate or
	// FromInternal call, in assignment order. Sibling-aware rules on the
	// nested type consult it mid-pass.
	set *ModelSet

	// requiredNames is the nested type's required field list, captured at
	// construction for schema output.
	requiredNames []string
}

// NewNestedModelField builds a field holding records of modelType. The type
// must already be registered; a nil registry means the package default.
// Cardinality and internal placement are mirrored from the nested type's
// descriptor so the field and the type cannot disagree.
func NewNestedModelField(registry *Registry, modelType string, base BaseField) (*NestedModelField, error) {
	if registry == nil {
		registry = DefaultRegistry()
	}
	desc, ok := registry.Descriptor(modelType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, modelType)
	}

	base.Type = modelType
	base.Many = desc.Many
	base.ManyMinimum = desc.ManyMinimum
	base.ManyMaximum = desc.ManyMaximum
	if base.InternalName == "" {
		base.InternalName = pathutil.Leaf(desc.ConfigPath)
	}
	if base.InternalNamespace == "" {
		base.InternalNamespace = pathutil.Namespace(desc.ConfigPath)
	}
	if base.VerboseName == "" {
		base.VerboseName = desc.VerboseName
	}
	if base.VerboseNamePlural == "" {
		base.VerboseNamePlural = desc.VerboseNamePlural
	}
	if err := checkFieldConfig(&base); err != nil {
		return nil, err
	}

	// One probe instantiation up front: it surfaces broken factories at
	// assembly time and yields the required-field list for schemas.
	probe, err := registry.New(modelType)
	if err != nil {
		return nil, err
	}

	return &NestedModelField{
		BaseField:     base,
		registry:      registry,
		desc:          desc,
		set:           NewModelSet(),
		requiredNames: probe.RequiredFieldNames(),
	}, nil
}

// ModelType returns the registered name of the nested type
func (f *NestedModelField) ModelType() string {
	return f.desc.Name
}

// Nested returns the instances built by the most recent Validate or
// FromInternal call
func (f *NestedModelField) Nested() *ModelSet {
	return f.set
}

// Validate rebuilds the accumulator and validates every nested object in
// caller order. On success the field's value is rewritten from the validated
// instances, so downstream readers observe assigned identity and normalized
// data instead of raw caller input.
func (f *NestedModelField) Validate() error {
	f.set = NewModelSet()
	if err := f.validateWith(f.validateItem); err != nil {
		return err
	}
	if f.Value == nil && f.set.Count() == 0 {
		return nil
	}
	if f.Many {
		items := make([]any, 0, f.set.Count())
		for _, nested := range f.set.Models() {
			items = append(items, nested.Representation())
		}
		f.Value = items
		return nil
	}
	if nested, ok := f.set.First(); ok {
		f.Value = nested.Representation()
	} else {
		f.Value = nil
	}
	return nil
}

// validateItem builds and validates one nested instance from caller data.
// Caller-supplied identity is discarded: id is the instance's position in
// assignment order and parent_id points at the owning record.
func (f *NestedModelField) validateItem(item any) (any, error) {
	data, ok := item.(map[string]any)
	if !ok {
		return nil, NewValidationError(f.Name, CodeInvalidType,
			fmt.Sprintf("field %q expects %s objects", f.Name, f.desc.Name))
	}
	clean := pathutil.Copy(data).(map[string]any)
	delete(clean, "id")
	delete(clean, "parent_id")

	nested, err := f.registry.New(f.desc.Name)
	if err != nil {
		return nil, err
	}
	nested.ID = f.set.Count()
	if owner := f.context; owner != nil {
		nested.Parent = owner
		nested.ParentID = owner.ID
	}

	if err := nested.SetRepresentation(clean); err != nil {
		return nil, wrapNested(f.Name, err)
	}
	if err := nested.Validate(ValidateOptions{SkipParentCheck: true, Set: f.set}); err != nil {
		return nil, wrapNested(f.Name, err)
	}
	f.set.Append(nested)
	return nested.Representation(), nil
}

// Sort orders the current value by the nested type's sort field and
// re-stamps ids to match the new positions. Single-valued and unsorted
// types are left untouched.
func (f *NestedModelField) Sort() {
	if !f.Many || f.desc.SortBy == "" {
		return
	}
	items, ok := f.Value.([]any)
	if !ok || len(items) == 0 {
		return
	}
	sortItems(items, f.desc.SortBy, f.desc.SortOrder)
	for i, item := range items {
		if rec, ok := item.(map[string]any); ok {
			rec["id"] = i
		}
	}
	f.Value = items
}

// ToInternal converts the nested records to their persisted form. Records
// are sorted into canonical order first; identity keys are stripped because
// position in the persisted sequence is the identity.
func (f *NestedModelField) ToInternal() (any, error) {
	if f.Value == nil {
		return nil, nil
	}
	f.Sort()

	if f.Many {
		items, ok := f.Value.([]any)
		if !ok {
			return nil, NewValidationError(f.Name, CodeInvalidType,
				fmt.Sprintf("field %q expects a list of values", f.Name))
		}
		out := make([]any, 0, len(items))
		for _, item := range items {
			rec, err := f.itemInternal(item)
			if err != nil {
				return nil, err
			}
			out = append(out, rec)
		}
		return out, nil
	}
	return f.itemInternal(f.Value)
}

// itemInternal converts one representation object to a persisted record by
// passing it through a nested instance, so per-field internal conversion and
// naming apply
func (f *NestedModelField) itemInternal(item any) (map[string]any, error) {
	data, ok := item.(map[string]any)
	if !ok {
		return nil, NewValidationError(f.Name, CodeInvalidType,
			fmt.Sprintf("field %q expects %s objects", f.Name, f.desc.Name))
	}
	clean := pathutil.Copy(data).(map[string]any)
	delete(clean, "id")
	delete(clean, "parent_id")

	nested, err := f.registry.New(f.desc.Name)
	if err != nil {
		return nil, err
	}
	nested.apply(clean)
	return nested.Internal()
}

// FromInternal hydrates nested instances from persisted data and rebuilds
// the representation. Ids are assigned from position in the persisted
// sequence.
func (f *NestedModelField) FromInternal(raw any) error {
	if raw == nil {
		f.Value = nil
		return nil
	}
	f.set = NewModelSet()

	if f.Many {
		items, ok := raw.([]any)
		if !ok {
			return NewValidationError(f.Name, CodeInvalidType,
				fmt.Sprintf("field %q expects a list of persisted records", f.Name))
		}
		reps := make([]any, 0, len(items))
		for i, item := range items {
			rec, ok := item.(map[string]any)
			if !ok {
				return NewValidationError(f.Name, CodeInvalidType,
					fmt.Sprintf("field %q expects %s records", f.Name, f.desc.Name))
			}
			nested, err := f.hydrate(rec, i)
			if err != nil {
				return err
			}
			reps = append(reps, nested.Representation())
		}
		f.Value = reps
		return nil
	}

	rec, ok := raw.(map[string]any)
	if !ok {
		return NewValidationError(f.Name, CodeInvalidType,
			fmt.Sprintf("field %q expects a %s record", f.Name, f.desc.Name))
	}
	nested, err := f.hydrate(rec, 0)
	if err != nil {
		return err
	}
	f.Value = nested.Representation()
	return nil
}

// hydrate builds one nested instance from a persisted record at the given
// position
func (f *NestedModelField) hydrate(rec map[string]any, position int) (*Model, error) {
	nested, err := f.registry.New(f.desc.Name)
	if err != nil {
		return nil, err
	}
	nested.ID = position
	if owner := f.context; owner != nil {
		nested.Parent = owner
		nested.ParentID = owner.ID
	}
	if err := nested.FromInternalObject(rec); err != nil {
		return nil, fmt.Errorf("field %q: %w", f.Name, err)
	}
	f.set.Append(nested)
	return nested, nil
}
