package model

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/armature-io/armature/internal/pathutil"
)

// ConfigStore is the persistence surface the model layer writes through.
// Implementations address values by slash-delimited paths into a config
// tree of map and list nodes; numeric segments index into lists.
type ConfigStore interface {
	// GetAt returns the value at path, reporting whether it exists
	GetAt(path string) (any, bool)

	// SetAt writes a value at path, creating intermediate nodes. Writing
	// one past the end of a list appends; anything sparser is an error.
	SetAt(path string, value any) error

	// DeleteAt removes the value at path. Removing a list element shifts
	// later elements down. Missing paths are an error.
	DeleteAt(path string) error

	// CountAt returns the number of elements in the list at path, or zero
	// when the path is absent or not a list
	CountAt(path string) int
}

// Bind attaches a config store to the model. Persistence operations require
// a bound store; validation and conversion do not.
func (m *Model) Bind(store ConfigStore) {
	m.store = store
}

// recordPath returns the tree location of this record: the type's config
// path, extended by position for many-valued types
func (m *Model) recordPath() string {
	if m.Many {
		return pathutil.Join(m.ConfigPath, strconv.Itoa(m.ID))
	}
	return m.ConfigPath
}

// fieldLocation returns the absolute tree path of a relocated field's
// value. Fields without an internal namespace live inside their record and
// report false.
func fieldLocation(b *BaseField) (string, bool) {
	if b.InternalNamespace == "" {
		return "", false
	}
	return pathutil.Join(b.InternalNamespace, b.internalKey()), true
}

// Create validates the record and writes it to the persisted tree. For
// many-valued types the record takes the next free position, subject to the
// type's maximum count; single-valued types write at the config path.
func (m *Model) Create(opts ValidateOptions) error {
	if m.store == nil {
		return ErrNoStore
	}
	if err := m.Validate(opts); err != nil {
		return err
	}
	if m.Many {
		count := m.store.CountAt(m.ConfigPath)
		if m.ManyMaximum > 0 && count >= m.ManyMaximum {
			return NewValidationError("", CodeCountOutOfRange,
				fmt.Sprintf("%s allows at most %d entries", m.displayPlural(), m.ManyMaximum))
		}
		m.ID = count
	}
	return m.write()
}

// Update validates the record and rewrites it in place. The record must
// already exist for many-valued types; immutable fields must match the
// persisted values. Position never changes on update.
func (m *Model) Update(opts ValidateOptions) error {
	if m.store == nil {
		return ErrNoStore
	}
	existing, found := m.existing()
	if m.Many && !found {
		return fmt.Errorf("%w: %s", ErrNotFound, m.recordPath())
	}
	if err := m.checkImmutable(existing); err != nil {
		return err
	}
	if err := m.Validate(opts); err != nil {
		return err
	}
	return m.write()
}

// Read hydrates the record from the persisted tree at its current position.
// Single-valued records exist implicitly; an absent one hydrates as empty.
func (m *Model) Read() error {
	if m.store == nil {
		return ErrNoStore
	}
	rec, found := m.existing()
	if m.Many && !found {
		return fmt.Errorf("%w: %s", ErrNotFound, m.recordPath())
	}
	return m.FromInternalObject(rec)
}

// Delete removes the record from the persisted tree. For many-valued types
// later siblings shift down so positions stay dense, and the type's minimum
// count is enforced. Deleting a single-valued record also removes its
// relocated field subtrees.
func (m *Model) Delete() error {
	if m.store == nil {
		return ErrNoStore
	}
	if m.Many {
		count := m.store.CountAt(m.ConfigPath)
		if m.ID < 0 || m.ID >= count {
			return fmt.Errorf("%w: %s", ErrNotFound, m.recordPath())
		}
		if count-1 < m.ManyMinimum {
			return NewValidationError("", CodeCountOutOfRange,
				fmt.Sprintf("%s requires at least %d entries", m.displayPlural(), m.ManyMinimum))
		}
		return m.store.DeleteAt(m.recordPath())
	}

	for _, f := range m.fields {
		loc, relocated := fieldLocation(f.Base())
		if !relocated {
			continue
		}
		if _, ok := m.store.GetAt(loc); ok {
			if err := m.store.DeleteAt(loc); err != nil {
				return err
			}
		}
	}
	if _, ok := m.store.GetAt(m.recordPath()); !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, m.recordPath())
	}
	return m.store.DeleteAt(m.recordPath())
}

// write converts the record and stores it, placing relocated fields at
// their own namespace paths and everything else inside the record
func (m *Model) write() error {
	internal, err := m.Internal()
	if err != nil {
		return err
	}
	for _, f := range m.fields {
		b := f.Base()
		loc, relocated := fieldLocation(b)
		if !relocated {
			continue
		}
		value, ok := internal[b.internalKey()]
		if !ok {
			continue
		}
		delete(internal, b.internalKey())
		if err := m.store.SetAt(loc, value); err != nil {
			return err
		}
	}
	return m.store.SetAt(m.recordPath(), internal)
}

// existing returns the persisted record merged with relocated field values.
// The copy keeps store data isolated from hydration.
func (m *Model) existing() (map[string]any, bool) {
	rec := map[string]any{}
	raw, found := m.store.GetAt(m.recordPath())
	if asMap, ok := raw.(map[string]any); ok {
		rec = pathutil.Copy(asMap).(map[string]any)
	}
	for _, f := range m.fields {
		b := f.Base()
		loc, relocated := fieldLocation(b)
		if !relocated {
			continue
		}
		if v, ok := m.store.GetAt(loc); ok {
			rec[b.internalKey()] = pathutil.Copy(v)
			found = true
		}
	}
	return rec, found
}

// checkImmutable rejects changes to immutable fields that already hold a
// persisted value
func (m *Model) checkImmutable(existing map[string]any) error {
	for _, f := range m.fields {
		b := f.Base()
		if !b.Immutable || b.Value == nil {
			continue
		}
		persisted, ok := existing[b.internalKey()]
		if !ok {
			continue
		}
		proposed, err := f.ToInternal()
		if err != nil {
			return err
		}
		if !internalEqual(proposed, persisted) {
			return NewValidationError(b.Name, CodeImmutable,
				fmt.Sprintf("field %q cannot be changed after creation", b.Name))
		}
	}
	return nil
}

// internalEqual compares two internal-form values, tolerating the integer
// type drift that different decoders introduce
func internalEqual(a, b any) bool {
	if ai, ok := coerceInt(a); ok {
		bi, ok := coerceInt(b)
		return ok && ai == bi
	}
	return reflect.DeepEqual(a, b)
}

// LoadAll hydrates every persisted record of a registered type in storage
// order. Single-valued types yield their one record, hydrated empty when
// nothing is persisted yet.
func LoadAll(reg *Registry, store ConfigStore, name string) ([]*Model, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}
	desc, ok := reg.Descriptor(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}

	if !desc.Many {
		m, err := reg.New(name)
		if err != nil {
			return nil, err
		}
		m.Bind(store)
		if err := m.Read(); err != nil {
			return nil, err
		}
		return []*Model{m}, nil
	}

	count := store.CountAt(desc.ConfigPath)
	records := make([]*Model, 0, count)
	for i := 0; i < count; i++ {
		m, err := reg.New(name)
		if err != nil {
			return nil, err
		}
		m.ID = i
		m.Bind(store)
		if err := m.Read(); err != nil {
			return nil, err
		}
		records = append(records, m)
	}
	return records, nil
}
