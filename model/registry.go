package model

import (
	"fmt"
	"sort"
	"sync"
)

// Descriptor is the static metadata for a model type: where its records live
// in the config tree, how many may exist, and how they are canonically
// ordered. Every instance of the type shares one Descriptor; reading it
// never requires constructing an instance.
type Descriptor struct {
	// Name is the type identifier used for registry lookups and schema
	// references.
	Name string

	// ConfigPath is the slash-delimited location of this type's records in
	// the persisted config tree. For many-valued types the path holds an
	// ordered list; position in that list is record identity.
	ConfigPath string

	// Many marks the type as holding an ordered list of records, bounded
	// by ManyMinimum and ManyMaximum. A ManyMaximum of zero means
	// unbounded.
	Many        bool
	ManyMinimum int
	ManyMaximum int

	// SortBy names the field whose value orders persisted records; empty
	// means storage keeps caller order. Only many-valued types sort.
	SortBy    string
	SortOrder SortOrder

	VerboseName       string
	VerboseNamePlural string

	// ParentType names the model type a record of this type must be
	// nested under, or empty for root types.
	ParentType string
}

// Factory produces the field set for a fresh instance of a model type
type Factory func() ([]Field, error)

// Registry maps model type names to their descriptors and factories. Types
// are registered at startup; lookups at request time are read-only.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]Descriptor
	factories   map[string]Factory
}

// NewRegistry creates an empty model registry
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]Descriptor),
		factories:   make(map[string]Factory),
	}
}

// Register adds a model type. The descriptor is validated first so a bad
// definition fails at startup, not on first instantiation.
func (r *Registry) Register(desc Descriptor, factory Factory) error {
	if err := validateDescriptor(desc); err != nil {
		return err
	}
	if factory == nil {
		return fmt.Errorf("%w: %s has no factory", ErrInvalidDescriptor, desc.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[desc.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateModel, desc.Name)
	}
	r.descriptors[desc.Name] = desc
	r.factories[desc.Name] = factory
	return nil
}

// Descriptor retrieves the static metadata for a model type
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.descriptors[name]
	return desc, ok
}

// New instantiates a model type by name. Unknown names are a configuration
// error, not a validation failure.
func (r *Registry) New(name string) (*Model, error) {
	r.mu.RLock()
	desc, ok := r.descriptors[name]
	factory := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}

	fields, err := factory()
	if err != nil {
		return nil, fmt.Errorf("building fields for %s: %w", name, err)
	}

	m := New(desc)
	for _, f := range fields {
		if err := m.AddField(f); err != nil {
			return nil, fmt.Errorf("assembling %s: %w", name, err)
		}
	}
	return m, nil
}

// Names returns all registered type names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Exists checks whether a model type is registered
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.descriptors[name]
	return exists
}

// Count returns the number of registered model types
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.descriptors)
}

// Clear removes all registered model types (useful for testing)
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.descriptors = make(map[string]Descriptor)
	r.factories = make(map[string]Factory)
}

// validateDescriptor rejects descriptors that could not produce a coherent
// model type
func validateDescriptor(desc Descriptor) error {
	if desc.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidDescriptor)
	}
	if desc.ConfigPath == "" {
		return fmt.Errorf("%w: %s has no config path", ErrInvalidDescriptor, desc.Name)
	}
	if desc.ManyMinimum < 0 || desc.ManyMaximum < 0 {
		return fmt.Errorf("%w: %s has negative cardinality bounds", ErrInvalidDescriptor, desc.Name)
	}
	if desc.ManyMaximum > 0 && desc.ManyMinimum > desc.ManyMaximum {
		return fmt.Errorf("%w: %s has minimum count %d above maximum %d", ErrInvalidDescriptor, desc.Name, desc.ManyMinimum, desc.ManyMaximum)
	}
	if !desc.Many {
		if desc.ManyMinimum != 0 || desc.ManyMaximum != 0 {
			return fmt.Errorf("%w: %s sets cardinality bounds without many", ErrInvalidDescriptor, desc.Name)
		}
		if desc.SortBy != "" {
			return fmt.Errorf("%w: %s sets a sort field without many", ErrInvalidDescriptor, desc.Name)
		}
	}
	return nil
}

// Default registry used by package-level registration. Applications that
// need isolation (tests, multi-tenant schemas) construct their own Registry.
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the package-level registry
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a model type to the default registry
func Register(desc Descriptor, factory Factory) error {
	return defaultRegistry.Register(desc, factory)
}

// MustRegister adds a model type to the default registry and panics on
// error. Intended for registration at program startup.
func MustRegister(desc Descriptor, factory Factory) {
	if err := Register(desc, factory); err != nil {
		panic(err)
	}
}

// Reset clears the default registry. Intended for tests.
func Reset() {
	defaultRegistry.Clear()
}
