package model

// ModelSet is an ordered collection of Model instances. Nested validation
// uses one as its accumulator: each instance that passes validation is
// appended, so later siblings can see earlier ones within the same pass. A
// set is created per validation call and never persisted.
type ModelSet struct {
	models []*Model
}

// NewModelSet creates a ModelSet holding the given instances in order
func NewModelSet(models ...*Model) *ModelSet {
	return &ModelSet{models: models}
}

// Append adds an instance to the end of the set
func (s *ModelSet) Append(m *Model) {
	s.models = append(s.models, m)
}

// Count returns the number of instances in the set
func (s *ModelSet) Count() int {
	return len(s.models)
}

// First returns the first instance, if any
func (s *ModelSet) First() (*Model, bool) {
	if len(s.models) == 0 {
		return nil, false
	}
	return s.models[0], true
}

// Models returns a copy of the instance list to prevent external mutation
func (s *ModelSet) Models() []*Model {
	out := make([]*Model, len(s.models))
	copy(out, s.models)
	return out
}

// Representations converts every instance to its representation form, in
// set order
func (s *ModelSet) Representations() []map[string]any {
	out := make([]map[string]any, 0, len(s.models))
	for _, m := range s.models {
		out = append(out, m.Representation())
	}
	return out
}
