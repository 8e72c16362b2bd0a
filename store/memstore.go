// Package store provides config tree storage backends: an in-memory tree
// for tests and ephemeral use, and a YAML-file-backed tree with revision
// tracking. Both address values by slash-delimited paths and are safe for
// concurrent use.
package store

import (
	"sync"

	"github.com/armature-io/armature/internal/pathutil"
)

// MemStore is an in-memory config tree
type MemStore struct {
	mu   sync.RWMutex
	tree map[string]any
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{tree: map[string]any{}}
}

// NewMemStoreFrom creates an in-memory store seeded with a copy of the
// given tree
func NewMemStoreFrom(tree map[string]any) *MemStore {
	return &MemStore{tree: pathutil.Copy(tree).(map[string]any)}
}

// GetAt returns a copy of the value at path, reporting whether it exists
func (s *MemStore) GetAt(path string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := pathutil.Get(s.tree, path)
	if !ok {
		return nil, false
	}
	return pathutil.Copy(value), true
}

// SetAt writes a copy of the value at path, creating intermediate nodes.
// Writing one past the end of a list appends.
func (s *MemStore) SetAt(path string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return pathutil.Set(s.tree, path, pathutil.Copy(value))
}

// DeleteAt removes the value at path. Removing a list element shifts later
// elements down.
func (s *MemStore) DeleteAt(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return pathutil.Delete(s.tree, path)
}

// CountAt returns the number of elements in the list at path
func (s *MemStore) CountAt(path string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return pathutil.Count(s.tree, path)
}

// Tree returns a snapshot copy of the whole tree
func (s *MemStore) Tree() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return pathutil.Copy(s.tree).(map[string]any)
}
