package store

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/armature-io/armature/internal/pathutil"
)

// Revision records one saved generation of the config file
type Revision struct {
	ID          uuid.UUID
	Time        time.Time
	Description string
}

// FileStore is a config tree backed by a YAML file. Mutations happen in
// memory; Save writes the tree to disk atomically and records a revision.
type FileStore struct {
	mu        sync.RWMutex
	path      string
	tree      map[string]any
	revisions []Revision
	logger    *zap.Logger
}

// Option configures a FileStore
type Option func(*FileStore)

// WithLogger sets the logger used for store events
func WithLogger(logger *zap.Logger) Option {
	return func(s *FileStore) {
		s.logger = logger
	}
}

// Open loads the config file at path into a new FileStore. A missing file
// is not an error; the store starts empty and the file appears on first
// Save.
func Open(path string, opts ...Option) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		tree:   map[string]any{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		s.logger.Info("config file not found, starting empty",
			zap.String("path", s.path))
		return nil
	}

	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	s.tree = v.AllSettings()
	s.logger.Info("config loaded", zap.String("path", s.path))
	return nil
}

// Path returns the file the store reads from and writes to
func (s *FileStore) Path() string {
	return s.path
}

// GetAt returns a copy of the value at path, reporting whether it exists
func (s *FileStore) GetAt(path string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := pathutil.Get(s.tree, path)
	if !ok {
		return nil, false
	}
	return pathutil.Copy(value), true
}

// SetAt writes a copy of the value at path, creating intermediate nodes.
// The change is in-memory until Save.
func (s *FileStore) SetAt(path string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return pathutil.Set(s.tree, path, pathutil.Copy(value))
}

// DeleteAt removes the value at path. The change is in-memory until Save.
func (s *FileStore) DeleteAt(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return pathutil.Delete(s.tree, path)
}

// CountAt returns the number of elements in the list at path
func (s *FileStore) CountAt(path string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return pathutil.Count(s.tree, path)
}

// Tree returns a snapshot copy of the whole tree
func (s *FileStore) Tree() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return pathutil.Copy(s.tree).(map[string]any)
}

// Save writes the tree to disk and records a revision describing the
// change. The write goes through a temp file and rename so a crash never
// leaves a half-written config.
func (s *FileStore) Save(description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(s.tree)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace config: %w", err)
	}

	rev := Revision{
		ID:          uuid.New(),
		Time:        time.Now(),
		Description: description,
	}
	s.revisions = append(s.revisions, rev)

	s.logger.Info("config saved",
		zap.String("path", s.path),
		zap.String("revision", rev.ID.String()),
		zap.String("description", description))
	return nil
}

// Revisions returns the revisions recorded by this store instance, oldest
// first
func (s *FileStore) Revisions() []Revision {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Revision, len(s.revisions))
	copy(out, s.revisions)
	return out
}
