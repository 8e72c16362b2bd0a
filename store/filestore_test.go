package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

func TestFileStoreMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if len(s.Tree()) != 0 {
		t.Errorf("Tree() = %v, want empty", s.Tree())
	}
	if s.Path() != path {
		t.Errorf("Path() = %q, want %q", s.Path(), path)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	s, err := Open(path, WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := s.SetAt("filter/policy", map[string]any{"name": "default", "defaultaction": "deny"}); err != nil {
		t.Fatalf("SetAt() error = %v", err)
	}
	if err := s.SetAt("filter/rules/rule/0", map[string]any{"name": "allow-dns", "priority": 10, "enabled": true}); err != nil {
		t.Fatalf("SetAt() error = %v", err)
	}
	if err := s.SetAt("filter/rules/rule/1", map[string]any{"name": "allow-ssh", "priority": 20, "enabled": false}); err != nil {
		t.Fatalf("SetAt() error = %v", err)
	}
	if err := s.Save("initial config"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open(reopen) error = %v", err)
	}
	if diff := cmp.Diff(s.Tree(), reopened.Tree()); diff != "" {
		t.Errorf("tree did not survive the round trip (-want +got):\n%s", diff)
	}
	if got := reopened.CountAt("filter/rules/rule"); got != 2 {
		t.Errorf("CountAt() = %d, want 2", got)
	}
}

func TestFileStoreSaveLeavesNoTempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.SetAt("system/hostname", "fw1"); err != nil {
		t.Fatalf("SetAt() error = %v", err)
	}
	if err := s.Save("set hostname"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file missing after save: %v", err)
	}
}

func TestFileStoreRevisions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := s.SetAt("system/hostname", "fw1"); err != nil {
		t.Fatalf("SetAt() error = %v", err)
	}
	if err := s.Save("set hostname"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.SetAt("system/hostname", "fw2"); err != nil {
		t.Fatalf("SetAt() error = %v", err)
	}
	if err := s.Save("rename host"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	revs := s.Revisions()
	if len(revs) != 2 {
		t.Fatalf("Revisions() returned %d entries, want 2", len(revs))
	}
	if revs[0].ID == revs[1].ID {
		t.Error("revision IDs are not unique")
	}
	if revs[0].Description != "set hostname" || revs[1].Description != "rename host" {
		t.Errorf("descriptions = %q, %q", revs[0].Description, revs[1].Description)
	}
	if revs[0].Time.IsZero() {
		t.Error("revision time not recorded")
	}
}

func TestFileStoreRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml: [\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Open(path); err == nil {
		t.Error("Open() accepted a malformed config file")
	}
}
