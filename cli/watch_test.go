package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestFileWatcherTriggersOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("a: 1\n"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	changed := make(chan struct{}, 1)
	watcher, err := newFileWatcher(path, zap.NewNop(), func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("newFileWatcher() error = %v", err)
	}
	if err := watcher.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer watcher.Stop()

	// Allow the watcher to initialize before modifying the file
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("a: 2\n"), 0644); err != nil {
		t.Fatalf("failed to modify file: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Error("expected a change notification")
	}
}

func TestFileWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("a: 1\n"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	changed := make(chan struct{}, 1)
	watcher, err := newFileWatcher(path, zap.NewNop(), func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("newFileWatcher() error = %v", err)
	}
	if err := watcher.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer watcher.Stop()

	time.Sleep(100 * time.Millisecond)
	sibling := filepath.Join(dir, "other.yaml")
	if err := os.WriteFile(sibling, []byte("b: 1\n"), 0644); err != nil {
		t.Fatalf("failed to write sibling file: %v", err)
	}

	select {
	case <-changed:
		t.Error("unexpected notification for a sibling file")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestFileWatcherStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("a: 1\n"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	watcher, err := newFileWatcher(path, zap.NewNop(), func() {})
	if err != nil {
		t.Fatalf("newFileWatcher() error = %v", err)
	}
	if err := watcher.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := watcher.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := watcher.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}
