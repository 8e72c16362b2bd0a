package cli

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// fileWatcher triggers a callback when one file changes. The containing
// directory is watched rather than the file itself, so rename-based saves
// keep working, and events are debounced because editors emit bursts of
// writes on save.
type fileWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func()
	logger   *zap.Logger
	delay    time.Duration

	stopOnce sync.Once
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// newFileWatcher creates a watcher for a single file
func newFileWatcher(path string, logger *zap.Logger, onChange func()) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &fileWatcher{
		watcher:  watcher,
		path:     abs,
		onChange: onChange,
		logger:   logger,
		delay:    250 * time.Millisecond,
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins watching in the background
func (w *fileWatcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.logger.Debug("watching directory", zap.String("dir", dir))

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop halts the watcher and waits for the event loop to exit
func (w *fileWatcher) Stop() error {
	w.stopOnce.Do(func() { close(w.stopChan) })
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *fileWatcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("file changed",
				zap.String("path", event.Name),
				zap.String("op", event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.delay)
			pending = timer.C

		case <-pending:
			pending = nil
			w.onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-w.stopChan:
			return
		}
	}
}
