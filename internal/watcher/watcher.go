// Package watcher provides debounced change notification for data files.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay is the time to wait after the last file event before triggering
// a callback. This coalesces rapid changes (e.g., a truncate then a write)
// into a single notification.
const debounceDelay = 100 * time.Millisecond

const dirMode = 0o750

// Watcher watches a set of files and invokes a callback, debounced, when any
// of them changes. It watches the parent directories so that files which do
// not exist yet, or are replaced by rename, are still seen.
type Watcher struct {
	fsw      *fsnotify.Watcher
	files    map[string]struct{}
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
}

// New creates a Watcher for the given files. Missing parent directories are
// created. The callback is invoked (debounced) whenever one of the files
// changes.
func New(files []string, callback func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]struct{}, len(files)),
		callback: callback,
	}
	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("resolving %s: %w", f, err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for d := range dirs {
		if err := os.MkdirAll(d, dirMode); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("creating %s: %w", d, err)
		}
		if err := fsw.Add(d); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Run starts the watch loop. It blocks until the context is canceled.
// Errors from the underlying watcher are passed to the optional errFn callback.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.watched(event.Name) {
				continue
			}
			w.debounce()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) watched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}

func (w *Watcher) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceDelay, w.callback)
}
