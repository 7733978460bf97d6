// Package watcher re-runs a callback when DSL files change on disk.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"c4dsl/internal/loader"
)

// DefaultDebounce is the quiet period after the last write to a file
// before the callback runs
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches DSL files, and directories of DSL files, for changes
type Watcher struct {
	paths    []string
	onChange func(path string)
	debounce time.Duration
	log      *zap.SugaredLogger
}

// New creates a new file watcher. Each path may be a file or a directory;
// directories match every *.dsl file directly inside them.
func New(paths []string, onChange func(path string)) *Watcher {
	return &Watcher{
		paths:    paths,
		onChange: onChange,
		debounce: DefaultDebounce,
		log:      zap.S().Named("watcher"),
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// targets resolves the watched paths into directories to subscribe to,
// the explicit files, and the directories watched as a whole
func (w *Watcher) targets() (dirs map[string]bool, files map[string]bool, whole map[string]bool, err error) {
	dirs = make(map[string]bool)
	files = make(map[string]bool)
	whole = make(map[string]bool)

	for _, p := range w.paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, nil, nil, err
		}
		info, err := os.Stat(abs)
		if err == nil && info.IsDir() {
			dirs[abs] = true
			whole[abs] = true
			continue
		}
		// Watch the directory containing the file so editors that replace
		// the file on save are still seen
		dirs[filepath.Dir(abs)] = true
		files[abs] = true
	}
	return dirs, files, whole, nil
}

// Watch starts watching. It blocks until the context is cancelled or the
// underlying watcher fails to start.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	dirs, files, whole, err := w.targets()
	if err != nil {
		return err
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return err
		}
		w.log.Infow("Watching for changes", "dir", dir)
	}

	var mu sync.Mutex
	timers := make(map[string]*time.Timer)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	matches := func(path string) bool {
		if files[path] {
			return true
		}
		return whole[filepath.Dir(path)] && filepath.Ext(path) == loader.Extension
	}

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}

			path, err := filepath.Abs(event.Name)
			if err != nil || !matches(path) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			mu.Lock()
			if t, exists := timers[path]; exists {
				t.Stop()
			}
			timers[path] = time.AfterFunc(w.debounce, func() {
				if ctx.Err() != nil {
					return
				}
				if _, err := os.Stat(path); err != nil {
					return
				}
				w.log.Infow("File changed", "path", path)
				w.onChange(path)
			})
			mu.Unlock()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("Watcher error", "error", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
