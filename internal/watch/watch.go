// Package watch re-runs a conversion whenever a watched report changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events an editor save produces
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches report files through their parent directories, so reports
// that are replaced by rename (as many editors do) keep being watched.
type Watcher struct {
	watcher  *fsnotify.Watcher
	targets  map[string]bool
	onChange func(path string)
	onError  func(err error)

	// Debounce is the quiet period before onChange runs for a path
	Debounce time.Duration

	mu      sync.Mutex
	pending map[string]*pendingRun
}

// New starts watching the directories of the given report paths.
// onChange is called with the cleaned absolute path of a changed report.
func New(paths []string, onChange func(path string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		targets:  make(map[string]bool),
		onChange: onChange,
		Debounce: DefaultDebounce,
		pending:  make(map[string]*pendingRun),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		w.targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	return w, nil
}

// OnError sets a handler for watcher errors; they are dropped otherwise
func (w *Watcher) OnError(fn func(err error)) {
	w.onError = fn
}

// Run dispatches change events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			path := filepath.Clean(event.Name)
			if w.targets[path] {
				w.schedule(path)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

// pendingRun is one scheduled onChange call. Its identity tells a stale
// timer callback apart from the current one.
type pendingRun struct {
	timer *time.Timer
}

// schedule runs onChange once the path has been quiet for the debounce period
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if prev, ok := w.pending[path]; ok {
		prev.timer.Stop()
	}
	run := &pendingRun{}
	w.pending[path] = run
	run.timer = time.AfterFunc(w.Debounce, func() { w.fire(path, run) })
}

// fire calls onChange unless run was superseded while its callback waited
// for the lock; the newer run then owns the entry and fires later.
func (w *Watcher) fire(path string, run *pendingRun) {
	w.mu.Lock()
	if w.pending[path] != run {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	w.mu.Unlock()

	w.onChange(path)
}

func (w *Watcher) close() {
	w.mu.Lock()
	for path, run := range w.pending {
		run.timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()
	w.watcher.Close()
}
