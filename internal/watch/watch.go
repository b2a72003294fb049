// Package watch delivers debounced callbacks when files or directories change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/wexinc/rizeclone/internal/logging"
)

// DefaultDebounce coalesces bursts of events (editors and atomic renames
// often produce several per save).
const DefaultDebounce = 200 * time.Millisecond

type target struct {
	path  string
	isDir bool
	fn    func()
}

// Watcher dispatches change notifications for a set of paths.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	logger   *logging.Logger

	mu      sync.Mutex
	targets []target
	dirs    map[string]bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger used for watcher errors.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New creates a Watcher. Call Close when done.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		debounce: DefaultDebounce,
		logger:   logging.NewNoop(),
		dirs:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// File calls fn after path is created, written, renamed or removed. The
// parent directory is watched, so path need not exist yet.
func (w *Watcher) File(path string, fn func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.addDir(filepath.Dir(abs)); err != nil {
		return err
	}
	w.mu.Lock()
	w.targets = append(w.targets, target{path: abs, fn: fn})
	w.mu.Unlock()
	return nil
}

// Dir calls fn after any entry directly inside dir changes.
func (w *Watcher) Dir(dir string, fn func()) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := w.addDir(abs); err != nil {
		return err
	}
	w.mu.Lock()
	w.targets = append(w.targets, target{path: abs, isDir: true, fn: fn})
	w.mu.Unlock()
	return nil
}

func (w *Watcher) addDir(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dirs[dir] {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.dirs[dir] = true
	return nil
}

// matches returns the indexes of targets affected by an event on name.
func (w *Watcher) matches(name string) []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	var idx []int
	for i, t := range w.targets {
		if t.isDir {
			if filepath.Dir(name) == t.path {
				idx = append(idx, i)
			}
		} else if name == t.path {
			idx = append(idx, i)
		}
	}
	return idx
}

// Run processes events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	debounce := time.NewTimer(0)
	debounce.Stop()
	select {
	case <-debounce.C:
	default:
	}

	pending := make(map[int]bool)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			hits := w.matches(name)
			if len(hits) == 0 {
				continue
			}
			for _, i := range hits {
				pending[i] = true
			}
			debounce.Reset(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err)
		case <-debounce.C:
			w.mu.Lock()
			fns := make([]func(), 0, len(pending))
			for i := range pending {
				fns = append(fns, w.targets[i].fn)
			}
			w.mu.Unlock()
			clear(pending)
			for _, fn := range fns {
				fn()
			}
		}
	}
}

// Close stops watching all paths.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
