// Package watch rebuilds the index when a loaded source file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/ragqa/internal/logger"
)

// DefaultDebounce is how long the watcher waits for a burst of events
// to settle before rebuilding.
const DefaultDebounce = 500 * time.Millisecond

// ErrClosed is returned by Start after Close.
var ErrClosed = errors.New("watch: watcher is closed")

// Rebuilder rebuilds the index from the watched files.
type Rebuilder interface {
	Rebuild(ctx context.Context) error
}

// Watcher triggers a rebuild after any watched file is written, created,
// renamed or removed. Parent directories are watched so that editors
// that replace files by rename are noticed.
type Watcher struct {
	files    map[string]struct{}
	rebuild  Rebuilder
	debounce time.Duration
	log      *logger.Logger

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	closed  bool
	done    chan struct{}
	rebuilt int
}

// New creates a watcher for paths. Nothing is watched until Start.
func New(paths []string, rebuild Rebuilder, log *logger.Logger) *Watcher {
	files := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		files[absPath(p)] = struct{}{}
	}
	return &Watcher{
		files:    files,
		rebuild:  rebuild,
		debounce: DefaultDebounce,
		log:      log,
		done:     make(chan struct{}),
	}
}

// SetDebounce changes the settle interval. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start begins watching. Events are processed in a goroutine until ctx
// is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.fsw != nil {
		return fmt.Errorf("watch: already started")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	dirs := make(map[string]struct{})
	for f := range w.files {
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close() //nolint:errcheck
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	w.fsw = fsw
	go w.loop(ctx, fsw)
	return nil
}

// Done is closed when the event loop exits.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Rebuilds returns the number of rebuilds triggered so far.
func (w *Watcher) Rebuilds() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rebuilt
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.fsw == nil {
		close(w.done)
		return nil
	}
	return w.fsw.Close()
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer close(w.done)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			fsw.Close() //nolint:errcheck
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("Source changed: %s (%s)", ev.Name, ev.Op)
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("File watcher error: %v", err)

		case <-timer.C:
			w.log.Info("Source files changed, rebuilding index")
			if err := w.rebuild.Rebuild(ctx); err != nil {
				w.log.Warn("Rebuild failed, keeping the previous index: %v", err)
			}
			w.mu.Lock()
			w.rebuilt++
			w.mu.Unlock()
		}
	}
}

// relevant reports whether ev refers to a watched file with an operation
// that can change its content.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if _, ok := w.files[absPath(ev.Name)]; !ok {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	if resolved, err := filepath.EvalSymlinks(filepath.Dir(p)); err == nil {
		return filepath.Join(resolved, filepath.Base(p))
	}
	return filepath.Clean(p)
}
