// Package watch reports changes to a fixed set of configuration files.
//
// **Features:**
//   - Debouncing - A burst of writes produces one callback
//   - Missing files - Parent directories are watched, so files created
//     after Start (including inside a directory created later) are seen
//   - Removal - Deleting or renaming a watched file is a change too
//
// **Usage:**
//
//	w, err := watch.New(config.WatchPaths(dir), regenerate, watch.Options{}, logger)
//	if err != nil {
//	    return err
//	}
//	if err := w.Start(); err != nil {
//	    return err
//	}
//	defer w.Stop()
package watch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 200 * time.Millisecond

// ErrStopped is returned by Start after Stop.
var ErrStopped = errors.New("watcher already stopped")

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
}

// Watcher calls onChange with the changed files after activity settles.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool // cleaned absolute paths
	dirs     map[string]bool // parents of files
	onChange func(changed []string)
	logger   *slog.Logger
	debounce time.Duration

	// Debouncing
	pending map[string]bool
	timer   *time.Timer
	pendMu  sync.Mutex

	// Lifecycle
	stopChan chan struct{}
	done     chan struct{}
	started  bool
	stopped  bool
	mu       sync.Mutex
}

// New creates a watcher for paths. onChange runs on its own goroutine, never
// concurrently with itself.
func New(paths []string, onChange func(changed []string), opts Options, logger *slog.Logger) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("no paths to watch")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	w := &Watcher{
		files:    make(map[string]bool, len(paths)),
		dirs:     make(map[string]bool),
		onChange: onChange,
		logger:   logger,
		debounce: opts.Debounce,
		pending:  make(map[string]bool),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		w.files[abs] = true
		w.dirs[filepath.Dir(abs)] = true
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.watcher = fw
	return w, nil
}

// Start watches every existing parent directory and begins the event loop.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return ErrStopped
	}
	if w.started {
		return nil
	}

	for _, dir := range w.sortedDirs() {
		if err := w.watcher.Add(dir); err != nil {
			// Directories such as .uitokens may not exist yet; their parent
			// is watched instead so the directory creation is seen.
			w.logger.Debug("Directory not watched yet", "path", dir, "error", err)
			w.watchAncestor(dir)
		}
	}
	if len(w.watcher.WatchList()) == 0 {
		return fmt.Errorf("none of the watched directories exist: %v", w.sortedDirs())
	}

	w.started = true
	w.logger.Info("Config watcher started", "files", len(w.files), "debounce", w.debounce)
	go w.eventLoop()
	return nil
}

// watchAncestor watches the parent of a missing directory so its creation
// is seen.
func (w *Watcher) watchAncestor(dir string) {
	parent := filepath.Dir(dir)
	if parent == dir || slices.Contains(w.watcher.WatchList(), parent) {
		return
	}
	if err := w.watcher.Add(parent); err == nil {
		w.logger.Debug("Watching parent of missing directory", "path", parent)
	}
}

// Stop ends the event loop and cancels a pending callback. Safe to call
// multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.stopChan)
	started := w.started
	w.mu.Unlock()

	w.pendMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pending = make(map[string]bool)
	w.pendMu.Unlock()

	err := w.watcher.Close()
	if started {
		<-w.done
	}
	w.logger.Info("Config watcher stopped")
	return err
}

func (w *Watcher) eventLoop() {
	defer close(w.done)
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	name := filepath.Clean(event.Name)

	// A parent directory of ours appeared: watch it and pick up files that
	// were written before the watch was in place.
	if w.dirs[name] && event.Has(fsnotify.Create) {
		if err := w.watcher.Add(name); err != nil {
			w.logger.Warn("Failed to watch directory", "path", name, "error", err)
			return
		}
		for f := range w.files {
			if filepath.Dir(f) != name {
				continue
			}
			if _, err := os.Stat(f); err == nil {
				w.schedule(f)
			}
		}
		return
	}

	if !w.files[name] {
		return
	}
	if event.Op == fsnotify.Chmod {
		return
	}

	w.logger.Debug("Config file event", "op", event.Op.String(), "file", name)
	w.schedule(name)
}

// schedule records a change and restarts the debounce timer.
func (w *Watcher) schedule(file string) {
	w.pendMu.Lock()
	defer w.pendMu.Unlock()

	select {
	case <-w.stopChan:
		return
	default:
	}

	w.pending[file] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

// fire hands the pending set to onChange. Holding pendMu while the callback
// runs keeps callbacks serialized.
func (w *Watcher) fire() {
	w.pendMu.Lock()
	defer w.pendMu.Unlock()

	if len(w.pending) == 0 {
		return
	}
	changed := make([]string, 0, len(w.pending))
	for f := range w.pending {
		changed = append(changed, f)
	}
	slices.Sort(changed)
	w.pending = make(map[string]bool)

	w.logger.Info("Config changed", "files", changed)
	w.onChange(changed)
}

func (w *Watcher) sortedDirs() []string {
	dirs := make([]string, 0, len(w.dirs))
	for d := range w.dirs {
		dirs = append(dirs, d)
	}
	slices.Sort(dirs)
	return dirs
}
