package mod

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultReloadDelay is how long the watcher waits for writes to settle.
const DefaultReloadDelay = 200 * time.Millisecond

// Watcher notices edits to mod scripts. It never touches the manager; the
// host polls Pending on its frame loop and calls Refresh itself.
type Watcher struct {
	fsw    *fsnotify.Watcher
	delay  time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	closed  bool

	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithReloadDelay sets the debounce delay.
func WithReloadDelay(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithWatcherLogger sets the logger for watch errors.
func WithWatcherLogger(logger *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher watches dir and every directory below it.
func NewWatcher(dir string, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		delay:   DefaultReloadDelay,
		logger:  zap.NewNop(),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.addRecursive(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w.closedWg.Add(1)
	go w.processLoop()
	return w, nil
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.fsw.Add(p)
	})
}

// Pending reports whether a reload is due and clears the flag.
func (w *Watcher) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	p := w.pending
	w.pending = false
	return p
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	w.closedWg.Wait()
	return err
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("mod watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.fsw.Add(ev.Name)
			return
		}
	}
	if !relevant(ev) {
		return
	}
	w.schedule()
}

// relevant reports whether ev can change what a script does.
func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	switch filepath.Ext(ev.Name) {
	case ".lua", ".json", ".yaml":
		return true
	}
	return false
}

// schedule arms the debounce timer; every event pushes it back.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if !w.closed {
			w.pending = true
		}
	})
}
