package watcher

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the Watcher waits after the last event before
// reloading.
const DefaultDebounce = 250 * time.Millisecond

// Reloader re-reads configuration from disk. *config.Manager implements it.
type Reloader interface {
	Reload() error
}

// Watcher watches one file and calls its Reloader after the file settles.
type Watcher struct {
	path     string
	reloader Reloader
	logger   *log.Logger
	debounce time.Duration
	onReload func(error)

	fsw    *fsnotify.Watcher
	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// New creates a Watcher for path. Nothing is watched until Start.
func New(path string, r Reloader, logger *log.Logger) (*Watcher, error) {
	if r == nil {
		return nil, fmt.Errorf("reloader cannot be nil")
	}
	if path == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return &Watcher{
		path:     abs,
		reloader: r,
		logger:   logger,
		debounce: DefaultDebounce,
		stopCh:   make(chan struct{}),
	}, nil
}

// SetDebounce changes the quiet period. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// OnReload registers fn to be called with the result of every reload. Call
// before Start.
func (w *Watcher) OnReload(fn func(error)) {
	w.onReload = fn
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Start begins watching. The config directory is created if missing so a
// file written later is still seen.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.run()
	return nil
}

func (w *Watcher) run() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Printf("watcher: %v", err)

		case <-fire:
			fire = nil
			w.reload()

		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
		ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove)
}

func (w *Watcher) reload() {
	err := w.reloader.Reload()
	if err != nil {
		w.logger.Printf("watcher: reload %s: %v", w.path, err)
	} else {
		w.logger.Printf("watcher: reloaded %s", w.path)
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}

// Stop halts the watcher. It is safe to call more than once and before
// Start.
func (w *Watcher) Stop() error {
	var err error
	w.once.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		if w.fsw != nil {
			err = w.fsw.Close()
		}
	})
	return err
}
