package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/fsnotify/fsnotify"
)

// SettingsListener receives settings reloaded after the file changed on disk.
type SettingsListener func(Settings)

// watcher is the unexported implementation of Watcher.
type watcher struct {
	mu *sync.Mutex
	wg sync.WaitGroup

	path     string
	fsw      *fsnotify.Watcher
	done     chan struct{}
	listener SettingsListener
	onError  func(error)
	debounce time.Duration
	closed   bool
}

// Watcher reloads a settings file whenever it is written and hands the result to a listener.
// The parent directory is watched so editors that replace the file on save are still seen.
// A file that fails to load is reported and the listener is not called.
type Watcher interface {
	// Path returns the watched settings file.
	//
	// Returns:
	//   - string: the absolute path of the settings file
	Path() string

	// Close stops watching and waits for the event loop to exit.
	//
	// Returns:
	//   - error: an error from closing the underlying file watcher
	Close() error
}

var _ Watcher = &watcher{}

// NewWatcher starts watching the settings file at path.
//
// Parameters:
//   - path: the settings file; it does not need to exist yet
//   - listener: called on the watcher goroutine with every successfully reloaded Settings
//   - options: a variadic list of options to configure the watcher
//
// Returns:
//   - Watcher: the running watcher
//   - error: an error if the directory cannot be watched
func NewWatcher(path string, listener SettingsListener, options ...WatcherOption) (Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve settings path: %w", err)
	}

	w := &watcher{
		mu:       &sync.Mutex{},
		path:     abs,
		done:     make(chan struct{}),
		listener: listener,
		debounce: 100 * time.Millisecond,
		onError: func(err error) {
			common.Logger().Warn("settings watcher error", "error", err)
		},
	}
	for _, opt := range options {
		opt(w)
	}

	w.fsw, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
		w.fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *watcher) Path() string {
	return w.path
}

func (w *watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.done)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *watcher) run() {
	defer w.wg.Done()

	// Each matching event restarts the timer so a burst reloads once, after it settles.
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if w.debounce == 0 {
				w.reload()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

// reload loads the file and notifies the listener.
func (w *watcher) reload() {
	s, err := Load(w.path)
	if err != nil {
		// Partially written files fail to decode; the next write event retries.
		w.onError(err)
		return
	}
	if w.listener != nil {
		w.listener(s)
	}
}
