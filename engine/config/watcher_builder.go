package config

import "time"

// WatcherOption is a functional option used to configure a Watcher during construction.
type WatcherOption func(*watcher)

// WithDebounce sets how long the file must stay quiet before it is reloaded. Editors often
// emit several write events per save; the reload happens once, after the last of them.
//
// Parameters:
//   - d: the debounce interval, zero to reload on every event without waiting
//
// Returns:
//   - WatcherOption: a function that sets the debounce interval
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler replaces the default handler, which logs a warning.
//
// Parameters:
//   - fn: called on the watcher goroutine with watcher and reload errors
//
// Returns:
//   - WatcherOption: a function that sets the error handler
func WithErrorHandler(fn func(error)) WatcherOption {
	return func(w *watcher) {
		if fn != nil {
			w.onError = fn
		}
	}
}
