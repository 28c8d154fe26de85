package profiler

import "time"

// ProfilerOption is a functional option used to configure a Profiler during construction.
type ProfilerOption func(*Profiler)

// WithUpdateInterval sets how often accumulated statistics are logged.
// Values <= 0 log on every Record call.
//
// Parameters:
//   - interval: the reporting interval
//
// Returns:
//   - ProfilerOption: a function that sets the interval
func WithUpdateInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		p.updateInterval = max(interval, 0)
	}
}

// WithClock replaces the time source, mainly for tests.
//
// Parameters:
//   - now: the function returning the current time
//
// Returns:
//   - ProfilerOption: a function that sets the clock
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		p.now = now
	}
}
