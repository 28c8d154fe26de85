package profiler

import (
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-vr/common"
)

// Stat accumulates the timings recorded under one label since the last report.
type Stat struct {
	Count int
	Total time.Duration
	Max   time.Duration
	Last  time.Duration
}

// Mean returns the average recorded duration, or zero if nothing was recorded.
//
// Returns:
//   - time.Duration: Total / Count
func (s Stat) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Profiler tracks how long buffer generation takes per label (typically a shape kind)
// and logs a summary with heap statistics at a configurable interval.
// It is safe for concurrent use.
type Profiler struct {
	mu             sync.Mutex
	lastTime       time.Time
	updateInterval time.Duration
	stats          map[string]*Stat
	memStats       runtime.MemStats
	lastTotalAlloc uint64
	now            func() time.Time
}

// NewProfiler creates a new Profiler with the provided options applied.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: a variadic list of ProfilerOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		stats:          make(map[string]*Stat),
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Record adds one timing under label.
// Logs the accumulated statistics and resets them when the update interval has elapsed.
//
// Parameters:
//   - label: the timing category, e.g. "dome"
//   - d: the measured duration
//
// Returns:
//   - bool: true if stats were logged by this call, false otherwise
func (p *Profiler) Record(label string, d time.Duration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.stats[label]
	if !ok {
		s = &Stat{}
		p.stats[label] = s
	}
	s.Count++
	s.Total += d
	s.Last = d
	s.Max = max(s.Max, d)

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	allocRateMB := float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	labels := make([]string, 0, len(p.stats))
	for l := range p.stats {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	for _, l := range labels {
		st := p.stats[l]
		common.Logger().Info("timing stats",
			"label", l,
			"count", st.Count,
			"mean", st.Mean(),
			"max", st.Max,
			"heapMB", allocMB,
			"allocRateMBs", allocRateMB,
		)
	}

	p.stats = make(map[string]*Stat)
	p.lastTime = currentTime
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Stats returns a copy of the statistics accumulated since the last report.
//
// Returns:
//   - map[string]Stat: the statistics keyed by label
func (p *Profiler) Stats() map[string]Stat {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]Stat, len(p.stats))
	for l, s := range p.stats {
		out[l] = *s
	}
	return out
}
