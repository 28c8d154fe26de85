package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordAccumulatesUntilInterval(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewProfiler(
		WithUpdateInterval(time.Second),
		WithClock(func() time.Time { return now }),
	)

	assert.False(t, p.Record("dome", 2*time.Millisecond))
	assert.False(t, p.Record("dome", 4*time.Millisecond))
	assert.False(t, p.Record("flat", time.Millisecond))

	stats := p.Stats()
	assert.Equal(t, 2, stats["dome"].Count)
	assert.Equal(t, 3*time.Millisecond, stats["dome"].Mean())
	assert.Equal(t, 4*time.Millisecond, stats["dome"].Max)
	assert.Equal(t, 4*time.Millisecond, stats["dome"].Last)
	assert.Equal(t, 1, stats["flat"].Count)

	now = now.Add(1500 * time.Millisecond)
	assert.True(t, p.Record("dome", time.Millisecond))
	assert.Empty(t, p.Stats())
}

func TestZeroIntervalReportsEveryRecord(t *testing.T) {
	p := NewProfiler(WithUpdateInterval(-time.Second))
	assert.True(t, p.Record("sphere", time.Microsecond))
	assert.True(t, p.Record("sphere", time.Microsecond))
}

func TestStatMeanEmpty(t *testing.T) {
	assert.Zero(t, Stat{}.Mean())
}
