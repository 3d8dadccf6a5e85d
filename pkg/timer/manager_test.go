package timer

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakdown(t *testing.T) {
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want Elapsed
	}{
		{"zero", since, Elapsed{}},
		{"seconds only", since.Add(42 * time.Second), Elapsed{Seconds: 42}},
		{"minute rollover", since.Add(90 * time.Second), Elapsed{Minutes: 1, Seconds: 30}},
		{"full mix", since.Add(49*time.Hour + 61*time.Minute + 5*time.Second), Elapsed{Days: 2, Hours: 2, Minutes: 1, Seconds: 5}},
		{"now before since", since.Add(-time.Hour), Elapsed{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Breakdown(since, tt.now))
		})
	}
}

// tickRecorder collects emitted breakdowns.
type tickRecorder struct {
	mu    sync.Mutex
	ticks []Elapsed
}

func (r *tickRecorder) record(e Elapsed) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, e)
}

func (r *tickRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ticks)
}

func TestManager_StartStopStateMachine(t *testing.T) {
	m := NewManager(time.Now(), nil)
	assert.Equal(t, Stopped, m.State())

	m.Start()
	assert.Equal(t, Running, m.State())

	// Start while running is a no-op.
	m.Start()
	assert.Equal(t, Running, m.State())

	m.Stop()
	assert.Equal(t, Stopped, m.State())

	// Stop while stopped is a no-op.
	m.Stop()
	assert.Equal(t, Stopped, m.State())
}

func TestManager_EmitsImmediatelyOnStart(t *testing.T) {
	rec := &tickRecorder{}
	m := NewManager(time.Now().Add(-10*time.Second), rec.record, WithInterval(time.Hour))
	defer m.Stop()

	m.Start()
	// The interval is an hour, so the only tick is the immediate recompute.
	require.Equal(t, 1, rec.count())
	assert.Equal(t, 10, rec.ticks[0].Seconds)
}

func TestManager_TicksWhileRunning(t *testing.T) {
	rec := &tickRecorder{}
	m := NewManager(time.Now(), rec.record, WithInterval(10*time.Millisecond))
	defer m.Stop()

	m.Start()
	require.Eventually(t, func() bool { return rec.count() >= 3 }, time.Second, 5*time.Millisecond)

	m.Stop()
	stopped := rec.count()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, rec.count())
}

func TestManager_VisibilityRestartsLoop(t *testing.T) {
	rec := &tickRecorder{}
	m := NewManager(time.Now(), rec.record, WithInterval(time.Hour))
	defer m.Stop()

	m.Start()
	require.Equal(t, 1, rec.count())

	m.HandleVisibility(false)
	assert.Equal(t, Stopped, m.State())

	// Regaining visibility restarts and recomputes immediately.
	m.HandleVisibility(true)
	assert.Equal(t, Running, m.State())
	assert.Equal(t, 2, rec.count())
}

func TestManager_SetSinceRecomputes(t *testing.T) {
	rec := &tickRecorder{}
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(now.Add(-time.Hour), rec.record,
		WithInterval(time.Hour),
		WithClock(func() time.Time { return now }),
	)
	defer m.Stop()

	m.Start()
	require.Equal(t, 1, rec.count())
	assert.Equal(t, 1, rec.ticks[0].Hours)

	// A reset brings the breakdown back to zero without waiting for a tick.
	m.SetSince(now)
	require.Equal(t, 2, rec.count())
	assert.Equal(t, Elapsed{}, rec.ticks[1])
}
