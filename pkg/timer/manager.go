// Package timer drives the incident-timer display: a one-second polling loop
// gated by view visibility and focus, recomputing the elapsed-time breakdown
// on every tick.
package timer

import (
	"sync"
	"time"
)

// State is the loop state.
type State int

const (
	// Stopped means no ticks are being emitted.
	Stopped State = iota
	// Running means the loop emits one tick per interval.
	Running
)

// Elapsed is the time-since-incident breakdown shown to the user.
type Elapsed struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Breakdown splits the duration between since and now into display units.
// A now before since yields the zero breakdown.
func Breakdown(since, now time.Time) Elapsed {
	d := now.Sub(since)
	if d < 0 {
		return Elapsed{}
	}

	total := int(d / time.Second)
	return Elapsed{
		Days:    total / 86400,
		Hours:   (total % 86400) / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}

// Manager runs the polling loop for one mounted timer view.
//
// State machine: Stopped -> Running on Start; Running -> Stopped on Stop.
// Regaining visibility or focus restarts the loop, which recomputes the
// breakdown immediately instead of waiting for the next tick.
type Manager struct {
	mu       sync.Mutex
	state    State
	stopCh   chan struct{}
	since    time.Time
	interval time.Duration
	onTick   func(Elapsed)
	now      func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithInterval overrides the one-second tick interval.
func WithInterval(d time.Duration) Option {
	return func(m *Manager) { m.interval = d }
}

// WithClock injects the clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a stopped manager for a timer whose last incident was at
// since. onTick receives the recomputed breakdown on every tick.
func NewManager(since time.Time, onTick func(Elapsed), opts ...Option) *Manager {
	m := &Manager{
		since:    since,
		interval: time.Second,
		onTick:   onTick,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current loop state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SetSince updates the incident timestamp (after a reset) and recomputes
// immediately when running.
func (m *Manager) SetSince(since time.Time) {
	m.mu.Lock()
	m.since = since
	running := m.state == Running
	m.mu.Unlock()

	if running {
		m.emit()
	}
}

// Start begins the polling loop. The breakdown is recomputed immediately, so
// a view resuming from hidden does not display a stale value for a tick.
// No-op when already running.
func (m *Manager) Start() {
	m.mu.Lock()
	if m.state == Running {
		m.mu.Unlock()
		return
	}
	m.state = Running
	stop := make(chan struct{})
	m.stopCh = stop
	m.mu.Unlock()

	m.emit()
	go m.run(stop)
}

// Stop halts the polling loop. Idempotent.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Stopped {
		return
	}
	m.state = Stopped
	close(m.stopCh)
	m.stopCh = nil
}

// HandleVisibility reacts to a page-visibility change: hidden stops the loop,
// visible restarts it for a fresh read.
func (m *Manager) HandleVisibility(visible bool) {
	if !visible {
		m.Stop()
		return
	}
	m.Stop()
	m.Start()
}

// HandleFocus reacts to window focus the same way visibility is handled.
func (m *Manager) HandleFocus(focused bool) {
	m.HandleVisibility(focused)
}

func (m *Manager) run(stop chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.emit()
		}
	}
}

func (m *Manager) emit() {
	m.mu.Lock()
	since := m.since
	onTick := m.onTick
	now := m.now()
	m.mu.Unlock()

	if onTick != nil {
		onTick(Breakdown(since, now))
	}
}
