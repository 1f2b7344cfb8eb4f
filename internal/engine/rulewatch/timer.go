package rulewatch

import (
	"sync"
	"time"
)

// SettleTimer fires onFire at a steady cadence while running.
// Each firing rearms a single-shot timer for the next interval, so a continuous stream
// of changes can never postpone processing the way a reset-per-event timer would.
type SettleTimer struct {
	mu       sync.Mutex
	fireMu   sync.Mutex
	timer    *time.Timer
	interval time.Duration
	running  bool
	gen      uint64
	onFire   func()
}

// NewSettleTimer creates a stopped timer.
func NewSettleTimer(interval time.Duration, onFire func()) *SettleTimer {
	return &SettleTimer{
		interval: interval,
		onFire:   onFire,
	}
}

// Start arms the timer. It is a no-op if the timer is already running.
func (t *SettleTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}
	t.running = true
	t.gen++
	t.armLocked(t.gen)
}

// Stop halts the timer. A firing already in progress completes but does not rearm.
func (t *SettleTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.running = false
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Running reports whether the timer is armed or firing.
func (t *SettleTimer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Interval returns the firing cadence.
func (t *SettleTimer) Interval() time.Duration {
	return t.interval
}

func (t *SettleTimer) armLocked(gen uint64) {
	t.timer = time.AfterFunc(t.interval, func() {
		t.fire(gen)
	})
}

func (t *SettleTimer) fire(gen uint64) {
	// Firings of an old generation can overlap with a new one after a quick stop/start.
	t.fireMu.Lock()
	if t.isCurrent(gen) && t.onFire != nil {
		t.onFire()
	}
	t.fireMu.Unlock()

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running || t.gen != gen {
		return
	}
	t.armLocked(gen)
}

func (t *SettleTimer) isCurrent(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running && t.gen == gen
}
