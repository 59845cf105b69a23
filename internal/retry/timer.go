package retry

import (
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jonboulle/clockwork"
)

// Timer schedules fire after a backoff delay. At most one firing is
// outstanding at any time.
type Timer struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	backoff *backoff.ExponentialBackOff
	fire    func()
	current clockwork.Timer
	gen     uint64
	closed  bool
}

// NewTimer returns an unarmed timer. A nil clock means the real clock.
func NewTimer(clock clockwork.Clock, cfg BackoffConfig, fire func()) *Timer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	cfg = cfg.normalized()

	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(cfg.InitialInterval),
		backoff.WithMaxInterval(cfg.MaxInterval),
		backoff.WithMultiplier(cfg.Multiplier),
		backoff.WithRandomizationFactor(cfg.RandomizationFactor),
		backoff.WithMaxElapsedTime(0),
		backoff.WithClockProvider(clock),
	)

	return &Timer{
		clock:   clock,
		backoff: b,
		fire:    fire,
	}
}

// Arm replaces any pending firing with a new one after the next backoff
// delay and returns that delay. Arm on a closed timer is a no-op.
func (t *Timer) Arm() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0
	}
	t.stopLocked()

	delay := t.backoff.NextBackOff()
	if delay == backoff.Stop {
		delay = t.backoff.MaxInterval
	}
	gen := t.gen
	t.current = t.clock.AfterFunc(delay, func() { t.expire(gen) })
	return delay
}

// Cancel drops the pending firing, if any. The backoff position is kept.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Reset rewinds the backoff to its initial interval.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.backoff.Reset()
}

// Armed reports whether a firing is outstanding.
func (t *Timer) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current != nil
}

// Close cancels the timer for good.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.closed = true
}

func (t *Timer) stopLocked() {
	if t.current != nil {
		t.current.Stop()
		t.current = nil
	}
	t.gen++
}

func (t *Timer) expire(gen uint64) {
	t.mu.Lock()
	if t.closed || gen != t.gen || t.current == nil {
		t.mu.Unlock()
		return
	}
	t.current = nil
	t.gen++
	t.mu.Unlock()

	if t.fire != nil {
		t.fire()
	}
}
