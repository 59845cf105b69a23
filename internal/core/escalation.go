package core

import "sync"

// HaltAction tells the queue what to do after a failed validation.
type HaltAction int

const (
	// HaltRetry arms the retry timer.
	HaltRetry HaltAction = iota
	// HaltEscalate invokes the recovery callback.
	HaltEscalate
	// HaltHold keeps waiting for an external drain; recovery already ran.
	HaltHold
)

func (a HaltAction) String() string {
	switch a {
	case HaltRetry:
		return "retry"
	case HaltEscalate:
		return "escalate"
	case HaltHold:
		return "hold"
	default:
		return "unknown"
	}
}

// Escalation counts consecutive halted drains against a ceiling.
//
// The counter stops at ceiling+1, and HaltEscalate is returned exactly once
// per crossing until Succeed or Rearm opens a new window.
type Escalation struct {
	mu        sync.Mutex
	ceiling   int
	failures  int
	escalated bool
}

// NewEscalation returns a counter that escalates on halt ceiling+1.
// Negative ceilings count as 0.
func NewEscalation(ceiling int) *Escalation {
	if ceiling < 0 {
		ceiling = 0
	}
	return &Escalation{ceiling: ceiling}
}

// Halt records a failed drain and returns what the queue should do next.
func (e *Escalation) Halt() HaltAction {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.escalated {
		return HaltHold
	}
	e.failures++
	if e.failures > e.ceiling {
		e.escalated = true
		return HaltEscalate
	}
	return HaltRetry
}

// Succeed clears the failure history after an executed batch.
func (e *Escalation) Succeed() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failures = 0
	e.escalated = false
}

// Rearm opens a fresh window after recovery reported that normal operation
// may resume.
func (e *Escalation) Rearm() {
	e.Succeed()
}

// Failures returns the consecutive halts since the last success.
func (e *Escalation) Failures() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.failures
}

// Escalated reports whether recovery ran in the current window.
func (e *Escalation) Escalated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.escalated
}

// Ceiling returns the number of halts retried before escalation.
func (e *Escalation) Ceiling() int {
	return e.ceiling
}
