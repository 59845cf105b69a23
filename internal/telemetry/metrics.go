package telemetry

import (
	"sync/atomic"
	"time"
)

// Metrics fasst Messwerte zu Drain-Läufen einer Queue zusammen.
type Metrics struct {
	drains        atomic.Uint64
	halts         atomic.Uint64
	invocations   atomic.Uint64
	operations    atomic.Uint64
	merged        atomic.Uint64
	escalations   atomic.Uint64
	timerFirings  atomic.Uint64
	totalDuration atomic.Int64
}

// Snapshot is a point-in-time copy of Metrics.
type Snapshot struct {
	Drains          uint64
	Halts           uint64
	Invocations     uint64
	Operations      uint64
	Merged          uint64
	Escalations     uint64
	TimerFirings    uint64
	AverageDuration time.Duration
}

var defaultMetrics Metrics

// DefaultMetrics liefert die prozessweit aggregierten Metriken.
func DefaultMetrics() *Metrics {
	return &defaultMetrics
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordBatch zählt einen ausgeführten Batch mit size Operationen.
func (m *Metrics) RecordBatch(size int) {
	m.invocations.Add(1)
	m.operations.Add(uint64(size))
	if size > 1 {
		m.merged.Add(uint64(size))
	}
	if m != &defaultMetrics {
		defaultMetrics.RecordBatch(size)
	}
}

func (m *Metrics) RecordHalt() {
	m.halts.Add(1)
	if m != &defaultMetrics {
		defaultMetrics.RecordHalt()
	}
}

func (m *Metrics) RecordEscalation() {
	m.escalations.Add(1)
	if m != &defaultMetrics {
		defaultMetrics.RecordEscalation()
	}
}

func (m *Metrics) RecordTimerFiring() {
	m.timerFirings.Add(1)
	if m != &defaultMetrics {
		defaultMetrics.RecordTimerFiring()
	}
}

func (m *Metrics) recordDrain(elapsed time.Duration) {
	m.drains.Add(1)
	m.totalDuration.Add(elapsed.Nanoseconds())
	if m != &defaultMetrics {
		defaultMetrics.recordDrain(elapsed)
	}
}

// Snapshot gibt die gesammelten Werte zurück.
func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		Drains:       m.drains.Load(),
		Halts:        m.halts.Load(),
		Invocations:  m.invocations.Load(),
		Operations:   m.operations.Load(),
		Merged:       m.merged.Load(),
		Escalations:  m.escalations.Load(),
		TimerFirings: m.timerFirings.Load(),
	}
	if s.Drains > 0 {
		s.AverageDuration = time.Duration(m.totalDuration.Load() / int64(s.Drains))
	}
	return s
}

// Reset setzt alle Zähler zurück.
func (m *Metrics) Reset() {
	m.drains.Store(0)
	m.halts.Store(0)
	m.invocations.Store(0)
	m.operations.Store(0)
	m.merged.Store(0)
	m.escalations.Store(0)
	m.timerFirings.Store(0)
	m.totalDuration.Store(0)
}
