package telemetry

import (
	"context"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	DrainSpanName     = "gatedqueue.drain"
	HaltEventName     = "gatedqueue.halt"
	EscalateEventName = "gatedqueue.escalate"
	BatchEventName    = "gatedqueue.batch"

	PendingKey    = "gatedqueue.pending"
	ExecutedKey   = "gatedqueue.executed"
	OutcomeKey    = "gatedqueue.outcome"
	OperationKey  = "gatedqueue.operation"
	BatchSizeKey  = "gatedqueue.batch.size"
	FailuresKey   = "gatedqueue.failures"
	RetryDelayKey = "gatedqueue.retry.delay_ms"
)

// Outcome describes how a drain ended.
type Outcome string

const (
	OutcomeEmpty     Outcome = "empty"
	OutcomeHalted    Outcome = "halted"
	OutcomeEscalated Outcome = "escalated"
	OutcomeFault     Outcome = "fault"
	OutcomeCanceled  Outcome = "canceled"
)

// Drain tracks one drain as a span plus metrics.
type Drain struct {
	span     trace.Span
	metrics  *Metrics
	clock    clockwork.Clock
	start    time.Time
	executed int
}

// StartDrain opens the drain span. A nil tracer disables tracing, a nil
// metrics pointer records only into DefaultMetrics and a nil clock measures
// with the real clock.
func StartDrain(ctx context.Context, tracer trace.Tracer, metrics *Metrics, clock clockwork.Clock, pending int) (context.Context, *Drain) {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	if metrics == nil {
		metrics = DefaultMetrics()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ctx, span := tracer.Start(ctx, DrainSpanName, trace.WithAttributes(
		attribute.Int(PendingKey, pending),
	))
	return ctx, &Drain{span: span, metrics: metrics, clock: clock, start: clock.Now()}
}

func (d *Drain) Batch(name string, size int) {
	d.executed += size
	d.metrics.RecordBatch(size)
	d.span.AddEvent(BatchEventName, trace.WithAttributes(
		attribute.String(OperationKey, name),
		attribute.Int(BatchSizeKey, size),
	))
}

func (d *Drain) Halt(name string, failures int, delay time.Duration) {
	d.metrics.RecordHalt()
	d.span.AddEvent(HaltEventName, trace.WithAttributes(
		attribute.String(OperationKey, name),
		attribute.Int(FailuresKey, failures),
		attribute.Int64(RetryDelayKey, delay.Milliseconds()),
	))
}

func (d *Drain) Escalate(name string, failures int) {
	d.metrics.RecordEscalation()
	d.span.AddEvent(EscalateEventName, trace.WithAttributes(
		attribute.String(OperationKey, name),
		attribute.Int(FailuresKey, failures),
	))
}

// End closes the span and records the drain duration.
func (d *Drain) End(outcome Outcome, err error) {
	d.metrics.recordDrain(d.clock.Since(d.start))
	d.span.SetAttributes(
		attribute.String(OutcomeKey, string(outcome)),
		attribute.Int(ExecutedKey, d.executed),
	)
	if err != nil {
		d.span.RecordError(err)
		d.span.SetStatus(codes.Error, strings.TrimSpace(err.Error()))
	}
	d.span.End()
}
