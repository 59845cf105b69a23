package gatedqueue

import (
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/timzifer/gated_queue/internal/retry"
)

type queueConfig struct {
	maxErrorRetries int
	backoff         retry.BackoffConfig
	logger          zerolog.Logger
	tracer          trace.Tracer
	clock           clockwork.Clock
	onError         func(error)
}

func defaultQueueConfig() queueConfig {
	cfg := DefaultConfig()
	return queueConfig{
		maxErrorRetries: cfg.MaxErrorRetries,
		backoff:         cfg.Retry.backoff(),
		logger:          zerolog.Nop(),
	}
}

// Option customises a Queue.
type Option func(*queueConfig)

// WithConfig applies the retry ceiling and backoff of cfg.
func WithConfig(cfg Config) Option {
	return func(qc *queueConfig) {
		qc.maxErrorRetries = cfg.MaxErrorRetries
		qc.backoff = cfg.Retry.backoff()
	}
}

// WithMaxErrorRetries sets how many consecutive halted drains are retried
// before the recovery callback runs.
func WithMaxErrorRetries(n int) Option {
	return func(qc *queueConfig) {
		qc.maxErrorRetries = n
	}
}

// WithRetry sets the retry timer backoff.
func WithRetry(rc RetryConfig) Option {
	return func(qc *queueConfig) {
		qc.backoff = rc.backoff()
	}
}

// WithLogger sets the logger for queue events. The default discards them.
func WithLogger(logger zerolog.Logger) Option {
	return func(qc *queueConfig) {
		qc.logger = logger
	}
}

// WithTracer records every drain as a span on tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(qc *queueConfig) {
		qc.tracer = tracer
	}
}

// WithClock replaces the clock driving the retry timer and enqueue
// timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(qc *queueConfig) {
		qc.clock = clock
	}
}

// WithErrorHandler receives errors from drains started by the retry timer.
// Errors from explicit Drain calls are returned to the caller instead.
// Without a handler such errors are only logged; a configuration fault then
// surfaces again on the next explicit Drain, since the operation stays queued.
func WithErrorHandler(fn func(error)) Option {
	return func(qc *queueConfig) {
		qc.onError = fn
	}
}
