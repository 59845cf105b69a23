package gatedqueue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/timzifer/gated_queue/internal/core"
	"github.com/timzifer/gated_queue/internal/queue"
	"github.com/timzifer/gated_queue/internal/retry"
	"github.com/timzifer/gated_queue/internal/telemetry"
)

// PendingOperation is a queued operation together with its argument.
type PendingOperation = core.Operation

// Stats is a snapshot of the drain counters of one queue.
type Stats = telemetry.Snapshot

// Queue holds operations until a validator lets them run against a target.
//
// Drain calls are serialised per queue. Enqueue and the read accessors do not
// wait for a running drain, so operations and validators may use them.
type Queue struct {
	drainMu sync.Mutex

	target     Target
	validator  Validator
	recoverer  Recoverer
	pending    *queue.Pending[core.Operation]
	escalation *core.Escalation
	timer      *retry.Timer
	metrics    *telemetry.Metrics

	log     zerolog.Logger
	tracer  trace.Tracer
	clock   clockwork.Clock
	onError func(error)
	closed  atomic.Bool
}

// New creates a queue executing against target. A nil validator lets every
// operation through; a nil recoverer reports that the queue cannot resume.
func New(target Target, validator Validator, recoverer Recoverer, opts ...Option) *Queue {
	cfg := defaultQueueConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.clock == nil {
		cfg.clock = clockwork.NewRealClock()
	}
	if target == nil {
		target = Operations{}
	}
	if validator == nil {
		validator = ValidatorFunc(nil)
	}
	if recoverer == nil {
		recoverer = RecoverFunc(nil)
	}

	q := &Queue{
		target:     target,
		validator:  validator,
		recoverer:  recoverer,
		pending:    queue.NewPending[core.Operation](),
		escalation: core.NewEscalation(cfg.maxErrorRetries),
		metrics:    telemetry.NewMetrics(),
		log:        cfg.logger,
		tracer:     cfg.tracer,
		clock:      cfg.clock,
		onError:    cfg.onError,
	}
	q.timer = retry.NewTimer(cfg.clock, cfg.backoff, q.retry)
	return q
}

// Enqueue appends an operation. It never blocks on a running drain and never
// fails; unknown names surface when the operation reaches the head.
func (q *Queue) Enqueue(name string, arg any) PendingOperation {
	op := PendingOperation{
		ID:         ksuid.New(),
		Name:       name,
		Argument:   arg,
		EnqueuedAt: q.clock.Now(),
	}
	q.pending.PushBack(op)
	q.log.Debug().
		Str("operation", name).
		Stringer("id", op.ID).
		Bool("sequence", core.IsSequence(arg)).
		Msg("operation queued")
	return op
}

// Drain executes queued operations from the head for as long as the
// validator allows.
//
// When validation fails the head stays queued and Drain returns nil after
// arming the retry timer, or after running the recoverer once the retry
// ceiling is exceeded. A later Drain resumes at the same operation. The only
// errors are ctx cancellation, ErrClosed and *ConfigurationError.
func (q *Queue) Drain(ctx context.Context) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	q.drainMu.Lock()
	defer q.drainMu.Unlock()

	if q.closed.Load() {
		return ErrClosed
	}

	_, drain := telemetry.StartDrain(ctx, q.tracer, q.metrics, q.clock, q.pending.Len())
	outcome := telemetry.OutcomeEmpty
	defer func() { drain.End(outcome, err) }()

	for {
		head, ok := q.pending.Front()
		if !ok {
			q.timer.Cancel()
			return nil
		}

		if cerr := ctx.Err(); cerr != nil {
			outcome = telemetry.OutcomeCanceled
			return cerr
		}

		if !q.validator.Validate(q, head) {
			outcome = q.halt(drain, head)
			return nil
		}

		batch, _ := core.PlanBatch(q.pending.Scan)
		fn, ok := q.target.Lookup(batch.Name)
		if !ok {
			q.timer.Cancel()
			outcome = telemetry.OutcomeFault
			fault := &ConfigurationError{Operation: head, Pending: q.pending.Len()}
			q.log.Error().
				Str("operation", head.Name).
				Stringer("id", head.ID).
				Int("pending", fault.Pending).
				Msg("no handler for queued operation")
			return fault
		}

		q.pending.PopFront(batch.Size)
		fn(batch.Argument)

		drain.Batch(batch.Name, batch.Size)
		q.escalation.Succeed()
		q.timer.Reset()
		q.log.Debug().
			Str("operation", batch.Name).
			Int("batch", batch.Size).
			Bool("merged", batch.Merged).
			Msg("operation executed")
	}
}

func (q *Queue) halt(drain *telemetry.Drain, head PendingOperation) telemetry.Outcome {
	action := q.escalation.Halt()
	failures := q.escalation.Failures()

	switch action {
	case core.HaltRetry:
		delay := q.timer.Arm()
		drain.Halt(head.Name, failures, delay)
		q.log.Debug().
			Str("operation", head.Name).
			Int("failures", failures).
			Dur("retry_in", delay).
			Msg("validation failed, halting")
		return telemetry.OutcomeHalted

	case core.HaltEscalate:
		q.timer.Cancel()
		drain.Halt(head.Name, failures, 0)
		drain.Escalate(head.Name, failures)
		q.log.Warn().
			Str("operation", head.Name).
			Int("failures", failures).
			Int("pending", q.pending.Len()).
			Msg("retry ceiling exceeded, running recovery")

		if q.recoverer.Recover(q.target) {
			q.escalation.Rearm()
			q.log.Info().Msg("recovery succeeded, waiting for the next drain")
		}
		return telemetry.OutcomeEscalated

	default:
		drain.Halt(head.Name, failures, 0)
		return telemetry.OutcomeHalted
	}
}

func (q *Queue) retry() {
	if q.closed.Load() {
		return
	}
	q.metrics.RecordTimerFiring()

	if err := q.Drain(context.Background()); err != nil && !errors.Is(err, ErrClosed) {
		q.log.Error().Err(err).Msg("retry drain failed")
		if q.onError != nil {
			q.onError(err)
		}
	}
}

// Close cancels the retry timer. Pending operations are kept but never run;
// Drain returns ErrClosed afterwards.
func (q *Queue) Close() error {
	if !q.closed.CompareAndSwap(false, true) {
		return nil
	}
	q.timer.Close()
	q.log.Debug().Int("pending", q.pending.Len()).Msg("queue closed")
	return nil
}

// Target returns the object operations run against.
func (q *Queue) Target() Target {
	return q.target
}

// Len returns the number of queued operations.
func (q *Queue) Len() int {
	return q.pending.Len()
}

// Snapshot returns the queued operations in execution order.
func (q *Queue) Snapshot() []PendingOperation {
	return q.pending.Snapshot()
}

// FailureCount returns the number of consecutive halted drains since the
// last executed batch.
func (q *Queue) FailureCount() int {
	return q.escalation.Failures()
}

// Escalated reports whether recovery ran and the queue is waiting for an
// external Drain.
func (q *Queue) Escalated() bool {
	return q.escalation.Escalated()
}

// MaxErrorRetries returns the retry ceiling.
func (q *Queue) MaxErrorRetries() int {
	return q.escalation.Ceiling()
}

// RetryScheduled reports whether the retry timer is armed.
func (q *Queue) RetryScheduled() bool {
	return q.timer.Armed()
}

// Stats returns the drain counters of this queue.
func (q *Queue) Stats() Stats {
	return q.metrics.Snapshot()
}
