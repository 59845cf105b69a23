package gatedqueue

// OperationFunc runs one queued operation. It receives either the scalar
// argument of a single operation or the concatenated sequence of a batch.
// The queue does not wait for any result.
type OperationFunc func(arg any)

// Target is the object operations are executed against.
type Target interface {
	Lookup(name string) (OperationFunc, bool)
}

// Operations is a Target backed by a map.
type Operations map[string]OperationFunc

// Lookup implements Target.
func (o Operations) Lookup(name string) (OperationFunc, bool) {
	fn, ok := o[name]
	if !ok || fn == nil {
		return nil, false
	}
	return fn, true
}

// Validator decides whether the head operation may run now. It is called
// before every batch and repeatedly for the same head while the queue is
// halted, so it must be cheap and free of side effects.
type Validator interface {
	Validate(q *Queue, next PendingOperation) bool
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(q *Queue, next PendingOperation) bool

// Validate implements Validator.
func (f ValidatorFunc) Validate(q *Queue, next PendingOperation) bool {
	if f == nil {
		return true
	}
	return f(q, next)
}

// Recoverer is invoked once the queue has halted more than MaxErrorRetries
// times in a row. The queue never retries on its own after that; progress
// needs an external Drain. Returning true gives that Drain a fresh failure
// window, returning false keeps the queue escalated until a batch executes.
type Recoverer interface {
	Recover(target Target) bool
}

// RecoverFunc adapts a function to Recoverer.
type RecoverFunc func(target Target) bool

// Recover implements Recoverer.
func (f RecoverFunc) Recover(target Target) bool {
	if f == nil {
		return false
	}
	return f(target)
}
