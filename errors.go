package gatedqueue

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOperation is returned by Drain when the head batch names an
	// operation the target does not provide. The batch stays queued.
	ErrUnknownOperation = errors.New("gatedqueue: unknown operation")
	// ErrClosed is returned by Drain after Close.
	ErrClosed = errors.New("gatedqueue: queue is closed")
)

// ConfigurationError reports a queued operation that can never run.
type ConfigurationError struct {
	Operation PendingOperation
	// Pending is the number of operations stuck behind the fault, including
	// Operation itself.
	Pending int
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("gatedqueue: operation %q (id=%s, pending=%d) has no handler on the target",
		e.Operation.Name, e.Operation.ID, e.Pending)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrUnknownOperation
}
