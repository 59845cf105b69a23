// Package gatedqueue provides a validation-gated operation queue.
//
// Producers enqueue named operations with an argument. Drain runs them in
// order against a Target, but only while a Validator approves the operation at
// the head. When validation fails the drain halts without consuming anything,
// and a retry timer with exponential backoff schedules the next attempt.
// After more than MaxErrorRetries consecutive halts a Recoverer is invoked
// once; the queue keeps every pending operation so that a later Drain can
// still deliver them.
//
// Consecutive operations with the same name and a slice argument are merged
// into one call whose argument is the concatenation of their slices. Scalar
// arguments, including []byte, always run alone.
package gatedqueue
