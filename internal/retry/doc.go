// Package retry owns the single pending retry timer of a queue.
//
// Delays follow an exponential backoff that is reset whenever the queue makes
// progress. Arming the timer replaces any earlier one, and firings that belong
// to a replaced or cancelled timer are dropped.
package retry
