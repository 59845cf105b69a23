// Package queue provides the FIFO that holds pending operations.
//
// Elements are appended at the tail and only ever removed from the head,
// either one at a time or as a contiguous prefix. Readers may walk the list
// from the head without removing anything, which is how batches are planned
// before they are taken off the queue.
//
// All methods are safe for concurrent use. The list uses a single internal
// mutex; callbacks passed to Scan run while it is held and must not call back
// into the same list.
package queue
