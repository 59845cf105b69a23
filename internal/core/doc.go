// Package core holds the decision logic of the gated queue: which head
// operations form the next batch, how their arguments are merged, and when a
// run of failed drains escalates to recovery.
//
// Nothing in here owns goroutines, timers or I/O. The root package drives
// these types while holding its drain lock.
package core
