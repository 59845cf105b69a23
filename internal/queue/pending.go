package queue

import (
	"sync"
)

type node[T any] struct {
	value T
	next  *node[T]
}

type pendingOptions[T any] struct {
	initial []T
}

type PendingOption[T any] func(*pendingOptions[T])

// WithInitial seeds the list with values in order.
func WithInitial[T any](values ...T) PendingOption[T] {
	return func(opts *pendingOptions[T]) {
		opts.initial = append(opts.initial[:0], values...)
	}
}

// Pending is a singly linked FIFO consumed from its head.
type Pending[T any] struct {
	mu   sync.Mutex
	head *node[T]
	tail *node[T]
	len  int
}

func NewPending[T any](options ...PendingOption[T]) *Pending[T] {
	var opts pendingOptions[T]
	for _, opt := range options {
		opt(&opts)
	}

	p := &Pending[T]{}
	for _, v := range opts.initial {
		p.pushBackLocked(v)
	}
	return p
}

// PushBack appends value at the tail.
func (p *Pending[T]) PushBack(value T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushBackLocked(value)
}

// Front returns the head element without removing it.
func (p *Pending[T]) Front() (zero T, _ bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.head == nil {
		return zero, false
	}
	return p.head.value, true
}

// Scan visits elements from the head until visit returns false or the list
// ends. It returns the number of elements for which visit returned true.
func (p *Pending[T]) Scan(visit func(T) bool) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	accepted := 0
	for n := p.head; n != nil; n = n.next {
		if !visit(n.value) {
			break
		}
		accepted++
	}
	return accepted
}

// PopFront removes up to n elements from the head and returns them in order.
func (p *Pending[T]) PopFront(n int) []T {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n <= 0 || p.len == 0 {
		return nil
	}
	if n > p.len {
		n = p.len
	}

	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		current := p.head
		p.head = current.next
		current.next = nil
		out = append(out, current.value)
	}
	p.len -= n
	if p.head == nil {
		p.tail = nil
	}
	return out
}

func (p *Pending[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.len
}

// Snapshot returns a copy of all elements in queue order.
func (p *Pending[T]) Snapshot() []T {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.len == 0 {
		return nil
	}
	out := make([]T, 0, p.len)
	for n := p.head; n != nil; n = n.next {
		out = append(out, n.value)
	}
	return out
}

func (p *Pending[T]) pushBackLocked(value T) {
	n := &node[T]{value: value}
	if p.tail == nil {
		p.head = n
		p.tail = n
	} else {
		p.tail.next = n
		p.tail = n
	}
	p.len++
}
