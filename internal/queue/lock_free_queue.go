// Package queue provides a lock-free FIFO used to hand work between
// goroutines without blocking the producer.
package queue

import "sync/atomic"

type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
}

// LockFreeQueue is an unbounded multi-producer, multi-consumer FIFO
// (Michael-Scott queue). The zero value is not usable; use NewLockFreeQueue.
type LockFreeQueue[T any] struct {
	head   atomic.Pointer[node[T]]
	tail   atomic.Pointer[node[T]]
	length atomic.Int64
}

// NewLockFreeQueue returns an empty queue.
func NewLockFreeQueue[T any]() *LockFreeQueue[T] {
	q := &LockFreeQueue[T]{}
	sentinel := &node[T]{}
	q.head.Store(sentinel)
	q.tail.Store(sentinel)

	return q
}

// Enqueue adds v to the tail of the queue. It never blocks.
func (q *LockFreeQueue[T]) Enqueue(v T) {
	n := &node[T]{value: v}
	for {
		tail := q.tail.Load()
		next := tail.next.Load()
		if tail != q.tail.Load() {
			continue
		}

		if next != nil {
			// tail is falling behind, help advance it.
			q.tail.CompareAndSwap(tail, next)
			continue
		}

		if tail.next.CompareAndSwap(nil, n) {
			q.tail.CompareAndSwap(tail, n)
			q.length.Add(1)

			return
		}
	}
}

// Dequeue removes and returns the value at the head of the queue.
// ok is false when the queue is empty.
func (q *LockFreeQueue[T]) Dequeue() (v T, ok bool) {
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		next := head.next.Load()
		if head != q.head.Load() {
			continue
		}

		if head == tail {
			if next == nil {
				return v, false
			}
			q.tail.CompareAndSwap(tail, next)

			continue
		}

		// Read the value before the CAS, another consumer may advance past next.
		value := next.value
		if q.head.CompareAndSwap(head, next) {
			q.length.Add(-1)

			return value, true
		}
	}
}

// IsEmpty reports whether the queue holds no values.
func (q *LockFreeQueue[T]) IsEmpty() bool {
	return q.length.Load() == 0
}

// Length returns the number of queued values.
func (q *LockFreeQueue[T]) Length() int {
	return int(q.length.Load())
}
