// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

// Stack is a LIFO container. The zero value is ready to use.
// Not safe for concurrent use.
type Stack[T comparable] struct {
	items []T
}

// NewStack returns a stack seeded with the given elements, last on top.
func NewStack[T comparable](elems ...T) *Stack[T] {
	s := &Stack[T]{items: make([]T, 0, len(elems))}
	s.items = append(s.items, elems...)
	return s
}

// Push places v on top of the stack.
func (s *Stack[T]) Push(v T) {
	s.items = append(s.items, v)
}

// Pop removes and returns the top element.
func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if len(s.items) == 0 {
		return zero, ErrEmptyContainer
	}
	last := len(s.items) - 1
	v := s.items[last]
	s.items[last] = zero
	s.items = s.items[:last]
	return v, nil
}

// Len returns the number of elements.
func (s *Stack[T]) Len() int { return len(s.items) }

// IsEmpty reports whether the stack holds no elements.
func (s *Stack[T]) IsEmpty() bool { return len(s.items) == 0 }

// Contains reports whether v is on the stack.
func (s *Stack[T]) Contains(v T) bool {
	for _, item := range s.items {
		if item == v {
			return true
		}
	}
	return false
}

// Queue is a FIFO container backed by a ring buffer. The zero value is ready
// to use. Not safe for concurrent use.
type Queue[T comparable] struct {
	buf   []T
	head  int
	count int
}

// NewQueue returns a queue seeded with the given elements in order.
func NewQueue[T comparable](elems ...T) *Queue[T] {
	q := &Queue[T]{}
	for _, e := range elems {
		q.Enqueue(e)
	}
	return q
}

// Enqueue appends v at the back of the queue.
func (q *Queue[T]) Enqueue(v T) {
	if q.count == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.count)%len(q.buf)] = v
	q.count++
}

// Dequeue removes and returns the front element.
func (q *Queue[T]) Dequeue() (T, error) {
	var zero T
	if q.count == 0 {
		return zero, ErrEmptyContainer
	}
	v := q.buf[q.head]
	q.buf[q.head] = zero
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	return v, nil
}

// Len returns the number of elements.
func (q *Queue[T]) Len() int { return q.count }

// IsEmpty reports whether the queue holds no elements.
func (q *Queue[T]) IsEmpty() bool { return q.count == 0 }

// Contains reports whether v is waiting in the queue. Linear in Len.
func (q *Queue[T]) Contains(v T) bool {
	for i := 0; i < q.count; i++ {
		if q.buf[(q.head+i)%len(q.buf)] == v {
			return true
		}
	}
	return false
}

func (q *Queue[T]) grow() {
	size := len(q.buf) * 2
	if size == 0 {
		size = 8
	}
	buf := make([]T, size)
	for i := 0; i < q.count; i++ {
		buf[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = buf
	q.head = 0
}
