// Package readyset implements the scheduler's ready queue: one FIFO per
// priority level plus a bitmap so picking the highest occupied level is
// O(1) regardless of PrioLevels, the same shape as a dispatch table
// indexed by priority rather than scanned.
package readyset

import "container/list"

// Set holds one FIFO queue per priority level, 0 (highest) .. levels-1.
type Set struct {
	queues []list.List
	bitmap uint64 // bit i set iff queues[i] is non-empty; levels must be <= 64
}

// New returns an empty Set for the given number of priority levels.
// levels must be in [1, 64]; Config.normalize already enforces this
// kernel-wide.
func New(levels int) *Set {
	return &Set{queues: make([]list.List, levels)}
}

// Levels returns the number of priority levels this set was built for.
func (s *Set) Levels() int { return len(s.queues) }

// PushBack enqueues v (expected to be a *tcb, opaque to this package) at
// the tail of prio's queue and returns the list.Element so the caller can
// later splice it out directly (e.g. on a priority-inheritance boost).
func (s *Set) PushBack(prio int, v any) *list.Element {
	e := s.queues[prio].PushBack(v)
	s.bitmap |= 1 << uint(prio)
	return e
}

// Remove splices e out of prio's queue. e must have come from a prior
// PushBack(prio, ...) on this Set.
func (s *Set) Remove(prio int, e *list.Element) {
	s.queues[prio].Remove(e)
	if s.queues[prio].Len() == 0 {
		s.bitmap &^= 1 << uint(prio)
	}
}

// Highest returns the priority level of the highest-priority non-empty
// queue, and false if the set is entirely empty.
func (s *Set) Highest() (int, bool) {
	if s.bitmap == 0 {
		return 0, false
	}
	return trailingZeros64(s.bitmap), true
}

// PopFront removes and returns the front element of the highest-priority
// non-empty queue. Returns nil, false if the set is empty.
func (s *Set) PopFront() (any, bool) {
	prio, ok := s.Highest()
	if !ok {
		return nil, false
	}
	front := s.queues[prio].Front()
	v := s.queues[prio].Remove(front)
	if s.queues[prio].Len() == 0 {
		s.bitmap &^= 1 << uint(prio)
	}
	return v, true
}

// Empty reports whether every queue is empty.
func (s *Set) Empty() bool { return s.bitmap == 0 }

func trailingZeros64(x uint64) int {
	n := 0
	for x&1 == 0 {
		x >>= 1
		n++
	}
	return n
}
