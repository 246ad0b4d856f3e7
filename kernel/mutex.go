package kernel

import (
	"container/list"

	"microkernel/errcode"
)

// Mutex is a non-recursive lock with a priority-ordered waiter queue.
// No priority inheritance: ownership transfers to the highest-priority
// waiter, FIFO among waiters of equal priority.
type Mutex struct {
	k       *Kernel
	owner   *tcb
	waiters list.List // of *tcb, ordered by (priority, FIFO)
}

// NewMutex returns an unlocked Mutex bound to k.
func (k *Kernel) NewMutex() *Mutex {
	return &Mutex{k: k}
}

func (m *Mutex) insertWaiterLocked(t *tcb) {
	for e := m.waiters.Front(); e != nil; e = e.Next() {
		if e.Value.(*tcb).prio > t.prio {
			t.elem = m.waiters.InsertBefore(t, e)
			return
		}
	}
	t.elem = m.waiters.PushBack(t)
}

// Lock blocks until the calling thread owns m.
func (m *Mutex) Lock() {
	k := m.k
	k.mu.Lock()
	self := k.current
	if m.owner == nil {
		m.owner = self
		k.mu.Unlock()
		return
	}
	self.state = blockMutex
	self.wantMutex = m
	m.insertWaiterLocked(self)

	next := k.pickNextLocked()
	k.switchToLocked(next)
	k.mu.Unlock()
	<-self.resumeCh

	k.mu.Lock()
	k.finish(self)
}

// TryLock never blocks: it reports errcode.WouldBlock if m is already
// owned.
func (m *Mutex) TryLock() error {
	k := m.k
	k.mu.Lock()
	defer k.mu.Unlock()
	if m.owner != nil {
		return &errcode.E{Op: "mutex_try_lock", C: errcode.WouldBlock}
	}
	m.owner = k.current
	return nil
}

// Unlock transfers ownership to the highest-priority waiter and wakes it,
// or clears ownership if none wait. Must be called only by the current
// owner; calling it otherwise is a programming error and triggers the
// kernel's panic path.
func (m *Mutex) Unlock() {
	k := m.k
	k.mu.Lock()
	self := k.current
	if m.owner != self {
		k.panicLocked("mutex unlock by non-owner")
		k.mu.Unlock()
		return
	}
	front := m.waiters.Front()
	if front == nil {
		m.owner = nil
		k.mu.Unlock()
		return
	}
	next := m.waiters.Remove(front).(*tcb)
	next.elem = nil
	next.wantMutex = nil
	m.owner = next
	k.wakeLocked(next)
	k.finish(self)
}
