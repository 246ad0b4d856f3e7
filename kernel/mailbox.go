package kernel

import (
	"container/list"

	"microkernel/errcode"
	"microkernel/kernel/timeoutq"
	"microkernel/x/ring"
)

// Mailbox is a fixed-capacity queue of messages with symmetric blocking
// on both ends, degenerating to a synchronous rendezvous at capacity
// zero.
type Mailbox struct {
	k         *Kernel
	buf       *ring.Buffer[Message]
	senders   list.List // FIFO of *tcb blocked trying to send
	receivers list.List // FIFO of *tcb blocked trying to receive
}

// NewMailbox returns an empty Mailbox of the given capacity (0 is a
// valid rendezvous mailbox).
func (k *Kernel) NewMailbox(capacity int) *Mailbox {
	return &Mailbox{k: k, buf: ring.New[Message](capacity)}
}

func (m *Mailbox) removeSender(t *tcb) {
	m.senders.Remove(t.elem)
	t.elem = nil
	t.mboxWait = nil
}

func (m *Mailbox) removeReceiver(t *tcb) {
	m.receivers.Remove(t.elem)
	t.elem = nil
	t.mboxWait = nil
}

// Send blocks until msg is accepted: buffered, handed directly to a
// waiting receiver, or (capacity 0) rendezvoused with one.
func (m *Mailbox) Send(msg Message) {
	k := m.k
	k.mu.Lock()
	if front := m.receivers.Front(); front != nil {
		r := m.receivers.Remove(front).(*tcb)
		r.elem = nil
		r.mboxWait = nil
		r.recvResult = msg
		k.wakeLocked(r)
		k.finish(k.current)
		return
	}
	if !m.buf.Full() {
		m.buf.Push(msg)
		k.mu.Unlock()
		return
	}
	self := k.current
	self.state = blockMboxSend
	self.pendingMsg = msg
	self.mboxWait = m
	self.elem = m.senders.PushBack(self)

	next := k.pickNextLocked()
	k.switchToLocked(next)
	k.mu.Unlock()
	<-self.resumeCh

	k.mu.Lock()
	k.finish(self)
}

// TrySend never blocks: returns errcode.WouldBlock if it cannot complete
// immediately.
func (m *Mailbox) TrySend(msg Message) error {
	k := m.k
	k.mu.Lock()
	if front := m.receivers.Front(); front != nil {
		r := m.receivers.Remove(front).(*tcb)
		r.elem = nil
		r.mboxWait = nil
		r.recvResult = msg
		k.wakeLocked(r)
		if k.irqDepth > 0 {
			k.mu.Unlock()
			return nil
		}
		k.finish(k.current)
		return nil
	}
	if !m.buf.Full() {
		m.buf.Push(msg)
		k.mu.Unlock()
		return nil
	}
	k.mu.Unlock()
	return &errcode.E{Op: "mbox_try_send", C: errcode.WouldBlock}
}

// TimedSend behaves as Send but gives up with errcode.Timeout after
// ticks ticks. ticks == 0 behaves as TrySend but reports Timeout instead
// of WouldBlock on the immediate-failure path, matching TimedRecv's
// boundary behavior.
func (m *Mailbox) TimedSend(msg Message, ticks uint64) error {
	k := m.k
	k.mu.Lock()
	if front := m.receivers.Front(); front != nil {
		r := m.receivers.Remove(front).(*tcb)
		r.elem = nil
		r.mboxWait = nil
		r.recvResult = msg
		k.wakeLocked(r)
		k.finish(k.current)
		return nil
	}
	if !m.buf.Full() {
		m.buf.Push(msg)
		k.mu.Unlock()
		return nil
	}
	if ticks == 0 {
		k.mu.Unlock()
		return &errcode.E{Op: "mbox_timed_send", C: errcode.Timeout}
	}

	self := k.current
	self.state = blockMboxSend
	self.pendingMsg = msg
	self.mboxWait = m
	self.elem = m.senders.PushBack(self)
	self.timeoutEntry = &timeoutq.Entry{Owner: self}
	k.timeout.Schedule(self.timeoutEntry, ticks)

	next := k.pickNextLocked()
	k.switchToLocked(next)
	k.mu.Unlock()
	<-self.resumeCh

	k.mu.Lock()
	timedOut := self.timedOut
	self.timedOut = false
	k.finish(self)
	if timedOut {
		return &errcode.E{Op: "mbox_timed_send", C: errcode.Timeout}
	}
	return nil
}

// Recv blocks until a message is available.
func (m *Mailbox) Recv() Message {
	k := m.k
	k.mu.Lock()
	if !m.buf.Empty() {
		v, _ := m.buf.Pop()
		m.admitOneSenderLocked()
		k.finish(k.current)
		return v
	}
	if front := m.senders.Front(); front != nil {
		s := m.senders.Remove(front).(*tcb)
		s.elem = nil
		s.mboxWait = nil
		v := s.pendingMsg
		k.wakeLocked(s)
		k.finish(k.current)
		return v
	}

	self := k.current
	self.state = blockMboxRecv
	self.mboxWait = m
	self.elem = m.receivers.PushBack(self)

	next := k.pickNextLocked()
	k.switchToLocked(next)
	k.mu.Unlock()
	<-self.resumeCh

	k.mu.Lock()
	result := self.recvResult
	self.recvResult = nil
	k.finish(self)
	return result
}

// TryRecv never blocks: returns errcode.WouldBlock if no message is
// available.
func (m *Mailbox) TryRecv() (Message, error) {
	k := m.k
	k.mu.Lock()
	if !m.buf.Empty() {
		v, _ := m.buf.Pop()
		m.admitOneSenderLocked()
		if k.irqDepth > 0 {
			k.mu.Unlock()
			return v, nil
		}
		k.finish(k.current)
		return v, nil
	}
	if front := m.senders.Front(); front != nil {
		s := m.senders.Remove(front).(*tcb)
		s.elem = nil
		s.mboxWait = nil
		v := s.pendingMsg
		k.wakeLocked(s)
		if k.irqDepth > 0 {
			k.mu.Unlock()
			return v, nil
		}
		k.finish(k.current)
		return v, nil
	}
	k.mu.Unlock()
	return nil, &errcode.E{Op: "mbox_try_recv", C: errcode.WouldBlock}
}

// TimedRecv behaves as Recv but gives up with errcode.Timeout after
// ticks ticks. ticks == 0 on an empty mailbox with no sender waiting
// returns Timeout immediately without inserting into any queue.
func (m *Mailbox) TimedRecv(ticks uint64) (Message, error) {
	k := m.k
	k.mu.Lock()
	if !m.buf.Empty() {
		v, _ := m.buf.Pop()
		m.admitOneSenderLocked()
		k.finish(k.current)
		return v, nil
	}
	if front := m.senders.Front(); front != nil {
		s := m.senders.Remove(front).(*tcb)
		s.elem = nil
		s.mboxWait = nil
		v := s.pendingMsg
		k.wakeLocked(s)
		k.finish(k.current)
		return v, nil
	}
	if ticks == 0 {
		k.mu.Unlock()
		return nil, &errcode.E{Op: "mbox_timed_recv", C: errcode.Timeout}
	}

	self := k.current
	self.state = blockMboxRecv
	self.mboxWait = m
	self.elem = m.receivers.PushBack(self)
	self.timeoutEntry = &timeoutq.Entry{Owner: self}
	k.timeout.Schedule(self.timeoutEntry, ticks)

	next := k.pickNextLocked()
	k.switchToLocked(next)
	k.mu.Unlock()
	<-self.resumeCh

	k.mu.Lock()
	timedOut := self.timedOut
	self.timedOut = false
	result := self.recvResult
	self.recvResult = nil
	k.finish(self)
	if timedOut {
		return nil, &errcode.E{Op: "mbox_timed_recv", C: errcode.Timeout}
	}
	return result, nil
}

// admitOneSenderLocked backfills one waiting sender's message into a
// slot Recv just freed, preserving per-mailbox FIFO order. Caller must
// hold k.mu.
func (m *Mailbox) admitOneSenderLocked() {
	if m.buf.Full() {
		return
	}
	front := m.senders.Front()
	if front == nil {
		return
	}
	s := m.senders.Remove(front).(*tcb)
	s.elem = nil
	s.mboxWait = nil
	m.buf.Push(s.pendingMsg)
	m.k.wakeLocked(s)
}
