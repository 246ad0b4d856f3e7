package kernel

import (
	"container/list"
	"encoding/binary"

	"microkernel/kernel/timeoutq"
)

// stackGuardSentinel is written to the lowest word of a thread's stack
// when Config.StackGuard is set, and checked on every context switch,
// RIOT-OS's canary-word approach to catching stack overflow cheaply.
const stackGuardSentinel uint32 = 0xDEADC0DE

// tcb is the kernel's thread control block.
//
// Go's own runtime already gives every goroutine its own stack, grown and
// shrunk as needed, so tcb does not synthesize a raw stack frame the way
// a bare-metal port's stack_init would; stack is still modelled as a
// caller-owned byte buffer so StackGuard has something concrete to check,
// and so InvalidStack has real teeth.
type tcb struct {
	id   ThreadID
	name string

	stack []byte

	entry func(arg any)
	arg   any

	prio  int // mutable current priority, [0, PrioLevels)
	state RunState

	// resumeCh is signalled exactly once each time the scheduler hands
	// this thread the run token; the thread's own goroutine blocks on it
	// whenever it is not RUNNING. Buffered 1: the scheduler never needs
	// to rendezvous with a thread that hasn't yet reached its parking
	// point.
	resumeCh chan struct{}

	// elem links this TCB into the wait queue of the mutex or mailbox it
	// is blocked on. Ready-queue membership is kept by the ready set
	// itself and is not recorded here.
	elem *list.Element

	// timeoutEntry links this TCB into the kernel's delta timeout list
	// when it is blocked with a bound (BLOCK_SLEEP or a timed_* call).
	timeoutEntry *timeoutq.Entry
	// timedOut is set by the timeout scan when this entry's deadline
	// fires, and read by the primitive that unblocks it.
	timedOut bool

	// pendingMsg parks a sender's message while it waits in a mailbox's
	// producer queue; also doubles as the rendezvous handoff slot.
	pendingMsg Message
	// recvResult carries a message handed directly to a blocked
	// receiver, bypassing the ring buffer.
	recvResult Message

	// wantMutex is the mutex this thread is waiting to acquire. Lock sets
	// it and Unlock clears it on handoff; nothing else reads it.
	wantMutex *Mutex

	// mboxWait is the mailbox this thread is parked in the sender or
	// receiver queue of, so a firing timeout knows where to splice it
	// out from.
	mboxWait *Mailbox

	terminatedCh chan struct{} // closed once the entry function returns
}

// coalesceName returns name if non-empty, otherwise a default label.
func coalesceName(name, def string) string {
	if name == "" {
		return def
	}
	return name
}

func newTCB(id ThreadID, name string, stack []byte, prio int, entry func(arg any), arg any, guard bool) *tcb {
	if guard && len(stack) >= 4 {
		binary.LittleEndian.PutUint32(stack[:4], stackGuardSentinel)
	}
	return &tcb{
		id:           id,
		name:         coalesceName(name, "thread"),
		stack:        stack,
		entry:        entry,
		arg:          arg,
		prio:         prio,
		state:        ready,
		resumeCh:     make(chan struct{}, 1),
		terminatedCh: make(chan struct{}),
	}
}

// checkStackGuard reports whether the sentinel word is intact. Called on
// every context switch when Config.StackGuard is enabled.
func (t *tcb) checkStackGuard() bool {
	if len(t.stack) < 4 {
		return true
	}
	return binary.LittleEndian.Uint32(t.stack[:4]) == stackGuardSentinel
}
