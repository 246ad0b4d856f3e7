// Package kernel implements a fixed-priority preemptive scheduler, a
// thread lifecycle built on one goroutine per thread, and the
// inter-thread primitives (mutex, mailbox, IRQ dispatch, tick/timeout)
// that sit on top of it.
//
// Go already gives every goroutine its own growable stack and a
// fair, preemptive runtime scheduler underneath; this package does not
// fight that; it layers the fixed-priority, run-to-block contract on
// top by handing a single logical "run token" between one goroutine per
// thread. Exactly one thread's goroutine holds the token at a time, the
// same single-current-thread invariant a bare-metal build enforces by
// having only one CPU. The token itself is a buffered channel on the
// thread's control block (tcb.resumeCh); the kernel's own state (ready
// queues, wait queues, the timeout list, IRQ nesting) is protected by
// one mutex, a direct stand-in for "interrupts disabled".
//
// A consequence worth stating plainly: a thread can only be forced off
// the CPU at one of its own kernel calls (lock, send/recv, sleep,
// yield) or inside the idle thread's wait loop. Go gives us no way to
// suspend a goroutine at an arbitrary machine instruction the way a
// hardware IRQ can. Every scenario this package's tests assert against
// preempts at exactly such a boundary, so the distinction is invisible
// to callers, but it means this is not byte-for-byte the same
// preemption granularity a real interrupt controller provides.
//
// Blocking calls (Lock, Send, Recv, ThreadSleep, ThreadYield,
// ThreadWakeup outside IRQ context) must be made from the goroutine
// currently holding the run token, exactly as a real blocking syscall
// must run on the calling thread's own stack. Code that is not itself a
// kernel thread (board bring-up before Start, or external drivers)
// injects work through OnIRQEntry and the Try* calls instead, the same
// way a real interrupt controller is the only way in from outside.
package kernel

import (
	"sync"

	"microkernel/errcode"
	"microkernel/klog"
	"microkernel/kernel/readyset"
	"microkernel/kernel/timeoutq"
)

const minStackBytes = 64

// PanicFunc is invoked on an unrecoverable kernel fault: a stack-guard
// violation, an unlock-by-non-owner, or an unregistered IRQ vector
// firing. A panic escaping an IRQ handler is not routed here. The default implementation logs and calls panic(); tests and
// board bring-up code may substitute their own (e.g. to halt instead).
type PanicFunc func(k *Kernel, reason string)

// Kernel is the scheduler's process-wide singleton. The zero value is
// not usable; construct with New.
type Kernel struct {
	mu   sync.Mutex
	cond *sync.Cond

	cfg Config
	log *klog.Logger

	threads map[ThreadID]*tcb
	nextID  ThreadID
	active  int // non-terminated thread count, for the §8 bookkeeping invariant

	ready   *readyset.Set
	timeout *timeoutq.Queue
	tick    uint32

	current *tcb
	idle    *tcb

	irqDepth          int
	reschedulePending bool
	irqTable          []*irqSlot

	onPanic PanicFunc

	started bool
}

// New constructs a Kernel from cfg, spawns the idle thread, and returns
// before anything runs. Call Start to hand out the first run token.
func New(cfg Config, log *klog.Logger) *Kernel {
	cfg = cfg.normalize()
	k := &Kernel{
		cfg:      cfg,
		log:      log,
		threads:  make(map[ThreadID]*tcb),
		ready:    readyset.New(cfg.PrioLevels),
		timeout:  timeoutq.New(),
		irqTable: make([]*irqSlot, maxVectors),
		onPanic:  defaultPanic,
	}
	k.cond = sync.NewCond(&k.mu)

	idleStack := make([]byte, cfg.IdleStackSize)
	k.idle = newTCB(k.allocID(), "idle", idleStack, cfg.idlePriority(), idleEntry, nil, cfg.StackGuard)
	k.threads[k.idle.id] = k.idle
	k.active++
	go k.runThread(k.idle)

	return k
}

func idleEntry(arg any) {
	k := arg.(*Kernel)
	for {
		k.cpuIdleWait()
	}
}

func (k *Kernel) allocID() ThreadID {
	id := k.nextID
	k.nextID++
	return id
}

// Start hands the run token to the highest-priority ready thread (idle
// if none was created yet) and returns immediately; the kernel then
// runs entirely on its threads' own goroutines. Call exactly once, after
// any threads that must be ready before the first schedule have been
// created, the direct analogue of board init calling the kernel entry
// point exactly once.
func (k *Kernel) Start() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.started {
		return
	}
	k.started = true
	k.idle.arg = k // idleEntry needs the kernel back-reference
	next := k.pickNextLocked()
	k.switchToLocked(next)
}

// pickNextLocked returns the highest-priority ready thread, or idle if
// none is ready. Caller must hold k.mu.
func (k *Kernel) pickNextLocked() *tcb {
	if v, ok := k.ready.PopFront(); ok {
		return v.(*tcb)
	}
	return k.idle
}

// switchToLocked installs next as the running thread and hands it the
// run token. Caller must hold k.mu; next must not already hold the
// token.
func (k *Kernel) switchToLocked(next *tcb) {
	if k.cfg.StackGuard && k.current != nil && !k.current.checkStackGuard() {
		k.panicLocked("stack guard violation in thread \"" + k.current.name + "\"")
		return
	}
	next.state = running
	k.current = next
	select {
	case next.resumeCh <- struct{}{}:
	default:
	}
}

// runThread is the body every thread's goroutine executes: park for the
// first token, run the entry function, then retire the thread and hand
// the token onward.
func (k *Kernel) runThread(t *tcb) {
	<-t.resumeCh
	t.entry(t.arg)
	k.retire(t)
}

func (k *Kernel) retire(t *tcb) {
	k.mu.Lock()
	t.state = terminated
	k.active--
	close(t.terminatedCh)
	next := k.pickNextLocked()
	k.switchToLocked(next)
	k.mu.Unlock()
}

// maybePreemptLocked requeues self and switches away if a ready thread
// outranks self, or, with Config.RoundRobin set, if a thread of equal
// priority is ready. No-op while irqDepth > 0;
// preemption decisions made during a nested interrupt wait for the
// outermost exit. Returns true if it switched (in which case self must
// block on its own resumeCh once the caller releases k.mu).
func (k *Kernel) maybePreemptLocked(self *tcb) bool {
	if k.irqDepth != 0 {
		return false
	}
	hi, ok := k.ready.Highest()
	if !ok {
		k.reschedulePending = false
		return false
	}
	if hi > self.prio {
		return false
	}
	if hi == self.prio && !k.cfg.RoundRobin {
		return false
	}
	self.state = ready
	k.ready.PushBack(self.prio, self)
	next, _ := k.ready.PopFront()
	k.switchToLocked(next.(*tcb))
	if _, more := k.ready.Highest(); !more {
		k.reschedulePending = false
	}
	return true
}

// finish is the tail every blocking public kernel call ends with: maybe
// preempt self, then release the critical section, parking self on its
// own token if it was switched away.
func (k *Kernel) finish(self *tcb) {
	switched := k.maybePreemptLocked(self)
	k.mu.Unlock()
	if switched {
		<-self.resumeCh
	}
}

// wakeLocked moves a blocked thread to READY and marks a reschedule
// pending if it now outranks the running thread. Caller must hold k.mu.
func (k *Kernel) wakeLocked(t *tcb) {
	t.state = ready
	k.ready.PushBack(t.prio, t)
	k.cancelTimeoutLocked(t)
	if k.current == nil || t.prio < k.current.prio {
		k.reschedulePending = true
		k.cond.Broadcast()
	}
}

func (k *Kernel) cancelTimeoutLocked(t *tcb) {
	if t.timeoutEntry != nil {
		k.timeout.Cancel(t.timeoutEntry)
		t.timeoutEntry = nil
	}
}

// cpuIdleWait is the idle thread's only action: block until there is
// something to do, matching a CPU port's contract that enabling
// interrupts and halting happen atomically; sync.Cond's Wait gives us
// exactly that, modulo the fact that what we are "halting" is a
// goroutine rather than a CPU core.
func (k *Kernel) cpuIdleWait() {
	k.mu.Lock()
	for !k.reschedulePending {
		k.cond.Wait()
	}
	k.finish(k.idle)
}

// ThreadCreate allocates a TCB, pushes it into the ready set, and starts
// its goroutine parked for its first token.
func (k *Kernel) ThreadCreate(name string, stack []byte, prio int, entry func(arg any), arg any, flags CreateFlags) (ThreadID, error) {
	k.mu.Lock()

	if prio < 0 || prio >= k.cfg.idlePriority() {
		k.mu.Unlock()
		return 0, &errcode.E{Op: "thread_create", C: errcode.InvalidPriority}
	}
	if len(stack) < minStackBytes {
		k.mu.Unlock()
		return 0, &errcode.E{Op: "thread_create", C: errcode.InvalidStack}
	}
	if k.active >= k.cfg.MaxThreads {
		k.mu.Unlock()
		return 0, &errcode.E{Op: "thread_create", C: errcode.TooManyThreads}
	}

	t := newTCB(k.allocID(), name, stack, prio, entry, arg, k.cfg.StackGuard)
	k.threads[t.id] = t
	k.active++
	k.ready.PushBack(prio, t)
	go k.runThread(t)

	self := k.current
	if self != nil && flags&FlagPreferImmediate != 0 && prio < self.prio {
		k.reschedulePending = true
	}
	if self != nil && prio <= k.current.prio {
		k.cond.Broadcast()
	}

	if self == nil {
		// Called before Start(): nothing is running yet to preempt.
		k.mu.Unlock()
		return t.id, nil
	}
	k.finish(self)
	return t.id, nil
}

// ThreadYield moves self to the tail of its priority queue and switches
// if another thread of equal or higher priority is ready. Returns
// without switching if nothing outranks self.
func (k *Kernel) ThreadYield() {
	k.mu.Lock()
	self := k.current
	hi, ok := k.ready.Highest()
	if !ok || hi > self.prio {
		k.mu.Unlock()
		return
	}
	self.state = ready
	k.ready.PushBack(self.prio, self)
	next, _ := k.ready.PopFront()
	k.switchToLocked(next.(*tcb))
	k.mu.Unlock()
	<-self.resumeCh

	k.mu.Lock()
	k.finish(self)
}

// ThreadSleep blocks self for the given number of ticks. ticks == 0
// behaves as ThreadYield.
func (k *Kernel) ThreadSleep(ticks uint64) {
	if ticks == 0 {
		k.ThreadYield()
		return
	}
	k.mu.Lock()
	self := k.current
	self.state = blockSleep
	self.timeoutEntry = &timeoutq.Entry{Owner: self}
	k.timeout.Schedule(self.timeoutEntry, ticks)

	next := k.pickNextLocked()
	k.switchToLocked(next)
	k.mu.Unlock()
	<-self.resumeCh

	k.mu.Lock()
	k.finish(self)
}

// ThreadWakeup transitions a blocked thread to READY. Valid from both
// thread and IRQ context; IRQ context only marks the
// reschedule, never switches directly.
func (k *Kernel) ThreadWakeup(id ThreadID) {
	k.mu.Lock()
	t, ok := k.threads[id]
	if !ok || t.state == running || t.state == ready || t.state == terminated {
		k.mu.Unlock()
		return
	}
	k.wakeLocked(t)
	if k.irqDepth > 0 {
		k.mu.Unlock()
		return
	}
	k.finish(k.current)
}

// ThreadCurrent returns the calling thread's identity.
func (k *Kernel) ThreadCurrent() ThreadID {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.current.id
}

// TickNow returns the kernel's monotonic tick counter.
func (k *Kernel) TickNow() uint32 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.tick
}

// ThreadList is a supplemented introspection call (not present in the
// original surface) returning a snapshot of every thread created so far,
// idle included; threads whose entry has returned stay listed with State
// "TERMINATED". Useful for diagnostics.
func (k *Kernel) ThreadList() []ThreadInfo {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]ThreadInfo, 0, len(k.threads))
	for _, t := range k.threads {
		out = append(out, ThreadInfo{ID: t.id, Name: t.name, Priority: t.prio, State: t.state.String()})
	}
	return out
}

func (k *Kernel) panicLocked(reason string) {
	k.mu.Unlock()
	k.onPanic(k, reason)
	k.mu.Lock()
}

func defaultPanic(k *Kernel, reason string) {
	if k.log != nil {
		k.log.Println("kernel panic:", reason)
	}
	panic(reason)
}
