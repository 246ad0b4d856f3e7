package kernel

// ThreadID is the small integer identity assigned by the scheduler at
// creation.
type ThreadID int

// RunState is one of the states a thread occupies over its lifetime.
type RunState int

const (
	running RunState = iota
	ready
	blockMutex
	blockMboxSend
	blockMboxRecv
	blockSleep
	blockRendezvousSend
	blockRendezvousRecv
	terminated
)

func (s RunState) String() string {
	switch s {
	case running:
		return "RUNNING"
	case ready:
		return "READY"
	case blockMutex:
		return "BLOCK_MUTEX"
	case blockMboxSend:
		return "BLOCK_MBOX_SEND"
	case blockMboxRecv:
		return "BLOCK_MBOX_RECV"
	case blockSleep:
		return "BLOCK_SLEEP"
	case blockRendezvousSend:
		return "BLOCK_RENDEZVOUS_SEND"
	case blockRendezvousRecv:
		return "BLOCK_RENDEZVOUS_RECV"
	case terminated:
		return "TERMINATED"
	default:
		return "?"
	}
}

// CreateFlags controls ThreadCreate's scheduling behavior for the new
// thread.
type CreateFlags uint8

const (
	// FlagNone starts the thread as merely READY.
	FlagNone CreateFlags = 0
	// FlagPreferImmediate marks a reschedule pending if the new thread's
	// priority outranks the creating thread's, so it may run before
	// thread_create returns.
	FlagPreferImmediate CreateFlags = 1 << 0
)

// Message is the small opaque payload exchanged through a mailbox: a tag
// plus a pointer-sized value or small inline struct in a typical RTOS.
// Go's interface{} already gives us that without a fixed-size encoding.
type Message = any

// ThreadInfo is the read-only introspection snapshot returned by
// ThreadList.
type ThreadInfo struct {
	ID       ThreadID
	Name     string
	Priority int
	State    string
}
