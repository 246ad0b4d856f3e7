// Package errcode defines the kernel's closed set of error kinds.
//
// Every kernel operation that can fail returns an error carrying one of
// these (extract it with Of) rather than reporting through a global.
// Conditions the kernel itself treats as fatal (stack-guard violation,
// unlock-by-non-owner, an unregistered vector firing) do not go through
// errcode at all, see kernel.PanicFunc.
package errcode

// Code is a stable, comparable error identifier.
// It is a string newtype, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes.
const (
	// TooManyThreads: thread_create found the TCB pool exhausted.
	TooManyThreads Code = "too_many_threads"
	// InvalidPriority: creation or irq_register given an out-of-range priority.
	InvalidPriority Code = "invalid_priority"
	// InvalidStack: stack too small for a synthetic frame, or misaligned.
	InvalidStack Code = "invalid_stack"
	// WouldBlock: a try_* call would have suspended.
	WouldBlock Code = "would_block"
	// Timeout: a timed_* call's wait elapsed without success.
	Timeout Code = "timeout"
	// InvalidVector: vector out of range or reserved.
	InvalidVector Code = "invalid_vector"
)

// E wraps a Code with an operation name and an optional cause, for errors
// that want to carry more context than the bare Code.
type E struct {
	C   Code
	Op  string
	Err error
}

func (e *E) Error() string {
	if e.Op != "" {
		return e.Op + ": " + string(e.C)
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, returning "" if err is nil or carries
// no Code (e.g. a plain context.DeadlineExceeded from caller-side code).
func Of(err error) Code {
	if err == nil {
		return ""
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return ""
}
