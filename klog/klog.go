// Package klog is the kernel's diagnostic logger: a hand-rolled,
// allocation-light Logger with a handful of typed Print helpers instead
// of fmt's reflection-driven formatting, fanned out to one or more Sinks
// so a host build can mirror to stderr while an embedded build mirrors
// to a UART ring. The kernel's own panic path and boot tracing use this,
// never fmt directly, so the same logger works unmodified on a build
// with no heap.
package klog

import (
	"sync"

	"microkernel/x/fmtx"
)

// Sink receives raw bytes. Implementations must not block for long; the
// kernel may log from inside a critical section.
type Sink interface {
	Write(p []byte)
}

// Logger mirrors every message to all attached sinks.
type Logger struct {
	mu    sync.Mutex
	sinks []Sink
}

// New returns a Logger writing to the given sinks (zero or more).
func New(sinks ...Sink) *Logger {
	return &Logger{sinks: append([]Sink(nil), sinks...)}
}

// AddSink attaches another sink (e.g. a UART ring opened after boot).
func (l *Logger) AddSink(s Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, s)
}

func (l *Logger) write(p []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.sinks {
		s.Write(p)
	}
}

func (l *Logger) writeString(s string) {
	if s == "" {
		return
	}
	l.write([]byte(s))
}

var newline = []byte{'\n'}

func (l *Logger) writePart(v any) {
	switch x := v.(type) {
	case string:
		l.writeString(x)
	case []byte:
		l.write(x)
	case int:
		l.writeString(itoa(int64(x)))
	case int32:
		l.writeString(itoa(int64(x)))
	case int64:
		l.writeString(itoa(x))
	case uint:
		l.writeString(utoa(uint64(x)))
	case uint32:
		l.writeString(utoa(uint64(x)))
	case uint64:
		l.writeString(utoa(x))
	case bool:
		if x {
			l.writeString("true")
		} else {
			l.writeString("false")
		}
	case error:
		l.writeString(x.Error())
	default:
		l.writeString("?")
	}
}

// Print writes each part with no separator, no trailing newline.
func (l *Logger) Print(parts ...any) {
	for i := range parts {
		l.writePart(parts[i])
	}
}

// Println writes each part with no separator, followed by a newline.
func (l *Logger) Println(parts ...any) {
	l.Print(parts...)
	l.mu.Lock()
	for _, s := range l.sinks {
		s.Write(newline)
	}
	l.mu.Unlock()
}

// Printf writes a fmtx-formatted message followed by a newline, for the
// rarer case a caller wants positional formatting rather than Print's
// space-free concatenation.
func (l *Logger) Printf(format string, args ...any) {
	l.writeString(fmtx.Sprintf(format, args...))
	l.mu.Lock()
	for _, s := range l.sinks {
		s.Write(newline)
	}
	l.mu.Unlock()
}

// WriterSink adapts any io.Writer-shaped Write([]byte) into a Sink.
type WriterSink struct {
	W interface{ Write([]byte) (int, error) }
}

func (w WriterSink) Write(p []byte) { _, _ = w.W.Write(p) }
