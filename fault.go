package parastage

import (
	"fmt"
	"runtime"
)

// Fault is the captured, first-class representation of an unwinding panic
// raised by a user function or by an upstream Sequence. It carries the
// sequence number of the item being processed when the panic occurred,
// letting a caller correlate a fault with its position in the upstream
// order. Correlation metadata is exposed via accessor methods rather
// than exported fields, so callers use errors.As.
type Fault struct {
	seq   int
	value any
	stack []byte
}

func newFault(seq int, recovered any, stack []byte) *Fault {
	return &Fault{seq: seq, value: recovered, stack: stack}
}

// Error implements error.
func (f *Fault) Error() string {
	return fmt.Sprintf("%s: panic at sequence %d: %v", Namespace, f.seq, f.value)
}

// Sequence returns the sequence number of the item being processed when
// the panic occurred.
func (f *Fault) Sequence() int { return f.seq }

// Recovered returns the original value passed to panic.
func (f *Fault) Recovered() any { return f.value }

// Stack returns the stack trace captured at the point of recover, or nil
// if none was captured.
func (f *Fault) Stack() []byte { return f.stack }

// Repanic re-raises the originally captured panic value on the calling
// goroutine. Use this when a caller wants actual unwind semantics instead
// of the default error-based propagation — recover() only unwinds within
// the panicking goroutine, so a cross-goroutine "re-raise" can only ever
// be this kind of opt-in replay, never automatic.
func (f *Fault) Repanic() { panic(f.value) }

func captureFault(seq int, recovered any) *Fault {
	return newFault(seq, recovered, capturedStack())
}

func capturedStack() []byte {
	buf := make([]byte, 4096)
	for {
		n := runtime.Stack(buf, false)
		if n < len(buf) {
			return buf[:n]
		}
		buf = make([]byte, 2*len(buf))
	}
}
