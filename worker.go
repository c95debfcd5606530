package parastage

import "context"

// workItem is what the driver sends to a worker: a sequence number and
// the upstream item to process.
type workItem[T any] struct {
	seq  int
	item T
}

// worker runs a loop: receive an envelope from the input channel, apply
// the user function, send an outcome envelope bearing the same sequence
// number. process already captures panic recovery (see newMapProcess /
// newFilterProcess) so the loop itself never needs a recover.
type worker[T, R any] struct {
	in      <-chan workItem[T]
	out     chan<- envelope[R]
	process func(seq int, item T) envelope[R]
}

func newWorker[T, R any](
	in <-chan workItem[T], out chan<- envelope[R], process func(int, T) envelope[R],
) *worker[T, R] {
	return &worker[T, R]{in: in, out: out, process: process}
}

// run executes the worker loop until in signals upstream closure (clean
// exit) or ctx is done (shutdown signal). This package never closes the
// output channel while workers may still be sending; shutdown instead
// cancels ctx.
func (w *worker[T, R]) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case wi, ok := <-w.in:
			if !ok {
				return
			}
			env := w.process(wi.seq, wi.item)
			select {
			case w.out <- env:
			case <-ctx.Done():
				return
			}
		}
	}
}

// newMapProcess builds the per-item processing function for a parallel
// map stage: apply fn, capture any panic as a Fault envelope, and time
// the call through hooks.
func newMapProcess[T, R any](fn func(T) R, hooks profilingHooks) func(int, T) envelope[R] {
	return func(seq int, item T) (env envelope[R]) {
		defer func() {
			if r := recover(); r != nil {
				env = envelope[R]{seq: seq, kind: verdictFault, fault: captureFault(seq, r)}
			}
		}()
		var result R
		hooks.timeFn(func() { result = fn(item) })
		return envelope[R]{seq: seq, kind: verdictOK, value: result}
	}
}

// newFilterProcess builds the per-item processing function for a
// parallel filter stage: apply pred, produce a keep/drop verdict. A
// dropped item still consumes a sequence number so the reorder buffer
// can advance past it.
func newFilterProcess[T any](pred func(*T) bool, hooks profilingHooks) func(int, T) envelope[T] {
	return func(seq int, item T) (env envelope[T]) {
		defer func() {
			if r := recover(); r != nil {
				env = envelope[T]{seq: seq, kind: verdictFault, fault: captureFault(seq, r)}
			}
		}()
		var keep bool
		hooks.timeFn(func() { keep = pred(&item) })
		if keep {
			return envelope[T]{seq: seq, kind: verdictOK, value: item}
		}
		return envelope[T]{seq: seq, kind: verdictDropped}
	}
}
