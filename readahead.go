package parastage

import (
	"context"
	"sync"
)

// readaheadStage is a single prefetch goroutine that pulls from
// upstream ahead of the caller and holds up to k items in a bounded
// buffer, decoupling the caller's pull rate from upstream's production
// rate without reordering or transforming anything.
type readaheadStage[T any] struct {
	buf chan T

	scope     *Scope
	ownsScope bool
	ctx       context.Context
	cancel    context.CancelFunc

	fault   chan *Fault
	faultMu sync.Mutex
	seen    *Fault

	closeOnce sync.Once
}

// newReadaheadStage starts the prefetch goroutine. k is the buffer
// capacity; k==0 means a single-item handoff, still decoupling
// producer from consumer via the unbuffered channel's rendezvous.
func newReadaheadStage[T any](parent context.Context, upstream Sequence[T], k int, scope *Scope) *readaheadStage[T] {
	if k < 0 {
		k = 0
	}

	ownsScope := scope == nil
	if ownsScope {
		scope = NewScope(parent)
	}
	ctx, cancel := context.WithCancel(scope.Context())

	r := &readaheadStage[T]{
		buf:       make(chan T, k),
		scope:     scope,
		ownsScope: ownsScope,
		ctx:       ctx,
		cancel:    cancel,
		fault:     make(chan *Fault, 1),
	}

	scope.Go(func() error {
		r.pump(upstream)
		return nil
	})

	return r
}

// pump pulls from upstream one item at a time and forwards each into
// buf, blocking when buf is full (this is the readahead bound). A
// panic from upstream.Next is captured exactly like a worker panic and
// surfaced once buf has been drained.
func (r *readaheadStage[T]) pump(upstream Sequence[T]) {
	defer close(r.buf)

	for {
		item, ok, faultValue := r.pull(upstream)
		if faultValue != nil {
			r.fault <- captureFault(-1, faultValue)
			return
		}
		if !ok {
			return
		}
		select {
		case r.buf <- item:
		case <-r.ctx.Done():
			return
		}
	}
}

func (r *readaheadStage[T]) pull(upstream Sequence[T]) (item T, ok bool, faultValue any) {
	defer func() {
		if rec := recover(); rec != nil {
			faultValue = rec
			ok = false
		}
	}()
	var err error
	item, ok, err = upstream.Next()
	if err != nil {
		faultValue = err
		ok = false
	}
	return item, ok, faultValue
}

// next returns the next buffered item, or end-of-stream once the
// buffer is drained and the pump has exited, surfacing any captured
// upstream fault exactly once.
func (r *readaheadStage[T]) next() (T, bool, error) {
	var zero T
	item, ok := <-r.buf
	if ok {
		return item, true, nil
	}

	r.faultMu.Lock()
	defer r.faultMu.Unlock()
	if r.seen != nil {
		return zero, false, nil
	}
	select {
	case f := <-r.fault:
		r.seen = f
		return zero, false, f
	default:
		return zero, false, nil
	}
}

// Close stops the prefetch goroutine. For a stage that owns its Scope,
// Close also joins it; a caller-supplied Scope is joined by the
// caller's own Wait, matching ParallelMap/ParallelFilter's contract.
func (r *readaheadStage[T]) Close() error {
	var err error
	r.closeOnce.Do(func() {
		r.cancel()
		if r.ownsScope {
			err = r.scope.Wait()
		}
	})
	return err
}

type readaheadHandle[T any] struct {
	r *readaheadStage[T]
}

func (h *readaheadHandle[T]) Next() (T, bool, error) { return h.r.next() }
func (h *readaheadHandle[T]) Close() error           { return h.r.Close() }

// Readahead attaches a prefetch stage: a single goroutine pulls up to
// k items ahead of the caller, so upstream production overlaps with
// the caller's own processing without introducing parallelism or
// reordering.
func Readahead[T any](upstream Sequence[T], k int) (Sequence[T], error) {
	r := newReadaheadStage[T](context.Background(), upstream, k, nil)
	return &readaheadHandle[T]{r: r}, nil
}

// ReadaheadScoped is Readahead's scoped variant: workers are spawned
// on scope instead of an internally-created one.
func ReadaheadScoped[T any](scope *Scope, upstream Sequence[T], k int) (Sequence[T], error) {
	r := newReadaheadStage[T](scope.Context(), upstream, k, scope)
	return &readaheadHandle[T]{r: r}, nil
}
