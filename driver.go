package parastage

import (
	"context"
	"sync"

	"github.com/parastage/parastage/pool"
)

// stage is the parallel stage driver: it owns the workers, pumps
// upstream items into the input channel, pulls from the output channel,
// reorders, and surfaces one item per Next() call. All internal pumping
// happens inside next() itself — nothing runs ahead of the caller's own
// pull.
type stage[T, R any] struct {
	upstream Sequence[T]
	cfg      Config
	process  func(seq int, item T) envelope[R]
	hooks    profilingHooks

	scope     *Scope
	ownsScope bool
	ctx       context.Context
	cancel    context.CancelFunc
	slotPool  pool.Pool

	inCh  chan workItem[T]
	outCh chan envelope[R]

	reorder *reorderBuffer[R]

	nextSeq             int
	upstreamDone        bool
	pendingUpstreamFault *Fault

	closeInputOnce sync.Once
	closeOnce      sync.Once

	faultReturned bool
	closed        bool
}

// newStage wires up and starts a stage: spawns cfg.Workers worker
// goroutines reading from a fresh input channel and writing envelopes to
// a fresh output channel, all joined by scope (caller-supplied for the
// *_scoped API, privately created otherwise).
func newStage[T, R any](
	parent context.Context,
	upstream Sequence[T],
	process func(int, T) envelope[R],
	hooks profilingHooks,
	cfg Config,
	scope *Scope,
) *stage[T, R] {
	ownsScope := scope == nil
	if ownsScope {
		scope = NewScope(parent)
	}

	ctx, cancel := context.WithCancel(scope.Context())

	slotPool := cfg.SharedPool
	if slotPool == nil {
		slotPool = pool.NewFixed(cfg.Workers)
	}

	inCh := make(chan workItem[T])
	outCh := make(chan envelope[R], cfg.MaxInFlight)

	s := &stage[T, R]{
		upstream:  upstream,
		cfg:       cfg,
		process:   process,
		hooks:     hooks,
		scope:     scope,
		ownsScope: ownsScope,
		ctx:       ctx,
		cancel:    cancel,
		slotPool:  slotPool,
		inCh:      inCh,
		outCh:     outCh,
		reorder:   newReorderBuffer[R](),
	}

	for i := uint(0); i < cfg.Workers; i++ {
		w := newWorker[T, R](inCh, outCh, process)
		scope.Go(func() error {
			if err := slotPool.Acquire(ctx); err != nil {
				return nil
			}
			defer slotPool.Release()
			w.run(ctx)
			return nil
		})
	}

	return s
}

// closeInput closes the input channel exactly once, signaling to every
// worker that no more items will ever arrive; workers drain and exit.
func (s *stage[T, R]) closeInput() {
	s.closeInputOnce.Do(func() { close(s.inCh) })
}

// pullUpstream pulls the next item from upstream, recovering a panic
// from a misbehaving Sequence implementation exactly as a worker
// recovers a panic from the user function: upstream that panics is
// treated as a fault at the current sequence number.
func (s *stage[T, R]) pullUpstream() (item T, ok bool, faultValue any) {
	defer func() {
		if r := recover(); r != nil {
			faultValue = r
			ok = false
		}
	}()
	var err error
	item, ok, err = s.upstream.Next()
	if err != nil {
		faultValue = err
		ok = false
	}
	return item, ok, faultValue
}

// inFlight is the count of items pulled from upstream but not yet
// retired by the reorder buffer (either delivered to the caller or
// dropped by a filter) — the quantity the backpressure bound limits.
func (s *stage[T, R]) inFlight() int { return s.nextSeq - s.reorder.next }

// topUp is phase 1 of next(): while in-flight < max_in_flight and
// upstream is not exhausted, pull an item, assign it a sequence number,
// and send it into the input channel.
func (s *stage[T, R]) topUp() {
	for !s.upstreamDone && s.inFlight() < int(s.cfg.MaxInFlight) {
		item, ok, faultValue := s.pullUpstream()
		if faultValue != nil {
			s.pendingUpstreamFault = captureFault(s.nextSeq, faultValue)
			s.upstreamDone = true
			s.closeInput()
			return
		}
		if !ok {
			s.upstreamDone = true
			s.closeInput()
			return
		}
		seq := s.nextSeq
		s.nextSeq++
		s.hooks.recordIngress()
		select {
		case s.inCh <- workItem[T]{seq: seq, item: item}:
		case <-s.ctx.Done():
			return
		}
	}
}

type deliverStatus int

const (
	deliverItem deliverStatus = iota
	deliverDropped
	deliverFault
	deliverEnd
)

// deliver is phase 2 of next(): attempt to take the envelope whose key
// is next_to_emit; if present, return it. Otherwise block on the output
// channel, insert arriving envelopes, and re-check.
func (s *stage[T, R]) deliver() (envelope[R], deliverStatus) {
	for {
		if env, ok := s.reorder.tryTake(); ok {
			switch env.kind {
			case verdictOK:
				s.hooks.recordEgress()
				return env, deliverItem
			case verdictDropped:
				s.hooks.recordEgress()
				return env, deliverDropped
			default: // verdictFault
				s.hooks.recordEgress()
				return env, deliverFault
			}
		}

		if s.upstreamDone && s.inFlight() == 0 {
			if s.pendingUpstreamFault != nil {
				f := s.pendingUpstreamFault
				s.pendingUpstreamFault = nil
				return envelope[R]{kind: verdictFault, fault: f}, deliverFault
			}
			return envelope[R]{}, deliverEnd
		}

		select {
		case env, ok := <-s.outCh:
			if !ok {
				return envelope[R]{}, deliverEnd
			}
			s.reorder.insert(env)
		case <-s.ctx.Done():
			return envelope[R]{}, deliverEnd
		}
	}
}

// next implements the Sequence[R] contract: at most one item per call,
// end-of-stream once upstream is drained and in-flight work has all
// been retired, a fault re-raised exactly once, and ErrStageClosed
// once Close has been called (never a send on the closed input
// channel, which topUp would otherwise attempt).
func (s *stage[T, R]) next() (R, bool, error) {
	var zero R
	if s.closed {
		return zero, false, ErrStageClosed
	}
	if s.faultReturned {
		return zero, false, nil
	}

	for {
		s.topUp()
		env, status := s.deliver()

		switch status {
		case deliverDropped:
			continue
		case deliverFault:
			s.faultReturned = true
			s.initiateShutdown()
			return zero, false, env.fault
		case deliverEnd:
			return zero, false, nil
		default: // deliverItem
			return env.value, true, nil
		}
	}
}

// initiateShutdown begins teardown after a fault is observed: stop
// accepting new work and unblock anything still pending on channel I/O.
// It does not join workers — that happens in Close, a separate and
// later guarantee.
func (s *stage[T, R]) initiateShutdown() {
	s.closeInput()
	s.cancel()
}

// Close implements the drop path: close the input channel, cancel so
// any worker blocked sending unblocks, then join every worker the stage
// itself spawned. For a *_scoped stage (ownsScope == false), joining is
// deferred to the caller's own Scope.Wait() — the stage only stops
// producing new work; it never out-waits a Scope it doesn't own.
func (s *stage[T, R]) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed = true
		s.closeInput()
		s.cancel()
		if s.ownsScope {
			err = s.scope.Wait()
		}
	})
	return err
}

// Stats reads the stage's profiling hooks, zero unless profiling was
// enabled.
func (s *stage[T, R]) Stats() Stats { return readStats(s.cfg.Metrics) }
