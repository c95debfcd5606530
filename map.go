package parastage

import "context"

// stageHandle is the public Sequence[R] + Close handle returned by
// ParallelMap, ParallelFilter, and their scoped variants.
type stageHandle[T, R any] struct {
	s *stage[T, R]
}

// Next implements Sequence[R].
func (h *stageHandle[T, R]) Next() (R, bool, error) { return h.s.next() }

// Close tears down the stage's workers: no spawned goroutine remains
// live once Close returns, for stages that own their Scope.
func (h *stageHandle[T, R]) Close() error { return h.s.Close() }

// Stats reads the stage's profiling hooks.
func (h *stageHandle[T, R]) Stats() Stats { return h.s.Stats() }

// ParallelMap attaches a parallel map stage: fn is applied to each
// upstream item by a pool of cfg.Workers goroutines, and results are
// yielded from the returned Sequence in upstream order. fn must be
// safe for concurrent invocation: Go closures have no clone operation,
// so fn is shared by reference across every worker rather than cloned
// per worker; see DESIGN.md.
func ParallelMap[T, R any](upstream Sequence[T], fn func(T) R, opts ...Option) (Sequence[R], error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	hooks := newProfilingHooks(cfg.Metrics)
	process := newMapProcess[T, R](fn, hooks)
	s := newStage[T, R](context.Background(), upstream, process, hooks, cfg, nil)
	return &stageHandle[T, R]{s: s}, nil
}

// ParallelMapScoped is ParallelMap's scoped variant: workers are
// spawned on scope, so they may safely borrow values from the caller's
// stack frame, and are joined when scope.Wait() is called — not when
// the returned handle's Close is called (Close only stops new work;
// see stage.Close).
func ParallelMapScoped[T, R any](
	scope *Scope, upstream Sequence[T], fn func(T) R, opts ...Option,
) (Sequence[R], error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	hooks := newProfilingHooks(cfg.Metrics)
	process := newMapProcess[T, R](fn, hooks)
	s := newStage[T, R](scope.Context(), upstream, process, hooks, cfg, scope)
	return &stageHandle[T, R]{s: s}, nil
}
