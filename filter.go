package parastage

import "context"

// ParallelFilter attaches a parallel filter stage: pred is applied to
// each upstream item by a pool of cfg.Workers goroutines; kept items
// are yielded from the returned Sequence in upstream order, dropped
// items still consume a sequence number so the reorder buffer can
// advance past them.
func ParallelFilter[T any](upstream Sequence[T], pred func(*T) bool, opts ...Option) (Sequence[T], error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	hooks := newProfilingHooks(cfg.Metrics)
	process := newFilterProcess[T](pred, hooks)
	s := newStage[T, T](context.Background(), upstream, process, hooks, cfg, nil)
	return &stageHandle[T, T]{s: s}, nil
}

// ParallelFilterScoped is ParallelFilter's scoped variant: workers are
// spawned on scope instead of an internally-created one.
func ParallelFilterScoped[T any](
	scope *Scope, upstream Sequence[T], pred func(*T) bool, opts ...Option,
) (Sequence[T], error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	hooks := newProfilingHooks(cfg.Metrics)
	process := newFilterProcess[T](pred, hooks)
	s := newStage[T, T](scope.Context(), upstream, process, hooks, cfg, scope)
	return &stageHandle[T, T]{s: s}, nil
}
