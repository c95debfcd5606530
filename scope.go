package parastage

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Scope is a collaborator that guarantees joined teardown of spawned
// goroutines before a caller-chosen region exits, enabling safe
// borrowing of stack-bound data. It wraps
// golang.org/x/sync/errgroup.Group, which gives exactly that guarantee:
// Wait blocks until every goroutine started with Go has returned.
//
// Scoped stage variants (ParallelMapScoped, ParallelFilterScoped,
// ReadaheadScoped) use a Scope so worker goroutines may safely borrow
// values from the caller's stack frame: the Scope's owner is responsible
// for calling Wait only after the borrowed frame is done being mutated.
// A scoped stage's Close stops new work but does not call Wait; its
// goroutines are joined by the owner's Wait.
type Scope struct {
	group *errgroup.Group
	ctx   context.Context
}

// NewScope creates a Scope bound to ctx. Cancelling ctx (or a failure in
// any goroutine spawned via Go) propagates to every goroutine that reads
// s.Context().Done().
func NewScope(ctx context.Context) *Scope {
	g, gctx := errgroup.WithContext(ctx)
	return &Scope{group: g, ctx: gctx}
}

// Go spawns fn on a new goroutine tracked by the scope. fn's returned
// error, if any, cancels the scope's context and is surfaced by Wait.
func (s *Scope) Go(fn func() error) {
	s.group.Go(fn)
}

// Wait blocks until every goroutine started with Go has returned, then
// returns the first non-nil error any of them returned.
func (s *Scope) Wait() error {
	return s.group.Wait()
}

// Context returns the scope's context, cancelled once any spawned
// goroutine returns a non-nil error or the parent context passed to
// NewScope is cancelled.
func (s *Scope) Context() context.Context { return s.ctx }
