// Package pool hands out bounded execution slots that worker goroutines
// acquire before running and release when done.
//
// Worker counts in this domain are fixed for the lifetime of a stage —
// the pool is never resized after a stage starts — and workers are
// long-lived goroutines, not structs recycled between calls. Pool is
// therefore a capacity-token semaphore rather than an object-recycling
// pool. Every stage acquires its worker slots from one: a private fixed
// pool sized to its worker count, or the pool given in
// Config.SharedPool when several stage instances share worker capacity.
package pool

import "context"

// Pool hands out a bounded number of concurrent execution slots.
type Pool interface {
	// Acquire blocks until a slot is available or ctx is done.
	Acquire(ctx context.Context) error

	// Release returns a previously acquired slot.
	Release()
}
