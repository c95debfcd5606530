package pool

import "context"

// shared is an uncapped Pool: Acquire never blocks. Each stage instance
// still bounds its own concurrency via its MaxInFlight — a shared Pool
// of this kind neither counts nor caps the slots several stages take.
type shared struct{}

// NewShared returns a Pool with no capacity limit of its own.
func NewShared() Pool { return shared{} }

func (shared) Acquire(_ context.Context) error { return nil }

func (shared) Release() {}
