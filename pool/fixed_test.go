package pool

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixed_AcquireUpToCapacity(t *testing.T) {
	p := NewFixed(2)

	require.NoError(t, p.Acquire(context.Background()))
	require.NoError(t, p.Acquire(context.Background()))

	done := make(chan struct{})
	go func() {
		_ = p.Acquire(context.Background())
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("third Acquire should block until a Release")
	case <-time.After(50 * time.Millisecond):
	}

	p.Release()

	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("blocked Acquire did not resume after Release")
	}
}

func TestFixed_AcquireRespectsContextCancellation(t *testing.T) {
	p := NewFixed(1)
	require.NoError(t, p.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := p.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFixed_ZeroCapacityTreatedAsOne(t *testing.T) {
	p := NewFixed(0)
	require.NoError(t, p.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, p.Acquire(ctx))
}

func TestFixed_ReleaseWithoutAcquireNeverPanics(t *testing.T) {
	p := NewFixed(1)
	assert.NotPanics(t, func() {
		p.Release()
		p.Release()
	})
}

func TestFixed_ConcurrentAcquireReleaseNeverExceedsCapacity(t *testing.T) {
	const capacity = 4
	p := NewFixed(capacity)

	var inUse int
	var maxSeen int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, p.Acquire(context.Background()))
			mu.Lock()
			inUse++
			if inUse > maxSeen {
				maxSeen = inUse
			}
			mu.Unlock()

			time.Sleep(2 * time.Millisecond)

			mu.Lock()
			inUse--
			mu.Unlock()
			p.Release()
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, maxSeen, capacity)
}
