package parastage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelFilter_KeepsOnlyMatching(t *testing.T) {
	stage, err := ParallelFilter(intRange(20), func(x *int) bool { return *x%3 == 0 }, WithThreads(4))
	require.NoError(t, err)
	out, err := Drain(stage)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 6, 9, 12, 15, 18}, out)
}

func TestParallelFilter_EquivalenceWithSequentialFilter(t *testing.T) {
	pred := func(x *int) bool { return *x%2 == 0 }

	stage, err := ParallelFilter(intRange(37), pred, WithThreads(6))
	require.NoError(t, err)
	got, err := Drain(stage)
	require.NoError(t, err)

	var want []int
	for i := 0; i < 37; i++ {
		v := i
		if pred(&v) {
			want = append(want, v)
		}
	}
	assert.Equal(t, want, got)
}

func TestParallelFilter_PanicInPredicateSurfacesAsFault(t *testing.T) {
	stage, err := ParallelFilter(intRange(10), func(x *int) bool {
		if *x == 3 {
			panic("predicate panic")
		}
		return true
	}, WithThreads(1), WithMaxInFlight(1))
	require.NoError(t, err)
	defer stage.Close()

	var faultErr error
	count := 0
	for {
		_, ok, err := stage.Next()
		if err != nil {
			faultErr = err
			break
		}
		if !ok {
			break
		}
		count++
	}
	require.Error(t, faultErr)
	assert.LessOrEqual(t, count, 3)
}

func TestParallelFilter_CloseTerminatesWorkers(t *testing.T) {
	stage, err := ParallelFilter(intRange(5), func(x *int) bool { return true }, WithThreads(2))
	require.NoError(t, err)
	_, _, _ = stage.Next()
	assert.NoError(t, stage.(interface{ Close() error }).Close())
}
