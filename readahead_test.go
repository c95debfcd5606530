package parastage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadahead_PreservesOrder(t *testing.T) {
	stage, err := Readahead(intRange(30), 4)
	require.NoError(t, err)
	out, err := Drain(stage)
	require.NoError(t, err)
	want := make([]int, 30)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, out)
}

func TestReadahead_ZeroCapacityStillDecouples(t *testing.T) {
	stage, err := Readahead(intRange(10), 0)
	require.NoError(t, err)
	out, err := Drain(stage)
	require.NoError(t, err)
	assert.Len(t, out, 10)
}

// readahead(0).parallel_filter(p).parallel_map(f)
// over 0..10 with p = even, f = x*7+1. Expected: [1, 15, 29, 43, 57].
func TestScenario_ReadaheadFilterMap(t *testing.T) {
	ra, err := Readahead(intRange(11), 0)
	require.NoError(t, err)

	filtered, err := ParallelFilter(ra, func(x *int) bool { return *x%2 == 0 }, WithThreads(3))
	require.NoError(t, err)

	final, err := ParallelMap(filtered, func(x int) int { return x*7 + 1 }, WithThreads(3))
	require.NoError(t, err)

	out, err := Drain(final)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 15, 29, 43, 57}, out)
}

func TestReadahead_PanicInUpstreamSurfacesAsFault(t *testing.T) {
	calls := 0
	upstream := FromFunc(func() (int, bool, error) {
		calls++
		if calls == 3 {
			panic("upstream exploded")
		}
		return calls, true, nil
	})

	stage, err := Readahead[int](upstream, 1)
	require.NoError(t, err)
	defer stage.Close()

	var faultErr error
	got := 0
	for {
		_, ok, err := stage.Next()
		if err != nil {
			faultErr = err
			break
		}
		if !ok {
			break
		}
		got++
	}
	require.Error(t, faultErr)
	var f *Fault
	assert.ErrorAs(t, faultErr, &f)
	assert.LessOrEqual(t, got, 2)

	_, ok, err := stage.Next()
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestReadahead_IdempotentEndOfStream(t *testing.T) {
	stage, err := Readahead(intRange(3), 2)
	require.NoError(t, err)
	_, err = Collect(stage)
	require.NoError(t, err)

	_, ok, err := stage.Next()
	assert.False(t, ok)
	assert.NoError(t, err)
	require.NoError(t, stage.(interface{ Close() error }).Close())
}
