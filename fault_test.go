package parastage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaptureFault_PreservesRecoveredValueAndSequence(t *testing.T) {
	f := captureFault(7, "kaboom")
	assert.Equal(t, 7, f.Sequence())
	assert.Equal(t, "kaboom", f.Recovered())
	assert.NotEmpty(t, f.Stack())
	assert.Contains(t, f.Error(), "kaboom")
	assert.Contains(t, f.Error(), "sequence 7")
}

func TestFault_Repanic(t *testing.T) {
	f := captureFault(1, "original")
	defer func() {
		r := recover()
		assert.Equal(t, "original", r)
	}()
	f.Repanic()
	t.Fatal("Repanic should have panicked")
}
