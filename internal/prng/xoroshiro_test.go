package prng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_DeterministicForSameSeed(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.nextRaw(), b.nextRaw())
	}
}

func TestNew_DifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)
	assert.NotEqual(t, a.nextRaw(), b.nextRaw())
}

func TestRange_RespectsBounds(t *testing.T) {
	r := New(7)
	for i := 0; i < 10000; i++ {
		v := r.Range(3, 9)
		assert.GreaterOrEqual(t, v, uint64(3))
		assert.LessOrEqual(t, v, uint64(9))
	}
}

func TestRange_MinEqualsMaxReturnsMin(t *testing.T) {
	r := New(1)
	assert.Equal(t, uint64(5), r.Range(5, 5))
	assert.Equal(t, uint64(5), r.Range(5, 4))
}

func TestRange_PowerOfTwoSpan(t *testing.T) {
	r := New(99)
	seen := map[uint64]bool{}
	for i := 0; i < 5000; i++ {
		v := r.Range(0, 15) // span 16, power of two
		assert.LessOrEqual(t, v, uint64(15))
		seen[v] = true
	}
	assert.Greater(t, len(seen), 10, "should see good spread across the power-of-two range")
}

func TestRange_LargeSpanUnbiasedPath(t *testing.T) {
	r := New(123)
	for i := 0; i < 1000; i++ {
		v := r.Range(0, 1_000_000)
		assert.LessOrEqual(t, v, uint64(1_000_000))
	}
}
