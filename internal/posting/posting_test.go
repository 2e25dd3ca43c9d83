package posting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_IsIdempotent(t *testing.T) {
	p := New()
	p.Add(1)
	p.Add(1)
	assert.Equal(t, 1, p.Len())
}

func TestRemove_AbsentIsNoOp(t *testing.T) {
	p := New()
	p.Add(1)
	p.Remove(99)
	assert.Equal(t, 1, p.Len())
	assert.True(t, p.Contains(1))
}

func TestIsEmpty(t *testing.T) {
	p := New()
	assert.True(t, p.IsEmpty())
	p.Add(5)
	assert.False(t, p.IsEmpty())
	p.Remove(5)
	assert.True(t, p.IsEmpty())
}

func TestPromotionAtThreshold(t *testing.T) {
	p := New()
	for i := uint64(0); i < inlineThreshold; i++ {
		p.Add(i)
	}
	assert.Nil(t, p.promoted, "still inline at exactly the threshold count")
	assert.Equal(t, inlineThreshold, p.Len())

	p.Add(uint64(inlineThreshold)) // 129th distinct id
	require.NotNil(t, p.promoted)
	assert.Equal(t, inlineThreshold+1, p.Len())

	for i := uint64(0); i <= uint64(inlineThreshold); i++ {
		assert.True(t, p.Contains(i))
	}
}

func TestToVec_ReturnsEveryMember(t *testing.T) {
	p := New()
	want := map[uint64]bool{}
	for i := uint64(0); i < 200; i++ {
		p.Add(i)
		want[i] = true
	}
	got := map[uint64]bool{}
	for _, id := range p.ToVec() {
		got[id] = true
	}
	assert.Equal(t, want, got)
}

func TestToSet_UsableForSetAlgebra(t *testing.T) {
	p := New()
	p.Add(1)
	p.Add(2)
	set := p.ToSet()
	_, ok1 := set.Get(1)
	_, ok2 := set.Get(3)
	assert.True(t, ok1)
	assert.False(t, ok2)
}

func TestFirstID_EmptyReturnsFalse(t *testing.T) {
	p := New()
	_, ok := p.FirstID()
	assert.False(t, ok)
}

func TestFirstID_AfterPromotionStillFindsAMember(t *testing.T) {
	p := New()
	for i := uint64(0); i < 200; i++ {
		p.Add(i)
	}
	id, ok := p.FirstID()
	assert.True(t, ok)
	assert.True(t, id < 200)
}
