package hashutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenHashDeterministic(t *testing.T) {
	a := TokenHashString("hello")
	b := TokenHashString("hello")
	c := TokenHashString("world")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestBandHasherSameSeedSameKey(t *testing.T) {
	h1 := NewBandHasher(42)
	h2 := NewBandHasher(42)
	h3 := NewBandHasher(43)

	values := []uint64{1, 2, 3}

	assert.Equal(t, h1.HashUint64s(values), h2.HashUint64s(values))
	assert.NotEqual(t, h1.HashUint64s(values), h3.HashUint64s(values))
}

func TestBandHasherDistinguishesContent(t *testing.T) {
	h := NewBandHasher(7)

	assert.NotEqual(t, h.HashUint64s([]uint64{1, 2, 3}), h.HashUint64s([]uint64{1, 2, 4}))
}

func TestGenerateSeedsDeterministic(t *testing.T) {
	a := GenerateSeeds(10, 1)
	b := GenerateSeeds(10, 1)
	c := GenerateSeeds(10, 2)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	seen := make(map[uint64]bool)
	for _, v := range a {
		assert.False(t, seen[v], "seeds should not repeat within a short sequence")
		seen[v] = true
	}
}
