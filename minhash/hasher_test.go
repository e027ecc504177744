package minhash

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func jaccard(a, b []string) float64 {
	setA := make(map[string]bool)
	for _, x := range a {
		setA[x] = true
	}
	setB := make(map[string]bool)
	for _, x := range b {
		setB[x] = true
	}
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	inter := 0
	for x := range setA {
		if setB[x] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 1
	}
	return float64(inter) / float64(union)
}

func TestNewDefaultsNumHashes(t *testing.T) {
	h := New[uint64](0)
	assert.Equal(t, 128, h.NumHashes())
}

func TestSignEmptyIsZeroFilled(t *testing.T) {
	h := NewSeeded[uint64](64, 1)
	sig := h.SignStrings(nil)
	for _, v := range sig.Values() {
		assert.Equal(t, uint64(0), v)
	}
}

func TestSignLengthMatchesNumHashes(t *testing.T) {
	h := NewSeeded[uint64](96, 7)
	sig := h.SignStrings([]string{"a", "b", "c"})
	assert.Equal(t, 96, sig.Len())
}

func TestSeededHasherIsReproducible(t *testing.T) {
	h1 := NewSeeded[uint64](64, 42)
	h2 := NewSeeded[uint64](64, 42)

	sig1 := h1.SignStrings([]string{"this", "is", "the", "first", "document"})
	sig2 := h2.SignStrings([]string{"this", "is", "the", "first", "document"})

	assert.True(t, sig1.Equal(sig2))
}

func TestSignatureOrderIndependence(t *testing.T) {
	h := NewSeeded[uint64](64, 42)

	sig1 := h.SignStrings([]string{"a", "b", "c", "d"})
	sig2 := h.SignStrings([]string{"d", "c", "b", "a"})

	assert.True(t, sig1.Equal(sig2))
}

func TestEstimateJaccardApproximatesExact(t *testing.T) {
	h := NewSeeded[uint64](256, 99)

	doc1 := []string{"the", "quick", "brown", "fox", "jumps", "over", "the", "lazy", "dog"}
	doc2 := []string{"the", "quick", "brown", "fox", "leaps", "over", "a", "sleepy", "dog"}

	sig1 := h.SignStrings(doc1)
	sig2 := h.SignStrings(doc2)

	estimated, err := EstimateJaccard(sig1, sig2)
	assert.NoError(t, err)

	exact := jaccard(doc1, doc2)
	assert.Less(t, math.Abs(estimated-exact), 0.2)
}

func TestEstimateJaccardLengthMismatch(t *testing.T) {
	h1 := NewSeeded[uint64](32, 1)
	h2 := NewSeeded[uint64](64, 1)

	sig1 := h1.SignStrings([]string{"a"})
	sig2 := h2.SignStrings([]string{"a"})

	_, err := EstimateJaccard(sig1, sig2)
	assert.Error(t, err)
}

func TestBulkSignMatchesSerial(t *testing.T) {
	h := NewSeeded[uint32](64, 3)

	batches := [][]string{
		{"a", "b", "c"},
		{"b", "c", "d"},
		{"x", "y"},
	}

	bulk := h.BulkSignStrings(batches)
	for i, batch := range batches {
		serial := h.SignStrings(batch)
		assert.True(t, serial.Equal(bulk[i]))
	}
}

func TestNew64UsesLargerModulus(t *testing.T) {
	h32 := New[uint64](8)
	h64 := New64[uint64](8)

	assert.Equal(t, Prime31, h32.prime)
	assert.Equal(t, Prime61, h64.prime)
}

func TestNarrowingToSmallerWidth(t *testing.T) {
	h := NewSeeded[uint8](32, 5)
	sig := h.SignStrings([]string{"a", "b"})
	assert.Equal(t, 32, sig.Len())
}
