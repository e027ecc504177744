package simhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignEmptyIsZero(t *testing.T) {
	h := New(Width64)
	sig := h.SignStrings(nil)
	for i := 0; i < 64; i++ {
		assert.False(t, sig.Bit(i))
	}
}

func TestSignDeterministic(t *testing.T) {
	h := New(Width64)
	sig1 := h.SignStrings([]string{"a", "b", "c"})
	sig2 := h.SignStrings([]string{"a", "b", "c"})
	assert.True(t, sig1.Equal(sig2))
}

func TestHammingDistanceBounded(t *testing.T) {
	h := New(Width64)
	sig1 := h.SignStrings([]string{"a", "b", "c", "d"})
	sig2 := h.SignStrings([]string{"a", "b", "c", "e"})

	d, err := HammingDistance(sig1, sig2)
	require.NoError(t, err)
	assert.LessOrEqual(t, d, 64)
	assert.GreaterOrEqual(t, d, 0)
}

func TestHammingDistanceScalesWithDisagreement(t *testing.T) {
	h := New(Width128)
	base := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"}
	oneOff := []string{"alpha", "bravo", "charlie", "delta", "echo", "golf"}
	manyOff := []string{"november", "oscar", "papa", "quebec", "romeo", "sierra"}

	sigBase := h.SignStrings(base)
	sigOneOff := h.SignStrings(oneOff)
	sigManyOff := h.SignStrings(manyOff)

	dSmall, err := HammingDistance(sigBase, sigOneOff)
	require.NoError(t, err)
	dLarge, err := HammingDistance(sigBase, sigManyOff)
	require.NoError(t, err)

	assert.Less(t, dSmall, dLarge)
}

func TestHammingDistanceWidthMismatch(t *testing.T) {
	h64 := New(Width64)
	h128 := New(Width128)

	_, err := HammingDistance(h64.SignStrings([]string{"a"}), h128.SignStrings([]string{"a"}))
	assert.Error(t, err)
}

func TestCentroidMajorityVote(t *testing.T) {
	h := New(Width64)
	base := h.SignStrings([]string{"a", "b", "c"})
	near1 := h.SignStrings([]string{"a", "b", "c", "d"})
	near2 := h.SignStrings([]string{"a", "b", "c", "e"})

	centroid := Centroid([]*Signature{base, near1, near2})
	require.NotNil(t, centroid)
	assert.Equal(t, Width64, centroid.Width())
	for i := 0; i < 64; i++ {
		votes := 0
		for _, s := range []*Signature{base, near1, near2} {
			if s.Bit(i) {
				votes++
			}
		}
		assert.Equal(t, votes >= 2, centroid.Bit(i), "bit %d", i)
	}
}

func TestBulkSignMatchesSerial(t *testing.T) {
	h := New(Width64)
	batches := [][]string{
		{"a", "b"},
		{"c", "d"},
		{"e", "f"},
	}
	bulk := h.BulkSignStrings(batches)
	for i, b := range batches {
		assert.True(t, h.SignStrings(b).Equal(bulk[i]))
	}
}
