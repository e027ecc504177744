package simhash

import (
	"iter"

	"github.com/spaolacci/murmur3"
)

// Hasher computes SimHash signatures of a fixed width over streams of
// tokens: one running signed counter per bit, incremented or decremented by
// whether the token's own hash has that bit set.
type Hasher struct {
	width Width
}

// New builds a Hasher of the given width (64 or 128 bits).
func New(width Width) *Hasher {
	return &Hasher{width: width}
}

// tokenHash128 derives a 128-bit hash from murmur3's 128-bit variant,
// packed into two words — used only for Width128.
func tokenHash128(token []byte) (lo, hi uint64) {
	return murmur3.Sum128(token)
}

// Sign computes the SimHash signature of a token stream. An empty stream
// yields the all-zero signature, per contract: all counters stay at zero,
// and bit i is 1 iff counter i is strictly positive.
func (h *Hasher) Sign(tokens iter.Seq[[]byte]) *Signature {
	counters := make([]int32, h.width)

	for token := range tokens {
		lo, hi := tokenHash128(token)
		for i := 0; i < int(h.width); i++ {
			var bit bool
			if i < 64 {
				bit = lo&(1<<uint(i)) != 0
			} else {
				bit = hi&(1<<uint(i-64)) != 0
			}
			if bit {
				counters[i]++
			} else {
				counters[i]--
			}
		}
	}

	sig := &Signature{width: h.width}
	for i, c := range counters {
		if c > 0 {
			if i < 64 {
				sig.words[0] |= 1 << uint(i)
			} else {
				sig.words[1] |= 1 << uint(i-64)
			}
		}
	}
	return sig
}

// SignStrings is a convenience wrapper for string tokens.
func (h *Hasher) SignStrings(tokens []string) *Signature {
	return h.Sign(func(yield func([]byte) bool) {
		for _, tok := range tokens {
			if !yield([]byte(tok)) {
				return
			}
		}
	})
}

// BulkSignStrings computes signatures for many token sets in parallel.
func (h *Hasher) BulkSignStrings(batches [][]string) []*Signature {
	return bulkSign(batches, h.SignStrings)
}
