package minhash

import (
	"iter"
	"math/bits"
	"time"

	"github.com/lshkit/lshkit/internal/hashutil"
)

// Mersenne-prime moduli for the two universal-hashing variants gaoya's
// source ships: the 32-bit path (min_hash32.rs) and the less-biased 64-bit
// path (min_hash64.rs) for large sets. Each hash application reduces the
// full 128-bit product a*x modulo the chosen prime.
const (
	Prime31 uint64 = (1 << 31) - 1
	Prime61 uint64 = (1 << 61) - 1
)

// coefficient is one (a, b) pair of a universal hash function h(x) = (a*x +
// b) mod p, 2-wise independent — sufficient for MinHash's unbiasedness.
type coefficient struct {
	a, b uint64
}

// Hasher computes MinHash signatures of width T over streams of tokens. It
// is built once, with n pre-computed hash functions, and reused for every
// signature computation; construction is the only place randomness (or a
// seed) is consulted.
type Hasher[T Elem] struct {
	numHashes int
	coeffs    []coefficient
	prime     uint64
	tokenHash func([]byte) uint64
}

// New builds a Hasher with the 32-bit modulus (Prime31) and numHashes
// independently-seeded hash functions, using a process-clock-derived seed.
// Use NewSeeded for reproducible signatures.
func New[T Elem](numHashes int) *Hasher[T] {
	return newHasher[T](numHashes, Prime31, uint64(time.Now().UnixNano()))
}

// NewSeeded builds a reproducible Hasher: identical seed and numHashes
// always produce identical hash functions, hence identical signatures for
// identical input.
func NewSeeded[T Elem](numHashes int, seed int64) *Hasher[T] {
	return newHasher[T](numHashes, Prime31, uint64(seed))
}

// New64 is New's 64-bit-modulus counterpart: measurably less bias for large
// token sets, at the cost of a 64x64 multiply per hash application.
func New64[T Elem](numHashes int) *Hasher[T] {
	return newHasher[T](numHashes, Prime61, uint64(time.Now().UnixNano()))
}

// New64Seeded is NewSeeded's 64-bit-modulus counterpart.
func New64Seeded[T Elem](numHashes int, seed int64) *Hasher[T] {
	return newHasher[T](numHashes, Prime61, uint64(seed))
}

// newHasher derives numHashes coefficient pairs from a single seed via
// hashutil's splitmix64 sequence, rather than reaching for math/rand
// directly — the same deterministic-seed-stream approach
// Sumatoshi-tech-codefang's hashutil package uses to hand out per-function
// coefficients.
func newHasher[T Elem](numHashes int, prime uint64, seed uint64) *Hasher[T] {
	if numHashes <= 0 {
		numHashes = 128
	}
	h := &Hasher[T]{
		numHashes: numHashes,
		coeffs:    make([]coefficient, numHashes),
		prime:     prime,
		tokenHash: hashutil.TokenHash,
	}
	raw := hashutil.GenerateSeeds(numHashes*2, seed)
	for i := range h.coeffs {
		h.coeffs[i] = coefficient{
			a: raw[2*i]%(prime-1) + 1,
			b: raw[2*i+1] % prime,
		}
	}
	return h
}

// NumHashes returns the configured signature length.
func (h *Hasher[T]) NumHashes() int {
	return h.numHashes
}

// Sign computes the MinHash signature of a token stream. An empty stream
// yields a signature of all zeros, per contract.
func (h *Hasher[T]) Sign(tokens iter.Seq[[]byte]) *Signature[T] {
	acc := make([]uint64, h.numHashes)
	for i := range acc {
		acc[i] = ^uint64(0)
	}

	seen := false
	for token := range tokens {
		seen = true
		base := h.tokenHash(token) % h.prime
		for i, c := range h.coeffs {
			hi, lo := bits.Mul64(c.a, base)
			v := (bits.Rem64(hi, lo, h.prime) + c.b) % h.prime
			if v < acc[i] {
				acc[i] = v
			}
		}
	}

	out := make([]T, h.numHashes)
	if seen {
		for i, v := range acc {
			out[i] = T(v)
		}
	}
	return &Signature[T]{values: out}
}

// SignStrings is a convenience wrapper for the common case of string
// tokens, avoiding the caller having to hand-write an iter.Seq.
func (h *Hasher[T]) SignStrings(tokens []string) *Signature[T] {
	return h.Sign(func(yield func([]byte) bool) {
		for _, tok := range tokens {
			if !yield([]byte(tok)) {
				return
			}
		}
	})
}

// BulkSignStrings computes signatures for many token sets in parallel,
// fanning out across a work-stealing pool. Order of the returned slice
// matches the order of batches.
func (h *Hasher[T]) BulkSignStrings(batches [][]string) []*Signature[T] {
	return bulkSign(batches, h.SignStrings)
}
