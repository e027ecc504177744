// Package hashutil provides the stable, non-cryptographic hash primitives
// shared by the minhash and simhash packages: a per-token byte hasher and a
// per-index keyed hasher used for band/block keys.
package hashutil

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// TokenHash computes a stable 64-bit hash of a token. It is the base hash
// every universal hash function in the minhash package derives from; the
// simhash package hashes its tokens with murmur3's 128-bit variant instead.
func TokenHash(token []byte) uint64 {
	return murmur3.Sum64(token)
}

// TokenHashString is a convenience wrapper avoiding a []byte copy for the
// common case of string tokens.
func TokenHashString(token string) uint64 {
	return murmur3.Sum64([]byte(token))
}

// BandHasher is a keyed 64-bit hasher shared by every band/block of one
// index instance. Cloning the same seed into every band (rather than
// constructing one per band) guarantees identical slices hash identically
// regardless of which band they came from, and lets two distinct index
// instances diverge safely.
type BandHasher struct {
	seed uint64
}

// NewBandHasher builds a keyed hasher with the given seed. Index
// constructors draw one seed (random, or caller-supplied for
// reproducibility) and share it across every band/block table.
func NewBandHasher(seed uint64) BandHasher {
	return BandHasher{seed: seed}
}

// HashUint64s hashes a contiguous run of signature values (a band or a
// packed block selection) into a single 64-bit bucket key. The probability
// of collision between two distinct slices is negligible next to the
// index's own false-positive rate, so a collision is treated the same as a
// true bucket match and resolved by the refinement pass.
func (h BandHasher) HashUint64s(values []uint64) uint64 {
	buf := make([]byte, 8*len(values)+8)
	binary.LittleEndian.PutUint64(buf, h.seed)
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[8+i*8:], v)
	}
	return xxhash.Sum64(buf)
}

// HashUint64 hashes a single packed key (used by the simhash blocked
// permutation index, whose bucket key is already one word).
func (h BandHasher) HashUint64(value uint64) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], h.seed)
	binary.LittleEndian.PutUint64(buf[8:], value)
	return xxhash.Sum64(buf[:])
}
