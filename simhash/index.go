package simhash

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/lshkit/lshkit/internal/hashutil"
	"github.com/lshkit/lshkit/internal/idset"
	"github.com/lshkit/lshkit/internal/parutil"
)

// IndexConfig configures a blocked-permutation SimHash Index.
type IndexConfig struct {
	Width           Width
	NumBlocks       int // k
	MaxDistance     int // d: tolerated Hamming distance
	ContainerPolicy idset.Policy
	InlineCap       int
	InitialCapacity int
	Seed            uint64
}

// permutation is one of C(k, k-d) descriptors: a mask selecting which
// blocks are "chosen" for this permutation's bucket key.
type permutation struct {
	mask [2]uint64
}

// ErrInvalidConfig is returned by NewIndex for out-of-range configuration.
type ErrInvalidConfig struct {
	Reason string
}

func (e *ErrInvalidConfig) Error() string {
	return "simhash: invalid index config: " + e.Reason
}

// Index is a blocked-permutation LSH index over SimHash signatures. It
// builds C(k, k-d) permutation tables at construction time; two signatures
// within MaxDistance bits are guaranteed to collide in at least one of
// them, since among any k disjoint blocks at least k-d must be identical.
type Index[ID comparable] struct {
	mu           sync.RWMutex
	config       IndexConfig
	permutations []permutation
	tables       []map[uint64]idset.Container[ID]
	sigs         map[ID]*Signature
	hasher       hashutil.BandHasher
}

// NewIndex constructs an Index, validating configuration eagerly.
func NewIndex[ID comparable](config IndexConfig) (*Index[ID], error) {
	if config.Width != Width64 && config.Width != Width128 {
		return nil, &ErrInvalidConfig{Reason: "width must be 64 or 128"}
	}
	if config.NumBlocks <= 0 || int(config.Width)%config.NumBlocks != 0 {
		return nil, &ErrInvalidConfig{Reason: "num_blocks must evenly divide width"}
	}
	if config.MaxDistance < 0 || config.MaxDistance >= config.NumBlocks {
		return nil, &ErrInvalidConfig{Reason: "max_distance must be within [0, num_blocks)"}
	}
	if config.Seed == 0 {
		config.Seed = rand.New(rand.NewSource(time.Now().UnixNano())).Uint64()
	}

	blockWidth := int(config.Width) / config.NumBlocks
	chosen := config.NumBlocks - config.MaxDistance
	combos := combinations(config.NumBlocks, chosen)

	perms := make([]permutation, len(combos))
	for i, combo := range combos {
		var mask [2]uint64
		for _, blockIdx := range combo {
			start := blockIdx * blockWidth
			for bit := start; bit < start+blockWidth; bit++ {
				if bit < 64 {
					mask[0] |= 1 << uint(bit)
				} else {
					mask[1] |= 1 << uint(bit-64)
				}
			}
		}
		perms[i] = permutation{mask: mask}
	}

	tables := make([]map[uint64]idset.Container[ID], len(perms))
	for i := range tables {
		tables[i] = make(map[uint64]idset.Container[ID], config.InitialCapacity)
	}

	return &Index[ID]{
		config:       config,
		permutations: perms,
		tables:       tables,
		sigs:         make(map[ID]*Signature, config.InitialCapacity),
		hasher:       hashutil.NewBandHasher(config.Seed),
	}, nil
}

func (idx *Index[ID]) checkWidth(sig *Signature) error {
	if sig.Width() != idx.config.Width {
		return &ErrWidthMismatch{Got: sig.Width(), Want: idx.config.Width}
	}
	return nil
}

// bucketKeys hashes sig under every permutation's mask. Each permutation is
// an independent unit of work, so it fans out across parutil's pool rather
// than looping serially.
func (idx *Index[ID]) bucketKeys(sig *Signature) []uint64 {
	keys := make([]uint64, len(idx.permutations))
	parutil.ForEachIndexed(len(idx.permutations), func(i int) {
		perm := idx.permutations[i]
		masked := [2]uint64{sig.words[0] & perm.mask[0], sig.words[1] & perm.mask[1]}
		keys[i] = idx.hasher.HashUint64s(masked[:])
	})
	return keys
}

// Insert records id under sig, placing it in every permutation's bucket.
func (idx *Index[ID]) Insert(id ID, sig *Signature) error {
	if err := idx.checkWidth(sig); err != nil {
		return err
	}
	keys := idx.bucketKeys(sig)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.sigs[id] = sig
	idx.insertLocked(id, keys)
	return nil
}

func (idx *Index[ID]) insertLocked(id ID, keys []uint64) {
	for p, key := range keys {
		bucket, ok := idx.tables[p][key]
		if !ok {
			bucket = idset.New[ID](idx.config.ContainerPolicy, idx.config.InlineCap)
			idx.tables[p][key] = bucket
		}
		bucket.Add(id)
	}
}

// Remove deletes id from the map and from every permutation table.
// Reports whether id was present.
func (idx *Index[ID]) Remove(id ID) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.removeLocked(id)
}

func (idx *Index[ID]) removeLocked(id ID) bool {
	sig, ok := idx.sigs[id]
	if !ok {
		return false
	}
	delete(idx.sigs, id)
	keys := idx.bucketKeys(sig)
	for p, key := range keys {
		bucket, ok := idx.tables[p][key]
		if !ok {
			continue
		}
		bucket.Remove(id)
		if bucket.Len() == 0 {
			delete(idx.tables[p], key)
		}
	}
	return true
}

func (idx *Index[ID]) candidatesLocked(sig *Signature) map[ID]struct{} {
	keys := idx.bucketKeys(sig)
	out := make(map[ID]struct{})
	for p, key := range keys {
		if bucket, ok := idx.tables[p][key]; ok {
			bucket.Each(func(id ID) { out[id] = struct{}{} })
		}
	}
	return out
}

// Query returns every indexed ID within the configured MaxDistance of sig.
func (idx *Index[ID]) Query(sig *Signature) ([]ID, error) {
	if err := idx.checkWidth(sig); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	candidates := idx.candidatesLocked(sig)
	results := make([]ID, 0, len(candidates))
	for id := range candidates {
		stored, ok := idx.sigs[id]
		if !ok {
			continue
		}
		d, _ := HammingDistance(sig, stored)
		if d <= idx.config.MaxDistance {
			results = append(results, id)
		}
	}
	return results, nil
}

// Match pairs a query result ID with its Hamming distance from the query.
type Match[ID comparable] struct {
	ID       ID
	Distance int
}

// QueryOne returns the closest match within MaxDistance, if any.
func (idx *Index[ID]) QueryOne(sig *Signature) (Match[ID], bool, error) {
	matches, err := idx.QueryReturnDistance(sig)
	if err != nil || len(matches) == 0 {
		return Match[ID]{}, false, err
	}
	return matches[0], true, nil
}

// QueryReturnDistance returns every match within MaxDistance, sorted
// ascending by Hamming distance.
func (idx *Index[ID]) QueryReturnDistance(sig *Signature) ([]Match[ID], error) {
	if err := idx.checkWidth(sig); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	candidates := idx.candidatesLocked(sig)
	matches := make([]Match[ID], 0, len(candidates))
	for id := range candidates {
		stored, ok := idx.sigs[id]
		if !ok {
			continue
		}
		d, _ := HammingDistance(sig, stored)
		if d <= idx.config.MaxDistance {
			matches = append(matches, Match[ID]{ID: id, Distance: d})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return fmt.Sprint(matches[i].ID) < fmt.Sprint(matches[j].ID)
	})
	return matches, nil
}

// QueryTopK returns up to k matches sorted ascending by Hamming distance.
func (idx *Index[ID]) QueryTopK(sig *Signature, k int) ([]Match[ID], error) {
	matches, err := idx.QueryReturnDistance(sig)
	if err != nil {
		return nil, err
	}
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// ParBulkInsert inserts many (id, signature) pairs. Bucket keys are computed
// in parallel across inputs; permutation tables and the ID map are then
// updated serially under the write lock.
func (idx *Index[ID]) ParBulkInsert(ids []ID, sigs []*Signature) error {
	if len(ids) != len(sigs) {
		return fmt.Errorf("simhash: ids and signatures length mismatch: %d != %d", len(ids), len(sigs))
	}
	for _, s := range sigs {
		if err := idx.checkWidth(s); err != nil {
			return err
		}
	}

	keysPerItem := parutil.Map(sigs, func(s *Signature) []uint64 {
		return idx.bucketKeys(s)
	})

	idx.mu.Lock()
	defer idx.mu.Unlock()
	for i, id := range ids {
		idx.insertLocked(id, keysPerItem[i])
		idx.sigs[id] = sigs[i]
	}
	return nil
}

// ParBulkQuery runs Query for every signature in parallel.
func (idx *Index[ID]) ParBulkQuery(sigs []*Signature) ([][]ID, error) {
	for _, s := range sigs {
		if err := idx.checkWidth(s); err != nil {
			return nil, err
		}
	}
	return parutil.Map(sigs, func(s *Signature) []ID {
		r, _ := idx.Query(s)
		return r
	}), nil
}

// GetSignature returns the stored signature for id, if present.
func (idx *Index[ID]) GetSignature(id ID) (*Signature, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	sig, ok := idx.sigs[id]
	return sig, ok
}

// Size returns the number of indexed IDs.
func (idx *Index[ID]) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.sigs)
}

// Config returns a copy of the index's configuration.
func (idx *Index[ID]) Config() IndexConfig {
	return idx.config
}
