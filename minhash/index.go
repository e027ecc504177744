package minhash

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

// IndexConfig configures a banded MinHash Index. NumBands * BandWidth must
// equal the length of every signature inserted.
type IndexConfig struct {
	NumBands        int
	BandWidth       int
	Threshold       float64
	ContainerPolicy idset.Policy
	InlineCap       int // consulted only when ContainerPolicy == idset.PolicySmallVec
	InitialCapacity int
	Seed            uint64 // band-key hash seed; 0 means "pick one at random"
}

// SignatureLen returns NumBands * BandWidth, the length every signature
// this configuration accepts must have.
func (c IndexConfig) SignatureLen() int {
	return c.NumBands * c.BandWidth
}

// Index is a banded LSH index over MinHash signatures of width T, keyed by
// user-supplied IDs. Insert/Remove/Query are safe for concurrent use; bulk
// operations fan out across a work-stealing pool internally.
type Index[ID comparable, T Elem] struct {
	mu     sync.RWMutex
	config IndexConfig
	bands  []map[uint64]idset.Container[ID]
	sigs   map[ID]*Signature[T]
	hasher hashutil.BandHasher
}

// ErrInvalidConfig is returned by NewIndex when NumBands, BandWidth, or
// Threshold are out of range.
type ErrInvalidConfig struct {
	Reason string
}

func (e *ErrInvalidConfig) Error() string {
	return "minhash: invalid index config: " + e.Reason
}

// NewIndex constructs an Index, validating the configuration eagerly —
// contract violations are reported at construction time, not on first use.
func NewIndex[ID comparable, T Elem](config IndexConfig) (*Index[ID, T], error) {
	if config.NumBands <= 0 || config.BandWidth <= 0 {
		return nil, &ErrInvalidConfig{Reason: "num_bands and band_width must be positive"}
	}
	if config.Threshold < 0 || config.Threshold > 1 {
		return nil, &ErrInvalidConfig{Reason: "threshold must be within [0, 1]"}
	}
	if config.Seed == 0 {
		config.Seed = rand.New(rand.NewSource(time.Now().UnixNano())).Uint64()
	}

	bands := make([]map[uint64]idset.Container[ID], config.NumBands)
	for i := range bands {
		bands[i] = make(map[uint64]idset.Container[ID], config.InitialCapacity)
	}

	return &Index[ID, T]{
		config: config,
		bands:  bands,
		sigs:   make(map[ID]*Signature[T], config.InitialCapacity),
		hasher: hashutil.NewBandHasher(config.Seed),
	}, nil
}

// bandKeys hashes every band of sig into its bucket key. Each band is an
// independent unit of work, so it fans out across parutil's pool rather
// than looping serially.
func (idx *Index[ID, T]) bandKeys(sig *Signature[T]) []uint64 {
	keys := make([]uint64, idx.config.NumBands)
	parutil.ForEachIndexed(idx.config.NumBands, func(b int) {
		start := b * idx.config.BandWidth
		values := make([]uint64, idx.config.BandWidth)
		for i, v := range sig.values[start : start+idx.config.BandWidth] {
			values[i] = uint64(v)
		}
		keys[b] = idx.hasher.HashUint64s(values)
	})
	return keys
}

func (idx *Index[ID, T]) checkLen(sig *Signature[T]) error {
	want := idx.config.SignatureLen()
	if sig.Len() != want {
		return &ErrLengthMismatch{Got: sig.Len(), Want: want}
	}
	return nil
}

// Insert records id with the given signature, placing it in every band's
// bucket. Re-inserting an existing id replaces its signature (last-writer-
// wins) and, per the superset-semantics ordering guarantee, leaves its old
// band memberships in place until an explicit Remove.
func (idx *Index[ID, T]) Insert(id ID, sig *Signature[T]) error {
	if err := idx.checkLen(sig); err != nil {
		return err
	}
	keys := idx.bandKeys(sig)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.sigs[id] = sig
	idx.insertBandsLocked(id, keys)
	return nil
}

func (idx *Index[ID, T]) insertBandsLocked(id ID, keys []uint64) {
	for b, key := range keys {
		bucket, ok := idx.bands[b][key]
		if !ok {
			bucket = idset.New[ID](idx.config.ContainerPolicy, idx.config.InlineCap)
			idx.bands[b][key] = bucket
		}
		bucket.Add(id)
	}
}

// Remove deletes id from the map and from every band it appears in.
// Reports whether id was present.
func (idx *Index[ID, T]) Remove(id ID) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.removeLocked(id)
}

func (idx *Index[ID, T]) removeLocked(id ID) bool {
	sig, ok := idx.sigs[id]
	if !ok {
		return false
	}
	delete(idx.sigs, id)

	keys := idx.bandKeys(sig)
	for b, key := range keys {
		bucket, ok := idx.bands[b][key]
		if !ok {
			continue
		}
		bucket.Remove(id)
		if bucket.Len() == 0 {
			delete(idx.bands[b], key)
		}
	}
	return true
}

// candidatesLocked unions every band bucket the query signature hashes
// into. It does not filter: callers skip any candidate that has no stored
// signature rather than panicking.
func (idx *Index[ID, T]) candidatesLocked(sig *Signature[T]) map[ID]struct{} {
	keys := idx.bandKeys(sig)
	candidates := make(map[ID]struct{})
	for b, key := range keys {
		if bucket, ok := idx.bands[b][key]; ok {
			bucket.Each(func(id ID) {
				candidates[id] = struct{}{}
			})
		}
	}
	return candidates
}

// Query returns the set of IDs whose stored signature has estimated
// Jaccard similarity against sig at or above the index's threshold.
func (idx *Index[ID, T]) Query(sig *Signature[T]) ([]ID, error) {
	if err := idx.checkLen(sig); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	candidates := idx.candidatesLocked(sig)
	results := make([]ID, 0, len(candidates))
	for id := range candidates {
		stored, ok := idx.sigs[id]
		if !ok {
			continue // no stored signature; skip, don't panic
		}
		sim, _ := EstimateJaccard(sig, stored)
		if sim >= idx.config.Threshold {
			results = append(results, id)
		}
	}
	return results, nil
}

// Match pairs a query result ID with its estimated similarity to the query.
type Match[ID comparable] struct {
	ID         ID
	Similarity float64
}

// QueryOne returns the single best match above threshold, if any.
func (idx *Index[ID, T]) QueryOne(sig *Signature[T]) (Match[ID], bool, error) {
	if err := idx.checkLen(sig); err != nil {
		return Match[ID]{}, false, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	candidates := idx.candidatesLocked(sig)
	best := Match[ID]{}
	found := false
	for id := range candidates {
		stored, ok := idx.sigs[id]
		if !ok {
			continue
		}
		sim, _ := EstimateJaccard(sig, stored)
		if sim >= idx.config.Threshold && (!found || sim > best.Similarity) {
			best = Match[ID]{ID: id, Similarity: sim}
			found = true
		}
	}
	return best, found, nil
}

// QueryTopK returns up to k candidates sorted by descending similarity,
// bypassing the threshold filter (spec.md's query_top_k does not apply
// the similarity cutoff the way Query/QueryOne do — it ranks whatever the
// banding step surfaced).
func (idx *Index[ID, T]) QueryTopK(sig *Signature[T], k int) ([]Match[ID], error) {
	if err := idx.checkLen(sig); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
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
		sim, _ := EstimateJaccard(sig, stored)
		matches = append(matches, Match[ID]{ID: id, Similarity: sim})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return fmt.Sprint(matches[i].ID) < fmt.Sprint(matches[j].ID)
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// CalculateCentroid builds a synthetic signature representative of ids: for
// each band, the band slice that occurs most often among ids' stored
// signatures wins (ties broken by first occurrence), since band-level
// agreement — not individual hash agreement — is the index's actual
// bucketing criterion.
func (idx *Index[ID, T]) CalculateCentroid(ids []ID) *Signature[T] {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]T, idx.config.SignatureLen())
	if len(ids) == 0 {
		return &Signature[T]{values: out}
	}

	sigs := make([]*Signature[T], 0, len(ids))
	for _, id := range ids {
		if s, ok := idx.sigs[id]; ok {
			sigs = append(sigs, s)
		}
	}
	if len(sigs) == 0 {
		return &Signature[T]{values: out}
	}

	for b := 0; b < idx.config.NumBands; b++ {
		start := b * idx.config.BandWidth
		counts := make(map[string]int)
		first := make(map[string][]T)
		order := make([]string, 0)
		for _, s := range sigs {
			band := s.values[start : start+idx.config.BandWidth]
			key := fmt.Sprint(band)
			if counts[key] == 0 {
				first[key] = append([]T(nil), band...)
				order = append(order, key)
			}
			counts[key]++
		}
		bestKey := order[0]
		bestCount := counts[bestKey]
		for _, key := range order[1:] {
			if counts[key] > bestCount {
				bestKey = key
				bestCount = counts[key]
			}
		}
		copy(out[start:start+idx.config.BandWidth], first[bestKey])
	}

	return &Signature[T]{values: out}
}

// ParBulkInsert inserts many (id, signature) pairs. Band keys are computed
// in parallel across inputs; band membership and the ID-to-signature map
// are then updated serially under the write lock, so a concurrent query
// sees either none or all of the batch.
func (idx *Index[ID, T]) ParBulkInsert(ids []ID, sigs []*Signature[T]) error {
	if len(ids) != len(sigs) {
		return fmt.Errorf("minhash: ids and signatures length mismatch: %d != %d", len(ids), len(sigs))
	}
	for _, s := range sigs {
		if err := idx.checkLen(s); err != nil {
			return err
		}
	}

	keysPerItem := parutil.Map(sigs, func(s *Signature[T]) []uint64 {
		return idx.bandKeys(s)
	})

	idx.mu.Lock()
	defer idx.mu.Unlock()
	for i, id := range ids {
		idx.insertBandsLocked(id, keysPerItem[i])
		idx.sigs[id] = sigs[i]
	}
	return nil
}

// ParBulkQuery runs Query for every signature in parallel, returning
// results in input order.
func (idx *Index[ID, T]) ParBulkQuery(sigs []*Signature[T]) ([][]ID, error) {
	for _, s := range sigs {
		if err := idx.checkLen(s); err != nil {
			return nil, err
		}
	}
	return parutil.Map(sigs, func(s *Signature[T]) []ID {
		r, _ := idx.Query(s)
		return r
	}), nil
}

// ParBulkQueryReturnSimilarity is ParBulkQuery's similarity-annotated
// counterpart.
func (idx *Index[ID, T]) ParBulkQueryReturnSimilarity(sigs []*Signature[T]) ([][]Match[ID], error) {
	for _, s := range sigs {
		if err := idx.checkLen(s); err != nil {
			return nil, err
		}
	}
	return parutil.Map(sigs, func(s *Signature[T]) []Match[ID] {
		idx.mu.RLock()
		defer idx.mu.RUnlock()
		candidates := idx.candidatesLocked(s)
		out := make([]Match[ID], 0, len(candidates))
		for id := range candidates {
			stored, ok := idx.sigs[id]
			if !ok {
				continue
			}
			sim, _ := EstimateJaccard(s, stored)
			if sim >= idx.config.Threshold {
				out = append(out, Match[ID]{ID: id, Similarity: sim})
			}
		}
		return out
	}), nil
}

// GetSignature returns the stored signature for id, if present.
func (idx *Index[ID, T]) GetSignature(id ID) (*Signature[T], bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	sig, ok := idx.sigs[id]
	return sig, ok
}

// Size returns the number of indexed IDs.
func (idx *Index[ID, T]) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.sigs)
}

// ShrinkTo reduces each band's map capacity to roughly cap/NumBands by
// rebuilding it, releasing memory proportionally across bands.
func (idx *Index[ID, T]) ShrinkTo(cap int) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	perBand := cap / idx.config.NumBands
	if perBand < 1 {
		perBand = 1
	}
	for b, bucket := range idx.bands {
		shrunk := make(map[uint64]idset.Container[ID], perBand)
		for k, v := range bucket {
			shrunk[k] = v
		}
		idx.bands[b] = shrunk
	}
}

// Config returns a copy of the index's configuration.
func (idx *Index[ID, T]) Config() IndexConfig {
	return idx.config
}
