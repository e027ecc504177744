package simhash

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIndexRejectsBadConfig(t *testing.T) {
	_, err := NewIndex[int](IndexConfig{Width: Width64, NumBlocks: 5, MaxDistance: 1})
	assert.Error(t, err, "64 is not evenly divisible by 5 blocks")

	_, err = NewIndex[int](IndexConfig{Width: Width64, NumBlocks: 4, MaxDistance: 4})
	assert.Error(t, err, "max_distance must be < num_blocks")
}

func TestInsertRejectsWidthMismatch(t *testing.T) {
	idx, err := NewIndex[int](IndexConfig{Width: Width64, NumBlocks: 4, MaxDistance: 1})
	require.NoError(t, err)

	sig := NewSignature(Width128)
	err = idx.Insert(1, sig)
	assert.Error(t, err)
}

func TestSimHashIndexQuery(t *testing.T) {
	h := New(Width64)
	idx, err := NewIndex[int](IndexConfig{Width: Width64, NumBlocks: 8, MaxDistance: 3})
	require.NoError(t, err)

	base := []string{"the", "quick", "brown", "fox", "jumps", "over", "the", "lazy", "dog", "today"}
	baseSig := h.SignStrings(base)
	require.NoError(t, idx.Insert(-1, baseSig))

	for i := 0; i < 10; i++ {
		doc := append([]string(nil), base...)
		doc[i%len(doc)] = fmt.Sprintf("replacement-%d", i)
		require.NoError(t, idx.Insert(i, h.SignStrings(doc)))
	}

	results, err := idx.Query(baseSig)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(results), 1)

	withDistance, err := idx.QueryReturnDistance(baseSig)
	require.NoError(t, err)
	for i := 1; i < len(withDistance); i++ {
		assert.LessOrEqual(t, withDistance[i-1].Distance, withDistance[i].Distance)
	}
	for _, m := range withDistance {
		assert.LessOrEqual(t, m.Distance, 3)
	}
}

func TestSimHashIndexMiss(t *testing.T) {
	h := New(Width64)
	idx, err := NewIndex[int](IndexConfig{Width: Width64, NumBlocks: 8, MaxDistance: 1})
	require.NoError(t, err)

	require.NoError(t, idx.Insert(1, h.SignStrings([]string{"alpha", "beta", "gamma"})))

	allOnes := &Signature{words: [2]uint64{^uint64(0), 0}, width: Width64}
	results, err := idx.Query(allOnes)
	require.NoError(t, err)

	for _, id := range results {
		stored, ok := idx.sigs[id]
		require.True(t, ok)
		d, _ := HammingDistance(allOnes, stored)
		assert.LessOrEqual(t, d, 1)
	}
}

func TestSimHashParBulkInsertMatchesSerial(t *testing.T) {
	h := New(Width64)
	batches := make([][]string, 40)
	for i := range batches {
		batches[i] = []string{"tok0", "tok1", fmt.Sprintf("unique-%d", i)}
	}
	sigs := h.BulkSignStrings(batches)

	serial, err := NewIndex[int](IndexConfig{Width: Width64, NumBlocks: 4, MaxDistance: 1, Seed: 5})
	require.NoError(t, err)
	for i, s := range sigs {
		require.NoError(t, serial.Insert(i, s))
	}

	bulk, err := NewIndex[int](IndexConfig{Width: Width64, NumBlocks: 4, MaxDistance: 1, Seed: 5})
	require.NoError(t, err)
	idList := make([]int, len(sigs))
	for i := range idList {
		idList[i] = i
	}
	require.NoError(t, bulk.ParBulkInsert(idList, sigs))

	assert.Equal(t, serial.Size(), bulk.Size())

	q := h.SignStrings([]string{"tok0", "tok1", "unique-0"})
	a, err := serial.Query(q)
	require.NoError(t, err)
	b, err := bulk.Query(q)
	require.NoError(t, err)
	sort.Ints(a)
	sort.Ints(b)
	assert.Equal(t, a, b)
}
