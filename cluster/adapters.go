package cluster

import (
	"github.com/lshkit/lshkit/minhash"
	"github.com/lshkit/lshkit/simhash"
)

// MinHashNeighbors adapts a minhash.Index into a NeighborFinder: a point's
// neighbors are whatever the index's own Query returns for that point's
// stored signature. Points absent from the index (never inserted) have no
// neighbors.
func MinHashNeighbors[ID comparable, T minhash.Elem](idx *minhash.Index[ID, T]) NeighborFinder[ID] {
	return NeighborFinderFunc[ID](func(id ID) []ID {
		sig, ok := idx.GetSignature(id)
		if !ok {
			return nil
		}
		results, err := idx.Query(sig)
		if err != nil {
			return nil
		}
		return results
	})
}

// SimHashNeighbors is MinHashNeighbors' SimHash counterpart.
func SimHashNeighbors[ID comparable](idx *simhash.Index[ID]) NeighborFinder[ID] {
	return NeighborFinderFunc[ID](func(id ID) []ID {
		sig, ok := idx.GetSignature(id)
		if !ok {
			return nil
		}
		results, err := idx.Query(sig)
		if err != nil {
			return nil
		}
		return results
	})
}
