package cluster

// NeighborFinder abstracts over a query index (MinHash or SimHash): given a
// point's ID, it returns the set of candidate neighbor IDs the index
// considers near it, refinement and thresholding already applied.
type NeighborFinder[ID comparable] interface {
	Neighbors(id ID) []ID
}

// NeighborFinderFunc adapts a plain function to NeighborFinder.
type NeighborFinderFunc[ID comparable] func(id ID) []ID

func (f NeighborFinderFunc[ID]) Neighbors(id ID) []ID {
	return f(id)
}
