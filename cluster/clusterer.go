package cluster

import (
	"sort"

	"go.uber.org/atomic"

	"github.com/lshkit/lshkit/internal/parutil"
)

// Config configures a Clusterer.
type Config struct {
	// MinClusterSize bounds cluster formation twice: a candidate cluster is
	// attempted only when a point has more than MinClusterSize unassigned
	// neighbors besides itself, and a cluster must still hold at least
	// MinClusterSize points at commit time after claim-protocol losses.
	MinClusterSize int
	// WorkerCount is how many contiguous chunks the point list is split
	// into for parallel processing.
	WorkerCount int
}

// Clusterer runs the greedy agglomerative-style parallel clustering
// algorithm: partition points into worker-sized chunks, process chunks
// concurrently, and within each chunk greedily seed clusters from
// highest-degree points first, resolving concurrent ownership via the
// atomic claim protocol.
type Clusterer[ID comparable] struct {
	config        Config
	nextClusterID atomic.Uint64
	arena         syncMap[uint64, *Cluster[ID]]
}

// New constructs a Clusterer. MinClusterSize and WorkerCount are clamped to
// at least 1.
func New[ID comparable](config Config) *Clusterer[ID] {
	if config.MinClusterSize < 1 {
		config.MinClusterSize = 1
	}
	if config.WorkerCount < 1 {
		config.WorkerCount = 1
	}
	return &Clusterer[ID]{config: config}
}

// Cluster runs the algorithm over points using finder to fetch each point's
// candidate neighborhood, and returns every cluster that reached
// StateCommitted. Every point appears in at most one returned cluster;
// every returned cluster has at least MinClusterSize points.
func (c *Clusterer[ID]) Cluster(points []*Point[ID], finder NeighborFinder[ID]) []*Cluster[ID] {
	if len(points) == 0 {
		return nil
	}

	byID := make(map[ID]*Point[ID], len(points))
	for _, p := range points {
		byID[p.ID] = p
	}

	chunks := partition(points, c.config.WorkerCount)

	chunkResults := parutil.Map(chunks, func(chunk []*Point[ID]) []*Cluster[ID] {
		return c.processChunk(chunk, byID, finder)
	})

	var out []*Cluster[ID]
	for _, cs := range chunkResults {
		out = append(out, cs...)
	}
	return out
}

// processChunk sorts a chunk by descending neighborhood size (a
// preparatory query per point, its result discarded once sorting is done —
// seeds with more neighbors tend to produce larger, higher-quality
// clusters and cut rollback churn) and then greedily claims clusters for
// still-unassigned points.
func (c *Clusterer[ID]) processChunk(chunk []*Point[ID], byID map[ID]*Point[ID], finder NeighborFinder[ID]) []*Cluster[ID] {
	type seed struct {
		point     *Point[ID]
		neighbors int
	}
	seeds := make([]seed, len(chunk))
	for i, p := range chunk {
		seeds[i] = seed{point: p, neighbors: len(finder.Neighbors(p.ID))}
	}
	sort.Slice(seeds, func(i, j int) bool {
		return seeds[i].neighbors > seeds[j].neighbors
	})

	var committed []*Cluster[ID]
	for _, s := range seeds {
		p := s.point
		if !p.Unassigned() {
			continue
		}

		neighborIDs := finder.Neighbors(p.ID)
		candidates := make([]ID, 0, len(neighborIDs)+1)
		candidates = append(candidates, p.ID)
		for _, nid := range neighborIDs {
			if nid == p.ID {
				continue
			}
			if np, ok := byID[nid]; ok && np.Unassigned() {
				candidates = append(candidates, nid)
			}
		}

		if len(candidates)-1 <= c.config.MinClusterSize {
			continue
		}

		if cl := c.claim(candidates, byID); cl != nil {
			committed = append(committed, cl)
		}
	}
	return committed
}

// claim runs the claim protocol for a proposed cluster over candidates,
// returning the committed Cluster, or nil if it was rolled back or ended up
// under MinClusterSize.
func (c *Clusterer[ID]) claim(candidates []ID, byID map[ID]*Point[ID]) *Cluster[ID] {
	id := c.nextClusterID.Add(1)
	cl := newCluster[ID](id)
	c.arena.Store(id, cl)

	// abandon rolls cl back and releases every point it still holds. When
	// another cluster already rolled cl back, tryRollBack is a no-op, and
	// points claimed after that cluster's revert pass are released here.
	abandon := func() {
		cl.tryRollBack(byID)
		for _, pid := range cl.pointsSnapshot() {
			if p, ok := byID[pid]; ok {
				p.cluster.CAS(cl.ID, 0)
			}
		}
	}

	for _, pid := range candidates {
		p, ok := byID[pid]
		if !ok {
			continue
		}
		if !c.claimPoint(cl, p, byID) {
			abandon()
			return nil
		}
	}

	if cl.len() < c.config.MinClusterSize {
		abandon()
		return nil
	}

	if cl.tryCommit() {
		return cl
	}
	// Somebody rolled us back between the loop above and here.
	abandon()
	return nil
}

// claimPoint runs the inner CAS loop of the claim protocol for a single
// candidate point against cluster cl. Returns false when cl has lost the
// contest outright (candidate went to a committed cluster, or to a NEW
// cluster with a lower ID that wins the tie-break), or when cl itself has
// been rolled back by another cluster.
func (c *Clusterer[ID]) claimPoint(cl *Cluster[ID], p *Point[ID], byID map[ID]*Point[ID]) bool {
	for {
		if cl.State() != StateNew {
			return false
		}
		if p.cluster.CAS(0, cl.ID) {
			cl.appendPoint(p.ID)
			return true
		}

		ownerID := p.cluster.Load()
		if ownerID == cl.ID {
			// Already claimed by this very cluster (e.g. listed twice).
			return true
		}

		owner, ok := c.arena.Load(ownerID)
		if !ok {
			// Owning cluster vanished from the arena; treat the point as
			// free and retry.
			continue
		}

		switch owner.State() {
		case StateCommitted:
			return false
		case StateRolledBack:
			continue // the revert will free p shortly; retry the CAS
		case StateNew:
			if cl.ID > owner.ID {
				// owner started earlier: we lose.
				return false
			}
			// We started earlier: try to roll owner back.
			if owner.tryRollBack(byID) {
				continue // p is now free; retry the CAS
			}
			// owner committed first.
			return false
		}
	}
}

func partition[T any](items []T, workers int) [][]T {
	if workers > len(items) {
		workers = len(items)
	}
	if workers < 1 {
		workers = 1
	}
	chunks := make([][]T, 0, workers)
	chunkSize := (len(items) + workers - 1) / workers
	for i := 0; i < len(items); i += chunkSize {
		end := i + chunkSize
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[i:end])
	}
	return chunks
}
