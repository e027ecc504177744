package cluster

// ClusterSerial runs the clustering algorithm with a single worker — the
// degenerate, fully deterministic case of Cluster, useful for tests that
// need a stable point-processing order. It is not a different algorithm:
// WorkerCount=1 still goes through the same claim protocol, just with a
// single chunk so there is no cross-goroutine contention to resolve.
func (c *Clusterer[ID]) ClusterSerial(points []*Point[ID], finder NeighborFinder[ID]) []*Cluster[ID] {
	serial := &Clusterer[ID]{config: Config{MinClusterSize: c.config.MinClusterSize, WorkerCount: 1}}
	return serial.Cluster(points, finder)
}
