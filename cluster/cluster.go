package cluster

import (
	"sync"

	"go.uber.org/atomic"
)

// Cluster is a set of points sharing a cluster ID. Points is only safe to
// read once the cluster's State() is StateCommitted — while NEW, another
// goroutine may still be appending to or rolling back this cluster.
type Cluster[ID comparable] struct {
	ID    uint64
	state atomic.Uint32

	mu     sync.Mutex
	points []ID
}

func newCluster[ID comparable](id uint64) *Cluster[ID] {
	return &Cluster[ID]{ID: id}
}

// State returns the cluster's current state.
func (c *Cluster[ID]) State() State {
	return State(c.state.Load())
}

// Points returns a copy of the cluster's member IDs. Only meaningful once
// State() is StateCommitted.
func (c *Cluster[ID]) Points() []ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ID, len(c.points))
	copy(out, c.points)
	return out
}

func (c *Cluster[ID]) appendPoint(id ID) {
	c.mu.Lock()
	c.points = append(c.points, id)
	c.mu.Unlock()
}

func (c *Cluster[ID]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.points)
}

func (c *Cluster[ID]) pointsSnapshot() []ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ID, len(c.points))
	copy(out, c.points)
	return out
}

// tryRollBack attempts the NEW -> ROLLED_BACK transition. On success it
// reverts every already-claimed point back to unassigned (cluster ID 0) so
// they become available to whichever cluster caused the rollback. Returns
// false if the cluster had already committed.
func (c *Cluster[ID]) tryRollBack(points map[ID]*Point[ID]) bool {
	if !c.state.CAS(uint32(StateNew), uint32(StateRolledBack)) {
		return false
	}
	for _, id := range c.pointsSnapshot() {
		if p, ok := points[id]; ok {
			p.cluster.CAS(c.ID, 0)
		}
	}
	return true
}

// tryCommit attempts the NEW -> COMMITTED transition.
func (c *Cluster[ID]) tryCommit() bool {
	return c.state.CAS(uint32(StateNew), uint32(StateCommitted))
}
