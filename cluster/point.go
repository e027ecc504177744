package cluster

import "go.uber.org/atomic"

// Point wraps a user ID with the atomic cluster reference the claim
// protocol CASes: 0 means unassigned, otherwise it holds the owning
// Cluster's ID (cluster IDs are allocated starting at 1 so 0 is never a
// valid cluster).
type Point[ID comparable] struct {
	ID      ID
	cluster atomic.Uint64
}

// NewPoint wraps id as an unassigned point.
func NewPoint[ID comparable](id ID) *Point[ID] {
	return &Point[ID]{ID: id}
}

// ClusterID returns the ID of the cluster this point currently belongs to,
// or 0 if unassigned.
func (p *Point[ID]) ClusterID() uint64 {
	return p.cluster.Load()
}

// Unassigned reports whether the point currently belongs to no cluster.
func (p *Point[ID]) Unassigned() bool {
	return p.cluster.Load() == 0
}
