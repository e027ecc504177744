// Package idset provides the pluggable, multiplicity-free ID containers
// held inside one LSH bucket. All three policies share the same contract
// (push, remove, contains, iterate, len); the index chooses one at
// construction and never mixes policies within a single instance.
package idset

// Container is the capability set every bucket storage policy satisfies.
type Container[ID comparable] interface {
	// Add inserts id if not already present. Returns true if it was added.
	Add(id ID) bool
	// Remove deletes id if present. Returns true if it was present.
	Remove(id ID) bool
	// Contains reports whether id is present.
	Contains(id ID) bool
	// Each calls fn once per member, in the container's natural order.
	Each(fn func(ID))
	// Len returns the number of members.
	Len() int
}

// Policy names a Container implementation, used by index configuration.
type Policy int

const (
	// PolicyHashSet backs buckets with a Go map: O(1) add/remove/contains,
	// highest per-entry memory overhead. The default, and the right choice
	// when buckets are expected to grow large or churn heavily.
	PolicyHashSet Policy = iota
	// PolicyVec backs buckets with a plain slice: O(n) add/remove/contains
	// via linear scan, minimal per-entry overhead, and no iteration-order
	// guarantee after a removal (removal swaps in the last element).
	PolicyVec
	// PolicySmallVec behaves like PolicyVec but allocates its slice up
	// front with capacity for N members, so a bucket of up to N members
	// needs no further allocation; members are not stored inline, and the
	// slice grows like any other beyond N. Best when most buckets are
	// expected to stay small, which is the common case for well-tuned LSH
	// banding.
	PolicySmallVec
)

// New constructs a Container for the given policy. inlineCap is only
// consulted for PolicySmallVec.
func New[ID comparable](policy Policy, inlineCap int) Container[ID] {
	switch policy {
	case PolicyVec:
		return NewVec[ID]()
	case PolicySmallVec:
		return NewSmallVec[ID](inlineCap)
	default:
		return NewHashSet[ID]()
	}
}
