// Package parutil holds the one parallel-map primitive every bulk operation
// in minhash, simhash, and cluster funnels through, built on
// sourcegraph/conc's work-stealing pool rather than a hand-rolled
// WaitGroup/channel fan-out.
package parutil

import (
	"github.com/sourcegraph/conc/iter"
)

// Map applies fn to every element of in, in parallel, and returns the
// results in the same order. Safe to call with len(in) == 0.
func Map[A, B any](in []A, fn func(A) B) []B {
	return iter.Map(in, func(a *A) B {
		return fn(*a)
	})
}

// ForEachIndexed runs fn(i) for every index in [0, n) in parallel across a
// work-stealing pool, used where the unit of parallel work is an index
// (e.g. one band) rather than a slice element.
func ForEachIndexed(n int, fn func(i int)) {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	iter.ForEach(indices, func(i *int) {
		fn(*i)
	})
}
