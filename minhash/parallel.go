package minhash

import "github.com/lshkit/lshkit/internal/parutil"

// bulkSign is the shared fan-out behind every BulkSign* convenience method:
// parallel map over the input batches using the package-wide work-stealing
// pool primitive.
func bulkSign[T Elem, In any](batches []In, sign func(In) *Signature[T]) []*Signature[T] {
	return parutil.Map(batches, sign)
}
