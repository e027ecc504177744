package simhash

import "github.com/lshkit/lshkit/internal/parutil"

// bulkSign is the shared fan-out behind BulkSignStrings, mirroring
// minhash's bulkSign.
func bulkSign[In any](batches []In, sign func(In) *Signature) []*Signature {
	return parutil.Map(batches, sign)
}
