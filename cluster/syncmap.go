package cluster

import "sync"

// syncMap is a thin generic wrapper over sync.Map, used for the clusterer's
// cluster-ID arena: written once per cluster creation, read concurrently by
// every goroutine resolving a contested point.
type syncMap[K comparable, V any] struct {
	m sync.Map
}

func (s *syncMap[K, V]) Store(key K, value V) {
	s.m.Store(key, value)
}

func (s *syncMap[K, V]) Load(key K) (V, bool) {
	v, ok := s.m.Load(key)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}
