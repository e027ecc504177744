package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClusterSerialDeterministic(t *testing.T) {
	adj := map[int][]int{}
	for i := 0; i < 12; i++ {
		var neighbors []int
		for j := 0; j < 12; j++ {
			if j != i {
				neighbors = append(neighbors, j)
			}
		}
		adj[i] = neighbors
	}
	points := func() []*Point[int] {
		pts := make([]*Point[int], 12)
		for i := range pts {
			pts[i] = NewPoint(i)
		}
		return pts
	}

	c := New[int](Config{MinClusterSize: 3, WorkerCount: 6})
	r1 := c.ClusterSerial(points(), staticFinder{adj: adj})
	r2 := c.ClusterSerial(points(), staticFinder{adj: adj})

	assert.Equal(t, len(r1), len(r2))
	if len(r1) > 0 {
		assert.ElementsMatch(t, r1[0].Points(), r2[0].Points())
	}
}
