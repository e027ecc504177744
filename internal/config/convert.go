package config

import (
	"fmt"

	"github.com/lshkit/lshkit/cluster"
	"github.com/lshkit/lshkit/internal/idset"
	"github.com/lshkit/lshkit/minhash"
	"github.com/lshkit/lshkit/simhash"
)

// Policy parses a container_policy config string into an idset.Policy.
func Policy(name string) (idset.Policy, error) {
	switch name {
	case "", "hashset":
		return idset.PolicyHashSet, nil
	case "vec":
		return idset.PolicyVec, nil
	case "smallvec":
		return idset.PolicySmallVec, nil
	default:
		return 0, fmt.Errorf("config: unknown container_policy %q", name)
	}
}

// MinHashIndexConfig converts a MinHashConfig into a minhash.IndexConfig,
// deriving NumBands/BandWidth from Threshold via minhash.SolveBandParams
// when neither is set.
func (c *Config) MinHashIndexConfig() (minhash.IndexConfig, error) {
	m := c.MinHash
	policy, err := Policy(m.ContainerPolicy)
	if err != nil {
		return minhash.IndexConfig{}, err
	}

	bands, width := m.NumBands, m.BandWidth
	if bands == 0 && width == 0 {
		numHashes := m.NumHashes
		if numHashes == 0 {
			numHashes = Default().MinHash.NumHashes
		}
		bands, width = minhash.SolveBandParams(m.Threshold, numHashes, 0)
	}

	return minhash.IndexConfig{
		NumBands:        bands,
		BandWidth:       width,
		Threshold:       m.Threshold,
		ContainerPolicy: policy,
		InlineCap:       m.InlineCap,
		Seed:            m.Seed,
	}, nil
}

// SimHashIndexConfig converts a SimHashConfig into a simhash.IndexConfig.
func (c *Config) SimHashIndexConfig() (simhash.IndexConfig, error) {
	s := c.SimHash
	policy, err := Policy(s.ContainerPolicy)
	if err != nil {
		return simhash.IndexConfig{}, err
	}
	return simhash.IndexConfig{
		Width:           simhash.Width(s.Width),
		NumBlocks:       s.NumBlocks,
		MaxDistance:     s.MaxDistance,
		ContainerPolicy: policy,
		InlineCap:       s.InlineCap,
		Seed:            s.Seed,
	}, nil
}

// ClusterConfig converts a ClusterConfig into a cluster.Config.
func (c *Config) ClusterConfig() cluster.Config {
	return cluster.Config{
		MinClusterSize: c.Cluster.MinClusterSize,
		WorkerCount:    c.Cluster.WorkerCount,
	}
}
