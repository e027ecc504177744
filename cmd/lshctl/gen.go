package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// clusterGenerator produces synthetic clusters of near-duplicate token sets,
// the same way gaoya's benchmark corpus generator does: start from a random
// centroid per cluster, then perturb numChanges distinct positions per
// member so that the resulting Jaccard similarity to the centroid stays
// above the target.
type clusterGenerator struct {
	jaccard     float64
	clusterSize int
	numValues   int
	numClusters int
	minValue    int
	maxValue    int
	sameIndices bool
	rng         *rand.Rand
}

func (g *clusterGenerator) numChanges() int {
	k := 1
	n := float64(g.numValues)
	for (n-float64(k))/(n+float64(k)) > g.jaccard {
		k++
	}
	if k == 1 {
		return 0
	}
	return k - 1
}

func (g *clusterGenerator) randomSet() []int {
	set := make([]int, g.numValues)
	for i := range set {
		set[i] = g.minValue + g.rng.Intn(g.maxValue-g.minValue)
	}
	return set
}

func (g *clusterGenerator) perturb(base []int, indices []int) []int {
	out := append([]int(nil), base...)
	for _, idx := range indices {
		out[idx] = g.minValue + g.rng.Intn(g.maxValue-g.minValue)
	}
	return out
}

func (g *clusterGenerator) sampleIndices() []int {
	n := g.numChanges()
	if n == 0 {
		return nil
	}
	return g.rng.Perm(g.numValues)[:n]
}

// Generate returns numClusters slices of clusterSize token lists each.
func (g *clusterGenerator) Generate() [][][]int {
	clusters := make([][][]int, g.numClusters)
	for c := 0; c < g.numClusters; c++ {
		centroid := g.randomSet()
		members := make([][]int, g.clusterSize)

		var fixedIndices []int
		if g.sameIndices {
			fixedIndices = g.sampleIndices()
		}
		for m := 0; m < g.clusterSize; m++ {
			indices := fixedIndices
			if !g.sameIndices {
				indices = g.sampleIndices()
			}
			members[m] = g.perturb(centroid, indices)
		}
		clusters[c] = members
	}
	return clusters
}

func newGenCmd() *cobra.Command {
	var (
		jaccard     float64
		clusterSize int
		numValues   int
		numClusters int
		minValue    int
		maxValue    int
		sameIndices bool
		seed        int64
		out         string
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a synthetic near-duplicate corpus",
		Long: `Generate writes a line-delimited corpus of token sets arranged into
clusters of controlled Jaccard similarity, for exercising minhash/simhash
dedup and clustering without a real dataset.

The first line is a "# run-id: <uuid>" comment. Every other line is a
cluster member: a "cluster-<n>" label followed by space-separated integer
tokens; members within a cluster share all but a handful of perturbed tokens,
chosen so that their Jaccard similarity to the cluster centroid stays
above --jaccard.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if numValues < 2 {
				return fmt.Errorf("gen: --values must be at least 2")
			}
			g := &clusterGenerator{
				jaccard:     jaccard,
				clusterSize: clusterSize,
				numValues:   numValues,
				numClusters: numClusters,
				minValue:    minValue,
				maxValue:    maxValue,
				sameIndices: sameIndices,
				rng:         rand.New(rand.NewSource(seed)),
			}
			clusters := g.Generate()

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("gen: %w", err)
				}
				defer f.Close()
				w = f
			}
			bw := bufio.NewWriter(w)
			defer bw.Flush()

			fmt.Fprintf(bw, "# run-id: %s\n", uuid.New())
			for ci, members := range clusters {
				for _, tokens := range members {
					strs := make([]string, len(tokens))
					for i, v := range tokens {
						strs[i] = strconv.Itoa(v)
					}
					fmt.Fprintf(bw, "cluster-%d %s\n", ci, strings.Join(strs, " "))
				}
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&jaccard, "jaccard", 0.8, "Target minimum Jaccard similarity to the cluster centroid")
	cmd.Flags().IntVar(&clusterSize, "cluster-size", 10, "Members per cluster")
	cmd.Flags().IntVar(&numValues, "values", 20, "Tokens per member")
	cmd.Flags().IntVar(&numClusters, "clusters", 5, "Number of clusters")
	cmd.Flags().IntVar(&minValue, "min", 0, "Minimum token value")
	cmd.Flags().IntVar(&maxValue, "max", 1000, "Maximum token value (exclusive)")
	cmd.Flags().BoolVar(&sameIndices, "same-indices", false, "Perturb the same token positions across a cluster's members")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default stdout)")

	return cmd
}
