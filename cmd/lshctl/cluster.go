package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lshkit/lshkit/cluster"
	"github.com/lshkit/lshkit/internal/config"
	"github.com/lshkit/lshkit/minhash"
)

// clusterGroup is one cluster's rendered form, shared by the text, JSON and
// YAML paths.
type clusterGroup struct {
	ID      int      `json:"id" yaml:"id"`
	Size    int      `json:"size" yaml:"size"`
	Lines   []int    `json:"lines" yaml:"lines"`
	Members []string `json:"members,omitempty" yaml:"members,omitempty"`
}

type clusterResult struct {
	Clusters   []clusterGroup `json:"clusters" yaml:"clusters"`
	TotalLines int            `json:"total_lines" yaml:"total_lines"`
	Clustered  int            `json:"clustered_lines" yaml:"clustered_lines"`
}

func newClusterCmd() *cobra.Command {
	var progress bool

	cmd := &cobra.Command{
		Use:   "cluster <file|->",
		Short: "Cluster a corpus of lines by MinHash near-duplicate neighborhoods",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			showProgress := cfg.Output.Progress
			if cmd.Flags().Changed("progress") {
				showProgress = progress
			}

			lines, err := readLines(args[0])
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no input lines")
				return nil
			}

			idxCfg, err := cfg.MinHashIndexConfig()
			if err != nil {
				return err
			}
			idx, err := minhash.NewIndex[int, uint64](idxCfg)
			if err != nil {
				return err
			}

			var bar *progressbar.ProgressBar
			if showProgress {
				bar = newProgressBar(int64(len(lines)), "indexing")
			}

			hasher := minhash.New64Seeded[uint64](cfg.MinHash.NumHashes, int64(cfg.MinHash.Seed))
			points := make([]*cluster.Point[int], len(lines))
			for i, line := range lines {
				sig := hasher.SignStrings(strings.Fields(line))
				if err := idx.Insert(i, sig); err != nil {
					return fmt.Errorf("cluster: insert line %d: %w", i, err)
				}
				points[i] = cluster.NewPoint(i)
				if bar != nil {
					_ = bar.Add(1)
				}
			}
			slog.Info("minhash index built", "lines", len(lines), "num_hashes", cfg.MinHash.NumHashes, "num_bands", idxCfg.NumBands)

			finder := cluster.MinHashNeighbors[int, uint64](idx)
			clusterer := cluster.New[int](cfg.ClusterConfig())
			clusters := clusterer.Cluster(points, finder)

			result := buildClusterResult(cfg, clusters, lines)
			slog.Info("cluster complete", "clusters", len(result.Clusters), "clustered_lines", result.Clustered, "total_lines", result.TotalLines)
			return renderCluster(cmd, cfg, result)
		},
	}

	cmd.Flags().BoolVar(&progress, "progress", false, "Show a progress bar while indexing (overrides output.progress)")
	return cmd
}

func buildClusterResult(cfg *config.Config, clusters []*cluster.Cluster[int], lines []string) clusterResult {
	result := clusterResult{TotalLines: len(lines)}
	for _, cl := range clusters {
		ids := cl.Points()
		g := clusterGroup{ID: int(cl.ID), Size: len(ids), Lines: ids}
		if cfg.Output.ShowDetails {
			for _, id := range ids {
				g.Members = append(g.Members, truncate(lines[id], 60))
			}
		}
		result.Clusters = append(result.Clusters, g)
		result.Clustered += len(ids)
	}
	return result
}

func renderCluster(cmd *cobra.Command, cfg *config.Config, result clusterResult) error {
	w := cmd.OutOrStdout()
	switch cfg.Output.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		data, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("cluster: marshal yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		for _, g := range result.Clusters {
			fmt.Fprintf(w, "cluster %d (%d members):\n", g.ID, g.Size)
			for i, id := range g.Lines {
				if cfg.Output.ShowDetails {
					fmt.Fprintf(w, "  %d %q\n", id, g.Members[i])
				} else {
					fmt.Fprintf(w, "  %d\n", id)
				}
			}
		}
		fmt.Fprintf(w, "%d clusters, %d/%d lines clustered\n", len(result.Clusters), result.Clustered, result.TotalLines)
		return nil
	}
}
