package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lshkit/lshkit/internal/config"
	"github.com/lshkit/lshkit/minhash"
	"github.com/lshkit/lshkit/simhash"
)

// dedupMatch is one input line with the other lines it was found to be a
// near-duplicate of. Its struct tags drive both the JSON and YAML renderers.
type dedupMatch struct {
	Line       int      `json:"line" yaml:"line"`
	Text       string   `json:"text" yaml:"text"`
	CandidateN int      `json:"candidates" yaml:"candidates"`
	Candidates []int    `json:"candidate_lines,omitempty" yaml:"candidate_lines,omitempty"`
	Neighbors  []string `json:"neighbor_text,omitempty" yaml:"neighbor_text,omitempty"`
}

func newDedupCmd() *cobra.Command {
	var (
		algo     string
		progress bool
	)

	cmd := &cobra.Command{
		Use:   "dedup <file|->",
		Short: "Find near-duplicate lines in a corpus using minhash or simhash",
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

			var bar *progressbar.ProgressBar
			if showProgress {
				bar = newProgressBar(int64(len(lines)), "indexing")
			}

			var matches []dedupMatch
			switch algo {
			case "minhash":
				matches, err = runMinHashDedup(cfg, lines, bar)
			case "simhash":
				matches, err = runSimHashDedup(cfg, lines, bar)
			default:
				return fmt.Errorf("dedup: unknown --algo %q (want minhash or simhash)", algo)
			}
			if err != nil {
				return err
			}

			slog.Info("dedup complete", "algo", algo, "lines", len(lines), "matches", len(matches))
			return renderDedup(cmd, cfg, matches)
		},
	}

	cmd.Flags().StringVar(&algo, "algo", "minhash", "Algorithm: minhash or simhash")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show a progress bar while indexing (overrides output.progress)")
	return cmd
}

func runMinHashDedup(cfg *config.Config, lines []string, bar *progressbar.ProgressBar) ([]dedupMatch, error) {
	idxCfg, err := cfg.MinHashIndexConfig()
	if err != nil {
		return nil, err
	}
	idx, err := minhash.NewIndex[int, uint64](idxCfg)
	if err != nil {
		return nil, err
	}

	hasher := minhash.New64Seeded[uint64](cfg.MinHash.NumHashes, int64(cfg.MinHash.Seed))
	for i, line := range lines {
		sig := hasher.SignStrings(strings.Fields(line))
		if err := idx.Insert(i, sig); err != nil {
			return nil, fmt.Errorf("dedup: insert line %d: %w", i, err)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	slog.Info("minhash index built", "lines", len(lines), "num_hashes", cfg.MinHash.NumHashes, "num_bands", idxCfg.NumBands)

	var matches []dedupMatch
	for i, line := range lines {
		sig, _ := idx.GetSignature(i)
		candidates, err := idx.Query(sig)
		if err != nil {
			return nil, err
		}
		others := otherIDs(candidates, i)
		if len(others) == 0 {
			continue
		}
		matches = append(matches, buildMatch(cfg, i, line, lines, others))
	}
	return matches, nil
}

func runSimHashDedup(cfg *config.Config, lines []string, bar *progressbar.ProgressBar) ([]dedupMatch, error) {
	idxCfg, err := cfg.SimHashIndexConfig()
	if err != nil {
		return nil, err
	}
	idx, err := simhash.NewIndex[int](idxCfg)
	if err != nil {
		return nil, err
	}

	hasher := simhash.New(simhash.Width(cfg.SimHash.Width))
	for i, line := range lines {
		sig := hasher.SignStrings(strings.Fields(line))
		if err := idx.Insert(i, sig); err != nil {
			return nil, fmt.Errorf("dedup: insert line %d: %w", i, err)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	slog.Info("simhash index built", "lines", len(lines), "width", cfg.SimHash.Width, "num_blocks", cfg.SimHash.NumBlocks)

	var matches []dedupMatch
	for i, line := range lines {
		sig, _ := idx.GetSignature(i)
		found, err := idx.QueryReturnDistance(sig)
		if err != nil {
			return nil, err
		}
		var ids []int
		for _, m := range found {
			ids = append(ids, m.ID)
		}
		others := otherIDs(ids, i)
		if len(others) == 0 {
			continue
		}
		matches = append(matches, buildMatch(cfg, i, line, lines, others))
	}
	return matches, nil
}

func otherIDs(candidates []int, self int) []int {
	var others []int
	for _, id := range candidates {
		if id != self {
			others = append(others, id)
		}
	}
	return others
}

func buildMatch(cfg *config.Config, i int, line string, lines []string, others []int) dedupMatch {
	m := dedupMatch{Line: i, Text: truncate(line, 60), CandidateN: len(others)}
	if cfg.Output.ShowDetails {
		m.Candidates = others
		for _, id := range others {
			m.Neighbors = append(m.Neighbors, truncate(lines[id], 60))
		}
	}
	return m
}

func renderDedup(cmd *cobra.Command, cfg *config.Config, matches []dedupMatch) error {
	w := cmd.OutOrStdout()
	switch cfg.Output.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	case "yaml":
		data, err := yaml.Marshal(matches)
		if err != nil {
			return fmt.Errorf("dedup: marshal yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		for _, m := range matches {
			fmt.Fprintf(w, "%d %q ~ %d candidates\n", m.Line, m.Text, m.CandidateN)
			if cfg.Output.ShowDetails {
				for i, id := range m.Candidates {
					fmt.Fprintf(w, "    %d %q\n", id, m.Neighbors[i])
				}
			}
		}
		return nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
