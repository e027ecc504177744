package main

import (
	"log/slog"
	"os"

	"github.com/lshkit/lshkit/internal/version"
	"github.com/spf13/cobra"
)

var configPath string
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "lshctl",
	Short: "Locality-sensitive hashing toolkit",
	Long: `lshctl drives MinHash and SimHash near-duplicate search and the
parallel clusterer from the command line.

Features:
  • MinHash/SimHash signature generation over line-delimited text corpora
  • LSH-indexed duplicate detection (minhash and simhash variants)
  • Parallel clustering of a corpus into near-duplicate groups
  • Synthetic benchmark corpus generation`,
	Version:      version.Short(),
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelInfo
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a .lshctl.yaml/.toml config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenCmd())
	rootCmd.AddCommand(newDedupCmd())
	rootCmd.AddCommand(newClusterCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
