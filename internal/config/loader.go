package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// Load reads configPath over top of Default and returns the merged result.
// An empty configPath just returns Default. ".toml" files are decoded
// directly with go-toml/v2, mirroring pyscn's toml_loader.go, which reads
// TOML straight into a struct rather than through viper; every other
// extension (.yaml, .yml, .json) goes through viper.
func Load(configPath string) (*Config, error) {
	cfg := Default()
	if configPath == "" {
		return cfg, nil
	}

	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config: stat %s: %w", configPath, err)
	}

	if strings.EqualFold(filepath.Ext(configPath), ".toml") {
		return loadTOML(configPath, cfg)
	}

	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", configPath, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", configPath, err)
	}
	return cfg, nil
}

// loadTOML decodes a TOML document on top of cfg's existing (default)
// values — keys absent from the document leave cfg's field untouched.
func loadTOML(path string, cfg *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return cfg, nil
}

// FindDefault looks for ".lshctl.yaml", ".lshctl.yml" or ".lshctl.toml" in
// dir, in that order, and returns the first path found, or "" if none exists.
func FindDefault(dir string) string {
	for _, name := range []string{".lshctl.yaml", ".lshctl.yml", ".lshctl.toml"} {
		path := dir + string(os.PathSeparator) + name
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// newViper builds a viper instance pre-seeded with Default's values, so
// that a config file overriding only a handful of keys still produces a
// fully populated Config.
func newViper() *viper.Viper {
	v := viper.New()
	d := Default()

	v.SetDefault("minhash.num_hashes", d.MinHash.NumHashes)
	v.SetDefault("minhash.width", d.MinHash.Width)
	v.SetDefault("minhash.threshold", d.MinHash.Threshold)
	v.SetDefault("minhash.container_policy", d.MinHash.ContainerPolicy)

	v.SetDefault("simhash.width", d.SimHash.Width)
	v.SetDefault("simhash.num_blocks", d.SimHash.NumBlocks)
	v.SetDefault("simhash.max_distance", d.SimHash.MaxDistance)
	v.SetDefault("simhash.container_policy", d.SimHash.ContainerPolicy)

	v.SetDefault("cluster.min_cluster_size", d.Cluster.MinClusterSize)
	v.SetDefault("cluster.worker_count", d.Cluster.WorkerCount)

	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.show_details", d.Output.ShowDetails)
	v.SetDefault("output.progress", d.Output.Progress)

	return v
}
