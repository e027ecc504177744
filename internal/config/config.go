package config

// Config is the root configuration structure for lshctl and any embedders
// that want file/env driven defaults instead of constructing index configs
// by hand. It mirrors the three index/cluster component configs in the
// minhash, simhash and cluster packages one-for-one.
type Config struct {
	MinHash MinHashConfig `mapstructure:"minhash" yaml:"minhash" toml:"minhash" json:"minhash"`
	SimHash SimHashConfig `mapstructure:"simhash" yaml:"simhash" toml:"simhash" json:"simhash"`
	Cluster ClusterConfig `mapstructure:"cluster" yaml:"cluster" toml:"cluster" json:"cluster"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output" toml:"output" json:"output"`
}

// MinHashConfig configures a minhash.Hasher plus the minhash.Index built
// from its signatures.
type MinHashConfig struct {
	// NumHashes is the MinHash signature length.
	NumHashes int `mapstructure:"num_hashes" yaml:"num_hashes" toml:"num_hashes" json:"num_hashes"`

	// Width names a hash element width: "32" or "64". lshctl's commands do
	// not read it; they always build 64-bit signatures.
	Width string `mapstructure:"width" yaml:"width" toml:"width" json:"width"`

	// NumBands and BandWidth partition the signature for LSH banding. When
	// both are zero, SolveBandParams derives them from Threshold.
	NumBands  int `mapstructure:"num_bands" yaml:"num_bands" toml:"num_bands" json:"num_bands"`
	BandWidth int `mapstructure:"band_width" yaml:"band_width" toml:"band_width" json:"band_width"`

	// Threshold is the target Jaccard similarity for candidate retrieval.
	Threshold float64 `mapstructure:"threshold" yaml:"threshold" toml:"threshold" json:"threshold"`

	// Seed makes hash coefficient generation reproducible: lshctl's commands
	// use it as the coefficient seed as-is, zero included. It is also the
	// index's band-key hash seed, where zero means a random seed drawn from
	// the process clock.
	Seed uint64 `mapstructure:"seed" yaml:"seed" toml:"seed" json:"seed"`

	// ContainerPolicy selects the bucket ID container: hashset, vec or
	// smallvec.
	ContainerPolicy string `mapstructure:"container_policy" yaml:"container_policy" toml:"container_policy" json:"container_policy"`

	// InlineCap is the smallvec inline capacity, ignored for other policies.
	InlineCap int `mapstructure:"inline_cap" yaml:"inline_cap" toml:"inline_cap" json:"inline_cap"`
}

// SimHashConfig configures a simhash.Hasher plus the simhash.Index built
// from its signatures.
type SimHashConfig struct {
	Width       int `mapstructure:"width" yaml:"width" toml:"width" json:"width"`
	NumBlocks   int `mapstructure:"num_blocks" yaml:"num_blocks" toml:"num_blocks" json:"num_blocks"`
	MaxDistance int `mapstructure:"max_distance" yaml:"max_distance" toml:"max_distance" json:"max_distance"`

	ContainerPolicy string `mapstructure:"container_policy" yaml:"container_policy" toml:"container_policy" json:"container_policy"`
	InlineCap       int    `mapstructure:"inline_cap" yaml:"inline_cap" toml:"inline_cap" json:"inline_cap"`
	Seed            uint64 `mapstructure:"seed" yaml:"seed" toml:"seed" json:"seed"`
}

// ClusterConfig configures a cluster.Clusterer.
type ClusterConfig struct {
	MinClusterSize int `mapstructure:"min_cluster_size" yaml:"min_cluster_size" toml:"min_cluster_size" json:"min_cluster_size"`
	WorkerCount    int `mapstructure:"worker_count" yaml:"worker_count" toml:"worker_count" json:"worker_count"`
}

// OutputConfig controls how lshctl renders command results.
type OutputConfig struct {
	// Format is one of "text", "json" or "yaml".
	Format string `mapstructure:"format" yaml:"format" toml:"format" json:"format"`

	// ShowDetails adds each result's candidate or member line numbers and
	// their (truncated) text to the output; candidate counts and cluster
	// sizes are shown either way.
	ShowDetails bool `mapstructure:"show_details" yaml:"show_details" toml:"show_details" json:"show_details"`

	// Progress enables a progressbar during bulk operations.
	Progress bool `mapstructure:"progress" yaml:"progress" toml:"progress" json:"progress"`
}

// Default returns the configuration lshctl starts from before any file or
// flag overrides are applied.
func Default() *Config {
	return &Config{
		MinHash: MinHashConfig{
			NumHashes:       128,
			Width:           "64",
			Threshold:       0.5,
			ContainerPolicy: "hashset",
		},
		SimHash: SimHashConfig{
			Width:           64,
			NumBlocks:       4,
			MaxDistance:     3,
			ContainerPolicy: "hashset",
		},
		Cluster: ClusterConfig{
			MinClusterSize: 2,
			WorkerCount:    4,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}
