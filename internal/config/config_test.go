package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsUsableWithoutAFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lshctl.yaml")
	err := os.WriteFile(path, []byte("minhash:\n  num_hashes: 256\n  threshold: 0.7\noutput:\n  format: json\n"), 0o644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.MinHash.NumHashes)
	assert.Equal(t, 0.7, cfg.MinHash.Threshold)
	assert.Equal(t, "json", cfg.Output.Format)
	// Untouched sections keep their defaults.
	assert.Equal(t, Default().Cluster, cfg.Cluster)
}

func TestLoadTOMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lshctl.toml")
	err := os.WriteFile(path, []byte("[minhash]\nnum_hashes = 64\nthreshold = 0.9\n\n[output]\nformat = \"yaml\"\n"), 0o644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.MinHash.NumHashes)
	assert.Equal(t, 0.9, cfg.MinHash.Threshold)
	assert.Equal(t, "yaml", cfg.Output.Format)
	// Untouched sections keep their defaults.
	assert.Equal(t, Default().Cluster, cfg.Cluster)
	assert.Equal(t, Default().MinHash.ContainerPolicy, cfg.MinHash.ContainerPolicy)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestMinHashIndexConfigDerivesBandsFromThreshold(t *testing.T) {
	cfg := Default()
	cfg.MinHash.NumHashes = 128
	cfg.MinHash.Threshold = 0.6

	idxCfg, err := cfg.MinHashIndexConfig()
	require.NoError(t, err)
	assert.Greater(t, idxCfg.NumBands, 0)
	assert.Greater(t, idxCfg.BandWidth, 0)
}

func TestMinHashIndexConfigRejectsBadPolicy(t *testing.T) {
	cfg := Default()
	cfg.MinHash.ContainerPolicy = "nonsense"
	_, err := cfg.MinHashIndexConfig()
	assert.Error(t, err)
}

func TestFindDefaultLocatesYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".lshctl.yaml"), []byte("output:\n  format: text\n"), 0o644))
	assert.Equal(t, filepath.Join(dir, ".lshctl.yaml"), FindDefault(dir))
}

func TestFindDefaultEmptyWhenAbsent(t *testing.T) {
	assert.Equal(t, "", FindDefault(t.TempDir()))
}
