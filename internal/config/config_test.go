package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
	assert.Equal(t, DefaultProgressInterval, cfg.ProgressInterval)
	assert.Equal(t, DefaultProgressEvery, cfg.ProgressEvery)
	assert.Equal(t, int64(DefaultMinPartitionSize), cfg.MinPartitionSize)
	assert.Equal(t, "console", cfg.ReportFormat)
	assert.Empty(t, cfg.Exclude)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("HASHHOUND_CHUNK_SIZE", "4096")
	t.Setenv("HASHHOUND_PROGRESS_INTERVAL", "2s")
	t.Setenv("HASHHOUND_INVESTIGATOR", "Jane Roe")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 4096, cfg.ChunkSize)
	assert.Equal(t, 2*time.Second, cfg.ProgressInterval)
	assert.Equal(t, "Jane Roe", cfg.Investigator)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hashhound.yaml")
	content := "chunk_size: 65536\nreport_format: pdf\nexclude:\n  - \"**/pagefile.sys\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 65536, cfg.ChunkSize)
	assert.Equal(t, "pdf", cfg.ReportFormat)
	assert.Equal(t, []string{"**/pagefile.sys"}, cfg.Exclude)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"Defaults", func(c *Config) {}, false},
		{"Zero chunk size", func(c *Config) { c.ChunkSize = 0 }, true},
		{"Largest chunk size", func(c *Config) { c.ChunkSize = MaxChunkSize }, false},
		{"Chunk size too large", func(c *Config) { c.ChunkSize = MaxChunkSize + 1 }, true},
		{"Negative progress every", func(c *Config) { c.ProgressEvery = -1 }, true},
		{"Negative partition size", func(c *Config) { c.MinPartitionSize = -1 }, true},
		{"Bad glob", func(c *Config) { c.Exclude = []string{"[abc"} }, true},
		{"Good glob", func(c *Config) { c.Exclude = []string{"Windows/**"} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsExcluded(t *testing.T) {
	cfg := &Config{Exclude: []string{"**/*.tmp", "/Windows/**", "pagefile.sys"}}

	tests := []struct {
		path     string
		expected bool
	}{
		{"/a/b/c.tmp", true},
		{"/x.tmp", true},
		{"/Windows/System32/cmd.exe", true},
		{"/pagefile.sys", true},
		{"/Users/pagefile.sys", false},
		{"/Users/doc.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, cfg.IsExcluded(tt.path))
		})
	}

	assert.False(t, Default().IsExcluded("/anything"))
}
