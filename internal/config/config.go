package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"
)

// Config represents the scanner configuration
type Config struct {
	// Scan settings
	ChunkSize        int           `mapstructure:"chunk_size"`         // read buffer size for hashing
	ProgressInterval time.Duration `mapstructure:"progress_interval"`  // time between progress snapshots
	ProgressEvery    int           `mapstructure:"progress_every"`     // files between progress snapshots
	MinPartitionSize int64         `mapstructure:"min_partition_size"` // partitions smaller than this are skipped
	Exclude          []string      `mapstructure:"exclude"`            // doublestar globs matched against partition paths

	// Hash database
	HashDB string `mapstructure:"hash_db"` // path to the known-hash database

	// Report settings
	ReportFormat string `mapstructure:"report_format"` // console, json, text, md, html, pdf
	OutputFile   string `mapstructure:"output_file"`   // output file path
	Investigator string `mapstructure:"investigator"`  // investigator name for the report header
	CaseNumber   string `mapstructure:"case_number"`   // optional case reference

	Debug bool `mapstructure:"debug"`
}

const (
	DefaultChunkSize        = 1 << 20
	MaxChunkSize            = 64 << 20
	DefaultProgressInterval = 500 * time.Millisecond
	DefaultProgressEvery    = 100
	DefaultMinPartitionSize = 2048 * 512
)

// LoadConfig loads configuration from an optional file, environment variables and defaults
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("chunk_size", DefaultChunkSize)
	v.SetDefault("progress_interval", DefaultProgressInterval)
	v.SetDefault("progress_every", DefaultProgressEvery)
	v.SetDefault("min_partition_size", DefaultMinPartitionSize)
	v.SetDefault("exclude", []string{})
	v.SetDefault("hash_db", "")
	v.SetDefault("report_format", "console")
	v.SetDefault("output_file", "")
	v.SetDefault("investigator", "")
	v.SetDefault("case_number", "")
	v.SetDefault("debug", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}

	// Read environment variables
	v.SetEnvPrefix("HASHHOUND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the default configuration without consulting the environment
func Default() *Config {
	return &Config{
		ChunkSize:        DefaultChunkSize,
		ProgressInterval: DefaultProgressInterval,
		ProgressEvery:    DefaultProgressEvery,
		MinPartitionSize: DefaultMinPartitionSize,
		ReportFormat:     "console",
	}
}

// Validate checks value ranges and glob syntax
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive (got %d)", c.ChunkSize)
	}
	if c.ChunkSize > MaxChunkSize {
		return fmt.Errorf("chunk_size must not exceed %d bytes (got %d)", MaxChunkSize, c.ChunkSize)
	}
	if c.ProgressEvery < 0 {
		return fmt.Errorf("progress_every must not be negative (got %d)", c.ProgressEvery)
	}
	if c.MinPartitionSize < 0 {
		return fmt.Errorf("min_partition_size must not be negative (got %d)", c.MinPartitionSize)
	}
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern: %q", pattern)
		}
	}
	return nil
}

// IsExcluded reports whether a partition path matches one of the exclude globs.
// Patterns are matched against the path without its leading slash.
func (c *Config) IsExcluded(path string) bool {
	if len(c.Exclude) == 0 {
		return false
	}
	rel := strings.TrimPrefix(path, "/")
	for _, pattern := range c.Exclude {
		if ok, _ := doublestar.Match(strings.TrimPrefix(pattern, "/"), rel); ok {
			return true
		}
	}
	return false
}
