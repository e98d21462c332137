package veccoll

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hupe1980/veccoll/distance"
	"gopkg.in/yaml.v3"
)

// Config is the file form of the DB options.
//
//	log_level: info
//	log_format: json
//	limits:
//	  memory_limit_bytes: 1073741824
//	  max_concurrent_searches: 16
//	search:
//	  parallel_threshold: 4096
//	collections:
//	  - name: test_collection
//	    dimension: 4
//	    metric: cosine
type Config struct {
	LogLevel    string             `yaml:"log_level"`
	LogFormat   string             `yaml:"log_format"`
	Limits      LimitsConfig       `yaml:"limits"`
	Search      SearchConfig       `yaml:"search"`
	Collections []CollectionConfig `yaml:"collections"`
}

// LimitsConfig holds resource limits.
type LimitsConfig struct {
	MemoryLimitBytes      int64   `yaml:"memory_limit_bytes"`
	MaxConcurrentSearches int     `yaml:"max_concurrent_searches"`
	SearchesPerSec        float64 `yaml:"searches_per_sec"`
	SearchBurst           int     `yaml:"search_burst"`
}

// SearchConfig holds search execution settings.
type SearchConfig struct {
	ParallelThreshold int `yaml:"parallel_threshold"`
	MaxParallelism    int `yaml:"max_parallelism"`
}

// CollectionConfig declares a collection to create on Open.
type CollectionConfig struct {
	Name      string          `yaml:"name"`
	Dimension int             `yaml:"dimension"`
	Metric    distance.Metric `yaml:"metric"`
}

// LoadConfig reads and parses the YAML config file at path and applies defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML config data and applies defaults.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// ApplyDefaults fills unset fields with their defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.Search.ParallelThreshold == 0 {
		cfg.Search.ParallelThreshold = DefaultParallelThreshold
	}
	if cfg.Search.MaxParallelism == 0 {
		cfg.Search.MaxParallelism = DefaultMaxParallelism
	}
}

// Options converts the config into DB options.
func (c *Config) Options() ([]Option, error) {
	opts := []Option{
		WithMemoryLimit(c.Limits.MemoryLimitBytes),
		WithMaxConcurrentSearches(c.Limits.MaxConcurrentSearches),
		WithSearchRateLimit(c.Limits.SearchesPerSec, c.Limits.SearchBurst),
		WithParallelThreshold(c.Search.ParallelThreshold),
		WithMaxParallelism(c.Search.MaxParallelism),
		WithCollections(c.Collections...),
	}

	if c.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
			return nil, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
		}
		switch strings.ToLower(c.LogFormat) {
		case "json":
			opts = append(opts, WithLogger(NewJSONLogger(level)))
		case "text", "":
			opts = append(opts, WithLogger(NewTextLogger(level)))
		default:
			return nil, fmt.Errorf("invalid log_format %q", c.LogFormat)
		}
	}

	return opts, nil
}
