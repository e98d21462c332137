package veccoll

import (
	"log/slog"

	"github.com/hupe1980/veccoll/internal/resource"
)

const (
	// DefaultParallelThreshold is the candidate count above which a search
	// scores partitions concurrently.
	DefaultParallelThreshold = 4096

	// DefaultMaxParallelism bounds the number of scoring partitions.
	DefaultMaxParallelism = 8
)

type options struct {
	metricsCollector  MetricsCollector
	logger            *Logger
	resources         resource.Config
	parallelThreshold int
	maxParallelism    int
	collections       []CollectionConfig
}

// Option configures a DB.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &veccoll.BasicMetricsCollector{}
//	db, _ := veccoll.Open(ctx, veccoll.WithMetricsCollector(metrics))
//	// ... use db ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, Avg latency: %dns\n", stats.SearchCount, stats.SearchAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := veccoll.NewJSONLogger(slog.LevelInfo)
//	db, _ := veccoll.Open(ctx, veccoll.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMemoryLimit caps the memory used by stored vectors across all
// collections. Upserts that would exceed it fail with ErrMemoryLimitExceeded.
// 0 disables the limit.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.resources.MemoryLimitBytes = bytes
	}
}

// WithMaxConcurrentSearches bounds how many searches run at once. Further
// searches wait for a slot or for their context to end. 0 disables the bound.
func WithMaxConcurrentSearches(n int) Option {
	return func(o *options) {
		o.resources.MaxConcurrentSearches = int64(n)
	}
}

// WithSearchRateLimit limits searches to perSec with the given burst.
// perSec <= 0 disables rate limiting.
func WithSearchRateLimit(perSec float64, burst int) Option {
	return func(o *options) {
		o.resources.SearchesPerSec = perSec
		o.resources.SearchBurst = burst
	}
}

// WithParallelThreshold sets the candidate count above which a search
// scores partitions concurrently. n <= 0 disables parallel scoring.
func WithParallelThreshold(n int) Option {
	return func(o *options) {
		o.parallelThreshold = n
	}
}

// WithMaxParallelism bounds the number of partitions a search is split into.
func WithMaxParallelism(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.maxParallelism = n
	}
}

// WithCollections declares collections that Open creates up front.
func WithCollections(cfgs ...CollectionConfig) Option {
	return func(o *options) {
		o.collections = append(o.collections, cfgs...)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector:  NoopMetricsCollector{},
		logger:            NoopLogger(),
		parallelThreshold: DefaultParallelThreshold,
		maxParallelism:    DefaultMaxParallelism,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
