package veccoll

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordCreateCollection is called after each create attempt.
	RecordCreateCollection(err error)

	// RecordDeleteCollection is called after each delete. existed is false
	// for the no-op delete of an unknown name.
	RecordDeleteCollection(existed bool)

	// RecordUpsert is called after each upsert batch.
	// count is the number of points in the batch, err is nil if applied.
	RecordUpsert(count int, duration time.Duration, err error)

	// RecordSearch is called after each search operation.
	// limit is the number of results requested, results the number returned.
	RecordSearch(limit, results int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCreateCollection(error)                {}
func (NoopMetricsCollector) RecordDeleteCollection(bool)                 {}
func (NoopMetricsCollector) RecordUpsert(int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordSearch(int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CreateCount      atomic.Int64
	CreateErrors     atomic.Int64
	DeleteCount      atomic.Int64
	DeleteNoops      atomic.Int64
	UpsertCount      atomic.Int64
	UpsertPoints     atomic.Int64
	UpsertErrors     atomic.Int64
	UpsertTotalNanos atomic.Int64
	SearchCount      atomic.Int64
	SearchResults    atomic.Int64
	SearchErrors     atomic.Int64
	SearchTotalNanos atomic.Int64
}

// RecordCreateCollection implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCreateCollection(err error) {
	b.CreateCount.Add(1)
	if err != nil {
		b.CreateErrors.Add(1)
	}
}

// RecordDeleteCollection implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDeleteCollection(existed bool) {
	b.DeleteCount.Add(1)
	if !existed {
		b.DeleteNoops.Add(1)
	}
}

// RecordUpsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpsert(count int, duration time.Duration, err error) {
	b.UpsertCount.Add(1)
	b.UpsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.UpsertErrors.Add(1)
		return
	}
	b.UpsertPoints.Add(int64(count))
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(limit, results int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
		return
	}
	b.SearchResults.Add(int64(results))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CreateCount:    b.CreateCount.Load(),
		CreateErrors:   b.CreateErrors.Load(),
		DeleteCount:    b.DeleteCount.Load(),
		DeleteNoops:    b.DeleteNoops.Load(),
		UpsertCount:    b.UpsertCount.Load(),
		UpsertPoints:   b.UpsertPoints.Load(),
		UpsertErrors:   b.UpsertErrors.Load(),
		UpsertAvgNanos: avg(b.UpsertTotalNanos.Load(), b.UpsertCount.Load()),
		SearchCount:    b.SearchCount.Load(),
		SearchResults:  b.SearchResults.Load(),
		SearchErrors:   b.SearchErrors.Load(),
		SearchAvgNanos: avg(b.SearchTotalNanos.Load(), b.SearchCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CreateCount    int64
	CreateErrors   int64
	DeleteCount    int64
	DeleteNoops    int64
	UpsertCount    int64
	UpsertPoints   int64
	UpsertErrors   int64
	UpsertAvgNanos int64
	SearchCount    int64
	SearchResults  int64
	SearchErrors   int64
	SearchAvgNanos int64
}
