package veccoll

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/hupe1980/veccoll/distance"
	"github.com/hupe1980/veccoll/internal/resource"
)

// DB is the handle owning a set of named collections. It holds no
// process-wide state; independent DBs never interact.
//
// The collection map is locked only to look up or (un)register a
// collection, so operations on different collections never block each other.
type DB struct {
	opts    options
	logger  *Logger
	metrics MetricsCollector
	rc      *resource.Controller

	mu          sync.RWMutex
	collections map[string]*Collection
	closed      bool
}

// Open creates an empty DB and the collections declared with WithCollections.
func Open(ctx context.Context, optFns ...Option) (*DB, error) {
	o := applyOptions(optFns)

	db := &DB{
		opts:        o,
		logger:      o.logger,
		metrics:     o.metricsCollector,
		rc:          resource.NewController(o.resources),
		collections: make(map[string]*Collection),
	}

	for _, cc := range o.collections {
		if err := db.CreateCollection(ctx, cc.Name, cc.Dimension, cc.Metric); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// CreateCollection binds name to a new empty collection.
//
// It fails with ErrCollectionExists if name is bound; callers wanting to
// recreate must delete first (or use RecreateCollection).
func (db *DB) CreateCollection(ctx context.Context, name string, dim int, metric distance.Metric) (err error) {
	defer func() {
		db.metrics.RecordCreateCollection(err)
		db.logger.LogCreateCollection(ctx, name, dim, metric.String(), err)
	}()

	if strings.TrimSpace(name) == "" {
		return ErrInvalidCollectionName
	}
	if dim <= 0 {
		return &ErrInvalidDimension{Dimension: dim}
	}

	c, err := newCollection(db, name, dim, metric)
	if err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrClosed
	}
	if _, ok := db.collections[name]; ok {
		return fmt.Errorf("%w: %q", ErrCollectionExists, name)
	}
	db.collections[name] = c
	return nil
}

// DeleteCollection removes the named collection and all its points.
// Deleting an unknown name is a successful no-op; the error is always nil.
func (db *DB) DeleteCollection(ctx context.Context, name string) error {
	db.mu.Lock()
	c, ok := db.collections[name]
	delete(db.collections, name)
	db.mu.Unlock()

	if ok {
		c.drop()
	}

	db.metrics.RecordDeleteCollection(ok)
	db.logger.LogDeleteCollection(ctx, name, ok)
	return nil
}

// RecreateCollection deletes name if it exists and creates it anew.
func (db *DB) RecreateCollection(ctx context.Context, name string, dim int, metric distance.Metric) error {
	_ = db.DeleteCollection(ctx, name)
	return db.CreateCollection(ctx, name, dim, metric)
}

// Collection looks up a collection by name.
func (db *DB) Collection(name string) (*Collection, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	c, ok := db.collections[name]
	return c, ok
}

// Collections returns information about every collection, sorted by name.
func (db *DB) Collections() []CollectionInfo {
	db.mu.RLock()
	cols := make([]*Collection, 0, len(db.collections))
	for _, c := range db.collections {
		cols = append(cols, c)
	}
	db.mu.RUnlock()

	infos := make([]CollectionInfo, len(cols))
	for i, c := range cols {
		infos[i] = c.Info()
	}
	slices.SortFunc(infos, func(a, b CollectionInfo) int {
		return strings.Compare(a.Name, b.Name)
	})
	return infos
}

func (db *DB) lookup(name string) (*Collection, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return nil, ErrClosed
	}
	c, ok := db.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return c, nil
}

// Upsert inserts or replaces points in the named collection.
func (db *DB) Upsert(ctx context.Context, collection string, points []Point) error {
	c, err := db.lookup(collection)
	if err != nil {
		return err
	}
	return c.Upsert(ctx, points)
}

// Get returns the point stored under id in the named collection.
// It returns ErrNotFound if the collection has no such point.
func (db *DB) Get(ctx context.Context, collection string, id uint64) (Point, error) {
	c, err := db.lookup(collection)
	if err != nil {
		return Point{}, err
	}
	p, ok := c.Get(ctx, id)
	if !ok {
		return Point{}, fmt.Errorf("collection %q: point %d: %w", collection, id, ErrNotFound)
	}
	return p, nil
}

// Delete removes points from the named collection and returns how many existed.
func (db *DB) Delete(ctx context.Context, collection string, ids ...uint64) (int, error) {
	c, err := db.lookup(collection)
	if err != nil {
		return 0, err
	}
	return c.Delete(ctx, ids...), nil
}

// Search runs a k-nearest-neighbor query against the named collection.
func (db *DB) Search(ctx context.Context, collection string, q Query) ([]ScoredPoint, error) {
	c, err := db.lookup(collection)
	if err != nil {
		return nil, err
	}
	return c.Search(ctx, q)
}

// MemoryUsage returns the bytes of vector data currently stored.
func (db *DB) MemoryUsage() int64 {
	return db.rc.MemoryUsage()
}

// Close drops every collection. Later operations fail with ErrClosed.
func (db *DB) Close() error {
	db.mu.Lock()
	if db.closed {
		db.mu.Unlock()
		return nil
	}
	db.closed = true
	cols := db.collections
	db.collections = make(map[string]*Collection)
	db.mu.Unlock()

	for _, c := range cols {
		c.drop()
	}
	return nil
}
