package veccoll

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/veccoll/distance"
	"github.com/hupe1980/veccoll/metadata"
)

// Collection is a named set of points sharing one dimension and metric.
//
// Reads (Get, Search) run concurrently; an Upsert or Delete holds the write
// lock for its whole validate-then-apply step, so a search observes either
// the complete state before a batch or the complete state after it.
type Collection struct {
	name   string
	dim    int
	metric distance.Metric
	score  distance.Func
	db     *DB
	logger *Logger

	mu      sync.RWMutex
	points  map[uint64]Point
	index   *metadata.Index
	dropped bool
}

func newCollection(db *DB, name string, dim int, metric distance.Metric) (*Collection, error) {
	score, err := distance.Scorer(metric)
	if err != nil {
		return nil, &ErrInvalidMetric{Metric: metric}
	}
	return &Collection{
		name:   name,
		dim:    dim,
		metric: metric,
		score:  score,
		db:     db,
		logger: db.logger.WithCollection(name),
		points: make(map[uint64]Point),
		index:  metadata.NewIndex(),
	}, nil
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// Dimension returns the vector dimension fixed at creation.
func (c *Collection) Dimension() int { return c.dim }

// Metric returns the distance metric fixed at creation.
func (c *Collection) Metric() distance.Metric { return c.metric }

// Len returns the number of stored points.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.points)
}

// Info returns a description of the collection.
func (c *Collection) Info() CollectionInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := c.index.GetStats()
	return CollectionInfo{
		Name:          c.name,
		Dimension:     c.dim,
		Metric:        c.metric,
		PointCount:    len(c.points),
		PayloadFields: stats.FieldCount,
		IndexBytes:    stats.MemoryBytes,
	}
}

func (c *Collection) vectorBytes(n int) int64 {
	return int64(n) * int64(c.dim) * 8
}

func (c *Collection) validatePoint(p Point) error {
	if p.ID == 0 {
		return ErrInvalidPointID
	}
	if len(p.Vector) != c.dim {
		return &ErrDimensionMismatch{Expected: c.dim, Actual: len(p.Vector)}
	}
	if !finite(p.Vector) {
		return ErrInvalidVector
	}
	return p.Payload.Validate()
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// Upsert inserts points, replacing any stored point with the same ID.
//
// Every point is validated before anything is written: if one point is
// invalid the whole batch is rejected and the collection is unchanged.
// Within a batch the last point for an ID wins.
func (c *Collection) Upsert(ctx context.Context, points []Point) (err error) {
	start := time.Now()
	added, replaced := 0, 0
	defer func() {
		c.db.metrics.RecordUpsert(len(points), time.Since(start), err)
		c.logger.LogUpsert(ctx, len(points), added, replaced, err)
	}()

	for i, p := range points {
		if verr := c.validatePoint(p); verr != nil {
			return fmt.Errorf("collection %q: point[%d] (id %d): %w", c.name, i, p.ID, verr)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dropped {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, c.name)
	}

	fresh := make(map[uint64]struct{})
	existing := make(map[uint64]struct{})
	for _, p := range points {
		if _, ok := c.points[p.ID]; ok {
			existing[p.ID] = struct{}{}
		} else {
			fresh[p.ID] = struct{}{}
		}
	}

	if merr := c.db.rc.AcquireMemory(c.vectorBytes(len(fresh))); merr != nil {
		return fmt.Errorf("collection %q: %w", c.name, merr)
	}
	added, replaced = len(fresh), len(existing)

	for _, p := range points {
		stored := p.clone()
		if old, ok := c.points[p.ID]; ok {
			c.index.Replace(p.ID, old.Payload, stored.Payload)
		} else {
			c.index.Add(p.ID, stored.Payload)
		}
		c.points[p.ID] = stored
	}

	return nil
}

// Get returns a copy of the point stored under id.
func (c *Collection) Get(_ context.Context, id uint64) (Point, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.points[id]
	if !ok {
		return Point{}, false
	}
	return p.clone(), true
}

// Delete removes the given points and returns how many existed.
func (c *Collection) Delete(_ context.Context, ids ...uint64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, id := range ids {
		p, ok := c.points[id]
		if !ok {
			continue
		}
		c.index.Remove(id, p.Payload)
		delete(c.points, id)
		removed++
	}
	c.db.rc.ReleaseMemory(c.vectorBytes(removed))
	return removed
}

// drop releases all points. Later writes fail with ErrUnknownCollection.
func (c *Collection) drop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.db.rc.ReleaseMemory(c.vectorBytes(len(c.points)))
	c.points = make(map[uint64]Point)
	c.index = metadata.NewIndex()
	c.dropped = true
}

// IDs returns the stored point IDs in ascending order.
func (c *Collection) IDs() []uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]uint64, 0, len(c.points))
	for id := range c.points {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
