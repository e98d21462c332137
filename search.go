package veccoll

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/veccoll/internal/queue"
	"github.com/hupe1980/veccoll/metadata"
	"golang.org/x/sync/errgroup"
)

// cancelCheckInterval is how many candidates are scored between context checks.
const cancelCheckInterval = 1024

// Search returns the query.Limit points most similar to query.Vector among
// those whose payload matches query.Filter.
//
// Results are ordered by descending score; equal scores are ordered by
// ascending ID, so repeated queries return identical sequences.
func (c *Collection) Search(ctx context.Context, q Query) (results []ScoredPoint, err error) {
	start := time.Now()
	defer func() {
		c.db.metrics.RecordSearch(q.Limit, len(results), time.Since(start), err)
		c.logger.LogSearch(ctx, q.Limit, len(results), err)
	}()

	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("collection %q: %w: missing vector", c.name, ErrInvalidQuery)
	}
	if len(q.Vector) != c.dim {
		return nil, fmt.Errorf("collection %q: query: %w", c.name,
			&ErrDimensionMismatch{Expected: c.dim, Actual: len(q.Vector)})
	}
	if !finite(q.Vector) {
		return nil, fmt.Errorf("collection %q: %w: %w", c.name, ErrInvalidQuery, ErrInvalidVector)
	}
	if ferr := q.Filter.Validate(); ferr != nil {
		return nil, fmt.Errorf("collection %q: %w: %w", c.name, ErrInvalidQuery, ferr)
	}
	if q.Limit <= 0 {
		return []ScoredPoint{}, nil
	}

	if aerr := c.db.rc.AcquireSearch(ctx); aerr != nil {
		return nil, fmt.Errorf("collection %q: %w", c.name, aerr)
	}
	defer c.db.rc.ReleaseSearch()

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.dropped {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, c.name)
	}

	candidates := c.candidatesLocked(q.Filter)

	top, err := c.rank(ctx, q, candidates)
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", c.name, err)
	}

	ranked := top.Sorted()
	results = make([]ScoredPoint, len(ranked))
	for i, item := range ranked {
		p := c.points[item.ID]
		results[i] = ScoredPoint{
			ID:      item.ID,
			Score:   item.Score,
			Payload: p.Payload.Clone(),
		}
		if q.WithVectors {
			results[i].Vector = p.clone().Vector
		}
	}
	return results, nil
}

// candidatesLocked returns the points whose payload matches f.
// Caller must hold c.mu.
func (c *Collection) candidatesLocked(f *metadata.Filter) []Point {
	bm, ok := c.index.Candidates(f)
	if !ok {
		out := make([]Point, 0, len(c.points))
		for _, p := range c.points {
			out = append(out, p)
		}
		return out
	}

	out := make([]Point, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		p, exists := c.points[it.Next()]
		if exists && f.Matches(p.Payload) {
			out = append(out, p)
		}
	}
	return out
}

// rank scores candidates and keeps the best q.Limit of them. Large
// candidate sets are split into partitions scored concurrently; the
// ordering is total, so the merged result does not depend on scheduling.
func (c *Collection) rank(ctx context.Context, q Query, candidates []Point) (*queue.TopK, error) {
	parts := 1
	threshold := c.db.opts.parallelThreshold
	if threshold > 0 && len(candidates) > threshold {
		parts = min(c.db.opts.maxParallelism, (len(candidates)+threshold-1)/threshold)
	}

	if parts <= 1 {
		top := queue.NewTopK(q.Limit)
		return top, c.scoreInto(ctx, q, candidates, top)
	}

	chunk := (len(candidates) + parts - 1) / parts
	tops := make([]*queue.TopK, parts)

	g, gctx := errgroup.WithContext(ctx)
	for i := range parts {
		lo := i * chunk
		hi := min(lo+chunk, len(candidates))
		tops[i] = queue.NewTopK(q.Limit)
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			return c.scoreInto(gctx, q, candidates[lo:hi], tops[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	top := tops[0]
	for _, t := range tops[1:] {
		top.Merge(t)
	}
	return top, nil
}

func (c *Collection) scoreInto(ctx context.Context, q Query, candidates []Point, top *queue.TopK) error {
	for i, p := range candidates {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		score, err := c.score(q.Vector, p.Vector)
		if err != nil {
			return translateError(err, c.dim)
		}
		if q.ScoreThreshold != nil && score < *q.ScoreThreshold {
			continue
		}
		top.Push(queue.Item{ID: p.ID, Score: score})
	}
	return nil
}

// SearchBuilder is a fluent builder for constructing search queries.
type SearchBuilder struct {
	db         *DB
	collection string
	query      Query
	conds      []metadata.Condition
}

// Query creates a new fluent search builder against the named collection.
//
// Example:
//
//	results, err := db.Query("test_collection", []float64{0.2, 0.1, 0.9, 0.7}).
//	    Limit(2).
//	    Where("city", "London").
//	    Execute(ctx)
func (db *DB) Query(collection string, vector []float64) *SearchBuilder {
	return &SearchBuilder{
		db:         db,
		collection: collection,
		query: Query{
			Vector: vector,
			Limit:  10, // Default limit
		},
	}
}

// Limit sets the number of nearest neighbors to return.
func (sb *SearchBuilder) Limit(n int) *SearchBuilder {
	sb.query.Limit = n
	return sb
}

// Filter sets the payload filter. Conditions added with Where are combined with it.
func (sb *SearchBuilder) Filter(f *metadata.Filter) *SearchBuilder {
	sb.query.Filter = f
	return sb
}

// Where adds an equality condition on a payload key.
func (sb *SearchBuilder) Where(key string, value any) *SearchBuilder {
	sb.conds = append(sb.conds, metadata.Eq(key, value))
	return sb
}

// ScoreThreshold drops results scoring below s.
func (sb *SearchBuilder) ScoreThreshold(s float64) *SearchBuilder {
	sb.query.ScoreThreshold = &s
	return sb
}

// WithVectors includes stored vectors in the results.
func (sb *SearchBuilder) WithVectors() *SearchBuilder {
	sb.query.WithVectors = true
	return sb
}

func (sb *SearchBuilder) build() Query {
	q := sb.query
	if len(sb.conds) > 0 {
		var conds []metadata.Condition
		if q.Filter != nil {
			conds = append(conds, q.Filter.Conditions...)
		}
		q.Filter = metadata.NewFilter(append(conds, sb.conds...)...)
	}
	return q
}

// Execute runs the search and returns the results.
func (sb *SearchBuilder) Execute(ctx context.Context) ([]ScoredPoint, error) {
	return sb.db.Search(ctx, sb.collection, sb.build())
}

// First returns only the best result, or ErrNotFound if nothing matches.
func (sb *SearchBuilder) First(ctx context.Context) (ScoredPoint, error) {
	sb.query.Limit = 1
	results, err := sb.Execute(ctx)
	if err != nil {
		return ScoredPoint{}, err
	}
	if len(results) == 0 {
		return ScoredPoint{}, ErrNotFound
	}
	return results[0], nil
}
