package veccoll_test

import (
	"context"
	"math"
	"testing"

	"github.com/hupe1980/veccoll"
	"github.com/hupe1980/veccoll/distance"
	"github.com/hupe1980/veccoll/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCollection(t *testing.T, dim int, metric distance.Metric, opts ...veccoll.Option) (*veccoll.DB, *veccoll.Collection) {
	t.Helper()

	db := newTestDB(t, opts...)
	require.NoError(t, db.CreateCollection(context.Background(), "test", dim, metric))
	c, ok := db.Collection("test")
	require.True(t, ok)
	return db, c
}

func TestUpsert(t *testing.T) {
	ctx := context.Background()

	t.Run("InsertAndReplace", func(t *testing.T) {
		_, c := newTestCollection(t, 2, distance.MetricCosine)

		require.NoError(t, c.Upsert(ctx, []veccoll.Point{
			point(1, []float64{1, 0}, map[string]any{"city": "Berlin"}),
			point(2, []float64{0, 1}, map[string]any{"city": "London"}),
		}))
		assert.Equal(t, 2, c.Len())

		require.NoError(t, c.Upsert(ctx, []veccoll.Point{
			point(1, []float64{0.5, 0.5}, map[string]any{"city": "Paris"}),
		}))
		assert.Equal(t, 2, c.Len())

		p, ok := c.Get(ctx, 1)
		require.True(t, ok)
		assert.Equal(t, []float64{0.5, 0.5}, p.Vector)
		assert.Equal(t, map[string]any{"city": "Paris"}, p.Payload.ToAny())

		// The old payload no longer matches a filter.
		res, err := c.Search(ctx, veccoll.Query{
			Vector: []float64{1, 0},
			Filter: metadata.NewFilter(metadata.Eq("city", "Berlin")),
			Limit:  5,
		})
		require.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("LastWinsWithinBatch", func(t *testing.T) {
		_, c := newTestCollection(t, 2, distance.MetricCosine)

		require.NoError(t, c.Upsert(ctx, []veccoll.Point{
			point(1, []float64{1, 0}, map[string]any{"v": 1}),
			point(1, []float64{0, 1}, map[string]any{"v": 2}),
		}))

		assert.Equal(t, 1, c.Len())
		p, ok := c.Get(ctx, 1)
		require.True(t, ok)
		assert.Equal(t, []float64{0, 1}, p.Vector)
		assert.Equal(t, metadata.Int(2), p.Payload["v"])
	})

	t.Run("DimensionMismatchRejectsBatch", func(t *testing.T) {
		_, c := newTestCollection(t, 4, distance.MetricCosine)

		require.NoError(t, c.Upsert(ctx, []veccoll.Point{point(1, []float64{1, 0, 0, 0}, nil)}))

		err := c.Upsert(ctx, []veccoll.Point{
			point(1, []float64{0, 1, 0, 0}, nil),
			point(2, []float64{0, 0, 1, 0}, nil),
			point(3, []float64{0, 0, 1}, nil),
		})

		var dimErr *veccoll.ErrDimensionMismatch
		require.ErrorAs(t, err, &dimErr)
		assert.Equal(t, 4, dimErr.Expected)
		assert.Equal(t, 3, dimErr.Actual)

		// Nothing of the batch was applied.
		assert.Equal(t, []uint64{1}, c.IDs())
		p, _ := c.Get(ctx, 1)
		assert.Equal(t, []float64{1, 0, 0, 0}, p.Vector)
	})

	t.Run("InvalidPointID", func(t *testing.T) {
		_, c := newTestCollection(t, 2, distance.MetricCosine)

		err := c.Upsert(ctx, []veccoll.Point{
			point(1, []float64{1, 0}, nil),
			point(0, []float64{0, 1}, nil),
		})
		assert.ErrorIs(t, err, veccoll.ErrInvalidPointID)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("NonFiniteVector", func(t *testing.T) {
		_, c := newTestCollection(t, 2, distance.MetricCosine)

		for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			err := c.Upsert(ctx, []veccoll.Point{point(1, []float64{v, 0}, nil)})
			assert.ErrorIs(t, err, veccoll.ErrInvalidVector)
		}
		assert.Equal(t, 0, c.Len())
	})

	t.Run("EmptyBatch", func(t *testing.T) {
		_, c := newTestCollection(t, 2, distance.MetricCosine)

		assert.NoError(t, c.Upsert(ctx, nil))
		assert.Equal(t, 0, c.Len())
	})

	t.Run("NonFinitePayload", func(t *testing.T) {
		_, c := newTestCollection(t, 2, distance.MetricCosine)
		require.NoError(t, c.Upsert(ctx, []veccoll.Point{
			point(1, []float64{1, 0}, map[string]any{"x": 1.0}),
		}))

		for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			err := c.Upsert(ctx, []veccoll.Point{
				point(2, []float64{0, 1}, nil),
				{ID: 1, Vector: []float64{0, 1}, Payload: metadata.Document{"x": metadata.Float(f)}},
			})
			require.ErrorIs(t, err, veccoll.ErrInvalidPayload)
		}

		assert.Equal(t, 1, c.Len())
		p, ok := c.Get(ctx, 1)
		require.True(t, ok)
		assert.Equal(t, []float64{1, 0}, p.Vector)
		assert.Equal(t, metadata.Float(1), p.Payload["x"])
	})

	t.Run("InfoReportsIndex", func(t *testing.T) {
		_, c := newTestCollection(t, 2, distance.MetricCosine)
		require.NoError(t, c.Upsert(ctx, []veccoll.Point{
			point(1, []float64{1, 0}, map[string]any{"city": "Berlin", "year": 2024}),
			point(2, []float64{0, 1}, map[string]any{"city": "London"}),
		}))

		info := c.Info()
		assert.Equal(t, 2, info.PointCount)
		assert.Equal(t, 2, info.PayloadFields)
		assert.Positive(t, info.IndexBytes)
	})

	t.Run("CallerMutationDoesNotLeak", func(t *testing.T) {
		_, c := newTestCollection(t, 2, distance.MetricCosine)

		vec := []float64{1, 0}
		doc := metadata.Document{"k": metadata.String("a")}
		require.NoError(t, c.Upsert(ctx, []veccoll.Point{{ID: 1, Vector: vec, Payload: doc}}))

		vec[0] = 9
		doc["k"] = metadata.String("b")

		p, _ := c.Get(ctx, 1)
		assert.Equal(t, []float64{1, 0}, p.Vector)
		assert.Equal(t, metadata.String("a"), p.Payload["k"])

		p.Vector[1] = 7
		again, _ := c.Get(ctx, 1)
		assert.Equal(t, []float64{1, 0}, again.Vector)
	})
}

func TestMemoryLimit(t *testing.T) {
	ctx := context.Background()

	// Two 4-dimensional points.
	db, c := newTestCollection(t, 4, distance.MetricCosine, veccoll.WithMemoryLimit(64))

	require.NoError(t, c.Upsert(ctx, []veccoll.Point{
		point(1, []float64{1, 0, 0, 0}, nil),
		point(2, []float64{0, 1, 0, 0}, nil),
	}))
	assert.Equal(t, int64(64), db.MemoryUsage())

	err := c.Upsert(ctx, []veccoll.Point{
		point(2, []float64{0, 0, 1, 0}, nil),
		point(3, []float64{0, 0, 0, 1}, nil),
	})
	assert.ErrorIs(t, err, veccoll.ErrMemoryLimitExceeded)
	assert.Equal(t, []uint64{1, 2}, c.IDs())
	p, _ := c.Get(ctx, 2)
	assert.Equal(t, []float64{0, 1, 0, 0}, p.Vector)

	// Replacing stored points needs no new memory.
	require.NoError(t, c.Upsert(ctx, []veccoll.Point{point(2, []float64{0, 0, 1, 0}, nil)}))

	assert.Equal(t, 1, c.Delete(ctx, 1))
	assert.Equal(t, int64(32), db.MemoryUsage())
	require.NoError(t, c.Upsert(ctx, []veccoll.Point{point(3, []float64{0, 0, 0, 1}, nil)}))

	require.NoError(t, db.DeleteCollection(ctx, "test"))
	assert.Equal(t, int64(0), db.MemoryUsage())
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	_, c := newTestCollection(t, 2, distance.MetricCosine)

	require.NoError(t, c.Upsert(ctx, []veccoll.Point{
		point(1, []float64{1, 0}, map[string]any{"city": "London"}),
		point(2, []float64{0, 1}, map[string]any{"city": "London"}),
		point(3, []float64{1, 1}, map[string]any{"city": "Paris"}),
	}))

	assert.Equal(t, 2, c.Delete(ctx, 1, 3, 99))
	assert.Equal(t, 0, c.Delete(ctx, 1))
	assert.Equal(t, []uint64{2}, c.IDs())

	res, err := c.Search(ctx, veccoll.Query{
		Vector: []float64{1, 0},
		Filter: metadata.NewFilter(metadata.Eq("city", "London")),
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, uint64(2), res[0].ID)
}

func TestNewPoint(t *testing.T) {
	p, err := veccoll.NewPoint(3, []float64{1, 2}, map[string]any{"city": "Berlin", "pop": 3.6})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), p.ID)
	assert.Equal(t, metadata.String("Berlin"), p.Payload["city"])
	assert.Equal(t, metadata.Float(3.6), p.Payload["pop"])

	_, err = veccoll.NewPoint(3, []float64{1, 2}, map[string]any{"tags": []string{"a"}})
	assert.Error(t, err)

	_, err = veccoll.NewPoint(3, []float64{1, 2}, map[string]any{"pop": math.NaN()})
	assert.ErrorIs(t, err, veccoll.ErrInvalidPayload)
}
