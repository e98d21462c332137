package veccoll_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/hupe1980/veccoll"
	"github.com/hupe1980/veccoll/distance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicMetricsCollector(t *testing.T) {
	ctx := context.Background()
	metrics := &veccoll.BasicMetricsCollector{}
	db := newTestDB(t, veccoll.WithMetricsCollector(metrics))

	require.NoError(t, db.CreateCollection(ctx, "docs", 2, distance.MetricCosine))
	require.Error(t, db.CreateCollection(ctx, "docs", 2, distance.MetricCosine))

	require.NoError(t, db.Upsert(ctx, "docs", []veccoll.Point{
		point(1, []float64{1, 0}, nil),
		point(2, []float64{0, 1}, nil),
	}))
	require.Error(t, db.Upsert(ctx, "docs", []veccoll.Point{point(3, []float64{1}, nil)}))

	_, err := db.Search(ctx, "docs", veccoll.Query{Vector: []float64{1, 0}, Limit: 5})
	require.NoError(t, err)
	_, err = db.Search(ctx, "docs", veccoll.Query{Vector: []float64{1}, Limit: 5})
	require.Error(t, err)

	require.NoError(t, db.DeleteCollection(ctx, "docs"))
	require.NoError(t, db.DeleteCollection(ctx, "docs"))

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.CreateCount)
	assert.Equal(t, int64(1), stats.CreateErrors)
	assert.Equal(t, int64(2), stats.UpsertCount)
	assert.Equal(t, int64(2), stats.UpsertPoints)
	assert.Equal(t, int64(1), stats.UpsertErrors)
	assert.Equal(t, int64(2), stats.SearchCount)
	assert.Equal(t, int64(2), stats.SearchResults)
	assert.Equal(t, int64(1), stats.SearchErrors)
	assert.Equal(t, int64(2), stats.DeleteCount)
	assert.Equal(t, int64(1), stats.DeleteNoops)
	assert.GreaterOrEqual(t, stats.SearchAvgNanos, int64(0))
}

func TestNilObservabilityOptions(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, veccoll.WithMetricsCollector(nil), veccoll.WithLogger(nil))

	require.NoError(t, db.CreateCollection(ctx, "docs", 2, distance.MetricCosine))
	_, err := db.Search(ctx, "docs", veccoll.Query{Vector: []float64{1, 0}, Limit: 1})
	assert.NoError(t, err)
}

func TestLogger(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	logger := veccoll.NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	db := newTestDB(t, veccoll.WithLogger(logger))

	require.NoError(t, db.CreateCollection(ctx, "docs", 2, distance.MetricCosine))
	assert.Contains(t, buf.String(), `"msg":"collection created"`)
	assert.Contains(t, buf.String(), `"collection":"docs"`)
	assert.Contains(t, buf.String(), `"metric":"Cosine"`)

	buf.Reset()
	require.NoError(t, db.Upsert(ctx, "docs", []veccoll.Point{
		point(1, []float64{1, 0}, nil),
		point(1, []float64{0, 1}, nil),
	}))
	assert.Contains(t, buf.String(), `"msg":"upsert completed"`)
	assert.Contains(t, buf.String(), `"added":1`)
	assert.Contains(t, buf.String(), `"replaced":0`)
	assert.Contains(t, buf.String(), `"collection":"docs"`)

	buf.Reset()
	require.NoError(t, db.Upsert(ctx, "docs", []veccoll.Point{
		point(1, []float64{1, 1}, nil),
		point(1, []float64{1, 0}, nil),
		point(2, []float64{0, 1}, nil),
	}))
	assert.Contains(t, buf.String(), `"added":1`)
	assert.Contains(t, buf.String(), `"replaced":1`)

	buf.Reset()
	_, err := db.Search(ctx, "docs", veccoll.Query{Vector: []float64{1}, Limit: 1})
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), `"msg":"search failed"`)

	buf.Reset()
	require.NoError(t, db.DeleteCollection(ctx, "unknown"))
	assert.Contains(t, buf.String(), `"msg":"delete of unknown collection ignored"`)
}

func TestLoggerLevel(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	logger := veccoll.NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	db := newTestDB(t, veccoll.WithLogger(logger.WithCollection("scope")))

	require.NoError(t, db.CreateCollection(ctx, "docs", 2, distance.MetricCosine))
	require.NoError(t, db.Upsert(ctx, "docs", []veccoll.Point{point(1, []float64{1, 0}, nil)}))

	assert.Contains(t, buf.String(), "collection created")
	assert.NotContains(t, buf.String(), "upsert completed")
}
