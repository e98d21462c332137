package veccoll_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/veccoll"
	"github.com/hupe1980/veccoll/distance"
	"github.com/hupe1980/veccoll/metadata"
)

// Example demonstrates creating a collection, upserting points and searching.
func Example() {
	ctx := context.Background()

	db, err := veccoll.Open(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Deleting an unknown collection is a no-op.
	_ = db.DeleteCollection(ctx, "test_collection")

	if err := db.CreateCollection(ctx, "test_collection", 4, distance.MetricCosine); err != nil {
		log.Fatal(err)
	}

	err = db.Upsert(ctx, "test_collection", []veccoll.Point{
		{ID: 1, Vector: []float64{1, 0, 0, 0}, Payload: metadata.MustDocument(map[string]any{"city": "Berlin"})},
		{ID: 2, Vector: []float64{0, 1, 0, 0}, Payload: metadata.MustDocument(map[string]any{"city": "London"})},
	})
	if err != nil {
		log.Fatal(err)
	}

	results, err := db.Search(ctx, "test_collection", veccoll.Query{
		Vector: []float64{1, 0, 0, 0},
		Limit:  1,
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, r := range results {
		fmt.Printf("id=%d score=%.2f city=%s\n", r.ID, r.Score, r.Payload["city"])
	}
	// Output: id=1 score=1.00 city="Berlin"
}

// Example_filter demonstrates a payload-filtered search with the fluent builder.
func Example_filter() {
	ctx := context.Background()

	db, err := veccoll.Open(ctx, veccoll.WithCollections(veccoll.CollectionConfig{
		Name:      "test_collection",
		Dimension: 4,
		Metric:    distance.MetricCosine,
	}))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	p1, _ := veccoll.NewPoint(1, []float64{1, 0, 0, 0}, map[string]any{"city": "Berlin"})
	p2, _ := veccoll.NewPoint(2, []float64{0, 1, 0, 0}, map[string]any{"city": "London"})
	if err := db.Upsert(ctx, "test_collection", []veccoll.Point{p1, p2}); err != nil {
		log.Fatal(err)
	}

	results, err := db.Query("test_collection", []float64{1, 0, 0, 0}).
		Limit(2).
		Where("city", "London").
		Execute(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(len(results), results[0].ID)
	// Output: 1 2
}

// Example_metrics demonstrates collecting operation metrics.
func Example_metrics() {
	ctx := context.Background()
	metrics := &veccoll.BasicMetricsCollector{}

	db, _ := veccoll.Open(ctx, veccoll.WithMetricsCollector(metrics))
	defer db.Close()

	_ = db.CreateCollection(ctx, "docs", 2, distance.MetricDot)
	_ = db.Upsert(ctx, "docs", []veccoll.Point{{ID: 1, Vector: []float64{1, 2}}})
	_, _ = db.Search(ctx, "docs", veccoll.Query{Vector: []float64{1, 0}, Limit: 3})

	stats := metrics.GetStats()
	fmt.Printf("upserts=%d searches=%d results=%d\n", stats.UpsertCount, stats.SearchCount, stats.SearchResults)
	// Output: upserts=1 searches=1 results=1
}
