// Package veccoll provides an in-process vector collection store.
//
// A DB owns named collections. Each collection fixes a vector dimension and
// a distance metric at creation, stores points (ID, vector, payload) and
// answers exact k-nearest-neighbor queries, optionally restricted by
// payload equality filters.
//
// # Quick Start
//
//	ctx := context.Background()
//	db, _ := veccoll.Open(ctx)
//	defer db.Close()
//
//	_ = db.DeleteCollection(ctx, "test_collection") // no-op if absent
//	_ = db.CreateCollection(ctx, "test_collection", 4, distance.MetricCosine)
//
//	_ = db.Upsert(ctx, "test_collection", []veccoll.Point{
//	    {ID: 1, Vector: []float64{0.05, 0.61, 0.76, 0.74}, Payload: metadata.Document{"city": metadata.String("Berlin")}},
//	    {ID: 2, Vector: []float64{0.19, 0.81, 0.75, 0.11}, Payload: metadata.Document{"city": metadata.String("London")}},
//	})
//
//	results, _ := db.Search(ctx, "test_collection", veccoll.Query{
//	    Vector: []float64{0.2, 0.1, 0.9, 0.7},
//	    Filter: metadata.NewFilter(metadata.Eq("city", "London")),
//	    Limit:  2,
//	})
//
// # Scores and Ordering
//
// Scores are oriented so that higher is more similar for every metric
// (Euclidean scores are negated distances). Results are sorted by
// descending score and equal scores by ascending ID, so a query is
// reproducible.
//
// # Concurrency
//
// All methods are safe for concurrent use. Collections are independent;
// within one collection searches run in parallel and an upsert batch is
// applied atomically with respect to them.
//
// # Limits
//
// WithMemoryLimit bounds stored vector memory, WithMaxConcurrentSearches
// and WithSearchRateLimit bound search load. Config files can be loaded
// with LoadConfig.
package veccoll
