// Package testutil provides testing utilities for veccoll.
//
// This package is intended for use in tests, examples and benchmarks only.
// It provides helpers for generating random vectors, computing exact
// ground-truth rankings and the fixed city demo dataset.
//
//	rng := testutil.NewRNG(seed)
//	vectors := rng.UnitVectors(1000, 64)
//	truth, _ := testutil.ExactTopK(query, vectors, 10, distance.Cosine)
package testutil
