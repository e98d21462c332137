package testutil

import (
	"math"
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/veccoll/distance"
)

// SearchResult represents a ground-truth search result.
type SearchResult struct {
	ID    uint64
	Score float64
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// UniformVectors generates random vectors with values in range [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformVectors(num int, dimensions int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dimensions)
	vectors := make([][]float64, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float64()
		}
		vectors[i] = vec
	}

	return vectors
}

// UnitVectors generates L2-normalized random vectors (on the hypersphere).
func (r *RNG) UnitVectors(num int, dimensions int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	vectors := make([][]float64, num)
	for i := range num {
		vec := make([]float64, dimensions)
		var norm float64
		for j := range vec {
			v := r.rand.NormFloat64()
			vec[j] = v
			norm += v * v
		}

		if norm == 0 {
			norm = 1
		}

		inv := 1.0 / math.Sqrt(norm)
		for j := range vec {
			vec[j] *= inv
		}
		vectors[i] = vec
	}

	return vectors
}

// QuantizedVectors generates vectors whose components are drawn from a few
// discrete levels, so many points share exactly the same score.
func (r *RNG) QuantizedVectors(num, dimensions, levels int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	vectors := make([][]float64, num)
	for i := range num {
		vec := make([]float64, dimensions)
		for j := range vec {
			vec[j] = float64(r.rand.Intn(levels)) / float64(levels)
		}
		vectors[i] = vec
	}
	return vectors
}

// ExactTopK ranks every vector against query by full sort: score
// descending, ties by ascending ID. IDs are index+1.
func ExactTopK(query []float64, dataset [][]float64, k int, fn distance.Func) ([]SearchResult, error) {
	all := make([]SearchResult, 0, len(dataset))
	for i, v := range dataset {
		s, err := fn(query, v)
		if err != nil {
			return nil, err
		}
		all = append(all, SearchResult{ID: uint64(i + 1), Score: s})
	}

	slices.SortStableFunc(all, func(a, b SearchResult) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	if k < 0 {
		k = 0
	}
	return all[:min(k, len(all))], nil
}

// City is a labeled 4-dimensional point of the demo dataset.
type City struct {
	ID     uint64
	Vector []float64
	City   string
}

// Cities returns the fixed 15-city demo dataset.
func Cities() []City {
	return []City{
		{1, []float64{0.05, 0.61, 0.76, 0.74}, "Berlin"},
		{2, []float64{0.19, 0.81, 0.75, 0.11}, "London"},
		{3, []float64{0.12, 0.72, 0.69, 0.33}, "Paris"},
		{4, []float64{0.42, 0.21, 0.54, 0.85}, "New York"},
		{5, []float64{0.91, 0.62, 0.34, 0.25}, "Tokyo"},
		{6, []float64{0.34, 0.81, 0.91, 0.43}, "Sydney"},
		{7, []float64{0.76, 0.11, 0.27, 0.64}, "Moscow"},
		{8, []float64{0.28, 0.39, 0.15, 0.79}, "Beijing"},
		{9, []float64{0.67, 0.44, 0.52, 0.18}, "Rio de Janeiro"},
		{10, []float64{0.56, 0.73, 0.94, 0.27}, "Cape Town"},
		{11, []float64{0.33, 0.98, 0.54, 0.12}, "Mumbai"},
		{12, []float64{0.88, 0.44, 0.31, 0.67}, "Los Angeles"},
		{13, []float64{0.29, 0.55, 0.71, 0.22}, "Chicago"},
		{14, []float64{0.45, 0.79, 0.88, 0.33}, "Toronto"},
		{15, []float64{0.65, 0.30, 0.48, 0.91}, "Vancouver"},
	}
}
