package veccoll

import (
	"slices"

	"github.com/hupe1980/veccoll/distance"
	"github.com/hupe1980/veccoll/metadata"
)

// Point is a record of a collection: a positive ID, a vector of the
// collection's dimension and an optional payload.
type Point struct {
	ID      uint64            `json:"id" msgpack:"id"`
	Vector  []float64         `json:"vector" msgpack:"vector"`
	Payload metadata.Document `json:"payload,omitempty" msgpack:"payload,omitempty"`
}

// NewPoint builds a Point from a plain payload map such as decoded JSON.
func NewPoint(id uint64, vector []float64, payload map[string]any) (Point, error) {
	doc, err := metadata.DocumentFromAny(payload)
	if err != nil {
		return Point{}, err
	}
	return Point{ID: id, Vector: vector, Payload: doc}, nil
}

func (p Point) clone() Point {
	return Point{
		ID:      p.ID,
		Vector:  slices.Clone(p.Vector),
		Payload: p.Payload.Clone(),
	}
}

// ScoredPoint is a search hit. Higher scores are more similar for every metric.
type ScoredPoint struct {
	ID      uint64            `json:"id" msgpack:"id"`
	Score   float64           `json:"score" msgpack:"score"`
	Payload metadata.Document `json:"payload,omitempty" msgpack:"payload,omitempty"`
	Vector  []float64         `json:"vector,omitempty" msgpack:"vector,omitempty"`
}

// Query describes a k-nearest-neighbor search.
type Query struct {
	// Vector must have the collection's dimension.
	Vector []float64

	// Filter restricts candidates to payloads matching every condition.
	// nil matches all points.
	Filter *metadata.Filter

	// Limit is the maximum number of results. Limit <= 0 yields no results.
	Limit int

	// ScoreThreshold, if set, drops results scoring below it.
	ScoreThreshold *float64

	// WithVectors includes stored vectors in the results.
	WithVectors bool
}

// CollectionInfo describes a collection.
type CollectionInfo struct {
	Name       string          `json:"name"`
	Dimension  int             `json:"dimension"`
	Metric     distance.Metric `json:"metric"`
	PointCount int             `json:"point_count"`

	// PayloadFields is the number of distinct payload keys indexed for filtering.
	PayloadFields int `json:"payload_fields"`

	// IndexBytes is the serialized size of the payload index.
	IndexBytes uint64 `json:"index_bytes"`
}
