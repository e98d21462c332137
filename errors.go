package veccoll

import (
	"errors"
	"fmt"

	"github.com/hupe1980/veccoll/distance"
	"github.com/hupe1980/veccoll/internal/resource"
	"github.com/hupe1980/veccoll/metadata"
)

var (
	// ErrCollectionExists is returned when creating a collection whose name is already bound.
	ErrCollectionExists = errors.New("collection already exists")

	// ErrUnknownCollection is returned when a collection name is not bound.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrInvalidCollectionName is returned for an empty collection name.
	ErrInvalidCollectionName = errors.New("invalid collection name")

	// ErrInvalidQuery is returned for a query without a vector or with a malformed filter.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInvalidPointID is returned for a point with ID 0.
	ErrInvalidPointID = errors.New("point id must be positive")

	// ErrInvalidVector is returned for a vector containing NaN or Inf.
	ErrInvalidVector = errors.New("vector components must be finite")

	// ErrInvalidPayload is returned for a payload holding a NaN or infinite
	// float or a value without a kind.
	ErrInvalidPayload = metadata.ErrInvalidValue

	// ErrMemoryLimitExceeded is returned when an upsert would exceed the configured memory limit.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded

	// ErrNotFound is returned when a lookup yields nothing.
	ErrNotFound = errors.New("not found")

	// ErrClosed is returned by operations on a closed DB.
	ErrClosed = errors.New("db is closed")
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrInvalidDimension indicates an invalid configured dimension.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

// ErrInvalidMetric indicates an unsupported distance metric.
type ErrInvalidMetric struct {
	Metric distance.Metric
}

func (e *ErrInvalidMetric) Error() string {
	return fmt.Sprintf("invalid metric: %v", e.Metric)
}

// translateError maps errors of the distance package onto the public error
// contract of this package.
func translateError(err error, expected int) error {
	if err == nil {
		return nil
	}

	var dm *distance.ErrDimensionMismatch
	if errors.As(err, &dm) {
		actual := dm.A
		if actual == expected {
			actual = dm.B
		}
		return &ErrDimensionMismatch{Expected: expected, Actual: actual, cause: err}
	}

	return err
}
