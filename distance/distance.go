package distance

import (
	"fmt"
	"math"
	"strings"
)

// ErrDimensionMismatch is returned when two vectors of different length are compared.
type ErrDimensionMismatch struct {
	A int
	B int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: %d != %d", e.A, e.B)
}

func checkLen(a, b []float64) error {
	if len(a) != len(b) {
		return &ErrDimensionMismatch{A: len(a), B: len(b)}
	}
	return nil
}

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// SquaredL2 calculates the squared Euclidean distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Norm returns the L2 norm of v.
func Norm(v []float64) float64 {
	return math.Sqrt(Dot(v, v))
}

// maxExp returns the binary exponent e of the largest |component| of the
// given vectors, so every component times 2^-e lies in (-1, 1). ok is
// false when all components are zero.
func maxExp(vs ...[]float64) (e int, ok bool) {
	var m float64
	for _, v := range vs {
		for _, x := range v {
			if ax := math.Abs(x); ax > m {
				m = ax
			}
		}
	}
	if m == 0 {
		return 0, false
	}
	_, e = math.Frexp(m)
	return e, true
}

// scaleFactors splits 2^-e into two finite powers of two. Multiplying by
// a power of two is exact, so scaling changes no bits of the result.
func scaleFactors(e int) (float64, float64) {
	h := -e / 2
	return math.Ldexp(1, h), math.Ldexp(1, -e-h)
}

// Cosine returns the cosine similarity of a and b in [-1, 1].
// It is 0 when either vector has zero norm.
//
// Both vectors are rescaled before squaring, so very large or very small
// finite components neither overflow nor underflow.
func Cosine(a, b []float64) (float64, error) {
	if err := checkLen(a, b); err != nil {
		return 0, err
	}
	ea, okA := maxExp(a)
	eb, okB := maxExp(b)
	if !okA || !okB {
		return 0, nil
	}
	a1, a2 := scaleFactors(ea)
	b1, b2 := scaleFactors(eb)

	var dot, na, nb float64
	for i := range a {
		x := a[i] * a1 * a2
		y := b[i] * b1 * b2
		dot += x * y
		na += x * x
		nb += y * y
	}

	cos := dot / math.Sqrt(na*nb)
	return max(-1, min(1, cos)), nil
}

// Euclidean returns the negated Euclidean distance between a and b.
func Euclidean(a, b []float64) (float64, error) {
	if err := checkLen(a, b); err != nil {
		return 0, err
	}
	e, ok := maxExp(a, b)
	if !ok {
		return 0, nil
	}
	f1, f2 := scaleFactors(e)

	var sum float64
	for i := range a {
		d := a[i]*f1*f2 - b[i]*f1*f2
		sum += d * d
	}
	if sum == 0 {
		return 0, nil
	}
	return -math.Ldexp(math.Sqrt(sum), e), nil
}

// DotProduct returns the dot product of a and b. A product beyond the
// float64 range saturates to ±Inf.
func DotProduct(a, b []float64) (float64, error) {
	if err := checkLen(a, b); err != nil {
		return 0, err
	}
	ea, okA := maxExp(a)
	eb, okB := maxExp(b)
	if !okA || !okB {
		return 0, nil
	}
	a1, a2 := scaleFactors(ea)
	b1, b2 := scaleFactors(eb)

	var sum float64
	for i := range a {
		sum += (a[i] * a1 * a2) * (b[i] * b1 * b2)
	}
	return math.Ldexp(sum, ea+eb), nil
}

// Metric represents the similarity function a collection ranks by.
// The zero value is MetricCosine.
type Metric int

const (
	MetricCosine Metric = iota
	MetricEuclidean
	MetricDot
)

func (m Metric) String() string {
	switch m {
	case MetricCosine:
		return "Cosine"
	case MetricEuclidean:
		return "Euclid"
	case MetricDot:
		return "Dot"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	return m >= MetricCosine && m <= MetricDot
}

// ParseMetric parses a metric name case-insensitively.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cosine":
		return MetricCosine, nil
	case "euclid", "euclidean", "l2":
		return MetricEuclidean, nil
	case "dot":
		return MetricDot, nil
	default:
		return 0, fmt.Errorf("unknown metric %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Metric) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("unknown metric %d", int(m))
	}
	return []byte(strings.ToLower(m.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Metric) UnmarshalText(text []byte) error {
	parsed, err := ParseMetric(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Func is a function type for similarity calculation.
type Func func(a, b []float64) (float64, error)

// Scorer returns the similarity function for the given metric.
func Scorer(m Metric) (Func, error) {
	switch m {
	case MetricCosine:
		return Cosine, nil
	case MetricEuclidean:
		return Euclidean, nil
	case MetricDot:
		return DotProduct, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
