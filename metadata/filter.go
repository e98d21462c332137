package metadata

import (
	"fmt"
	"strings"
)

// Condition is a single equality check against a payload key.
type Condition struct {
	Key   string `json:"key"`
	Value Value  `json:"value"`
}

// Eq builds an equality condition. The value is normalized through FromAny;
// unsupported or non-finite values yield an invalid condition that
// Filter.Validate rejects.
func Eq(key string, value any) Condition {
	v, err := FromAny(value)
	if err != nil {
		v = Value{}
	}
	return Condition{Key: key, Value: v}
}

// Matches checks if the provided payload satisfies this condition.
func (c Condition) Matches(doc Document) bool {
	value, exists := doc[c.Key]
	if !exists {
		return false
	}
	return compareEqual(value, c.Value)
}

func (c Condition) String() string {
	return fmt.Sprintf("%s = %s", c.Key, c.Value)
}

// Filter is a conjunction of equality conditions.
// A nil or empty filter matches every payload.
type Filter struct {
	Conditions []Condition `json:"must"`
}

// NewFilter creates a filter that requires all conditions to hold.
func NewFilter(conds ...Condition) *Filter {
	return &Filter{Conditions: conds}
}

// MustFilter is like NewFilter but panics if a condition is invalid.
// Use it for literals in tests and examples.
func MustFilter(conds ...Condition) *Filter {
	f := NewFilter(conds...)
	if err := f.Validate(); err != nil {
		panic(err)
	}
	return f
}

// IsEmpty reports whether the filter has no conditions.
func (f *Filter) IsEmpty() bool {
	return f == nil || len(f.Conditions) == 0
}

// Matches checks if the provided payload matches all conditions.
func (f *Filter) Matches(doc Document) bool {
	if f == nil {
		return true
	}
	for _, c := range f.Conditions {
		if !c.Matches(doc) {
			return false
		}
	}
	return true
}

// Validate rejects conditions that can never be evaluated meaningfully.
func (f *Filter) Validate() error {
	if f == nil {
		return nil
	}
	for i, c := range f.Conditions {
		if c.Key == "" {
			return fmt.Errorf("condition[%d]: empty key", i)
		}
		if c.Value.Kind == KindInvalid {
			return fmt.Errorf("condition[%d]: %w for key %q", i, ErrInvalidValue, c.Key)
		}
	}
	return nil
}

func (f *Filter) String() string {
	if f.IsEmpty() {
		return "<all>"
	}
	parts := make([]string, len(f.Conditions))
	for i, c := range f.Conditions {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}

// compareEqual compares two values for equality.
// Kind mismatches other than int/float never match.
func compareEqual(a, b Value) bool {
	if a.Kind == KindInvalid || b.Kind == KindInvalid {
		return false
	}
	if a.Kind == KindNull && b.Kind == KindNull {
		return true
	}
	if a.Kind == KindNull || b.Kind == KindNull {
		return false
	}

	if isNumber(a) && isNumber(b) {
		// Prefer exact int compare when possible.
		if a.Kind == KindInt && b.Kind == KindInt {
			return a.I64 == b.I64
		}
		return asFloat64(a) == asFloat64(b)
	}

	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindString:
		return a.s == b.s
	case KindBool:
		return a.B == b.B
	default:
		return false
	}
}

func isNumber(v Value) bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

func asFloat64(v Value) float64 {
	switch v.Kind {
	case KindInt:
		return float64(v.I64)
	case KindFloat:
		return v.F64
	default:
		return 0
	}
}
