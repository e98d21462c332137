package metadata

import (
	"encoding/json"
	"fmt"
	"math"
)

// FromAny converts a Go value into a typed Value.
//
// This exists as an adapter layer for user input such as decoded JSON.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case float64:
		return fromFloat64(x)
	case float32:
		return fromFloat64(float64(x))
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return fromUint64(uint64(x))
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return fromUint64(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid payload number %q: %w", x, err)
		}
		return Float(f), nil
	default:
		return Value{}, fmt.Errorf("unsupported payload value type %T", v)
	}
}

func fromFloat64(x float64) (Value, error) {
	v := Float(x)
	if err := v.Validate(); err != nil {
		return Value{}, err
	}
	return v, nil
}

func fromUint64(x uint64) (Value, error) {
	if x > math.MaxInt64 {
		// Avoid silently wrapping large values.
		return Value{}, fmt.Errorf("payload uint64 out of range: %d", x)
	}
	return Int(int64(x)), nil
}

// DocumentFromAny converts a map[string]any document to a typed Document.
func DocumentFromAny(m map[string]any) (Document, error) {
	if m == nil {
		return nil, nil
	}
	d := make(Document, len(m))
	for k, v := range m {
		vv, err := FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		d[k] = vv
	}
	return d, nil
}

// MustDocument is like DocumentFromAny but panics on error.
// Use it for literals in tests and examples.
func MustDocument(m map[string]any) Document {
	d, err := DocumentFromAny(m)
	if err != nil {
		panic(err)
	}
	return d
}
