package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"unique"

	"github.com/vmihailenco/msgpack/v5"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindNull represents a null value.
	KindNull
	// KindInt represents an integer value.
	KindInt
	// KindFloat represents a float value.
	KindFloat
	// KindString represents a string value.
	KindString
	// KindBool represents a boolean value.
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "invalid"
	}
}

// ErrInvalidValue is returned for a payload value that cannot be stored:
// one without a kind, or a NaN or infinite float.
var ErrInvalidValue = errors.New("invalid payload value")

// Value is a small typed scalar used for payload documents and filters.
//
// No reflection and no fmt-based stringification on the filter path.
// The serialized forms carry the kind, so a Value always decodes to the
// kind it was encoded with.
type Value struct {
	Kind Kind                  `json:"k"`
	I64  int64                 `json:"i,omitempty"`
	F64  float64               `json:"f,omitempty"`
	s    unique.Handle[string] `json:"-"` // Private interned string
	B    bool                  `json:"b,omitempty"`
}

// StringValue returns the string value if Kind is KindString, otherwise empty string.
func (v Value) StringValue() string {
	if v.Kind == KindString {
		return v.s.Value()
	}
	return ""
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	type Alias Value
	aux := &struct {
		S string `json:"s,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(&v),
	}
	if v.Kind == KindString {
		aux.S = v.s.Value()
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	type Alias Value
	aux := &struct {
		S string `json:"s,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(v),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if v.Kind == KindString {
		v.s = unique.Make(aux.S)
	}
	return nil
}

type msgpackValue struct {
	K Kind    `msgpack:"k"`
	I int64   `msgpack:"i,omitempty"`
	F float64 `msgpack:"f,omitempty"`
	S string  `msgpack:"s,omitempty"`
	B bool    `msgpack:"b,omitempty"`
}

// MarshalMsgpack implements msgpack.Marshaler.
func (v Value) MarshalMsgpack() ([]byte, error) {
	return msgpack.Marshal(msgpackValue{
		K: v.Kind,
		I: v.I64,
		F: v.F64,
		S: v.StringValue(),
		B: v.B,
	})
}

// UnmarshalMsgpack implements msgpack.Unmarshaler.
func (v *Value) UnmarshalMsgpack(data []byte) error {
	var aux msgpackValue
	if err := msgpack.Unmarshal(data, &aux); err != nil {
		return err
	}
	*v = Value{Kind: aux.K, I64: aux.I, F64: aux.F, B: aux.B}
	if aux.K == KindString {
		v.s = unique.Make(aux.S)
	}
	return nil
}

// Key returns a stable string representation for use in maps.
//
// Numbers are keyed by their float64 value so that Int(3) and Float(3)
// share a key. Distinct large integers may collide; callers that need
// exact equality re-check with Filter.Matches.
func (v Value) Key() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindInt, KindFloat:
		f := asFloat64(v)
		if f == 0 {
			f = 0 // -0 and +0 share a key
		}
		return "n:" + strconv.FormatUint(math.Float64bits(f), 16)
	case KindString:
		return "s:" + v.s.Value()
	case KindBool:
		if v.B {
			return "b:1"
		}
		return "b:0"
	default:
		return "invalid"
	}
}

// AsInt64 returns the int64 value if Kind is KindInt.
func (v Value) AsInt64() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.I64, true
}

// AsFloat64 returns the float64 value if Kind is KindFloat.
func (v Value) AsFloat64() (float64, bool) {
	if v.Kind != KindFloat {
		return 0, false
	}
	return v.F64, true
}

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.s.Value(), true
}

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// Any returns the value as a plain Go value (nil, int64, float64, string or bool).
func (v Value) Any() any {
	switch v.Kind {
	case KindInt:
		return v.I64
	case KindFloat:
		return v.F64
	case KindString:
		return v.s.Value()
	case KindBool:
		return v.B
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return strconv.Quote(v.s.Value())
	case KindNull:
		return "null"
	case KindInvalid:
		return "invalid"
	default:
		return fmt.Sprint(v.Any())
	}
}

// Validate reports whether v can be stored and serialized.
func (v Value) Validate() error {
	switch v.Kind {
	case KindNull, KindInt, KindString, KindBool:
		return nil
	case KindFloat:
		if math.IsNaN(v.F64) || math.IsInf(v.F64, 0) {
			return fmt.Errorf("%w: %v", ErrInvalidValue, v.F64)
		}
		return nil
	default:
		return fmt.Errorf("%w: kind %s", ErrInvalidValue, v.Kind)
	}
}

// Null returns a null Value.
func Null() Value { return Value{Kind: KindNull} }

// Int returns an int64 Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Float returns a float64 Value.
func Float(v float64) Value { return Value{Kind: KindFloat, F64: v} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, s: unique.Make(v)} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Document is a schemaless payload: string keys mapped to scalar values.
type Document map[string]Value

// Clone returns a copy of the document. Values are immutable scalars, so a
// shallow copy of the map is a full copy.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}

	clone := make(Document, len(d))
	for k, v := range d {
		clone[k] = v
	}
	return clone
}

// Validate checks every value of the document.
func (d Document) Validate() error {
	for k, v := range d {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
	}
	return nil
}

// ToAny converts the document into a plain map, e.g. for display or
// encoding into formats that do not need kind tags.
func (d Document) ToAny() map[string]any {
	if d == nil {
		return nil
	}
	m := make(map[string]any, len(d))
	for k, v := range d {
		m[k] = v.Any()
	}
	return m
}
