// Package codec centralizes payload and result encoding at the library
// boundary.
//
// Every codec produces a self-describing format: metadata.Value carries its
// kind on the wire, so payloads decode to exactly what was encoded.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
//
// Compressed variants are named "<inner>+<compression>", e.g. "msgpack+zstd".
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "msgpack":
		return MsgPack{}, true
	case "json+lz4":
		return Compressed(JSON{}, CompressionLZ4), true
	case "json+zstd":
		return Compressed(JSON{}, CompressionZstd), true
	case "msgpack+lz4":
		return Compressed(MsgPack{}, CompressionLZ4), true
	case "msgpack+zstd":
		return Compressed(MsgPack{}, CompressionZstd), true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for tests and examples.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}

// Default is the default codec used by the library.
var Default Codec = JSON{}
