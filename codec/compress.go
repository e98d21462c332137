package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType defines the compression algorithm used.
type CompressionType uint8

const (
	// CompressionNone indicates no compression.
	CompressionNone CompressionType = 0
	// CompressionLZ4 indicates LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZstd indicates Zstd compression (better ratio).
	CompressionZstd CompressionType = 2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ErrCorruptFrame is returned when a compressed frame cannot be decoded.
var ErrCorruptFrame = errors.New("codec: corrupt compressed frame")

// Zstd encoder/decoder pools.
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Frame format: [Type uint8][UncompressedSize uint32][CompressedSize uint32][Data...]
// A frame whose Type is CompressionNone stores Data verbatim.
const frameHeaderSize = 9

type compressed struct {
	inner Codec
	typ   CompressionType
}

// Compressed wraps inner so that its output is block-compressed with typ.
// Frames record the algorithm, so Unmarshal accepts any compression type.
func Compressed(inner Codec, typ CompressionType) Codec {
	if inner == nil {
		inner = Default
	}
	return &compressed{inner: inner, typ: typ}
}

func (c *compressed) Name() string {
	if c.typ == CompressionNone {
		return c.inner.Name()
	}
	return c.inner.Name() + "+" + c.typ.String()
}

func (c *compressed) Marshal(v any) ([]byte, error) {
	raw, err := c.inner.Marshal(v)
	if err != nil {
		return nil, err
	}
	return compressFrame(raw, c.typ)
}

func (c *compressed) Unmarshal(data []byte, v any) error {
	raw, err := decompressFrame(data)
	if err != nil {
		return err
	}
	return c.inner.Unmarshal(raw, v)
}

func compressFrame(data []byte, typ CompressionType) ([]byte, error) {
	var (
		out []byte
		err error
	)

	switch typ {
	case CompressionNone:
	case CompressionLZ4:
		out, err = compressLZ4(data)
	case CompressionZstd:
		out = compressZstd(data)
	default:
		return nil, fmt.Errorf("codec: unsupported compression %v", typ)
	}
	if err != nil {
		return nil, err
	}

	// Store uncompressed when compression doesn't help.
	if len(out) == 0 || len(out) >= len(data) {
		typ, out = CompressionNone, data
	}

	frame := make([]byte, frameHeaderSize+len(out))
	frame[0] = byte(typ)
	binary.LittleEndian.PutUint32(frame[1:], uint32(len(data)))
	binary.LittleEndian.PutUint32(frame[5:], uint32(len(out)))
	copy(frame[frameHeaderSize:], out)
	return frame, nil
}

func compressLZ4(data []byte) ([]byte, error) {
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))

	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // Incompressible
	}
	return compressed[:n], nil
}

func compressZstd(data []byte) []byte {
	enc := getZstdEncoder()
	defer putZstdEncoder(enc)

	return enc.EncodeAll(data, nil)
}

func decompressFrame(frame []byte) ([]byte, error) {
	if len(frame) < frameHeaderSize {
		return nil, ErrCorruptFrame
	}

	typ := CompressionType(frame[0])
	uncompressedSize := binary.LittleEndian.Uint32(frame[1:])
	compressedSize := binary.LittleEndian.Uint32(frame[5:])
	if uint64(len(frame)) < frameHeaderSize+uint64(compressedSize) {
		return nil, ErrCorruptFrame
	}
	body := frame[frameHeaderSize : frameHeaderSize+compressedSize]

	switch typ {
	case CompressionNone:
		if compressedSize != uncompressedSize {
			return nil, ErrCorruptFrame
		}
		return body, nil

	case CompressionLZ4:
		result := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(body, result)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptFrame, err)
		}
		if uint32(n) != uncompressedSize {
			return nil, ErrCorruptFrame
		}
		return result, nil

	case CompressionZstd:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		decoded, err := dec.DecodeAll(body, make([]byte, 0, uncompressedSize))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptFrame, err)
		}
		if uint32(len(decoded)) != uncompressedSize {
			return nil, ErrCorruptFrame
		}
		return decoded, nil

	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrCorruptFrame, uint8(typ))
	}
}
