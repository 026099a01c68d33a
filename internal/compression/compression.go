package compression

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

type CompressionType byte

const (
	Compress_zlib   CompressionType = iota //0
	Compress_snappy                        //1
	Compress_zstd                          //2
	Compress_none   CompressionType = 0xFF
)

var (
	ErrInvalidCompressionType = errors.New("invalid compression type")
	ErrCorruptFrame           = errors.New("corrupt compressed frame")

	CompressionMethods = map[string]CompressionType{
		"none":   Compress_none,
		"zlib":   Compress_zlib,
		"snappy": Compress_snappy,
		"zstd":   Compress_zstd,
	}
)

// frameMagic starts every compressed payload. Plain digest text never
// begins with a NUL byte, so uncompressed payloads are told apart.
var frameMagic = []byte("\x00UFH")

// A frame is the magic, the compression type, the big-endian CRC-32 of the
// uncompressed data and the compressed body.
const frameHeaderLen = 4 + 1 + 4

// Compressor defines the interface for data compression and decompression algorithms.
type Compressor interface {
	// Compress takes a byte slice and returns the compressed data.
	Compress(data []byte) ([]byte, error)

	// Decompress takes a compressed byte slice and returns the original data.
	Decompress(data []byte) ([]byte, error)

	// Type returns the type of compression, e.g., "zlib", "snappy".
	TypeString() string
	Type() CompressionType
}

// GetCompressorViaString returns nil and no error for "none" (or "").
func GetCompressorViaString(compressionStr string) (Compressor, error) {
	if compressionStr == "" {
		return nil, nil
	}
	compressionType, ok := CompressionMethods[compressionStr]
	if !ok {
		return nil, ErrInvalidCompressionType
	}
	return GetCompressorViaType(compressionType)
}

func GetCompressorViaType(compressionType CompressionType) (Compressor, error) {
	switch compressionType {
	case Compress_none:
		return nil, nil
	case Compress_zlib:
		return NewZlib(), nil
	case Compress_snappy:
		return NewSnappy(), nil
	case Compress_zstd:
		return NewZstd(), nil
	default:
		return nil, ErrInvalidCompressionType
	}
}

// Encode compresses data with c and prefixes it with a frame header naming
// the algorithm. A nil c returns data unchanged.
func Encode(c Compressor, data []byte) ([]byte, error) {
	if c == nil {
		return data, nil
	}
	compressed, err := c.Compress(data)
	if err != nil {
		return nil, fmt.Errorf("%s compress: %w", c.TypeString(), err)
	}
	out := make([]byte, 0, frameHeaderLen+len(compressed))
	out = append(out, frameMagic...)
	out = append(out, byte(c.Type()))
	out = binary.BigEndian.AppendUint32(out, CalculateCRC32(data))
	return append(out, compressed...), nil
}

// Decode reverses Encode. Payloads without a frame header are returned as is.
func Decode(data []byte) ([]byte, error) {
	if !IsFramed(data) {
		return data, nil
	}
	if len(data) < frameHeaderLen {
		return nil, ErrCorruptFrame
	}
	typ := data[len(frameMagic)]
	c, err := GetCompressorViaType(CompressionType(typ))
	if err != nil || c == nil {
		return nil, fmt.Errorf("%w: unknown type %d", ErrCorruptFrame, typ)
	}
	crc := binary.BigEndian.Uint32(data[len(frameMagic)+1:])
	out, err := c.Decompress(data[frameHeaderLen:])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptFrame, c.TypeString(), err)
	}
	if !VerifyCRC32(out, crc) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptFrame)
	}
	return out, nil
}

// IsFramed reports whether data starts with the frame header.
func IsFramed(data []byte) bool {
	return bytes.HasPrefix(data, frameMagic)
}
