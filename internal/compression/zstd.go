package compression

import "github.com/klauspost/compress/zstd"

// ZstdCompressor implements the Compressor interface using Zstandard.
type ZstdCompressor struct{}

// NewZstd returns a new ZstdCompressor.
func NewZstd() *ZstdCompressor {
	return &ZstdCompressor{}
}

func (c *ZstdCompressor) Type() CompressionType {
	return Compress_zstd
}

func (c *ZstdCompressor) TypeString() string {
	return "zstd"
}

// Compress compresses data using Zstandard.
func (c *ZstdCompressor) Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

// Decompress decompresses data using Zstandard.
func (c *ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return []byte{}, nil
	}
	return out, nil
}
