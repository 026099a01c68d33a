package compression

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCompressor(t *testing.T) {
	t.Run("GetCompressorViaString", func(t *testing.T) {
		// Test valid types
		c, err := GetCompressorViaString("zlib")
		assert.NoError(t, err)
		assert.IsType(t, &ZlibCompressor{}, c)

		c, err = GetCompressorViaString("snappy")
		assert.NoError(t, err)
		assert.IsType(t, &SnappyCompressor{}, c)

		c, err = GetCompressorViaString("zstd")
		assert.NoError(t, err)
		assert.IsType(t, &ZstdCompressor{}, c)

		c, err = GetCompressorViaString("none")
		assert.NoError(t, err)
		assert.Nil(t, c)

		c, err = GetCompressorViaString("")
		assert.NoError(t, err)
		assert.Nil(t, c)

		// Test invalid type
		c, err = GetCompressorViaString("invalid")
		assert.Error(t, err)
		assert.Equal(t, ErrInvalidCompressionType, err)
		assert.Nil(t, c)
	})

	t.Run("GetCompressorViaType", func(t *testing.T) {
		// Test valid types
		c, err := GetCompressorViaType(Compress_zlib)
		assert.NoError(t, err)
		assert.IsType(t, &ZlibCompressor{}, c)

		c, err = GetCompressorViaType(Compress_snappy)
		assert.NoError(t, err)
		assert.IsType(t, &SnappyCompressor{}, c)

		c, err = GetCompressorViaType(Compress_zstd)
		assert.NoError(t, err)
		assert.IsType(t, &ZstdCompressor{}, c)

		c, err = GetCompressorViaType(Compress_none)
		assert.NoError(t, err)
		assert.Nil(t, c)

		// Test invalid type
		c, err = GetCompressorViaType(99) // Some invalid type
		assert.Error(t, err)
		assert.Equal(t, ErrInvalidCompressionType, err)
		assert.Nil(t, c)
	})
}

func TestFrame(t *testing.T) {
	payload := []byte("# digests\na.bin;5:3DAED101-F/20-1/666F78-3\n")

	for _, name := range []string{"zlib", "snappy", "zstd"} {
		t.Run(name, func(t *testing.T) {
			c, err := GetCompressorViaString(name)
			require.NoError(t, err)

			framed, err := Encode(c, payload)
			require.NoError(t, err)
			assert.True(t, IsFramed(framed))
			assert.Equal(t, byte(c.Type()), framed[4])

			decoded, err := Decode(framed)
			require.NoError(t, err)
			assert.Equal(t, payload, decoded)
		})
	}

	t.Run("none", func(t *testing.T) {
		framed, err := Encode(nil, payload)
		require.NoError(t, err)
		assert.Equal(t, payload, framed)
		assert.False(t, IsFramed(framed))

		decoded, err := Decode(framed)
		require.NoError(t, err)
		assert.Equal(t, payload, decoded)
	})
}

func TestDecodeCorrupt(t *testing.T) {
	valid, err := Encode(NewSnappy(), []byte("a.bin;5:1-1\n"))
	require.NoError(t, err)
	badCRC := bytes.Clone(valid)
	badCRC[5] ^= 0xFF

	testCases := []struct {
		name string
		data []byte
	}{
		{"Header only", []byte("\x00UFH")},
		{"Short header", []byte("\x00UFH\x01\x00\x00")},
		{"Unknown type", []byte("\x00UFH\x07\x00\x00\x00\x00abc")},
		{"None type", []byte("\x00UFH\xff\x00\x00\x00\x00abc")},
		{"Bad body", append([]byte("\x00UFH\x02\x00\x00\x00\x00"), bytes.Repeat([]byte{0xAB}, 16)...)},
		{"Checksum mismatch", badCRC},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.data)
			assert.ErrorIs(t, err, ErrCorruptFrame)
		})
	}
}
