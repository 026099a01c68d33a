package compression

import (
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateCRC32(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"Digest line", []byte("a.bin;5:3DAED101-F/20-1/666F78-3\n")},
		{"Empty Slice", []byte{}},
		{"Binary Data", []byte{0xDE, 0xAD, 0xBE, 0xEF, 0xCA, 0xFE}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			expectedCRC := crc32.ChecksumIEEE(tc.data)
			calculatedCRC := CalculateCRC32(tc.data)
			assert.Equal(t, expectedCRC, calculatedCRC)
			assert.True(t, VerifyCRC32(tc.data, calculatedCRC))
			assert.False(t, VerifyCRC32(tc.data, calculatedCRC^1))
		})
	}
}
