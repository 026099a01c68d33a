package ufh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringRoundTrip(t *testing.T) {
	d, err := NewFromString("The quick brown fox jumps over the lazy dog", 5)
	require.NoError(t, err)

	s := d.String()
	assert.Equal(t, "5:3DAED101-F/20-1/666F78-3/B4AD8F5-A/74694960-6/6C617A-3/20647059-5", s)

	parsed, err := Parse(s)
	require.NoError(t, err)
	assert.True(t, d.Equal(parsed))
	assert.Equal(t, d.Blocks(), parsed.Blocks())
	assert.Equal(t, s, parsed.String())

	text, err := d.MarshalText()
	require.NoError(t, err)
	unmarshaled, err := UnmarshalDigest(text)
	require.NoError(t, err)
	assert.True(t, d.Equal(unmarshaled))
}

func TestEmptyDigestString(t *testing.T) {
	d, err := New([]byte{}, 3)
	require.NoError(t, err)
	assert.Equal(t, "3:", d.String())

	parsed, err := Parse("3:")
	require.NoError(t, err)
	assert.Equal(t, 3, parsed.Factor())
	assert.Equal(t, uint64(0), parsed.DataSize())
	assert.Equal(t, 0, parsed.AmountOfBlocks())
	assert.True(t, d.Equal(parsed))
}

func TestParseOffsets(t *testing.T) {
	d, err := Parse("5:a-3/B-2/7FFFFFFE-10")
	require.NoError(t, err)

	assert.Equal(t, uint64(21), d.DataSize())
	assert.Equal(t, []Block{
		NewBlock(0xA, 0, 2),
		NewBlock(0xB, 3, 4),
		NewBlock(0x7FFFFFFE, 5, 20),
	}, d.Blocks())
	assert.Equal(t, "5:A-3/B-2/7FFFFFFE-10", d.String())

	// lower-case hex is read, the canonical string is upper-case
	lower, err := Parse("5:a-3/b-2/7ffffffe-10")
	require.NoError(t, err)
	assert.True(t, d.Equal(lower))
	assert.Equal(t, d.String(), lower.String())
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		index    int
		target   error
		contains string
	}{
		{"Empty string", "", FactorIndex, nil, "factor (<empty>)"},
		{"No separator", "5", FactorIndex, nil, "factor (5)"},
		{"Empty factor", ":1-1", FactorIndex, nil, "factor (<empty>)"},
		{"Factor not a number", "abc:1-1", FactorIndex, nil, "factor (abc)"},
		{"Even factor", "4:1-1", FactorIndex, ErrFactorEven, "factor (4)"},
		{"Small factor", "1:", FactorIndex, ErrFactorTooSmall, "factor (1)"},
		{"Negative factor", "-3:", FactorIndex, ErrFactorTooSmall, "factor (-3)"},
		{"Signed factor", "+5:1-1", FactorIndex, nil, "factor (+5)"},
		{"Only separators", "5:/", 0, nil, "block number 0 (<empty>)"},
		{"Trailing separator", "5:1-1/", 1, nil, "block number 1 (<empty>)"},
		{"Bad hash", "5:1-1/x-2", 1, nil, "block number 1 (x-2)"},
		{"Hash out of range", "5:7FFFFFFF-1", 0, nil, "block number 0 (7FFFFFFF-1)"},
		{"Hash too wide", "5:100000000-1", 0, nil, "block number 0"},
		{"Signed hash", "5:+1-1", 0, nil, "block number 0"},
		{"Zero size", "5:1-0", 0, nil, "block number 0 (1-0)"},
		{"Missing size", "5:1-", 0, nil, "block number 0 (1-)"},
		{"Missing hash", "5:-1", 0, nil, "block number 0 (-1)"},
		{"No block separator", "5:1", 0, nil, "block number 0 (1)"},
		{"Extra block separator", "5:1-1-1", 0, nil, "block number 0 (1-1-1)"},
		{"Size overflow", "5:1-FFFFFFFFFFFFFFFF/2-1", 1, nil, "block number 1 (2-1)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Parse(tc.input)
			require.Error(t, err)
			assert.Nil(t, d)
			assert.ErrorIs(t, err, ErrMalformedDigest)
			if tc.target != nil {
				assert.ErrorIs(t, err, tc.target)
			}
			assert.Contains(t, err.Error(), tc.contains)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tc.index, parseErr.Index)
		})
	}
}

func TestParseOptions(t *testing.T) {
	d, err := Parse("5:1-1", WithCaching(false))
	require.NoError(t, err)
	assert.False(t, d.CachingEnabled())
}
