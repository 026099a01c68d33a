// Copyright 2025 zhengshuai.xiao@outlook.com
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ufh

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Canonical string separators. None of them can appear in a decimal factor
// or in a hexadecimal block.
const (
	FactorSeparator = ":"
	BlocksSeparator = "/"
	BlockSeparator  = "-"
)

var (
	errBlockFormat   = fmt.Errorf("block does not fit the format hash%ssize", BlockSeparator)
	errBlockHash     = errors.New("block hash is not valid")
	errBlockSize     = errors.New("block size is not valid")
	errBlockOverflow = errors.New("block end overflows the data size")
	errSignedFactor  = errors.New("factor must not carry a sign")
)

// maxBlockChars is the longest text of one block with its separator.
const maxBlockChars = 8 + len(BlockSeparator) + 16 + len(BlocksSeparator)

func (b Block) appendText(dst []byte) []byte {
	dst = appendUpperHex(dst, uint64(b.hash))
	dst = append(dst, BlockSeparator...)
	return appendUpperHex(dst, b.Size())
}

func appendUpperHex(dst []byte, v uint64) []byte {
	start := len(dst)
	dst = strconv.AppendUint(dst, v, 16)
	for i := start; i < len(dst); i++ {
		if c := dst[i]; c >= 'a' && c <= 'f' {
			dst[i] = c - 'a' + 'A'
		}
	}
	return dst
}

// String returns the canonical string of the digest:
// factor, FactorSeparator, then every block as HASH-SIZE joined by BlocksSeparator.
// Block offsets are not written; Parse rebuilds them from the sizes.
func (d *Digest) String() string {
	buf := make([]byte, 0, 11+len(FactorSeparator)+maxBlockChars*len(d.blocks))

	buf = strconv.AppendInt(buf, int64(d.factor), 10)
	buf = append(buf, FactorSeparator...)
	for i, b := range d.blocks {
		if i != 0 {
			buf = append(buf, BlocksSeparator...)
		}
		buf = b.appendText(buf)
	}

	return string(buf)
}

// MarshalText implements encoding.TextMarshaler with the canonical string.
func (d *Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Parse rebuilds a digest from its canonical string. It either returns a
// complete digest or a *ParseError. Signs are rejected; hexadecimal digits
// are accepted in either case, so String may return the text upper-cased.
func Parse(s string, opts ...Option) (*Digest, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	factorPart, blocksPart, found := strings.Cut(s, FactorSeparator)
	if !found {
		return nil, &ParseError{Index: FactorIndex, Segment: s, Err: errMissingSeparator}
	}
	if factorPart == "" {
		return nil, &ParseError{Index: FactorIndex, Err: errMissingSeparator}
	}

	if strings.HasPrefix(factorPart, "+") {
		return nil, &ParseError{Index: FactorIndex, Segment: factorPart, Err: errSignedFactor}
	}
	factor, err := strconv.ParseInt(factorPart, 10, 32)
	if err != nil {
		return nil, &ParseError{Index: FactorIndex, Segment: factorPart, Err: fmt.Errorf("factor is not parseable: %w", err)}
	}
	if err := CheckFactor(int(factor)); err != nil {
		return nil, &ParseError{Index: FactorIndex, Segment: factorPart, Err: err}
	}

	var blocks []Block
	var start uint64
	if blocksPart != "" {
		segments := strings.Split(blocksPart, BlocksSeparator)
		blocks = make([]Block, 0, len(segments))
		for i, segment := range segments {
			b, err := parseBlock(segment, start)
			if err != nil {
				return nil, &ParseError{Index: i, Segment: segment, Err: err}
			}
			blocks = append(blocks, b)
			start = b.end + 1
		}
	}

	return newDigest(int(factor), start, blocks, cfg), nil
}

// UnmarshalDigest is Parse for byte slices.
func UnmarshalDigest(text []byte, opts ...Option) (*Digest, error) {
	return Parse(string(text), opts...)
}

// parseBlock decodes one HASH-SIZE segment starting at offset start.
func parseBlock(segment string, start uint64) (Block, error) {
	hashPart, sizePart, found := strings.Cut(segment, BlockSeparator)
	if !found || hashPart == "" || sizePart == "" {
		return Block{}, errBlockFormat
	}

	hash, err := strconv.ParseUint(hashPart, 16, 32)
	if err != nil || hash >= BlockHashModulo {
		return Block{}, fmt.Errorf("%w: %s", errBlockHash, hashPart)
	}

	size, err := strconv.ParseUint(sizePart, 16, 64)
	if err != nil || size == 0 {
		return Block{}, fmt.Errorf("%w: %s", errBlockSize, sizePart)
	}
	if size > math.MaxUint64-start {
		return Block{}, errBlockOverflow
	}

	return Block{hash: uint32(hash), start: start, end: start + size - 1}, nil
}
