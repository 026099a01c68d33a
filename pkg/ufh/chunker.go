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

// Chunker splits a byte stream into content-defined blocks.
//
// A rolling hash over the last WindowSize(factor) bytes is kept modulo
// factor; a block ends after every byte where that hash equals factor-1,
// once the first window is complete. The last byte of the stream always
// ends a block. Every block carries a polynomial hash of its content modulo
// BlockHashModulo.
//
// Chunker implements io.Writer so that data can be fed in pieces; the result
// depends only on the concatenated bytes and the factor. A Chunker is not
// safe for concurrent use.
type Chunker struct {
	factor      int64
	windowSize  int
	windowShift int64
	matchValue  int64

	window     []byte // ring buffer of the last windowSize bytes
	windowHash int64
	blockHash  int64
	blockStart uint64
	position   uint64
	blocks     []Block
}

// NewChunker creates a Chunker for factor.
func NewChunker(factor int) (*Chunker, error) {
	if err := CheckFactor(factor); err != nil {
		return nil, err
	}

	windowSize := WindowSize(factor)

	return &Chunker{
		factor:      int64(factor),
		windowSize:  windowSize,
		windowShift: windowShift(windowSize, int64(factor)),
		matchValue:  int64(factor) - 1,
		window:      make([]byte, windowSize),
	}, nil
}

// Write feeds p into the chunker. It never fails.
func (c *Chunker) Write(p []byte) (int, error) {
	// Capture state into local variables
	f := c.factor
	ws := uint64(c.windowSize)
	shift := c.windowShift
	wh := c.windowHash
	bh := c.blockHash
	pos := c.position

	for _, b := range p {
		datum := int64(b)
		slot := pos % ws

		if pos < ws {
			wh = ((wh << 8) + datum) % f
		} else {
			old := int64(c.window[slot])
			wh = ((wh << 8) + datum - old*shift) % f
			// Go's % keeps the sign of the dividend
			if wh < 0 {
				wh += f
			}
		}
		c.window[slot] = b

		bh = ((bh << 8) + datum) % BlockHashModulo

		if wh == c.matchValue && pos >= ws-1 {
			c.blocks = append(c.blocks, Block{hash: uint32(bh), start: c.blockStart, end: pos})
			bh = 0
			c.blockStart = pos + 1
		}
		pos++
	}

	c.windowHash = wh
	c.blockHash = bh
	c.position = pos

	return len(p), nil
}

// Finish closes the pending block, if any, and returns every block along
// with the number of bytes consumed. The chunker is reset afterwards.
func (c *Chunker) Finish() ([]Block, uint64) {
	if c.blockStart < c.position {
		c.blocks = append(c.blocks, Block{hash: uint32(c.blockHash), start: c.blockStart, end: c.position - 1})
	}

	blocks, size := c.blocks, c.position
	c.blocks = nil
	c.Reset()

	return blocks, size
}

// Reset clears all state so that a new stream can be processed.
func (c *Chunker) Reset() {
	c.windowHash = 0
	c.blockHash = 0
	c.blockStart = 0
	c.position = 0
	c.blocks = c.blocks[:0]
	clear(c.window)
}

// Factor returns the factor the chunker was created with.
func (c *Chunker) Factor() int {
	return int(c.factor)
}

// WindowSize returns the rolling window size in bytes.
func (c *Chunker) WindowSize() int {
	return c.windowSize
}

// Position returns the number of bytes consumed since the last reset.
func (c *Chunker) Position() uint64 {
	return c.position
}
