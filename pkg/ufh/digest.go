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
	"io"
	"math"
	"slices"
	"sync"
	"sync/atomic"
)

// digestSeq hands out the identities used as similarity cache keys.
var digestSeq atomic.Uint64

// Digest is a uniform fuzzy hash: the factor it was computed with, the size
// of the hashed data and the ordered, gapless sequence of its blocks.
//
// The logical value of a Digest never changes after construction. The block
// set and the similarity cache are filled lazily and are guarded by an
// internal lock, so a Digest may be shared between goroutines.
type Digest struct {
	id       uint64
	factor   int
	dataSize uint64
	blocks   []Block

	mu       sync.Mutex
	blockSet *BlockSet
	caching  bool
	cache    map[uint64]float64 // other digest ID -> similarity of this one to it
}

func newDigest(factor int, dataSize uint64, blocks []Block, cfg config) *Digest {
	if blocks == nil {
		blocks = []Block{}
	}
	return &Digest{
		id:       digestSeq.Add(1),
		factor:   factor,
		dataSize: dataSize,
		blocks:   blocks,
		caching:  cfg.caching,
	}
}

// New computes the digest of data. A nil slice is hashed as empty data.
func New(data []byte, factor int, opts ...Option) (*Digest, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	chunker, err := NewChunker(factor)
	if err != nil {
		return nil, err
	}

	chunker.Write(data)
	blocks, size := chunker.Finish()

	return newDigest(factor, size, blocks, cfg), nil
}

// NewFromString computes the digest of the bytes of s.
func NewFromString(s string, factor int, opts ...Option) (*Digest, error) {
	return New([]byte(s), factor, opts...)
}

// NewFromReader computes the digest of everything read from r until io.EOF.
func NewFromReader(r io.Reader, factor int, opts ...Option) (*Digest, error) {
	if r == nil {
		return nil, ErrNilInput
	}

	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	chunker, err := NewChunker(factor)
	if err != nil {
		return nil, err
	}

	if _, err := io.Copy(chunker, r); err != nil {
		return nil, err
	}
	blocks, size := chunker.Finish()

	return newDigest(factor, size, blocks, cfg), nil
}

// ID returns the identity of this instance. Two digests with equal values
// still have different IDs; similarity caches are keyed by ID.
func (d *Digest) ID() uint64 {
	return d.id
}

// Factor returns the factor the digest was computed with.
func (d *Digest) Factor() int {
	return d.factor
}

// DataSize returns the size in bytes of the hashed data.
func (d *Digest) DataSize() uint64 {
	return d.dataSize
}

// Blocks returns a copy of the ordered blocks.
func (d *Digest) Blocks() []Block {
	return slices.Clone(d.blocks)
}

// Block returns the i-th block.
func (d *Digest) Block(i int) Block {
	return d.blocks[i]
}

// AmountOfBlocks returns the number of blocks.
func (d *Digest) AmountOfBlocks() int {
	return len(d.blocks)
}

// BlockSet returns the set of block hashes, building it on first use.
func (d *Digest) BlockSet() BlockSet {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.blockSet == nil {
		set := newBlockSet(d.blocks)
		d.blockSet = &set
	}
	return *d.blockSet
}

// BlockSizeMean returns the mean block size, 0 when there are no blocks.
func (d *Digest) BlockSizeMean() float64 {
	if len(d.blocks) == 0 {
		return 0
	}
	return float64(d.dataSize) / float64(len(d.blocks))
}

// BlockSizeStdDev returns the population standard deviation of the block
// sizes, 0 when there are fewer than two blocks.
func (d *Digest) BlockSizeStdDev() float64 {
	n := len(d.blocks)
	if n <= 1 {
		return 0
	}

	mean := d.BlockSizeMean()
	var variance float64
	for _, b := range d.blocks {
		dist := float64(b.Size()) - mean
		variance += dist * dist / float64(n)
	}
	return math.Sqrt(variance)
}

// CachingEnabled reports whether computed similarities are cached.
func (d *Digest) CachingEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.caching
}

// SetCachingEnabled turns similarity caching on or off. Entries already
// cached are kept; use ClearSimilarityCache to drop them.
func (d *Digest) SetCachingEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.caching = enabled
}

// ClearSimilarityCache discards every cached similarity.
func (d *Digest) ClearSimilarityCache() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache = nil
}

// SimilarityCache returns a snapshot of the cache, keyed by the ID of the
// other digest.
func (d *Digest) SimilarityCache() map[uint64]float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[uint64]float64, len(d.cache))
	for k, v := range d.cache {
		out[k] = v
	}
	return out
}

func (d *Digest) cachedSimilarity(other *Digest) (float64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.caching || d.cache == nil {
		return 0, false
	}
	s, ok := d.cache[other.id]
	return s, ok
}

func (d *Digest) storeSimilarity(other *Digest, s float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.caching {
		return
	}
	if d.cache == nil {
		d.cache = make(map[uint64]float64)
	}
	d.cache[other.id] = s
}

// Equal reports whether both digests have the same factor, the same data
// size and the same ordered sequence of block hashes. Block offsets are not
// compared.
func (d *Digest) Equal(other *Digest) bool {
	if d == other {
		return true
	}
	if d == nil || other == nil {
		return false
	}
	if d.factor != other.factor || d.dataSize != other.dataSize || len(d.blocks) != len(other.blocks) {
		return false
	}
	for i := range d.blocks {
		if !d.blocks[i].Equal(other.blocks[i]) {
			return false
		}
	}
	return true
}
