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

// Block is one content-defined chunk of the hashed data: the hash of its
// content plus its inclusive byte range.
//
// Two blocks are Equal when their hashes match, whatever their positions.
// Similarity matching relies on this; use == to compare every field.
type Block struct {
	hash  uint32
	start uint64
	end   uint64
}

// NewBlock builds a block. end is inclusive and must not be lower than start.
func NewBlock(hash uint32, start, end uint64) Block {
	return Block{hash: hash, start: start, end: end}
}

// Hash returns the content hash, always lower than BlockHashModulo.
func (b Block) Hash() uint32 {
	return b.hash
}

// Start returns the 0-based offset of the first byte of the block.
func (b Block) Start() uint64 {
	return b.start
}

// End returns the 0-based offset of the last byte of the block.
func (b Block) End() uint64 {
	return b.end
}

// Size returns the size in bytes of the block.
func (b Block) Size() uint64 {
	return b.end - b.start + 1
}

// Equal compares content hashes only.
func (b Block) Equal(other Block) bool {
	return b.hash == other.hash
}

// String returns the canonical encoding of the block, HASH-SIZE in upper-case hex.
func (b Block) String() string {
	return string(b.appendText(nil))
}

// BlockSet is a read-only set of blocks keyed by content hash.
type BlockSet struct {
	hashes map[uint32]struct{}
}

func newBlockSet(blocks []Block) BlockSet {
	hashes := make(map[uint32]struct{}, len(blocks))
	for _, b := range blocks {
		hashes[b.hash] = struct{}{}
	}
	return BlockSet{hashes: hashes}
}

// Contains reports whether a block with the same content hash is in the set.
func (s BlockSet) Contains(b Block) bool {
	return s.ContainsHash(b.hash)
}

// ContainsHash reports whether hash is in the set.
func (s BlockSet) ContainsHash(hash uint32) bool {
	_, ok := s.hashes[hash]
	return ok
}

// Len returns the number of distinct block hashes.
func (s BlockSet) Len() int {
	return len(s.hashes)
}

// Hashes returns the distinct block hashes in no particular order.
func (s BlockSet) Hashes() []uint32 {
	out := make([]uint32, 0, len(s.hashes))
	for h := range s.hashes {
		out = append(out, h)
	}
	return out
}
