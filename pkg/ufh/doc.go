// Package ufh computes uniform fuzzy hashes: similarity-preserving digests
// made of content-defined blocks, from which the similarity between two byte
// sequences can be estimated without the original data.
//
// # Overview
//
// A rolling hash over a small window of the input, taken modulo an odd
// factor, decides where blocks end. Because boundaries depend on local
// content only, an insertion or deletion only changes the blocks next to the
// edit. The mean block size converges to factor bytes.
//
//	a, _ := ufh.New(dataA, 255)
//	b, _ := ufh.New(dataB, 255)
//	s, err := a.Similarity(b) // share of a's bytes found in b
//
// # Canonical string
//
// A digest is written as factor, ':' and its blocks joined by '/', each block
// being its hash and size in upper-case hexadecimal separated by '-':
//
//	5:1A2B-3/FF00-8
//
// Parse rebuilds the block offsets from the sizes, so String and Parse round
// trip exactly.
//
// # Thread Safety
//
// A Digest is immutable apart from its lazily built block set and its
// similarity cache, both guarded by an internal lock. Digests can be shared
// and compared from several goroutines. A Chunker is not safe for concurrent
// use.
//
// This is not a cryptographic hash.
package ufh
