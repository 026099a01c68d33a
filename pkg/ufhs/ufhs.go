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

// Package ufhs computes, rebuilds and serializes uniform fuzzy hashes in bulk.
package ufhs

import (
	"fmt"
	"io"
	"strconv"

	"github.com/zhengshuai-xiao/ufhash/internal"
	"github.com/zhengshuai-xiao/ufhash/pkg/ufh"
)

var logger = internal.GetLogger("ufhs")

// Named pairs a data source with the name its digest is reported under.
type Named[T any] struct {
	Name string
	Data T
}

func compute[T any](items []T, fn func(T) (*ufh.Digest, error)) ([]*ufh.Digest, error) {
	digests := make([]*ufh.Digest, len(items))
	for i, item := range items {
		d, err := fn(item)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		digests[i] = d
	}
	return digests, nil
}

func computeNamed[T any](items []Named[T], fn func(T) (*ufh.Digest, error)) ([]ufh.NamedDigest, error) {
	entries := make([]ufh.NamedDigest, len(items))
	for i, item := range items {
		d, err := fn(item.Data)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", item.Name, err)
		}
		entries[i] = ufh.NamedDigest{Name: item.Name, Digest: d}
	}
	return entries, nil
}

// FromByteSlices computes one digest per slice.
func FromByteSlices(data [][]byte, factor int, opts ...ufh.Option) ([]*ufh.Digest, error) {
	if err := ufh.CheckFactor(factor); err != nil {
		return nil, err
	}
	return compute(data, func(b []byte) (*ufh.Digest, error) {
		return ufh.New(b, factor, opts...)
	})
}

// FromStrings computes one digest per string.
func FromStrings(data []string, factor int, opts ...ufh.Option) ([]*ufh.Digest, error) {
	if err := ufh.CheckFactor(factor); err != nil {
		return nil, err
	}
	return compute(data, func(s string) (*ufh.Digest, error) {
		return ufh.NewFromString(s, factor, opts...)
	})
}

// FromReaders reads every reader to the end, in order. A nil reader gives a
// nil digest.
func FromReaders(readers []io.Reader, factor int, opts ...ufh.Option) ([]*ufh.Digest, error) {
	if err := ufh.CheckFactor(factor); err != nil {
		return nil, err
	}
	return compute(readers, readerDigest(factor, opts))
}

func FromNamedByteSlices(items []Named[[]byte], factor int, opts ...ufh.Option) ([]ufh.NamedDigest, error) {
	if err := ufh.CheckFactor(factor); err != nil {
		return nil, err
	}
	return computeNamed(items, func(b []byte) (*ufh.Digest, error) {
		return ufh.New(b, factor, opts...)
	})
}

func FromNamedStrings(items []Named[string], factor int, opts ...ufh.Option) ([]ufh.NamedDigest, error) {
	if err := ufh.CheckFactor(factor); err != nil {
		return nil, err
	}
	return computeNamed(items, func(s string) (*ufh.Digest, error) {
		return ufh.NewFromString(s, factor, opts...)
	})
}

func FromNamedReaders(items []Named[io.Reader], factor int, opts ...ufh.Option) ([]ufh.NamedDigest, error) {
	if err := ufh.CheckFactor(factor); err != nil {
		return nil, err
	}
	return computeNamed(items, readerDigest(factor, opts))
}

func readerDigest(factor int, opts []ufh.Option) func(io.Reader) (*ufh.Digest, error) {
	return func(r io.Reader) (*ufh.Digest, error) {
		if r == nil {
			return nil, nil
		}
		return ufh.NewFromReader(r, factor, opts...)
	}
}

// Rebuild parses canonical strings. An empty string gives a nil digest.
func Rebuild(hashes []string, opts ...ufh.Option) ([]*ufh.Digest, error) {
	digests := make([]*ufh.Digest, len(hashes))
	for i, s := range hashes {
		if s == "" {
			continue
		}
		d, err := ufh.Parse(s, opts...)
		if err != nil {
			return nil, fmt.Errorf("hash %d could not be parsed: %w", i, err)
		}
		digests[i] = d
	}
	return digests, nil
}

// RebuildNamed is Rebuild for named canonical strings.
func RebuildNamed(hashes []Named[string], opts ...ufh.Option) ([]ufh.NamedDigest, error) {
	entries := make([]ufh.NamedDigest, len(hashes))
	for i, h := range hashes {
		entries[i].Name = h.Name
		if h.Data == "" {
			continue
		}
		d, err := ufh.Parse(h.Data, opts...)
		if err != nil {
			return nil, fmt.Errorf("hash %q could not be parsed: %w", h.Name, err)
		}
		entries[i].Digest = d
	}
	return entries, nil
}

// Strings returns the canonical strings of digests, "" for a nil digest.
func Strings(digests []*ufh.Digest) []string {
	out := make([]string, len(digests))
	for i, d := range digests {
		if d != nil {
			out[i] = d.String()
		}
	}
	return out
}

func NamedStrings(entries []ufh.NamedDigest) []Named[string] {
	out := make([]Named[string], len(entries))
	for i, e := range entries {
		out[i].Name = e.Name
		if e.Digest != nil {
			out[i].Data = e.Digest.String()
		}
	}
	return out
}

// NameByIndex names digests after their position in the slice.
func NameByIndex(digests []*ufh.Digest) []ufh.NamedDigest {
	entries := make([]ufh.NamedDigest, len(digests))
	for i, d := range digests {
		entries[i] = ufh.NamedDigest{Name: strconv.Itoa(i), Digest: d}
	}
	return entries
}
