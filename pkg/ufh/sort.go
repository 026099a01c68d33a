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
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortCriterion selects how digests are ordered by SortBySimilarity.
type SortCriterion int

const (
	// ReferenceToOthersAsc sorts by the similarity of the reference to each digest, ascending.
	ReferenceToOthersAsc SortCriterion = iota
	// ReferenceToOthersDesc sorts by the similarity of the reference to each digest, descending.
	ReferenceToOthersDesc
	// OthersToReferenceAsc sorts by the similarity of each digest to the reference, ascending.
	OthersToReferenceAsc
	// OthersToReferenceDesc sorts by the similarity of each digest to the reference, descending.
	OthersToReferenceDesc
)

var criterionNames = map[SortCriterion]string{
	ReferenceToOthersAsc:  "ref-to-others-asc",
	ReferenceToOthersDesc: "ref-to-others-desc",
	OthersToReferenceAsc:  "others-to-ref-asc",
	OthersToReferenceDesc: "others-to-ref-desc",
}

func (c SortCriterion) String() string {
	if name, ok := criterionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("SortCriterion(%d)", int(c))
}

// ParseSortCriterion parses the names returned by SortCriterion.String.
func ParseSortCriterion(s string) (SortCriterion, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range criterionNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCriterion, s)
}

// SortCriteria lists every criterion name, in declaration order.
func SortCriteria() []string {
	return []string{
		ReferenceToOthersAsc.String(),
		ReferenceToOthersDesc.String(),
		OthersToReferenceAsc.String(),
		OthersToReferenceDesc.String(),
	}
}

// score returns the value d is ordered by.
func (c SortCriterion) score(ref, d *Digest) (float64, error) {
	switch c {
	case ReferenceToOthersAsc, ReferenceToOthersDesc:
		return ref.Similarity(d)
	default:
		return d.Similarity(ref)
	}
}

func (c SortCriterion) descending() bool {
	return c == ReferenceToOthersDesc || c == OthersToReferenceDesc
}

// comparator builds a stable ordering function that puts nil digests last.
// The first error met while scoring is stored in errp.
func (c SortCriterion) comparator(ref *Digest, errp *error) func(a, b *Digest) int {
	return func(a, b *Digest) int {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return 1
		case b == nil:
			return -1
		}
		if *errp != nil {
			return 0
		}

		sa, err := c.score(ref, a)
		if err != nil {
			*errp = err
			return 0
		}
		sb, err := c.score(ref, b)
		if err != nil {
			*errp = err
			return 0
		}

		if c.descending() {
			return cmp.Compare(sb, sa)
		}
		return cmp.Compare(sa, sb)
	}
}

func (c SortCriterion) validate() error {
	if _, ok := criterionNames[c]; !ok {
		return fmt.Errorf("%w: %d", ErrInvalidCriterion, int(c))
	}
	return nil
}

// SortBySimilarity returns a new slice holding digests ordered by their
// similarity with ref according to criterion. The input is not modified,
// nil entries go last and ties keep their input order.
func SortBySimilarity(digests []*Digest, ref *Digest, criterion SortCriterion) ([]*Digest, error) {
	if ref == nil {
		return nil, ErrNilInput
	}
	if err := criterion.validate(); err != nil {
		return nil, err
	}

	sorted := slices.Clone(digests)

	var sortErr error
	less := criterion.comparator(ref, &sortErr)
	slices.SortStableFunc(sorted, less)
	if sortErr != nil {
		return nil, sortErr
	}

	return sorted, nil
}

// NamedDigest associates a digest with a name, such as a file name.
type NamedDigest struct {
	Name   string
	Digest *Digest
}

// SortNamedBySimilarity is SortBySimilarity for named digests.
func SortNamedBySimilarity(entries []NamedDigest, ref *Digest, criterion SortCriterion) ([]NamedDigest, error) {
	if ref == nil {
		return nil, ErrNilInput
	}
	if err := criterion.validate(); err != nil {
		return nil, err
	}

	sorted := slices.Clone(entries)

	var sortErr error
	less := criterion.comparator(ref, &sortErr)
	slices.SortStableFunc(sorted, func(a, b NamedDigest) int {
		return less(a.Digest, b.Digest)
	})
	if sortErr != nil {
		return nil, sortErr
	}

	return sorted, nil
}
