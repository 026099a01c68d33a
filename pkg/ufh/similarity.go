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

import "math"

// Similarity returns how much of d is contained in other, as a number
// between 0 and 1: the summed size of the blocks of d whose hash is also a
// block hash of other, over the data size of d.
//
// The score is directional. When caching is enabled it is stored in d,
// keyed by the identity of other; other's cache is left untouched.
func (d *Digest) Similarity(other *Digest) (float64, error) {
	if d == nil || other == nil {
		return 0, ErrNilInput
	}
	if d == other {
		return 1, nil
	}
	if d.factor != other.factor {
		return 0, ErrFactorMismatch
	}
	if len(d.blocks) == 0 || len(other.blocks) == 0 {
		return 0, nil
	}

	if s, ok := d.cachedSimilarity(other); ok {
		return s, nil
	}

	// other's lock is released before d's is taken again in storeSimilarity,
	// so crossed calls on the same pair cannot deadlock.
	otherSet := other.BlockSet()

	var sizeSum uint64
	for _, b := range d.blocks {
		if otherSet.Contains(b) {
			sizeSum += b.Size()
		}
	}

	s := float64(sizeSum) / float64(d.dataSize)
	d.storeSimilarity(other, s)

	return s, nil
}

// ReverseSimilarity returns how much of other is contained in d.
func (d *Digest) ReverseSimilarity(other *Digest) (float64, error) {
	if d == nil || other == nil {
		return 0, ErrNilInput
	}
	return other.Similarity(d)
}

func (d *Digest) bothSimilarities(other *Digest) (float64, float64, error) {
	s1, err := d.Similarity(other)
	if err != nil {
		return 0, 0, err
	}
	s2, err := d.ReverseSimilarity(other)
	if err != nil {
		return 0, 0, err
	}
	return s1, s2, nil
}

// MaxSimilarity returns the largest of both directional similarities.
func (d *Digest) MaxSimilarity(other *Digest) (float64, error) {
	s1, s2, err := d.bothSimilarities(other)
	if err != nil {
		return 0, err
	}
	return max(s1, s2), nil
}

// MinSimilarity returns the smallest of both directional similarities.
func (d *Digest) MinSimilarity(other *Digest) (float64, error) {
	s1, s2, err := d.bothSimilarities(other)
	if err != nil {
		return 0, err
	}
	return min(s1, s2), nil
}

// ArithmeticMeanSimilarity returns the arithmetic mean of both directional similarities.
func (d *Digest) ArithmeticMeanSimilarity(other *Digest) (float64, error) {
	s1, s2, err := d.bothSimilarities(other)
	if err != nil {
		return 0, err
	}
	return (s1 + s2) / 2, nil
}

// GeometricMeanSimilarity returns sqrt(s1*s2) of both directional similarities.
func (d *Digest) GeometricMeanSimilarity(other *Digest) (float64, error) {
	s1, s2, err := d.bothSimilarities(other)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(s1 * s2), nil
}

// Scores groups every similarity measure between two digests.
type Scores struct {
	Similarity        float64
	ReverseSimilarity float64
	Max               float64
	Min               float64
	ArithmeticMean    float64
	GeometricMean     float64
}

// AllSimilarities computes every measure between d and other at once.
func (d *Digest) AllSimilarities(other *Digest) (Scores, error) {
	s1, s2, err := d.bothSimilarities(other)
	if err != nil {
		return Scores{}, err
	}
	return Scores{
		Similarity:        s1,
		ReverseSimilarity: s2,
		Max:               max(s1, s2),
		Min:               min(s1, s2),
		ArithmeticMean:    (s1 + s2) / 2,
		GeometricMean:     math.Sqrt(s1 * s2),
	}, nil
}
