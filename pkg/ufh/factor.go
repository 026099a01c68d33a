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
	"fmt"
	"math"
	"math/bits"
)

// BlockHashModulo is the modulo of every block hash (2^31 - 1).
const BlockHashModulo = math.MaxInt32

// CheckFactor reports whether factor can be used to compute a digest.
// A factor must be odd and greater than 2.
func CheckFactor(factor int) error {
	if factor <= 2 {
		return fmt.Errorf("%w: got %d", ErrFactorTooSmall, factor)
	}
	if factor%2 == 0 {
		return fmt.Errorf("%w: got %d", ErrFactorEven, factor)
	}
	if factor > math.MaxInt32 {
		return fmt.Errorf("%w: got %d", ErrFactorTooLarge, factor)
	}
	return nil
}

// WindowSize returns the size in bytes of the rolling window used with factor:
// the minimal byte length of factor plus 5.
func WindowSize(factor int) int {
	return minimalByteLength(uint32(factor)) + 5
}

// minimalByteLength is the number of bytes needed to represent n in binary.
func minimalByteLength(n uint32) int {
	bitLen := bits.Len32(n)
	if bitLen == 0 {
		return 1
	}
	return (bitLen-1)/8 + 1
}

// windowShift computes (2^(8*windowSize)) mod factor, the weight of the byte
// leaving the rolling window.
func windowShift(windowSize int, factor int64) int64 {
	acc := int64(1)
	for i := 0; i < windowSize; i++ {
		acc = (acc << 8) % factor
	}
	return acc
}
