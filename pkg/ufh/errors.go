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
)

var (
	// ErrInvalidFactor is the parent of every factor validation error.
	ErrInvalidFactor = errors.New("invalid factor")

	// ErrFactorTooSmall is returned when the factor is not greater than 2.
	ErrFactorTooSmall = fmt.Errorf("%w: factor must be greater than 2", ErrInvalidFactor)

	// ErrFactorEven is returned when the factor is even.
	ErrFactorEven = fmt.Errorf("%w: factor must be odd", ErrInvalidFactor)

	// ErrFactorTooLarge is returned when the factor does not fit in 32 bits.
	ErrFactorTooLarge = fmt.Errorf("%w: factor must fit in a signed 32-bit integer", ErrInvalidFactor)

	// ErrNilInput is returned when a data source or digest argument is nil.
	ErrNilInput = errors.New("input is nil")

	// ErrFactorMismatch is returned when comparing digests computed with different factors.
	ErrFactorMismatch = errors.New("digests factors are different")

	// ErrMalformedDigest is the parent of every canonical string parse error.
	ErrMalformedDigest = errors.New("malformed digest string")

	// ErrInvalidCriterion is returned for an unknown sort criterion.
	ErrInvalidCriterion = errors.New("invalid sort criterion")

	errMissingSeparator = fmt.Errorf("digest string does not fit the format factor%sblocks", FactorSeparator)
)

// FactorIndex is the ParseError index used when the factor part is malformed.
const FactorIndex = -1

// ParseError describes a canonical string that could not be decoded.
// Index is the 0-based block number, or FactorIndex when the factor part
// (or the factor separator) is at fault.
type ParseError struct {
	Index   int
	Segment string
	Err     error
}

func (e *ParseError) Error() string {
	segment := e.Segment
	if segment == "" {
		segment = "<empty>"
	}
	if e.Index == FactorIndex {
		return fmt.Sprintf("%v: factor (%s) is not valid: %v", ErrMalformedDigest, segment, e.Err)
	}
	return fmt.Sprintf("%v: block number %d (%s) could not be parsed: %v", ErrMalformedDigest, e.Index, segment, e.Err)
}

// Unwrap exposes both ErrMalformedDigest and the underlying cause, so that
// errors.Is works for ErrMalformedDigest as well as ErrFactorEven and friends.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedDigest}
	}
	return []error{ErrMalformedDigest, e.Err}
}
