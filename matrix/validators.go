// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single source of truth for numeric-policy checks on vectors.
//  - Return sentinel errors tagged with the validator name.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing on success.

package matrix

import (
	"fmt"
	"math"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateFinite rejects any NaN or ±Inf entry of v.
//
// Returns wrapped ErrNaNInf naming the first offending index.
// Complexity: O(len(v)).
func ValidateFinite(v []float64) error {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return validatorErrorf(fmt.Sprintf("ValidateFinite[%d]", i), ErrNaNInf)
		}
	}

	return nil
}

// ValidateVecLen ensures len(v) == n.
//
// Returns wrapped ErrDimensionMismatch otherwise.
// Complexity: O(1).
func ValidateVecLen(v []float64, n int) error {
	if len(v) != n {
		return validatorErrorf(fmt.Sprintf("ValidateVecLen(%d!=%d)", len(v), n), ErrDimensionMismatch)
	}

	return nil
}

// validateIndex checks 0 <= i < n.
func validateIndex(tag string, i, n int) error {
	if i < 0 || i >= n {
		return validatorErrorf(fmt.Sprintf("%s(%d of %d)", tag, i, n), ErrOutOfRange)
	}

	return nil
}
