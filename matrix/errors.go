// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the matrix
// package. Functions return these sentinels (optionally wrapped with context)
// and tests check them via errors.Is. Nothing panics on user input.

package matrix

import "errors"

// Every message is prefixed with "matrix: ..." for consistency.
//
// ERROR PRIORITY: shape/index/NaN -> dimension mismatch.
var (
	// ErrBadShape is returned when a requested or materialized shape is invalid
	// (cols <= 0, or no rows at densification time).
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g. MulVec with len(x) != Cols().
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")
)
