// SPDX-License-Identifier: MIT
// Package: matrix
//
// Sparse: row-growing triplet store.
//
// Contract:
//  - Column count is fixed at creation; rows are appended one at a time.
//  - Add accumulates into (i,j); duplicates are summed at densification.
//  - Every stored value is finite.
//
// Determinism:
//  - Triplets keep insertion order; ToDense and MulVec visit them in that order.

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Triplet is one stored entry.
type Triplet struct {
	Row, Col int
	Val      float64
}

// SparseOption configures a Sparse before first use.
type SparseOption func(*Sparse)

// WithCapacity preallocates room for nnz triplets.
func WithCapacity(nnz int) SparseOption {
	return func(s *Sparse) {
		if nnz > 0 {
			s.entries = make([]Triplet, 0, nnz)
		}
	}
}

// Sparse is a rows × cols matrix stored as triplets.
type Sparse struct {
	rows    int
	cols    int
	entries []Triplet
}

// NewSparse returns an empty 0 × cols matrix.
// Returns ErrBadShape if cols <= 0.
func NewSparse(cols int, opts ...SparseOption) (*Sparse, error) {
	if cols <= 0 {
		return nil, fmt.Errorf("NewSparse(%d): %w", cols, ErrBadShape)
	}
	s := &Sparse{cols: cols}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Rows returns the number of appended rows.
func (s *Sparse) Rows() int { return s.rows }

// Cols returns the fixed column count.
func (s *Sparse) Cols() int { return s.cols }

// NNZ returns the number of stored triplets (duplicates counted separately).
func (s *Sparse) NNZ() int { return len(s.entries) }

// AppendRow adds an all-zero row and returns its index.
func (s *Sparse) AppendRow() int {
	s.rows++

	return s.rows - 1
}

// Add accumulates v into entry (i, j). Zero values are not stored.
// Errors: ErrOutOfRange, ErrNaNInf.
func (s *Sparse) Add(i, j int, v float64) error {
	if err := validateIndex("Add: row", i, s.rows); err != nil {
		return err
	}
	if err := validateIndex("Add: col", j, s.cols); err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("Add(%d,%d): %w", i, j, ErrNaNInf)
	}
	if v != 0 {
		s.entries = append(s.entries, Triplet{Row: i, Col: j, Val: v})
	}

	return nil
}

// Clone returns an independent copy of s.
func (s *Sparse) Clone() *Sparse {
	return &Sparse{rows: s.rows, cols: s.cols, entries: append([]Triplet(nil), s.entries...)}
}

// ScaleRow multiplies every entry of row i by f.
// Errors: ErrOutOfRange, ErrNaNInf.
// Complexity: O(NNZ).
func (s *Sparse) ScaleRow(i int, f float64) error {
	if err := validateIndex("ScaleRow", i, s.rows); err != nil {
		return err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("ScaleRow(%d): %w", i, ErrNaNInf)
	}
	for k := range s.entries {
		if s.entries[k].Row == i {
			s.entries[k].Val *= f
		}
	}

	return nil
}

// Row returns a copy of the triplets stored in row i, in insertion order.
func (s *Sparse) Row(i int) ([]Triplet, error) {
	if err := validateIndex("Row", i, s.rows); err != nil {
		return nil, err
	}
	var out []Triplet
	for _, t := range s.entries {
		if t.Row == i {
			out = append(out, t)
		}
	}

	return out, nil
}

// ColumnUsed reports, per column, whether any stored value is non-zero.
func (s *Sparse) ColumnUsed() []bool {
	used := make([]bool, s.cols)
	for _, t := range s.entries {
		if t.Val != 0 {
			used[t.Col] = true
		}
	}

	return used
}

// ToDense materializes the matrix as a gonum *mat.Dense.
// Returns ErrBadShape when no row was appended (gonum rejects empty matrices).
// Complexity: O(rows·cols + NNZ).
func (s *Sparse) ToDense() (*mat.Dense, error) {
	if s.rows == 0 {
		return nil, fmt.Errorf("ToDense: 0x%d: %w", s.cols, ErrBadShape)
	}
	d := mat.NewDense(s.rows, s.cols, nil)
	for _, t := range s.entries {
		d.Set(t.Row, t.Col, d.At(t.Row, t.Col)+t.Val)
	}

	return d, nil
}

// MulVec returns A·x.
// Errors: ErrDimensionMismatch, ErrNaNInf (for x).
// Complexity: O(rows + NNZ).
func (s *Sparse) MulVec(x []float64) ([]float64, error) {
	if err := ValidateVecLen(x, s.cols); err != nil {
		return nil, fmt.Errorf("MulVec: %w", err)
	}
	if err := ValidateFinite(x); err != nil {
		return nil, fmt.Errorf("MulVec: %w", err)
	}
	out := make([]float64, s.rows)
	for _, t := range s.entries {
		out[t.Row] += t.Val * x[t.Col]
	}

	return out, nil
}

// SelectColumns returns a rows × len(keep) matrix whose column k is column
// keep[k] of s. Entries in columns not listed are dropped.
// Errors: ErrBadShape (empty keep), ErrOutOfRange.
// Complexity: O(NNZ + cols).
func (s *Sparse) SelectColumns(keep []int) (*Sparse, error) {
	if len(keep) == 0 {
		return nil, fmt.Errorf("SelectColumns: %w", ErrBadShape)
	}
	pos := make([]int, s.cols)
	for j := range pos {
		pos[j] = -1
	}
	for k, j := range keep {
		if err := validateIndex("SelectColumns", j, s.cols); err != nil {
			return nil, err
		}
		pos[j] = k
	}
	out := &Sparse{rows: s.rows, cols: len(keep), entries: make([]Triplet, 0, len(s.entries))}
	for _, t := range s.entries {
		if k := pos[t.Col]; k >= 0 {
			out.entries = append(out.entries, Triplet{Row: t.Row, Col: k, Val: t.Val})
		}
	}

	return out, nil
}
