// Package matrix assembles sparse linear systems and hands them to gonum.
//
// The depth optimizer emits one row per (binary, anchor) pair, each touching
// at most two small variable blocks. Sparse records those rows as (row, col,
// value) triplets with a strict numeric policy (finite values only, indices in
// range), supports per-row weighting, and materializes a *mat.Dense only at
// solve time.
//
//	s, _ := matrix.NewSparse(cols)
//	r := s.AppendRow()
//	_ = s.Add(r, j, v)         // accumulates
//	w := s.Clone()             // weight a copy, keep s unweighted
//	_ = w.ScaleRow(r, weight)
//	A, _ := s.ToDense()        // *mat.Dense, rows × cols
//	res, _ := s.MulVec(x)      // A·x without densifying
//
// Errors: ErrBadShape, ErrOutOfRange, ErrDimensionMismatch, ErrNaNInf.
package matrix
