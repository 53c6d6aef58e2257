// File: solver.go
// Role: the Solver contract and the least-squares backend.

package optimizer

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// svdRcond is the relative singular value cutoff of the rank-deficient fallback.
const svdRcond = 1e-12

// Solver computes the unknowns of an assembled System.
// Implementations must not retain sys.
type Solver interface {
	Name() Algorithm
	Solve(sys *System) ([]float64, error)
}

// LeastSquares minimizes Σ (wᵢ·(Aᵢ·x − bᵢ))².
//
// The row-scaled system is handed to mat.VecDense.SolveVec (LU when square,
// QR when overdetermined, minimum-norm LQ when underdetermined). When gonum
// reports a rank-deficient matrix, the minimum-norm solution is recomputed
// from a thin SVD truncated at svdRcond.
type LeastSquares struct{}

// Name implements Solver.
func (LeastSquares) Name() Algorithm { return LeastSquaresAlgorithm }

// Solve implements Solver.
func (LeastSquares) Solve(sys *System) ([]float64, error) {
	weighted := sys.Matrix().Clone()
	b := sys.RHS()
	for i, w := range sys.Weights() {
		if err := weighted.ScaleRow(i, w); err != nil {
			return nil, fmt.Errorf("LeastSquares: %w", err)
		}
		b[i] *= w
	}
	a, err := weighted.ToDense()
	if err != nil {
		return nil, fmt.Errorf("LeastSquares: %w", err)
	}
	bv := mat.NewVecDense(len(b), b)

	var x mat.VecDense
	err = x.SolveVec(a, bv)
	if err == nil {
		return x.RawVector().Data, nil
	}
	var cond mat.Condition
	if !errors.As(err, &cond) {
		return nil, fmt.Errorf("LeastSquares: %w", err)
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, fmt.Errorf("LeastSquares: SVD did not converge")
	}
	rank := svd.Rank(svdRcond)
	if rank == 0 {
		return nil, fmt.Errorf("LeastSquares: zero-rank system")
	}
	var y mat.VecDense
	svd.SolveVecTo(&y, bv, rank)

	return y.RawVector().Data, nil
}
