// File: lp.go
// Role: weighted L1 backend on gonum's simplex.
//
// Standard form (all columns >= 0):
//
//	columns  [ p | q | e⁺ | e⁻ | s ]      x = p − q
//	rows     Aᵢ·(p − q) + e⁺ᵢ − e⁻ᵢ = bᵢ   every equation except the scale row
//	         A₀·(p − q) = 1                the scale row, hard
//	         Fⱼ·(p − q) − sⱼ = fⱼ          inverse depth floors
//	cost     Σ wᵢ·(e⁺ᵢ + e⁻ᵢ) / max w
//
// Dividing by the largest weight leaves the minimizer unchanged; mixed
// weights such as 1, 10 and 100 otherwise push lp.Simplex into reporting an
// unbounded problem.
// Every soft row owns its e⁺ column and every floor row its s column, so the
// constraint matrix has full row rank whenever the scale row is non-zero.

package optimizer

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// simplexTolerance is the reduced-cost tolerance passed to lp.Simplex.
const simplexTolerance = 1e-10

// LinearProgram minimizes Σ wᵢ·|Aᵢ·x − bᵢ| subject to the system's floors.
type LinearProgram struct{}

// Name implements Solver.
func (LinearProgram) Name() Algorithm { return LinearProgramAlgorithm }

// Solve implements Solver.
// Errors from lp.Simplex (infeasible, unbounded, singular) are wrapped.
func (LinearProgram) Solve(sys *System) ([]float64, error) {
	n := sys.Unknowns()
	m := sys.Equations()
	scale := sys.ScaleRow()
	soft := m
	if scale >= 0 {
		soft--
	}
	floors, floorRHS := sys.Floors()
	nf := floors.Rows()

	rows := m + nf
	cols := 2*n + 2*soft + nf
	A := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	c := make([]float64, cols)

	coeff, err := sys.Dense()
	if err != nil {
		return nil, fmt.Errorf("LinearProgram: %w", err)
	}
	rhs, weights := sys.RHS(), sys.Weights()

	e := 0
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			v := coeff.At(i, j)
			A.Set(i, j, v)
			A.Set(i, n+j, -v)
		}
		b[i] = rhs[i]
		if i == scale {
			continue
		}
		ep, em := 2*n+e, 2*n+soft+e
		A.Set(i, ep, 1)
		A.Set(i, em, -1)
		c[ep], c[em] = weights[i], weights[i]
		e++
	}

	for k := 0; k < nf; k++ {
		tr, err := floors.Row(k)
		if err != nil {
			return nil, fmt.Errorf("LinearProgram: %w", err)
		}
		for _, t := range tr {
			A.Set(m+k, t.Col, A.At(m+k, t.Col)+t.Val)
			A.Set(m+k, n+t.Col, A.At(m+k, n+t.Col)-t.Val)
		}
		A.Set(m+k, 2*n+2*soft+k, -1)
		b[m+k] = floorRHS[k]
	}

	normalizeCost(c)
	_, opt, err := lp.Simplex(c, A, b, simplexTolerance, nil)
	if err != nil {
		return nil, fmt.Errorf("LinearProgram: %w", err)
	}
	x := make([]float64, n)
	for j := range x {
		x[j] = opt[j] - opt[n+j]
	}

	return x, nil
}

// normalizeCost divides c by its largest entry in place. A non-positive
// maximum leaves c untouched.
func normalizeCost(c []float64) {
	top := 0.0
	for _, v := range c {
		if v > top {
			top = v
		}
	}
	if top <= 0 {
		return
	}
	for i := range c {
		c[i] /= top
	}
}
