// Package optimizer recovers depth for one patch of a core.MixedGraph.
//
// Every binary asks its two unaries to agree on inverse depth along a few
// anchor rays. Because both depth models are linear in their variables, each
// agreement is one linear equation; Optimize assembles them (System), hands
// the weighted system to a Solver and writes the solution back into the
// patch's free bindings.
//
// Backends:
//
//	LeastSquares   - weighted L2 (gonum mat, SVD fallback on rank deficiency).
//	LinearProgram  - weighted L1 with a hard scale row and inverse depth floors
//	                 (gonum optimize/convex/lp).
//
// Errors:
//
//	ErrOptimizationFailed - nothing to solve, a non-finite or failed solve.
//	ErrInvalidOption      - an option outside its domain.
//	patch.ErrInvariantViolation - the patch breaks invariant A or B.
//	patch.ErrInconsistentFixed  - SharedRigid joined fixed regions that disagree.
package optimizer

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvdepth/core"
	"github.com/katalvlaran/lvdepth/patch"
)

// ErrOptimizationFailed indicates a patch that could not be solved; the
// patch is left as it was.
var ErrOptimizationFailed = errors.New("optimizer: optimization failed")

// Report summarizes one Optimize call.
type Report struct {
	Algorithm Algorithm
	Variables int     // unknowns after compaction
	Equations int     // rows including the scale row
	Residual  float64 // weighted L2 norm of A·x − b
}

// Optimize solves patch p in place.
//
// Steps:
//  1. Resolve options; invalid values return ErrInvalidOption.
//  2. Assemble the system (see Assemble).
//  3. Solve with the selected backend.
//  4. Write variables of non-fixed unaries and per-binary slacks into p.
//
// Fixed bindings are never modified. On any error p is unchanged.
func Optimize(g *core.MixedGraph, p *patch.Patch, opts ...Option) (Report, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return Report{}, o.err
	}
	if g == nil {
		return Report{}, fmt.Errorf("Optimize: nil graph: %w", patch.ErrInvariantViolation)
	}

	sys, err := Assemble(g, p, o)
	if err != nil {
		if errors.Is(err, patch.ErrInvariantViolation) || errors.Is(err, patch.ErrInconsistentFixed) || errors.Is(err, ErrOptimizationFailed) {
			return Report{}, fmt.Errorf("Optimize: %w", err)
		}
		return Report{}, fmt.Errorf("Optimize: %v: %w", err, ErrOptimizationFailed)
	}

	solver := o.solver()
	x, err := solver.Solve(sys)
	if err != nil {
		return Report{}, fmt.Errorf("Optimize: %v: %w", err, ErrOptimizationFailed)
	}
	residual, err := sys.Apply(p, x)
	if err != nil {
		return Report{}, fmt.Errorf("Optimize: %w", err)
	}

	return Report{
		Algorithm: solver.Name(),
		Variables: sys.Unknowns(),
		Equations: sys.Equations(),
		Residual:  residual,
	}, nil
}
