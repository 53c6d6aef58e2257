// File: options.go
// Role: solver selection and numeric knobs (functional options).

package optimizer

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidOption indicates an option value outside its domain.
var ErrInvalidOption = errors.New("optimizer: invalid option")

// Algorithm names a solver backend.
type Algorithm string

const (
	// LeastSquaresAlgorithm minimizes the weighted L2 residual (QR/LQ, SVD fallback).
	LeastSquaresAlgorithm Algorithm = "least-squares"
	// LinearProgramAlgorithm minimizes the weighted L1 residual with the simplex method.
	LinearProgramAlgorithm Algorithm = "linear-program"
)

// DefaultLPInverseDepthFloor bounds every free unary's center inverse depth
// from below in the linear-program backend, i.e. center depth stays under 1000.
// It keeps the all-zero solution out without putting a floor on depth itself.
const DefaultLPInverseDepthFloor = 1e-3

// ParseAlgorithm maps a configuration string to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case LeastSquaresAlgorithm, LinearProgramAlgorithm:
		return Algorithm(s), nil
	default:
		return "", fmt.Errorf("%w: algorithm %q", ErrInvalidOption, s)
	}
}

// Options configures one Optimize call.
type Options struct {
	// Algorithm selects the built-in backend when Solver is nil.
	Algorithm Algorithm
	// UseWeights scales each binary's rows by its weight; otherwise all rows weigh 1.
	UseWeights bool
	// KinkTolerance is passed to NecessaryAnchors.
	KinkTolerance float64
	// LPInverseDepthFloor is the linear-program lower bound on center inverse depth.
	LPInverseDepthFloor float64
	// SharedRigid lets regions joined by strong binaries share one plane and
	// spreads fixed planes across such components.
	SharedRigid bool
	// Solver overrides Algorithm.
	Solver Solver

	err error
}

// Option configures Options.
type Option func(*Options)

// DefaultOptions returns least squares, weights on, DefaultKinkTolerance,
// DefaultLPInverseDepthFloor, no rigid sharing.
func DefaultOptions() Options {
	return Options{
		Algorithm:           LeastSquaresAlgorithm,
		UseWeights:          true,
		KinkTolerance:       DefaultKinkTolerance,
		LPInverseDepthFloor: DefaultLPInverseDepthFloor,
	}
}

// WithAlgorithm selects a built-in backend.
func WithAlgorithm(a Algorithm) Option {
	return func(o *Options) {
		if _, err := ParseAlgorithm(string(a)); err != nil {
			o.err = err
			return
		}
		o.Algorithm = a
	}
}

// WithUseWeights toggles per-binary row weighting.
func WithUseWeights(on bool) Option {
	return func(o *Options) { o.UseWeights = on }
}

// WithKinkTolerance sets the kink tolerance; it must be finite and positive.
func WithKinkTolerance(tol float64) Option {
	return func(o *Options) {
		if !(tol > 0) || math.IsInf(tol, 0) {
			o.err = fmt.Errorf("%w: kink tolerance %v", ErrInvalidOption, tol)
			return
		}
		o.KinkTolerance = tol
	}
}

// WithLPFloor sets the linear-program inverse depth floor; it must be finite and positive.
func WithLPFloor(floor float64) Option {
	return func(o *Options) {
		if !(floor > 0) || math.IsInf(floor, 0) {
			o.err = fmt.Errorf("%w: inverse depth floor %v", ErrInvalidOption, floor)
			return
		}
		o.LPInverseDepthFloor = floor
	}
}

// WithSharedRigid toggles plane sharing across strong components.
func WithSharedRigid(on bool) Option {
	return func(o *Options) { o.SharedRigid = on }
}

// WithSolver installs a custom backend.
func WithSolver(s Solver) Option {
	return func(o *Options) {
		if s != nil {
			o.Solver = s
		}
	}
}

// solver returns the backend o selects.
func (o Options) solver() Solver {
	if o.Solver != nil {
		return o.Solver
	}
	if o.Algorithm == LinearProgramAlgorithm {
		return LinearProgram{}
	}

	return LeastSquares{}
}
