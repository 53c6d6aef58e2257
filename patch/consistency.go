// File: consistency.go
// Role: agreement check for fixed bindings inside rigid components.

package patch

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvdepth/core"
)

// DefaultFixedTolerance bounds the per-parameter disagreement of fixed regions
// joined by strong binaries.
const DefaultFixedTolerance = 1e-2

// CheckFixedConsistency splits p by strong binaries (those pinning three
// independent anchors, so both endpoints lie on one plane) and requires every
// fixed region inside one such component to carry the same plane parameters
// within tol. Lines and free bindings are not compared.
//
// A non-positive tol selects DefaultFixedTolerance.
//
// Errors: ErrInconsistentFixed naming the first disagreeing pair, or any
// Split error.
func CheckFixedConsistency(g *core.MixedGraph, p Patch, strong func(core.BinaryHandle) bool, tol float64) error {
	if tol <= 0 {
		tol = DefaultFixedTolerance
	}
	parts, err := Split(g, p, strong)
	if err != nil {
		return fmt.Errorf("CheckFixedConsistency: %w", err)
	}
	for _, part := range parts {
		var ref *core.UnaryVariable
		var refH core.UnaryHandle
		for _, uh := range part.UnaryHandles() {
			v := part.Unaries[uh]
			u, _ := g.UnaryAt(uh)
			if !v.Fixed || u.Kind != core.Region {
				continue
			}
			if ref == nil {
				ref, refH = &v, uh
				continue
			}
			if len(v.Variables) != len(ref.Variables) {
				return fmt.Errorf("CheckFixedConsistency: unaries %d and %d: %w", refH, uh, ErrInconsistentFixed)
			}
			for i := range v.Variables {
				if math.Abs(v.Variables[i]-ref.Variables[i]) > tol {
					return fmt.Errorf("CheckFixedConsistency: unaries %d and %d differ by %.4g: %w",
						refH, uh, math.Abs(v.Variables[i]-ref.Variables[i]), ErrInconsistentFixed)
				}
			}
		}
	}

	return nil
}
