// File: diagnostics.go
// Role: pure read-only measures over a patch's current bindings. Nothing here
//       mutates the patch or the graph.

package patch

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvdepth/core"
)

// AnchorDistanceSum returns Σ |depth₁(a) − depth₂(a)| over every anchor a of
// binary b, with depths taken from p's bindings of b's endpoints.
//
// Errors: core.ErrBinaryNotFound, ErrMissingBinding, core.ErrDegenerateGeometry.
func AnchorDistanceSum(g *core.MixedGraph, p Patch, b core.BinaryHandle) (float64, error) {
	if _, ok := p.Binaries[b]; !ok {
		return 0, fmt.Errorf("AnchorDistanceSum: binary %d: %w", b, ErrMissingBinding)
	}
	bin, err := g.BinaryAt(b)
	if err != nil {
		return 0, fmt.Errorf("AnchorDistanceSum: %w", err)
	}
	ends, _ := g.Endpoints(b)
	vps := g.VanishingPoints()

	var us [2]*core.Unary
	var vs [2]core.UnaryVariable
	for i, uh := range ends {
		v, ok := p.Unaries[uh]
		if !ok {
			return 0, fmt.Errorf("AnchorDistanceSum: unary %d: %w", uh, ErrMissingBinding)
		}
		vs[i] = v
		us[i], _ = g.UnaryAt(uh)
	}

	sum := 0.0
	for _, a := range bin.NormalizedAnchors {
		inv1, err := vs[0].InverseDepthAt(a, us[0], vps)
		if err != nil {
			return 0, fmt.Errorf("AnchorDistanceSum: %w", err)
		}
		inv2, err := vs[1].InverseDepthAt(a, us[1], vps)
		if err != nil {
			return 0, fmt.Errorf("AnchorDistanceSum: %w", err)
		}
		sum += math.Abs(1/inv1 - 1/inv2)
	}
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return 0, fmt.Errorf("AnchorDistanceSum: binary %d: %w", b, core.ErrDegenerateGeometry)
	}

	return sum, nil
}

// BinaryDistance returns the mean anchor depth disagreement of binary b.
func BinaryDistance(g *core.MixedGraph, p Patch, b core.BinaryHandle) (float64, error) {
	sum, err := AnchorDistanceSum(g, p, b)
	if err != nil {
		return 0, err
	}
	bin, _ := g.BinaryAt(b)

	return sum / float64(len(bin.NormalizedAnchors)), nil
}

// AverageBinaryDistance returns the mean BinaryDistance over p's binaries,
// or 0 for a patch without binaries.
func AverageBinaryDistance(g *core.MixedGraph, p Patch) (float64, error) {
	if len(p.Binaries) == 0 {
		return 0, nil
	}
	sum := 0.0
	for _, bh := range p.BinaryHandles() {
		d, err := BinaryDistance(g, p, bh)
		if err != nil {
			return 0, err
		}
		sum += d
	}

	return sum / float64(len(p.Binaries)), nil
}

// AverageCenterDepth returns the mean depth at the center ray over p's unaries.
func AverageCenterDepth(g *core.MixedGraph, p Patch) (float64, error) {
	if len(p.Unaries) == 0 {
		return 0, fmt.Errorf("AverageCenterDepth: empty patch: %w", ErrInvariantViolation)
	}
	vps := g.VanishingPoints()
	sum := 0.0
	for _, uh := range p.UnaryHandles() {
		u, err := g.UnaryAt(uh)
		if err != nil {
			return 0, fmt.Errorf("AverageCenterDepth: %w", err)
		}
		v := p.Unaries[uh]
		d, err := v.DepthAtCenter(u, vps)
		if err != nil {
			return 0, fmt.Errorf("AverageCenterDepth: unary %d: %w", uh, err)
		}
		sum += d
	}

	return sum / float64(len(p.Unaries)), nil
}
