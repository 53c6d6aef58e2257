// File: decompose.go
// Role: partition of a graph (Decompose) or of a patch (Split) into maximal
//       connected patches.
// Determinism:
//   - Patches are ordered by their smallest unary handle.

package patch

import (
	"fmt"

	"github.com/katalvlaran/lvdepth/bfs"
	"github.com/katalvlaran/lvdepth/core"
)

// Decompose partitions every unary of g into patches connected through
// enabled binaries.
//
// Steps:
//  1. Require a binding for every unary and binary of g.
//  2. Connected components over enabled binaries (bfs.ConnectedComponents).
//  3. Place each enabled binary in the patch holding its endpoints.
//  4. Validate every patch.
//
// Every unary lands in exactly one patch; every enabled binary lands in
// exactly one patch; disabled binaries land in none. A unary without enabled
// binaries becomes a singleton patch.
//
// Complexity: O(V + E).
func Decompose(g *core.MixedGraph, uvars core.UnaryVarTable, bvars core.BinaryVarTable) ([]Patch, error) {
	if g == nil {
		return nil, fmt.Errorf("Decompose: nil graph: %w", ErrInvariantViolation)
	}
	for _, uh := range g.Unaries() {
		if _, ok := uvars[uh]; !ok {
			return nil, fmt.Errorf("Decompose: unary %d: %w", uh, ErrMissingBinding)
		}
	}
	for _, bh := range g.Binaries() {
		if _, ok := bvars[bh]; !ok {
			return nil, fmt.Errorf("Decompose: binary %d: %w", bh, ErrMissingBinding)
		}
	}

	comps, err := bfs.ConnectedComponents(g, bfs.WithFilterBinary(func(b core.BinaryHandle) bool {
		return bvars[b].Enabled
	}))
	if err != nil {
		return nil, fmt.Errorf("Decompose: %w", err)
	}

	patches, owner := fromComponents(comps, uvars)
	for _, bh := range g.Binaries() {
		if !bvars[bh].Enabled {
			continue
		}
		ends, _ := g.Endpoints(bh)
		patches[owner[ends[0]]].Binaries[bh] = bvars[bh]
	}
	for i := range patches {
		if err := Validate(g, patches[i]); err != nil {
			return nil, fmt.Errorf("Decompose: patch %d: %w", i, err)
		}
	}

	return patches, nil
}

// Split partitions p into patches connected through p's own binaries that
// satisfy pred. Each resulting patch also keeps the binaries of p that fail
// pred but join two of its own unaries.
//
// Precondition: p satisfies invariant A (ErrInvariantViolation otherwise).
// Complexity: O(V + E) over the patch.
func Split(g *core.MixedGraph, p Patch, pred func(core.BinaryHandle) bool) ([]Patch, error) {
	if g == nil || !EdgesValid(g, p) {
		return nil, fmt.Errorf("Split: edges valid: %w", ErrInvariantViolation)
	}
	for uh := range p.Unaries {
		if !g.HasUnary(uh) {
			return nil, fmt.Errorf("Split: unary %d: %w", uh, ErrInvariantViolation)
		}
	}
	if pred == nil {
		pred = func(core.BinaryHandle) bool { return true }
	}

	comps, err := bfs.ConnectedComponents(g,
		bfs.WithFilterUnary(func(u core.UnaryHandle) bool {
			_, ok := p.Unaries[u]
			return ok
		}),
		bfs.WithFilterBinary(func(b core.BinaryHandle) bool {
			_, ok := p.Binaries[b]
			return ok && pred(b)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("Split: %w", err)
	}

	patches, owner := fromComponents(comps, p.Unaries)
	for _, bh := range p.BinaryHandles() {
		ends, _ := g.Endpoints(bh)
		if owner[ends[0]] == owner[ends[1]] {
			patches[owner[ends[0]]].Binaries[bh] = p.Binaries[bh]
		}
	}
	for i := range patches {
		if err := Validate(g, patches[i]); err != nil {
			return nil, fmt.Errorf("Split: patch %d: %w", i, err)
		}
	}

	return patches, nil
}

// fromComponents creates one patch per component with cloned unary bindings
// and returns the unary → patch index map.
func fromComponents(comps [][]core.UnaryHandle, uvars core.UnaryVarTable) ([]Patch, map[core.UnaryHandle]int) {
	patches := make([]Patch, len(comps))
	owner := make(map[core.UnaryHandle]int)
	for i, comp := range comps {
		patches[i] = newPatch(len(comp), len(comp))
		for _, uh := range comp {
			patches[i].Unaries[uh] = uvars[uh].Clone()
			owner[uh] = i
		}
	}

	return patches, owner
}
