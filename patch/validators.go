// File: validators.go
// Role: invariant checks (EdgesValid, NodesConnected, Validate) and the two
//       local patch constructors (OnBinary, Star).

package patch

import (
	"fmt"

	"github.com/katalvlaran/lvdepth/bfs"
	"github.com/katalvlaran/lvdepth/core"
)

// EdgesValid reports whether every binary of p exists in g and has both
// endpoints in p (invariant A).
// Complexity: O(|p.Binaries|).
func EdgesValid(g *core.MixedGraph, p Patch) bool {
	for bh := range p.Binaries {
		ends, err := g.Endpoints(bh)
		if err != nil {
			return false
		}
		if _, ok := p.Unaries[ends[0]]; !ok {
			return false
		}
		if _, ok := p.Unaries[ends[1]]; !ok {
			return false
		}
	}

	return true
}

// NodesConnected reports whether the unaries of p form a single component
// through p's own binaries (invariant B). Enabled flags are not consulted.
// Complexity: O(V + E) over the patch.
func NodesConnected(g *core.MixedGraph, p Patch) bool {
	if len(p.Unaries) == 0 {
		return false
	}
	start := p.UnaryHandles()[0]
	res, err := bfs.BFS(g, start,
		bfs.WithFilterBinary(func(b core.BinaryHandle) bool {
			_, ok := p.Binaries[b]
			return ok
		}),
		bfs.WithFilterUnary(func(u core.UnaryHandle) bool {
			_, ok := p.Unaries[u]
			return ok
		}),
	)
	if err != nil {
		return false
	}

	return len(res.Order) == len(p.Unaries)
}

// Validate returns nil when p satisfies both invariants over g, and an error
// wrapping ErrInvariantViolation naming the first broken one otherwise.
func Validate(g *core.MixedGraph, p Patch) error {
	if g == nil {
		return fmt.Errorf("Validate: nil graph: %w", ErrInvariantViolation)
	}
	if len(p.Unaries) == 0 {
		return fmt.Errorf("Validate: empty patch: %w", ErrInvariantViolation)
	}
	for uh := range p.Unaries {
		if !g.HasUnary(uh) {
			return fmt.Errorf("Validate: unary %d: %w", uh, ErrInvariantViolation)
		}
	}
	if !EdgesValid(g, p) {
		return fmt.Errorf("Validate: edges valid: %w", ErrInvariantViolation)
	}
	if !NodesConnected(g, p) {
		return fmt.Errorf("Validate: nodes connected: %w", ErrInvariantViolation)
	}

	return nil
}

// OnBinary builds the minimal patch holding binary b and its two endpoints.
//
// Errors: core.ErrBinaryNotFound, ErrMissingBinding.
func OnBinary(g *core.MixedGraph, b core.BinaryHandle, uvars core.UnaryVarTable, bvars core.BinaryVarTable) (Patch, error) {
	ends, err := g.Endpoints(b)
	if err != nil {
		return Patch{}, fmt.Errorf("OnBinary: %w", err)
	}
	p := newPatch(2, 1)
	if err := bindBinary(p, b, bvars); err != nil {
		return Patch{}, fmt.Errorf("OnBinary: %w", err)
	}
	for _, uh := range ends {
		if err := bindUnary(p, uh, uvars); err != nil {
			return Patch{}, fmt.Errorf("OnBinary: %w", err)
		}
	}
	if err := Validate(g, p); err != nil {
		return Patch{}, fmt.Errorf("OnBinary: %w", err)
	}

	return p, nil
}

// Star builds the patch made of u, every binary incident to u, and the
// opposite endpoint of each, every unary carrying its own binding.
//
// Errors: core.ErrUnaryNotFound, ErrMissingBinding.
func Star(g *core.MixedGraph, u core.UnaryHandle, uvars core.UnaryVarTable, bvars core.BinaryVarTable) (Patch, error) {
	bhs, uhs, err := g.NeighborUnaries(u)
	if err != nil {
		return Patch{}, fmt.Errorf("Star: %w", err)
	}
	p := newPatch(len(uhs)+1, len(bhs))
	if err := bindUnary(p, u, uvars); err != nil {
		return Patch{}, fmt.Errorf("Star: %w", err)
	}
	for i, bh := range bhs {
		if err := bindBinary(p, bh, bvars); err != nil {
			return Patch{}, fmt.Errorf("Star: %w", err)
		}
		if err := bindUnary(p, uhs[i], uvars); err != nil {
			return Patch{}, fmt.Errorf("Star: %w", err)
		}
	}
	if err := Validate(g, p); err != nil {
		return Patch{}, fmt.Errorf("Star: %w", err)
	}

	return p, nil
}

func bindUnary(p Patch, uh core.UnaryHandle, uvars core.UnaryVarTable) error {
	v, ok := uvars[uh]
	if !ok {
		return fmt.Errorf("unary %d: %w", uh, ErrMissingBinding)
	}
	p.Unaries[uh] = v.Clone()

	return nil
}

func bindBinary(p Patch, bh core.BinaryHandle, bvars core.BinaryVarTable) error {
	v, ok := bvars[bh]
	if !ok {
		return fmt.Errorf("binary %d: %w", bh, ErrMissingBinding)
	}
	p.Binaries[bh] = v

	return nil
}
