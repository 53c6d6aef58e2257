// File: mst.go
// Role: spanning-tree reducer and the two stock binary comparators.

package patch

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvdepth/core"
	"github.com/katalvlaran/lvdepth/prim_kruskal"
)

// MinimumSpanningTree returns a patch holding every unary of p but only the
// |V|−1 binaries of a minimum spanning tree under less (preferred first).
//
// Precondition: p is valid (ErrInvariantViolation otherwise).
// The result gets a fresh ID.
//
// Complexity: O(E log E + α(V)·E).
func MinimumSpanningTree(g *core.MixedGraph, p Patch, less prim_kruskal.Less) (Patch, error) {
	if err := Validate(g, p); err != nil {
		return Patch{}, fmt.Errorf("MinimumSpanningTree: %w", err)
	}
	tree, err := prim_kruskal.Kruskal(g, p.UnaryHandles(), p.BinaryHandles(), less)
	if err != nil {
		return Patch{}, fmt.Errorf("MinimumSpanningTree: %w", err)
	}

	mst := newPatch(len(p.Unaries), len(tree))
	for uh, v := range p.Unaries {
		mst.Unaries[uh] = v.Clone()
	}
	for _, bh := range tree {
		mst.Binaries[bh] = p.Binaries[bh]
	}
	if err := Validate(g, mst); err != nil {
		return Patch{}, fmt.Errorf("MinimumSpanningTree: %w", err)
	}

	return mst, nil
}

// BySlack prefers binaries of p with lower slack from the last solve.
func BySlack(p Patch) prim_kruskal.Less {
	return func(a, b core.BinaryHandle) bool {
		return p.Binaries[a].Slack < p.Binaries[b].Slack
	}
}

// ByWeight prefers binaries of g with higher weight.
// Unknown handles sort last.
func ByWeight(g *core.MixedGraph) prim_kruskal.Less {
	weight := func(h core.BinaryHandle) float64 {
		b, err := g.BinaryAt(h)
		if err != nil {
			return math.Inf(-1)
		}
		return b.Weight
	}

	return func(a, b core.BinaryHandle) bool {
		return weight(a) > weight(b)
	}
}
