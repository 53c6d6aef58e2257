// File: methods_adjacent.go
// Role: neighborhood queries (Neighbors, NeighborUnaries) and the
//       post-construction importance-ratio pass.
// Determinism:
//   - Neighbors() returns binary handles ascending (insertion order).
// Concurrency:
//   - Neighbors takes the read lock; ComputeImportanceRatios the write lock.

package core

import (
	"fmt"
	"math"
)

// importanceTolerance bounds |Σ ratios − 1| at each connected unary.
const importanceTolerance = 1e-2

// Neighbors returns all binaries incident to u, ascending.
// The returned slice is a copy.
// Complexity: O(deg(u)).
func (g *MixedGraph) Neighbors(u UnaryHandle) ([]BinaryHandle, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.hasUnary(u) {
		return nil, fmt.Errorf("Neighbors(%d): %w", u, ErrUnaryNotFound)
	}

	return append([]BinaryHandle(nil), g.uppers[u]...), nil
}

// NeighborUnaries returns, for every binary incident to u, the opposite
// endpoint, in the same order as Neighbors.
func (g *MixedGraph) NeighborUnaries(u UnaryHandle) ([]BinaryHandle, []UnaryHandle, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.hasUnary(u) {
		return nil, nil, fmt.Errorf("NeighborUnaries(%d): %w", u, ErrUnaryNotFound)
	}
	bhs := append([]BinaryHandle(nil), g.uppers[u]...)
	uhs := make([]UnaryHandle, len(bhs))
	for i, bh := range bhs {
		ends := g.lowers[bh]
		if ends[0] == u {
			uhs[i] = ends[1]
		} else {
			uhs[i] = ends[0]
		}
	}

	return bhs, uhs, nil
}

// ComputeImportanceRatios fills Binary.ImportanceRatio for every binary.
//
// Steps:
//  1. For each unary, sum weight × |anchors| over its incident binaries.
//  2. Each binary's ratio at endpoint i is its own weight × |anchors| divided by
//     that sum (zero when the sum is zero).
//  3. Check that the ratios at every unary with positive sum add up to 1
//     within 1e-2; otherwise return ErrInvariantViolation.
//
// Complexity: O(V + E).
func (g *MixedGraph) ComputeImportanceRatios() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	sums := make([]float64, len(g.unaries))
	for bh, b := range g.binaries {
		contrib := b.Weight * float64(len(b.NormalizedAnchors))
		sums[g.lowers[bh][0]] += contrib
		sums[g.lowers[bh][1]] += contrib
	}
	for bh := range g.binaries {
		b := &g.binaries[bh]
		contrib := b.Weight * float64(len(b.NormalizedAnchors))
		for i, uh := range g.lowers[bh] {
			if sums[uh] > 0 {
				b.ImportanceRatio[i] = contrib / sums[uh]
			} else {
				b.ImportanceRatio[i] = 0
			}
		}
	}

	for uh, bhs := range g.uppers {
		if sums[uh] == 0 {
			continue
		}
		total := 0.0
		for _, bh := range bhs {
			if g.lowers[bh][0] == UnaryHandle(uh) {
				total += g.binaries[bh].ImportanceRatio[0]
			} else {
				total += g.binaries[bh].ImportanceRatio[1]
			}
		}
		if math.Abs(total-1) > importanceTolerance {
			return fmt.Errorf("ComputeImportanceRatios: unary %d sums to %.4f: %w", uh, total, ErrInvariantViolation)
		}
	}

	return nil
}
