// File: anchors.go
// Role: per-relation selection of the anchors that actually enter the system,
//       and the "strong binary" predicate built on it.

package optimizer

import (
	"fmt"

	"github.com/golang/geo/r3"

	"github.com/katalvlaran/lvdepth/core"
	"github.com/katalvlaran/lvdepth/geom"
)

// DefaultKinkTolerance is the out-of-plane offset above which a middle anchor
// of a region-region boundary counts as a kink.
const DefaultKinkTolerance = 1e-3

// NecessaryAnchors returns the anchors of binary bh that generate equations:
//
//	line-line intersection/incidence: every anchor;
//	region-region overlap:    the pair of anchors with the largest cross product plus
//	                          the remaining anchor farthest from the plane that pair
//	                          spans with the camera center, when that offset exceeds
//	                          kinkTol (two anchors otherwise);
//	region-line connection:   first and last;
//	region-region connection: first and last, plus the middle anchor farthest from
//	                          their plane when that offset exceeds kinkTol.
//
// Errors: core.ErrBinaryNotFound, core.ErrDegenerateGeometry (connection ends
// parallel, or all overlap anchors on one ray), core.ErrKindMismatch (unknown
// relation).
func NecessaryAnchors(g *core.MixedGraph, bh core.BinaryHandle, kinkTol float64) ([]r3.Vector, error) {
	b, err := g.BinaryAt(bh)
	if err != nil {
		return nil, fmt.Errorf("NecessaryAnchors: %w", err)
	}
	as := b.NormalizedAnchors
	if len(as) == 0 {
		return nil, fmt.Errorf("NecessaryAnchors(%d): %w", bh, core.ErrTooFewAnchors)
	}

	switch b.Type {
	case core.LineLineIntersection, core.LineLineIncidence:
		return append([]r3.Vector(nil), as...), nil

	case core.RegionLineConnection:
		if len(as) == 1 {
			return []r3.Vector{as[0]}, nil
		}
		return []r3.Vector{as[0], as[len(as)-1]}, nil

	case core.RegionRegionOverlapping:
		if len(as) < 2 {
			return nil, fmt.Errorf("NecessaryAnchors(%d): %w", bh, core.ErrTooFewAnchors)
		}
		return overlapAnchors(bh, as, kinkTol)

	case core.RegionRegionConnection:
		if len(as) < 2 {
			return nil, fmt.Errorf("NecessaryAnchors(%d): %w", bh, core.ErrTooFewAnchors)
		}
		return withOffsetAnchor(bh, as[0], as[len(as)-1], as[1:len(as)-1], kinkTol)

	default:
		return nil, fmt.Errorf("NecessaryAnchors(%d): %v: %w", bh, b.Type, core.ErrKindMismatch)
	}
}

// overlapAnchors returns {a, b, c}: a and b the first anchor pair with the
// largest |a×b|, c the other anchor farthest from their plane. c is dropped
// when its offset does not clear tol.
func overlapAnchors(bh core.BinaryHandle, as []r3.Vector, tol float64) ([]r3.Vector, error) {
	bi, bj, bestNorm := -1, -1, 0.0
	for i := 0; i < len(as); i++ {
		for j := i + 1; j < len(as); j++ {
			if n := as[i].Cross(as[j]).Norm(); n > bestNorm {
				bi, bj, bestNorm = i, j, n
			}
		}
	}
	if bi < 0 {
		return nil, fmt.Errorf("NecessaryAnchors(%d): %w", bh, core.ErrDegenerateGeometry)
	}
	a, b := as[bi], as[bj]
	if _, err := geom.PlaneOffset(a, b, a); err != nil {
		return nil, fmt.Errorf("NecessaryAnchors(%d): %w", bh, core.ErrDegenerateGeometry)
	}

	best, bestOffset := -1, 0.0
	for k, c := range as {
		if k == bi || k == bj {
			continue
		}
		off, err := geom.PlaneOffset(a, b, c)
		if err != nil {
			return nil, fmt.Errorf("NecessaryAnchors(%d): %w", bh, core.ErrDegenerateGeometry)
		}
		if off > bestOffset {
			best, bestOffset = k, off
		}
	}
	if best < 0 || bestOffset <= tol {
		return []r3.Vector{a, b}, nil
	}

	return []r3.Vector{a, b, as[best]}, nil
}

// withOffsetAnchor returns {a, c, b} with c the candidate farthest from the
// plane through the origin, a and b, or {a, b} when no candidate clears tol.
func withOffsetAnchor(bh core.BinaryHandle, a, b r3.Vector, candidates []r3.Vector, tol float64) ([]r3.Vector, error) {
	best, bestOffset := -1, 0.0
	for k, c := range candidates {
		off, err := geom.PlaneOffset(a, b, c)
		if err != nil {
			return nil, fmt.Errorf("NecessaryAnchors(%d): %w", bh, core.ErrDegenerateGeometry)
		}
		if off > bestOffset {
			best, bestOffset = k, off
		}
	}
	if best < 0 || bestOffset <= tol {
		if _, err := geom.PlaneOffset(a, b, a); err != nil {
			return nil, fmt.Errorf("NecessaryAnchors(%d): %w", bh, core.ErrDegenerateGeometry)
		}
		return []r3.Vector{a, b}, nil
	}

	return []r3.Vector{a, candidates[best], b}, nil
}

// StrongBinary returns the predicate "bh has exactly three necessary anchors",
// i.e. the relation pins both endpoints to one plane. Binaries whose anchors
// cannot be evaluated are not strong.
func StrongBinary(g *core.MixedGraph, kinkTol float64) func(core.BinaryHandle) bool {
	return func(bh core.BinaryHandle) bool {
		as, err := NecessaryAnchors(g, bh, kinkTol)
		return err == nil && len(as) == 3
	}
}
