// File: methods.go
// Role: element lifecycle and lookups: AddUnary/AddBinary, UnaryAt/BinaryAt,
//       Endpoints/Opposite, handle listings and counts.
// Determinism:
//   - Handles are assigned densely in insertion order (0, 1, 2, ...).
//   - Unaries() and Binaries() return handles ascending.
// Concurrency:
//   - Mutations under mu write lock; lookups under mu read lock.

package core

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/katalvlaran/lvdepth/geom"
)

// AddUnary appends a unary and returns its handle.
//
// Steps:
//  1. Validate kind, center and corners are unit directions.
//  2. Lines must index a vanishing direction; regions may use FreeClass.
//  3. Append data and an empty incidence list.
//
// Complexity: O(len(u.NormalizedCorners)) validation, O(1) amortized insertion.
func (g *MixedGraph) AddUnary(u Unary) (UnaryHandle, error) {
	if u.Kind != Region && u.Kind != Line {
		return -1, fmt.Errorf("AddUnary: %v: %w", u.Kind, ErrKindMismatch)
	}
	if !geom.IsUnit(u.NormalizedCenter, g.unitTol) {
		return -1, fmt.Errorf("AddUnary: center: %w", ErrNotUnit)
	}
	for i, c := range u.NormalizedCorners {
		if !geom.IsUnit(c, g.unitTol) {
			return -1, fmt.Errorf("AddUnary: corner %d: %w", i, ErrNotUnit)
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	switch u.Kind {
	case Line:
		if u.Class < 0 || u.Class >= len(g.vps) {
			return -1, fmt.Errorf("AddUnary: line class %d of %d: %w", u.Class, len(g.vps), ErrBadClass)
		}
		if len(u.NormalizedCorners) != 2 {
			return -1, fmt.Errorf("AddUnary: line needs 2 endpoints, got %d: %w", len(u.NormalizedCorners), ErrDegenerateGeometry)
		}
	case Region:
		if u.Class != FreeClass && (u.Class < 0 || u.Class >= len(g.vps)) {
			return -1, fmt.Errorf("AddUnary: region class %d of %d: %w", u.Class, len(g.vps), ErrBadClass)
		}
	}

	u.NormalizedCorners = append([]r3.Vector(nil), u.NormalizedCorners...)
	h := UnaryHandle(len(g.unaries))
	g.unaries = append(g.unaries, u)
	g.uppers = append(g.uppers, nil)

	return h, nil
}

// AddBinary appends a relation between u1 and u2 and returns its handle.
//
// Degenerate relations are rejected here rather than at solve time:
// too few anchors for the relation type, non-unit anchors, endpoint kinds
// that do not fit the type, or a bad weight.
//
// Complexity: O(len(b.NormalizedAnchors)) validation, O(1) amortized insertion.
func (g *MixedGraph) AddBinary(u1, u2 UnaryHandle, b Binary) (BinaryHandle, error) {
	if math.IsNaN(b.Weight) || math.IsInf(b.Weight, 0) || b.Weight < 0 {
		return -1, fmt.Errorf("AddBinary: weight %v: %w", b.Weight, ErrBadWeight)
	}
	if need := b.Type.MinAnchors(); need == 0 || len(b.NormalizedAnchors) < need {
		return -1, fmt.Errorf("AddBinary: %v has %d anchors: %w", b.Type, len(b.NormalizedAnchors), ErrTooFewAnchors)
	}
	for i, a := range b.NormalizedAnchors {
		if !geom.IsUnit(a, g.unitTol) {
			return -1, fmt.Errorf("AddBinary: anchor %d: %w", i, ErrNotUnit)
		}
	}
	if u1 == u2 {
		return -1, ErrLoopNotAllowed
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.hasUnary(u1) || !g.hasUnary(u2) {
		return -1, fmt.Errorf("AddBinary: (%d,%d): %w", u1, u2, ErrUnaryNotFound)
	}
	k1, k2 := b.Type.Kinds()
	got1, got2 := g.unaries[u1].Kind, g.unaries[u2].Kind
	if !(got1 == k1 && got2 == k2) && !(got1 == k2 && got2 == k1) {
		return -1, fmt.Errorf("AddBinary: %v between %v and %v: %w", b.Type, got1, got2, ErrKindMismatch)
	}

	b.NormalizedAnchors = append([]r3.Vector(nil), b.NormalizedAnchors...)
	b.ImportanceRatio = [2]float64{}
	h := BinaryHandle(len(g.binaries))
	g.binaries = append(g.binaries, b)
	g.lowers = append(g.lowers, [2]UnaryHandle{u1, u2})
	g.uppers[u1] = append(g.uppers[u1], h)
	g.uppers[u2] = append(g.uppers[u2], h)

	return h, nil
}

// HasUnary reports whether h names a unary of g.
func (g *MixedGraph) HasUnary(h UnaryHandle) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.hasUnary(h)
}

// HasBinary reports whether h names a binary of g.
func (g *MixedGraph) HasBinary(h BinaryHandle) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.hasBinary(h)
}

// UnaryAt returns the unary stored at h.
// The returned pointer must be treated as read-only.
func (g *MixedGraph) UnaryAt(h UnaryHandle) (*Unary, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.hasUnary(h) {
		return nil, fmt.Errorf("UnaryAt(%d): %w", h, ErrUnaryNotFound)
	}

	return &g.unaries[h], nil
}

// BinaryAt returns the binary stored at h.
// The returned pointer must be treated as read-only.
func (g *MixedGraph) BinaryAt(h BinaryHandle) (*Binary, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.hasBinary(h) {
		return nil, fmt.Errorf("BinaryAt(%d): %w", h, ErrBinaryNotFound)
	}

	return &g.binaries[h], nil
}

// Endpoints returns the two unaries joined by h, in insertion order.
func (g *MixedGraph) Endpoints(h BinaryHandle) ([2]UnaryHandle, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.hasBinary(h) {
		return [2]UnaryHandle{-1, -1}, fmt.Errorf("Endpoints(%d): %w", h, ErrBinaryNotFound)
	}

	return g.lowers[h], nil
}

// Opposite returns the endpoint of b that is not u.
func (g *MixedGraph) Opposite(b BinaryHandle, u UnaryHandle) (UnaryHandle, error) {
	ends, err := g.Endpoints(b)
	if err != nil {
		return -1, err
	}
	switch u {
	case ends[0]:
		return ends[1], nil
	case ends[1]:
		return ends[0], nil
	default:
		return -1, fmt.Errorf("Opposite(%d,%d): %w", b, u, ErrUnaryNotFound)
	}
}

// Unaries returns every unary handle ascending.
// Complexity: O(V).
func (g *MixedGraph) Unaries() []UnaryHandle {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]UnaryHandle, len(g.unaries))
	for i := range out {
		out[i] = UnaryHandle(i)
	}

	return out
}

// Binaries returns every binary handle ascending.
// Complexity: O(E).
func (g *MixedGraph) Binaries() []BinaryHandle {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]BinaryHandle, len(g.binaries))
	for i := range out {
		out[i] = BinaryHandle(i)
	}

	return out
}

// UnaryCount returns the number of unaries.
func (g *MixedGraph) UnaryCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.unaries)
}

// BinaryCount returns the number of binaries.
func (g *MixedGraph) BinaryCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.binaries)
}

// VanishingPoints returns a copy of the normalized vanishing directions.
func (g *MixedGraph) VanishingPoints() []r3.Vector {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return append([]r3.Vector(nil), g.vps...)
}

func (g *MixedGraph) hasUnary(h UnaryHandle) bool {
	return h >= 0 && int(h) < len(g.unaries)
}

func (g *MixedGraph) hasBinary(h BinaryHandle) bool {
	return h >= 0 && int(h) < len(g.binaries)
}
