// Package core defines the mixed constraint graph: unary elements (planar
// regions and line segments, each seen as a bundle of unit viewing rays) and
// binary elements (weighted geometric relations anchored at shared rays).
//
// Storage is an arena: unaries and binaries live in dense slices indexed by
// integer handles, and the topology (which binaries touch a unary, which two
// unaries a binary joins) is kept beside the data. Nothing points into the
// arena, so patches can copy handles freely.
//
// This file declares the element types, handles, options, sentinel errors and
// the NewMixedGraph constructor.
//
// Errors:
//
//	ErrNotUnit            - a stored direction is not unit length.
//	ErrBadClass           - a vanishing-direction index is out of range.
//	ErrUnaryNotFound      - a unary handle does not exist.
//	ErrBinaryNotFound     - a binary handle does not exist.
//	ErrLoopNotAllowed     - a binary joins a unary to itself.
//	ErrBadWeight          - a weight is negative, NaN or Inf.
//	ErrTooFewAnchors      - fewer anchors than the relation type requires.
//	ErrKindMismatch       - endpoint kinds do not fit the relation type.
//	ErrDegenerateGeometry - a depth model cannot be evaluated along a ray.
//	ErrInvariantViolation - a post-construction check failed.
package core

import (
	"errors"
	"fmt"
	"sync"

	"github.com/golang/geo/r3"

	"github.com/katalvlaran/lvdepth/geom"
)

// Sentinel errors for core graph operations.
var (
	// ErrNotUnit indicates a direction that is not unit length within geom.UnitTolerance.
	ErrNotUnit = errors.New("core: direction is not unit length")

	// ErrBadClass indicates an orientation class that does not index a vanishing direction.
	ErrBadClass = errors.New("core: invalid orientation class")

	// ErrUnaryNotFound indicates an operation referenced a non-existent unary.
	ErrUnaryNotFound = errors.New("core: unary not found")

	// ErrBinaryNotFound indicates an operation referenced a non-existent binary.
	ErrBinaryNotFound = errors.New("core: binary not found")

	// ErrLoopNotAllowed indicates a binary whose two endpoints are the same unary.
	ErrLoopNotAllowed = errors.New("core: binary joins a unary to itself")

	// ErrBadWeight indicates a negative or non-finite binary weight.
	ErrBadWeight = errors.New("core: weight must be finite and non-negative")

	// ErrTooFewAnchors indicates a binary carrying fewer anchors than its relation needs.
	ErrTooFewAnchors = errors.New("core: too few anchors for relation")

	// ErrKindMismatch indicates endpoint kinds that do not fit the relation type.
	ErrKindMismatch = errors.New("core: unary kinds do not fit relation")

	// ErrDegenerateGeometry indicates a depth model that cannot be evaluated along a ray.
	ErrDegenerateGeometry = errors.New("core: degenerate geometry")

	// ErrInvariantViolation indicates a broken graph invariant.
	ErrInvariantViolation = errors.New("core: invariant violation")
)

// FreeClass marks a unary not aligned with any vanishing direction.
const FreeClass = -1

// UnaryHandle identifies a unary for the lifetime of its graph.
type UnaryHandle int

// BinaryHandle identifies a binary for the lifetime of its graph.
type BinaryHandle int

// UnaryKind is the closed set of primitive kinds.
type UnaryKind int

const (
	// Region is a planar image region described by its contour rays.
	Region UnaryKind = iota
	// Line is a segment bound to a vanishing direction, described by its endpoint rays.
	Line
)

// String implements fmt.Stringer.
func (k UnaryKind) String() string {
	switch k {
	case Region:
		return "region"
	case Line:
		return "line"
	default:
		return fmt.Sprintf("UnaryKind(%d)", int(k))
	}
}

// RelationType is the closed set of binary relations.
type RelationType int

const (
	// RegionRegionConnection joins two adjacent regions along a shared boundary.
	RegionRegionConnection RelationType = iota
	// RegionLineConnection joins a region and a line touching it.
	RegionLineConnection
	// LineLineIntersection joins two lines crossing at a junction.
	LineLineIntersection
	// LineLineIncidence joins two collinear lines meeting at a point.
	LineLineIncidence
	// RegionRegionOverlapping joins two regions of different views covering the same surface.
	RegionRegionOverlapping
)

// String implements fmt.Stringer.
func (r RelationType) String() string {
	switch r {
	case RegionRegionConnection:
		return "region-region"
	case RegionLineConnection:
		return "region-line"
	case LineLineIntersection:
		return "line-line-intersection"
	case LineLineIncidence:
		return "line-line-incidence"
	case RegionRegionOverlapping:
		return "region-region-overlap"
	default:
		return fmt.Sprintf("RelationType(%d)", int(r))
	}
}

// MinAnchors returns the geometric minimum number of anchors for r.
func (r RelationType) MinAnchors() int {
	switch r {
	case RegionRegionConnection:
		return 2
	case RegionLineConnection, LineLineIntersection, LineLineIncidence:
		return 1
	case RegionRegionOverlapping:
		return 3
	default:
		return 0
	}
}

// Kinds returns the endpoint kinds r joins, in either order.
func (r RelationType) Kinds() (UnaryKind, UnaryKind) {
	switch r {
	case RegionRegionConnection, RegionRegionOverlapping:
		return Region, Region
	case RegionLineConnection:
		return Region, Line
	default:
		return Line, Line
	}
}

// Unary is one depth-parameterized primitive.
//
// For a Region, NormalizedCorners are its contour rays and Class is FreeClass.
// For a Line, NormalizedCorners holds the two endpoint rays and Class indexes
// the vanishing direction the line is parallel to.
type Unary struct {
	Kind              UnaryKind
	NormalizedCorners []r3.Vector
	NormalizedCenter  r3.Vector
	Class             int
}

// Binary is one weighted relation between exactly two unaries.
//
// ImportanceRatio[i] is this binary's share of the anchor-weighted importance
// at endpoint i; it is filled by ComputeImportanceRatios and is diagnostic only.
type Binary struct {
	Type              RelationType
	NormalizedAnchors []r3.Vector
	Weight            float64
	ImportanceRatio   [2]float64
}

// GraphOption configures a MixedGraph before creation.
type GraphOption func(g *MixedGraph)

// WithUnitTolerance overrides geom.UnitTolerance for direction validation.
func WithUnitTolerance(tol float64) GraphOption {
	return func(g *MixedGraph) {
		if tol > 0 {
			g.unitTol = tol
		}
	}
}

// WithCapacity preallocates arena storage for the expected element counts.
func WithCapacity(unaries, binaries int) GraphOption {
	return func(g *MixedGraph) {
		if unaries > 0 {
			g.unaries = make([]Unary, 0, unaries)
			g.uppers = make([][]BinaryHandle, 0, unaries)
		}
		if binaries > 0 {
			g.binaries = make([]Binary, 0, binaries)
			g.lowers = make([][2]UnaryHandle, 0, binaries)
		}
	}
}

// MixedGraph is the constraint graph arena.
//
// mu guards every slice. Once construction is over the graph is only read, so
// concurrent patch solvers take the read lock only.
type MixedGraph struct {
	mu sync.RWMutex

	unitTol float64
	vps     []r3.Vector

	unaries []Unary
	uppers  [][]BinaryHandle // unary → incident binaries, ascending

	binaries []Binary
	lowers   [][2]UnaryHandle // binary → its two unaries
}

// NewMixedGraph creates an empty graph over the given vanishing directions.
// Every direction is normalized; a zero or non-finite direction yields ErrNotUnit.
// Complexity: O(len(vps)).
func NewMixedGraph(vps []r3.Vector, opts ...GraphOption) (*MixedGraph, error) {
	g := &MixedGraph{unitTol: geom.UnitTolerance}
	for _, opt := range opts {
		opt(g)
	}
	g.vps = make([]r3.Vector, len(vps))
	for i, vp := range vps {
		n, err := geom.Normalize(vp)
		if err != nil {
			return nil, fmt.Errorf("NewMixedGraph: vanishing direction %d: %w", i, ErrNotUnit)
		}
		g.vps[i] = n
	}

	return g, nil
}
