// SPDX-License-Identifier: MIT
// Package: lvdepth/builder
//
// scene.go - construction input in direction space.
//
// All directions are rays from the shared camera center in world
// coordinates; they need not be unit length (the builder normalizes them).
// In-view relations reference elements by their index inside the view;
// cross-view relations use RegionRef / LineRef.

package builder

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// LineRelationKind distinguishes in-view line junctions.
type LineRelationKind int

const (
	// Intersection is a junction of two lines with different directions.
	Intersection LineRelationKind = iota
	// Incidence is a junction of two collinear lines.
	Incidence
)

// String implements fmt.Stringer.
func (k LineRelationKind) String() string {
	switch k {
	case Intersection:
		return "intersection"
	case Incidence:
		return "incidence"
	default:
		return fmt.Sprintf("LineRelationKind(%d)", int(k))
	}
}

// Region is a planar image region.
// Plane, when non-nil, fixes the region to the given (a, b, c) parameters.
type Region struct {
	Contour []r3.Vector
	Center  r3.Vector
	Plane   []float64
}

// Line is a segment with its vanishing-direction class.
type Line struct {
	From, To r3.Vector
	Class    int
}

// RegionConnection joins two adjacent regions of one view along sampled
// boundary rays.
type RegionConnection struct {
	A, B    int
	Samples []r3.Vector
}

// RegionLineContact joins a region to a line lying on its boundary.
type RegionLineContact struct {
	Region, Line int
	Samples      []r3.Vector
}

// LineRelation is a junction of two lines of one view.
type LineRelation struct {
	A, B           int
	Kind           LineRelationKind
	Junction       r3.Vector
	JunctionWeight float64
}

// View is everything extracted from one image.
type View struct {
	Regions       []Region
	Lines         []Line
	Connections   []RegionConnection
	Contacts      []RegionLineContact
	LineRelations []LineRelation
}

// RegionRef names a region across views.
type RegionRef struct{ View, Index int }

// LineRef names a line across views.
type LineRef struct{ View, Index int }

// RegionOverlap states that two regions of different views overlap by Ratio.
type RegionOverlap struct {
	A, B  RegionRef
	Ratio float64
}

// LineIncidence states that two lines of different views are collinear,
// meeting along Direction.
type LineIncidence struct {
	A, B      LineRef
	Direction r3.Vector
}

// Scene is the complete construction input.
type Scene struct {
	VanishingPoints []r3.Vector
	Views           []View
	Overlaps        []RegionOverlap
	Incidences      []LineIncidence
}
