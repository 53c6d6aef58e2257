// SPDX-License-Identifier: MIT
// Package: lvdepth/builder
//
// constants.go - construction policy defaults and method tokens.

package builder

const (
	// MethodBuildMixedGraph prefixes errors of BuildMixedGraph.
	MethodBuildMixedGraph = "BuildMixedGraph"
	// MethodBoxScene prefixes errors of BoxScene.
	MethodBoxScene = "BoxScene"
)

// MinRegionContour is the smallest contour (in rays) a region needs to be kept.
const MinRegionContour = 3

// Policy defaults.
const (
	// DefaultOverlapThreshold is the smallest admitted cross-view overlap ratio.
	DefaultOverlapThreshold = 0.2
	// DefaultOverlapWeight is the weight of an admitted cross-view overlap.
	DefaultOverlapWeight = 100.0
	// DefaultJunctionScale multiplies the junction weight of in-view line relations.
	DefaultJunctionScale = 10.0
	// DefaultCrossIncidenceWeight is the weight of a cross-view line incidence.
	DefaultCrossIncidenceWeight = 10.0
	// connectionWeight is the weight of in-view region-region and region-line relations.
	connectionWeight = 1.0
	// overlapAnchors is the number of extreme rays an overlap carries.
	overlapAnchors = 4
)
