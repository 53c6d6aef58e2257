// SPDX-License-Identifier: MIT
// Package: lvdepth/builder
//
// report.go - construction diagnostics returned by value.

package builder

import (
	"fmt"

	"github.com/katalvlaran/lvdepth/core"
)

// SkipReason classifies why an input element produced nothing.
type SkipReason string

const (
	// SkipShortContour marks a region with fewer than MinRegionContour rays.
	SkipShortContour SkipReason = "short contour"
	// SkipDegenerateDirection marks an element with a zero or non-finite ray.
	SkipDegenerateDirection SkipReason = "degenerate direction"
	// SkipUnknownElement marks a relation referencing a skipped or unknown element.
	SkipUnknownElement SkipReason = "unknown element"
	// SkipLowOverlap marks an overlap below the threshold.
	SkipLowOverlap SkipReason = "low overlap"
	// SkipTooFewAnchors marks a relation with fewer samples than its type needs.
	SkipTooFewAnchors SkipReason = "too few anchors"
)

// Skip is one skipped input element.
type Skip struct {
	What   string // e.g. "region 0/3", "overlap 2"
	Reason SkipReason
}

// String implements fmt.Stringer.
func (s Skip) String() string { return fmt.Sprintf("%s: %s", s.What, s.Reason) }

// Report summarizes one BuildMixedGraph call.
type Report struct {
	Regions  int
	Lines    int
	Fixed    int
	Binaries map[core.RelationType]int
	Skipped  []Skip
}

func (r *Report) skip(reason SkipReason, format string, args ...interface{}) {
	r.Skipped = append(r.Skipped, Skip{What: fmt.Sprintf(format, args...), Reason: reason})
}

// SkipCount returns how many skips carry reason.
func (r Report) SkipCount(reason SkipReason) int {
	n := 0
	for _, s := range r.Skipped {
		if s.Reason == reason {
			n++
		}
	}

	return n
}
