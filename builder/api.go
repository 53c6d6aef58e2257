// SPDX-License-Identifier: MIT
// Package: lvdepth/builder
//
// api.go - BuildMixedGraph, the single construction entry point.
//
// Determinism:
//   • Elements are added view by view in input order (regions, lines,
//     connections, contacts, line relations), then overlaps, then incidences.
//     Equal scenes and options yield identical handles.

package builder

import (
	"fmt"

	"github.com/golang/geo/r3"

	"github.com/katalvlaran/lvdepth/core"
	"github.com/katalvlaran/lvdepth/geom"
)

// Result is the output of BuildMixedGraph.
type Result struct {
	Graph    *core.MixedGraph
	Unaries  core.UnaryVarTable
	Binaries core.BinaryVarTable
	Regions  map[RegionRef]core.UnaryHandle
	Lines    map[LineRef]core.UnaryHandle
	Report   Report
}

// BuildMixedGraph applies the construction policy to scene.
//
// Steps:
//  1. Create the graph over the scene's vanishing points.
//  2. Per view: add regions (skipping short or degenerate contours) and lines,
//     then in-view connections, contacts and line relations.
//  3. Add admitted cross-view overlaps and line incidences.
//  4. Compute importance ratios and default variable tables; fix regions
//     that carry a Plane.
//
// Errors:
//   - ErrNoVanishingPoints for an empty direction set.
//   - ErrConstructFailed wrapping the core sentinel when the graph rejects an
//     element that passed the skip policy.
//
// Complexity: O(total rays + V + E).
func BuildMixedGraph(scene Scene, opts ...BuilderOption) (*Result, error) {
	if len(scene.VanishingPoints) == 0 {
		return nil, fmt.Errorf("%s: %w", MethodBuildMixedGraph, ErrNoVanishingPoints)
	}
	cfg := newBuilderConfig(opts...)
	g, err := core.NewMixedGraph(scene.VanishingPoints)
	if err != nil {
		return nil, constructErr("vanishing points", err)
	}

	b := &build{
		g:       g,
		cfg:     cfg,
		regions: make(map[RegionRef]core.UnaryHandle),
		lines:   make(map[LineRef]core.UnaryHandle),
		planes:  make(map[core.UnaryHandle][]float64),
		rep:     Report{Binaries: make(map[core.RelationType]int)},
	}
	for vi, v := range scene.Views {
		if err := b.addView(vi, v); err != nil {
			return nil, err
		}
	}
	for i, ov := range scene.Overlaps {
		if err := b.addOverlap(i, ov); err != nil {
			return nil, err
		}
	}
	for i, inc := range scene.Incidences {
		if err := b.addIncidence(i, inc); err != nil {
			return nil, err
		}
	}

	if err := g.ComputeImportanceRatios(); err != nil {
		return nil, constructErr("importance ratios", err)
	}
	uvars, bvars := core.NewVariableTables(g)
	for uh, plane := range b.planes {
		uvars[uh] = core.UnaryVariable{Variables: plane, Fixed: true}
	}
	b.rep.Fixed = len(b.planes)

	return &Result{
		Graph:    g,
		Unaries:  uvars,
		Binaries: bvars,
		Regions:  b.regions,
		Lines:    b.lines,
		Report:   b.rep,
	}, nil
}

// build carries the state of one BuildMixedGraph call.
type build struct {
	g       *core.MixedGraph
	cfg     builderConfig
	regions map[RegionRef]core.UnaryHandle
	lines   map[LineRef]core.UnaryHandle
	planes  map[core.UnaryHandle][]float64
	rep     Report
}

func (b *build) addView(vi int, v View) error {
	for ri, r := range v.Regions {
		if len(r.Contour) < MinRegionContour {
			b.rep.skip(SkipShortContour, "region %d/%d", vi, ri)
			continue
		}
		contour, ok := normalizeAll(r.Contour)
		center, err := geom.Normalize(r.Center)
		if !ok || err != nil {
			b.rep.skip(SkipDegenerateDirection, "region %d/%d", vi, ri)
			continue
		}
		if r.Plane != nil && len(r.Plane) != core.ParamCount(core.Region) {
			return constructErr(fmt.Sprintf("region %d/%d plane", vi, ri), core.ErrKindMismatch)
		}
		h, err := b.g.AddUnary(core.Unary{
			Kind:              core.Region,
			NormalizedCorners: contour,
			NormalizedCenter:  center,
			Class:             core.FreeClass,
		})
		if err != nil {
			return constructErr(fmt.Sprintf("region %d/%d", vi, ri), err)
		}
		b.regions[RegionRef{vi, ri}] = h
		b.rep.Regions++
		if r.Plane != nil {
			b.planes[h] = append([]float64(nil), r.Plane...)
		}
	}

	for li, l := range v.Lines {
		from, err1 := geom.Normalize(l.From)
		to, err2 := geom.Normalize(l.To)
		if err1 != nil || err2 != nil {
			b.rep.skip(SkipDegenerateDirection, "line %d/%d", vi, li)
			continue
		}
		center, err := geom.Normalize(from.Add(to))
		if err != nil {
			b.rep.skip(SkipDegenerateDirection, "line %d/%d", vi, li)
			continue
		}
		h, err := b.g.AddUnary(core.Unary{
			Kind:              core.Line,
			NormalizedCorners: []r3.Vector{from, to},
			NormalizedCenter:  center,
			Class:             l.Class,
		})
		if err != nil {
			return constructErr(fmt.Sprintf("line %d/%d", vi, li), err)
		}
		b.lines[LineRef{vi, li}] = h
		b.rep.Lines++
	}

	for ci, c := range v.Connections {
		u1, ok1 := b.regions[RegionRef{vi, c.A}]
		u2, ok2 := b.regions[RegionRef{vi, c.B}]
		what := fmt.Sprintf("connection %d/%d", vi, ci)
		if err := b.relate(what, ok1 && ok2, u1, u2, core.RegionRegionConnection, connectionWeight, c.Samples); err != nil {
			return err
		}
	}

	for ci, c := range v.Contacts {
		u1, ok1 := b.regions[RegionRef{vi, c.Region}]
		u2, ok2 := b.lines[LineRef{vi, c.Line}]
		what := fmt.Sprintf("contact %d/%d", vi, ci)
		if err := b.relate(what, ok1 && ok2, u1, u2, core.RegionLineConnection, connectionWeight, c.Samples); err != nil {
			return err
		}
	}

	for ri, r := range v.LineRelations {
		u1, ok1 := b.lines[LineRef{vi, r.A}]
		u2, ok2 := b.lines[LineRef{vi, r.B}]
		typ := core.LineLineIntersection
		if r.Kind == Incidence {
			typ = core.LineLineIncidence
		}
		what := fmt.Sprintf("line relation %d/%d", vi, ri)
		if err := b.relate(what, ok1 && ok2, u1, u2, typ, r.JunctionWeight*b.cfg.junctionScale, []r3.Vector{r.Junction}); err != nil {
			return err
		}
	}

	return nil
}

// addOverlap admits a cross-view overlap with the four extreme contour rays
// of both regions, measured in a frame around their summed center rays.
func (b *build) addOverlap(i int, ov RegionOverlap) error {
	what := fmt.Sprintf("overlap %d", i)
	if ov.Ratio < b.cfg.overlapThreshold {
		b.rep.skip(SkipLowOverlap, "%s", what)
		return nil
	}
	u1, ok1 := b.regions[ov.A]
	u2, ok2 := b.regions[ov.B]
	if !ok1 || !ok2 {
		b.rep.skip(SkipUnknownElement, "%s", what)
		return nil
	}
	r1, _ := b.g.UnaryAt(u1)
	r2, _ := b.g.UnaryAt(u2)
	anchors, err := extremeAnchors(r1, r2)
	if err != nil {
		b.rep.skip(SkipDegenerateDirection, "%s", what)
		return nil
	}

	return b.relate(what, true, u1, u2, core.RegionRegionOverlapping, b.cfg.overlapWeight, anchors)
}

func (b *build) addIncidence(i int, inc LineIncidence) error {
	u1, ok1 := b.lines[inc.A]
	u2, ok2 := b.lines[inc.B]

	return b.relate(fmt.Sprintf("incidence %d", i), ok1 && ok2, u1, u2,
		core.LineLineIncidence, b.cfg.crossIncidenceWeight, []r3.Vector{inc.Direction})
}

// relate adds one binary or records why it was skipped.
func (b *build) relate(what string, known bool, u1, u2 core.UnaryHandle, typ core.RelationType, w float64, rays []r3.Vector) error {
	if !known {
		b.rep.skip(SkipUnknownElement, "%s", what)
		return nil
	}
	if len(rays) < typ.MinAnchors() {
		b.rep.skip(SkipTooFewAnchors, "%s", what)
		return nil
	}
	anchors, ok := normalizeAll(rays)
	if !ok {
		b.rep.skip(SkipDegenerateDirection, "%s", what)
		return nil
	}
	if _, err := b.g.AddBinary(u1, u2, core.Binary{Type: typ, NormalizedAnchors: anchors, Weight: w}); err != nil {
		return constructErr(what, err)
	}
	b.rep.Binaries[typ]++

	return nil
}

// extremeAnchors returns the contour rays of r1 and r2 with the smallest and
// largest x and y in the frame whose z is the summed center.
func extremeAnchors(r1, r2 *core.Unary) ([]r3.Vector, error) {
	z, err := geom.Normalize(r1.NormalizedCenter.Add(r2.NormalizedCenter))
	if err != nil {
		return nil, err
	}
	x, y, err := geom.OrthonormalFrame(z)
	if err != nil {
		return nil, err
	}
	out := make([]r3.Vector, overlapAnchors)
	var lo, hi [2]float64
	first := true
	for _, corners := range [][]r3.Vector{r1.NormalizedCorners, r2.NormalizedCorners} {
		for _, a := range corners {
			dx, dy := a.Dot(x), a.Dot(y)
			if first || dx < lo[0] {
				out[0], lo[0] = a, dx
			}
			if first || dx > hi[0] {
				out[1], hi[0] = a, dx
			}
			if first || dy < lo[1] {
				out[2], lo[1] = a, dy
			}
			if first || dy > hi[1] {
				out[3], hi[1] = a, dy
			}
			first = false
		}
	}

	return out, nil
}

// normalizeAll returns unit copies of vs, or false if any is degenerate.
func normalizeAll(vs []r3.Vector) ([]r3.Vector, bool) {
	out := make([]r3.Vector, len(vs))
	for i, v := range vs {
		n, err := geom.Normalize(v)
		if err != nil {
			return nil, false
		}
		out[i] = n
	}

	return out, true
}

// constructErr wraps a graph rejection so both ErrConstructFailed and the
// core sentinel match.
func constructErr(what string, err error) error {
	return fmt.Errorf("%s: %s: %w: %w", MethodBuildMixedGraph, what, ErrConstructFailed, err)
}
