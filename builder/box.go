// SPDX-License-Identifier: MIT
// Package: lvdepth/builder
//
// box.go - synthetic scene: the inside of an axis-aligned box
// [-2,2]×[-1,1]×[1,4] seen from the origin, without its near face.
//
// Ground truth is exact, so solved planes and lines can be compared with it.
// Every view repeats the same rays; consecutive views are tied by full
// overlaps of every face and incidences of every edge. The floor of view 0
// is fixed, which pins the metric scale.

package builder

import "github.com/golang/geo/r3"

// BoxFace is one face of the synthetic box.
type BoxFace struct {
	Name    string
	Corners [4]r3.Vector
	Plane   []float64 // (a,b,c) with a·x + b·y + c·z = 1 on the face
}

// BoxEdge is one edge shared by two faces.
type BoxEdge struct {
	From, To r3.Vector
	Class    int    // index into the axis vanishing points
	Faces    [2]int // indices into BoxFaces
}

// BoxVanishingPoints are the three axis directions of the box.
func BoxVanishingPoints() []r3.Vector {
	return []r3.Vector{{X: 1}, {Y: 1}, {Z: 1}}
}

// BoxFaces returns floor, ceiling, back, left and right, in that order.
func BoxFaces() []BoxFace {
	p := func(x, y, z float64) r3.Vector { return r3.Vector{X: x, Y: y, Z: z} }
	return []BoxFace{
		{"floor", [4]r3.Vector{p(-2, -1, 1), p(2, -1, 1), p(2, -1, 4), p(-2, -1, 4)}, []float64{0, -1, 0}},
		{"ceiling", [4]r3.Vector{p(-2, 1, 1), p(-2, 1, 4), p(2, 1, 4), p(2, 1, 1)}, []float64{0, 1, 0}},
		{"back", [4]r3.Vector{p(-2, -1, 4), p(2, -1, 4), p(2, 1, 4), p(-2, 1, 4)}, []float64{0, 0, 0.25}},
		{"left", [4]r3.Vector{p(-2, -1, 1), p(-2, -1, 4), p(-2, 1, 4), p(-2, 1, 1)}, []float64{-0.5, 0, 0}},
		{"right", [4]r3.Vector{p(2, -1, 1), p(2, 1, 1), p(2, 1, 4), p(2, -1, 4)}, []float64{0.5, 0, 0}},
	}
}

// BoxEdges returns the eight edges between visible faces.
func BoxEdges() []BoxEdge {
	p := func(x, y, z float64) r3.Vector { return r3.Vector{X: x, Y: y, Z: z} }
	return []BoxEdge{
		{p(-2, -1, 4), p(2, -1, 4), 0, [2]int{0, 2}},
		{p(-2, 1, 4), p(2, 1, 4), 0, [2]int{1, 2}},
		{p(-2, -1, 1), p(-2, -1, 4), 2, [2]int{0, 3}},
		{p(2, -1, 1), p(2, -1, 4), 2, [2]int{0, 4}},
		{p(-2, 1, 1), p(-2, 1, 4), 2, [2]int{1, 3}},
		{p(2, 1, 1), p(2, 1, 4), 2, [2]int{1, 4}},
		{p(-2, -1, 4), p(-2, 1, 4), 1, [2]int{2, 3}},
		{p(2, -1, 4), p(2, 1, 4), 1, [2]int{2, 4}},
	}
}

// boxCorners lists, per back corner, the three edges meeting there.
var boxCorners = [][3]int{{0, 2, 6}, {0, 3, 7}, {1, 4, 6}, {1, 5, 7}}

// BoxScene returns the box seen from views identical views.
// Errors: ErrBadSize when views < 1.
func BoxScene(views int) (Scene, error) {
	if views < 1 {
		return Scene{}, builderErrorf(MethodBoxScene, ErrBadSize, "views must be >= 1, got %d", views)
	}
	faces, edges := BoxFaces(), BoxEdges()

	sc := Scene{VanishingPoints: BoxVanishingPoints()}
	for v := 0; v < views; v++ {
		var view View
		for fi, f := range faces {
			center := f.Corners[0].Add(f.Corners[1]).Add(f.Corners[2]).Add(f.Corners[3]).Mul(0.25)
			r := Region{Contour: f.Corners[:], Center: center}
			if v == 0 && fi == 0 {
				r.Plane = f.Plane
			}
			view.Regions = append(view.Regions, r)
		}
		for ei, e := range edges {
			view.Lines = append(view.Lines, Line{From: e.From, To: e.To, Class: e.Class})
			samples := []r3.Vector{e.From, e.From.Add(e.To).Mul(0.5), e.To}
			view.Connections = append(view.Connections, RegionConnection{A: e.Faces[0], B: e.Faces[1], Samples: samples})
			for _, fi := range e.Faces {
				view.Contacts = append(view.Contacts, RegionLineContact{Region: fi, Line: ei, Samples: samples})
			}
		}
		for _, c := range boxCorners {
			junction := edges[c[1]].To // c[1] is a depth edge ending at the back corner
			pairs := [][2]int{{c[0], c[1]}, {c[0], c[2]}, {c[1], c[2]}}
			for _, pr := range pairs {
				view.LineRelations = append(view.LineRelations, LineRelation{
					A: pr[0], B: pr[1], Kind: Intersection, Junction: junction, JunctionWeight: 1,
				})
			}
		}
		sc.Views = append(sc.Views, view)

		if v == 0 {
			continue
		}
		for fi := range faces {
			sc.Overlaps = append(sc.Overlaps, RegionOverlap{A: RegionRef{v - 1, fi}, B: RegionRef{v, fi}, Ratio: 1})
		}
		for ei, e := range edges {
			sc.Incidences = append(sc.Incidences, LineIncidence{
				A: LineRef{v - 1, ei}, B: LineRef{v, ei}, Direction: e.From.Add(e.To).Mul(0.5),
			})
		}
	}

	return sc, nil
}
