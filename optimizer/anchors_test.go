package optimizer_test

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvdepth/core"
	"github.com/katalvlaran/lvdepth/optimizer"
	"github.com/katalvlaran/lvdepth/patch"
)

func TestNecessaryAnchors(t *testing.T) {
	g := newGraph(t)
	ra := mustUnary(t, g, square(-1, -1, 0, 1))
	rb := mustUnary(t, g, square(0, -1, 1, 1))
	l0 := mustUnary(t, g, core.Unary{
		Kind: core.Line, NormalizedCorners: []r3.Vector{ray(-1, 0, 1), ray(1, 0, 1)}, NormalizedCenter: ray(0, 0, 1), Class: 0,
	})
	l1 := mustUnary(t, g, core.Unary{
		Kind: core.Line, NormalizedCorners: []r3.Vector{ray(0, -1, 1), ray(0, 1, 1)}, NormalizedCenter: ray(0, 0, 1), Class: 1,
	})

	straight := mustBinary(t, g, ra, rb, core.Binary{
		Type: core.RegionRegionConnection, NormalizedAnchors: []r3.Vector{ray(0, -1, 1), ray(0, 0, 1), ray(0, 1, 1)}, Weight: 1,
	})
	kinked := mustBinary(t, g, ra, rb, core.Binary{
		Type: core.RegionRegionConnection, NormalizedAnchors: []r3.Vector{ray(0, -1, 1), ray(0.5, 0, 1), ray(0, 1, 1)}, Weight: 1,
	})
	overlap := mustBinary(t, g, ra, rb, core.Binary{
		Type:              core.RegionRegionOverlapping,
		NormalizedAnchors: []r3.Vector{ray(-0.5, -1, 1), ray(0.5, -1, 1), ray(0, 0, 1), ray(0, 1, 1)},
		Weight:            1,
	})
	repeated := mustBinary(t, g, ra, rb, core.Binary{
		Type:              core.RegionRegionOverlapping,
		NormalizedAnchors: []r3.Vector{ray(-0.5, -1, 1), ray(-0.5, -1, 1), ray(0, 1, 1), ray(0.5, -1, 1)},
		Weight:            1,
	})
	contact := mustBinary(t, g, ra, l0, core.Binary{
		Type: core.RegionLineConnection, NormalizedAnchors: []r3.Vector{ray(-1, 0, 1), ray(-0.5, 0, 1), ray(0, 0, 1)}, Weight: 1,
	})
	cross := mustBinary(t, g, l0, l1, core.Binary{
		Type: core.LineLineIntersection, NormalizedAnchors: []r3.Vector{ray(0, 0, 1)}, Weight: 10,
	})

	cases := []struct {
		name string
		b    core.BinaryHandle
		want []r3.Vector
	}{
		{"straight boundary", straight, []r3.Vector{ray(0, -1, 1), ray(0, 1, 1)}},
		{"kinked boundary", kinked, []r3.Vector{ray(0, -1, 1), ray(0.5, 0, 1), ray(0, 1, 1)}},
		{"overlap takes the farthest", overlap, []r3.Vector{ray(-0.5, -1, 1), ray(0, 1, 1), ray(0.5, -1, 1)}},
		{"overlap skips a repeated ray", repeated, []r3.Vector{ray(-0.5, -1, 1), ray(0, 1, 1), ray(0.5, -1, 1)}},
		{"region-line ends", contact, []r3.Vector{ray(-1, 0, 1), ray(0, 0, 1)}},
		{"line-line all", cross, []r3.Vector{ray(0, 0, 1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := optimizer.NecessaryAnchors(g, tc.b, optimizer.DefaultKinkTolerance)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	strong := optimizer.StrongBinary(g, optimizer.DefaultKinkTolerance)
	assert.False(t, strong(straight))
	assert.True(t, strong(kinked))
	assert.True(t, strong(overlap))
	assert.True(t, strong(repeated))
	assert.False(t, strong(cross))
	assert.False(t, strong(99))

	_, err := optimizer.NecessaryAnchors(g, 99, optimizer.DefaultKinkTolerance)
	assert.ErrorIs(t, err, core.ErrBinaryNotFound)

	oneRay := mustBinary(t, g, ra, rb, core.Binary{
		Type:              core.RegionRegionOverlapping,
		NormalizedAnchors: []r3.Vector{ray(0, 0, 1), ray(0, 0, 1), ray(0, 0, 1)},
		Weight:            1,
	})
	_, err = optimizer.NecessaryAnchors(g, oneRay, optimizer.DefaultKinkTolerance)
	assert.ErrorIs(t, err, core.ErrDegenerateGeometry)
	assert.False(t, strong(oneRay))
}

func TestOptimize_OverlapWithRepeatedAnchor(t *testing.T) {
	g := newGraph(t)
	r0 := mustUnary(t, g, square(-1, -1, 0.5, 1))
	r1 := mustUnary(t, g, square(-0.5, -1, 1, 1))
	anchors := []r3.Vector{ray(-0.5, -1, 1), ray(-0.5, -1, 1), ray(0.5, -1, 1), ray(0, 1, 1)}
	b := mustBinary(t, g, r0, r1, core.Binary{Type: core.RegionRegionOverlapping, NormalizedAnchors: anchors, Weight: 100})

	uvars, bvars := core.NewVariableTables(g)
	fixed := []float64{0.1, 0.2, 0.8}
	uvars[r0] = core.UnaryVariable{Variables: fixed, Fixed: true}
	p, err := patch.OnBinary(g, b, uvars, bvars)
	require.NoError(t, err)

	rep, err := optimizer.Optimize(g, &p)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Equations)
	assert.InDeltaSlice(t, fixed, p.Unaries[r1].Variables, 1e-6)
}
