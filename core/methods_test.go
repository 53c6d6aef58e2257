package core_test

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvdepth/core"
	"github.com/katalvlaran/lvdepth/geom"
)

// axes are the Manhattan vanishing directions used across core tests.
var axes = []r3.Vector{{X: 1}, {Y: 1}, {Z: 1}}

func ray(x, y, z float64) r3.Vector { return geom.MustNormalize(r3.Vector{X: x, Y: y, Z: z}) }

// square returns a region whose contour rays hit the plane z=1 at the corners
// of the axis-aligned square [x0,x1]×[y0,y1].
func square(x0, y0, x1, y1 float64) core.Unary {
	return core.Unary{
		Kind: core.Region,
		NormalizedCorners: []r3.Vector{
			ray(x0, y0, 1), ray(x1, y0, 1), ray(x1, y1, 1), ray(x0, y1, 1),
		},
		NormalizedCenter: ray((x0+x1)/2, (y0+y1)/2, 1),
		Class:            core.FreeClass,
	}
}

func newGraph(t *testing.T) *core.MixedGraph {
	t.Helper()
	g, err := core.NewMixedGraph(axes)
	require.NoError(t, err)

	return g
}

func TestNewMixedGraph_NormalizesVanishingPoints(t *testing.T) {
	g, err := core.NewMixedGraph([]r3.Vector{{X: 2}, {Y: -3}})
	require.NoError(t, err)
	vps := g.VanishingPoints()
	require.Len(t, vps, 2)
	assert.InDelta(t, 1, vps[0].X, 1e-12)
	assert.InDelta(t, -1, vps[1].Y, 1e-12)

	_, err = core.NewMixedGraph([]r3.Vector{{}})
	assert.ErrorIs(t, err, core.ErrNotUnit)
}

func TestAddUnary_Validation(t *testing.T) {
	g := newGraph(t)

	h, err := g.AddUnary(square(-1, -1, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, core.UnaryHandle(0), h)

	bad := square(-1, -1, 0, 1)
	bad.NormalizedCenter = r3.Vector{X: 1, Y: 1}
	_, err = g.AddUnary(bad)
	assert.ErrorIs(t, err, core.ErrNotUnit)

	bad = square(-1, -1, 0, 1)
	bad.Class = 7
	_, err = g.AddUnary(bad)
	assert.ErrorIs(t, err, core.ErrBadClass)

	_, err = g.AddUnary(core.Unary{
		Kind:              core.Line,
		NormalizedCorners: []r3.Vector{ray(-1, 0, 1), ray(1, 0, 1)},
		NormalizedCenter:  ray(0, 0, 1),
		Class:             core.FreeClass,
	})
	assert.ErrorIs(t, err, core.ErrBadClass)

	_, err = g.AddUnary(core.Unary{
		Kind:              core.Line,
		NormalizedCorners: []r3.Vector{ray(-1, 0, 1)},
		NormalizedCenter:  ray(0, 0, 1),
		Class:             0,
	})
	assert.ErrorIs(t, err, core.ErrDegenerateGeometry)

	assert.Equal(t, 1, g.UnaryCount())
}

func TestAddBinary_Validation(t *testing.T) {
	g := newGraph(t)
	r1, _ := g.AddUnary(square(-1, -1, 0, 1))
	r2, _ := g.AddUnary(square(0, -1, 1, 1))
	l, err := g.AddUnary(core.Unary{
		Kind:              core.Line,
		NormalizedCorners: []r3.Vector{ray(0, -1, 1), ray(0, 1, 1)},
		NormalizedCenter:  ray(0, 0, 1),
		Class:             1,
	})
	require.NoError(t, err)

	shared := []r3.Vector{ray(0, -1, 1), ray(0, 1, 1)}

	cases := []struct {
		name   string
		u1, u2 core.UnaryHandle
		b      core.Binary
		want   error
	}{
		{"ok", r1, r2, core.Binary{Type: core.RegionRegionConnection, NormalizedAnchors: shared, Weight: 1}, nil},
		{"negative weight", r1, r2, core.Binary{Type: core.RegionRegionConnection, NormalizedAnchors: shared, Weight: -1}, core.ErrBadWeight},
		{"nan weight", r1, r2, core.Binary{Type: core.RegionRegionConnection, NormalizedAnchors: shared, Weight: math.NaN()}, core.ErrBadWeight},
		{"one anchor", r1, r2, core.Binary{Type: core.RegionRegionConnection, NormalizedAnchors: shared[:1], Weight: 1}, core.ErrTooFewAnchors},
		{"overlap needs three", r1, r2, core.Binary{Type: core.RegionRegionOverlapping, NormalizedAnchors: shared, Weight: 1}, core.ErrTooFewAnchors},
		{"non-unit anchor", r1, r2, core.Binary{Type: core.RegionRegionConnection, NormalizedAnchors: []r3.Vector{{X: 2}, {Y: 1}}, Weight: 1}, core.ErrNotUnit},
		{"loop", r1, r1, core.Binary{Type: core.RegionRegionConnection, NormalizedAnchors: shared, Weight: 1}, core.ErrLoopNotAllowed},
		{"missing", r1, 42, core.Binary{Type: core.RegionRegionConnection, NormalizedAnchors: shared, Weight: 1}, core.ErrUnaryNotFound},
		{"kinds", r1, l, core.Binary{Type: core.RegionRegionConnection, NormalizedAnchors: shared, Weight: 1}, core.ErrKindMismatch},
		{"region-line either order", l, r2, core.Binary{Type: core.RegionLineConnection, NormalizedAnchors: shared, Weight: 1}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.AddBinary(tc.u1, tc.u2, tc.b)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Equal(t, 2, g.BinaryCount())
}

func TestNeighborsAndOpposite(t *testing.T) {
	g := newGraph(t)
	a, _ := g.AddUnary(square(-1, -1, 0, 1))
	b, _ := g.AddUnary(square(0, -1, 1, 1))
	c, _ := g.AddUnary(square(1, -1, 2, 1))
	anch := func(x float64) []r3.Vector { return []r3.Vector{ray(x, -1, 1), ray(x, 1, 1)} }
	ab, err := g.AddBinary(a, b, core.Binary{Type: core.RegionRegionConnection, NormalizedAnchors: anch(0), Weight: 1})
	require.NoError(t, err)
	bc, err := g.AddBinary(b, c, core.Binary{Type: core.RegionRegionConnection, NormalizedAnchors: anch(1), Weight: 1})
	require.NoError(t, err)

	nb, err := g.Neighbors(b)
	require.NoError(t, err)
	assert.Equal(t, []core.BinaryHandle{ab, bc}, nb)

	bhs, uhs, err := g.NeighborUnaries(b)
	require.NoError(t, err)
	assert.Equal(t, []core.BinaryHandle{ab, bc}, bhs)
	assert.Equal(t, []core.UnaryHandle{a, c}, uhs)

	o, err := g.Opposite(ab, b)
	require.NoError(t, err)
	assert.Equal(t, a, o)
	_, err = g.Opposite(ab, c)
	assert.ErrorIs(t, err, core.ErrUnaryNotFound)

	_, err = g.Neighbors(99)
	assert.ErrorIs(t, err, core.ErrUnaryNotFound)
	_, err = g.Endpoints(99)
	assert.ErrorIs(t, err, core.ErrBinaryNotFound)

	assert.Equal(t, []core.UnaryHandle{0, 1, 2}, g.Unaries())
	assert.Equal(t, []core.BinaryHandle{0, 1}, g.Binaries())
}

func TestComputeImportanceRatios(t *testing.T) {
	g := newGraph(t)
	a, _ := g.AddUnary(square(-1, -1, 0, 1))
	b, _ := g.AddUnary(square(0, -1, 1, 1))
	c, _ := g.AddUnary(square(1, -1, 2, 1))
	_, _ = g.AddUnary(square(5, 5, 6, 6)) // isolated
	ab, _ := g.AddBinary(a, b, core.Binary{
		Type: core.RegionRegionConnection, NormalizedAnchors: []r3.Vector{ray(0, -1, 1), ray(0, 1, 1)}, Weight: 1,
	})
	bc, _ := g.AddBinary(b, c, core.Binary{
		Type: core.RegionRegionConnection, NormalizedAnchors: []r3.Vector{ray(1, -1, 1), ray(1, 0, 1), ray(1, 1, 1)}, Weight: 2,
	})

	require.NoError(t, g.ComputeImportanceRatios())

	bAB, _ := g.BinaryAt(ab)
	bBC, _ := g.BinaryAt(bc)
	// at a: only ab → 1; at b: 2 vs 6 → 0.25 / 0.75; at c: only bc → 1
	assert.InDelta(t, 1, bAB.ImportanceRatio[0], 1e-12)
	assert.InDelta(t, 0.25, bAB.ImportanceRatio[1], 1e-12)
	assert.InDelta(t, 0.75, bBC.ImportanceRatio[0], 1e-12)
	assert.InDelta(t, 1, bBC.ImportanceRatio[1], 1e-12)
}
