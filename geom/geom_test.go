package geom_test

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvdepth/geom"
)

func TestNormalize(t *testing.T) {
	u, err := geom.Normalize(r3.Vector{X: 3, Y: 4})
	require.NoError(t, err)
	assert.InDelta(t, 0.6, u.X, 1e-12)
	assert.InDelta(t, 0.8, u.Y, 1e-12)
	assert.True(t, geom.IsUnit(u, geom.UnitTolerance))

	_, err = geom.Normalize(r3.Vector{})
	assert.ErrorIs(t, err, geom.ErrZeroVector)

	_, err = geom.Normalize(r3.Vector{X: math.NaN()})
	assert.ErrorIs(t, err, geom.ErrZeroVector)
}

func TestClosestPoints_Skew(t *testing.T) {
	// x axis and a line parallel to y through (0,0,1)
	s, tt, err := geom.ClosestPoints(r3.Vector{}, r3.Vector{X: 1}, r3.Vector{Z: 1}, r3.Vector{Y: 1})
	require.NoError(t, err)
	assert.InDelta(t, 0, s, 1e-12)
	assert.InDelta(t, 0, tt, 1e-12)

	_, _, err = geom.ClosestPoints(r3.Vector{}, r3.Vector{X: 1}, r3.Vector{Z: 1}, r3.Vector{X: 2})
	assert.ErrorIs(t, err, geom.ErrParallel)
}

func TestRayDepthToLine(t *testing.T) {
	// line through (0,0,1) along x; the ray toward (1,0,1) meets it at depth √2
	dir := geom.MustNormalize(r3.Vector{X: 1, Z: 1})
	d, err := geom.RayDepthToLine(dir, r3.Vector{Z: 1}, r3.Vector{X: 1})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, d, 1e-9)

	// the center ray itself has depth ratio 1
	d, err = geom.RayDepthToLine(r3.Vector{Z: 1}, r3.Vector{Z: 1}, r3.Vector{X: 1})
	require.NoError(t, err)
	assert.InDelta(t, 1, d, 1e-12)
}

func TestOrthonormalFrame(t *testing.T) {
	for _, z := range []r3.Vector{{Z: 1}, {X: 1}, {X: 1, Y: 2, Z: -3}} {
		x, y, err := geom.OrthonormalFrame(z)
		require.NoError(t, err)
		zn := geom.MustNormalize(z)
		assert.InDelta(t, 0, x.Dot(zn), 1e-12)
		assert.InDelta(t, 0, y.Dot(zn), 1e-12)
		assert.InDelta(t, 0, x.Dot(y), 1e-12)
		assert.True(t, geom.IsUnit(x, 1e-9))
		assert.True(t, geom.IsUnit(y, 1e-9))
	}
}

func TestUndirectedAngleAndPlaneOffset(t *testing.T) {
	assert.InDelta(t, 0, geom.UndirectedAngle(r3.Vector{X: 1}, r3.Vector{X: -1}), 1e-12)
	assert.InDelta(t, math.Pi/2, geom.UndirectedAngle(r3.Vector{X: 1}, r3.Vector{Y: 1}), 1e-12)

	off, err := geom.PlaneOffset(r3.Vector{X: 1}, r3.Vector{Y: 1}, geom.MustNormalize(r3.Vector{X: 1, Z: 1}))
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2/2, off, 1e-12)

	_, err = geom.PlaneOffset(r3.Vector{X: 1}, r3.Vector{X: 1}, r3.Vector{Z: 1})
	assert.ErrorIs(t, err, geom.ErrZeroVector)
}
