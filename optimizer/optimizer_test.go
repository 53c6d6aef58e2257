package optimizer_test

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvdepth/core"
	"github.com/katalvlaran/lvdepth/geom"
	"github.com/katalvlaran/lvdepth/matrix"
	"github.com/katalvlaran/lvdepth/optimizer"
	"github.com/katalvlaran/lvdepth/patch"
)

var axes = []r3.Vector{{X: 1}, {Y: 1}, {Z: 1}}

func ray(x, y, z float64) r3.Vector { return geom.MustNormalize(r3.Vector{X: x, Y: y, Z: z}) }

// square is a region whose contour hits z=1 at the corners of [x0,x1]×[y0,y1].
func square(x0, y0, x1, y1 float64) core.Unary {
	return core.Unary{
		Kind:              core.Region,
		NormalizedCorners: []r3.Vector{ray(x0, y0, 1), ray(x1, y0, 1), ray(x1, y1, 1), ray(x0, y1, 1)},
		NormalizedCenter:  ray((x0+x1)/2, (y0+y1)/2, 1),
		Class:             core.FreeClass,
	}
}

func newGraph(t *testing.T) *core.MixedGraph {
	t.Helper()
	g, err := core.NewMixedGraph(axes)
	require.NoError(t, err)

	return g
}

func mustUnary(t *testing.T, g *core.MixedGraph, u core.Unary) core.UnaryHandle {
	t.Helper()
	h, err := g.AddUnary(u)
	require.NoError(t, err)

	return h
}

func mustBinary(t *testing.T, g *core.MixedGraph, u1, u2 core.UnaryHandle, b core.Binary) core.BinaryHandle {
	t.Helper()
	h, err := g.AddBinary(u1, u2, b)
	require.NoError(t, err)

	return h
}

func inverseDepth(t *testing.T, g *core.MixedGraph, p patch.Patch, uh core.UnaryHandle, dir r3.Vector) float64 {
	t.Helper()
	un, err := g.UnaryAt(uh)
	require.NoError(t, err)
	inv, err := p.Unaries[uh].InverseDepthAt(dir, un, g.VanishingPoints())
	require.NoError(t, err)

	return inv
}

// twoSquares is [-1,0]×[-1,1] and [0,1]×[-1,1] on z=1 sharing the edge x=0.
func twoSquares(t *testing.T) (*core.MixedGraph, core.UnaryHandle, core.UnaryHandle, core.BinaryHandle) {
	g := newGraph(t)
	r0 := mustUnary(t, g, square(-1, -1, 0, 1))
	r1 := mustUnary(t, g, square(0, -1, 1, 1))
	b := mustBinary(t, g, r0, r1, core.Binary{
		Type:              core.RegionRegionConnection,
		NormalizedAnchors: []r3.Vector{ray(0, -1, 1), ray(0, 1, 1)},
		Weight:            1,
	})

	return g, r0, r1, b
}

func TestOptimize_TwoSquaresOneFixed(t *testing.T) {
	g, r0, r1, b := twoSquares(t)
	uvars, bvars := core.NewVariableTables(g)
	uvars[r0] = core.UnaryVariable{Variables: []float64{0, 0, 1}, Fixed: true}
	uvars[r1] = core.UnaryVariable{Variables: []float64{0.2, -0.1, 0.7}}

	p, err := patch.OnBinary(g, b, uvars, bvars)
	require.NoError(t, err)

	rep, err := optimizer.Optimize(g, &p)
	require.NoError(t, err)
	assert.Equal(t, optimizer.LeastSquaresAlgorithm, rep.Algorithm)
	assert.Equal(t, 2, rep.Equations)
	assert.Equal(t, 3, rep.Variables)

	assert.Equal(t, core.UnaryVariable{Variables: []float64{0, 0, 1}, Fixed: true}, p.Unaries[r0])
	bin, _ := g.BinaryAt(b)
	for _, a := range bin.NormalizedAnchors {
		assert.InDelta(t, inverseDepth(t, g, p, r0, a), inverseDepth(t, g, p, r1, a), 1e-6)
	}
	// two anchors leave x free; the minimum-norm plane is z = 1 itself
	assert.InDeltaSlice(t, []float64{0, 0, 1}, p.Unaries[r1].Variables, 1e-9)
	assert.False(t, p.Unaries[r1].Fixed)
	assert.InDelta(t, 0, p.Binaries[b].Slack, 1e-9)

	un, _ := g.UnaryAt(r1)
	for _, c := range un.NormalizedCorners {
		assert.InDelta(t, c.Z, inverseDepth(t, g, p, r1, c), 1e-9)
	}
}

func TestOptimize_ThreeAnchorsReproduceFixedPlane(t *testing.T) {
	for _, alg := range []optimizer.Algorithm{optimizer.LeastSquaresAlgorithm, optimizer.LinearProgramAlgorithm} {
		t.Run(string(alg), func(t *testing.T) {
			g := newGraph(t)
			r0 := mustUnary(t, g, square(-1, -1, 0.5, 1))
			r1 := mustUnary(t, g, square(-0.5, -1, 1, 1))
			anchors := []r3.Vector{ray(-0.5, -1, 1), ray(0.5, -1, 1), ray(0, 1, 1)}
			b := mustBinary(t, g, r0, r1, core.Binary{Type: core.RegionRegionOverlapping, NormalizedAnchors: anchors, Weight: 100})

			uvars, bvars := core.NewVariableTables(g)
			fixed := []float64{0.1, 0.2, 0.8}
			uvars[r0] = core.UnaryVariable{Variables: fixed, Fixed: true}
			p, err := patch.OnBinary(g, b, uvars, bvars)
			require.NoError(t, err)

			rep, err := optimizer.Optimize(g, &p, optimizer.WithAlgorithm(alg))
			require.NoError(t, err)
			assert.Equal(t, alg, rep.Algorithm)
			assert.Equal(t, 3, rep.Equations)

			for _, a := range anchors {
				assert.InDelta(t, inverseDepth(t, g, p, r0, a), inverseDepth(t, g, p, r1, a), 1e-6)
			}
			assert.InDeltaSlice(t, fixed, p.Unaries[r1].Variables, 1e-6)
			assert.Equal(t, fixed, p.Unaries[r0].Variables)
		})
	}
}

func TestOptimize_ScaleRowWithoutFixed(t *testing.T) {
	for _, alg := range []optimizer.Algorithm{optimizer.LeastSquaresAlgorithm, optimizer.LinearProgramAlgorithm} {
		t.Run(string(alg), func(t *testing.T) {
			g, r0, r1, b := twoSquares(t)
			uvars, bvars := core.NewVariableTables(g)
			p, err := patch.OnBinary(g, b, uvars, bvars)
			require.NoError(t, err)

			rep, err := optimizer.Optimize(g, &p, optimizer.WithAlgorithm(alg))
			require.NoError(t, err)
			assert.Equal(t, 3, rep.Equations)

			un, _ := g.UnaryAt(r0)
			d, err := p.Unaries[r0].DepthAtCenter(un, axes)
			require.NoError(t, err)
			assert.InDelta(t, 1, d, 1e-6)

			bin, _ := g.BinaryAt(b)
			for _, a := range bin.NormalizedAnchors {
				assert.InDelta(t, inverseDepth(t, g, p, r0, a), inverseDepth(t, g, p, r1, a), 1e-6)
			}
		})
	}
}

func TestOptimize_WeightsKeepFixedAndFinite(t *testing.T) {
	build := func(w float64) (*core.MixedGraph, patch.Patch) {
		g := newGraph(t)
		for i := 0; i < 3; i++ {
			mustUnary(t, g, square(float64(i), -1, float64(i+1), 1))
		}
		for i := 1; i < 3; i++ {
			x := float64(i)
			mustBinary(t, g, core.UnaryHandle(i-1), core.UnaryHandle(i), core.Binary{
				Type:              core.RegionRegionConnection,
				NormalizedAnchors: []r3.Vector{ray(x, -1, 1), ray(x, 1, 1)},
				Weight:            w * x,
			})
		}
		uvars, bvars := core.NewVariableTables(g)
		uvars[0] = core.UnaryVariable{Variables: []float64{0, 0.5, 1}, Fixed: true}
		ps, err := patch.Decompose(g, uvars, bvars)
		require.NoError(t, err)
		require.Len(t, ps, 1)

		return g, ps[0]
	}

	for _, w := range []float64{1, 1e-3, 1e3} {
		g, p := build(w)
		_, err := optimizer.Optimize(g, &p)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0.5, 1}, p.Unaries[0].Variables)
		for _, uv := range p.Unaries {
			for _, v := range uv.Variables {
				assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
			}
		}
		for _, bh := range p.BinaryHandles() {
			ends, _ := g.Endpoints(bh)
			bin, _ := g.BinaryAt(bh)
			for _, a := range bin.NormalizedAnchors {
				assert.InDelta(t, inverseDepth(t, g, p, ends[0], a), inverseDepth(t, g, p, ends[1], a), 1e-6)
			}
		}
	}
}

func TestOptimize_SharedRigid(t *testing.T) {
	g := newGraph(t)
	r0 := mustUnary(t, g, square(-1, -1, 0.5, 1))
	r1 := mustUnary(t, g, square(-0.5, -1, 1, 1))
	r2 := mustUnary(t, g, square(1, -1, 2, 1))
	mustBinary(t, g, r0, r1, core.Binary{
		Type:              core.RegionRegionOverlapping,
		NormalizedAnchors: []r3.Vector{ray(-0.5, -1, 1), ray(0.5, -1, 1), ray(0, 1, 1)},
		Weight:            100,
	})
	mustBinary(t, g, r1, r2, core.Binary{
		Type:              core.RegionRegionConnection,
		NormalizedAnchors: []r3.Vector{ray(1, -1, 1), ray(1, 1, 1)},
		Weight:            1,
	})
	fixed := []float64{0.1, 0.2, 0.8}

	solve := func(shared bool, r1Fixed []float64) (patch.Patch, optimizer.Report, error) {
		uvars, bvars := core.NewVariableTables(g)
		uvars[r0] = core.UnaryVariable{Variables: fixed, Fixed: true}
		if r1Fixed != nil {
			uvars[r1] = core.UnaryVariable{Variables: r1Fixed, Fixed: true}
		}
		ps, err := patch.Decompose(g, uvars, bvars)
		require.NoError(t, err)
		require.Len(t, ps, 1)
		rep, err := optimizer.Optimize(g, &ps[0], optimizer.WithSharedRigid(shared))
		return ps[0], rep, err
	}

	p, rep, err := solve(true, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Variables)
	assert.Equal(t, fixed, p.Unaries[r1].Variables)
	assert.False(t, p.Unaries[r1].Fixed)
	assert.InDelta(t, inverseDepth(t, g, p, r1, ray(1, 1, 1)), inverseDepth(t, g, p, r2, ray(1, 1, 1)), 1e-6)

	_, rep, err = solve(false, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, rep.Variables)

	_, _, err = solve(true, []float64{0, 0, 1})
	assert.ErrorIs(t, err, patch.ErrInconsistentFixed)
}

type nanSolver struct{}

func (nanSolver) Name() optimizer.Algorithm { return "nan" }

func (nanSolver) Solve(sys *optimizer.System) ([]float64, error) {
	x := make([]float64, sys.Unknowns())
	for i := range x {
		x[i] = math.NaN()
	}
	return x, nil
}

func TestOptimize_Failures(t *testing.T) {
	g, r0, r1, b := twoSquares(t)
	uvars, bvars := core.NewVariableTables(g)
	uvars[r0] = core.UnaryVariable{Variables: []float64{0, 0, 1}, Fixed: true}
	p, err := patch.OnBinary(g, b, uvars, bvars)
	require.NoError(t, err)
	before := p.Clone()

	_, err = optimizer.Optimize(g, &p, optimizer.WithSolver(nanSolver{}))
	assert.ErrorIs(t, err, optimizer.ErrOptimizationFailed)
	assert.Equal(t, before, p)

	// disabled relation leaves no equation
	q := p.Clone()
	q.Binaries[b] = core.BinaryVariable{Enabled: false}
	_, err = optimizer.Optimize(g, &q)
	assert.ErrorIs(t, err, optimizer.ErrOptimizationFailed)

	// everything fixed leaves no variable
	q = p.Clone()
	q.Unaries[r1] = core.UnaryVariable{Variables: []float64{0, 0, 1}, Fixed: true}
	_, err = optimizer.Optimize(g, &q)
	assert.ErrorIs(t, err, optimizer.ErrOptimizationFailed)

	_, err = optimizer.Optimize(g, &patch.Patch{})
	assert.ErrorIs(t, err, patch.ErrInvariantViolation)
	_, err = optimizer.Optimize(nil, &p)
	assert.ErrorIs(t, err, patch.ErrInvariantViolation)

	_, err = optimizer.Optimize(g, &p, optimizer.WithKinkTolerance(-1))
	assert.ErrorIs(t, err, optimizer.ErrInvalidOption)
	_, err = optimizer.Optimize(g, &p, optimizer.WithAlgorithm("newton"))
	assert.ErrorIs(t, err, optimizer.ErrInvalidOption)
	assert.Equal(t, before, p)
}

func TestAssemble_MovesFixedToRightHandSide(t *testing.T) {
	g, r0, _, b := twoSquares(t)
	uvars, bvars := core.NewVariableTables(g)
	uvars[r0] = core.UnaryVariable{Variables: []float64{0, 0, 1}, Fixed: true}
	p, err := patch.OnBinary(g, b, uvars, bvars)
	require.NoError(t, err)

	sys, err := optimizer.Assemble(g, &p, optimizer.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, sys.Equations())
	assert.Equal(t, 3, sys.Unknowns())
	assert.Equal(t, -1, sys.ScaleRow())
	assert.Equal(t, b, sys.RowBinary(0))
	assert.InDeltaSlice(t, []float64{-1 / math.Sqrt2, -1 / math.Sqrt2}, sys.RHS(), 1e-12)
	assert.Equal(t, []float64{1, 1}, sys.Weights())

	floors, f := sys.Floors()
	assert.Equal(t, 1, floors.Rows())
	assert.Equal(t, []float64{optimizer.DefaultLPInverseDepthFloor}, f)

	res, err := sys.Residuals(sys.Initial())
	require.NoError(t, err)
	assert.Len(t, res, 2)
}

func TestSolvers_WeightOnACopy(t *testing.T) {
	g := newGraph(t)
	r0 := mustUnary(t, g, square(-1, -1, 0.5, 1))
	r1 := mustUnary(t, g, square(-0.5, -1, 1, 1))
	b := mustBinary(t, g, r0, r1, core.Binary{
		Type:              core.RegionRegionOverlapping,
		NormalizedAnchors: []r3.Vector{ray(-0.5, -1, 1), ray(0.5, -1, 1), ray(0, 1, 1)},
		Weight:            100,
	})
	uvars, bvars := core.NewVariableTables(g)
	uvars[r0] = core.UnaryVariable{Variables: []float64{0.1, 0.2, 0.8}, Fixed: true}
	p, err := patch.OnBinary(g, b, uvars, bvars)
	require.NoError(t, err)

	sys, err := optimizer.Assemble(g, &p, optimizer.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, []float64{100, 100, 100}, sys.Weights())
	before := make([][]matrix.Triplet, sys.Equations())
	for i := range before {
		before[i], err = sys.Matrix().Row(i)
		require.NoError(t, err)
	}
	rhs := sys.RHS()

	for _, solver := range []optimizer.Solver{optimizer.LeastSquares{}, optimizer.LinearProgram{}} {
		x, err := solver.Solve(sys)
		require.NoError(t, err, solver.Name())
		assert.InDeltaSlice(t, []float64{0.1, 0.2, 0.8}, x, 1e-6, solver.Name())
		for i := range before {
			row, err := sys.Matrix().Row(i)
			require.NoError(t, err)
			assert.Equal(t, before[i], row)
		}
		assert.Equal(t, rhs, sys.RHS())
	}
}

func TestParseAlgorithm(t *testing.T) {
	a, err := optimizer.ParseAlgorithm("linear-program")
	require.NoError(t, err)
	assert.Equal(t, optimizer.LinearProgramAlgorithm, a)
	_, err = optimizer.ParseAlgorithm("")
	assert.ErrorIs(t, err, optimizer.ErrInvalidOption)
}
