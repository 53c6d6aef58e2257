package prim_kruskal_test

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvdepth/core"
	"github.com/katalvlaran/lvdepth/prim_kruskal"
)

var up = r3.Vector{Z: 1}

// weighted builds n regions and one connection per entry of edges,
// using the entry weight. Binary handles follow entry order.
func weighted(t *testing.T, n int, edges []struct {
	u, v core.UnaryHandle
	w    float64
}) *core.MixedGraph {
	t.Helper()
	g, err := core.NewMixedGraph([]r3.Vector{{X: 1}, {Y: 1}, {Z: 1}})
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		_, err := g.AddUnary(core.Unary{Kind: core.Region, NormalizedCenter: up, Class: core.FreeClass})
		require.NoError(t, err)
	}
	for _, e := range edges {
		_, err := g.AddBinary(e.u, e.v, core.Binary{
			Type: core.RegionRegionConnection, NormalizedAnchors: []r3.Vector{up, up}, Weight: e.w,
		})
		require.NoError(t, err)
	}

	return g
}

// byWeight prefers lighter binaries.
func byWeight(g *core.MixedGraph) prim_kruskal.Less {
	return func(a, b core.BinaryHandle) bool {
		ba, _ := g.BinaryAt(a)
		bb, _ := g.BinaryAt(b)
		return ba.Weight < bb.Weight
	}
}

// envelope: A=0 B=1 C=2 D=3; A–B 4, A–C 1, C–B 2, B–D 3, C–D 5, D–A 4.
// Its MST is {A–C, C–B, B–D} = binaries {1, 2, 3}.
func envelope(t *testing.T) (*core.MixedGraph, []core.UnaryHandle, []core.BinaryHandle) {
	g := weighted(t, 4, []struct {
		u, v core.UnaryHandle
		w    float64
	}{{0, 1, 4}, {0, 2, 1}, {2, 1, 2}, {1, 3, 3}, {2, 3, 5}, {3, 0, 4}})

	return g, g.Unaries(), g.Binaries()
}

func TestKruskal_Envelope(t *testing.T) {
	g, nodes, edges := envelope(t)
	mst, err := prim_kruskal.Kruskal(g, nodes, edges, byWeight(g))
	require.NoError(t, err)
	assert.Equal(t, []core.BinaryHandle{1, 2, 3}, mst)
}

func TestPrim_Envelope(t *testing.T) {
	g, nodes, edges := envelope(t)
	mst, err := prim_kruskal.Prim(g, nodes, edges, 0, byWeight(g))
	require.NoError(t, err)
	assert.ElementsMatch(t, []core.BinaryHandle{1, 2, 3}, mst)
}

func TestKruskal_ForestOnDisconnected(t *testing.T) {
	g := weighted(t, 4, []struct {
		u, v core.UnaryHandle
		w    float64
	}{{0, 1, 1}, {2, 3, 1}})
	forest, err := prim_kruskal.Kruskal(g, g.Unaries(), g.Binaries(), nil)
	require.NoError(t, err)
	assert.Equal(t, []core.BinaryHandle{0, 1}, forest)

	_, err = prim_kruskal.Prim(g, g.Unaries(), g.Binaries(), 0, nil)
	assert.ErrorIs(t, err, prim_kruskal.ErrDisconnected)
}

func TestTiesBreakByHandle(t *testing.T) {
	// triangle with equal weights: the two lowest handles win
	g := weighted(t, 3, []struct {
		u, v core.UnaryHandle
		w    float64
	}{{0, 1, 1}, {1, 2, 1}, {0, 2, 1}})
	edges := []core.BinaryHandle{2, 1, 0}
	mst, err := prim_kruskal.Kruskal(g, g.Unaries(), edges, byWeight(g))
	require.NoError(t, err)
	assert.Equal(t, []core.BinaryHandle{0, 1}, mst)
}

func TestErrors(t *testing.T) {
	g, nodes, edges := envelope(t)

	_, err := prim_kruskal.Kruskal(nil, nodes, edges, nil)
	assert.ErrorIs(t, err, prim_kruskal.ErrInvalidGraph)

	// binary 3 (B–D) leaves {A,B,C}
	_, err = prim_kruskal.Kruskal(g, nodes[:3], edges, nil)
	assert.ErrorIs(t, err, prim_kruskal.ErrInvalidGraph)

	_, err = prim_kruskal.Prim(g, nodes, edges, 9, nil)
	assert.ErrorIs(t, err, prim_kruskal.ErrRootNotFound)

	_, err = prim_kruskal.Prim(g, nil, nil, 0, nil)
	assert.ErrorIs(t, err, prim_kruskal.ErrDisconnected)

	_, err = prim_kruskal.Compute(g, nodes, edges, prim_kruskal.DefaultOptions(prim_kruskal.WithMethod("boruvka")))
	assert.ErrorIs(t, err, prim_kruskal.ErrUnknownMethod)
}

func TestCompute_Dispatch(t *testing.T) {
	g, nodes, edges := envelope(t)
	for _, m := range []string{prim_kruskal.MethodKruskal, prim_kruskal.MethodPrim} {
		t.Run(m, func(t *testing.T) {
			mst, err := prim_kruskal.Compute(g, nodes, edges, prim_kruskal.DefaultOptions(
				prim_kruskal.WithMethod(m),
				prim_kruskal.WithRoot(3),
				prim_kruskal.WithLess(byWeight(g)),
			))
			require.NoError(t, err)
			assert.ElementsMatch(t, []core.BinaryHandle{1, 2, 3}, mst)
		})
	}
}

func TestSingleNode(t *testing.T) {
	g := weighted(t, 1, nil)
	mst, err := prim_kruskal.Kruskal(g, g.Unaries(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, mst)

	mst, err = prim_kruskal.Prim(g, g.Unaries(), nil, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, mst)
}
