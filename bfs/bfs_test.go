package bfs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvdepth/bfs"
	"github.com/katalvlaran/lvdepth/core"
)

var up = r3.Vector{Z: 1}

// chain builds n regions joined in a path 0–1–…–(n-1), plus the given extras.
func chain(t *testing.T, n int, extra ...[2]core.UnaryHandle) *core.MixedGraph {
	t.Helper()
	g, err := core.NewMixedGraph([]r3.Vector{{X: 1}, {Y: 1}, {Z: 1}})
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		_, err := g.AddUnary(core.Unary{Kind: core.Region, NormalizedCenter: up, Class: core.FreeClass})
		require.NoError(t, err)
	}
	link := func(a, b core.UnaryHandle) {
		_, err := g.AddBinary(a, b, core.Binary{
			Type:              core.RegionRegionConnection,
			NormalizedAnchors: []r3.Vector{up, up},
			Weight:            1,
		})
		require.NoError(t, err)
	}
	for i := 1; i < n; i++ {
		link(core.UnaryHandle(i-1), core.UnaryHandle(i))
	}
	for _, e := range extra {
		link(e[0], e[1])
	}

	return g
}

func TestBFS_Errors(t *testing.T) {
	_, err := bfs.BFS(nil, 0)
	assert.ErrorIs(t, err, bfs.ErrGraphNil)

	g := chain(t, 2)
	_, err = bfs.BFS(g, 5)
	assert.ErrorIs(t, err, bfs.ErrStartNotFound)

	_, err = bfs.BFS(g, 0, bfs.WithMaxDepth(-1))
	assert.ErrorIs(t, err, bfs.ErrOptionViolation)

	_, err = bfs.BFS(g, 0, bfs.WithFilterUnary(func(u core.UnaryHandle) bool { return u != 0 }))
	assert.ErrorIs(t, err, bfs.ErrStartNotFound)
}

func TestBFS_OrderDepthAndPath(t *testing.T) {
	// 0–1–2–3 plus shortcut 0–3
	g := chain(t, 4, [2]core.UnaryHandle{0, 3})

	res, err := bfs.BFS(g, 0)
	require.NoError(t, err)
	assert.Equal(t, []core.UnaryHandle{0, 1, 3, 2}, res.Order)
	assert.Equal(t, 1, res.Depth[3])
	assert.Equal(t, 2, res.Depth[2])
	assert.Equal(t, core.BinaryHandle(3), res.Via[3])

	path, err := res.PathTo(2)
	require.NoError(t, err)
	assert.Equal(t, []core.UnaryHandle{0, 1, 2}, path)
}

func TestBFS_FilterAndDepthLimit(t *testing.T) {
	g := chain(t, 4)

	// drop binary 1 (1–2): only {0,1} reachable
	res, err := bfs.BFS(g, 0, bfs.WithFilterBinary(func(b core.BinaryHandle) bool { return b != 1 }))
	require.NoError(t, err)
	assert.Equal(t, []core.UnaryHandle{0, 1}, res.Order)
	_, err = res.PathTo(3)
	assert.ErrorIs(t, err, bfs.ErrUnreachable)

	res, err = bfs.BFS(g, 0, bfs.WithMaxDepth(2))
	require.NoError(t, err)
	assert.Equal(t, []core.UnaryHandle{0, 1, 2}, res.Order)
}

func TestBFS_HookErrorAndCancel(t *testing.T) {
	g := chain(t, 3)
	stop := errors.New("stop")
	_, err := bfs.BFS(g, 0, bfs.WithOnVisit(func(u core.UnaryHandle, _ int) error {
		if u == 1 {
			return stop
		}
		return nil
	}))
	assert.ErrorIs(t, err, stop)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = bfs.BFS(g, 0, bfs.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConnectedComponents(t *testing.T) {
	// 0–1–2–3–4 with binary 2 (2–3) filtered out, unary 5 isolated
	g := chain(t, 5)
	_, err := g.AddUnary(core.Unary{Kind: core.Region, NormalizedCenter: up, Class: core.FreeClass})
	require.NoError(t, err)

	comps, err := bfs.ConnectedComponents(g, bfs.WithFilterBinary(func(b core.BinaryHandle) bool { return b != 2 }))
	require.NoError(t, err)
	assert.Equal(t, [][]core.UnaryHandle{{0, 1, 2}, {3, 4}, {5}}, comps)

	comps, err = bfs.ConnectedComponents(g, bfs.WithFilterUnary(func(u core.UnaryHandle) bool { return u >= 3 }))
	require.NoError(t, err)
	assert.Equal(t, [][]core.UnaryHandle{{3, 4}, {5}}, comps)

	_, err = bfs.ConnectedComponents(nil)
	assert.ErrorIs(t, err, bfs.ErrGraphNil)
}
