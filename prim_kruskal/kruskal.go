package prim_kruskal

import (
	"sort"

	"github.com/katalvlaran/lvdepth/core"
)

// Kruskal computes a minimum spanning forest of the sub-graph spanned by nodes
// and edges, taking binaries in Less order. It uses a disjoint-set
// (union-find) with path compression and union by rank.
//
// The result holds |nodes| − (number of components) binaries, in acceptance
// order. A connected input therefore yields |nodes| − 1 binaries.
//
// Error Conditions:
//   - ErrInvalidGraph: nil graph, unknown handle, or a binary leaving the node set.
//
// Steps:
//  1. Resolve endpoints of every binary.
//  2. Stable-sort binaries by Less (ties by handle).
//  3. Initialize DSU parent/rank for each node.
//  4. For each binary (u,v): if find(u) != find(v), union and accept.
//
// Complexity: O(E log E + α(V)·E). Memory: O(E + V).
func Kruskal(g *core.MixedGraph, nodes []core.UnaryHandle, edges []core.BinaryHandle, less Less) ([]core.BinaryHandle, error) {
	_, ends, err := resolve(g, nodes, edges)
	if err != nil {
		return nil, err
	}

	order := append([]core.BinaryHandle(nil), edges...)
	cmp := less.total()
	sort.SliceStable(order, func(i, j int) bool { return cmp(order[i], order[j]) })

	parent := make(map[core.UnaryHandle]core.UnaryHandle, len(nodes))
	rank := make(map[core.UnaryHandle]int, len(nodes))
	for _, u := range nodes {
		parent[u] = u
	}

	find := func(u core.UnaryHandle) core.UnaryHandle {
		for parent[u] != u {
			parent[u] = parent[parent[u]]
			u = parent[u]
		}

		return u
	}

	forest := make([]core.BinaryHandle, 0, len(nodes))
	for _, b := range order {
		ru, rv := find(ends[b][0]), find(ends[b][1])
		if ru == rv {
			continue
		}
		switch {
		case rank[ru] < rank[rv]:
			parent[ru] = rv
		case rank[ru] > rank[rv]:
			parent[rv] = ru
		default:
			parent[rv] = ru
			rank[ru]++
		}
		forest = append(forest, b)
		if len(forest) == len(parent)-1 {
			break
		}
	}

	return forest, nil
}
