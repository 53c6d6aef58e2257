package prim_kruskal

import (
	"container/heap"

	"github.com/katalvlaran/lvdepth/core"
)

// Prim computes a minimum spanning tree of the sub-graph spanned by nodes and
// edges by growing outward from root, always taking the most preferred
// (Less-first) binary that reaches a new unary.
//
// Error Conditions:
//   - ErrInvalidGraph : nil graph, unknown handle, or a binary leaving the node set.
//   - ErrRootNotFound : root is not in nodes.
//   - ErrDisconnected : nodes is empty, or not every node is reachable.
//
// Steps:
//  1. Resolve endpoints and build node → incident binaries lists.
//  2. Mark root visited and push its binaries.
//  3. Pop the best binary; skip if both ends are visited; otherwise accept it,
//     mark the new end, push its binaries.
//  4. Fewer than |nodes|−1 accepted binaries → ErrDisconnected.
//
// Complexity: O(E log E) time, O(V + E) memory.
func Prim(g *core.MixedGraph, nodes []core.UnaryHandle, edges []core.BinaryHandle, root core.UnaryHandle, less Less) ([]core.BinaryHandle, error) {
	in, ends, err := resolve(g, nodes, edges)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, ErrDisconnected
	}
	if !in[root] {
		return nil, ErrRootNotFound
	}

	incident := make(map[core.UnaryHandle][]core.BinaryHandle, len(nodes))
	for _, b := range edges {
		e := ends[b]
		incident[e[0]] = append(incident[e[0]], b)
		incident[e[1]] = append(incident[e[1]], b)
	}

	n := len(in)
	visited := make(map[core.UnaryHandle]bool, n)
	tree := make([]core.BinaryHandle, 0, n-1)
	pq := &binaryPQ{less: less.total()}

	push := func(u core.UnaryHandle) {
		visited[u] = true
		for _, b := range incident[u] {
			e := ends[b]
			if !visited[e[0]] || !visited[e[1]] {
				heap.Push(pq, b)
			}
		}
	}
	push(root)

	for pq.Len() > 0 && len(tree) < n-1 {
		b := heap.Pop(pq).(core.BinaryHandle)
		e := ends[b]
		var next core.UnaryHandle
		switch {
		case !visited[e[0]]:
			next = e[0]
		case !visited[e[1]]:
			next = e[1]
		default:
			continue
		}
		tree = append(tree, b)
		push(next)
	}

	if len(tree) < n-1 {
		return nil, ErrDisconnected
	}

	return tree, nil
}

// binaryPQ implements heap.Interface for binaries ordered by a total Less.
type binaryPQ struct {
	items []core.BinaryHandle
	less  func(a, b core.BinaryHandle) bool
}

func (pq binaryPQ) Len() int           { return len(pq.items) }
func (pq binaryPQ) Less(i, j int) bool { return pq.less(pq.items[i], pq.items[j]) }
func (pq binaryPQ) Swap(i, j int)      { pq.items[i], pq.items[j] = pq.items[j], pq.items[i] }

func (pq *binaryPQ) Push(x interface{}) { pq.items = append(pq.items, x.(core.BinaryHandle)) }

func (pq *binaryPQ) Pop() interface{} {
	old := pq.items
	n := len(old)
	b := old[n-1]
	pq.items = old[:n-1]

	return b
}
