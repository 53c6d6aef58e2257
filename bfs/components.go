package bfs

import (
	"sort"

	"github.com/katalvlaran/lvdepth/core"
)

// ConnectedComponents partitions the permitted unaries of g into components
// reachable through permitted binaries (see WithFilterBinary, WithFilterUnary).
//
// Each component is sorted ascending, and components are ordered by their
// smallest handle. Isolated unaries form singleton components. MaxDepth and
// OnVisit are honored per walk.
//
// Time:   O(V + E).
// Memory: O(V) for visited flags and output.
func ConnectedComponents(g *core.MixedGraph, opts ...Option) ([][]core.UnaryHandle, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	seen := make(map[core.UnaryHandle]bool, g.UnaryCount())
	var comps [][]core.UnaryHandle
	// seeds ascend, so each component is discovered from its smallest member
	for _, u := range g.Unaries() {
		if seen[u] || !o.FilterUnary(u) {
			continue
		}
		w := newWalker(g, o, seen)
		w.enqueue(u, 0, u, -1)
		if err := w.loop(); err != nil {
			return nil, err
		}
		comp := w.res.Order
		sort.Slice(comp, func(i, j int) bool { return comp[i] < comp[j] })
		comps = append(comps, comp)
	}

	return comps, nil
}
