// Package prim_kruskal defines configuration options and sentinel errors for
// spanning-tree computation over handle sets of a core.MixedGraph.
// It supports selecting between Kruskal and Prim algorithms via MSTOptions.
package prim_kruskal

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvdepth/core"
)

// ErrInvalidGraph indicates a nil graph, an unknown binary handle, or a binary
// whose endpoints are not among the given nodes.
var ErrInvalidGraph = errors.New("prim_kruskal: invalid graph or handle set")

// ErrRootNotFound indicates that the Prim root is not among the given nodes.
var ErrRootNotFound = errors.New("prim_kruskal: root not among nodes")

// ErrDisconnected indicates that the nodes are not fully connected by the
// given binaries, so a single spanning tree cannot be formed.
var ErrDisconnected = errors.New("prim_kruskal: graph is disconnected")

// ErrUnknownMethod indicates an MSTOptions.Method other than MethodPrim or MethodKruskal.
var ErrUnknownMethod = errors.New("prim_kruskal: unknown method")

// Less orders binaries by preference: Less(a, b) means a should be taken
// before b. A nil Less falls back to ascending handle order.
type Less func(a, b core.BinaryHandle) bool

// MethodPrim selects Prim's algorithm (grow from a root using a min-heap).
const MethodPrim = "prim"

// MethodKruskal selects Kruskal's algorithm (sort all binaries and union-find).
const MethodKruskal = "kruskal"

// MSTOptions configures which algorithm to run, and for Prim, which root to use.
// Use DefaultOptions() to get a default setup (Kruskal).
type MSTOptions struct {
	// Method to use: MethodPrim or MethodKruskal.
	Method string

	// Root is the starting unary for Prim's algorithm. Unused by Kruskal.
	Root core.UnaryHandle

	// Less is the binary preference order.
	Less Less
}

// Option configures MSTOptions.
type Option func(*MSTOptions)

// WithMethod sets the algorithm Method.
func WithMethod(m string) Option {
	return func(opts *MSTOptions) {
		opts.Method = m
	}
}

// WithRoot sets the starting unary for Prim's algorithm; ignored by Kruskal.
func WithRoot(root core.UnaryHandle) Option {
	return func(opts *MSTOptions) {
		opts.Root = root
	}
}

// WithLess sets the binary preference order.
func WithLess(less Less) Option {
	return func(opts *MSTOptions) {
		opts.Less = less
	}
}

// DefaultOptions returns MSTOptions for Kruskal with handle order.
func DefaultOptions(opts ...Option) MSTOptions {
	o := MSTOptions{Method: MethodKruskal}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Compute selects and runs the algorithm based on opts.Method.
//
//	– MethodKruskal: Kruskal(g, nodes, edges, opts.Less), a spanning forest.
//	– MethodPrim:    Prim(g, nodes, edges, opts.Root, opts.Less), a spanning tree.
//	– Otherwise:     ErrUnknownMethod.
func Compute(g *core.MixedGraph, nodes []core.UnaryHandle, edges []core.BinaryHandle, opts MSTOptions) ([]core.BinaryHandle, error) {
	switch opts.Method {
	case MethodKruskal:
		return Kruskal(g, nodes, edges, opts.Less)
	case MethodPrim:
		return Prim(g, nodes, edges, opts.Root, opts.Less)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, opts.Method)
	}
}

// total returns a deterministic strict order: less first, handle on ties.
func (l Less) total() func(a, b core.BinaryHandle) bool {
	if l == nil {
		return func(a, b core.BinaryHandle) bool { return a < b }
	}

	return func(a, b core.BinaryHandle) bool {
		if l(a, b) {
			return true
		}
		if l(b, a) {
			return false
		}

		return a < b
	}
}

// resolve checks the handle sets and returns, for every binary, its endpoints.
func resolve(g *core.MixedGraph, nodes []core.UnaryHandle, edges []core.BinaryHandle) (map[core.UnaryHandle]bool, map[core.BinaryHandle][2]core.UnaryHandle, error) {
	if g == nil {
		return nil, nil, ErrInvalidGraph
	}
	in := make(map[core.UnaryHandle]bool, len(nodes))
	for _, u := range nodes {
		if !g.HasUnary(u) {
			return nil, nil, fmt.Errorf("%w: unary %d", ErrInvalidGraph, u)
		}
		in[u] = true
	}
	ends := make(map[core.BinaryHandle][2]core.UnaryHandle, len(edges))
	for _, b := range edges {
		e, err := g.Endpoints(b)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidGraph, err)
		}
		if !in[e[0]] || !in[e[1]] {
			return nil, nil, fmt.Errorf("%w: binary %d leaves the node set", ErrInvalidGraph, b)
		}
		ends[b] = e
	}

	return in, ends, nil
}
