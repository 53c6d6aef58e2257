// Package prim_kruskal computes minimum spanning trees and forests over a
// handle subset of a core.MixedGraph: a set of unaries (nodes) and a set of
// binaries (edges) whose endpoints lie in that set.
//
// What & Why
//
//   - A patch that carries too many conflicting relations can be reduced to
//     a tree over its nodes: every node keeps exactly one path to every
//     other, so the depth system becomes exactly determined up to scale.
//   - Which relations survive is decided by a caller-supplied preference
//     order (Less), e.g. lowest residual slack first or highest weight first.
//
// Algorithms Provided
//
//   - Kruskal(g, nodes, edges, less) ([]core.BinaryHandle, error)
//     Stable-sort binaries by preference, accept those joining different
//     disjoint-set components. Disconnected input yields a spanning forest.
//     Complexity: O(E log E + α(V)·E).
//
//   - Prim(g, nodes, edges, root, less) ([]core.BinaryHandle, error)
//     Grow a single tree from root with a heap keyed by preference.
//     Disconnected input yields ErrDisconnected.
//     Complexity: O(E log E).
//
//   - Compute(g, nodes, edges, opts) dispatches on MSTOptions.Method.
//
// Determinism
//
//	Ties under Less are broken by ascending binary handle, so both algorithms
//	return the same set for the same input regardless of slice order.
//
// Error Conditions
//
//   - ErrInvalidGraph  nil graph, unknown handle, binary leaving the node set
//   - ErrRootNotFound  Prim root outside the node set
//   - ErrDisconnected  Prim could not reach every node
//   - ErrUnknownMethod Compute with an unknown Method
package prim_kruskal
