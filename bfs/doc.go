// Package bfs provides breadth-first search over a core.MixedGraph,
// returning hop distances, parent links, visit order and connected components.
//
// What
//
//   - Explore unaries in non-decreasing distance (binary count) from a start unary.
//   - Returns a BFSResult containing:
//   - Order: visit sequence
//   - Depth: unary → distance from start
//   - Parent: unary → its predecessor in the BFS tree
//   - Via: unary → binary that reached it
//   - Restrict the walk with WithFilterBinary (e.g. "binary belongs to this
//     patch" or "binary is enabled") and WithFilterUnary.
//   - ConnectedComponents partitions the permitted unaries.
//
// Why
//
//   - Patch connectivity checks and patch decomposition are both
//     reachability questions over a filtered subset of relations.
//
// Determinism
//
//	Neighbors are returned by the graph in ascending binary handle order, and
//	component seeds ascend, so visit order and component order are reproducible.
//
// Complexity (V = |Unaries|, E = |Binaries|)
//
//   - Time:   O(V + E)
//   - Memory: O(V)
//
// Errors
//
//   - ErrGraphNil        graph pointer is nil
//   - ErrStartNotFound   start unary absent or filtered out
//   - ErrOptionViolation invalid option (e.g. negative MaxDepth)
//   - ErrNeighbors       neighbor lookup failed
//   - ErrUnreachable     PathTo on a unary the walk did not reach
package bfs
