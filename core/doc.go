// Package core provides the mixed constraint graph used for depth recovery,
// with a minimal, composable API surface.
//
// The graph G = (U, B) holds two element families:
//
//   - Unaries: planar regions and line segments, each a bundle of unit rays
//     from the camera center (contour or endpoint rays plus a center ray).
//   - Binaries: relations between exactly two unaries, typed by RelationType,
//     carrying the anchor rays along which both must agree in depth and a
//     non-negative weight.
//
// Why an arena?
//
//   - Handles are dense ints, so patches copy handles and small value bindings
//     instead of holding pointers into the graph.
//   - Incidence (unary → binaries) and endpoints (binary → unaries) are kept
//     beside the data; there is no cyclic ownership.
//   - Iteration order is insertion order, which keeps every downstream
//     algorithm deterministic.
//
// Configuration Options (GraphOption):
//
//	– WithUnitTolerance(tol float64)
//	    Accepted deviation of |direction| from 1 (default geom.UnitTolerance).
//
//	– WithCapacity(unaries, binaries int)
//	    Preallocates arena storage.
//
// Core Methods:
//
//	// Construction
//	NewMixedGraph(vps, opts...) (*MixedGraph, error)            // O(|vps|)
//	AddUnary(u Unary) (UnaryHandle, error)                      // O(1)†
//	AddBinary(u1, u2 UnaryHandle, b Binary) (BinaryHandle, error) // O(1)†
//	ComputeImportanceRatios() error                             // O(V+E)
//
//	// Query
//	UnaryAt(h) / BinaryAt(h)            // O(1), read-only pointers
//	Endpoints(b) / Opposite(b, u)       // O(1)
//	Neighbors(u) / NeighborUnaries(u)   // O(deg u)
//	Unaries() / Binaries()              // O(V) / O(E), ascending
//
//	// Depth models
//	UnaryVariable.Coefficients(dir, u, vps)   // closed form
//	UnaryVariable.InverseDepthAt(dir, u, vps)
//	UnaryVariable.DepthAtCenter(u, vps)
//	NewVariableTables(g)                      // default bindings
//
// Errors:
//
//	ErrNotUnit, ErrBadClass, ErrUnaryNotFound, ErrBinaryNotFound,
//	ErrLoopNotAllowed, ErrBadWeight, ErrTooFewAnchors, ErrKindMismatch,
//	ErrDegenerateGeometry, ErrInvariantViolation
//
// † amortized: slice append.
package core
