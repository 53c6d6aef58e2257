// Package lvdepth recovers scene depth from a mixed constraint graph of
// planar regions and line segments seen from one or more camera views.
//
// What is in the box?
//
//	• Geometry helpers over unit rays (golang/geo r3)
//	• Mixed graph: unaries (regions, lines), typed binaries, importance ratios
//	• Traversals and spanning trees over the mixed graph: BFS, Kruskal, Prim
//	• Patches: connected sub-graphs with owned bindings, decomposition, MST
//	• Optimizer: linear system assembly, weighted least squares and L1 LP
//	  backends (gonum)
//	• Builder: construction policy from scene observations, synthetic box
//	• Recon: concurrent per-patch pipeline with logging and Prometheus metrics
//
// Packages:
//
//	geom/         - unit-ray checks, ray/line depth, plane offsets, frames
//	core/         - MixedGraph arena, handles, depth models, variable tables
//	bfs/          - breadth-first traversal and connected components
//	prim_kruskal/ - minimum spanning trees over binaries
//	matrix/       - sparse triplet store and validators
//	patch/        - Patch, validators, Decompose/Split, diagnostics
//	optimizer/    - System, Solver backends, Optimize
//	builder/      - Scene → MixedGraph, BoxScene
//	config/       - TOML/YAML configuration
//	recon/        - Session, Run, RefineStar, Metrics
//	cmd/lvdepth   - command-line interface
//
// Quick flow:
//
//	scene ─BuildMixedGraph→ graph + tables ─Run→ per-patch Optimize → merged depths
//
//	go install github.com/katalvlaran/lvdepth/cmd/lvdepth@latest
package lvdepth
