// Package patch provides sub-graph views over a core.MixedGraph that can be
// optimized independently: validators for the two patch invariants, patch
// constructors (single binary, star, decomposition, split), the spanning-tree
// reducer, and pure diagnostics over solved bindings.
//
// A Patch owns copies of the bindings it holds. Mutating a patch never touches
// the graph or the tables it was copied from, so several patches can be solved
// concurrently over one read-only graph.
//
// Invariants:
//
//	A (edges valid)     every binary in Binaries has both endpoints in Unaries.
//	B (nodes connected) Unaries form one component through the binaries in Binaries.
//
// Every patch-producing function checks both on its result and returns
// ErrInvariantViolation instead of a broken patch.
//
// Errors:
//
//	ErrInvariantViolation - a patch precondition or postcondition failed.
//	ErrMissingBinding     - a handle has no entry in the supplied tables.
//	ErrInconsistentFixed  - fixed bindings disagree inside a rigid component.
package patch

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/katalvlaran/lvdepth/core"
)

// Sentinel errors for patch operations.
var (
	// ErrInvariantViolation indicates a patch that breaks invariant A or B,
	// or an operation called on such a patch.
	ErrInvariantViolation = errors.New("patch: invariant violation")

	// ErrMissingBinding indicates a handle without a binding in the given tables.
	ErrMissingBinding = errors.New("patch: missing binding")

	// ErrInconsistentFixed indicates fixed bindings that disagree within a rigid component.
	ErrInconsistentFixed = errors.New("patch: inconsistent fixed bindings")
)

// Patch is a named sub-graph with owned variable bindings.
type Patch struct {
	ID       uuid.UUID
	Unaries  core.UnaryVarTable
	Binaries core.BinaryVarTable
}

// newPatch returns an empty patch with a fresh ID.
func newPatch(nu, nb int) Patch {
	return Patch{
		ID:       uuid.New(),
		Unaries:  make(core.UnaryVarTable, nu),
		Binaries: make(core.BinaryVarTable, nb),
	}
}

// Clone returns a deep copy of p with the same ID.
func (p Patch) Clone() Patch {
	c := Patch{
		ID:       p.ID,
		Unaries:  make(core.UnaryVarTable, len(p.Unaries)),
		Binaries: make(core.BinaryVarTable, len(p.Binaries)),
	}
	for h, v := range p.Unaries {
		c.Unaries[h] = v.Clone()
	}
	for h, v := range p.Binaries {
		c.Binaries[h] = v
	}

	return c
}

// UnaryHandles returns the unary handles of p, ascending.
func (p Patch) UnaryHandles() []core.UnaryHandle {
	hs := make([]core.UnaryHandle, 0, len(p.Unaries))
	for h := range p.Unaries {
		hs = append(hs, h)
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })

	return hs
}

// BinaryHandles returns the binary handles of p, ascending.
func (p Patch) BinaryHandles() []core.BinaryHandle {
	hs := make([]core.BinaryHandle, 0, len(p.Binaries))
	for h := range p.Binaries {
		hs = append(hs, h)
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })

	return hs
}

// ApplyTo copies p's bindings into the session tables, overwriting entries
// with the same handles.
func (p Patch) ApplyTo(uvars core.UnaryVarTable, bvars core.BinaryVarTable) {
	for h, v := range p.Unaries {
		uvars[h] = v.Clone()
	}
	for h, v := range p.Binaries {
		bvars[h] = v
	}
}
