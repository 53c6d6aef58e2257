// Package recon runs depth recovery over a whole mixed graph.
//
// A Session owns the graph built from a scene and the session-wide variable
// tables. Run decomposes the graph into independent patches, solves them on
// a bounded worker pool and merges the solved bindings back:
//
//	Decompose → per patch: consistency check → Optimize → (refine) → diagnostics
//	          → merge solved patches into the session tables
//
// Patch failures are recorded per patch and never abort the run. Only an
// invalid configuration, a broken graph or context cancellation make Run
// return an error.
//
// Logging goes through charmbracelet/log; counters and histograms are
// exported through an optional Prometheus registry (see NewMetrics).
package recon

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/lvdepth/builder"
	"github.com/katalvlaran/lvdepth/core"
	"github.com/katalvlaran/lvdepth/optimizer"
	"github.com/katalvlaran/lvdepth/patch"
)

var (
	// ErrNilSession indicates a session without a graph or tables.
	ErrNilSession = errors.New("recon: nil session")

	// ErrNothingToSolve indicates a local refinement around a fixed unary or
	// a unary without enabled binaries.
	ErrNothingToSolve = errors.New("recon: nothing to solve")
)

// Session holds one graph and its session-wide bindings.
// A Session is not safe for concurrent Run or RefineStar calls.
type Session struct {
	Graph    *core.MixedGraph
	Unaries  core.UnaryVarTable
	Binaries core.BinaryVarTable
}

// NewSession wraps the output of builder.BuildMixedGraph.
func NewSession(res *builder.Result) (*Session, error) {
	if res == nil || res.Graph == nil || res.Unaries == nil || res.Binaries == nil {
		return nil, fmt.Errorf("NewSession: %w", ErrNilSession)
	}

	return &Session{Graph: res.Graph, Unaries: res.Unaries, Binaries: res.Binaries}, nil
}

func (s *Session) valid() bool {
	return s != nil && s.Graph != nil && s.Unaries != nil && s.Binaries != nil
}

// Outcome classifies what happened to one patch.
type Outcome string

const (
	OutcomeSolved    Outcome = "solved"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"   // every unary fixed
	OutcomeCancelled Outcome = "cancelled" // context done before the solve
)

// PatchResult describes one patch of a run.
type PatchResult struct {
	ID       uuid.UUID
	Unaries  int
	Binaries int
	Outcome  Outcome
	Report   optimizer.Report
	Refined  bool // the spanning-tree refinement was kept
	Pruned   int  // binaries disabled by the kept refinement
	Err      error
	Duration time.Duration

	// Diagnostics over the solved bindings; NaN when they could not be computed.
	MeanDistance float64
	MeanDepth    float64

	solved patch.Patch
}

// Result lists every patch of a run in decomposition order.
type Result struct {
	Patches []PatchResult
}

// Count returns the number of patches with outcome o.
func (r *Result) Count(o Outcome) int {
	n := 0
	for i := range r.Patches {
		if r.Patches[i].Outcome == o {
			n++
		}
	}

	return n
}

// Failures joins the errors of every failed patch, or returns nil.
func (r *Result) Failures() error {
	var errs []error
	for i := range r.Patches {
		if r.Patches[i].Outcome == OutcomeFailed {
			errs = append(errs, fmt.Errorf("patch %s: %w", r.Patches[i].ID, r.Patches[i].Err))
		}
	}

	return errors.Join(errs...)
}
