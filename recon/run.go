// File: run.go
// Role: the whole-graph pipeline (Run) and the per-patch solve it schedules.
//
// Concurrency:
//   - Patches are independent copies; workers read the graph and write only
//     their own PatchResult slot.
//   - Session tables are touched only after every worker has returned.

package recon

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/lvdepth/config"
	"github.com/katalvlaran/lvdepth/optimizer"
	"github.com/katalvlaran/lvdepth/patch"
)

// refineMargin is the least mean-distance gain that keeps a refinement.
const refineMargin = 1e-12

// Run solves every patch of the session graph and merges the solved
// bindings into the session tables.
//
// Steps:
//  1. Validate cfg; decompose the graph over enabled binaries.
//  2. Per patch, on at most cfg.Workers goroutines:
//     a. check fixed regions joined by strong binaries for agreement;
//     b. skip patches whose unaries are all fixed;
//     c. Optimize with cfg's optimizer options;
//     d. if cfg.Refine, re-solve on the lowest-slack spanning tree and keep
//     it only when the mean binary distance over the whole patch drops;
//     e. compute diagnostics.
//  3. Merge solved patches in decomposition order.
//
// A failed patch leaves its bindings as they were. When ctx is done before
// every patch ran, the remaining ones are reported as cancelled and Run
// returns the partial result together with ctx.Err().
func (s *Session) Run(ctx context.Context, cfg config.Config, opts ...RunOption) (*Result, error) {
	if !s.valid() {
		return nil, fmt.Errorf("Run: %w", ErrNilSession)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	o := newRunOptions(opts...)
	start := time.Now()

	patches, err := patch.Decompose(s.Graph, s.Unaries, s.Binaries)
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	o.logger.Debug("graph decomposed",
		"unaries", s.Graph.UnaryCount(), "binaries", s.Graph.BinaryCount(), "patches", len(patches))

	res := &Result{Patches: make([]PatchResult, len(patches))}
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.Workers)
	for i := range patches {
		eg.Go(func() error {
			res.Patches[i] = s.solve(egctx, patches[i], cfg, o)
			return nil
		})
	}
	_ = eg.Wait() // workers report through their slot

	for i := range res.Patches {
		pr := &res.Patches[i]
		o.metrics.observe(pr)
		if pr.Outcome == OutcomeSolved {
			pr.solved.ApplyTo(s.Unaries, s.Binaries)
		}
	}
	o.logger.Info("run finished",
		"patches", len(patches),
		"solved", res.Count(OutcomeSolved),
		"failed", res.Count(OutcomeFailed),
		"skipped", res.Count(OutcomeSkipped),
		"elapsed", time.Since(start).Round(time.Millisecond))

	if n := res.Count(OutcomeCancelled); n > 0 {
		return res, fmt.Errorf("Run: %d patches cancelled: %w", n, ctx.Err())
	}

	return res, nil
}

// solve runs one patch and never returns an error of its own.
func (s *Session) solve(ctx context.Context, p patch.Patch, cfg config.Config, o runOptions) (pr PatchResult) {
	pr = PatchResult{
		ID:           p.ID,
		Unaries:      len(p.Unaries),
		Binaries:     len(p.Binaries),
		MeanDistance: math.NaN(),
		MeanDepth:    math.NaN(),
	}
	if err := ctx.Err(); err != nil {
		pr.Outcome, pr.Err = OutcomeCancelled, err
		return pr
	}
	start := time.Now()
	defer func() { pr.Duration = time.Since(start) }()

	fail := func(err error) PatchResult {
		pr.Outcome, pr.Err = OutcomeFailed, err
		o.logger.Warn("patch failed", "patch", p.ID, "unaries", pr.Unaries, "err", err)
		return pr
	}

	strong := optimizer.StrongBinary(s.Graph, cfg.KinkTolerance)
	if err := patch.CheckFixedConsistency(s.Graph, p, strong, cfg.FixedTolerance); err != nil {
		return fail(err)
	}
	if allFixed(p) {
		pr.Outcome = OutcomeSkipped
		o.logger.Debug("patch skipped", "patch", p.ID, "unaries", pr.Unaries)
		return pr
	}

	rep, err := optimizer.Optimize(s.Graph, &p, cfg.OptimizerOptions()...)
	if err != nil {
		return fail(err)
	}
	pr.Report = rep
	if cfg.Refine {
		if refined, pruned, ok := s.refine(p, cfg, o); ok {
			p, pr.Refined, pr.Pruned = refined, true, pruned
		}
	}
	pr.MeanDistance, pr.MeanDepth = s.diagnose(p, o)
	pr.Outcome, pr.solved = OutcomeSolved, p
	o.logger.Debug("patch solved",
		"patch", p.ID,
		"algorithm", rep.Algorithm,
		"equations", rep.Equations,
		"unknowns", rep.Variables,
		"residual", rep.Residual,
		"refined", pr.Refined)

	return pr
}

// refine re-solves p on the spanning tree of its lowest-slack binaries.
// The tree solution is kept only if it lowers the mean binary distance over
// all of p; binaries outside the tree are then disabled.
func (s *Session) refine(p patch.Patch, cfg config.Config, o runOptions) (patch.Patch, int, bool) {
	base, err := patch.AverageBinaryDistance(s.Graph, p)
	if err != nil {
		o.logger.Debug("refine skipped", "patch", p.ID, "err", err)
		return p, 0, false
	}
	tree, err := patch.MinimumSpanningTree(s.Graph, p, patch.BySlack(p))
	if err != nil {
		o.logger.Debug("refine skipped", "patch", p.ID, "err", err)
		return p, 0, false
	}
	if len(tree.Binaries) == len(p.Binaries) {
		return p, 0, false
	}
	if _, err := optimizer.Optimize(s.Graph, &tree, cfg.OptimizerOptions()...); err != nil {
		o.logger.Debug("refine failed", "patch", p.ID, "err", err)
		return p, 0, false
	}

	out := p.Clone()
	for uh, v := range tree.Unaries {
		out.Unaries[uh] = v.Clone()
	}
	dist, err := patch.AverageBinaryDistance(s.Graph, out)
	if err != nil || !(dist < base-refineMargin) {
		o.logger.Debug("refine rejected", "patch", p.ID, "before", base, "after", dist)
		return p, 0, false
	}

	pruned := 0
	for bh, bv := range out.Binaries {
		if tv, ok := tree.Binaries[bh]; ok {
			out.Binaries[bh] = tv
			continue
		}
		bv.Enabled = false
		out.Binaries[bh] = bv
		pruned++
	}

	return out, pruned, true
}

// diagnose returns the mean binary distance and mean center depth of p,
// NaN for a measure that cannot be computed.
func (s *Session) diagnose(p patch.Patch, o runOptions) (float64, float64) {
	dist, err := patch.AverageBinaryDistance(s.Graph, p)
	if err != nil {
		o.logger.Debug("distance unavailable", "patch", p.ID, "err", err)
		dist = math.NaN()
	}
	depth, err := patch.AverageCenterDepth(s.Graph, p)
	if err != nil {
		o.logger.Debug("depth unavailable", "patch", p.ID, "err", err)
		depth = math.NaN()
	}

	return dist, depth
}

func allFixed(p patch.Patch) bool {
	for _, v := range p.Unaries {
		if !v.Fixed {
			return false
		}
	}

	return true
}
