package recon

import (
	"fmt"

	"github.com/katalvlaran/lvdepth/config"
	"github.com/katalvlaran/lvdepth/core"
	"github.com/katalvlaran/lvdepth/optimizer"
	"github.com/katalvlaran/lvdepth/patch"
)

// RefineStar re-solves unary u alone against its current neighbours.
//
// The star patch of u (u, its incident binaries, their opposite unaries) is
// solved with every neighbour held fixed. Only u's variables and the slacks
// of its incident binaries are written back to the session.
//
// Errors:
//   - ErrNothingToSolve when u is fixed or has no enabled binary.
//   - core.ErrUnaryNotFound, config.ErrInvalid, or any Optimize error.
func (s *Session) RefineStar(u core.UnaryHandle, cfg config.Config, opts ...RunOption) (optimizer.Report, error) {
	if !s.valid() {
		return optimizer.Report{}, fmt.Errorf("RefineStar: %w", ErrNilSession)
	}
	if err := cfg.Validate(); err != nil {
		return optimizer.Report{}, fmt.Errorf("RefineStar: %w", err)
	}
	o := newRunOptions(opts...)

	star, err := patch.Star(s.Graph, u, s.Unaries, s.Binaries)
	if err != nil {
		return optimizer.Report{}, fmt.Errorf("RefineStar: %w", err)
	}
	if star.Unaries[u].Fixed {
		return optimizer.Report{}, fmt.Errorf("RefineStar: unary %d is fixed: %w", u, ErrNothingToSolve)
	}
	enabled := 0
	for _, bv := range star.Binaries {
		if bv.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return optimizer.Report{}, fmt.Errorf("RefineStar: unary %d: %w", u, ErrNothingToSolve)
	}
	for uh, v := range star.Unaries {
		if uh != u {
			v.Fixed = true
			star.Unaries[uh] = v
		}
	}

	rep, err := optimizer.Optimize(s.Graph, &star, cfg.OptimizerOptions()...)
	if err != nil {
		return optimizer.Report{}, fmt.Errorf("RefineStar: %w", err)
	}
	s.Unaries[u] = star.Unaries[u].Clone()
	for bh, bv := range star.Binaries {
		s.Binaries[bh] = bv
	}
	o.logger.Debug("star refined", "unary", u, "binaries", len(star.Binaries), "residual", rep.Residual)

	return rep, nil
}
