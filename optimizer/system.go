// File: system.go
// Role: assembly of the linear system shared by every solver backend.
//
// Layout:
//   - One column block per variable owner (a non-fixed unary, or the smallest
//     member of a rigid component when SharedRigid is on), in ascending order.
//   - One row per (binary, necessary anchor): c1·x1 − c2·x2 = 0, with fixed
//     endpoints moved to the right-hand side.
//   - One scale row when nothing in the patch is fixed.
//   - Columns never touched by a row are dropped; their owners keep their
//     current values.
//
// Determinism:
//   - Owners, binaries and anchors are visited in ascending handle order.

package optimizer

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvdepth/bfs"
	"github.com/katalvlaran/lvdepth/core"
	"github.com/katalvlaran/lvdepth/matrix"
	"github.com/katalvlaran/lvdepth/patch"
)

// block is the column range (or constant value) behind one owner.
type block struct {
	offset int
	size   int
	fixed  bool
	value  []float64
}

// System is an assembled weighted system A·x ≈ b over the free variables of
// one patch, plus the inverse-depth floor rows used by the LP backend.
type System struct {
	a        *matrix.Sparse
	rhs      []float64
	weights  []float64
	rowOf    []core.BinaryHandle // -1 for the scale row
	scaleRow int

	floors   *matrix.Sparse
	floorRHS []float64

	x0 []float64

	owner  map[core.UnaryHandle]core.UnaryHandle
	blocks map[core.UnaryHandle]*block
	colOf  []int // full column -> compact column, or -1
}

// Equations returns the number of rows.
func (s *System) Equations() int { return s.a.Rows() }

// Unknowns returns the number of columns after compaction.
func (s *System) Unknowns() int { return s.a.Cols() }

// Matrix returns the unweighted coefficient matrix.
func (s *System) Matrix() *matrix.Sparse { return s.a }

// Dense returns the unweighted coefficient matrix as a gonum matrix.
func (s *System) Dense() (*mat.Dense, error) { return s.a.ToDense() }

// RHS returns a copy of the right-hand side.
func (s *System) RHS() []float64 { return append([]float64(nil), s.rhs...) }

// Weights returns a copy of the per-row weights.
func (s *System) Weights() []float64 { return append([]float64(nil), s.weights...) }

// ScaleRow returns the index of the scale row, or -1 when some unary is fixed.
func (s *System) ScaleRow() int { return s.scaleRow }

// RowBinary returns the binary behind row i, or -1 for the scale row.
func (s *System) RowBinary(i int) core.BinaryHandle { return s.rowOf[i] }

// Floors returns the rows F and bound f of the constraints F·x >= f.
// F has zero rows when no free unary touches a solved column.
func (s *System) Floors() (*matrix.Sparse, []float64) {
	return s.floors, append([]float64(nil), s.floorRHS...)
}

// Initial returns the current values of the unknowns.
func (s *System) Initial() []float64 { return append([]float64(nil), s.x0...) }

// Residuals returns A·x − b, unweighted.
func (s *System) Residuals(x []float64) ([]float64, error) {
	ax, err := s.a.MulVec(x)
	if err != nil {
		return nil, err
	}
	for i := range ax {
		ax[i] -= s.rhs[i]
	}

	return ax, nil
}

// Assemble builds the system for patch p.
//
// Steps:
//  1. Validate p against g.
//  2. Resolve owners: every unary owns itself, unless SharedRigid groups
//     regions joined by strong region-region binaries under their smallest
//     handle. A group with a fixed member takes that member's values; fixed
//     members that disagree beyond patch.DefaultFixedTolerance fail with
//     patch.ErrInconsistentFixed.
//  3. Number the free owners' parameters in ascending owner order.
//  4. Emit one row per necessary anchor of every enabled binary whose
//     endpoints have different owners and at least one free owner.
//  5. Add the scale row when no owner is fixed.
//  6. Drop unused columns; build floor rows over the kept ones.
//
// Errors: patch.ErrInvariantViolation, core errors for degenerate anchors or
// coefficients, and ErrOptimizationFailed when nothing is left to solve.
//
// Complexity: O(V + E·k) rows, k <= max anchors per binary.
func Assemble(g *core.MixedGraph, p *patch.Patch, opts Options) (*System, error) {
	if p == nil {
		return nil, fmt.Errorf("Assemble: nil patch: %w", patch.ErrInvariantViolation)
	}
	if err := patch.Validate(g, *p); err != nil {
		return nil, fmt.Errorf("Assemble: %w", err)
	}
	vps := g.VanishingPoints()

	owner, err := owners(g, p, opts)
	if err != nil {
		return nil, fmt.Errorf("Assemble: %w", err)
	}
	blocks, cols, anyFixed, err := numberBlocks(g, p, owner)
	if err != nil {
		return nil, fmt.Errorf("Assemble: %w", err)
	}
	if cols == 0 {
		return nil, fmt.Errorf("Assemble: no free variables: %w", ErrOptimizationFailed)
	}

	full, err := matrix.NewSparse(cols)
	if err != nil {
		return nil, fmt.Errorf("Assemble: %w", err)
	}
	s := &System{scaleRow: -1, owner: owner, blocks: blocks}

	for _, bh := range p.BinaryHandles() {
		bv := p.Binaries[bh]
		if !bv.Enabled {
			continue
		}
		ends, err := g.Endpoints(bh)
		if err != nil {
			return nil, fmt.Errorf("Assemble: %w", err)
		}
		o1, o2 := owner[ends[0]], owner[ends[1]]
		if o1 == o2 || (blocks[o1].fixed && blocks[o2].fixed) {
			continue
		}
		anchors, err := NecessaryAnchors(g, bh, opts.KinkTolerance)
		if err != nil {
			return nil, fmt.Errorf("Assemble: %w", err)
		}
		w := 1.0
		if opts.UseWeights {
			b, _ := g.BinaryAt(bh)
			w = b.Weight
		}
		for _, a := range anchors {
			row := full.AppendRow()
			rhs := 0.0
			for side, uh := range ends {
				sign := 1.0
				if side == 1 {
					sign = -1
				}
				c, err := coefficients(g, p, uh, a, vps)
				if err != nil {
					return nil, fmt.Errorf("Assemble: binary %d: %w", bh, err)
				}
				if err := place(full, row, blocks[owner[uh]], c, sign, &rhs); err != nil {
					return nil, fmt.Errorf("Assemble: %w", err)
				}
			}
			s.rhs = append(s.rhs, rhs)
			s.weights = append(s.weights, w)
			s.rowOf = append(s.rowOf, bh)
		}
	}

	if !anyFixed {
		u0 := p.UnaryHandles()[0]
		un, _ := g.UnaryAt(u0)
		c, err := coefficients(g, p, u0, un.NormalizedCenter, vps)
		if err != nil {
			return nil, fmt.Errorf("Assemble: scale anchor: %w", err)
		}
		row := full.AppendRow()
		rhs := 1.0
		if err := place(full, row, blocks[owner[u0]], c, 1, &rhs); err != nil {
			return nil, fmt.Errorf("Assemble: %w", err)
		}
		s.scaleRow = row
		s.rhs = append(s.rhs, rhs)
		s.weights = append(s.weights, 1)
		s.rowOf = append(s.rowOf, -1)
	}

	if full.Rows() == 0 {
		return nil, fmt.Errorf("Assemble: no equations: %w", ErrOptimizationFailed)
	}

	// compaction
	used := full.ColumnUsed()
	s.colOf = make([]int, cols)
	var keep []int
	for j, ok := range used {
		s.colOf[j] = -1
		if ok {
			s.colOf[j] = len(keep)
			keep = append(keep, j)
		}
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("Assemble: all coefficients vanish: %w", ErrOptimizationFailed)
	}
	if s.a, err = full.SelectColumns(keep); err != nil {
		return nil, fmt.Errorf("Assemble: %w", err)
	}

	s.x0 = make([]float64, len(keep))
	for _, blk := range blocks {
		if blk.fixed {
			continue
		}
		for k := 0; k < blk.size; k++ {
			if c := s.colOf[blk.offset+k]; c >= 0 {
				s.x0[c] = blk.value[k]
			}
		}
	}

	if err := s.buildFloors(g, p, vps, opts.LPInverseDepthFloor); err != nil {
		return nil, fmt.Errorf("Assemble: %w", err)
	}

	return s, nil
}

// buildFloors adds one row per free unary whose owner columns survived compaction.
func (s *System) buildFloors(g *core.MixedGraph, p *patch.Patch, vps []r3.Vector, floor float64) error {
	fl, err := matrix.NewSparse(s.a.Cols())
	if err != nil {
		return err
	}
	for _, uh := range p.UnaryHandles() {
		blk := s.blocks[s.owner[uh]]
		if blk.fixed {
			continue
		}
		un, _ := g.UnaryAt(uh)
		c, err := coefficients(g, p, uh, un.NormalizedCenter, vps)
		if err != nil {
			return err
		}
		row := -1
		for k, v := range c {
			col := s.colOf[blk.offset+k]
			if col < 0 || v == 0 {
				continue
			}
			if row < 0 {
				row = fl.AppendRow()
			}
			if err := fl.Add(row, col, v); err != nil {
				return err
			}
		}
		if row >= 0 {
			s.floorRHS = append(s.floorRHS, floor)
		}
	}
	s.floors = fl

	return nil
}

// Apply writes solution x back into p: free unaries take their owner's
// solved columns, members of a fixed rigid group take the group value, and
// every binary gets the mean absolute residual of its rows as slack.
// On error p is left unchanged.
func (s *System) Apply(p *patch.Patch, x []float64) (float64, error) {
	if len(x) != s.Unknowns() {
		return 0, fmt.Errorf("Apply: %d values for %d unknowns: %w", len(x), s.Unknowns(), ErrOptimizationFailed)
	}
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("Apply: non-finite solution: %w", ErrOptimizationFailed)
		}
	}
	res, err := s.Residuals(x)
	if err != nil {
		return 0, fmt.Errorf("Apply: %v: %w", err, ErrOptimizationFailed)
	}

	sums := make(map[core.BinaryHandle]float64)
	counts := make(map[core.BinaryHandle]int)
	total := 0.0
	for i, r := range res {
		total += s.weights[i] * r * s.weights[i] * r
		if bh := s.rowOf[i]; bh >= 0 {
			sums[bh] += math.Abs(r)
			counts[bh]++
		}
	}

	for uh, uv := range p.Unaries {
		if uv.Fixed {
			continue
		}
		blk := s.blocks[s.owner[uh]]
		vals := append([]float64(nil), uv.Variables...)
		if blk.fixed {
			copy(vals, blk.value)
		} else {
			for k := 0; k < blk.size; k++ {
				if c := s.colOf[blk.offset+k]; c >= 0 {
					vals[k] = x[c]
				}
			}
		}
		p.Unaries[uh] = core.UnaryVariable{Variables: vals}
	}
	for bh, bv := range p.Binaries {
		if n := counts[bh]; n > 0 {
			bv.Slack = sums[bh] / float64(n)
		} else {
			bv.Slack = 0
		}
		p.Binaries[bh] = bv
	}

	return math.Sqrt(total), nil
}

// coefficients evaluates uh's depth-model coefficients along dir.
func coefficients(g *core.MixedGraph, p *patch.Patch, uh core.UnaryHandle, dir r3.Vector, vps []r3.Vector) ([]float64, error) {
	un, err := g.UnaryAt(uh)
	if err != nil {
		return nil, err
	}

	return p.Unaries[uh].Coefficients(dir, un, vps)
}

// place adds sign·c into row at blk's columns, or moves it to the right-hand
// side when blk is fixed.
func place(a *matrix.Sparse, row int, blk *block, c []float64, sign float64, rhs *float64) error {
	if len(c) != blk.size {
		return fmt.Errorf("place: %d coefficients for %d parameters: %w", len(c), blk.size, core.ErrKindMismatch)
	}
	for k, v := range c {
		if blk.fixed {
			*rhs -= sign * v * blk.value[k]
			continue
		}
		if err := a.Add(row, blk.offset+k, sign*v); err != nil {
			return err
		}
	}

	return nil
}

// owners maps every unary of p to the unary whose variables it uses.
func owners(g *core.MixedGraph, p *patch.Patch, opts Options) (map[core.UnaryHandle]core.UnaryHandle, error) {
	owner := make(map[core.UnaryHandle]core.UnaryHandle, len(p.Unaries))
	for uh := range p.Unaries {
		owner[uh] = uh
	}
	if !opts.SharedRigid {
		return owner, nil
	}

	strong := StrongBinary(g, opts.KinkTolerance)
	comps, err := bfs.ConnectedComponents(g,
		bfs.WithFilterUnary(func(u core.UnaryHandle) bool {
			un, err := g.UnaryAt(u)
			_, in := p.Unaries[u]
			return in && err == nil && un.Kind == core.Region
		}),
		bfs.WithFilterBinary(func(bh core.BinaryHandle) bool {
			bv, in := p.Binaries[bh]
			if !in || !bv.Enabled {
				return false
			}
			b, err := g.BinaryAt(bh)
			if err != nil || (b.Type != core.RegionRegionConnection && b.Type != core.RegionRegionOverlapping) {
				return false
			}
			return strong(bh)
		}),
	)
	if err != nil {
		return nil, err
	}
	for _, comp := range comps {
		for _, uh := range comp {
			owner[uh] = comp[0]
		}
	}

	return owner, nil
}

// numberBlocks assigns column ranges to free owners in ascending order and
// resolves the value of fixed owners. A free owner's block starts from the
// owner's own binding.
func numberBlocks(g *core.MixedGraph, p *patch.Patch, owner map[core.UnaryHandle]core.UnaryHandle) (map[core.UnaryHandle]*block, int, bool, error) {
	blocks := make(map[core.UnaryHandle]*block)
	hs := p.UnaryHandles()

	for _, uh := range hs {
		o := owner[uh]
		uv := p.Unaries[uh]
		blk, ok := blocks[o]
		if !ok {
			un, err := g.UnaryAt(uh)
			if err != nil {
				return nil, 0, false, err
			}
			blk = &block{size: core.ParamCount(un.Kind), value: make([]float64, core.ParamCount(un.Kind))}
			blocks[o] = blk
		}
		if len(uv.Variables) != blk.size {
			return nil, 0, false, fmt.Errorf("unary %d has %d variables, want %d: %w", uh, len(uv.Variables), blk.size, core.ErrKindMismatch)
		}
		if !uv.Fixed {
			continue
		}
		if !blk.fixed {
			blk.fixed = true
			copy(blk.value, uv.Variables)
			continue
		}
		for k, v := range uv.Variables {
			if math.Abs(v-blk.value[k]) > patch.DefaultFixedTolerance {
				return nil, 0, false, fmt.Errorf("unary %d disagrees with fixed unary %d: %w", uh, o, patch.ErrInconsistentFixed)
			}
		}
	}

	cols, anyFixed := 0, false
	for _, uh := range hs {
		if owner[uh] != uh {
			continue
		}
		blk := blocks[uh]
		if blk.fixed {
			anyFixed = true
			continue
		}
		copy(blk.value, p.Unaries[uh].Variables)
		blk.offset = cols
		cols += blk.size
	}

	return blocks, cols, anyFixed, nil
}
