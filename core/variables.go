// File: variables.go
// Role: depth-model bindings attached to unaries (UnaryVariable) and binaries
//       (BinaryVariable), their tables, and default initialization.
//
// Depth models (closed form, no iteration):
//   - Region: Variables = (a, b, c), the plane a·x + b·y + c·z = 1 seen from the
//     camera center, so 1/depth along a unit ray d is a·dx + b·dy + c·dz.
//   - Line:   Variables = (x), the inverse depth at the line's center ray. The
//     line runs through center/x along its vanishing direction, and the depth
//     along a ray d is depthAtCenter × ratio(d), where ratio(d) is the depth at
//     which d meets the line placed at unit center depth. Hence
//     1/depth(d) = x / ratio(d).

package core

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/katalvlaran/lvdepth/geom"
)

// UnaryVariable binds a depth model to one unary.
// Fixed variables are known constants and are never solved for.
type UnaryVariable struct {
	Variables []float64
	Fixed     bool
}

// BinaryVariable is the per-binary solve state.
// Slack is the mean absolute residual of the binary's equations after the last solve.
type BinaryVariable struct {
	Enabled bool
	Slack   float64
}

// UnaryVarTable maps unary handles to their bindings.
type UnaryVarTable map[UnaryHandle]UnaryVariable

// BinaryVarTable maps binary handles to their solve state.
type BinaryVarTable map[BinaryHandle]BinaryVariable

// ParamCount returns the number of depth parameters of kind k.
func ParamCount(k UnaryKind) int {
	switch k {
	case Region:
		return 3
	case Line:
		return 1
	default:
		return 0
	}
}

// Clone returns a deep copy of v.
func (v UnaryVariable) Clone() UnaryVariable {
	return UnaryVariable{Variables: append([]float64(nil), v.Variables...), Fixed: v.Fixed}
}

// Coefficients returns ∂(1/depth)/∂Variables along dir for unary u.
// Because both depth models are linear in their variables, 1/depth(dir) is
// exactly Coefficients(dir)·Variables.
//
// Errors:
//   - ErrDegenerateGeometry when the ray is parallel to a line, the ratio is
//     not positive, or the variable size does not match the kind.
func (v UnaryVariable) Coefficients(dir r3.Vector, u *Unary, vps []r3.Vector) ([]float64, error) {
	if len(v.Variables) != ParamCount(u.Kind) {
		return nil, fmt.Errorf("Coefficients: %v with %d variables: %w", u.Kind, len(v.Variables), ErrDegenerateGeometry)
	}
	switch u.Kind {
	case Region:
		return []float64{dir.X, dir.Y, dir.Z}, nil
	case Line:
		ratio, err := lineDepthRatio(dir, u, vps)
		if err != nil {
			return nil, err
		}
		return []float64{1 / ratio}, nil
	default:
		return nil, fmt.Errorf("Coefficients: %v: %w", u.Kind, ErrKindMismatch)
	}
}

// InverseDepthAt returns 1/depth of unary u along the unit ray dir.
func (v UnaryVariable) InverseDepthAt(dir r3.Vector, u *Unary, vps []r3.Vector) (float64, error) {
	coeffs, err := v.Coefficients(dir, u, vps)
	if err != nil {
		return 0, err
	}
	inv := 0.0
	for i, c := range coeffs {
		inv += c * v.Variables[i]
	}

	return inv, nil
}

// DepthAtCenter returns the depth of u along its center ray.
// A zero inverse depth (primitive at infinity) yields ErrDegenerateGeometry.
func (v UnaryVariable) DepthAtCenter(u *Unary, vps []r3.Vector) (float64, error) {
	inv, err := v.InverseDepthAt(u.NormalizedCenter, u, vps)
	if err != nil {
		return 0, err
	}
	if inv == 0 || math.IsNaN(inv) || math.IsInf(inv, 0) {
		return 0, fmt.Errorf("DepthAtCenter: inverse depth %v: %w", inv, ErrDegenerateGeometry)
	}

	return 1 / inv, nil
}

// Plane returns the unit normal n and distance d of the region plane
// {p : n·p = d}. Only valid for region variables.
func (v UnaryVariable) Plane() (r3.Vector, float64, error) {
	if len(v.Variables) != 3 {
		return r3.Vector{}, 0, fmt.Errorf("Plane: %d variables: %w", len(v.Variables), ErrKindMismatch)
	}
	abc := r3.Vector{X: v.Variables[0], Y: v.Variables[1], Z: v.Variables[2]}
	n := abc.Norm()
	if n == 0 || !geom.IsFinite(abc) {
		return r3.Vector{}, 0, fmt.Errorf("Plane: %w", ErrDegenerateGeometry)
	}

	return abc.Mul(1 / n), 1 / n, nil
}

// LineEndpoints returns the 3D segment a line variable encodes: the points
// where the endpoint rays of u meet the infinite line through the scaled center.
func (v UnaryVariable) LineEndpoints(u *Unary, vps []r3.Vector) (r3.Vector, r3.Vector, error) {
	if u.Kind != Line || len(v.Variables) != 1 || len(u.NormalizedCorners) != 2 {
		return r3.Vector{}, r3.Vector{}, fmt.Errorf("LineEndpoints: %w", ErrKindMismatch)
	}
	if v.Variables[0] == 0 {
		return r3.Vector{}, r3.Vector{}, fmt.Errorf("LineEndpoints: line at infinity: %w", ErrDegenerateGeometry)
	}
	center := u.NormalizedCenter.Mul(1 / v.Variables[0])
	var ends [2]r3.Vector
	for i, c := range u.NormalizedCorners {
		d, err := geom.RayDepthToLine(c, center, vps[u.Class])
		if err != nil {
			return r3.Vector{}, r3.Vector{}, fmt.Errorf("LineEndpoints: %w", ErrDegenerateGeometry)
		}
		ends[i] = c.Mul(d)
	}

	return ends[0], ends[1], nil
}

// lineDepthRatio returns the depth along dir of the line through u's center
// ray at unit depth, parallel to its vanishing direction.
func lineDepthRatio(dir r3.Vector, u *Unary, vps []r3.Vector) (float64, error) {
	if u.Class < 0 || u.Class >= len(vps) {
		return 0, fmt.Errorf("lineDepthRatio: class %d: %w", u.Class, ErrBadClass)
	}
	ratio, err := geom.RayDepthToLine(dir, u.NormalizedCenter, vps[u.Class])
	if err != nil || ratio < 1e-12 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 0, fmt.Errorf("lineDepthRatio: ray %v: %w", dir, ErrDegenerateGeometry)
	}

	return ratio, nil
}

// NewVariableTables returns default bindings for every element of g.
//
// Regions start as the plane facing the vanishing direction closest (as an
// undirected line) to their center ray, signed toward the camera so that the
// center has positive inverse depth. Lines start at unit center depth. All
// binaries start enabled. Nothing is fixed.
//
// Complexity: O(V·|vps| + E).
func NewVariableTables(g *MixedGraph) (UnaryVarTable, BinaryVarTable) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	uvars := make(UnaryVarTable, len(g.unaries))
	for i := range g.unaries {
		u := &g.unaries[i]
		switch u.Kind {
		case Region:
			uvars[UnaryHandle(i)] = UnaryVariable{Variables: initialPlane(u.NormalizedCenter, g.vps)}
		case Line:
			uvars[UnaryHandle(i)] = UnaryVariable{Variables: []float64{1}}
		}
	}
	bvars := make(BinaryVarTable, len(g.binaries))
	for i := range g.binaries {
		bvars[BinaryHandle(i)] = BinaryVariable{Enabled: true}
	}

	return uvars, bvars
}

// initialPlane orients a region toward the closest vanishing direction.
// Without vanishing directions the region faces its own center ray.
func initialPlane(center r3.Vector, vps []r3.Vector) []float64 {
	if len(vps) == 0 {
		return []float64{center.X, center.Y, center.Z}
	}
	best := 0
	for i := 1; i < len(vps); i++ {
		if geom.UndirectedAngle(center, vps[i]) < geom.UndirectedAngle(center, vps[best]) {
			best = i
		}
	}
	n := vps[best]
	if center.Dot(n) < 0 {
		n = n.Mul(-1)
	}

	return []float64{n.X, n.Y, n.Z}
}
