// Package geom provides the small set of ray geometry helpers the constraint
// graph needs: unit directions from the camera center, closest points between a
// viewing ray and an infinite 3D line, and orthonormal frames.
//
// All directions are r3.Vector values. Functions never panic on degenerate
// input; they return ErrZeroVector or ErrParallel instead so that callers can
// turn numeric degeneracy into a recoverable failure.
package geom

import (
	"errors"
	"math"

	"github.com/golang/geo/r3"
)

// UnitTolerance is the accepted deviation of |v| from 1 for stored directions.
const UnitTolerance = 1e-6

// degenerateEps guards divisions by squared norms and cross-product lengths.
const degenerateEps = 1e-12

var (
	// ErrZeroVector indicates a vector too short (or non-finite) to normalize.
	ErrZeroVector = errors.New("geom: zero or non-finite vector")

	// ErrParallel indicates two lines are parallel, so no unique closest points exist.
	ErrParallel = errors.New("geom: lines are parallel")
)

// IsFinite reports whether every component of v is a finite number.
func IsFinite(v r3.Vector) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}

// IsUnit reports whether v is finite and |v| is within tol of 1.
func IsUnit(v r3.Vector, tol float64) bool {
	return IsFinite(v) && math.Abs(v.Norm()-1) <= tol
}

// Normalize returns v/|v|, or ErrZeroVector when v cannot be normalized.
func Normalize(v r3.Vector) (r3.Vector, error) {
	if !IsFinite(v) {
		return r3.Vector{}, ErrZeroVector
	}
	n := v.Norm()
	if n < degenerateEps {
		return r3.Vector{}, ErrZeroVector
	}

	return v.Mul(1 / n), nil
}

// MustNormalize is Normalize for literals known to be non-zero (tests, fixtures).
// It panics on a zero vector.
func MustNormalize(v r3.Vector) r3.Vector {
	u, err := Normalize(v)
	if err != nil {
		panic(err)
	}

	return u
}

// ClosestPoints returns the parameters s and t of the closest points
// p1+s·d1 and p2+t·d2 between two infinite lines.
//
// Steps:
//  1. w0 = p1 − p2, a = d1·d1, b = d1·d2, c = d2·d2, d = d1·w0, e = d2·w0.
//  2. denom = a·c − b²; a (near) zero denom means the lines are parallel.
//  3. s = (b·e − c·d)/denom, t = (a·e − b·d)/denom.
//
// Complexity: O(1).
func ClosestPoints(p1, d1, p2, d2 r3.Vector) (s, t float64, err error) {
	w0 := p1.Sub(p2)
	a := d1.Dot(d1)
	b := d1.Dot(d2)
	c := d2.Dot(d2)
	d := d1.Dot(w0)
	e := d2.Dot(w0)
	denom := a*c - b*b
	if a < degenerateEps || c < degenerateEps || math.Abs(denom) < degenerateEps*a*c {
		return 0, 0, ErrParallel
	}
	s = (b*e - c*d) / denom
	t = (a*e - b*d) / denom

	return s, t, nil
}

// RayDepthToLine returns the distance from the origin, along the unit ray dir,
// to the point of the ray closest to the line through point with direction
// lineDir. For a line lying at unit depth along its own center ray this is the
// depth ratio between dir and the center.
func RayDepthToLine(dir, point, lineDir r3.Vector) (float64, error) {
	s, _, err := ClosestPoints(r3.Vector{}, dir, point, lineDir)
	if err != nil {
		return 0, err
	}

	return dir.Mul(s).Norm(), nil
}

// OrthonormalFrame proposes two unit directions x, y so that (x, y, ẑ) is a
// right-handed orthonormal frame, where ẑ is z normalized.
func OrthonormalFrame(z r3.Vector) (x, y r3.Vector, err error) {
	zn, err := Normalize(z)
	if err != nil {
		return r3.Vector{}, r3.Vector{}, err
	}
	// pick the world axis least aligned with z to avoid a short cross product
	helper := r3.Vector{X: 1}
	if math.Abs(zn.X) > math.Abs(zn.Y) {
		helper = r3.Vector{Y: 1}
	}
	if x, err = Normalize(helper.Cross(zn)); err != nil {
		return r3.Vector{}, r3.Vector{}, err
	}
	y = zn.Cross(x)

	return x, y, nil
}

// UndirectedAngle returns the angle in [0, π/2] between the lines spanned by a and b.
func UndirectedAngle(a, b r3.Vector) float64 {
	ang := float64(a.Angle(b))
	if ang > math.Pi/2 {
		ang = math.Pi - ang
	}

	return ang
}

// PlaneOffset returns |n·p| where n is the unit normal of the plane through
// the origin spanned by a and b. It measures how far p leaves that plane.
func PlaneOffset(a, b, p r3.Vector) (float64, error) {
	n, err := Normalize(a.Cross(b))
	if err != nil {
		return 0, err
	}

	return math.Abs(n.Dot(p)), nil
}
