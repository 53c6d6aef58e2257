// SPDX-License-Identifier: MIT
// Package: lvdepth/builder
//
// options.go - functional options for BuildMixedGraph.
//
// Contract:
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     BuildMixedGraph itself never panics.
//   • Callers holding untrusted values (config files) validate first
//     (see config.Config.Validate).

package builder

import "math"

// BuilderOption customizes the construction policy.
type BuilderOption func(*builderConfig)

// WithOverlapThreshold sets the smallest admitted overlap ratio.
// Panics unless 0 <= t <= 1.
func WithOverlapThreshold(t float64) BuilderOption {
	if !(t >= 0 && t <= 1) {
		panic("builder: WithOverlapThreshold(t outside [0,1])")
	}
	return func(c *builderConfig) { c.overlapThreshold = t }
}

// WithOverlapWeight sets the weight of admitted overlaps.
// Panics on negative or non-finite w.
func WithOverlapWeight(w float64) BuilderOption {
	mustWeight("WithOverlapWeight", w)
	return func(c *builderConfig) { c.overlapWeight = w }
}

// WithJunctionScale sets the multiplier of in-view line relation weights.
// Panics on negative or non-finite s.
func WithJunctionScale(s float64) BuilderOption {
	mustWeight("WithJunctionScale", s)
	return func(c *builderConfig) { c.junctionScale = s }
}

// WithCrossIncidenceWeight sets the weight of cross-view line incidences.
// Panics on negative or non-finite w.
func WithCrossIncidenceWeight(w float64) BuilderOption {
	mustWeight("WithCrossIncidenceWeight", w)
	return func(c *builderConfig) { c.crossIncidenceWeight = w }
}

func mustWeight(name string, w float64) {
	if !(w >= 0) || math.IsInf(w, 0) {
		panic("builder: " + name + "(negative or non-finite)")
	}
}
