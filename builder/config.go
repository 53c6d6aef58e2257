// SPDX-License-Identifier: MIT
// Package: lvdepth/builder
//
// config.go - resolved construction policy.
//
// Design:
//   • builderConfig is the single source of truth for all builder knobs.
//   • Defaults are the named constants in constants.go; no globals.
//   • newBuilderConfig applies options in order (later overrides earlier).

package builder

// builderConfig aggregates the construction policy. Passed by value.
type builderConfig struct {
	overlapThreshold     float64 // in [0,1]
	overlapWeight        float64 // >= 0
	junctionScale        float64 // >= 0
	crossIncidenceWeight float64 // >= 0
}

// newBuilderConfig returns the defaults with opts applied in order.
// Complexity: O(len(opts)).
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		overlapThreshold:     DefaultOverlapThreshold,
		overlapWeight:        DefaultOverlapWeight,
		junctionScale:        DefaultJunctionScale,
		crossIncidenceWeight: DefaultCrossIncidenceWeight,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
