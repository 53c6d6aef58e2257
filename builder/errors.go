// SPDX-License-Identifier: MIT
// Package: lvdepth/builder
//
// errors.go - sentinel errors for the builder package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Context is attached with %w at the call site.
//   • Validation panics are confined to option constructors (WithX...).

package builder

import (
	"errors"
	"fmt"
)

// ErrBadSize indicates an invalid count, e.g. BoxScene with no views.
var ErrBadSize = errors.New("builder: invalid size")

// ErrNoVanishingPoints indicates a scene without dominant directions.
var ErrNoVanishingPoints = errors.New("builder: scene has no vanishing points")

// ErrConstructFailed indicates that an element passed the skip policy but
// the graph rejected it (non-unit direction, bad class, bad weight, ...).
// The graph's own sentinel stays reachable through errors.Is.
var ErrConstructFailed = errors.New("builder: construction failed")

// builderErrorf returns "<method>: <message>: <err>" keeping err for errors.Is.
func builderErrorf(method string, err error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), err)
}
