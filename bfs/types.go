// File: types.go
// Role: BFS options, sentinel errors and the result type.

package bfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/lvdepth/core"
)

var (
	// ErrStartNotFound: the start unary is not in the graph or is filtered out.
	ErrStartNotFound = errors.New("bfs: start unary not found")

	// ErrUnreachable: PathTo was asked for a unary the walk never reached.
	ErrUnreachable = errors.New("bfs: unary not reached")

	// ErrGraphNil: nil *core.MixedGraph.
	ErrGraphNil = errors.New("bfs: graph is nil")

	// ErrOptionViolation: an option value outside its domain.
	ErrOptionViolation = errors.New("bfs: invalid option supplied")
)

// Option mutates BFSOptions. Invalid values are remembered and reported by
// BFS or ConnectedComponents as ErrOptionViolation before any work starts.
type Option func(*BFSOptions)

// BFSOptions is the resolved walk configuration.
type BFSOptions struct {
	// Ctx is polled once per dequeued unary.
	Ctx context.Context

	// OnVisit runs when a unary is dequeued; a non-nil error ends the walk.
	OnVisit func(u core.UnaryHandle, depth int) error

	// MaxDepth bounds the hop count from the start; 0 means unbounded.
	MaxDepth int

	// FilterBinary skips relations by returning false.
	FilterBinary func(b core.BinaryHandle) bool

	// FilterUnary skips unaries by returning false. A filtered unary is
	// never entered, even if a permitted binary reaches it.
	FilterUnary func(u core.UnaryHandle) bool

	err error
}

// DefaultOptions walks everything reachable, unbounded, with a background
// context and a no-op hook.
func DefaultOptions() BFSOptions {
	return BFSOptions{
		Ctx:          context.Background(),
		OnVisit:      func(core.UnaryHandle, int) error { return nil },
		MaxDepth:     0,
		FilterBinary: func(core.BinaryHandle) bool { return true },
		FilterUnary:  func(core.UnaryHandle) bool { return true },
	}
}

// WithContext makes the walk stop with ctx.Err() once ctx is done.
func WithContext(ctx context.Context) Option {
	return func(o *BFSOptions) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithOnVisit installs the per-unary hook. A nil fn is ignored.
func WithOnVisit(fn func(u core.UnaryHandle, depth int) error) Option {
	return func(o *BFSOptions) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// WithMaxDepth keeps unaries at most d binaries away from the start.
// Zero removes the bound; a negative d is an ErrOptionViolation.
func WithMaxDepth(d int) Option {
	return func(o *BFSOptions) {
		switch {
		case d < 0:
			o.err = fmt.Errorf("%w: negative max depth %d", ErrOptionViolation, d)
		default:
			o.MaxDepth = d
		}
	}
}

// WithFilterBinary restricts the walk to binaries for which fn returns true.
func WithFilterBinary(fn func(b core.BinaryHandle) bool) Option {
	return func(o *BFSOptions) {
		if fn != nil {
			o.FilterBinary = fn
		}
	}
}

// WithFilterUnary restricts the walk to unaries for which fn returns true.
func WithFilterUnary(fn func(u core.UnaryHandle) bool) Option {
	return func(o *BFSOptions) {
		if fn != nil {
			o.FilterUnary = fn
		}
	}
}

// BFSResult is the visit tree of one walk. Parent and Via are absent for
// the start unary.
type BFSResult struct {
	Order  []core.UnaryHandle
	Depth  map[core.UnaryHandle]int
	Parent map[core.UnaryHandle]core.UnaryHandle
	Via    map[core.UnaryHandle]core.BinaryHandle
}

// PathTo returns the unaries from the start to dest along the visit tree.
// dest must have been reached.
func (r *BFSResult) PathTo(dest core.UnaryHandle) ([]core.UnaryHandle, error) {
	d, ok := r.Depth[dest]
	if !ok {
		return nil, fmt.Errorf("PathTo(%d): %w", dest, ErrUnreachable)
	}
	path := make([]core.UnaryHandle, d+1)
	cur := dest
	for i := d; i >= 0; i-- {
		path[i] = cur
		cur = r.Parent[cur]
	}

	return path, nil
}
