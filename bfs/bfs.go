package bfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/lvdepth/core"
)

// ErrNeighbors wraps a failed incidence lookup on the graph.
var ErrNeighbors = errors.New("bfs: neighbor iteration error")

// queueItem is one pending unary and its hop count.
type queueItem struct {
	id    core.UnaryHandle
	depth int
}

// walker is the state of one walk. ConnectedComponents hands the same
// visited set to consecutive walkers.
type walker struct {
	graph   *core.MixedGraph
	opts    BFSOptions
	ctx     context.Context
	queue   []queueItem
	visited map[core.UnaryHandle]bool
	res     *BFSResult
}

// BFS visits the unaries reachable from start, nearest first, through
// binaries and unaries admitted by the filters.
//
// Errors: ErrGraphNil, ErrStartNotFound, ErrOptionViolation, ErrNeighbors,
// ctx.Err(), or the OnVisit error (wrapped). The partial result is returned
// alongside a walk error.
func BFS(g *core.MixedGraph, start core.UnaryHandle, opts ...Option) (*BFSResult, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if !g.HasUnary(start) || !o.FilterUnary(start) {
		return nil, fmt.Errorf("%w: %d", ErrStartNotFound, start)
	}

	w := newWalker(g, o, make(map[core.UnaryHandle]bool, g.UnaryCount()))
	w.enqueue(start, 0, start, -1)

	return w.res, w.loop()
}

func newWalker(g *core.MixedGraph, o BFSOptions, visited map[core.UnaryHandle]bool) *walker {
	return &walker{
		graph:   g,
		opts:    o,
		ctx:     o.Ctx,
		visited: visited,
		res: &BFSResult{
			Depth:  make(map[core.UnaryHandle]int),
			Parent: make(map[core.UnaryHandle]core.UnaryHandle),
			Via:    make(map[core.UnaryHandle]core.BinaryHandle),
		},
	}
}

// enqueue marks id visited at depth d and records how it was reached.
// via < 0 marks the root.
func (w *walker) enqueue(id core.UnaryHandle, d int, parent core.UnaryHandle, via core.BinaryHandle) {
	w.visited[id] = true
	w.res.Depth[id] = d
	if via >= 0 {
		w.res.Parent[id] = parent
		w.res.Via[id] = via
	}
	w.queue = append(w.queue, queueItem{id: id, depth: d})
}

// loop drains the queue.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]
		w.res.Order = append(w.res.Order, item.id)
		if err := w.opts.OnVisit(item.id, item.depth); err != nil {
			return fmt.Errorf("bfs: OnVisit error at %d: %w", item.id, err)
		}
		if err := w.enqueueNeighbors(item); err != nil {
			return err
		}
	}

	return nil
}

// enqueueNeighbors walks every permitted binary of item and enqueues
// each unseen, permitted opposite endpoint.
func (w *walker) enqueueNeighbors(item queueItem) error {
	nextDepth := item.depth + 1
	if w.opts.MaxDepth > 0 && nextDepth > w.opts.MaxDepth {
		return nil
	}
	bhs, uhs, err := w.graph.NeighborUnaries(item.id)
	if err != nil {
		return fmt.Errorf("%w: unary %d: %v", ErrNeighbors, item.id, err)
	}
	for i, bh := range bhs {
		nbr := uhs[i]
		if w.visited[nbr] || !w.opts.FilterBinary(bh) || !w.opts.FilterUnary(nbr) {
			continue
		}
		w.enqueue(nbr, nextDepth, item.id, bh)
	}

	return nil
}
