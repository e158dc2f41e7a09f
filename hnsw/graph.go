package hnsw

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/vecsim/distance"
	"github.com/hupe1980/vecsim/internal/searcher"
	"golang.org/x/sync/errgroup"
)

// Neighbor is a link or a search result: a node id and its distance.
type Neighbor struct {
	ID       uint32
	Distance float32
}

type node[T any] struct {
	mu     sync.RWMutex
	vector []T
	level  int
	links  [][]Neighbor // links[l] for 0 <= l <= level
}

type entryPoint struct {
	id    uint32
	level int
}

type scratch struct {
	visited    *searcher.VisitedSet
	candidates *searcher.PriorityQueue
	results    *searcher.PriorityQueue
}

// Graph is an HNSW graph over vectors of T.
//
// Insert is exclusive; any number of searches may run concurrently between
// inserts. Nodes are never removed.
type Graph[T any] struct {
	mu sync.RWMutex

	dist     distance.Distance[T]
	opts     Options
	m        int
	m0       int
	efSearch int
	layerCap int
	dim      int

	nodes  []*node[T]
	entry  atomic.Pointer[entryPoint]
	levels *levelGenerator
	logger *slog.Logger

	scratchPool sync.Pool
}

// New creates an empty graph that measures distances with d.
func New[T any](d distance.Distance[T], optFns ...func(o *Options)) (*Graph[T], error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil distance", ErrInvalidParameter)
	}

	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := opts.validate(); err != nil {
		return nil, err
	}

	layerCap := opts.MaxLayer
	if layerCap == AutoMaxLayer {
		layerCap = LayerCapFor(opts.Capacity)
	}

	efSearch := opts.EFSearch
	if efSearch == 0 {
		efSearch = 2 * opts.M
	}

	if opts.Workers == 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	g := &Graph[T]{
		dist:     d,
		opts:     opts,
		m:        opts.M,
		m0:       2 * opts.M,
		efSearch: efSearch,
		layerCap: layerCap,
		nodes:    make([]*node[T], 0, max(opts.Capacity, 0)),
		levels:   newLevelGenerator(opts.Seed, opts.M, layerCap),
		logger:   logger,
	}

	g.scratchPool.New = func() any {
		return &scratch{
			visited:    searcher.NewVisitedSet(len(g.nodes)),
			candidates: searcher.NewPriorityQueue(false),
			results:    searcher.NewPriorityQueue(true),
		}
	}

	return g, nil
}

// Build creates a graph sized for vectors and inserts them.
func Build[T any](ctx context.Context, d distance.Distance[T], vectors [][]T, optFns ...func(o *Options)) (*Graph[T], error) {
	fns := make([]func(o *Options), 0, len(optFns)+1)
	fns = append(fns, func(o *Options) { o.Capacity = len(vectors) })
	fns = append(fns, optFns...)

	g, err := New(d, fns...)
	if err != nil {
		return nil, err
	}

	if err := g.Insert(ctx, vectors); err != nil {
		return nil, err
	}

	return g, nil
}

// Insert appends vectors to the graph and links them. Ids are assigned in
// order, starting at the current Len.
//
// All vectors are validated before anything is appended. If ctx is cancelled
// mid-batch the graph is left partially linked and must be discarded.
func (g *Graph[T]) Insert(ctx context.Context, vectors [][]T) error {
	if len(vectors) == 0 {
		return ctx.Err()
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	dim := g.dim
	if len(g.nodes) == 0 {
		dim = len(vectors[0])
	}
	if dim == 0 {
		return fmt.Errorf("%w: empty vector", ErrInvalidParameter)
	}
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("hnsw: vector %d: %w", i, &distance.DimensionError{Expected: dim, Actual: len(v)})
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	g.dim = dim
	first := len(g.nodes)
	for _, v := range vectors {
		level := g.levels.level()
		g.nodes = append(g.nodes, &node[T]{
			vector: slices.Clone(v),
			level:  level,
			links:  make([][]Neighbor, level+1),
		})
	}

	pending := make([]uint32, 0, len(vectors))
	for id := first; id < len(g.nodes); id++ {
		pending = append(pending, uint32(id))
	}

	if g.entry.Load() == nil {
		ep := pending[0]
		g.entry.Store(&entryPoint{id: ep, level: g.nodes[ep].level})
		pending = pending[1:]
	}

	if err := g.link(ctx, pending); err != nil {
		return err
	}

	g.logger.DebugContext(ctx, "hnsw batch linked",
		slog.Int("inserted", len(vectors)),
		slog.Int("total", len(g.nodes)),
		slog.Int("entryLevel", g.entry.Load().level),
	)

	return nil
}

// link connects the pending nodes using the worker pool.
func (g *Graph[T]) link(ctx context.Context, pending []uint32) error {
	if len(pending) == 0 {
		return nil
	}

	workers := min(g.opts.Workers, len(pending))

	eg, egCtx := errgroup.WithContext(ctx)

	var idx atomic.Int64
	for range workers {
		eg.Go(func() error {
			s := g.getScratch()
			defer g.scratchPool.Put(s)

			for {
				i := int(idx.Add(1) - 1)
				if i >= len(pending) {
					return nil
				}
				if err := egCtx.Err(); err != nil {
					return err
				}
				g.insertNode(s, pending[i])
			}
		})
	}

	return eg.Wait()
}

// Len returns the number of vectors in the graph.
func (g *Graph[T]) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Dimension returns the vector length, or 0 for an empty graph.
func (g *Graph[T]) Dimension() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.dim
}

// LayerCap returns the highest level a node can be assigned.
func (g *Graph[T]) LayerCap() int {
	return g.layerCap
}

// EntryPoint returns the entry node and its level.
func (g *Graph[T]) EntryPoint() (id uint32, level int, ok bool) {
	ep := g.entry.Load()
	if ep == nil {
		return 0, 0, false
	}
	return ep.id, ep.level, true
}

// Vector returns the stored vector for id. The slice must not be modified.
func (g *Graph[T]) Vector(id uint32) ([]T, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if int(id) >= len(g.nodes) {
		return nil, false
	}
	return g.nodes[id].vector, true
}

// Level returns the level assigned to id.
func (g *Graph[T]) Level(id uint32) (int, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if int(id) >= len(g.nodes) {
		return 0, false
	}
	return g.nodes[id].level, true
}

// Neighbors returns a copy of the links of id on level.
func (g *Graph[T]) Neighbors(id uint32, level int) []Neighbor {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if int(id) >= len(g.nodes) {
		return nil
	}

	n := g.nodes[id]
	n.mu.RLock()
	defer n.mu.RUnlock()
	if level < 0 || level >= len(n.links) {
		return nil
	}
	return slices.Clone(n.links[level])
}

func (g *Graph[T]) getScratch() *scratch {
	return g.scratchPool.Get().(*scratch)
}

func (g *Graph[T]) maxConns(level int) int {
	if level == 0 {
		return g.m0
	}
	return g.m
}
