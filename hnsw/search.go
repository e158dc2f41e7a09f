package hnsw

import (
	"context"
	"fmt"

	"github.com/hupe1980/vecsim/distance"
)

// Search returns the k nearest neighbours of q ordered by ascending distance,
// ties broken by id. It uses the graph's default EFSearch.
func (g *Graph[T]) Search(ctx context.Context, q []T, k int) ([]Neighbor, error) {
	return g.SearchEF(ctx, q, k, g.efSearch)
}

// SearchEF is Search with an explicit candidate list size. The effective
// width is max(ef, k).
//
// An empty graph yields an empty result. If k is at least Len the result is
// exact and contains every vector.
func (g *Graph[T]) SearchEF(ctx context.Context, q []T, k, ef int) ([]Neighbor, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidParameter, k)
	}
	if ef <= 0 {
		return nil, fmt.Errorf("%w: ef must be positive, got %d", ErrInvalidParameter, ef)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	if len(g.nodes) == 0 {
		return []Neighbor{}, nil
	}
	if len(q) != g.dim {
		return nil, &distance.DimensionError{Expected: g.dim, Actual: len(q)}
	}

	if k >= len(g.nodes) {
		return g.bruteSearch(q, len(g.nodes)), nil
	}

	ep := g.entry.Load()
	cur := Neighbor{ID: ep.id, Distance: g.dist.Eval(q, g.nodes[ep.id].vector)}
	cur = g.greedy(q, cur, ep.level, 0)

	s := g.getScratch()
	defer g.scratchPool.Put(s)

	results := g.searchLayer(s, q, cur, max(ef, k), 0)
	if len(results) > k {
		results = results[:k]
	}

	return results, nil
}

// BruteSearch scores every vector and returns the exact k nearest.
func (g *Graph[T]) BruteSearch(ctx context.Context, q []T, k int) ([]Neighbor, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidParameter, k)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	if len(g.nodes) == 0 {
		return []Neighbor{}, nil
	}
	if len(q) != g.dim {
		return nil, &distance.DimensionError{Expected: g.dim, Actual: len(q)}
	}

	return g.bruteSearch(q, k), nil
}

func (g *Graph[T]) bruteSearch(q []T, k int) []Neighbor {
	all := make([]Neighbor, len(g.nodes))
	for i, n := range g.nodes {
		all[i] = Neighbor{ID: uint32(i), Distance: g.dist.Eval(q, n.vector)}
	}
	sortNeighbors(all)
	return all[:min(k, len(all))]
}
