package hnsw

import (
	"slices"

	"github.com/hupe1980/vecsim/internal/searcher"
)

// insertNode links an appended node into every layer up to its level.
func (g *Graph[T]) insertNode(s *scratch, id uint32) {
	n := g.nodes[id]
	q := n.vector

	ep := g.entry.Load()
	cur := Neighbor{ID: ep.id, Distance: g.dist.Eval(q, g.nodes[ep.id].vector)}

	// 1. Greedy descent through the layers above the node's level.
	cur = g.greedy(q, cur, ep.level, n.level)

	// 2. Search and link from min(level, entry level) down to 0.
	for level := min(n.level, ep.level); level >= 0; level-- {
		candidates := g.searchLayer(s, q, cur, g.opts.EFConstruction, level)
		candidates = slices.DeleteFunc(candidates, func(c Neighbor) bool { return c.ID == id })
		if len(candidates) == 0 {
			continue
		}
		cur = candidates[0]

		neighbors := g.selectNeighbors(candidates, g.maxConns(level))

		n.mu.Lock()
		// A concurrent insert that started from this node may already
		// have linked back to it on this level.
		if existing := n.links[level]; len(existing) > 0 {
			neighbors = g.mergeLinks(neighbors, existing, level)
		}
		n.links[level] = neighbors
		n.mu.Unlock()

		for _, nb := range neighbors {
			g.addConnection(nb.ID, id, nb.Distance, level)
		}
	}

	g.updateEntryPoint(id, n.level)
}

// updateEntryPoint promotes id to entry point if its level is higher than
// the current entry's.
func (g *Graph[T]) updateEntryPoint(id uint32, level int) {
	next := &entryPoint{id: id, level: level}
	for {
		old := g.entry.Load()
		if old != nil && level <= old.level {
			return
		}
		if g.entry.CompareAndSwap(old, next) {
			return
		}
	}
}

// addConnection adds the reverse edge target -> source on level, pruning the
// target's list when it overflows. Only the target's lock is held.
func (g *Graph[T]) addConnection(target, source uint32, dist float32, level int) {
	n := g.nodes[target]

	n.mu.Lock()
	defer n.mu.Unlock()

	if level >= len(n.links) {
		return
	}

	links := n.links[level]
	for _, l := range links {
		if l.ID == source {
			return
		}
	}

	maxConns := g.maxConns(level)
	if len(links) < maxConns {
		n.links[level] = append(links, Neighbor{ID: source, Distance: dist})
		return
	}

	candidates := make([]Neighbor, 0, len(links)+1)
	candidates = append(candidates, links...)
	candidates = append(candidates, Neighbor{ID: source, Distance: dist})
	sortNeighbors(candidates)

	n.links[level] = g.selectNeighbors(candidates, maxConns)
}

func (g *Graph[T]) mergeLinks(selected, existing []Neighbor, level int) []Neighbor {
	merged := slices.Clone(selected)
	for _, e := range existing {
		if !slices.ContainsFunc(merged, func(s Neighbor) bool { return s.ID == e.ID }) {
			merged = append(merged, e)
		}
	}
	sortNeighbors(merged)
	return g.selectNeighbors(merged, g.maxConns(level))
}

// selectNeighbors picks at most m links from candidates sorted by distance.
// The result is a fresh slice.
func (g *Graph[T]) selectNeighbors(candidates []Neighbor, m int) []Neighbor {
	if !g.opts.Heuristic || len(candidates) <= m {
		return slices.Clone(candidates[:min(m, len(candidates))])
	}

	result := g.applyHeuristic(candidates, m)
	if len(result) < m {
		result = fillUpNeighbors(result, candidates, m)
	}
	return result
}

// applyHeuristic keeps a candidate only if it is at least as close to the
// base node as to every neighbour selected so far.
func (g *Graph[T]) applyHeuristic(candidates []Neighbor, m int) []Neighbor {
	result := make([]Neighbor, 0, m)

	for _, cand := range candidates {
		if len(result) >= m {
			break
		}

		candVec := g.nodes[cand.ID].vector
		good := true
		for _, r := range result {
			if g.dist.Eval(candVec, g.nodes[r.ID].vector) < cand.Distance {
				good = false
				break
			}
		}

		if good {
			result = append(result, cand)
		}
	}

	return result
}

// fillUpNeighbors tops result up to m with the closest pruned candidates.
func fillUpNeighbors(result, candidates []Neighbor, m int) []Neighbor {
	for _, cand := range candidates {
		if len(result) >= m {
			break
		}
		if !slices.ContainsFunc(result, func(r Neighbor) bool { return r.ID == cand.ID }) {
			result = append(result, cand)
		}
	}
	return result
}

// greedy walks from cur towards q on every layer in (to, from], keeping the
// single closest node.
func (g *Graph[T]) greedy(q []T, cur Neighbor, from, to int) Neighbor {
	for level := from; level > to; level-- {
		changed := true
		for changed {
			changed = false

			n := g.nodes[cur.ID]
			n.mu.RLock()
			if level < len(n.links) {
				for _, nb := range n.links[level] {
					d := g.dist.Eval(q, g.nodes[nb.ID].vector)
					if (searcher.PriorityQueueItem{Node: nb.ID, Distance: d}).Before(
						searcher.PriorityQueueItem{Node: cur.ID, Distance: cur.Distance}) {
						cur = Neighbor{ID: nb.ID, Distance: d}
						changed = true
					}
				}
			}
			n.mu.RUnlock()
		}
	}
	return cur
}

// searchLayer runs a best-first search of width ef on level starting at ep
// and returns the results sorted by (distance, id).
func (g *Graph[T]) searchLayer(s *scratch, q []T, ep Neighbor, ef int, level int) []Neighbor {
	s.visited.Reset()
	s.candidates.Reset()
	s.results.Reset()

	s.visited.Visit(ep.ID)
	start := searcher.PriorityQueueItem{Node: ep.ID, Distance: ep.Distance}
	s.candidates.PushItem(start)
	s.results.PushItem(start)

	for s.candidates.Len() > 0 {
		c, _ := s.candidates.PopItem()
		worst, _ := s.results.TopItem()
		if s.results.Len() >= ef && worst.Before(c) {
			break
		}

		n := g.nodes[c.Node]
		n.mu.RLock()
		if level < len(n.links) {
			for _, nb := range n.links[level] {
				if !s.visited.Visit(nb.ID) {
					continue
				}

				item := searcher.PriorityQueueItem{
					Node:     nb.ID,
					Distance: g.dist.Eval(q, g.nodes[nb.ID].vector),
				}
				if s.results.PushItemBounded(item, ef) {
					s.candidates.PushItem(item)
				}
			}
		}
		n.mu.RUnlock()
	}

	out := make([]Neighbor, 0, s.results.Len())
	for _, item := range s.results.Items() {
		out = append(out, Neighbor{ID: item.Node, Distance: item.Distance})
	}
	sortNeighbors(out)
	return out
}

func sortNeighbors(ns []Neighbor) {
	slices.SortFunc(ns, compareNeighbors)
}

func compareNeighbors(a, b Neighbor) int {
	switch {
	case a.Distance < b.Distance:
		return -1
	case a.Distance > b.Distance:
		return 1
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	default:
		return 0
	}
}
