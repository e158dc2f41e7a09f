package hnsw

import (
	"context"
	"log/slog"
)

// LevelStats describes one layer of the graph.
type LevelStats struct {
	Level          int
	Nodes          int
	Connections    int
	AvgConnections float64
}

// Stats is a snapshot of the graph shape.
type Stats struct {
	Nodes          int
	Dimension      int
	M              int
	EFConstruction int
	EFSearch       int
	LayerCap       int
	EntryPoint     uint32
	EntryLevel     int
	Levels         []LevelStats
}

// Stats returns per-level node and link counts.
func (g *Graph[T]) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	st := Stats{
		Nodes:          len(g.nodes),
		Dimension:      g.dim,
		M:              g.m,
		EFConstruction: g.opts.EFConstruction,
		EFSearch:       g.efSearch,
		LayerCap:       g.layerCap,
	}

	ep := g.entry.Load()
	if ep == nil {
		return st
	}
	st.EntryPoint = ep.id
	st.EntryLevel = ep.level

	st.Levels = make([]LevelStats, ep.level+1)
	for i := range st.Levels {
		st.Levels[i].Level = i
	}

	for _, n := range g.nodes {
		n.mu.RLock()
		for l := 0; l <= n.level && l < len(st.Levels); l++ {
			st.Levels[l].Nodes++
			st.Levels[l].Connections += len(n.links[l])
		}
		n.mu.RUnlock()
	}

	for i := range st.Levels {
		if st.Levels[i].Nodes > 0 {
			st.Levels[i].AvgConnections = float64(st.Levels[i].Connections) / float64(st.Levels[i].Nodes)
		}
	}

	return st
}

// LogStats writes the graph shape to the configured logger.
func (g *Graph[T]) LogStats(ctx context.Context) {
	st := g.Stats()

	g.logger.InfoContext(ctx, "hnsw stats",
		slog.Int("nodes", st.Nodes),
		slog.Int("dimension", st.Dimension),
		slog.Int("m", st.M),
		slog.Int("efConstruction", st.EFConstruction),
		slog.Int("efSearch", st.EFSearch),
		slog.Int("layerCap", st.LayerCap),
		slog.Int("entryLevel", st.EntryLevel),
	)
	for _, l := range st.Levels {
		g.logger.InfoContext(ctx, "hnsw level",
			slog.Int("level", l.Level),
			slog.Int("nodes", l.Nodes),
			slog.Int("connections", l.Connections),
			slog.Float64("avgConnections", l.AvgConnections),
		)
	}
}
