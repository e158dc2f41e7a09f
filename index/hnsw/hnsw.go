// Package hnsw serves documents from an HNSW graph.
//
// Every Load rebuilds the graph over the union of the old and new documents
// and swaps it in only when the build succeeded.
package hnsw

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/hupe1980/vecsim/distance"
	"github.com/hupe1980/vecsim/embed"
	graph "github.com/hupe1980/vecsim/hnsw"
	"github.com/hupe1980/vecsim/index"
)

// Options configures a graph backend.
type Options struct {
	index.Options

	// M is the maximum number of links per node per layer (2*M on layer 0).
	M int

	// EFConstruction is the candidate list size used while building.
	EFConstruction int

	// EFSearch is the candidate list size used by queries. Zero means 2*M.
	EFSearch int

	// Workers bounds build parallelism. Zero means GOMAXPROCS.
	Workers int

	// Seed makes level assignment reproducible.
	Seed *uint64
}

// DefaultOptions contains the default configuration.
var DefaultOptions = Options{
	Options:        index.DefaultOptions,
	M:              15,
	EFConstruction: 200,
}

// Index is a graph-backed backend.
type Index struct {
	mu     sync.RWMutex
	kind   index.Kind
	dist   distance.Distance[float32]
	corpus *index.Corpus
	graph  *graph.Graph[float32]

	embed *index.Pipeline
	opts  Options
}

var _ index.Backend = (*Index)(nil)

// New creates a graph backend for one of the Hnsw kinds.
func New(kind index.Kind, e embed.Embedder, optFns ...func(o *Options)) (*Index, error) {
	if !kind.IsGraph() {
		return nil, fmt.Errorf("%w: hnsw does not serve %s", index.ErrUnknownBackend, kind)
	}
	if e == nil {
		return nil, fmt.Errorf("%w: nil embedder", index.ErrInvalidParameter)
	}

	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Options = index.ApplyOptions(func(o *index.Options) { *o = opts.Options })

	if opts.M <= 0 || opts.EFConstruction <= 0 || opts.EFSearch < 0 || opts.Workers < 0 {
		return nil, fmt.Errorf("%w: M=%d EFConstruction=%d EFSearch=%d Workers=%d",
			index.ErrInvalidParameter, opts.M, opts.EFConstruction, opts.EFSearch, opts.Workers)
	}

	d, err := distance.Float32(kind.Metric())
	if err != nil {
		return nil, err
	}

	return &Index{
		kind:   kind,
		dist:   d,
		corpus: &index.Corpus{},
		embed:  index.NewPipeline(e, opts.Options),
		opts:   opts,
	}, nil
}

// Kind returns the backend variant.
func (x *Index) Kind() index.Kind {
	return x.kind
}

// Len returns the number of stored documents.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.corpus.Len()
}

// Stats describes the current graph. It is zero before the first Load.
func (x *Index) Stats() graph.Stats {
	x.mu.RLock()
	g := x.graph
	x.mu.RUnlock()

	if g == nil {
		return graph.Stats{}
	}
	return g.Stats()
}

// Load embeds texts and rebuilds the graph over all documents.
func (x *Index) Load(ctx context.Context, texts []string) error {
	if len(texts) == 0 {
		return nil
	}

	vecs, err := x.embed.Texts(ctx, texts)
	if err != nil {
		return err
	}
	vecs = x.prepare(vecs)

	x.mu.Lock()
	defer x.mu.Unlock()

	next, err := x.corpus.Append(texts, vecs)
	if err != nil {
		return err
	}

	g, err := graph.Build(ctx, x.dist, next.Embeddings(), x.graphOptions)
	if err != nil {
		return err
	}

	x.corpus = next
	x.graph = g

	st := g.Stats()
	x.opts.Logger.DebugContext(ctx, "hnsw load",
		slog.String("backend", x.kind.String()),
		slog.Int("added", len(texts)),
		slog.Int("total", next.Len()),
		slog.Int("layerCap", st.LayerCap),
		slog.Int("entryLevel", st.EntryLevel),
	)

	return nil
}

// Query returns the n documents closest to text.
func (x *Index) Query(ctx context.Context, text string, n int) ([]index.Document, error) {
	if err := index.CheckN(n); err != nil {
		return nil, err
	}

	if x.Len() == 0 {
		return []index.Document{}, nil
	}

	q, err := x.embed.Query(ctx, text)
	if err != nil {
		return nil, err
	}
	q = x.prepare([][]float32{q})[0]

	x.mu.RLock()
	c, g := x.corpus, x.graph
	x.mu.RUnlock()

	if err := c.CheckQuery(q); err != nil {
		return nil, err
	}

	neighbors, err := g.Search(ctx, q, n)
	if err != nil {
		return nil, err
	}

	out := make([]index.Document, len(neighbors))
	for i, nb := range neighbors {
		x.opts.Emit(ctx, index.TraceEvent{Backend: x.kind, Text: c.Docs[nb.ID].Text, Score: nb.Distance})
		out[i] = c.Result(int(nb.ID), nb.Distance)
	}
	return out, nil
}

func (x *Index) graphOptions(o *graph.Options) {
	o.M = x.opts.M
	o.EFConstruction = x.opts.EFConstruction
	o.EFSearch = x.opts.EFSearch
	o.Workers = x.opts.Workers
	o.Seed = x.opts.Seed
	o.MaxLayer = graph.AutoMaxLayer
	o.Logger = x.opts.Logger
}

// prepare L2-normalises copies of the vectors for the Dot kind, which
// assumes unit-norm inputs. Zero vectors stay zero.
func (x *Index) prepare(vecs [][]float32) [][]float32 {
	if x.kind != index.KindHnswDot {
		return vecs
	}

	out := make([][]float32, len(vecs))
	for i, v := range vecs {
		c := slices.Clone(v)
		distance.NormalizeL2InPlace(c)
		out[i] = c
	}
	return out
}
