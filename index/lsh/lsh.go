// Package lsh implements an approximate backend based on sign random
// projections.
//
// Each of Tables hash tables draws Projections Gaussian hyperplanes. A
// vector's signature in a table is the bit pattern of the signs of its dot
// products with those hyperplanes, and documents sharing a signature share a
// bucket. A query unions its buckets across all tables and re-ranks the
// candidates by cosine distance.
package lsh

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/vecsim/distance"
	"github.com/hupe1980/vecsim/embed"
	"github.com/hupe1980/vecsim/index"
	"github.com/hupe1980/vecsim/internal/simd"
)

// maxProjections bounds the signature width to one uint32.
const maxProjections = 32

// Options configures an LSH backend.
type Options struct {
	index.Options

	// Projections is the number of hyperplanes per table.
	Projections int

	// Tables is the number of independent hash tables.
	Tables int

	// Seed drives hyperplane generation.
	Seed uint64
}

// DefaultOptions contains the default configuration.
var DefaultOptions = Options{
	Options:     index.DefaultOptions,
	Projections: 9,
	Tables:      30,
	Seed:        1,
}

type table struct {
	planes  [][]float32
	buckets map[uint32]*roaring.Bitmap
}

// Index is an LSH backend.
type Index struct {
	mu     sync.RWMutex
	dist   distance.Distance[float32]
	corpus *index.Corpus
	tables []table

	embed *index.Pipeline
	opts  Options
}

var _ index.Backend = (*Index)(nil)

// New creates an LSH backend.
func New(e embed.Embedder, optFns ...func(o *Options)) (*Index, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: nil embedder", index.ErrInvalidParameter)
	}

	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Options = index.ApplyOptions(func(o *index.Options) { *o = opts.Options })

	if opts.Projections <= 0 || opts.Projections > maxProjections {
		return nil, fmt.Errorf("%w: Projections must be in [1, %d], got %d", index.ErrInvalidParameter, maxProjections, opts.Projections)
	}
	if opts.Tables <= 0 {
		return nil, fmt.Errorf("%w: Tables must be positive, got %d", index.ErrInvalidParameter, opts.Tables)
	}

	return &Index{
		dist:   distance.Cosine[float32]{},
		corpus: &index.Corpus{},
		embed:  index.NewPipeline(e, opts.Options),
		opts:   opts,
	}, nil
}

// Kind returns index.KindLSH.
func (x *Index) Kind() index.Kind {
	return index.KindLSH
}

// Len returns the number of stored documents.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.corpus.Len()
}

// Load embeds texts and rebuilds the hash tables over all documents.
func (x *Index) Load(ctx context.Context, texts []string) error {
	if len(texts) == 0 {
		return nil
	}

	vecs, err := x.embed.Texts(ctx, texts)
	if err != nil {
		return err
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	next, err := x.corpus.Append(texts, vecs)
	if err != nil {
		return err
	}

	tables := x.tables
	if tables == nil {
		tables = newPlanes(x.opts.Seed, x.opts.Tables, x.opts.Projections, next.Dim)
	}
	tables = rebuild(tables, next)

	x.corpus = next
	x.tables = tables

	x.opts.Logger.DebugContext(ctx, "lsh load",
		slog.Int("added", len(texts)),
		slog.Int("total", next.Len()),
		slog.Int("tables", len(tables)),
	)

	return nil
}

// Query returns up to n documents sharing a bucket with text, ordered by
// cosine distance. The result is empty when no bucket matches.
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

	x.mu.RLock()
	c, tables := x.corpus, x.tables
	x.mu.RUnlock()

	if err := c.CheckQuery(q); err != nil {
		return nil, err
	}

	hits := make([]*roaring.Bitmap, 0, len(tables))
	for _, t := range tables {
		if b, ok := t.buckets[signature(t.planes, q)]; ok {
			hits = append(hits, b)
		}
	}
	if len(hits) == 0 {
		return []index.Document{}, nil
	}

	candidates := roaring.FastOr(hits...)

	scored := make([]index.Scored, 0, candidates.GetCardinality())
	it := candidates.Iterator()
	for it.HasNext() {
		pos := int(it.Next())
		doc := c.Docs[pos]
		score := x.dist.Eval(q, doc.Embedding)
		x.opts.Emit(ctx, index.TraceEvent{Backend: index.KindLSH, Text: doc.Text, Score: score})
		scored = append(scored, index.Scored{Pos: pos, Score: score})
	}

	return c.TopN(scored, n), nil
}

// newPlanes draws Gaussian hyperplanes for every table.
func newPlanes(seed uint64, tables, projections, dim int) []table {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	out := make([]table, tables)
	for i := range out {
		planes := make([][]float32, projections)
		for j := range planes {
			p := make([]float32, dim)
			for k := range p {
				p[k] = float32(rng.NormFloat64())
			}
			planes[j] = p
		}
		out[i] = table{planes: planes}
	}
	return out
}

// rebuild returns tables sharing planes with in and buckets covering every
// document in c.
func rebuild(in []table, c *index.Corpus) []table {
	out := make([]table, len(in))
	for i, t := range in {
		buckets := make(map[uint32]*roaring.Bitmap)
		for pos, doc := range c.Docs {
			sig := signature(t.planes, doc.Embedding)
			b, ok := buckets[sig]
			if !ok {
				b = roaring.New()
				buckets[sig] = b
			}
			b.Add(uint32(pos))
		}
		for _, b := range buckets {
			b.RunOptimize()
		}
		out[i] = table{planes: t.planes, buckets: buckets}
	}
	return out
}

// signature sets bit j when v lies on the non-negative side of plane j.
func signature(planes [][]float32, v []float32) uint32 {
	var sig uint32
	for j, p := range planes {
		if simd.Dot(p, v) >= 0 {
			sig |= 1 << j
		}
	}
	return sig
}
