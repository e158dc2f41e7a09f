// Package flat implements exact brute-force backends.
//
// Every query scores every stored document, so results are exact. Cosine
// scores are 1 - cosine similarity; Euclidean scores are L2 distances.
package flat

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hupe1980/vecsim/distance"
	"github.com/hupe1980/vecsim/embed"
	"github.com/hupe1980/vecsim/index"
)

// Flat is a brute-force backend.
type Flat struct {
	mu     sync.RWMutex
	kind   index.Kind
	dist   distance.Distance[float32]
	corpus *index.Corpus

	embed *index.Pipeline
	opts  index.Options
}

var _ index.Backend = (*Flat)(nil)

// New creates a brute-force backend. kind must be KindCosine or
// KindEuclidean.
func New(kind index.Kind, e embed.Embedder, optFns ...func(o *index.Options)) (*Flat, error) {
	if kind != index.KindCosine && kind != index.KindEuclidean {
		return nil, fmt.Errorf("%w: flat does not serve %s", index.ErrUnknownBackend, kind)
	}
	if e == nil {
		return nil, fmt.Errorf("%w: nil embedder", index.ErrInvalidParameter)
	}

	d, err := distance.Float32(kind.Metric())
	if err != nil {
		return nil, err
	}

	opts := index.ApplyOptions(optFns...)

	return &Flat{
		kind:   kind,
		dist:   d,
		corpus: &index.Corpus{},
		embed:  index.NewPipeline(e, opts),
		opts:   opts,
	}, nil
}

// NewCosine creates a brute-force cosine backend.
func NewCosine(e embed.Embedder, optFns ...func(o *index.Options)) (*Flat, error) {
	return New(index.KindCosine, e, optFns...)
}

// NewEuclidean creates a brute-force Euclidean backend.
func NewEuclidean(e embed.Embedder, optFns ...func(o *index.Options)) (*Flat, error) {
	return New(index.KindEuclidean, e, optFns...)
}

// Kind returns the backend variant.
func (f *Flat) Kind() index.Kind {
	return f.kind
}

// Len returns the number of stored documents.
func (f *Flat) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.corpus.Len()
}

// Load embeds texts and appends them.
func (f *Flat) Load(ctx context.Context, texts []string) error {
	if len(texts) == 0 {
		return nil
	}

	vecs, err := f.embed.Texts(ctx, texts)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := f.corpus.Append(texts, vecs)
	if err != nil {
		return err
	}
	f.corpus = next

	f.opts.Logger.DebugContext(ctx, "flat load",
		slog.String("backend", f.kind.String()),
		slog.Int("added", len(texts)),
		slog.Int("total", next.Len()),
	)

	return nil
}

// Query returns the n documents closest to text.
func (f *Flat) Query(ctx context.Context, text string, n int) ([]index.Document, error) {
	if err := index.CheckN(n); err != nil {
		return nil, err
	}

	if f.Len() == 0 {
		return []index.Document{}, nil
	}

	q, err := f.embed.Query(ctx, text)
	if err != nil {
		return nil, err
	}

	f.mu.RLock()
	c := f.corpus
	f.mu.RUnlock()

	if err := c.CheckQuery(q); err != nil {
		return nil, err
	}

	scored := make([]index.Scored, c.Len())
	for i, doc := range c.Docs {
		score := f.dist.Eval(q, doc.Embedding)
		f.opts.Emit(ctx, index.TraceEvent{Backend: f.kind, Text: doc.Text, Score: score})
		scored[i] = index.Scored{Pos: i, Score: score}
	}

	return c.TopN(scored, n), nil
}
